// Package testutil contains helper builders used across tests to reduce
// boilerplate when constructing stream events, request bodies and scripted
// model factories. It is not intended for production usage.
package testutil
