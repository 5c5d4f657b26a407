// Package util holds small internal helpers shared by folio packages.
package util
