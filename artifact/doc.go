// Package artifact stores downloadable portfolio files (the resume PDF, images)
// behind a small key/value interface. InMemoryStore serves local files and
// tests; the s3 subpackage serves objects from any S3-compatible bucket such
// as Supabase Storage.
package artifact
