// Package tokencache provides a file-backed JSON cache for OAuth tokens.
//
// The cache is read and written wholesale: every write replaces the entire
// file, there are no partial updates and no schema versioning. Reads report a
// tagged Status so callers can tell a normal first-run absence apart from a
// corrupt file.
package tokencache
