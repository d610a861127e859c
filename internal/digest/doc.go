// Package digest computes content digests for image files.
//
// A digest is the MD5 of the file's raw bytes, hex encoded in lowercase. It
// identifies a file by content only, never by path or decoded pixels, and
// doubles as the lookup key for the remote image store. It is a cache key,
// not a security boundary.
//
// Files are streamed through the hash in fixed-size chunks, so memory use
// does not grow with file size.
package digest
