// Package hash provides the checksum used by snapshot blobs.
//
// Snapshots are checksummed with CRC32-Castagnoli, computed with hardware
// instructions on x86-64 (SSE4.2) and arm64.
//
//	sum := hash.CRC32C(payload)
package hash
