// Package blobstore provides storage abstraction for layout snapshots.
//
// BlobStore is the interface for reading and writing immutable blobs.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-process map, for tests and ephemeral engines
//   - LocalStore: local filesystem with mmap reads and atomic writes
//   - s3.Store: Amazon S3 with range reads and managed uploads
//   - s3.DDBCommitStore: S3 plus DynamoDB for atomic CURRENT pointers
//   - minio.Store: MinIO and other S3-compatible storage
//
// # Custom Implementations
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	    Put(ctx, name, data) error
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
//
// Names use forward slashes regardless of platform. A blob named CURRENT
// holds the name of the latest snapshot in its directory.
package blobstore
