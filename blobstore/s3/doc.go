// Package s3 provides Amazon S3 implementations of blobstore.BlobStore.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	client := awss3.NewFromConfig(cfg)
//	store := s3.NewStore(client, "my-bucket", "relax/")
//
//	eng := relax.New(relax.WithStore(store))
//
// Store alone gives last-writer-wins semantics for CURRENT pointers. Wrap it
// in a DDBCommitStore when several processes save the same layout name:
//
//	commits := s3.NewDDBCommitStore(store, dynamodb.NewFromConfig(cfg),
//	    "relax-commits", "s3://my-bucket/relax")
//
// # Features
//
//   - Range reads for partial fetches
//   - Managed (multipart) uploads with CRC32C checksums
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
