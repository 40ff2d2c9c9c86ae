// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client so a registry snapshot can be fetched from an
// S3-compatible bucket instead of the public IEEE endpoint (useful for
// air-gapped deployments that mirror the registry dump internally). The
// abstraction supports both AWS S3 and self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it
// easy to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Operations
//
//   - BucketExists: Verifies access to the target bucket.
//   - GetObject: Retrieves the registry dump as a stream.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	body, err := client.GetObject(ctx, "mirrors", "oui.txt", minio.GetObjectOptions{})
package storage
