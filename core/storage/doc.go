// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface so that S3 and
// self-hosted MinIO work alike, and so storage can be mocked in tests
// (see core/storage/mocks).
//
// Datasets are read from the bucket's "datasets/" folder and scene snapshots
// are exported to "scenes/". The helpers in objects.go cover those uses:
//
//   - ReadObject: download an object into memory.
//   - PutBytes: upload a byte slice.
//   - FolderExists / CreateFolder: check and create the required folders.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	data, err := storage.ReadObject(ctx, client, cfg.Storage.Bucket, "datasets/points.csv")
package storage
