// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client for the few operations the honors pipeline needs:
// reading honor snapshots published by the source feed, listing snapshot prefixes
// to find the newest one, and uploading machine-readable sync reports.
// Both AWS S3 and self-hosted MinIO are supported.
//
// The Client interface is mocked in core/storage/mocks for unit tests.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	rc, err := client.GetObject(ctx, "honors", "snapshots/2024.json", minio.GetObjectOptions{})
package storage
