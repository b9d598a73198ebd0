// Package storage archives documents in S3-compatible object storage.
//
// It wraps the MinIO Go client behind the Client interface so the archive can
// be mocked in tests (see core/storage/mocks). Archive layers JSON encoding and
// a fixed object prefix on top of it; reconciliation reports are stored this
// way so operators can compare runs. Config.Validate rejects an empty endpoint,
// an endpoint carrying a path and a bucket name S3 would refuse.
//
// # Usage
//
//	archive, err := storage.Open(cfg.Storage)
//	if err := archive.EnsureBucket(ctx); err != nil { ... }
//	object, err := archive.PutJSON(ctx, "2026-02-11/report.json", plan)
package storage
