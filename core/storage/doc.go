// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind a small Client interface. The contest feature
// uses it to archive the normalized batch of every full resync, so a past upstream
// state can be inspected or replayed with `contest-sync sync --from-snapshot`.
// Works against AWS S3 and self-hosted MinIO.
//
// # Operations
//
//   - BucketExists / MakeBucket: used by EnsureBucket at startup.
//   - PutObject: writes a snapshot.
//   - GetObject: reads a snapshot back.
//   - ListObjects: finds the latest snapshot of a provider.
//
// The mocks sub-package holds a testify mock of Client.
package storage
