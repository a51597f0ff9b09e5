package checks

import (
	"context"
	"fmt"
	"strings"

	"contest-sync/core/storage"

	"github.com/minio/minio-go/v7"
)

// SnapshotPrefix is where the contest archive writes snapshots.
const SnapshotPrefix = "snapshots/"

// StorageReport strictly types the result of a storage check.
type StorageReport struct {
	Bucket    string `json:"bucket"`
	Exists    bool   `json:"exists"`
	Snapshots int    `json:"snapshots"`
	Latest    string `json:"latest,omitempty"`
}

// CheckStorage reports whether the snapshot bucket exists and what it holds.
func CheckStorage(ctx context.Context, client storage.Client, bucket string) (*StorageReport, error) {
	report := &StorageReport{Bucket: bucket}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return report, nil
	}
	report.Exists = true

	opts := minio.ListObjectsOptions{
		Prefix:    SnapshotPrefix,
		Recursive: true,
	}
	for obj := range client.ListObjects(ctx, bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list snapshots: %w", obj.Err)
		}
		if !strings.HasSuffix(obj.Key, ".json") {
			continue
		}
		report.Snapshots++
		if obj.Key > report.Latest {
			report.Latest = obj.Key
		}
	}

	return report, nil
}

// FixStorage creates the bucket when it is missing.
func FixStorage(ctx context.Context, client storage.Client, bucket, region string) error {
	return storage.EnsureBucket(ctx, client, bucket, region)
}
