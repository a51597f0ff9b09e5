package contest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"contest-sync/core/storage"
	"contest-sync/feature/contest/models"

	"github.com/minio/minio-go/v7"
	"k8s.io/utils/clock"
)

// snapshotPrefix is the object key prefix of every snapshot.
const snapshotPrefix = "snapshots/"

// ErrNoSnapshot is returned when the bucket holds no snapshot yet.
var ErrNoSnapshot = errors.New("no snapshot found")

// Snapshot is a normalized batch as written to object storage.
type Snapshot struct {
	TakenAt  time.Time        `json:"taken_at"`
	Count    int              `json:"count"`
	Contests []models.Contest `json:"contests"`
}

// Archive stores normalized batches in an object storage bucket.
// Object keys sort chronologically.
type Archive struct {
	client storage.Client
	bucket string
	clock  clock.PassiveClock
}

// NewArchive creates an archive writing to bucket.
func NewArchive(client storage.Client, bucket string, clk clock.PassiveClock) *Archive {
	return &Archive{client: client, bucket: bucket, clock: clk}
}

// Save writes the contests as a new snapshot and returns its object key.
func (a *Archive) Save(ctx context.Context, contests []models.Contest) (string, error) {
	taken := a.clock.Now().UTC()
	body, err := json.Marshal(Snapshot{TakenAt: taken, Count: len(contests), Contests: contests})
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	key := snapshotPrefix + taken.Format("2006/01/02/20060102T150405.000000000Z") + ".json"
	_, err = a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload snapshot %s: %w", key, err)
	}
	return key, nil
}

// Latest reads the most recent snapshot.
func (a *Archive) Latest(ctx context.Context) (*Snapshot, string, error) {
	var latest string
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{Prefix: snapshotPrefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, "", fmt.Errorf("failed to list snapshots: %w", obj.Err)
		}
		if strings.HasSuffix(obj.Key, ".json") && obj.Key > latest {
			latest = obj.Key
		}
	}
	if latest == "" {
		return nil, "", ErrNoSnapshot
	}

	rc, err := a.client.GetObject(ctx, a.bucket, latest, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("failed to get snapshot %s: %w", latest, err)
	}
	defer rc.Close()

	var snap Snapshot
	if err := json.NewDecoder(rc).Decode(&snap); err != nil {
		return nil, "", fmt.Errorf("failed to decode snapshot %s: %w", latest, err)
	}
	return &snap, latest, nil
}
