package source

import (
	"context"
	"fmt"
	"strings"

	"honor-sync/core/errors"
	"honor-sync/core/logger"
	"honor-sync/core/storage"
	"honor-sync/feature/honors/models"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Loader reads snapshots from the object store.
type Loader struct {
	client storage.Client
	bucket string
	log    *zap.Logger
}

// NewLoader creates a Loader for bucket.
func NewLoader(client storage.Client, bucket string, log *zap.Logger) *Loader {
	return &Loader{client: client, bucket: bucket, log: logger.OrNop(log)}
}

// LoadObject reads the snapshot at key. A key ending in "/" selects the most
// recently modified .json object under that prefix.
func (l *Loader) LoadObject(ctx context.Context, key string) ([]models.RawRecord, error) {
	if l.client == nil {
		return nil, fmt.Errorf("%w: object storage is not configured", errors.ErrInputUnavailable)
	}
	if key == "" || strings.HasSuffix(key, "/") {
		latest, err := l.Latest(ctx, key)
		if err != nil {
			return nil, err
		}
		key = latest
	}

	l.log.Info("Loading snapshot", zap.String("bucket", l.bucket), zap.String("object", key))
	obj, err := l.client.GetObject(ctx, l.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", errors.ErrInputUnavailable, key, err)
	}
	defer obj.Close()
	return ReadSnapshot(obj)
}

// Latest returns the key of the newest .json object under prefix.
func (l *Loader) Latest(ctx context.Context, prefix string) (string, error) {
	exists, err := l.client.BucketExists(ctx, l.bucket)
	if err != nil {
		return "", fmt.Errorf("%w: check bucket %s: %v", errors.ErrInputUnavailable, l.bucket, err)
	}
	if !exists {
		return "", fmt.Errorf("%w: bucket %s does not exist", errors.ErrInputUnavailable, l.bucket)
	}

	opts := minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}

	var best minio.ObjectInfo
	for obj := range l.client.ListObjects(ctx, l.bucket, opts) {
		if obj.Err != nil {
			return "", fmt.Errorf("%w: list %s: %v", errors.ErrInputUnavailable, prefix, obj.Err)
		}
		if !strings.HasSuffix(obj.Key, ".json") {
			continue
		}
		if best.Key == "" || obj.LastModified.After(best.LastModified) {
			best = obj
		}
	}
	if best.Key == "" {
		return "", fmt.Errorf("%w: no snapshot under %q", errors.ErrInputUnavailable, prefix)
	}
	return best.Key, nil
}
