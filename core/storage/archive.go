package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/minio/minio-go/v7"
)

// Archive stores JSON documents under a prefix in one bucket.
type Archive struct {
	client Client
	bucket string
	prefix string
}

// NewArchive creates an archive over client.
func NewArchive(client Client, bucket, prefix string) *Archive {
	return &Archive{client: client, bucket: bucket, prefix: prefix}
}

// Bucket returns the archive bucket name.
func (a *Archive) Bucket() string {
	return a.bucket
}

// EnsureBucket creates the bucket if it does not exist yet.
func (a *Archive) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", a.bucket, err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", a.bucket, err)
	}
	return nil
}

func (a *Archive) objectName(name string) string {
	return path.Join(a.prefix, name)
}

// PutJSON marshals v and uploads it as name. It returns the full object name.
func (a *Archive) PutJSON(ctx context.Context, name string, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	object := a.objectName(name)
	_, err = a.client.PutObject(ctx, a.bucket, object, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", object, err)
	}
	return object, nil
}

// GetJSON downloads name and unmarshals it into v.
func (a *Archive) GetJSON(ctx context.Context, name string, v any) error {
	object := a.objectName(name)
	reader, err := a.client.GetObject(ctx, a.bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", object, err)
	}
	defer reader.Close()

	if err := json.NewDecoder(reader).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", object, err)
	}
	return nil
}

// List returns the names, relative to the archive prefix, of the objects
// starting with sub, sorted.
func (a *Archive) List(ctx context.Context, sub string) ([]string, error) {
	var names []string
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{
		Prefix:    a.objectName(sub),
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", a.bucket, obj.Err)
		}
		names = append(names, strings.TrimPrefix(strings.TrimPrefix(obj.Key, a.prefix), "/"))
	}
	sort.Strings(names)
	return names, nil
}
