package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/s3utils"
)

// ErrInvalidConfig reports archive settings that cannot reach a bucket.
var ErrInvalidConfig = errors.New("invalid storage config")

// Client is the subset of the MinIO API the report archive needs.
type Client interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
}

// Timeout bounds dialing, the TLS handshake and waiting for response headers.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// target splits Endpoint into the host MinIO dials and whether to use TLS.
// An explicit http:// or https:// scheme overrides UseSSL.
func (c Config) target() (string, bool, error) {
	endpoint := strings.TrimSpace(c.Endpoint)
	if endpoint == "" {
		return "", false, fmt.Errorf("%w: endpoint is empty", ErrInvalidConfig)
	}
	secure := c.UseSSL
	if strings.Contains(endpoint, "://") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return "", false, fmt.Errorf("%w: endpoint %q: %w", ErrInvalidConfig, c.Endpoint, err)
		}
		switch u.Scheme {
		case "http":
			secure = false
		case "https":
			secure = true
		default:
			return "", false, fmt.Errorf("%w: endpoint scheme %q", ErrInvalidConfig, u.Scheme)
		}
		if strings.Trim(u.Path, "/") != "" {
			return "", false, fmt.Errorf("%w: endpoint %q must not carry a path", ErrInvalidConfig, c.Endpoint)
		}
		endpoint = u.Host
	}
	return endpoint, secure, nil
}

// Validate checks the endpoint and bucket before any request is made.
func (c Config) Validate() error {
	if _, _, err := c.target(); err != nil {
		return err
	}
	if err := s3utils.CheckValidBucketName(c.Bucket); err != nil {
		return fmt.Errorf("%w: bucket %q: %w", ErrInvalidConfig, c.Bucket, err)
	}
	return nil
}

// NewClient creates a MinIO client for the archive bucket.
func NewClient(cfg Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	endpoint, secure, _ := cfg.target()
	timeout := cfg.Timeout()

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          4,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
	}

	mc, err := minio.New(endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    secure,
		Region:    cfg.Region,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &minioClient{Client: mc}, nil
}

// Open builds the archive described by cfg.
func Open(cfg Config) (*Archive, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return NewArchive(client, cfg.Bucket, cfg.Prefix), nil
}

// minioClient narrows GetObject to io.ReadCloser so Client can be mocked.
type minioClient struct {
	*minio.Client
}

func (c *minioClient) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	return c.Client.GetObject(ctx, bucketName, objectName, opts)
}
