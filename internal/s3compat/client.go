// Package s3compat lists and stats objects on S3-compatible services through
// minio-go, yielding the same entries as the AWS SDK backend.
package s3compat

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	awss3 "tasnim.dev/s3-dupes/internal/aws/s3"
)

// Config encapsulates the connection info for a MinIO / S3-compatible endpoint.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
}

type MinioAPI interface {
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

type Client struct {
	api MinioAPI
}

func NewClient(api MinioAPI) *Client {
	return &Client{api: api}
}

// New builds a client for cfg. minio-go connects lazily on the first request.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint must be provided")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials must be provided")
	}

	// minio-go wants host[:port]; the scheme is carried by UseSSL.
	endpoint := cfg.Endpoint
	secure := cfg.UseSSL
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		endpoint, secure = strings.TrimPrefix(endpoint, "https://"), true
	case strings.HasPrefix(endpoint, "http://"):
		endpoint, secure = strings.TrimPrefix(endpoint, "http://"), false
	}

	mc, err := minio.New(strings.TrimSuffix(endpoint, "/"), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return NewClient(mc), nil
}

// Objects walks the recursive listing. minio-go pages internally, so an
// error surfaces as an ObjectInfo with Err set; it is yielded once and the
// listing goroutine is released by cancelling its context.
func (c *Client) Objects(ctx context.Context, bucket, prefix string) iter.Seq2[awss3.ObjectEntry, error] {
	return func(yield func(awss3.ObjectEntry, error) bool) {
		if bucket == "" {
			yield(awss3.ObjectEntry{}, awss3.ErrEmptyBucket)
			return
		}

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		for obj := range c.api.ListObjects(ctx, bucket, minio.ListObjectsOptions{
			Prefix:    prefix,
			Recursive: true,
		}) {
			if obj.Err != nil {
				yield(awss3.ObjectEntry{}, fmt.Errorf("ListObjects: %w", obj.Err))
				return
			}
			if !yield(awss3.ObjectEntry{
				Key:          obj.Key,
				Size:         obj.Size,
				LastModified: obj.LastModified,
			}, nil) {
				return
			}
		}
	}
}

func (c *Client) HeadObject(ctx context.Context, bucket, key string) (awss3.ObjectEntry, error) {
	if bucket == "" {
		return awss3.ObjectEntry{}, awss3.ErrEmptyBucket
	}

	info, err := c.api.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return awss3.ObjectEntry{}, fmt.Errorf("StatObject(%s): %w", key, err)
	}
	return awss3.ObjectEntry{
		Key:          key,
		Size:         info.Size,
		LastModified: info.LastModified,
	}, nil
}

func (c *Client) IsNotFound(err error) bool {
	return IsNotFound(err)
}

// IsNotFound reports whether err is minio's NoSuchKey / NoSuchBucket response.
func IsNotFound(err error) bool {
	var resp minio.ErrorResponse
	if !errors.As(err, &resp) {
		return false
	}
	switch resp.Code {
	case "NoSuchKey", "NoSuchBucket", "NotFound":
		return true
	}
	return false
}
