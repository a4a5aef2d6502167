package s3

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"tasnim.dev/s3-dupes/internal/constants"
)

// ErrEmptyBucket is returned when a listing or HEAD is attempted without a bucket.
var ErrEmptyBucket = errors.New("bucket name must not be empty")

type S3API interface {
	ListObjectsV2(ctx context.Context, params *awss3.ListObjectsV2Input, optFns ...func(*awss3.Options)) (*awss3.ListObjectsV2Output, error)
	HeadObject(ctx context.Context, params *awss3.HeadObjectInput, optFns ...func(*awss3.Options)) (*awss3.HeadObjectOutput, error)
}

type Client struct {
	api S3API
}

func NewClient(api S3API) *Client {
	return &Client{api: api}
}

// ListObjects fetches a single page. Listing is recursive (no delimiter), so
// every key under prefix shows up exactly once across all pages.
func (c *Client) ListObjects(ctx context.Context, bucket, prefix, continuationToken string) (ListObjectsResult, error) {
	if bucket == "" {
		return ListObjectsResult{}, ErrEmptyBucket
	}

	input := &awss3.ListObjectsV2Input{
		Bucket:  aws.String(bucket),
		MaxKeys: aws.Int32(constants.ListPageSize),
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}
	if continuationToken != "" {
		input.ContinuationToken = aws.String(continuationToken)
	}

	out, err := c.api.ListObjectsV2(ctx, input)
	if err != nil {
		return ListObjectsResult{}, fmt.Errorf("ListObjectsV2: %w", err)
	}

	objects := make([]ObjectEntry, 0, len(out.Contents))
	for _, obj := range out.Contents {
		var lastModified time.Time
		if obj.LastModified != nil {
			lastModified = *obj.LastModified
		}
		objects = append(objects, ObjectEntry{
			Key:          aws.ToString(obj.Key),
			Size:         aws.ToInt64(obj.Size),
			LastModified: lastModified,
		})
	}

	result := ListObjectsResult{Objects: objects}
	if aws.ToBool(out.IsTruncated) {
		result.NextToken = aws.ToString(out.NextContinuationToken)
	}

	return result, nil
}

// Objects walks every page under prefix. The first error is yielded once and
// ends the sequence. Ranging over the sequence again starts from page one.
func (c *Client) Objects(ctx context.Context, bucket, prefix string) iter.Seq2[ObjectEntry, error] {
	return func(yield func(ObjectEntry, error) bool) {
		var token string
		for {
			page, err := c.ListObjects(ctx, bucket, prefix, token)
			if err != nil {
				yield(ObjectEntry{}, err)
				return
			}

			for _, obj := range page.Objects {
				if !yield(obj, nil) {
					return
				}
			}

			// A truncated page without a token would loop forever.
			if page.NextToken == "" || page.NextToken == token {
				return
			}
			token = page.NextToken
		}
	}
}

// HeadObject returns the object's size and last-modified time.
func (c *Client) HeadObject(ctx context.Context, bucket, key string) (ObjectEntry, error) {
	if bucket == "" {
		return ObjectEntry{}, ErrEmptyBucket
	}

	out, err := c.api.HeadObject(ctx, &awss3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return ObjectEntry{}, fmt.Errorf("HeadObject(%s): %w", key, err)
	}

	entry := ObjectEntry{
		Key:  key,
		Size: aws.ToInt64(out.ContentLength),
	}
	if out.LastModified != nil {
		entry.LastModified = *out.LastModified
	}
	return entry, nil
}

// IsNotFound classifies a HeadObject error from this client.
func (c *Client) IsNotFound(err error) bool {
	return IsNotFound(err)
}

// IsNotFound reports whether err means the object or bucket does not exist.
func IsNotFound(err error) bool {
	var nf *s3types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var nsk *s3types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey", "NoSuchBucket":
			return true
		}
	}
	return false
}
