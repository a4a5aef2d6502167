package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3sdk "github.com/aws/aws-sdk-go-v2/service/s3"

	awss3 "tasnim.dev/s3-dupes/internal/aws/s3"
)

// S3Options points the S3 client at an S3-compatible service (MinIO, LocalStack).
type S3Options struct {
	Endpoint  string
	PathStyle bool
}

func (o S3Options) apply(opts *awss3sdk.Options) {
	if o.Endpoint != "" {
		opts.BaseEndpoint = aws.String(o.Endpoint)
	}
	if o.PathStyle {
		opts.UsePathStyle = true
	}
}

type ServiceClient struct {
	S3 *awss3.Client
}

func NewServiceClient(ctx context.Context, profile, region string, s3Opts S3Options) (*ServiceClient, error) {
	cfg, err := LoadConfig(ctx, profile, region)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &ServiceClient{
		S3: awss3.NewClient(awss3sdk.NewFromConfig(cfg, s3Opts.apply)),
	}, nil
}
