package backend

import (
	"context"
	"fmt"

	awsclient "tasnim.dev/s3-dupes/internal/aws"
	"tasnim.dev/s3-dupes/internal/config"
	"tasnim.dev/s3-dupes/internal/dupes"
	"tasnim.dev/s3-dupes/internal/s3compat"
)

// Open builds the storage source selected by cfg.Backend.
func Open(ctx context.Context, cfg *config.Config, profile, region string) (dupes.Source, error) {
	switch cfg.BackendName() {
	case config.BackendS3:
		client, err := awsclient.NewServiceClient(ctx, profile, region, awsclient.S3Options{
			Endpoint:  cfg.Endpoint,
			PathStyle: cfg.PathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("initializing AWS client: %w", err)
		}
		return client.S3, nil
	case config.BackendMinio:
		client, err := s3compat.New(s3compat.Config{
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Region:    region,
			UseSSL:    cfg.Minio.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("initializing minio client: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
