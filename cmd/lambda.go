package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"

	"tasnim.dev/s3-dupes/internal/backend"
	"tasnim.dev/s3-dupes/internal/config"
	"tasnim.dev/s3-dupes/internal/dupes"
	"tasnim.dev/s3-dupes/internal/handler"
	"tasnim.dev/s3-dupes/internal/logging"
)

// NewHandler wires a Lambda handler from environment-only configuration.
// There is no config file inside Lambda.
func NewHandler(ctx context.Context, getenv func(string) string) (*handler.Handler, error) {
	cfg := &config.Config{}
	cfg.ApplyEnv(getenv)
	if err := cfg.ValidateBackend(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log := logging.New(cfg.LogLevel)
	src, err := backend.Open(ctx, cfg, "", cfg.DefaultRegion)
	if err != nil {
		return nil, err
	}

	finder := dupes.NewFinder(src, log, dupes.Options{
		IncludeEmpty: cfg.IncludeEmpty,
		AllGroups:    cfg.AllGroups,
	})
	return handler.New(finder, dupes.Target{Bucket: cfg.Bucket, Prefix: cfg.Prefix}, log), nil
}

// RunLambda blocks in the Lambda runtime loop.
func RunLambda() error {
	h, err := NewHandler(context.Background(), os.Getenv)
	if err != nil {
		return err
	}
	lambda.Start(h.Handle)
	return nil
}

func NewLambdaCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "lambda",
		Short:  "Run as an AWS Lambda function (started automatically inside Lambda)",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunLambda()
		},
	}
}
