package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	awsclient "tasnim.dev/s3-dupes/internal/aws"
	"tasnim.dev/s3-dupes/internal/backend"
	"tasnim.dev/s3-dupes/internal/config"
	"tasnim.dev/s3-dupes/internal/dupes"
	"tasnim.dev/s3-dupes/internal/logging"
	"tasnim.dev/s3-dupes/internal/report"
)

type scanFlags struct {
	profile      string
	region       string
	bucket       string
	prefix       string
	backend      string
	endpoint     string
	pathStyle    bool
	allGroups    bool
	includeEmpty bool
	output       string
	logLevel     string
}

func NewScanCmd() *cobra.Command {
	return newScanCmd(&scanFlags{})
}

func newScanCmd(f *scanFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Find duplicate-size objects under a bucket prefix",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := report.CheckFormat(f.output); err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cfg.ApplyEnv(os.Getenv)
			f.apply(cmd, cfg)

			profile, region := cfg.Merge(f.profile, f.region)
			if err := cfg.Validate(); err != nil {
				return err
			}

			log := logging.New(cfg.LogLevel)
			defer log.Sync()

			ctx := cmd.Context()
			src, err := backend.Open(ctx, cfg, profile, region)
			if err != nil {
				return err
			}

			finder := dupes.NewFinder(src, log, dupes.Options{
				IncludeEmpty: cfg.IncludeEmpty,
				AllGroups:    cfg.AllGroups,
			})
			rep, err := finder.Find(ctx, dupes.Target{Bucket: cfg.Bucket, Prefix: cfg.Prefix})
			if err != nil {
				return err
			}

			var account string
			if cfg.BackendName() == config.BackendS3 && f.output != report.FormatJSON {
				if awsCfg, err := awsclient.LoadConfig(ctx, profile, region); err == nil {
					account = awsclient.GetAccountID(ctx, awsCfg)
				}
			}
			return report.Write(cmd.OutOrStdout(), f.output, rep, account)
		},
	}

	cmd.Flags().StringVarP(&f.profile, "profile", "p", "", "AWS profile to use")
	cmd.Flags().StringVarP(&f.region, "region", "r", "", "AWS region to use")
	cmd.Flags().StringVarP(&f.bucket, "bucket", "b", "", "bucket to scan")
	cmd.Flags().StringVar(&f.prefix, "prefix", "", "only scan keys starting with this prefix")
	cmd.Flags().StringVar(&f.backend, "backend", "", "storage backend: s3 or minio")
	cmd.Flags().StringVar(&f.endpoint, "endpoint", "", "S3-compatible endpoint URL")
	cmd.Flags().BoolVar(&f.pathStyle, "path-style", false, "use path-style addressing")
	cmd.Flags().BoolVar(&f.allGroups, "all-groups", false, "rank every duplicate group, not just the first")
	cmd.Flags().BoolVar(&f.includeEmpty, "include-empty", false, "group zero-byte objects too")
	cmd.Flags().StringVarP(&f.output, "output", "o", report.FormatText, "output format: text or json")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")

	return cmd
}

// apply copies explicitly set flags over cfg. Unset flags leave file and
// environment values alone.
func (f *scanFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	cfg.Bucket, cfg.Prefix = cfg.Target(f.bucket, f.prefix)

	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Backend = f.backend
	}
	if flags.Changed("endpoint") {
		cfg.Endpoint = f.endpoint
	}
	if flags.Changed("path-style") {
		cfg.PathStyle = f.pathStyle
	}
	if flags.Changed("all-groups") {
		cfg.AllGroups = f.allGroups
	}
	if flags.Changed("include-empty") {
		cfg.IncludeEmpty = f.includeEmpty
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
}
