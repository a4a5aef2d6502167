package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoBucket is returned by Validate when no bucket was configured anywhere.
var ErrNoBucket = errors.New("no bucket configured (set bucket in config, S3DUPES_BUCKET, or --bucket)")

const (
	BackendS3    = "s3"
	BackendMinio = "minio"
)

// Config holds defaults loaded from ~/.config/s3-dupes/config.yaml, then
// overlaid by the environment and finally by CLI flags.
type Config struct {
	DefaultProfile string `yaml:"default_profile"`
	DefaultRegion  string `yaml:"default_region"`

	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`

	Backend   string `yaml:"backend"`
	Endpoint  string `yaml:"endpoint"`
	PathStyle bool   `yaml:"path_style"`

	Minio MinioConfig `yaml:"minio"`

	AllGroups    bool   `yaml:"all_groups"`
	IncludeEmpty bool   `yaml:"include_empty"`
	LogLevel     string `yaml:"log_level"`
}

type MinioConfig struct {
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// Load reads the config file. Returns zero-value Config if the file doesn't exist.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return &Config{}, nil
	}
	return LoadFile(filepath.Join(home, ".config", "s3-dupes", "config.yaml"))
}

// LoadFile reads path. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv overlays values from the environment. getenv is os.Getenv outside tests.
func (c *Config) ApplyEnv(getenv func(string) string) {
	setString := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	setBool := func(dst *bool, key string) {
		if v, err := strconv.ParseBool(strings.TrimSpace(getenv(key))); err == nil {
			*dst = v
		}
	}

	setString(&c.Bucket, "S3DUPES_BUCKET")
	setString(&c.Prefix, "S3DUPES_PREFIX")
	setString(&c.Backend, "S3DUPES_BACKEND")
	setBool(&c.AllGroups, "S3DUPES_ALL_GROUPS")
	setBool(&c.IncludeEmpty, "S3DUPES_INCLUDE_EMPTY")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.DefaultRegion, "AWS_REGION")
	setString(&c.Endpoint, "AWS_ENDPOINT_URL_S3")
	setBool(&c.PathStyle, "AWS_S3_FORCE_PATH_STYLE")
	setString(&c.Minio.AccessKey, "MINIO_ACCESS_KEY")
	setString(&c.Minio.SecretKey, "MINIO_SECRET_KEY")
	setBool(&c.Minio.UseSSL, "MINIO_USE_SSL")
}

// Merge applies CLI flag overrides. Flags take precedence over config defaults.
func (c *Config) Merge(profile, region string) (string, string) {
	p := c.DefaultProfile
	if profile != "" {
		p = profile
	}
	r := c.DefaultRegion
	if region != "" {
		r = region
	}
	return p, r
}

// Target applies CLI bucket/prefix overrides the same way Merge does.
func (c *Config) Target(bucket, prefix string) (string, string) {
	b := c.Bucket
	if bucket != "" {
		b = bucket
	}
	p := c.Prefix
	if prefix != "" {
		p = prefix
	}
	return b, p
}

// BackendName returns the configured backend, defaulting to s3.
func (c *Config) BackendName() string {
	if c.Backend == "" {
		return BackendS3
	}
	return strings.ToLower(c.Backend)
}

// Validate checks that a scan can run: a bucket is set and the backend is usable.
func (c *Config) Validate() error {
	if c.Bucket == "" {
		return ErrNoBucket
	}
	return c.ValidateBackend()
}

// ValidateBackend checks only the backend settings. The Lambda entry point
// uses it since the bucket may arrive with each event instead.
func (c *Config) ValidateBackend() error {
	switch c.BackendName() {
	case BackendS3:
	case BackendMinio:
		if c.Endpoint == "" {
			return errors.New("minio backend requires an endpoint")
		}
	default:
		return errors.New("unknown backend " + strconv.Quote(c.Backend))
	}
	return nil
}
