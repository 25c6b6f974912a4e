package config

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/artifact-catalog/pkg/artifactcatalog"
	"github.com/tendant/artifact-catalog/pkg/artifactcatalog/repo/memory"
	repopg "github.com/tendant/artifact-catalog/pkg/artifactcatalog/repo/postgres"
	fsstorage "github.com/tendant/artifact-catalog/pkg/artifactcatalog/storage/fs"
	memorystorage "github.com/tendant/artifact-catalog/pkg/artifactcatalog/storage/memory"
	s3storage "github.com/tendant/artifact-catalog/pkg/artifactcatalog/storage/s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:          "8080",
		Environment:   "development",
		DatabaseType:  "memory",
		StorageType:   "memory",
		PublicBaseURL: "http://localhost:8080",
	}
}

// ServerConfig represents server configuration for the artifact-catalog service
type ServerConfig struct {
	Port          string `env:"PORT" env-default:"8080"`
	Environment   string `env:"ENVIRONMENT" env-default:"development"` // development, production, testing
	PublicBaseURL string `env:"PUBLIC_BASE_URL" env-default:"http://localhost:8080"`

	// Session token verification
	JWTSecret string `env:"JWT_SECRET"`

	// Database configuration
	DatabaseURL  string `env:"DATABASE_URL"`
	DatabaseType string `env:"DATABASE_TYPE" env-default:"memory"` // "memory", "postgres"

	// Storage configuration
	StorageType  string `env:"STORAGE_TYPE" env-default:"memory"` // "memory", "fs", "s3"
	FSBaseDir    string `env:"FS_BASE_DIR"`
	FSURLPrefix  string `env:"FS_URL_PREFIX"`
	S3Region     string `env:"S3_REGION"`
	S3Bucket     string `env:"S3_BUCKET"`
	S3AccessKey  string `env:"S3_ACCESS_KEY"`
	S3SecretKey  string `env:"S3_SECRET_KEY"`
	S3Endpoint   string `env:"S3_ENDPOINT"`
	S3PathStyle  bool   `env:"S3_PATH_STYLE"`
	S3PublicBase string `env:"S3_PUBLIC_BASE"`

	EnableEventLogging bool `env:"ENABLE_EVENT_LOGGING" env-default:"true"`
}

// Validate checks the configuration for inconsistencies.
func (c *ServerConfig) Validate() error {
	switch c.DatabaseType {
	case "memory":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for postgres database")
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}

	switch c.StorageType {
	case "memory":
	case "fs":
		if c.FSBaseDir == "" {
			return fmt.Errorf("FS_BASE_DIR is required for fs storage")
		}
	case "s3":
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for s3 storage")
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", c.StorageType)
	}

	return nil
}

// BuildRepository constructs the persistence gateway for the configured database.
func (c *ServerConfig) BuildRepository(ctx context.Context) (artifactcatalog.Repository, error) {
	switch c.DatabaseType {
	case "postgres":
		pool, err := pgxpool.New(ctx, c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return repopg.NewWithPool(pool), nil
	default:
		return memory.New(), nil
	}
}

// BuildBlobStore constructs the object storage backend for the configured storage type.
func (c *ServerConfig) BuildBlobStore() (artifactcatalog.BlobStore, error) {
	switch c.StorageType {
	case "fs":
		return fsstorage.New(fsstorage.Config{
			BaseDir:   c.FSBaseDir,
			URLPrefix: c.FSURLPrefix,
		})
	case "s3":
		return s3storage.New(s3storage.Config{
			Region:          c.S3Region,
			Bucket:          c.S3Bucket,
			AccessKeyID:     c.S3AccessKey,
			SecretAccessKey: c.S3SecretKey,
			Endpoint:        c.S3Endpoint,
			UsePathStyle:    c.S3PathStyle,
			PublicURLBase:   c.S3PublicBase,
		})
	default:
		return memorystorage.New(), nil
	}
}

// BuildService wires the repository, blob store and event sink into a Service.
func (c *ServerConfig) BuildService(ctx context.Context, logger artifactcatalog.Logger) (artifactcatalog.Service, error) {
	repo, err := c.BuildRepository(ctx)
	if err != nil {
		return nil, err
	}

	store, err := c.BuildBlobStore()
	if err != nil {
		return nil, err
	}

	opts := []artifactcatalog.Option{
		artifactcatalog.WithRepository(repo),
		artifactcatalog.WithBlobStore(store),
		artifactcatalog.WithPublicBaseURL(c.PublicBaseURL),
		artifactcatalog.WithLogger(logger),
	}
	if c.EnableEventLogging && logger != nil {
		opts = append(opts, artifactcatalog.WithEventSink(artifactcatalog.NewLoggingEventSink(logger)))
	}

	return artifactcatalog.New(opts...)
}
