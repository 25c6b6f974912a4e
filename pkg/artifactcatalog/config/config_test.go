package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ServerConfig)
		expectError bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *ServerConfig) {},
		},
		{
			name: "postgres requires a url",
			mutate: func(c *ServerConfig) {
				c.DatabaseType = "postgres"
			},
			expectError: true,
		},
		{
			name: "postgres with url",
			mutate: func(c *ServerConfig) {
				c.DatabaseType = "postgres"
				c.DatabaseURL = "postgres://localhost/catalog"
			},
		},
		{
			name: "unknown database type",
			mutate: func(c *ServerConfig) {
				c.DatabaseType = "oracle"
			},
			expectError: true,
		},
		{
			name: "fs storage requires a base dir",
			mutate: func(c *ServerConfig) {
				c.StorageType = "fs"
			},
			expectError: true,
		},
		{
			name: "s3 storage requires a bucket",
			mutate: func(c *ServerConfig) {
				c.StorageType = "s3"
			},
			expectError: true,
		},
		{
			name: "unknown storage type",
			mutate: func(c *ServerConfig) {
				c.StorageType = "tape"
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "memory", cfg.DatabaseType)
		assert.Equal(t, "memory", cfg.StorageType)
	})

	t.Run("option errors surface", func(t *testing.T) {
		_, err := Load(func(c *ServerConfig) error {
			c.StorageType = "tape"
			return nil
		})
		assert.Error(t, err)
	})
}

func TestBuildService(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	svc, err := cfg.BuildService(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}
