// Copyright (c) 2026 Lurnex. All rights reserved.

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lurnex/site/internal/platform/config"
)

/*
TestLoad_MemoryStore verifies that the memory backend needs no database URL.
*/
func TestLoad_MemoryStore(t *testing.T) {
	t.Setenv("CONTENT_STORE", "memory")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ASSET_BASE_URL", "https://cdn.example.com/img/")
	t.Setenv("ALLOWED_ORIGINS", "example.com,example.org")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StoreMemory, cfg.ContentStore)
	assert.Equal(t, 60*time.Second, cfg.RevalidateInterval)
	assert.Equal(t, "https://cdn.example.com/img", cfg.AssetBaseURL)
	assert.Equal(t, []string{"example.com", "example.org"}, cfg.Origins())
}

/*
TestLoad_PostgresRequiresURL ensures the postgres backend fails fast without DATABASE_URL.
*/
func TestLoad_PostgresRequiresURL(t *testing.T) {
	t.Setenv("CONTENT_STORE", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := config.Load()
	assert.ErrorContains(t, err, "DATABASE_URL")
}

/*
TestLoad_UnknownStore rejects unsupported backends.
*/
func TestLoad_UnknownStore(t *testing.T) {
	t.Setenv("CONTENT_STORE", "sanity")

	_, err := config.Load()
	assert.Error(t, err)
}
