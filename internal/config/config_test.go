package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, uint32(64), cfg.IconSize)
	assert.Equal(t, "app_icons", cfg.OutputDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.JSON)
}

func TestGetConfigDir(t *testing.T) {
	dir := getConfigDir()
	assert.NotEmpty(t, dir)
	assert.Contains(t, dir, "appinfo")
}
