package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 1500, cfg.Generation.Records)
	assert.Equal(t, 100, cfg.Generation.SampleSize)
	assert.Equal(t, int64(42), cfg.Generation.SampleSeed)
	assert.Equal(t, 3, cfg.Analysis.TopProfitable)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
server:
  port: 9000
generation:
  records: 200
  seed: 11
analysis:
  top_popular: 7
`), 0644))

	t.Setenv("LOGI_CONFIG_FILE", file)
	t.Setenv("LOGI_GENERATION_RECORDS", "300")
	t.Setenv("LOGI_SERVER_READ_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port, "file overrides default")
	assert.Equal(t, 300, cfg.Generation.Records, "env overrides file")
	assert.Equal(t, int64(11), cfg.Generation.Seed)
	assert.Equal(t, 7, cfg.Analysis.TopPopular)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 100, cfg.Generation.SampleSize, "untouched keys keep defaults")
}

func TestLoad_InvalidFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(file, []byte("server: [unclosed"), 0644))
	t.Setenv("LOGI_CONFIG_FILE", file)

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		{name: "negative records", mutate: func(c *Config) { c.Generation.Records = -1 }, wantErr: true},
		{name: "negative sample", mutate: func(c *Config) { c.Generation.SampleSize = -5 }, wantErr: true},
		{name: "zero rps with limiter", mutate: func(c *Config) { c.Security.RateLimit.RPS = 0 }, wantErr: true},
		{name: "zero records allowed", mutate: func(c *Config) { c.Generation.Records = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidate_Normalizes(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "text"
	cfg.Logging.Output = "syslog"
	cfg.Generation.Workers = 0

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.Equal(t, 1, cfg.Generation.Workers)
}
