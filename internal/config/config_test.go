// File: internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, 10000, cfg.Network.TimeoutMs)
	assert.Equal(t, 10*time.Second, cfg.Network.Timeout())
	assert.False(t, cfg.Crawl.Enabled)
	assert.Equal(t, 50, cfg.Crawl.PageLimit)
	assert.Equal(t, 5, cfg.Crawl.BatchSize)
	assert.Equal(t, "console", cfg.Report.Format)

	require.NoError(t, cfg.Validate())
}

func TestNewFromViperOverrides(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("network.timeout_ms", 2500)
	v.Set("crawl.enabled", true)
	v.Set("report.format", "json")

	cfg, err := NewFromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 2500, cfg.Network.TimeoutMs)
	assert.True(t, cfg.Crawl.Enabled)
	assert.Equal(t, "json", cfg.Report.Format)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Network.TimeoutMs = 0 },
			wantErr: "timeout_ms",
		},
		{
			name:    "negative crawl limit",
			mutate:  func(c *Config) { c.Crawl.PageLimit = -1 },
			wantErr: "page_limit",
		},
		{
			name:    "zero batch size",
			mutate:  func(c *Config) { c.Crawl.BatchSize = 0 },
			wantErr: "batch_size",
		},
		{
			name:    "unknown format",
			mutate:  func(c *Config) { c.Report.Format = "xml" },
			wantErr: "report.format",
		},
		{
			name:    "relative sample page",
			mutate:  func(c *Config) { c.Audit.Pages = []string{"about"} },
			wantErr: "absolute paths",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestResolveUserAgent(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want string
	}{
		{"empty resolves to default", "", DefaultUserAgent},
		{"googlebot preset", "googlebot", UserAgentPresets["googlebot"]},
		{"preset is case-insensitive", "GoogleBot", UserAgentPresets["googlebot"]},
		{"custom string verbatim", "my-crawler/2.0", "my-crawler/2.0"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			cfg.Network.UserAgent = tc.ua
			assert.Equal(t, tc.want, cfg.ResolveUserAgent())
		})
	}
}

func TestNormalizeTargetURL(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"bare host defaults to https", "example.com", "https://example.com", false},
		{"explicit http preserved", "http://example.com", "http://example.com", false},
		{"default https port stripped", "https://example.com:443/path", "https://example.com/path", false},
		{"default http port stripped", "http://example.com:80", "http://example.com", false},
		{"custom port kept", "https://example.com:8443", "https://example.com:8443", false},
		{"host lowercased", "https://Example.COM/Path", "https://example.com/Path", false},
		{"surrounding whitespace", "  example.com  ", "https://example.com", false},
		{"empty", "", "", true},
		{"scheme only", "https://", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeTargetURL(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
