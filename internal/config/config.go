// File: internal/config/config.go
package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config holds the entire application configuration. Viper unmarshals into
// it once per process, after flags, env vars and config file are merged.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Network NetworkConfig `mapstructure:"network" yaml:"network"`
	Audit   AuditConfig   `mapstructure:"audit" yaml:"audit"`
	Crawl   CrawlConfig   `mapstructure:"crawl" yaml:"crawl"`
	Report  ReportConfig  `mapstructure:"report" yaml:"report"`
}

// LoggerConfig controls the zap logger setup.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig maps log levels to terminal colors for the console encoder.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
	Fatal string `mapstructure:"fatal" yaml:"fatal"`
}

// NetworkConfig tunes the HTTP client used for every audit request.
type NetworkConfig struct {
	// TimeoutMs bounds each individual request. Exceeding it is treated the
	// same as a connection failure by the calling analyzer.
	TimeoutMs       int    `mapstructure:"timeout_ms" yaml:"timeout_ms"`
	UserAgent       string `mapstructure:"user_agent" yaml:"user_agent"`
	IgnoreTLSErrors bool   `mapstructure:"ignore_tls_errors" yaml:"ignore_tls_errors"`

	MaxIdleConns        int           `mapstructure:"max_idle_conns" yaml:"max_idle_conns"`
	MaxIdleConnsPerHost int           `mapstructure:"max_idle_conns_per_host" yaml:"max_idle_conns_per_host"`
	IdleConnTimeout     time.Duration `mapstructure:"idle_conn_timeout" yaml:"idle_conn_timeout"`
}

// Timeout returns the per-request timeout as a duration.
func (n NetworkConfig) Timeout() time.Duration {
	return time.Duration(n.TimeoutMs) * time.Millisecond
}

// AuditConfig carries the per-run audit settings.
type AuditConfig struct {
	// TargetURL is populated from the CLI argument, never the config file.
	TargetURL string `mapstructure:"-" yaml:"-"`

	Verbose bool `mapstructure:"verbose" yaml:"verbose"`
	// Strict makes warnings count as failures for the exit code.
	Strict bool `mapstructure:"strict" yaml:"strict"`
	// Pages overrides the default common-page sample list for the redirect
	// analyzer. Entries are paths like "/about".
	Pages []string `mapstructure:"pages" yaml:"pages"`
}

// CrawlConfig controls the opt-in crawl-mode analyzer.
type CrawlConfig struct {
	Enabled   bool `mapstructure:"enabled" yaml:"enabled"`
	PageLimit int  `mapstructure:"page_limit" yaml:"page_limit"`
	BatchSize int  `mapstructure:"batch_size" yaml:"batch_size"`
}

// ReportConfig controls report output.
type ReportConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
	// Baseline is a path to a previous JSON report to diff against.
	Baseline string `mapstructure:"baseline" yaml:"baseline"`
}

// UserAgentPresets maps named presets to full UA strings. A --user-agent
// value matching a preset name is expanded; anything else is used verbatim.
var UserAgentPresets = map[string]string{
	"googlebot": "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
	"bingbot":   "Mozilla/5.0 (compatible; bingbot/2.0; +http://www.bing.com/bingbot.htm)",
}

// DefaultUserAgent is used when no override or preset is configured.
const DefaultUserAgent = "seoscope-cli/1.0 (+https://github.com/seoscope/seoscope-cli)"

// SetDefaults initializes default values on the given viper instance.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "seoscope")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Network --
	v.SetDefault("network.timeout_ms", 10000)
	v.SetDefault("network.user_agent", "")
	v.SetDefault("network.ignore_tls_errors", false)
	v.SetDefault("network.max_idle_conns", 100)
	v.SetDefault("network.max_idle_conns_per_host", 20)
	v.SetDefault("network.idle_conn_timeout", 30*time.Second)

	// -- Audit --
	v.SetDefault("audit.verbose", false)
	v.SetDefault("audit.strict", false)
	v.SetDefault("audit.pages", []string{})

	// -- Crawl --
	v.SetDefault("crawl.enabled", false)
	v.SetDefault("crawl.page_limit", 50)
	v.SetDefault("crawl.batch_size", 5)

	// -- Report --
	v.SetDefault("report.format", "console")
	v.SetDefault("report.output", "")
	v.SetDefault("report.baseline", "")
}

// NewFromViper unmarshals and validates a Config from a viper instance.
func NewFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// NewDefaultConfig returns a Config populated purely from defaults.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if c.Network.TimeoutMs <= 0 {
		return fmt.Errorf("network.timeout_ms must be a positive integer")
	}
	if c.Crawl.PageLimit < 0 {
		return fmt.Errorf("crawl.page_limit must not be negative")
	}
	if c.Crawl.BatchSize <= 0 {
		return fmt.Errorf("crawl.batch_size must be a positive integer")
	}
	switch c.Report.Format {
	case "console", "json", "markdown":
	default:
		return fmt.Errorf("report.format must be one of console, json, markdown (got %q)", c.Report.Format)
	}
	for _, p := range c.Audit.Pages {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("audit.pages entries must be absolute paths (got %q)", p)
		}
	}
	return nil
}

// ResolveUserAgent expands a preset name or returns the override verbatim.
// An empty override resolves to the default UA.
func (c *Config) ResolveUserAgent() string {
	ua := strings.TrimSpace(c.Network.UserAgent)
	if ua == "" {
		return DefaultUserAgent
	}
	if preset, ok := UserAgentPresets[strings.ToLower(ua)]; ok {
		return preset
	}
	return ua
}

// DefaultConfigPaths returns the search paths for the config file: the
// working directory first, then ~/.config/seoscope.
func DefaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := homedir.Dir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "seoscope"))
	}
	return paths
}

// NormalizeTargetURL canonicalizes the audit target: a missing scheme
// defaults to https, default ports are stripped, and the host is lowercased.
func NormalizeTargetURL(target string) (string, error) {
	raw := strings.TrimSpace(target)
	if raw == "" {
		return "", fmt.Errorf("target URL is empty")
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid target URL %q: %w", target, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("target URL %q has no host", target)
	}
	u.Host = strings.ToLower(u.Host)
	if (u.Scheme == "https" && strings.HasSuffix(u.Host, ":443")) ||
		(u.Scheme == "http" && strings.HasSuffix(u.Host, ":80")) {
		u.Host = u.Host[:strings.LastIndex(u.Host, ":")]
	}
	return u.String(), nil
}
