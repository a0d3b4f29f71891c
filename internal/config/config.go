// ABOUTME: Configuration loading and parsing for taskboard
// ABOUTME: Supports YAML or TOML files with environment variable expansion, defaults and duration parsing

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Environment variables consulted by Resolve and Load.
const (
	EnvConfigPath = "TASKBOARD_CONFIG"
	EnvDBPath     = "TASKBOARD_DB_PATH"
)

// Defaults
const (
	DefaultHTTPAddr       = "localhost:8501"
	DefaultDriver         = "sqlite"
	DefaultDBPath         = "tasks.db"
	DefaultTitle          = "TASK MANAGER"
	DefaultCSRFTTL        = 12 * time.Hour
	DefaultNonceTTL       = 10 * time.Minute
	DefaultExportFilename = "exported_tasks.json"
	DefaultHostname       = "taskboard"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
)

// Config represents the complete taskboard configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Database  DatabaseConfig  `yaml:"database" toml:"database"`
	WebUI     WebUIConfig     `yaml:"webui" toml:"webui"`
	Export    ExportConfig    `yaml:"export" toml:"export"`
	Tailscale TailscaleConfig `yaml:"tailscale" toml:"tailscale"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging"`
}

// ServerConfig holds server address configuration
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr" toml:"http_addr"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver string `yaml:"driver" toml:"driver"`
	Path   string `yaml:"path" toml:"path"`
}

// WebUIConfig holds web UI configuration
type WebUIConfig struct {
	Title      string        `yaml:"title" toml:"title"`
	CSRFSecret string        `yaml:"csrf_secret" toml:"csrf_secret"`
	CSRFTTL    time.Duration `yaml:"-" toml:"-"`
	NonceTTL   time.Duration `yaml:"-" toml:"-"`

	// Raw string values for unmarshaling
	CSRFTTLRaw  string `yaml:"csrf_ttl" toml:"csrf_ttl"`
	NonceTTLRaw string `yaml:"nonce_ttl" toml:"nonce_ttl"`
}

// ExportConfig holds export configuration
type ExportConfig struct {
	Filename string `yaml:"filename" toml:"filename"`
}

// TailscaleConfig holds Tailscale tsnet configuration
type TailscaleConfig struct {
	Enabled   bool   `yaml:"enabled" toml:"enabled"`
	Hostname  string `yaml:"hostname" toml:"hostname"`
	AuthKey   string `yaml:"auth_key" toml:"auth_key"`
	StateDir  string `yaml:"state_dir" toml:"state_dir"`
	Ephemeral bool   `yaml:"ephemeral" toml:"ephemeral"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Files ending in .toml are decoded as TOML, anything else as YAML.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data, isTOML(path))
}

// Parse decodes configuration bytes, applies defaults and environment
// overrides, and validates the result.
func Parse(data []byte, asTOML bool) (*Config, error) {
	expanded := expandEnvVars(string(data))

	var cfg Config
	if asTOML {
		if _, err := toml.Decode(expanded, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Resolve loads configuration using the discovery order:
// explicit path, TASKBOARD_CONFIG, $XDG_CONFIG_HOME/taskboard/config.yaml,
// ~/.config/taskboard/config.yaml. A missing file is an error only when the
// path was given explicitly; otherwise defaults are returned.
func Resolve(explicit string) (*Config, string, error) {
	if explicit != "" {
		cfg, err := Load(explicit)
		return cfg, explicit, err
	}

	for _, path := range searchPaths() {
		cfg, err := Load(path)
		if err == nil {
			return cfg, path, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, path, err
		}
	}

	cfg := Default()
	cfg.applyEnv()
	return cfg, "", nil
}

// searchPaths lists candidate config files in priority order.
func searchPaths() []string {
	var paths []string
	if p := os.Getenv(EnvConfigPath); p != "" {
		paths = append(paths, p)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "taskboard", "config.yaml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "taskboard", "config.yaml"))
	}
	return paths
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPAddr == "" {
		c.Server.HTTPAddr = DefaultHTTPAddr
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DefaultDriver
	}
	if c.Database.Path == "" {
		c.Database.Path = DefaultDBPath
	}
	if c.WebUI.Title == "" {
		c.WebUI.Title = DefaultTitle
	}
	if c.WebUI.CSRFTTL == 0 {
		c.WebUI.CSRFTTL = DefaultCSRFTTL
	}
	if c.WebUI.NonceTTL == 0 {
		c.WebUI.NonceTTL = DefaultNonceTTL
	}
	if c.Export.Filename == "" {
		c.Export.Filename = DefaultExportFilename
	}
	if c.Tailscale.Hostname == "" {
		c.Tailscale.Hostname = DefaultHostname
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
}

func (c *Config) applyEnv() {
	if p := os.Getenv(EnvDBPath); p != "" {
		c.Database.Path = p
	}
}

// Validate checks that all configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if !c.Tailscale.Enabled && c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required (or enable tailscale)")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}

	switch c.Database.Driver {
	case "sqlite", "sqlite3":
	default:
		return fmt.Errorf("database.driver must be sqlite or sqlite3, got %q", c.Database.Driver)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if c.WebUI.CSRFTTL < 0 {
		return fmt.Errorf("webui.csrf_ttl must be positive")
	}
	if c.WebUI.NonceTTL < 0 {
		return fmt.Errorf("webui.nonce_ttl must be positive")
	}

	if strings.ContainsAny(c.Export.Filename, `/\"`) {
		return fmt.Errorf("export.filename must be a plain file name, got %q", c.Export.Filename)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	if cfg.WebUI.CSRFTTLRaw != "" {
		cfg.WebUI.CSRFTTL, err = time.ParseDuration(cfg.WebUI.CSRFTTLRaw)
		if err != nil {
			return fmt.Errorf("parsing csrf_ttl %q: %w", cfg.WebUI.CSRFTTLRaw, err)
		}
	}

	if cfg.WebUI.NonceTTLRaw != "" {
		cfg.WebUI.NonceTTL, err = time.ParseDuration(cfg.WebUI.NonceTTLRaw)
		if err != nil {
			return fmt.Errorf("parsing nonce_ttl %q: %w", cfg.WebUI.NonceTTLRaw, err)
		}
	}

	return nil
}

// Sample is the commented configuration written by `taskboard init`.
const Sample = `# taskboard configuration

server:
  http_addr: "localhost:8501"

database:
  driver: "sqlite"        # sqlite (pure Go) or sqlite3 (cgo)
  path: "tasks.db"

webui:
  title: "TASK MANAGER"
  csrf_secret: "${TASKBOARD_CSRF_SECRET}"
  csrf_ttl: "12h"
  nonce_ttl: "10m"

export:
  filename: "exported_tasks.json"

tailscale:
  enabled: false
  hostname: "taskboard"
  auth_key: "${TS_AUTHKEY}"
  state_dir: ""
  ephemeral: false

logging:
  level: "info"           # debug, info, warn, error
  format: "text"          # text (colored), json
`
