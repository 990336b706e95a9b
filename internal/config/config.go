// Package config loads configuration from an optional YAML file and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFileEnv names the variable pointing at an optional YAML config file.
const ConfigFileEnv = "CLOUDEE_CONFIG_FILE"

// Nextcloud holds the OCS API endpoint and admin credentials.
type Nextcloud struct {
	URL      string `yaml:"url"`
	Params   string `yaml:"params"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// Webdav holds the WebDAV endpoint used for folder listings and downloads.
type Webdav struct {
	URL      string `yaml:"url"`
	BasePath string `yaml:"base_path"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// Archive holds the optional S3-compatible bucket receiving file copies.
type Archive struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
}

// Enabled reports whether an archive target is configured.
func (a Archive) Enabled() bool {
	return a.Endpoint != "" && a.Bucket != ""
}

// Config holds all server configuration.
type Config struct {
	ListenAddr  string        `yaml:"listen_addr"`
	LogLevel    string        `yaml:"log_level"`
	LogFormat   string        `yaml:"log_format"`
	JWTSecret   string        `yaml:"jwt_secret"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	Nextcloud Nextcloud `yaml:"nextcloud"`
	Webdav    Webdav    `yaml:"webdav"`
	Archive   Archive   `yaml:"archive"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		ListenAddr:  ":8080",
		LogLevel:    "info",
		LogFormat:   "json",
		HTTPTimeout: 30 * time.Second,
	}
}

// Load reads the YAML file named by CLOUDEE_CONFIG_FILE, if any, and then
// applies environment overrides.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyFallbacks()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.ListenAddr, "CLOUDEE_LISTEN_ADDR")
	setString(&c.LogLevel, "CLOUDEE_LOG_LEVEL")
	setString(&c.LogFormat, "CLOUDEE_LOG_FORMAT")
	setString(&c.JWTSecret, "CLOUDEE_JWT_SECRET")

	setString(&c.Nextcloud.URL, "CLOUDEE_NEXTCLOUD_URL")
	setString(&c.Nextcloud.Params, "CLOUDEE_NEXTCLOUD_PARAMS")
	setString(&c.Nextcloud.User, "CLOUDEE_NEXTCLOUD_USER")
	setString(&c.Nextcloud.Password, "CLOUDEE_NEXTCLOUD_PASSWORD")

	setString(&c.Webdav.URL, "CLOUDEE_WEBDAV_URL")
	setString(&c.Webdav.BasePath, "CLOUDEE_WEBDAV_BASE_PATH")
	setString(&c.Webdav.User, "CLOUDEE_WEBDAV_USER")
	setString(&c.Webdav.Password, "CLOUDEE_WEBDAV_PASSWORD")

	setString(&c.Archive.Endpoint, "CLOUDEE_ARCHIVE_ENDPOINT")
	setString(&c.Archive.AccessKey, "CLOUDEE_ARCHIVE_ACCESS_KEY")
	setString(&c.Archive.SecretKey, "CLOUDEE_ARCHIVE_SECRET_KEY")
	setString(&c.Archive.Bucket, "CLOUDEE_ARCHIVE_BUCKET")

	if v := os.Getenv("CLOUDEE_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CLOUDEE_HTTP_TIMEOUT: %w", err)
		}
		c.HTTPTimeout = d
	}
	return nil
}

// The WebDAV endpoint usually belongs to the same Nextcloud account.
func (c *Config) applyFallbacks() {
	if c.Webdav.User == "" {
		c.Webdav.User = c.Nextcloud.User
	}
	if c.Webdav.Password == "" {
		c.Webdav.Password = c.Nextcloud.Password
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = 30 * time.Second
	}
}

// Validate checks that the remote endpoints are configured.
func (c *Config) Validate() error {
	var errs []error
	if c.Nextcloud.URL == "" {
		errs = append(errs, errors.New("nextcloud url is required (CLOUDEE_NEXTCLOUD_URL)"))
	}
	if c.Webdav.URL == "" {
		errs = append(errs, errors.New("webdav url is required (CLOUDEE_WEBDAV_URL)"))
	}
	if c.Archive.Endpoint != "" && c.Archive.Bucket == "" {
		errs = append(errs, errors.New("archive bucket is required when an archive endpoint is set"))
	}
	return errors.Join(errs...)
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = strings.TrimSpace(v)
	}
}
