// Package config provides configuration loading and management for semmap.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/semmap/rules"
	"github.com/c360studio/semmap/storage"
	"github.com/c360studio/semmap/vocabulary/mapping"
)

// Transport names accepted in editor.transport.
const (
	TransportHTTP = "http"
	TransportNATS = "nats"
)

// Config represents the complete semmap configuration
type Config struct {
	// Project is the key rule documents are stored under.
	Project  string            `yaml:"project"`
	Editor   EditorConfig      `yaml:"editor"`
	Server   ServerConfig      `yaml:"server"`
	NATS     NATSConfig        `yaml:"nats"`
	Prefixes map[string]string `yaml:"prefixes"`
}

// EditorConfig configures how an editing session saves rules
type EditorConfig struct {
	// APIURL is the base URL of the rules API (rules are PUT to <api_url>/rules)
	APIURL string `yaml:"api_url"`
	// Transport is "http" or "nats"
	Transport string `yaml:"transport"`
	// SaveDelay is the quiet period before an automatic save
	SaveDelay time.Duration `yaml:"save_delay"`
	// SaveTimeout bounds a single save
	SaveTimeout time.Duration `yaml:"save_timeout"`
}

// ServerConfig configures the rules API server
type ServerConfig struct {
	Addr   string `yaml:"addr"`
	Prefix string `yaml:"prefix"`
}

// NATSConfig configures the NATS connection
type NATSConfig struct {
	// URL is the NATS server URL (empty = NATS disabled)
	URL string `yaml:"url"`
	// Subject is the request subject for rule documents
	Subject string `yaml:"subject"`
	// KV stores rule documents in a JetStream KV bucket instead of memory
	KV bool `yaml:"kv"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Project: "default",
		Editor: EditorConfig{
			APIURL:      "http://localhost:8080/api/semmap",
			Transport:   TransportHTTP,
			SaveDelay:   2 * time.Second,
			SaveTimeout: 30 * time.Second,
		},
		Server: ServerConfig{
			Addr:   ":8080",
			Prefix: "api/semmap",
		},
		NATS: NATSConfig{
			Subject: "semmap.rules.put",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Project == "" {
		return fmt.Errorf("project is required")
	}
	if err := storage.ValidateProject(c.Project); err != nil {
		return fmt.Errorf("project: %w", err)
	}
	switch c.Editor.Transport {
	case TransportHTTP:
		if c.Editor.APIURL == "" {
			return fmt.Errorf("editor.api_url is required for http transport")
		}
		if _, err := url.Parse(c.Editor.APIURL); err != nil {
			return fmt.Errorf("editor.api_url: %w", err)
		}
	case TransportNATS:
		if c.NATS.URL == "" {
			return fmt.Errorf("nats.url is required for nats transport")
		}
	default:
		return fmt.Errorf("editor.transport must be %q or %q", TransportHTTP, TransportNATS)
	}
	if c.Editor.SaveDelay < 0 {
		return fmt.Errorf("editor.save_delay must not be negative")
	}
	if c.Editor.SaveTimeout <= 0 {
		return fmt.Errorf("editor.save_timeout must be positive")
	}
	if c.NATS.KV && c.NATS.URL == "" {
		return fmt.Errorf("nats.url is required when nats.kv is enabled")
	}
	for prefix := range c.Prefixes {
		if prefix == "" || strings.ContainsAny(prefix, ": ") {
			return fmt.Errorf("invalid prefix %q", prefix)
		}
	}
	return nil
}

// PrefixTable returns the default prefixes overridden by the configured ones
func (c *Config) PrefixTable() rules.PrefixTable {
	return rules.PrefixTable(mapping.DefaultPrefixes()).Merge(c.Prefixes)
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Project != "" {
		c.Project = other.Project
	}

	// Editor
	if other.Editor.APIURL != "" {
		c.Editor.APIURL = other.Editor.APIURL
	}
	if other.Editor.Transport != "" {
		c.Editor.Transport = other.Editor.Transport
	}
	if other.Editor.SaveDelay != 0 {
		c.Editor.SaveDelay = other.Editor.SaveDelay
	}
	if other.Editor.SaveTimeout != 0 {
		c.Editor.SaveTimeout = other.Editor.SaveTimeout
	}

	// Server
	if other.Server.Addr != "" {
		c.Server.Addr = other.Server.Addr
	}
	if other.Server.Prefix != "" {
		c.Server.Prefix = other.Server.Prefix
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.Subject != "" {
		c.NATS.Subject = other.NATS.Subject
	}
	if other.NATS.KV {
		c.NATS.KV = true
	}

	// Prefixes merge key by key
	if len(other.Prefixes) > 0 {
		if c.Prefixes == nil {
			c.Prefixes = make(map[string]string, len(other.Prefixes))
		}
		for k, v := range other.Prefixes {
			c.Prefixes[k] = v
		}
	}
}
