// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all addrbook configuration.
type Config struct {
	UI    UI    `yaml:"ui"`
	Theme Theme `yaml:"theme"`
	Log   Log   `yaml:"log"`
}

// UI holds window layout settings.
type UI struct {
	Title       string `yaml:"title"`
	AltScreen   bool   `yaml:"alt_screen"`   // Take over the full terminal
	TableHeight int    `yaml:"table_height"` // Visible rows in the result table
}

// Theme holds the colors used by the form. Values are lipgloss colors
// (hex like "#4CAF50" or ANSI numbers like "12").
type Theme struct {
	Accent  string `yaml:"accent"`  // Focused input border
	Button  string `yaml:"button"`  // Add/Search buttons
	Message string `yaml:"message"` // Status message line
	Title   string `yaml:"title"`   // Window title
}

// Log holds logger settings. An empty File disables logging.
type Log struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"` // "debug" | "info" | "warn" | "error"
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		UI: UI{
			Title:       "Address Book",
			AltScreen:   true,
			TableHeight: 10,
		},
		Theme: Theme{
			Accent:  "#5c8fc2",
			Button:  "#4CAF50",
			Message: "#ff4d4d",
			Title:   "#333333",
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Load reads a single YAML config file at path and returns a Config.
// For merging multiple config sources, use LoadLayered instead.
// If the file does not exist, defaults are returned without error.
// If the file contains invalid YAML or unknown fields, an error is returned.
func Load(path string) (*Config, error) {
	return LoadLayered(path)
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files and empty paths are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.UI.Title == "" {
		return errors.New("config: ui.title cannot be empty")
	}
	if c.UI.TableHeight <= 0 {
		return fmt.Errorf("config: ui.table_height must be positive, got %d", c.UI.TableHeight)
	}
	for name, v := range map[string]string{
		"theme.accent":  c.Theme.Accent,
		"theme.button":  c.Theme.Button,
		"theme.message": c.Theme.Message,
		"theme.title":   c.Theme.Title,
	} {
		if v == "" {
			return fmt.Errorf("config: %s cannot be empty", name)
		}
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("config: log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: ADDRBOOK_TITLE, ADDRBOOK_LOG_FILE, ADDRBOOK_LOG_LEVEL.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("ADDRBOOK_TITLE"); v != "" {
		c.UI.Title = v
	}
	if v := os.Getenv("ADDRBOOK_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv("ADDRBOOK_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	UI    *rawUI    `yaml:"ui"`
	Theme *rawTheme `yaml:"theme"`
	Log   *rawLog   `yaml:"log"`
}

type rawUI struct {
	Title       *string `yaml:"title"`
	AltScreen   *bool   `yaml:"alt_screen"`
	TableHeight *int    `yaml:"table_height"`
}

type rawTheme struct {
	Accent  *string `yaml:"accent"`
	Button  *string `yaml:"button"`
	Message *string `yaml:"message"`
	Title   *string `yaml:"title"`
}

type rawLog struct {
	File  *string `yaml:"file"`
	Level *string `yaml:"level"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.UI != nil {
		setIf(&c.UI.Title, layer.UI.Title)
		setIf(&c.UI.AltScreen, layer.UI.AltScreen)
		setIf(&c.UI.TableHeight, layer.UI.TableHeight)
	}
	if layer.Theme != nil {
		setIf(&c.Theme.Accent, layer.Theme.Accent)
		setIf(&c.Theme.Button, layer.Theme.Button)
		setIf(&c.Theme.Message, layer.Theme.Message)
		setIf(&c.Theme.Title, layer.Theme.Title)
	}
	if layer.Log != nil {
		setIf(&c.Log.File, layer.Log.File)
		setIf(&c.Log.Level, layer.Log.Level)
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
