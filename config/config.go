package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the export settings.
type Config struct {
	Product      string   `json:"product" yaml:"product" validate:"required,excludes=/"`
	OutputDir    string   `json:"output_dir" yaml:"output_dir"`
	Formats      []string `json:"formats" yaml:"formats" validate:"required,min=1,dive,oneof=csv ics"`
	CalendarName string   `json:"calendar_name" yaml:"calendar_name"`
	LogLevel     string   `json:"log_level" yaml:"log_level" validate:"omitempty,oneof=trace debug info warn error"`
}

// Default returns the settings used when no config file is given.
func Default() *Config {
	return &Config{
		Product:      "lboro-timetable",
		OutputDir:    ".",
		Formats:      []string{"csv"},
		CalendarName: "Timetable",
	}
}

// LoadEnv loads a .env file from the working directory if one exists.
func LoadEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error loading .env: %w", err)
	}
	return nil
}

// LoadConfig reads a YAML or JSON (by extension) config file over the
// defaults, applies LBORO_* environment overrides and validates the result.
// An empty filename skips the file.
func LoadConfig(filename string) (*Config, error) {
	cfg := Default()
	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".json":
			err = json.Unmarshal(data, cfg)
		default:
			err = yaml.Unmarshal(data, cfg)
		}
		if err != nil {
			return nil, fmt.Errorf("error decoding %s: %w", filename, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("LBORO_PRODUCT"); v != "" {
		c.Product = v
	}
	if v := os.Getenv("LBORO_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("LBORO_FORMATS"); v != "" {
		c.Formats = nil
		for _, f := range strings.Split(v, ",") {
			if f = strings.TrimSpace(f); f != "" {
				c.Formats = append(c.Formats, strings.ToLower(f))
			}
		}
	}
	if v := os.Getenv("LBORO_CALENDAR_NAME"); v != "" {
		c.CalendarName = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Wants reports whether the given export format is enabled.
func (c *Config) Wants(format string) bool {
	for _, f := range c.Formats {
		if strings.EqualFold(f, format) {
			return true
		}
	}
	return false
}
