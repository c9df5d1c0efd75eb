// Package config provides process-wide configuration for the server and CLI.
// A Config is built once at start-up and handed to every component that needs
// it; nothing else reads the environment.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config represents the runtime configuration that can be loaded from a JSON
// file and overridden by environment variables.
type Config struct {
	Port            int      `json:"port,omitempty" validate:"gte=0,lte=65535"`
	ThemesDir       string   `json:"themes_dir,omitempty" validate:"required"`       // Directory holding <name>.yaml themes
	TypstBinary     string   `json:"typst_binary,omitempty" validate:"required"`     // Typst compiler executable
	PythonBinary    string   `json:"python_binary,omitempty" validate:"required"`    // Interpreter with rendercv installed
	FontPath        string   `json:"font_path,omitempty"`                            // RENDERCV_FONT_PATH
	AssetsDir       string   `json:"assets_dir,omitempty"`                           // RenderCV assets directory (contains fonts/)
	CompileTimeout  Duration `json:"compile_timeout,omitempty" validate:"gte=0"`
	GenerateTimeout Duration `json:"generate_timeout,omitempty" validate:"gte=0"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:            8080,
		ThemesDir:       filepath.Join("templates", "themes"),
		TypstBinary:     "typst",
		PythonBinary:    "python3",
		CompileTimeout:  Duration(60 * time.Second),
		GenerateTimeout: Duration(60 * time.Second),
	}
}

// Load builds the effective configuration: environment variables win over
// the optional JSON file at path, which wins over Defaults.
func Load(path string) (*Config, error) {
	cfg := FromEnv()

	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
	}
	cfg = cfg.MergeWithDefaults(Defaults())

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv reads the configuration from environment variables. Unset
// variables leave their fields zero.
func FromEnv() Config {
	return Config{
		Port:            getEnvInt("PORT", 0),
		ThemesDir:       os.Getenv("THEMES_DIR"),
		TypstBinary:     os.Getenv("TYPST_BIN"),
		PythonBinary:    os.Getenv("PYTHON_BIN"),
		FontPath:        os.Getenv("RENDERCV_FONT_PATH"),
		AssetsDir:       os.Getenv("RENDERCV_ASSETS_DIR"),
		CompileTimeout:  Duration(getEnvDuration("COMPILE_TIMEOUT", 0)),
		GenerateTimeout: Duration(getEnvDuration("GENERATE_TIMEOUT", 0)),
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if info, err := os.Stat(c.ThemesDir); err == nil && !info.IsDir() {
		return fmt.Errorf("config error: themes_dir is not a directory: %s", c.ThemesDir)
	}

	return nil
}

// MergeWithDefaults returns a new Config with zero fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.ThemesDir == "" {
		result.ThemesDir = defaults.ThemesDir
	}
	if result.TypstBinary == "" {
		result.TypstBinary = defaults.TypstBinary
	}
	if result.PythonBinary == "" {
		result.PythonBinary = defaults.PythonBinary
	}
	if result.FontPath == "" {
		result.FontPath = defaults.FontPath
	}
	if result.AssetsDir == "" {
		result.AssetsDir = defaults.AssetsDir
	}
	if result.CompileTimeout == 0 {
		result.CompileTimeout = defaults.CompileTimeout
	}
	if result.GenerateTimeout == 0 {
		result.GenerateTimeout = defaults.GenerateTimeout
	}

	return result
}

// Duration is a time.Duration that reads JSON as "30s" or as whole seconds.
type Duration time.Duration

// UnmarshalJSON accepts a duration string or a number of seconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var seconds float64
	if err := json.Unmarshal(data, &seconds); err != nil {
		return fmt.Errorf("duration must be a string or a number of seconds: %s", data)
	}
	*d = Duration(seconds * float64(time.Second))
	return nil
}

// MarshalJSON writes the duration in time.Duration notation.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
