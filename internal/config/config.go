package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/menta2k/image-resizer/pkg/loader"
)

// Config holds the application configuration
type Config struct {
	Loader LoaderConfig `json:"loader" yaml:"loader"`
	Output OutputConfig `json:"output" yaml:"output"`
	Batch  BatchConfig  `json:"batch" yaml:"batch"`
}

// LoaderConfig holds configuration for fetching source images
type LoaderConfig struct {
	TimeoutSeconds int    `json:"timeout_seconds" yaml:"timeout_seconds"`
	UserAgent      string `json:"user_agent" yaml:"user_agent"`
	MaxBytes       int64  `json:"max_bytes" yaml:"max_bytes"`
	MinImageSize   int    `json:"min_image_size" yaml:"min_image_size"`
}

// OutputConfig holds configuration for output generation
type OutputConfig struct {
	Format   string `json:"format" yaml:"format"`
	Quality  int    `json:"quality" yaml:"quality"`
	Lossless bool   `json:"lossless" yaml:"lossless"`
	Dir      string `json:"dir" yaml:"dir"`
	Prefix   string `json:"prefix" yaml:"prefix"`
	Suffix   string `json:"suffix" yaml:"suffix"`
}

// BatchConfig holds configuration for directory processing
type BatchConfig struct {
	Workers int `json:"workers" yaml:"workers"`
}

// Default returns a configuration with default values
func Default() *Config {
	lc := loader.DefaultConfig()
	return &Config{
		Loader: LoaderConfig{
			TimeoutSeconds: int(lc.Timeout / time.Second),
			UserAgent:      lc.UserAgent,
			MaxBytes:       lc.MaxBytes,
			MinImageSize:   1,
		},
		Output: OutputConfig{
			Format:   "jpg",
			Quality:  90,
			Lossless: false,
			Dir:      "./output",
			Prefix:   "",
			Suffix:   "_resized",
		},
		Batch: BatchConfig{
			Workers: 4,
		},
	}
}

// LoaderSettings converts the loader section for loader.NewWithConfig
func (c *Config) LoaderSettings() loader.Config {
	return loader.Config{
		Timeout:   time.Duration(c.Loader.TimeoutSeconds) * time.Second,
		UserAgent: c.Loader.UserAgent,
		MaxBytes:  c.Loader.MaxBytes,
	}
}

// LoadFromFile loads configuration from a JSON or YAML file.
// Fields missing from the file keep their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if isYAML(filename) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration as JSON, or YAML for .yaml/.yml files
func (c *Config) SaveToFile(filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var data []byte
	var err error
	if isYAML(filename) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Loader.TimeoutSeconds < 0 {
		return fmt.Errorf("loader.timeout_seconds must not be negative")
	}

	if c.Loader.MinImageSize < 1 {
		return fmt.Errorf("loader.min_image_size must be positive")
	}

	switch strings.ToLower(c.Output.Format) {
	case "jpg", "jpeg", "png", "webp":
	default:
		return fmt.Errorf("output.format must be one of jpg, png, webp")
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	if c.Batch.Workers < 1 {
		return fmt.Errorf("batch.workers must be positive")
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "image-resizer", "config.json")
}

// FindConfigPath returns explicit when set, otherwise the default path if a
// file exists there. An empty result means no config file should be loaded.
func FindConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	path := GetConfigPath()
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path
	}
	return ""
}

func isYAML(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".yaml" || ext == ".yml"
}
