// Package config provides unified configuration loading for stylo.
// Settings come from defaults, then a YAML or TOML file, then environment
// variables.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nvandessel/stylo/internal/features"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DataDir is the per-project and per-user directory stylo keeps state in.
const DataDir = ".stylo"

// StyloConfig contains all stylo configuration settings.
type StyloConfig struct {
	// FunctionWords is the path of the function word list ("<word> <weight>"
	// per line). Relative paths resolve against the project root.
	FunctionWords string `json:"function_words" yaml:"function_words" toml:"function_words"`

	// Signatures configures the reference signature directory.
	Signatures SignaturesConfig `json:"signatures" yaml:"signatures" toml:"signatures"`

	// Library configures the SQLite signature library.
	Library LibraryConfig `json:"library" yaml:"library" toml:"library"`

	// Features controls tokenization before metrics are computed.
	Features features.Options `json:"features" yaml:"features" toml:"features"`

	// Fetch configures downloading texts from URLs.
	Fetch FetchConfig `json:"fetch" yaml:"fetch" toml:"fetch"`

	// Logging contains settings for operational and decision logging.
	Logging LoggingConfig `json:"logging" yaml:"logging" toml:"logging"`
}

// SignaturesConfig locates the reference signature directory.
type SignaturesConfig struct {
	// Dir holds one signature file per known author. Dot-files are ignored.
	Dir string `json:"dir" yaml:"dir" toml:"dir"`
}

// LibraryConfig locates the signature library database.
type LibraryConfig struct {
	Path string `json:"path" yaml:"path" toml:"path"`
}

// FetchConfig configures the URL text fetcher.
type FetchConfig struct {
	TimeoutSeconds int    `json:"timeout_seconds" yaml:"timeout_seconds" toml:"timeout_seconds"`
	UserAgent      string `json:"user_agent" yaml:"user_agent" toml:"user_agent"`
	MaxBytes       int64  `json:"max_bytes" yaml:"max_bytes" toml:"max_bytes"`
}

// LoggingConfig configures stylo's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables decision logging to .stylo/decisions.jsonl.
	// "trace" additionally records the full ranking of every attribution.
	Level string `json:"level" yaml:"level" toml:"level"`
}

// Default returns a StyloConfig with sensible defaults.
func Default() *StyloConfig {
	return &StyloConfig{
		FunctionWords: "FunctionWordList.txt",
		Signatures: SignaturesConfig{
			Dir: "signatures",
		},
		Library: LibraryConfig{
			Path: filepath.Join(DataDir, "library.db"),
		},
		Fetch: FetchConfig{
			TimeoutSeconds: 30,
			UserAgent:      "stylo",
			MaxBytes:       10 << 20,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// UserConfigPaths returns the candidate user config files in lookup order.
func UserConfigPaths() []string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	dir := filepath.Join(homeDir, DataDir)
	return []string{
		filepath.Join(dir, "config.yaml"),
		filepath.Join(dir, "config.toml"),
	}
}

// Load loads configuration and applies environment overrides.
// With an explicit path that file must exist. Otherwise the first existing
// file of UserConfigPaths is used, if any.
// Order: defaults -> config file -> environment variables
func Load(path string) (*StyloConfig, error) {
	config := Default()

	if path != "" {
		fileConfig, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		config = fileConfig
	} else {
		for _, candidate := range UserConfigPaths() {
			if _, statErr := os.Stat(candidate); statErr != nil {
				continue
			}
			fileConfig, err := LoadFromFile(candidate)
			if err != nil {
				return nil, fmt.Errorf("loading config file: %w", err)
			}
			config = fileConfig
			break
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a YAML or TOML file. Files ending
// in .toml are read as TOML, everything else as YAML.
func LoadFromFile(path string) (*StyloConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if isTOML(path) {
		err = toml.Unmarshal(data, config)
	} else {
		err = yaml.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	config.FunctionWords = expandEnvVars(config.FunctionWords)
	config.Signatures.Dir = expandEnvVars(config.Signatures.Dir)
	config.Library.Path = expandEnvVars(config.Library.Path)

	return config, nil
}

// Save writes the configuration to path in the format its extension
// selects, creating parent directories as needed.
func (c *StyloConfig) Save(path string) error {
	var data []byte
	var err error
	if isTOML(path) {
		var buf bytes.Buffer
		enc := toml.NewEncoder(&buf)
		err = enc.Encode(c)
		data = buf.Bytes()
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks that the configuration is valid.
func (c *StyloConfig) Validate() error {
	if strings.TrimSpace(c.FunctionWords) == "" {
		return fmt.Errorf("function_words must be set")
	}

	if c.Fetch.TimeoutSeconds < 0 {
		return fmt.Errorf("fetch.timeout_seconds must be non-negative, got %d", c.Fetch.TimeoutSeconds)
	}

	if c.Fetch.MaxBytes < 0 {
		return fmt.Errorf("fetch.max_bytes must be non-negative, got %d", c.Fetch.MaxBytes)
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// Resolve returns path made absolute against root when it is relative.
func Resolve(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *StyloConfig) {
	if v := os.Getenv("STYLO_FUNCTION_WORDS"); v != "" {
		config.FunctionWords = v
	}

	if v := os.Getenv("STYLO_SIGNATURE_DIR"); v != "" {
		config.Signatures.Dir = v
	}

	if v := os.Getenv("STYLO_LIBRARY_PATH"); v != "" {
		config.Library.Path = v
	}

	if v := os.Getenv("STYLO_KEEP_TRAILING_FRAGMENT"); v != "" {
		config.Features.KeepTrailingFragment = v == "true" || v == "1"
	}

	if v := os.Getenv("STYLO_FETCH_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Fetch.TimeoutSeconds = n
		}
	}

	if v := os.Getenv("STYLO_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return os.Expand(s, os.Getenv)
}
