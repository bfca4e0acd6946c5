package config

import (
	"fmt"
	"strconv"
)

// Keys lists the dot-notation keys understood by Get and Set.
var Keys = []string{
	"function_words",
	"signatures.dir",
	"library.path",
	"features.keep_trailing_fragment",
	"fetch.timeout_seconds",
	"fetch.user_agent",
	"fetch.max_bytes",
	"logging.level",
}

// Get retrieves a configuration value by dot-notation key.
func (c *StyloConfig) Get(key string) (any, bool) {
	switch key {
	case "function_words":
		return c.FunctionWords, true
	case "signatures.dir":
		return c.Signatures.Dir, true
	case "library.path":
		return c.Library.Path, true
	case "features.keep_trailing_fragment":
		return c.Features.KeepTrailingFragment, true
	case "fetch.timeout_seconds":
		return c.Fetch.TimeoutSeconds, true
	case "fetch.user_agent":
		return c.Fetch.UserAgent, true
	case "fetch.max_bytes":
		return c.Fetch.MaxBytes, true
	case "logging.level":
		return c.Logging.Level, true
	default:
		return nil, false
	}
}

// Set sets a configuration value by dot-notation key.
func (c *StyloConfig) Set(key, value string) error {
	switch key {
	case "function_words":
		c.FunctionWords = value
	case "signatures.dir":
		c.Signatures.Dir = value
	case "library.path":
		c.Library.Path = value
	case "features.keep_trailing_fragment":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %s", value)
		}
		c.Features.KeepTrailingFragment = b
	case "fetch.timeout_seconds":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid timeout: %s (must be a non-negative number of seconds)", value)
		}
		c.Fetch.TimeoutSeconds = n
	case "fetch.user_agent":
		c.Fetch.UserAgent = value
	case "fetch.max_bytes":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid byte limit: %s", value)
		}
		c.Fetch.MaxBytes = n
	case "logging.level":
		switch value {
		case "info", "debug", "trace":
			c.Logging.Level = value
		default:
			return fmt.Errorf("invalid log level: %s (valid: info, debug, trace)", value)
		}
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}
