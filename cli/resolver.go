package cli

import (
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve is a [kong.ConfigurationLoader] that parses YAML config files.
//
// The file is a flat mapping from flag names to values. Flag names with
// hyphens (e.g. "log-level") may use underscores in the config file
// (e.g. "log_level"). Command-line flags override config file values.
//
// Example:
//
//	log_level: debug
//	log_format: text
func resolve(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		// Unreadable config - fall back to defaults
		return config{}, nil
	}

	var values map[string]any

	err = yaml.Unmarshal(data, &values)
	if err != nil {
		// Malformed config - fall back to defaults
		return config{}, nil
	}

	return config(values), nil
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error {
	// The config was already parsed successfully
	return nil
}

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	// Kong flags use hyphens but YAML keys may use underscores.
	underscore := strings.ReplaceAll(flag.Name, "-", "_")
	if value, ok := c[underscore]; ok {
		return value, nil
	}

	// Not found - let Kong use defaults
	return nil, nil
}
