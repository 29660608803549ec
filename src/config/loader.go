package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Loader handles configuration loading from YAML or TOML files
type Loader struct{}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{}
}

var envPattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)(?::-([^}]*))?\}`)

// Load loads configuration from a file with environment variable substitution.
// Files ending in .toml are decoded as TOML, everything else as YAML.
// Environment variables can be referenced using:
//   - ${VAR_NAME} - substitutes the value of VAR_NAME, empty string if not set
//   - ${VAR_NAME:-default} - substitutes VAR_NAME or "default" if not set
func (l *Loader) Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	filePath := l.resolveConfigPath(configPath)
	if filePath == "" {
		// No config file found, use defaults
		return cfg, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := []byte(l.expandEnvVars(string(data)))

	if strings.EqualFold(filepath.Ext(filePath), ".toml") {
		err = toml.Unmarshal(expanded, cfg)
	} else {
		err = yaml.Unmarshal(expanded, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", filePath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", filePath, err)
	}
	return cfg, nil
}

func (l *Loader) resolveConfigPath(configPath string) string {
	if configPath != "" {
		return configPath
	}

	defaults := []string{
		"code-analyzer.yaml",
		"code-analyzer.toml",
		"config/config.yaml",
		filepath.Join(os.Getenv("HOME"), ".code-analyzer", "config.yaml"),
	}

	for _, path := range defaults {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// expandEnvVars expands ${VAR} and ${VAR:-default} references
func (l *Loader) expandEnvVars(input string) string {
	return envPattern.ReplaceAllStringFunc(input, func(match string) string {
		submatches := envPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		if val, exists := os.LookupEnv(submatches[1]); exists {
			return val
		}
		if len(submatches) >= 3 {
			return submatches[2]
		}
		return ""
	})
}
