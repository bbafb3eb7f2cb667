package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the configuration for a board variant.
// Search order: customPath -> ~/.snakefall/configs/<variant>.yaml ->
// ./configs/<variant>.yaml -> embedded default -> hardcoded default.
// Files only need to set the keys they change; the rest keep the defaults.
func Load(variant, customPath string) (SnakefallConfig, error) {
	// Try custom path first
	if customPath != "" {
		cfg, err := LoadFile(variant, customPath)
		if err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	filename := variant + ".yaml"

	// Try user config directory
	if userCfgPath := userConfigPath(filename); userCfgPath != "" {
		if cfg, err := LoadFile(variant, userCfgPath); err == nil {
			return cfg, nil
		}
	}

	// Try local configs directory
	if cfg, err := LoadFile(variant, filepath.Join("configs", filename)); err == nil {
		return cfg, nil
	}

	// Use embedded default YAML
	if data := GetDefaultYAML(variant); data != nil {
		if cfg, err := Parse(variant, data); err == nil {
			return cfg, nil
		}
	}
	cfg := DefaultConfig(variant)
	return cfg, cfg.Validate()
}

// LoadFile reads and validates a config file, layered over the variant's
// hardcoded defaults.
func LoadFile(variant, path string) (SnakefallConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SnakefallConfig{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(variant, data)
	if err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the variant's defaults and validates the result.
func Parse(variant string, data []byte) (SnakefallConfig, error) {
	cfg := DefaultConfig(variant)
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Marshal encodes a config as YAML.
func Marshal(cfg SnakefallConfig) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".snakefall", "configs", filename)
}
