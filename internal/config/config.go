package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Role constants
const (
	RoleCitizen = "citizen"
	RolePHC     = "phc" // primary health centre staff
	RoleLab     = "lab" // testing laboratory staff
)

// Config represents the flat waterwatch configuration
type Config struct {
	Version  string `json:"version"`
	Role     string `json:"role"`               // "citizen", "phc" or "lab"
	District string `json:"district,omitempty"` // home district for scoped commands
}

// LoadConfig reads .waterwatch/config.json from the specified directory.
// Returns error if no config found - caller should handle accordingly.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ".waterwatch", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	cfgDir := filepath.Join(dir, ".waterwatch")
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		return fmt.Errorf("failed to create .waterwatch dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(cfgDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// ValidRole reports whether the role is one of the known actor roles.
func ValidRole(role string) bool {
	return role == RoleCitizen || role == RolePHC || role == RoleLab
}
