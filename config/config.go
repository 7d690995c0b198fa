package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config is the root configuration structure.
type Config struct {
	Mirror   MirrorConfig   `json:"mirror"`
	API      APIConfig      `json:"api"`
	Filters  FilterConfig   `json:"filters"`
	Sanitize SanitizeConfig `json:"sanitize"`
}

// MirrorConfig holds the local mirror store layout.
type MirrorConfig struct {
	BaseDir string `json:"baseDir"` // Default: "./mirrors"
}

// APIConfig holds GitHub API access options.
type APIConfig struct {
	BaseURL  string      `json:"baseUrl"`
	TokenEnv string      `json:"tokenEnv"` // Environment variable holding the token
	Retry    RetryConfig `json:"retry"`
}

// RetryConfig holds rate-limit backoff options.
type RetryConfig struct {
	MaxAttempts   int `json:"maxAttempts"` // 0 means retry until the limit lifts
	WaitSeconds   int `json:"waitSeconds"`
	JitterSeconds int `json:"jitterSeconds"`
}

// FilterConfig holds change-set filtering options. An entry is enriched only
// when every changed file matches at least one pattern.
type FilterConfig struct {
	Paths []string `json:"paths"`
}

// SanitizeConfig holds source content processing options.
type SanitizeConfig struct {
	RemoveComments bool `json:"removeComments"`
}

// DefaultConfig returns a configuration with default values. The default
// filter patterns select the search-related sources of a chess engine.
func DefaultConfig() *Config {
	return &Config{
		Mirror: MirrorConfig{
			BaseDir: "./mirrors",
		},
		API: APIConfig{
			BaseURL:  "https://api.github.com",
			TokenEnv: "GITHUB_TOKEN",
			Retry: RetryConfig{
				MaxAttempts:   0,
				WaitSeconds:   600,
				JitterSeconds: 30,
			},
		},
		Filters: FilterConfig{
			Paths: []string{
				"*search.*",
				"*searches.*",
				"*negamax.*",
				"*mybot.*",
				"*alphabeta.*",
				"*pvs.*",
				"*search_manager.*",
				"*search_worker.*",
				"*searcher.*",
				"*chess_search.*",
				"*Searcher.*",
				"*caps.*",
				"*engine.*",
				"*IterativeSearch.*",
				"*main.*",
				"*BasicSearch.*",
				"*search/mod.*",
				"*search/engine.*",
			},
		},
		Sanitize: SanitizeConfig{
			RemoveComments: false,
		},
	}
}

// LoadConfig loads configuration from a file, merging with defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		// Try default locations
		candidates := []string{".diffminer.json"}
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			candidates = append(candidates, filepath.Join(home, ".diffminer.json"))
		} else if envHome := os.Getenv("HOME"); envHome != "" {
			candidates = append(candidates, filepath.Join(envHome, ".diffminer.json"))
		}
		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveConfig saves configuration to a file.
func SaveConfig(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
