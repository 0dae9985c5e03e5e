package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// AI holds the reviewer backend settings. The API key comes from the
// environment, never from the config file.
type AI struct {
	Model   string `json:"model"`
	BaseURL string `json:"baseUrl"`
}

type Config struct {
	StaticTools       []string `json:"staticTools"`
	SolcPath          string   `json:"solcPath"`
	SeverityThreshold string   `json:"severityThreshold"`
	Parallel          bool     `json:"parallel"`
	Cache             bool     `json:"cache"`
	RetryAttempts     int      `json:"retryAttempts"`
	AI                AI       `json:"ai"`
}

func Default() Config {
	return Config{
		StaticTools:       []string{"slither", "solhint"},
		SeverityThreshold: "info",
		Parallel:          true,
		Cache:             true,
		RetryAttempts:     2,
		AI:                AI{Model: "gpt-4o-mini"},
	}
}

const fileName = ".solpipe.json"

// Load searches upward from startDir for a .solpipe.json and merges it over
// the defaults. Returns the config, the file used (if any), and any read error.
func Load(startDir string) (Config, string, error) {
	cfg := Default()
	dir := startDir
	for {
		candidate := filepath.Join(dir, fileName)
		if _, err := os.Stat(candidate); err == nil {
			b, err := os.ReadFile(candidate)
			if err != nil {
				return cfg, candidate, err
			}
			if err := json.Unmarshal(b, &cfg); err != nil {
				return cfg, candidate, err
			}
			return cfg, candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached root
			break
		}
		dir = parent
	}
	return cfg, "", nil
}

// Write saves a config file into dir.
func Write(dir string, cfg Config) (string, error) {
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, fileName)
	return path, os.WriteFile(path, b, 0o644)
}
