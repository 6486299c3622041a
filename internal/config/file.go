package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const stateDirName = ".funcscan"

// LoadFromUserConfig reads ~/.funcscan/config.json (if present) and promotes
// its entries into environment variables, so OPENAI_*/QDRANT_* settings from
// the file are visible to the rest of the process.
func LoadFromUserConfig() error {
	home, err := os.UserHomeDir()
	if err != nil {
		// Best-effort: if we can't resolve home, just skip file loading.
		return nil
	}

	configPath := filepath.Join(home, stateDirName, "config.json")
	file, err := os.Open(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	var cfg map[string]string
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return err
	}

	for key, value := range cfg {
		if value == "" {
			continue
		}
		// Values from the config file take precedence over existing env vars.
		_ = os.Setenv(key, value)
	}

	return nil
}

// UserStateDir returns ~/.funcscan, creating it if needed. Local state such
// as per-project file-hash maps lives here.
func UserStateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, stateDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
