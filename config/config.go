package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config carries the node settings. Block timing is fixed at the protocol
// level; the interval here only controls how fast the local block producer
// ticks.
type Config struct {
	DataDir             string `toml:"DataDir"`
	NetworkName         string `toml:"NetworkName"`
	Environment         string `toml:"Environment"`
	BlockIntervalMillis uint64 `toml:"BlockIntervalMillis"`
	GenesisTime         uint64 `toml:"GenesisTime"`
	RandomnessSeed      string `toml:"RandomnessSeed"`
}

// Load loads the configuration from the given path, creating a default file
// when none exists.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = "./rentchain-data"
	}
	if strings.TrimSpace(cfg.NetworkName) == "" {
		cfg.NetworkName = "rentchain-local"
	}
	if cfg.BlockIntervalMillis == 0 {
		cfg.BlockIntervalMillis = 6000
	}
	if cfg.GenesisTime == 0 {
		cfg.GenesisTime = uint64(time.Now().Unix())
	}
}

// createDefault creates and saves a default configuration file.
func createDefault(path string) (*Config, error) {
	cfg := &Config{
		DataDir:             "./rentchain-data",
		NetworkName:         "rentchain-local",
		Environment:         "local",
		BlockIntervalMillis: 6000,
		GenesisTime:         uint64(time.Now().Unix()),
		RandomnessSeed:      "rentchain-local-seed",
	}
	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return toml.NewEncoder(file).Encode(cfg)
}
