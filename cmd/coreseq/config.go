package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// config holds CLI-level settings. The engines themselves take no
// configuration; this only selects which engine runs and how chatty ingestion
// is.
type config struct {
	// Engine is one of "sequitur", "rle", "repair".
	Engine string `toml:"engine"`

	// Progress prints a running byte count every N ingested bytes; 0
	// disables it.
	Progress int `toml:"progress"`
}

func defaultConfig() config {
	return config{
		Engine:   "sequitur",
		Progress: 100_000,
	}
}

// loadConfig reads the TOML file at path over the defaults. An empty path
// returns the defaults unchanged.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	switch cfg.Engine {
	case "sequitur", "rle", "repair":
	default:
		return cfg, fmt.Errorf("config %s: unknown engine %q", path, cfg.Engine)
	}
	return cfg, nil
}
