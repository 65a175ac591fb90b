package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// configFile is the name looked for in the working directory when --config
// is not given.
const configFile = "regmap.toml"

// Config holds settings read from a regmap.toml file. Every field has a
// matching command-line flag; flags win where both are set.
type Config struct {
	Extensions      []string `toml:"extensions"`        // File suffixes to compile (default: [".xml"])
	ContinueOnError bool     `toml:"continue_on_error"` // Report every broken document instead of stopping
	ShowGaps        bool     `toml:"show_gaps"`         // Dump unallocated ranges too
}

// loadConfig reads the config file at path. An empty path means the default
// file in the working directory, which may be absent; an explicit path must
// exist.
func loadConfig(path string) (Config, error) {
	var cfg Config

	explicit := path != ""
	if !explicit {
		path = configFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
