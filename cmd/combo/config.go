package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
)

const defaultConfigFile = "combo.toml"

// Config holds defaults for command line flags. Flags given explicitly win.
type Config struct {
	Grammar   string `toml:"grammar"`
	Format    string `toml:"format"`
	Encoding  string `toml:"encoding"`
	Keyed     bool   `toml:"keyed"`
	Verbosity int    `toml:"verbosity"`
}

func defaultConfig() Config {
	return Config{Format: "json"}
}

// loadConfig reads path over the defaults. A missing default config file
// is not an error; a missing file named explicitly is.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("load config: unknown keys %v in %s", undecoded, path)
	}
	return cfg, nil
}
