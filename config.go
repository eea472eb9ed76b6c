// Copyright 2021 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package seamcarve

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Defaults used when neither a config file nor a flag sets a value
const (
	DefaultRows      = 100
	DefaultCols      = 100
	defaultAwsRegion = `eu-west-2`
)

// Config holds the settings which can be given in a config file.
// Any command line flag which is explicitly set overrides these.
type Config struct {
	Rows    int    `toml:"rows"`
	Cols    int    `toml:"cols"`
	Workers int    `toml:"workers"`
	Region  string `toml:"region"`
	TempDir string `toml:"tempdir"`
}

// DefaultConfig returns the built in settings
func DefaultConfig() Config {
	return Config{
		Rows:    DefaultRows,
		Cols:    DefaultCols,
		Region:  defaultAwsRegion,
		TempDir: filepath.Join(os.TempDir(), "seamcarve"),
	}
}

// DefaultConfigPath is where the config file is looked for if none
// is named explicitly
func DefaultConfigPath() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "seamcarve", "config.toml")
}

// LoadConfig reads a TOML config file on top of the defaults. If the
// file doesn't exist and required is false the defaults are returned
// without error.
func LoadConfig(path string, required bool) (Config, error) {
	c := DefaultConfig()
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return DefaultConfig(), fmt.Errorf("Error reading config from %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		var keys []string
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return DefaultConfig(), fmt.Errorf("Error reading config from %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if c.Rows < 0 || c.Cols < 0 || c.Workers < 0 {
		return DefaultConfig(), fmt.Errorf("%w: config %s has negative values", ErrInvalidArgument, path)
	}
	return c, nil
}
