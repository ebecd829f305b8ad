// Package config handles loxide.toml interpreter configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	e "github.com/loxide-lang/loxide/errors"
	"github.com/sirupsen/logrus"
)

// DefaultPath is looked up in the working directory when no path is given.
const DefaultPath = "loxide.toml"

// Config holds the interpreter settings. Zero values are never used
// directly: Load starts from Default.
type Config struct {
	Verbosity      string `toml:"verbosity"`
	Prompt         string `toml:"prompt"`
	StackMax       int    `toml:"stack_max"`
	StrictDivision bool   `toml:"strict_division"`
	Trace          bool   `toml:"trace"`

	// Source is the file the config was read from, if any.
	Source string `toml:"-"`
}

func Default() *Config {
	return &Config{
		Verbosity: "INFO",
		Prompt:    ">> ",
		StackMax:  256,
	}
}

// Load reads the config at path on top of the defaults. An empty path
// means DefaultPath, which may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
	case !explicit && errors.Is(err, fs.ErrNotExist):
		return cfg, nil
	default:
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, &e.ConfigError{Source: path, Reason: err.Error()}
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, &e.ConfigError{Source: path, Reason: "unknown keys: " + strings.Join(keys, ", ")}
	}

	cfg.Source = path
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.Verbosity); err != nil {
		return &e.ConfigError{Source: c.Source, Reason: fmt.Sprintf("bad verbosity %q", c.Verbosity)}
	}
	if c.StackMax <= 0 {
		return &e.ConfigError{Source: c.Source, Reason: "stack_max must be positive"}
	}
	return nil
}
