package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// PathEnv names the config file when no path is passed to Load.
const PathEnv = "JLEX_CONFIG"

// DefaultPath is tried when neither a path nor PathEnv is given.
const DefaultPath = "jlex.yaml"

// Load reads configuration from a YAML file and the environment, then
// validates it. Environment variables override the file; env-default tags
// fill the rest.
//
// The file is path, else $JLEX_CONFIG, else ./jlex.yaml. A missing file is
// an error only when it was named explicitly; otherwise the environment
// alone is used.
func Load(path string) (*Config, error) {
	explicit := true
	if path == "" {
		path = os.Getenv(PathEnv)
	}
	if path == "" {
		path, explicit = DefaultPath, false
	}

	var cfg Config
	err := cleanenv.ReadConfig(path, &cfg)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		cfg = Config{}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	default:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg.expandPaths()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// expandPaths resolves a leading "~/" in file settings against the user's
// home directory. Paths are left alone when the home directory is unknown.
func (c *Config) expandPaths() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	for _, p := range []*string{&c.Log.File, &c.Script.JoyoPath, &c.Learning.Path} {
		if rest, ok := strings.CutPrefix(*p, "~/"); ok {
			*p = filepath.Join(home, rest)
		}
	}
}
