// Package config loads the optional sneaker configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/bamsammich/sneaker/internal/filter"
)

// DefaultExcludes is used when neither the config file nor the command line
// names any exclusion.
var DefaultExcludes = []string{
	"System Volume Information",
	"$RECYCLE.BIN",
	"*.tmp",
	"Thumbs.db",
	".git",
	"bin",
	"obj",
	".vs",
}

// Config represents the optional sneaker configuration file.
type Config struct {
	Defaults DefaultsConfig `toml:"defaults"`
	Paths    PathsConfig    `toml:"paths"`
	Theme    ThemeConfig    `toml:"theme"`
}

// DefaultsConfig holds persistent flag defaults.
type DefaultsConfig struct {
	Exclude        []string `toml:"exclude"`
	ExcludeFile    *string  `toml:"exclude_file"`
	MinFree        *string  `toml:"min_free"`
	MTimeTolerance *string  `toml:"mtime_tolerance"`
	Verify         *bool    `toml:"verify"`
	BWLimit        *string  `toml:"bwlimit"`
}

// PathsConfig remembers the three roots so they can be omitted on the
// command line.
type PathsConfig struct {
	Home    *string `toml:"home"`
	Offsite *string `toml:"offsite"`
	Medium  *string `toml:"medium"`
}

// ThemeConfig holds optional color overrides for action labels.
type ThemeConfig struct {
	Copy   *string `toml:"copy"`
	Move   *string `toml:"move"`
	Delete *string `toml:"delete"`
	Error  *string `toml:"error"`
	Muted  *string `toml:"muted"`
}

// Path returns the resolved path to the config file.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "sneaker", "config.toml")
}

// Load reads the config file from the XDG path. Returns a zero Config
// (no error) if the file does not exist. Config is always optional.
func Load() (Config, error) {
	path := Path()
	if path == "" {
		return Config{}, nil
	}
	return LoadFile(path)
}

// LoadFile reads the config file at path. A missing file is not an error.
func LoadFile(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

// Excludes returns the configured exclusion patterns, or DefaultExcludes
// when none are configured. An explicitly empty list disables the defaults.
func (d DefaultsConfig) Excludes() []string {
	if d.Exclude == nil {
		return append([]string(nil), DefaultExcludes...)
	}
	return append([]string(nil), d.Exclude...)
}

// MinFreeBytes parses min_free. ok is false when unset.
func (d DefaultsConfig) MinFreeBytes() (n int64, ok bool, err error) {
	if d.MinFree == nil {
		return 0, false, nil
	}
	n, err = filter.ParseSize(*d.MinFree)
	if err != nil {
		return 0, false, fmt.Errorf("min_free: %w", err)
	}
	return n, true, nil
}

// BWLimitBytes parses bwlimit. ok is false when unset.
func (d DefaultsConfig) BWLimitBytes() (n int64, ok bool, err error) {
	if d.BWLimit == nil {
		return 0, false, nil
	}
	n, err = filter.ParseSize(*d.BWLimit)
	if err != nil {
		return 0, false, fmt.Errorf("bwlimit: %w", err)
	}
	return n, true, nil
}

// Tolerance parses mtime_tolerance. ok is false when unset.
func (d DefaultsConfig) Tolerance() (time.Duration, bool, error) {
	if d.MTimeTolerance == nil {
		return 0, false, nil
	}
	tol, err := time.ParseDuration(*d.MTimeTolerance)
	if err != nil {
		return 0, false, fmt.Errorf("mtime_tolerance: %w", err)
	}
	if tol <= 0 {
		return 0, false, fmt.Errorf("mtime_tolerance: must be positive, got %s", tol)
	}
	return tol, true, nil
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
