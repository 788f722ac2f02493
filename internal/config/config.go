// Package config handles mtpoi configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// LocalFile is the config file looked up in the working directory.
const LocalFile = "mtpoi.toml"

// Config is the mtpoi configuration. Paths other than dump_root-relative
// inputs are relative to the working directory.
type Config struct {
	// DumpRoot is the directory the game export was written to.
	DumpRoot string `toml:"dump_root" json:"dump_root"`

	// OutputDir receives the out_*.json files.
	OutputDir string `toml:"output_dir" json:"output_dir"`

	// GameMount is the dump directory that "/Game/" references map to.
	GameMount string `toml:"game_mount" json:"game_mount"`

	// Inputs, relative to DumpRoot.
	WorldFile        string `toml:"world_file" json:"world_file"`
	DeliveryPointDir string `toml:"delivery_point_dir" json:"delivery_point_dir"`
	GeneratedDir     string `toml:"generated_dir" json:"generated_dir"`
	HousesFile       string `toml:"houses_file" json:"houses_file"`

	// TaxonomyFile optionally replaces the built-in cargo taxonomy (YAML).
	TaxonomyFile string `toml:"taxonomy_file" json:"taxonomy_file"`

	// DefaultMaxStorage is used where no record sets a capacity.
	DefaultMaxStorage int64 `toml:"default_max_storage" json:"default_max_storage"`

	// Workers bounds concurrent entity resolution. 0 means one per CPU.
	Workers int `toml:"workers" json:"workers"`

	// Strict aborts the run on the first bad entity.
	Strict bool `toml:"strict" json:"strict"`

	// Compress also writes zstd copies of every output.
	Compress bool `toml:"compress" json:"compress"`

	// IndexPath, when set, receives a SQLite copy of every record.
	IndexPath string `toml:"index_path" json:"index_path"`

	// History appends a line per run to .mtpoi-history.jsonl in OutputDir.
	History bool `toml:"history" json:"history"`

	Types TypesConfig `toml:"types" json:"types"`
	House HouseConfig `toml:"house" json:"house"`
	UI    UIConfig    `toml:"ui" json:"ui"`
}

// TypesConfig names the actor types extracted per category.
type TypesConfig struct {
	BusStops   []string `toml:"bus_stops" json:"bus_stops"`
	EvCharger  string   `toml:"ev_charger" json:"ev_charger"`
	House      string   `toml:"house" json:"house"`
	AreaVolume string   `toml:"area_volume" json:"area_volume"`
}

// HouseConfig holds house defaults.
type HouseConfig struct {
	DefaultSizeX float64 `toml:"default_size_x" json:"default_size_x"`
	DefaultSizeY float64 `toml:"default_size_y" json:"default_size_y"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an ANSI color code ("0" to "255") or hex color ("#RRGGBB").
	Accent string `toml:"accent" json:"accent"`

	// CodeTheme sets the Glamour/Chroma theme used for rendered docs.
	CodeTheme string `toml:"code_theme" json:"code_theme"`
}

// Default returns the configuration used when no file sets a key.
func Default() *Config {
	return &Config{
		DumpRoot:          ".",
		OutputDir:         ".",
		GameMount:         "MotorTown/Content",
		WorldFile:         "MotorTown/Content/Maps/Jeju/Jeju_World.json",
		DeliveryPointDir:  "MotorTown/Content/Objects/Mission/Delivery/DeliveryPoint",
		GeneratedDir:      "MotorTown/Content/Maps/Jeju/Jeju_World/_Generated_",
		HousesFile:        "MotorTown/Content/DataAsset/Houses.json",
		DefaultMaxStorage: 100,
		Strict:            true,
		History:           true,
		Types: TypesConfig{
			BusStops:   []string{"BusStop_01_C", "BusStop_02_C", "BusStop_03_C", "BusTerminal_01_C"},
			EvCharger:  "EVCharger_C",
			House:      "House_C",
			AreaVolume: "MTAreaVolume",
		},
		House: HouseConfig{DefaultSizeX: 2000, DefaultSizeY: 2000},
	}
}

// Load finds and loads the config file. explicit, when set, must exist.
// Otherwise ./mtpoi.toml and then DefaultPath are tried; with neither
// present the defaults are returned. The returned path is "" in that case.
func Load(explicit string) (*Config, string, error) {
	if explicit != "" {
		cfg, err := LoadFrom(explicit)
		return cfg, explicit, err
	}
	for _, p := range []string{LocalFile, DefaultPath()} {
		if _, err := os.Stat(p); err == nil {
			cfg, err := LoadFrom(p)
			return cfg, p, err
		}
	}
	return Default(), "", nil
}

// LoadFrom loads the configuration from a specific path. Keys missing from
// the file keep their defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that would make a run meaningless.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DumpRoot) == "" {
		errs = append(errs, errors.New("dump_root must not be empty"))
	}
	if strings.TrimSpace(c.WorldFile) == "" {
		errs = append(errs, errors.New("world_file must not be empty"))
	}
	if c.DefaultMaxStorage < 0 {
		errs = append(errs, fmt.Errorf("default_max_storage must be >= 0, got %d", c.DefaultMaxStorage))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be >= 0, got %d", c.Workers))
	}
	if c.House.DefaultSizeX < 0 || c.House.DefaultSizeY < 0 {
		errs = append(errs, errors.New("house default sizes must be >= 0"))
	}
	for _, p := range []struct{ key, value string }{
		{"world_file", c.WorldFile},
		{"delivery_point_dir", c.DeliveryPointDir},
		{"generated_dir", c.GeneratedDir},
		{"houses_file", c.HousesFile},
	} {
		if filepath.IsAbs(p.value) {
			errs = append(errs, fmt.Errorf("%s must be relative to dump_root, got %s", p.key, p.value))
		}
	}
	return errors.Join(errs...)
}

// DefaultPath returns the user config file path. Checks
// ~/.config/mtpoi/config.toml first (XDG style), then falls back to the OS
// config directory.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "mtpoi", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}
	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "mtpoi", "config.toml")
	}
	return filepath.Join(".", "config.toml")
}

const defaultConfig = `# mtpoi configuration

# Directory the game export was written to.
dump_root = "."

# Where out_*.json files are written.
output_dir = "."

# Inputs, relative to dump_root.
# world_file = "MotorTown/Content/Maps/Jeju/Jeju_World.json"
# delivery_point_dir = "MotorTown/Content/Objects/Mission/Delivery/DeliveryPoint"
# generated_dir = "MotorTown/Content/Maps/Jeju/Jeju_World/_Generated_"
# houses_file = "MotorTown/Content/DataAsset/Houses.json"
# game_mount = "MotorTown/Content"

# Replace the built-in cargo taxonomy (see "mtpoi taxonomy").
# taxonomy_file = "taxonomy.yaml"

# default_max_storage = 100
# workers = 0
# strict = true
# compress = false
# index_path = "mtpoi.db"
# history = true

# [types]
# bus_stops = ["BusStop_01_C", "BusStop_02_C", "BusStop_03_C", "BusTerminal_01_C"]
# ev_charger = "EVCharger_C"
# house = "House_C"
# area_volume = "MTAreaVolume"

# [house]
# default_size_x = 2000.0
# default_size_y = 2000.0

# [ui]
# accent = "39"
# code_theme = "monokai"
`

// CreateDefault writes a commented config file at path unless one exists.
// It reports whether a file was created.
func CreateDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}
