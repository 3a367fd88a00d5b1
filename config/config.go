package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/aerissecure/sheetbuilder"
)

type Config struct {
	// FirstRow is the header row of generated tables. Values above 1 leave
	// room for the table title.
	FirstRow int `toml:"first_row"`

	// HeaderHeight is the header row height in points.
	HeaderHeight float64 `toml:"header_height"`

	// CellPadding offsets embedded pictures inside their cell, in pixels.
	CellPadding int `toml:"cell_padding"`

	// DefaultFont is the workbook default font family.
	DefaultFont string `toml:"default_font"`

	// Debug enables verbose logging.
	Debug bool `toml:"debug"`
}

func DefaultConfig() *Config {
	return &Config{
		FirstRow:     1,
		HeaderHeight: 50,
		CellPadding:  5,
		DefaultFont:  "Calibri",
		Debug:        false,
	}
}

func ConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.toml")
}

// LoadConfig reads the config at ConfigPath, writing the defaults there
// first if the file does not exist.
func LoadConfig() (*Config, error) {
	configPath := ConfigPath()

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		cfg := DefaultConfig()
		if err := SaveConfig(cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}
	return LoadFile(configPath)
}

// LoadFile reads the config at path. Keys missing from the file keep their
// defaults.
func LoadFile(path string) (*Config, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func SaveConfig(cfg *Config) error {
	if err := os.MkdirAll(GetConfigDir(), 0o755); err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(ConfigPath(), data, 0o644)
}

// TableOptions returns the table builder options the config describes.
func (c *Config) TableOptions() []sheetbuilder.TableOption {
	return []sheetbuilder.TableOption{
		sheetbuilder.WithFirstRow(c.FirstRow),
		sheetbuilder.WithHeaderHeight(c.HeaderHeight),
		sheetbuilder.WithCellPadding(c.CellPadding),
	}
}

func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if path == "~" {
			return home, nil
		}
		return filepath.Join(home, path[2:]), nil
	}

	return path, nil
}
