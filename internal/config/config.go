package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"checklist/internal/storage"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDataName       = "items.json"
	DefaultDBName         = "checklist.db"

	// EnvConfigPath overrides the config file location.
	EnvConfigPath = "CHECKLIST_CONFIG"
)

type Keymap struct {
	Quit    string `toml:"quit"`
	Add     string `toml:"add"`
	Up      string `toml:"up"`
	Down    string `toml:"down"`
	Toggle  string `toml:"toggle"`
	Delete  string `toml:"delete"`
	Clear   string `toml:"clear"`
	Confirm string `toml:"confirm"`
	Cancel  string `toml:"cancel"`
	Yes     string `toml:"yes"`
	No      string `toml:"no"`
}

type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

type Config struct {
	Backend  string `toml:"backend"`
	DataPath string `toml:"data_path"`
	Slot     string `toml:"slot"`
	Log      Log    `toml:"log"`
	Keys     Keymap `toml:"keys"`
}

// ResolveConfigPath picks the config file: $CHECKLIST_CONFIG, else
// <user config dir>/checklist/config.toml, else ./config.toml.
func ResolveConfigPath() string {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, "checklist", DefaultConfigFileName)
}

// LoadOrCreate reads path, writing the defaults there first if it does not
// exist. Relative paths inside the file resolve against its directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(filepath.Dir(path)), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg.resolve(filepath.Dir(path)), nil
}

func (c Config) resolve(base string) Config {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Backend == "" {
		c.Backend = storage.BackendJSON
	}
	if strings.TrimSpace(c.Slot) == "" {
		c.Slot = storage.DefaultSlotName
	}
	if strings.TrimSpace(c.DataPath) == "" {
		c.DataPath = DefaultDataName
		if c.Backend == storage.BackendSQLite {
			c.DataPath = DefaultDBName
		}
	}
	c.DataPath = absFrom(base, c.DataPath)
	if c.Log.File != "" {
		c.Log.File = absFrom(base, c.Log.File)
	}
	c.Keys = c.Keys.withDefaults(defaultConfig().Keys)
	return c
}

func absFrom(base, p string) string {
	if filepath.IsAbs(p) || strings.HasPrefix(p, "file:") {
		return p
	}
	return filepath.Join(base, p)
}

func (k Keymap) withDefaults(d Keymap) Keymap {
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&k.Quit, d.Quit)
	fill(&k.Add, d.Add)
	fill(&k.Up, d.Up)
	fill(&k.Down, d.Down)
	fill(&k.Toggle, d.Toggle)
	fill(&k.Delete, d.Delete)
	fill(&k.Clear, d.Clear)
	fill(&k.Confirm, d.Confirm)
	fill(&k.Cancel, d.Cancel)
	fill(&k.Yes, d.Yes)
	fill(&k.No, d.No)
	return k
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	// DataPath stays empty so resolve names the file after the backend.
	return Config{
		Backend: storage.BackendJSON,
		Slot:    storage.DefaultSlotName,
		Log: Log{
			Level:  "info",
			Format: "text",
		},
		Keys: Keymap{
			Quit:    "q",
			Add:     "a",
			Up:      "k",
			Down:    "j",
			Toggle:  " ",
			Delete:  "d",
			Clear:   "c",
			Confirm: "enter",
			Cancel:  "esc",
			Yes:     "y",
			No:      "n",
		},
	}
}
