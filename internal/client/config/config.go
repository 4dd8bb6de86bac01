package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/filex"
	"github.com/dmitrijs2005/taskboard/internal/timex"
	"github.com/spf13/pflag"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

const appName = "taskboard"

type Config struct {
	ServerURL      string
	HealthAddr     string
	DataDir        string
	RequestTimeout time.Duration
	NoColor        bool
	ConfigFile     string
}

func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:3000/api"
	c.HealthAddr = "127.0.0.1:50051"
	c.DataDir = filex.DefaultDataDir(appName)
	c.RequestTimeout = 10 * time.Second
}

// BindFlags registers the client's persistent flags on fs, seeded with the
// current values of c.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.ServerURL, "server", "s", c.ServerURL, "API base URL including the prefix")
	fs.StringVar(&c.HealthAddr, "health", c.HealthAddr, "gRPC health address")
	fs.StringVar(&c.DataDir, "data-dir", c.DataDir, "directory for the local session database")
	fs.DurationVar(&c.RequestTimeout, "timeout", c.RequestTimeout, "per-request timeout")
	fs.BoolVar(&c.NoColor, "no-color", c.NoColor, "disable colored output")
	fs.StringVarP(&c.ConfigFile, "config", "c", c.ConfigFile, "path to a YAML or JSON config file")
}

type fileConfig struct {
	Server  string         `json:"server" yaml:"server"`
	Health  string         `json:"health" yaml:"health"`
	DataDir string         `json:"data_dir" yaml:"data_dir"`
	Timeout timex.Duration `json:"timeout" yaml:"timeout"`
	NoColor *bool          `json:"no_color" yaml:"no_color"`
}

// Resolve applies the config file and environment underneath whatever flags
// the user set explicitly in fs.
func (c *Config) Resolve(fs *pflag.FlagSet, getenv func(string) string) error {
	keep := func(name string) bool { return fs != nil && fs.Changed(name) }

	if c.ConfigFile != "" {
		fc, err := readFile(c.ConfigFile)
		if err != nil {
			return err
		}
		if fc.Server != "" && !keep("server") {
			c.ServerURL = fc.Server
		}
		if fc.Health != "" && !keep("health") {
			c.HealthAddr = fc.Health
		}
		if fc.DataDir != "" && !keep("data-dir") {
			c.DataDir = fc.DataDir
		}
		if fc.Timeout.Duration != 0 && !keep("timeout") {
			c.RequestTimeout = fc.Timeout.Duration
		}
		if fc.NoColor != nil && !keep("no-color") {
			c.NoColor = *fc.NoColor
		}
	}

	if v := getenv("TASKBOARD_SERVER"); v != "" && !keep("server") {
		c.ServerURL = v
	}
	if v := getenv("TASKBOARD_HEALTH"); v != "" && !keep("health") {
		c.HealthAddr = v
	}
	if v := getenv("TASKBOARD_DATA_DIR"); v != "" && !keep("data-dir") {
		c.DataDir = v
	}
	if getenv("NO_COLOR") != "" && !keep("no-color") {
		c.NoColor = true
	}

	c.ServerURL = strings.TrimRight(c.ServerURL, "/")
	if c.ServerURL == "" {
		return fmt.Errorf("server URL must not be empty")
	}
	return nil
}

func readFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	fc := &fileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(jsonc.ToJSON(data), fc)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return fc, nil
}

// DatabasePath is where the local session database lives.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, appName+".db")
}
