// Package config builds the server configuration from defaults, an optional
// config file, environment variables and command-line flags, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/common"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config holds runtime settings for the taskboard server.
//
// Attachments are enabled only when S3Bucket is set. SecretKey has no default:
// production refuses to start without one, development generates an
// ephemeral key (see EnsureSecret).
type Config struct {
	EndpointAddrHTTP      string
	EndpointAddrGRPC      string
	APIPrefix             string
	StorageMode           string
	DatabaseDSN           string
	SecretKey             string
	Production            bool
	TokenValidityDuration time.Duration
	BcryptCost            int
	SeedSample            bool
	CORSOrigins           []string
	LogLevel              string
	ShutdownTimeout       time.Duration
	S3RootUser            string
	S3RootPassword        string
	S3Bucket              string
	S3Region              string
	S3BaseEndpoint        string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":3000"
	c.EndpointAddrGRPC = ":50051"
	c.APIPrefix = "/api"
	c.TokenValidityDuration = 7 * 24 * time.Hour
	c.BcryptCost = 10
	c.SeedSample = true
	c.CORSOrigins = []string{"*"}
	c.LogLevel = "info"
	c.ShutdownTimeout = 10 * time.Second
	c.S3Region = "us-east-1"
}

// LoadConfig reads os.Args and the process environment. It panics on an
// unreadable config file or malformed flags, as startup cannot continue.
func LoadConfig() *Config {
	cfg, err := Load(os.Args[1:], os.Getenv)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load applies defaults, the -c/-config file, environment and flags.
func Load(args []string, getenv func(string) string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	parseEnv(cfg, getenv)
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}

	if cfg.StorageMode == "" {
		cfg.StorageMode = StorageMemory
		if cfg.DatabaseDSN != "" {
			cfg.StorageMode = StoragePostgres
		}
	}
	return cfg, nil
}

// Validate reports settings the server cannot run with.
func (c *Config) Validate() error {
	var errs []error

	switch c.StorageMode {
	case StorageMemory:
	case StoragePostgres:
		if c.DatabaseDSN == "" {
			errs = append(errs, errors.New("postgres storage requires a database DSN"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage mode %q", c.StorageMode))
	}

	if c.Production && c.SecretKey == "" {
		errs = append(errs, errors.New("JWT secret is required in production"))
	}
	if c.TokenValidityDuration <= 0 {
		errs = append(errs, errors.New("token validity must be positive"))
	}

	return errors.Join(errs...)
}

// EnsureSecret fills an empty SecretKey with a random one outside production.
// It reports whether a key was generated; tokens signed with it do not
// survive a restart.
func (c *Config) EnsureSecret() (bool, error) {
	if c.SecretKey != "" || c.Production {
		return false, nil
	}
	key, err := common.MakeRandHexString(32)
	if err != nil {
		return false, err
	}
	c.SecretKey = key
	return true, nil
}

func (c *Config) AttachmentsEnabled() bool {
	return c.S3Bucket != ""
}
