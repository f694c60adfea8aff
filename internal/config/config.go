// Package config loads the settings of the crowdvestd daemon. Values are
// taken from the defaults, then an optional YAML file, then the CROWDVEST_*
// environment variables. Command line flags are applied last by the caller.
package config

import (
	"bytes"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/crowdvest/errors"
	"github.com/kelseyhightower/envconfig"
	"github.com/tendermint/tendermint/libs/log"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to the name of every environment variable.
const EnvPrefix = "crowdvest"

// Config holds the daemon settings.
type Config struct {
	// Home is the directory holding the tendermint config and the database.
	Home string `yaml:"home"`
	// Bind is the address the ABCI server listens on.
	Bind string `yaml:"bind"`
	// Debug makes error responses carry the full stack trace.
	Debug bool `yaml:"debug"`
	// LogLevel is one of debug, info, error or none.
	LogLevel string `yaml:"log_level" split_words:"true"`
	// MetricsAddr is the address prometheus metrics are served on. Empty
	// disables the endpoint.
	MetricsAddr string `yaml:"metrics_addr" split_words:"true"`
}

// Default returns the configuration used when nothing else is provided.
func Default() Config {
	home := ".crowdvestd"
	if dir, err := os.UserHomeDir(); err == nil {
		home = filepath.Join(dir, ".crowdvestd")
	}
	return Config{
		Home:     home,
		Bind:     "tcp://localhost:26658",
		LogLevel: "info",
	}
}

// Load returns the default configuration overlaid by the YAML file at
// given path, if any, and by the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := ioutil.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrapf(errors.ErrNotFound, "config file: %s", err)
		}
		if err := decodeYAML(raw, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return cfg, errors.Wrapf(errors.ErrInput, "environment: %s", err)
	}
	return cfg, cfg.Validate()
}

func decodeYAML(raw []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return errors.Wrapf(errors.ErrInput, "config file: %s", err)
	}
	return nil
}

// Validate returns an error if the configuration cannot be used to run the
// daemon.
func (c Config) Validate() error {
	if c.Home == "" {
		return errors.Wrap(errors.ErrEmpty, "home")
	}
	if c.Bind == "" {
		return errors.Wrap(errors.ErrEmpty, "bind")
	}
	if _, err := log.AllowLevel(c.LogLevel); err != nil {
		return errors.Wrapf(errors.ErrInput, "log level: %s", err)
	}
	return nil
}

// Logger returns a logger writing to w that drops entries below the
// configured level.
func (c Config) Logger(w io.Writer) (log.Logger, error) {
	allow, err := log.AllowLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "log level: %s", err)
	}
	logger := log.NewTMLogger(log.NewSyncWriter(w))
	return log.NewFilter(logger, allow), nil
}
