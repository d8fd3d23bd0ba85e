package config

import (
	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
)

// DefaultServerURL is the backend address used when none is configured.
const DefaultServerURL = "http://192.168.110.56:8090"

// Default returns a Config populated with the defaults from the struct tags.
func Default() *Config {
	cfg := &Config{}
	// The tags are static; a failure here is a programming error.
	if err := defaults.Set(cfg); err != nil {
		panic(err)
	}
	return cfg
}

// ApplyDefaults fills in zero values with the defaults from the struct tags.
func (c *Config) ApplyDefaults() error {
	if err := defaults.Set(c); err != nil {
		return errors.Wrap(err, "failed to set defaults")
	}
	return nil
}
