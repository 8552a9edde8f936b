package config

import (
	"sync"
	"time"
)

// Config holds how the BMC is reached. An empty Host means the local BMC.
type Config struct {
	IPMIToolPath       string
	Interface          string
	Host               string
	User               string
	Pass               string
	CommandTimeout     time.Duration
	InsecureSkipVerify bool
}

var (
	config *Config
	once   sync.Once
)

func NewConfig(c *Config) {
	once.Do(func() {
		if c != nil {
			config = c
		} else {
			config = &Config{}
		}
	})
}

func GetConfig() *Config {
	if config != nil {
		return config
	}

	NewConfig(nil)
	return config
}

// Remote reports whether a remote BMC is targeted.
func (c *Config) Remote() bool {
	return c.Host != ""
}
