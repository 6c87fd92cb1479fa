package main

import (
	"fmt"
	"os"
	"time"

	"github.com/cert-lv/ordergrid/pdk"
	"github.com/rs/zerolog"
	yaml "gopkg.in/yaml.v3"
)

/*
 * Structure to store all the service settings.
 * Check "ordergrid.yaml.example" file for a detailed all fields description
 */
type Config struct {
	Server *struct {
		Host              string `yaml:"host"`
		Port              string `yaml:"port"`
		CertFile          string `yaml:"certFile"`
		KeyFile           string `yaml:"keyFile"`
		ReadTimeout       int    `yaml:"readTimeout"`
		ReadHeaderTimeout int    `yaml:"readHeaderTimeout"`
		ShutdownTimeout   int    `yaml:"shutdownTimeout"`
	} `yaml:"server"`

	Environment string `yaml:"environment"`

	// YAML file with the initial list of filters
	Filters string `yaml:"filters"`

	// Default time range of the searches,
	// "last" has a priority over "from" and "to"
	TimeRange struct {
		Last time.Duration `yaml:"last"`
		From time.Time     `yaml:"from"`
		To   time.Time     `yaml:"to"`
	} `yaml:"timeRange"`

	// How many notifications to keep
	Notifications int `yaml:"notifications"`

	Log *struct {
		File       string        `yaml:"file"`
		MaxSize    int           `yaml:"maxSize"`
		MaxBackups int           `yaml:"maxBackups"`
		MaxAge     int           `yaml:"maxAge"`
		Level      zerolog.Level `yaml:"level"`
	} `yaml:"log"`

	Source *pdk.Source `yaml:"source"`

	// Search results cache, disabled when TTL is 0
	Cache struct {
		Addr     string `yaml:"addr"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      int    `yaml:"ttl"`
	} `yaml:"cache"`
}

/*
 * Load configuration from a YAML file.
 *
 * Service searches for the "./ordergrid.yaml" file by default.
 * however, "CONFIG" environment variable can be set to use a different file
 */
func loadConfig() error {
	path := "ordergrid.yaml"

	if os.Getenv("CONFIG") != "" {
		path = os.Getenv("CONFIG")
	}

	buffer, err := loadFileIntoString(path)
	if err != nil {
		return fmt.Errorf("Failed to open configuration file '%s': %s", path, err.Error())
	}

	config, err = parseConfig([]byte(buffer))
	if err != nil {
		return fmt.Errorf("Invalid configuration YAML file '%s': %s", path, err.Error())
	}

	return nil
}

/*
 * Parse and validate configuration, set default values
 */
func parseConfig(buffer []byte) (*Config, error) {
	c := &Config{}

	err := yaml.Unmarshal(buffer, c)
	if err != nil {
		return nil, err
	}

	if c.Server == nil {
		return nil, fmt.Errorf("'server' section is missing")
	} else if c.Server.Port == "" {
		return nil, fmt.Errorf("'server.port' is not defined")
	}

	if c.Source == nil {
		return nil, fmt.Errorf("'source' section is missing")
	}
	c.Source.Defaults()

	if c.Source.MatchPolicy != pdk.MatchFirst && c.Source.MatchPolicy != pdk.MatchStrict {
		return nil, fmt.Errorf("Unexpected 'source.matchPolicy': '%s'", c.Source.MatchPolicy)
	}

	if c.Log == nil {
		return nil, fmt.Errorf("'log' section is missing")
	}

	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 10
	}

	if c.Notifications <= 0 {
		c.Notifications = 5
	}

	return c, nil
}

/*
 * Initial time range of the searches,
 * relative one is resolved by the time filter on every search
 */
func (c *Config) timeRange() pdk.TimeRange {
	return pdk.TimeRange{
		From: c.TimeRange.From,
		To:   c.TimeRange.To,
		Last: c.TimeRange.Last,
	}
}
