package app

import (
	"errors"
	"flag"
	"fmt"
)

const defaultPort = 5000

type Config struct {
	DBPath string
	Port   int
}

func NewConfig() *Config {
	return &Config{Port: defaultPort}
}

func NewConfigFromCLI() (*Config, error) {
	c := NewConfig()

	flag.StringVar(&c.DBPath, "db", "", "Path to the catalog database file")
	flag.IntVar(&c.Port, "p", defaultPort, "Port to listen on")
	flag.Parse()

	var err error
	if c.DBPath == "" {
		err = errors.New("db path is required")
	} else if c.Port <= 0 || c.Port > 65535 {
		err = fmt.Errorf("invalid port: %d", c.Port)
	}

	if err != nil {
		flag.Usage()
		return nil, err
	}

	return c, nil
}
