package app

import (
	"errors"
	"flag"
)

const defaultLimit = 100

type Config struct {
	DBPath string
	SQL    string
	Table  string
	Limit  int
}

func NewConfig() *Config {
	return &Config{Limit: defaultLimit}
}

func NewConfigFromCLI() (*Config, error) {
	c := NewConfig()

	flag.StringVar(&c.DBPath, "db", "", "Path to the catalog database file")
	flag.StringVar(&c.SQL, "q", "", "Read-only SQL statement to run")
	flag.StringVar(&c.Table, "t", "", "Table to dump instead of a SQL statement")
	flag.IntVar(&c.Limit, "limit", defaultLimit, "Maximum number of rows when dumping a table")
	flag.Parse()

	var err error
	if c.DBPath == "" {
		err = errors.New("db path is required")
	} else if c.SQL == "" && c.Table == "" {
		err = errors.New("either a SQL statement or a table is required")
	} else if c.SQL != "" && c.Table != "" {
		err = errors.New("SQL statement and table are mutually exclusive")
	}

	if err != nil {
		flag.Usage()
		return nil, err
	}

	return c, nil
}
