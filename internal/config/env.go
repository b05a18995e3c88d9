package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Environment variable names recognized as overrides. They take precedence
// over the config file but not over explicit CLI flags.
const (
	EnvOTDBin  = "BARKEEP_OTD_BIN"
	EnvSMTKBin = "BARKEEP_SMTK_BIN"
)

// EnvOverride returns the value of the named override, consulting the
// process environment first and then an optional .env file in the working
// directory. An empty string means no override is set.
func EnvOverride(name string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	if err := godotenv.Load(); err == nil {
		return os.Getenv(name)
	}
	return ""
}
