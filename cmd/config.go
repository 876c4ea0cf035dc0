package cmd

import (
	"os"

	"github.com/mstoykov/envconfig"
	"gopkg.in/guregu/null.v3"

	"github.com/domtestio/domtest/lib/types"
)

// Config holds the environment-sourced defaults; command line flags
// take precedence over it.
type Config struct {
	LogLevel null.String        `envconfig:"DOMTEST_LOG_LEVEL"`
	Quiet    null.Bool          `envconfig:"DOMTEST_QUIET"`
	Timeout  types.NullDuration `envconfig:"DOMTEST_TIMEOUT"`
}

func getConfig() (Config, error) {
	return getConfigFromEnv(func(key string) (string, bool) {
		return os.LookupEnv(key)
	})
}

func getConfigFromEnv(lookup func(string) (string, bool)) (Config, error) {
	conf := Config{}
	err := envconfig.Process("", &conf, lookup)
	return conf, err
}
