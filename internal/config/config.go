// Package config loads client settings from an optional config file and the environment.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	EnvConfigFile       = "KARP_API_CLIENT_CONFIG"
	EnvBaseURL          = "KARP_API_CLIENT_BASE_URL"
	EnvTimeout          = "KARP_API_CLIENT_TIMEOUT"
	EnvAPIToken         = "KARP_API_CLIENT_API_TOKEN"
	EnvAPITokenFallback = "KARP_API_TOKEN"
)

// Config holds the settings a client can be created from.
type Config struct {
	BaseURL  string        `mapstructure:"base_url"`
	APIToken string        `mapstructure:"api_token"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Load reads the file named by KARP_API_CLIENT_CONFIG, if set, and then
// the environment. Environment variables win over the file.
func Load() (*Config, error) {
	v := viper.New()

	if path := os.Getenv(EnvConfigFile); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config from %s", path)
		}
	}

	// The first variable that is set wins.
	for key, envs := range map[string][]string{
		"base_url":  {EnvBaseURL},
		"timeout":   {EnvTimeout},
		"api_token": {EnvAPIToken, EnvAPITokenFallback},
	} {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, errors.Wrapf(err, "failed to bind %s", key)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &cfg, nil
}
