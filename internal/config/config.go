// ABOUTME: Configuration loading for the web client and the ATC server
// ABOUTME: YAML file via viper with CONCOURSE_ env variable overrides

package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/viper"
)

type Config struct {
	API    APIConfig    `mapstructure:"api"`
	Assets AssetsConfig `mapstructure:"assets"`
	Store  StoreConfig  `mapstructure:"store"`
	Server ServerConfig `mapstructure:"server"`
}

type APIConfig struct {
	// URL of the ATC API; overridden by the selected target, if any.
	URL    string `mapstructure:"url"`
	Target string `mapstructure:"target"`
}

type AssetsConfig struct {
	NotFoundImage            string `mapstructure:"not_found_image"`
	PipelineRunningKeyframes string `mapstructure:"pipeline_running_keyframes"`
}

type StoreConfig struct {
	Path string `mapstructure:"path"`
}

type ServerConfig struct {
	BindAddr string `mapstructure:"bind_addr"`
}

// Load reads the config file at path; a missing file yields the defaults.
// Environment variables prefixed CONCOURSE_ override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("concourse")
	v.AutomaticEnv()

	v.SetDefault("api.url", "http://127.0.0.1:8080")
	v.SetDefault("assets.not_found_image", "images/parachute.svg")
	v.SetDefault("assets.pipeline_running_keyframes", "pipeline-running")
	v.SetDefault("store.path", "concourse-state.db")
	v.SetDefault("server.bind_addr", "127.0.0.1:8080")

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
