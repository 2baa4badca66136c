// Package config resolves rvdecode's runtime settings from flags,
// environment variables, and an optional config file, in that precedence
// order, via viper.
package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds every setting a Decoder build needs.
type Config struct {
	JSONDir           string   `mapstructure:"json_dir"`
	ExtensionSpecPath string   `mapstructure:"extension_spec"`
	DefaultISA        string   `mapstructure:"default_isa"`
	AllowList         []string `mapstructure:"allow_list"`
	BlockList         []string `mapstructure:"block_list"`
	UnknownExtension  string   `mapstructure:"unknown_extension"` // "error", "warn", "ignore"
	LogJSON           bool     `mapstructure:"log_json"`
	LogLevel          string   `mapstructure:"log_level"`
}

func defaults() Config {
	return Config{
		JSONDir:           "testdata/isa",
		ExtensionSpecPath: "testdata/isa/extensions.json",
		DefaultISA:        "rv64gc",
		UnknownExtension:  "error",
		LogLevel:          "info",
	}
}

// Load builds a Config from flags (already registered on fs and parsed by
// the caller), RVDECODE_-prefixed environment variables, and an optional
// rvdecode.{yaml,json,toml} discovered on the search paths.
func Load(fs *pflag.FlagSet, searchPaths ...string) (Config, error) {
	v := viper.New()
	d := defaults()
	v.SetDefault("json_dir", d.JSONDir)
	v.SetDefault("extension_spec", d.ExtensionSpecPath)
	v.SetDefault("default_isa", d.DefaultISA)
	v.SetDefault("unknown_extension", d.UnknownExtension)
	v.SetDefault("log_level", d.LogLevel)

	v.SetEnvPrefix("RVDECODE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("rvdecode")
	if len(searchPaths) == 0 {
		searchPaths = []string{".", "$HOME/.config/rvdecode"}
	}
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return Config{}, err
		}
	}

	if fs != nil {
		for key, name := range map[string]string{"default_isa": "isa", "json_dir": "json-dir", "extension_spec": "extension-spec"} {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, err
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
