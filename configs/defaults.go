package configs

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

var (
	//go:embed config.example.yaml
	defaultConfigYAML string

	defaultsOnce  sync.Once
	defaultsViper *viper.Viper
	defaultsErr   error
)

func loadDefaults() (*viper.Viper, error) {
	defaultsOnce.Do(func() {
		v := viper.New()
		v.SetConfigType("yaml")
		if err := v.ReadConfig(strings.NewReader(defaultConfigYAML)); err != nil {
			defaultsErr = fmt.Errorf("failed to read embedded config.example.yaml: %w", err)
			return
		}
		defaultsViper = v
	})

	return defaultsViper, defaultsErr
}

// DefaultConfig returns the parsed configuration from the embedded config.example.yaml.
func DefaultConfig() (Config, error) {
	v, err := loadDefaults()
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode embedded config.example.yaml: %w", err)
	}

	return cfg, nil
}

// ApplyDefaults registers every embedded value as a viper default, so a partial
// config file or a bare set of flags still yields a complete Config.
func ApplyDefaults(v *viper.Viper) error {
	defaults, err := loadDefaults()
	if err != nil {
		return err
	}

	for _, key := range defaults.AllKeys() {
		v.SetDefault(key, defaults.Get(key))
	}

	return nil
}
