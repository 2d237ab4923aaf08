package config

import (
	"bytes"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	return LoadFs(afero.NewOsFs(), path)
}

// LoadFs is Load over an explicit filesystem, so tests can use an
// in-memory one.
func LoadFs(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %v", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.log_level", "dev")
	if err := v.ReadConfig(bytes.NewBuffer(data)); err != nil {
		return nil, fmt.Errorf("parse config file: %v", err)
	}

	conf := &Config{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("unmarshal config: %v", err)
	}
	conf.Finish()
	return conf, nil
}
