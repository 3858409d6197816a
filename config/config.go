package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix is the prefix of the environment variables overriding the file.
const EnvPrefix = "AGENTBOARD"

var DefaultConfig = Config{
	Server: DefaultServerConfig,
}

type Config struct {
	Server ServerConfig `yaml:"server"`
}

// envOverrides are read from the environment, and from a .env file in the
// working directory if present.
type envOverrides struct {
	APIURL   string `envconfig:"API_URL"`
	APIKey   string `envconfig:"API_KEY"`
	BindAddr string `envconfig:"BIND_ADDR"`
}

// Load decodes the YAML file at path over DefaultConfig and applies the
// environment overrides. A missing file leaves the defaults in place.
func Load(path string) (Config, error) {
	cfg := DefaultConfig
	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("decode %s: %w", path, err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return cfg, err
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, fmt.Errorf("apply environment: %w", err)
	}
	return cfg, nil
}

func (cfg *Config) applyEnv() error {
	_ = godotenv.Load()
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return err
	}
	if env.APIURL != "" {
		cfg.Server.NadFun.BaseURL = env.APIURL
	}
	if env.APIKey != "" {
		cfg.Server.NadFun.APIKey = env.APIKey
	}
	if env.BindAddr != "" {
		cfg.Server.BindAddr = env.BindAddr
	}
	return nil
}
