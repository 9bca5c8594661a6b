package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// dotEnvFiles are loaded, when present, before the environment is read.
// Variables already set in the process environment take precedence.
var dotEnvFiles = []string{".env", ".dev.vars"}

type Config interface {
	EnvConfig
	DiscordConfig
	FitbitConfig
	StorageConfig
	SecurityConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetVerificationURL() string
}

type mainConfig struct {
	EnvVars
	Discord
	Fitbit
	Storage
	Security
}

// New reads the configuration once from the environment. The returned Config is
// immutable.
func New() (Config, error) {
	for _, f := range dotEnvFiles {
		_ = godotenv.Load(f)
	}

	c := mainConfig{
		EnvVars:  loadEnvVars(),
		Discord:  loadDiscord(),
		Fitbit:   loadFitbit(),
		Storage:  loadStorage(),
		Security: loadSecurity(),
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return nil, fmt.Errorf("[config New] invalid configuration: %w", err)
	}
	return c, nil
}
