package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	portEnvVar            = "PORT"
	appNameVar            = "APP_NAME"
	envVar                = "ENV"
	verificationURLEnvVar = "VERIFICATION_URL"
)

type EnvVars struct {
	Port            string
	AppName         string
	Env             string
	VerificationURL string `validate:"omitempty,url"`
}

var _ EnvConfig = EnvVars{}

func loadEnvVars() EnvVars {
	return EnvVars{
		Port:            GetEnv(portEnvVar, "3000"),
		AppName:         GetEnv(appNameVar, "Fitbit Discord Bot"),
		Env:             GetEnv(envVar, "DEV"),
		VerificationURL: GetEnv(verificationURLEnvVar, ""),
	}
}

func (e EnvVars) GetPort() string {
	if strings.HasPrefix(e.Port, ":") {
		return e.Port
	}
	return ":" + e.Port
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	return e.Env
}

// GetVerificationURL is the public link users are sent to in order to start
// linking their accounts.
func (e EnvVars) GetVerificationURL() string {
	return e.VerificationURL
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvInt(envVar string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(envVar))
	if err != nil {
		return defaultValue
	}
	return value
}
