package config

import "time"

type SecurityConfig interface {
	GetCookieSecret() string
	GetStateCookieMaxAge() time.Duration
	GetRateLimitPerSecond() float64
	GetRateLimitBurst() int
}

type Security struct {
	CookieSecret string
}

var _ SecurityConfig = Security{}

func loadSecurity() Security {
	return Security{
		CookieSecret: GetEnv("COOKIE_SECRET", ""),
	}
}

// GetCookieSecret returns the key the clientState cookie is signed with
func (s Security) GetCookieSecret() string {
	return s.CookieSecret
}

func (Security) GetStateCookieMaxAge() time.Duration {
	return 5 * time.Minute
}

func (Security) GetRateLimitPerSecond() float64 {
	return 5
}

func (Security) GetRateLimitBurst() int {
	return 20
}
