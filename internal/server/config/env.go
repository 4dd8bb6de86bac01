package config

import "strings"

// parseEnv applies the environment variables the server honours:
//
//	JWT_SECRET    signing secret
//	PORT          HTTP port (binds all interfaces)
//	DATABASE_DSN  PostgreSQL DSN
//	APP_ENV       "production" enables production checks
//	LOG_LEVEL     debug|info|warn|error
func parseEnv(c *Config, getenv func(string) string) {
	if v := getenv("JWT_SECRET"); v != "" {
		c.SecretKey = v
	}
	if v := getenv("PORT"); v != "" {
		c.EndpointAddrHTTP = ":" + v
	}
	if v := getenv("DATABASE_DSN"); v != "" {
		c.DatabaseDSN = v
	}
	if v := getenv("APP_ENV"); v != "" {
		c.Production = strings.EqualFold(v, "production")
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}
