// Package config reads the hello-lambda runtime settings from the
// environment. Values are read once at cold start and never change.
package config

import (
	"os"
	"strconv"
	"strings"
)

// DefaultGreeting is the message returned in every success body.
const DefaultGreeting = "Hello from TypeScript Lambda - Monorepo Working!"

// Config holds the handler's environment settings.
type Config struct {
	LogLevel  string // zerolog level name, "info" by default
	LogPretty bool   // console output instead of JSON lines

	Greeting     string
	ServiceName  string
	FunctionName string // set by the Lambda runtime
}

// Load builds a Config from the environment. Missing or malformed values
// fall back to defaults; Load never fails.
func Load() Config {
	return Config{
		LogLevel:  env("LOG_LEVEL", "info"),
		LogPretty: envBool("LOG_PRETTY", false),

		Greeting:     env("GREETING", DefaultGreeting),
		ServiceName:  env("SERVICE_NAME", "hello-lambda"),
		FunctionName: env("AWS_LAMBDA_FUNCTION_NAME", ""),
	}
}

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
