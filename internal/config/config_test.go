package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"LOG_LEVEL", "LOG_PRETTY", "GREETING", "SERVICE_NAME", "AWS_LAMBDA_FUNCTION_NAME"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogPretty)
	assert.Equal(t, DefaultGreeting, cfg.Greeting)
	assert.Equal(t, "hello-lambda", cfg.ServiceName)
	assert.Empty(t, cfg.FunctionName)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("GREETING", "hi")
	t.Setenv("SERVICE_NAME", "svc")
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "TypeScriptLambdaStack-HelloFunction")

	cfg := Load()

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogPretty)
	assert.Equal(t, "hi", cfg.Greeting)
	assert.Equal(t, "svc", cfg.ServiceName)
	assert.Equal(t, "TypeScriptLambdaStack-HelloFunction", cfg.FunctionName)
}

func TestEnvBool(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"", false},
		{"true", true},
		{"1", true},
		{"false", false},
		{"yes", false},
		{" TRUE ", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("LOG_PRETTY", tt.value)
			assert.Equal(t, tt.expected, envBool("LOG_PRETTY", false))
		})
	}
}
