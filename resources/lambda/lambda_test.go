package lambda

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	awsstacks "github.com/balaaddepalli/awsstacks"
	. "github.com/balaaddepalli/awsstacks/intrinsics"
)

func TestResourceTypes(t *testing.T) {
	tests := []struct {
		name     string
		resource awsstacks.Resource
		expected string
	}{
		{"Function", Function{}, "AWS::Lambda::Function"},
		{"Permission", Permission{}, "AWS::Lambda::Permission"},
		{"EventInvokeConfig", EventInvokeConfig{}, "AWS::Lambda::EventInvokeConfig"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.resource.ResourceType())
		})
	}
}

func TestFunctionSerialization(t *testing.T) {
	fn := Function{
		Handler:       "bootstrap",
		Runtime:       "provided.al2023",
		Architectures: Any("arm64"),
		MemorySize:    256,
		Role:          GetAtt{LogicalName: "HelloFunctionRole", Attribute: "Arn"},
		Environment: &Function_Environment{
			Variables: map[string]any{"LOG_LEVEL": "info"},
		},
		TracingConfig: &Function_TracingConfig{Mode: "Active"},
	}

	data, err := json.Marshal(fn)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))

	assert.Equal(t, "bootstrap", parsed["Handler"])
	assert.Equal(t, float64(256), parsed["MemorySize"])
	assert.Equal(t, []any{"arm64"}, parsed["Architectures"])
	assert.Equal(t, map[string]any{"Mode": "Active"}, parsed["TracingConfig"])
	assert.NotContains(t, parsed, "Code")
	assert.NotContains(t, parsed, "Timeout")
}

func TestEventInvokeConfig_ZeroRetries(t *testing.T) {
	data, err := json.Marshal(EventInvokeConfig{FunctionName: Ref{LogicalName: "HelloFunction"}, Qualifier: "$LATEST", MaximumRetryAttempts: 0})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"MaximumRetryAttempts":0`)
}
