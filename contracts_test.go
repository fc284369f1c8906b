package awsstacks

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttrRef_MarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		ref      AttrRef
		expected string
	}{
		{
			name:     "role arn",
			ref:      AttrRef{Resource: "HelloFunctionRole", Attribute: "Arn"},
			expected: `{"Fn::GetAtt":["HelloFunctionRole","Arn"]}`,
		},
		{
			name:     "api root resource",
			ref:      AttrRef{Resource: "HelloApi", Attribute: "RootResourceId"},
			expected: `{"Fn::GetAtt":["HelloApi","RootResourceId"]}`,
		},
		{
			name:     "instance public ip",
			ref:      AttrRef{Resource: "Instance", Attribute: "PublicIp"},
			expected: `{"Fn::GetAtt":["Instance","PublicIp"]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.ref)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(data))
		})
	}
}

func TestAttrRef_IsZero(t *testing.T) {
	assert.True(t, AttrRef{}.IsZero())
	assert.False(t, AttrRef{Resource: "HelloFunction"}.IsZero())
	assert.False(t, AttrRef{Attribute: "Arn"}.IsZero())
}

func TestTemplate_JSON(t *testing.T) {
	tmpl := Template{
		AWSTemplateFormatVersion: "2010-09-09",
		Description:              "hello stack",
		Parameters: map[string]Parameter{
			"CodeS3Key": {Type: "String", Description: "Code bundle key"},
		},
		Resources: map[string]ResourceDef{
			"HelloFunction": {
				Type:       "AWS::Lambda::Function",
				Properties: map[string]any{"Handler": "bootstrap"},
				DependsOn:  []string{"HelloFunctionLogGroup"},
			},
			"HelloFunctionLogGroup": {
				Type:           "AWS::Logs::LogGroup",
				DeletionPolicy: "Retain",
			},
		},
		Outputs: map[string]Output{
			"FunctionArn": {
				Value:  AttrRef{Resource: "HelloFunction", Attribute: "Arn"},
				Export: &OutputExport{Name: "HelloFunctionArn"},
			},
		},
	}

	data, err := json.Marshal(tmpl)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, "2010-09-09", parsed["AWSTemplateFormatVersion"])
	assert.NotContains(t, parsed, "Conditions")

	resources := parsed["Resources"].(map[string]any)
	fn := resources["HelloFunction"].(map[string]any)
	assert.Equal(t, []any{"HelloFunctionLogGroup"}, fn["DependsOn"])
	assert.NotContains(t, fn, "DeletionPolicy")

	logGroup := resources["HelloFunctionLogGroup"].(map[string]any)
	assert.Equal(t, "Retain", logGroup["DeletionPolicy"])
	assert.NotContains(t, logGroup, "Properties")

	out := parsed["Outputs"].(map[string]any)["FunctionArn"].(map[string]any)
	assert.Equal(t, map[string]any{"Fn::GetAtt": []any{"HelloFunction", "Arn"}}, out["Value"])
	assert.Equal(t, map[string]any{"Name": "HelloFunctionArn"}, out["Export"])
}

func TestLintResult_JSON(t *testing.T) {
	result := LintResult{
		Issues: []LintIssue{{
			Stack:    "TypeScriptEC2Stack",
			Resource: "InstanceSecurityGroup",
			Severity: "warning",
			Message:  "SSH open to the world",
			Rule:     "AWS001",
		}},
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"success": false,
		"issues": [{
			"stack": "TypeScriptEC2Stack",
			"resource": "InstanceSecurityGroup",
			"severity": "warning",
			"message": "SSH open to the world",
			"rule": "AWS001"
		}]
	}`, string(data))

	data, err = json.Marshal(LintResult{Success: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success": true}`, string(data))
}

func TestInvokeResult_RawBody(t *testing.T) {
	result := InvokeResult{
		RequestID:  "req-1",
		StatusCode: 200,
		Headers:    map[string]string{"X-Request-ID": "req-1"},
		Body:       json.RawMessage(`{"message":"hi"}`),
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"requestId": "req-1",
		"statusCode": 200,
		"headers": {"X-Request-ID": "req-1"},
		"body": {"message": "hi"}
	}`, string(data))
}

func TestDiffSummary_JSON(t *testing.T) {
	data, err := json.Marshal(DiffSummary{Added: 1, Modified: 2, Total: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"added":1,"removed":0,"modified":2,"total":3}`, string(data))

	data, err = json.Marshal(TemplateDiff{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}
