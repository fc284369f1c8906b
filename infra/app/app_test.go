package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balaaddepalli/awsstacks/internal/appconfig"
	"github.com/balaaddepalli/awsstacks/internal/template"
)

func TestNew(t *testing.T) {
	stacks, err := New(appconfig.Default())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"TypeScriptLambdaPipeline",
		"TypeScriptEC2Pipeline",
		"TypeScriptLambdaStack",
		"TypeScriptEC2Stack",
	}, Names(stacks))

	tests := []struct {
		stack   string
		account string
	}{
		{"TypeScriptLambdaPipeline", "642244225184"},
		{"TypeScriptEC2Pipeline", "642244225184"},
		{"TypeScriptLambdaStack", "685385421611"},
		{"TypeScriptEC2Stack", "685385421611"},
	}
	for _, tt := range tests {
		t.Run(tt.stack, func(t *testing.T) {
			selected, err := Select(stacks, tt.stack)
			require.NoError(t, err)
			require.Len(t, selected, 1)

			s := selected[0]
			assert.Equal(t, tt.account, s.Env.Account)
			assert.Equal(t, "eu-central-1", s.Env.Region)

			_, err = template.Synthesize(s)
			assert.NoError(t, err)
		})
	}
}

func TestNew_PipelineSettings(t *testing.T) {
	stacks, err := New(appconfig.Default())
	require.NoError(t, err)

	ec2, err := Select(stacks, EC2PipelineStack)
	require.NoError(t, err)
	tmpl, err := template.Synthesize(ec2[0])
	require.NoError(t, err)
	props := tmpl.Resources["Pipeline"].Properties
	assert.Equal(t, EC2PipelineName, props["Name"])
	assert.Equal(t, true, props["RestartExecutionOnUpdate"])

	lambda, err := Select(stacks, LambdaPipelineStack)
	require.NoError(t, err)
	tmpl, err = template.Synthesize(lambda[0])
	require.NoError(t, err)
	assert.NotContains(t, tmpl.Resources["Pipeline"].Properties, "Name")
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := appconfig.Default()
	cfg.ConnectionArn = ""

	_, err := New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TypeScriptLambdaPipeline")
	assert.Contains(t, err.Error(), "TypeScriptEC2Pipeline")
}

func TestSelect(t *testing.T) {
	stacks, err := New(appconfig.Default())
	require.NoError(t, err)

	all, err := Select(stacks)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	two, err := Select(stacks, "TypeScriptEC2Stack", "TypeScriptLambdaStack")
	require.NoError(t, err)
	assert.Equal(t, []string{"TypeScriptEC2Stack", "TypeScriptLambdaStack"}, Names(two))

	_, err = Select(stacks, "TypeScriptEC2Stack", "Missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, appconfig.ErrUnknownStack)
	assert.Contains(t, err.Error(), "Missing")
}
