package codepipeline

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceType(t *testing.T) {
	assert.Equal(t, "AWS::CodePipeline::Pipeline", Pipeline{}.ResourceType())
}

func TestTriggerSerialization(t *testing.T) {
	trigger := Pipeline_Trigger{
		ProviderType: "CodeStarSourceConnection",
		GitConfiguration: &Pipeline_GitConfiguration{
			SourceActionName: "Source",
			Push: []any{Pipeline_GitPushFilter{
				Branches: &Pipeline_GitBranchFilterCriteria{Includes: []any{"main"}},
			}},
		},
	}

	data, err := json.Marshal(trigger)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"ProviderType": "CodeStarSourceConnection",
		"GitConfiguration": {
			"SourceActionName": "Source",
			"Push": [{"Branches": {"Includes": ["main"]}}]
		}
	}`, string(data))
}
