// Package codepipeline provides AWS CodePipeline resource types.
package codepipeline

// Pipeline represents AWS::CodePipeline::Pipeline.
type Pipeline struct {
	ArtifactStore            *Pipeline_ArtifactStore `json:"ArtifactStore,omitempty"`
	ExecutionMode            any                     `json:"ExecutionMode,omitempty"`
	Name                     any                     `json:"Name,omitempty"`
	PipelineType             any                     `json:"PipelineType,omitempty"`
	RestartExecutionOnUpdate any                     `json:"RestartExecutionOnUpdate,omitempty"`
	RoleArn                  any                     `json:"RoleArn,omitempty"`
	Stages                   []any                   `json:"Stages,omitempty"`
	Tags                     []any                   `json:"Tags,omitempty"`
	Triggers                 []any                   `json:"Triggers,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Pipeline) ResourceType() string {
	return "AWS::CodePipeline::Pipeline"
}

// Pipeline_ArtifactStore is the bucket that carries artifacts between stages.
type Pipeline_ArtifactStore struct {
	Location any `json:"Location,omitempty"`
	Type     any `json:"Type,omitempty"`
}

// Pipeline_StageDeclaration is one stage and its actions.
type Pipeline_StageDeclaration struct {
	Actions []any `json:"Actions,omitempty"`
	Name    any   `json:"Name,omitempty"`
}

// Pipeline_ActionDeclaration is one action in a stage.
type Pipeline_ActionDeclaration struct {
	ActionTypeId    *Pipeline_ActionTypeId `json:"ActionTypeId,omitempty"`
	Configuration   map[string]any         `json:"Configuration,omitempty"`
	InputArtifacts  []any                  `json:"InputArtifacts,omitempty"`
	Name            any                    `json:"Name,omitempty"`
	OutputArtifacts []any                  `json:"OutputArtifacts,omitempty"`
	RoleArn         any                    `json:"RoleArn,omitempty"`
	RunOrder        any                    `json:"RunOrder,omitempty"`
}

// Pipeline_ActionTypeId names the action provider.
type Pipeline_ActionTypeId struct {
	Category any `json:"Category,omitempty"`
	Owner    any `json:"Owner,omitempty"`
	Provider any `json:"Provider,omitempty"`
	Version  any `json:"Version,omitempty"`
}

// Pipeline_InputArtifact names an artifact consumed by an action.
type Pipeline_InputArtifact struct {
	Name any `json:"Name,omitempty"`
}

// Pipeline_OutputArtifact names an artifact produced by an action.
type Pipeline_OutputArtifact struct {
	Name any `json:"Name,omitempty"`
}

// Pipeline_Trigger starts a V2 pipeline on source events.
type Pipeline_Trigger struct {
	GitConfiguration *Pipeline_GitConfiguration `json:"GitConfiguration,omitempty"`
	ProviderType     any                        `json:"ProviderType,omitempty"`
}

// Pipeline_GitConfiguration filters the git events of a trigger.
type Pipeline_GitConfiguration struct {
	Push             []any `json:"Push,omitempty"`
	SourceActionName any   `json:"SourceActionName,omitempty"`
}

// Pipeline_GitPushFilter matches pushes.
type Pipeline_GitPushFilter struct {
	Branches *Pipeline_GitBranchFilterCriteria `json:"Branches,omitempty"`
}

// Pipeline_GitBranchFilterCriteria lists branch patterns.
type Pipeline_GitBranchFilterCriteria struct {
	Excludes []any `json:"Excludes,omitempty"`
	Includes []any `json:"Includes,omitempty"`
}
