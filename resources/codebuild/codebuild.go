// Package codebuild provides AWS CodeBuild resource types.
package codebuild

// Project represents AWS::CodeBuild::Project.
type Project struct {
	Artifacts        *Project_Artifacts   `json:"Artifacts,omitempty"`
	Description      any                  `json:"Description,omitempty"`
	Environment      *Project_Environment `json:"Environment,omitempty"`
	Name             any                  `json:"Name,omitempty"`
	ServiceRole      any                  `json:"ServiceRole,omitempty"`
	Source           *Project_Source      `json:"Source,omitempty"`
	Tags             []any                `json:"Tags,omitempty"`
	TimeoutInMinutes any                  `json:"TimeoutInMinutes,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Project) ResourceType() string {
	return "AWS::CodeBuild::Project"
}

// Project_Source is where the build reads its input. Pipeline-driven
// projects use Type "CODEPIPELINE".
type Project_Source struct {
	BuildSpec any `json:"BuildSpec,omitempty"`
	Type      any `json:"Type,omitempty"`
}

// Project_Artifacts is where the build writes its output.
type Project_Artifacts struct {
	Type any `json:"Type,omitempty"`
}

// Project_Environment is the build container.
type Project_Environment struct {
	ComputeType          any   `json:"ComputeType,omitempty"`
	EnvironmentVariables []any `json:"EnvironmentVariables,omitempty"`
	Image                any   `json:"Image,omitempty"`
	PrivilegedMode       any   `json:"PrivilegedMode,omitempty"`
	Type                 any   `json:"Type,omitempty"`
}

// Project_EnvironmentVariable is one build environment variable.
type Project_EnvironmentVariable struct {
	Name  any `json:"Name,omitempty"`
	Type  any `json:"Type,omitempty"`
	Value any `json:"Value,omitempty"`
}

// Build images and compute types.
const (
	StandardImage7    = "aws/codebuild/standard:7.0"
	ComputeSmall      = "BUILD_GENERAL1_SMALL"
	LinuxContainer    = "LINUX_CONTAINER"
	SourcePipeline    = "CODEPIPELINE"
	ArtifactsPipeline = "CODEPIPELINE"
)
