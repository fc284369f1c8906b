// Package pipeline declares the CI/CD stacks. Each pipeline lives in the
// CI/CD account, pulls the repository through a CodeStar connection, builds
// and checks one workload stack and deploys it into the workload account
// through the bootstrap roles there.
package pipeline

import (
	"errors"
	"fmt"

	awsstacks "github.com/balaaddepalli/awsstacks"
	. "github.com/balaaddepalli/awsstacks/intrinsics"
	"github.com/balaaddepalli/awsstacks/internal/stack"
	"github.com/balaaddepalli/awsstacks/resources/codebuild"
	"github.com/balaaddepalli/awsstacks/resources/codepipeline"
	"github.com/balaaddepalli/awsstacks/resources/s3"
)

// Logical names.
const (
	ArtifactsBucket       = "ArtifactsBucket"
	ArtifactsBucketPolicy = "ArtifactsBucketPolicy"
	PipelineRole          = "PipelineRole"
	BuildProjectRole      = "BuildProjectRole"
	DeployProjectRole     = "DeployProjectRole"
	BuildProject          = "BuildProject"
	DeployProject         = "DeployProject"
	Pipeline              = "Pipeline"
)

// SourceActionName is the name of the GitHub source action.
const SourceActionName = "GitHub_Source"

const (
	sourceArtifact = "SourceArtifact"
	buildArtifact  = "BuildArtifact"
)

// Props parameterizes a pipeline stack.
type Props struct {
	// StackName is the pipeline stack name, Env its CI/CD account and region.
	StackName string
	Env       awsstacks.Env

	// PipelineName is the physical pipeline name. Empty lets CloudFormation
	// generate one.
	PipelineName             string
	RestartExecutionOnUpdate bool

	// TargetStack is deployed into TargetEnv.
	TargetStack string
	TargetEnv   awsstacks.Env

	// LambdaBundle builds and publishes the bootstrap binary before deploying.
	LambdaBundle bool

	// Role names in the workload account.
	DeployRole         string
	FilePublishingRole string
	ExecutionRole      string

	Owner         string
	Repo          string
	Branch        string
	ConnectionArn string

	// Environment is the ENVIRONMENT tag value.
	Environment string
}

func (p Props) validate() error {
	var errs []error
	if p.StackName == "" {
		errs = append(errs, errors.New("stack name is required"))
	}
	if p.TargetStack == "" {
		errs = append(errs, errors.New("target stack is required"))
	}
	if p.TargetEnv.Account == "" || p.TargetEnv.Region == "" {
		errs = append(errs, errors.New("target account and region are required"))
	}
	if p.Owner == "" || p.Repo == "" {
		errs = append(errs, errors.New("repository owner and name are required"))
	}
	if p.ConnectionArn == "" {
		errs = append(errs, errors.New("connection ARN is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("pipeline %s: %w", p.StackName, errors.Join(errs...))
	}
	return nil
}

// New builds a pipeline stack.
func New(p Props) (*stack.Stack, error) {
	if p.Branch == "" {
		p.Branch = "main"
	}
	if err := p.validate(); err != nil {
		return nil, err
	}

	s := stack.New(p.StackName, p.Env)
	s.Description = "CI/CD pipeline for " + p.TargetStack

	build, err := project(p, BuildProjectRole, buildSpec(p), nil)
	if err != nil {
		return nil, err
	}
	deploy, err := project(p, DeployProjectRole, deploySpec(p), deployVariables(p))
	if err != nil {
		return nil, err
	}

	if err := errors.Join(
		s.Add(ArtifactsBucket, artifactsBucket, stack.Retain()),
		s.Add(ArtifactsBucketPolicy, artifactsBucketPolicy),
		s.Add(PipelineRole, pipelineRole(p)),
		s.Add(BuildProjectRole, buildRole()),
		s.Add(DeployProjectRole, deployRole(p)),
		s.Add(BuildProject, build),
		s.Add(DeployProject, deploy),
		s.Add(Pipeline, pipeline(p)),
	); err != nil {
		return nil, err
	}

	addOutputs(s)
	return s, nil
}

// ----------------------------------------------------------------------------
// Artifact Store
// ----------------------------------------------------------------------------

var artifactsBucket = s3.Bucket{
	BucketEncryption: &s3.Bucket_BucketEncryption{
		ServerSideEncryptionConfiguration: Any(s3.Bucket_ServerSideEncryptionRule{
			ServerSideEncryptionByDefault: &s3.Bucket_ServerSideEncryptionByDefault{
				SSEAlgorithm: "AES256",
			},
		}),
	},
	PublicAccessBlockConfiguration: s3.BlockAll(),
}

// artifactsBucketPolicy rejects requests that do not use TLS.
var artifactsBucketPolicy = s3.BucketPolicy{
	Bucket: Ref{LogicalName: ArtifactsBucket},
	PolicyDocument: NewPolicyDocument(PolicyStatement{
		Effect:    "Deny",
		Principal: AnyPrincipal,
		Action:    "s3:*",
		Resource: Any(
			GetAtt{LogicalName: ArtifactsBucket, Attribute: "Arn"},
			Sub{String: "${" + ArtifactsBucket + ".Arn}/*"},
		),
		Condition: Json{Bool: Json{"aws:SecureTransport": "false"}},
	}),
}

// ----------------------------------------------------------------------------
// Projects
// ----------------------------------------------------------------------------

func deployVariables(p Props) []any {
	arn := func(role string) any {
		return RoleArn(p.TargetEnv.Account, role)
	}
	return Any(
		codebuild.Project_EnvironmentVariable{Name: "DEPLOY_ROLE_ARN", Value: arn(p.DeployRole)},
		codebuild.Project_EnvironmentVariable{Name: "FILE_PUBLISHING_ROLE_ARN", Value: arn(p.FilePublishingRole)},
		codebuild.Project_EnvironmentVariable{Name: "CFN_EXEC_ROLE_ARN", Value: arn(p.ExecutionRole)},
		codebuild.Project_EnvironmentVariable{Name: "TARGET_REGION", Value: p.TargetEnv.Region},
	)
}

func project(p Props, role string, spec BuildSpec, variables []any) (codebuild.Project, error) {
	rendered, err := spec.Render()
	if err != nil {
		return codebuild.Project{}, err
	}

	var tags []any
	if p.Environment != "" {
		tags = Tags("ENVIRONMENT", p.Environment)
	}

	return codebuild.Project{
		ServiceRole: GetAtt{LogicalName: role, Attribute: "Arn"},
		Source: &codebuild.Project_Source{
			Type:      codebuild.SourcePipeline,
			BuildSpec: rendered,
		},
		Artifacts: &codebuild.Project_Artifacts{Type: codebuild.ArtifactsPipeline},
		Environment: &codebuild.Project_Environment{
			Type:                 codebuild.LinuxContainer,
			Image:                codebuild.StandardImage7,
			ComputeType:          codebuild.ComputeSmall,
			EnvironmentVariables: variables,
		},
		TimeoutInMinutes: 30,
		Tags:             tags,
	}, nil
}

// ----------------------------------------------------------------------------
// Pipeline
// ----------------------------------------------------------------------------

func codeBuildAction(name, projectName, input string, outputs ...string) codepipeline.Pipeline_ActionDeclaration {
	action := codepipeline.Pipeline_ActionDeclaration{
		Name: name,
		ActionTypeId: &codepipeline.Pipeline_ActionTypeId{
			Category: "Build",
			Owner:    "AWS",
			Provider: "CodeBuild",
			Version:  "1",
		},
		Configuration:  map[string]any{"ProjectName": Ref{LogicalName: projectName}},
		InputArtifacts: Any(codepipeline.Pipeline_InputArtifact{Name: input}),
		RunOrder:       1,
	}
	for _, out := range outputs {
		action.OutputArtifacts = append(action.OutputArtifacts, codepipeline.Pipeline_OutputArtifact{Name: out})
	}
	return action
}

func pipeline(p Props) codepipeline.Pipeline {
	source := codepipeline.Pipeline_ActionDeclaration{
		Name: SourceActionName,
		ActionTypeId: &codepipeline.Pipeline_ActionTypeId{
			Category: "Source",
			Owner:    "AWS",
			Provider: "CodeStarSourceConnection",
			Version:  "1",
		},
		Configuration: map[string]any{
			"ConnectionArn":        p.ConnectionArn,
			"FullRepositoryId":     p.Owner + "/" + p.Repo,
			"BranchName":           p.Branch,
			"OutputArtifactFormat": "CODE_ZIP",
			"DetectChanges":        false,
		},
		OutputArtifacts: Any(codepipeline.Pipeline_OutputArtifact{Name: sourceArtifact}),
		RunOrder:        1,
	}

	pl := codepipeline.Pipeline{
		PipelineType:  "V2",
		ExecutionMode: "QUEUED",
		RoleArn:       GetAtt{LogicalName: PipelineRole, Attribute: "Arn"},
		ArtifactStore: &codepipeline.Pipeline_ArtifactStore{
			Type:     "S3",
			Location: Ref{LogicalName: ArtifactsBucket},
		},
		Stages: Any(
			codepipeline.Pipeline_StageDeclaration{Name: "Source", Actions: Any(source)},
			codepipeline.Pipeline_StageDeclaration{Name: "Build", Actions: Any(
				codeBuildAction("Build", BuildProject, sourceArtifact, buildArtifact),
			)},
			codepipeline.Pipeline_StageDeclaration{Name: "Deploy", Actions: Any(
				codeBuildAction("Deploy", DeployProject, buildArtifact),
			)},
		),
		Triggers: Any(codepipeline.Pipeline_Trigger{
			ProviderType: "CodeStarSourceConnection",
			GitConfiguration: &codepipeline.Pipeline_GitConfiguration{
				SourceActionName: SourceActionName,
				Push: Any(codepipeline.Pipeline_GitPushFilter{
					Branches: &codepipeline.Pipeline_GitBranchFilterCriteria{Includes: Any(p.Branch)},
				}),
			},
		}),
	}
	if p.PipelineName != "" {
		pl.Name = p.PipelineName
	}
	if p.RestartExecutionOnUpdate {
		pl.RestartExecutionOnUpdate = true
	}
	return pl
}

// ----------------------------------------------------------------------------
// Outputs
// ----------------------------------------------------------------------------

func addOutputs(s *stack.Stack) {
	s.AddOutput("PipelineName", stack.Output{
		Description: "CodePipeline name",
		Value:       Ref{LogicalName: Pipeline},
	})
	s.AddOutput("PipelineUrl", stack.Output{
		Description: "CodePipeline console URL",
		Value: Sub{String: "https://${AWS::Region}.console.aws.amazon.com/codesuite/codepipeline/pipelines/${" +
			Pipeline + "}/view?region=${AWS::Region}"},
	})
}
