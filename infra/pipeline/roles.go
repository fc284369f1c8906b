package pipeline

import (
	. "github.com/balaaddepalli/awsstacks/intrinsics"
	"github.com/balaaddepalli/awsstacks/resources/iam"
)

// ----------------------------------------------------------------------------
// Shared Statements
// ----------------------------------------------------------------------------

func assumedBy(service string) PolicyDocument {
	return NewPolicyDocument(PolicyStatement{
		Effect:    "Allow",
		Principal: ServicePrincipal{service},
		Action:    "sts:AssumeRole",
	})
}

func artifactAccess() PolicyStatement {
	return Allow(
		Any("s3:GetObject", "s3:GetObjectVersion", "s3:GetBucketVersioning", "s3:PutObject", "s3:PutObjectAcl"),
		GetAtt{LogicalName: ArtifactsBucket, Attribute: "Arn"},
		Sub{String: "${" + ArtifactsBucket + ".Arn}/*"},
	)
}

func buildLogs() PolicyStatement {
	return Allow(
		Any("logs:CreateLogGroup", "logs:CreateLogStream", "logs:PutLogEvents"),
		Sub{String: "arn:${AWS::Partition}:logs:${AWS::Region}:${AWS::AccountId}:log-group:/aws/codebuild/*"},
	)
}

func inline(name string, statements ...any) iam.Role_Policy {
	return iam.Role_Policy{
		PolicyName:     name,
		PolicyDocument: NewPolicyDocument(statements...),
	}
}

// ----------------------------------------------------------------------------
// Roles
// ----------------------------------------------------------------------------

// pipelineRole runs the pipeline: it reads the connection, moves artifacts
// and starts both projects.
func pipelineRole(p Props) iam.Role {
	return iam.Role{
		Description:              "Role assumed by the " + p.TargetStack + " pipeline",
		AssumeRolePolicyDocument: assumedBy("codepipeline.amazonaws.com"),
		Policies: Any(inline("pipeline",
			artifactAccess(),
			Allow(Any("codestar-connections:UseConnection", "codeconnections:UseConnection"), p.ConnectionArn),
			Allow(
				Any("codebuild:StartBuild", "codebuild:BatchGetBuilds", "codebuild:StopBuild"),
				GetAtt{LogicalName: BuildProject, Attribute: "Arn"},
				GetAtt{LogicalName: DeployProject, Attribute: "Arn"},
			),
		)),
	}
}

// buildRole also reads CodeGuru Reviewer and Inspector findings for the
// security checks of the build.
func buildRole() iam.Role {
	return iam.Role{
		Description:              "Service role of the build project",
		AssumeRolePolicyDocument: assumedBy("codebuild.amazonaws.com"),
		Policies: Any(inline("build",
			buildLogs(),
			artifactAccess(),
			Allow(Any(
				"codeguru-reviewer:CreateCodeReview",
				"codeguru-reviewer:DescribeCodeReview",
				"codeguru-reviewer:ListRecommendations",
				"inspector2:ListFindings",
				"inspector2:BatchGetFindingDetails",
			), "*"),
		)),
	}
}

// deployRole may only assume the workload account's bootstrap roles.
func deployRole(p Props) iam.Role {
	return iam.Role{
		Description:              "Service role of the deploy project",
		AssumeRolePolicyDocument: assumedBy("codebuild.amazonaws.com"),
		Policies: Any(inline("deploy",
			buildLogs(),
			artifactAccess(),
			Allow(Any("sts:AssumeRole"),
				RoleArn(p.TargetEnv.Account, p.DeployRole),
				RoleArn(p.TargetEnv.Account, p.FilePublishingRole),
			),
		)),
	}
}
