package pipeline

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// GoVersion is the CodeBuild golang runtime. Newer toolchains named in
// go.mod are fetched through GOTOOLCHAIN=auto.
const GoVersion = "1.22"

// BuildSpec is a CodeBuild buildspec.
type BuildSpec struct {
	Version   string     `yaml:"version"`
	Env       *Env       `yaml:"env,omitempty"`
	Phases    Phases     `yaml:"phases"`
	Artifacts *Artifacts `yaml:"artifacts,omitempty"`
}

// Env holds plain buildspec environment variables.
type Env struct {
	Variables map[string]string `yaml:"variables,omitempty"`
}

// Phases are the buildspec phases in execution order.
type Phases struct {
	Install   *Phase `yaml:"install,omitempty"`
	PreBuild  *Phase `yaml:"pre_build,omitempty"`
	Build     *Phase `yaml:"build,omitempty"`
	PostBuild *Phase `yaml:"post_build,omitempty"`
}

// Phase is one buildspec phase.
type Phase struct {
	RuntimeVersions map[string]string `yaml:"runtime-versions,omitempty"`
	Commands        []string          `yaml:"commands"`
}

// Artifacts selects the files handed to the next stage.
type Artifacts struct {
	Files []string `yaml:"files"`
}

// Render returns the buildspec as YAML text.
func (b BuildSpec) Render() (string, error) {
	data, err := yaml.Marshal(b)
	if err != nil {
		return "", fmt.Errorf("rendering buildspec: %w", err)
	}
	return string(data), nil
}

func install() *Phase {
	return &Phase{
		RuntimeVersions: map[string]string{"golang": GoVersion},
		Commands:        []string{"go mod download"},
	}
}

func goEnv() *Env {
	return &Env{Variables: map[string]string{
		"GOTOOLCHAIN": "auto",
		"CGO_ENABLED": "0",
	}}
}

// buildSpec tests the module, lints and synthesizes the target stack and,
// for the Lambda pipeline, builds the bootstrap binary.
func buildSpec(p Props) BuildSpec {
	build := []string{"mkdir -p dist cdk.out"}
	if p.LambdaBundle {
		build = append(build,
			"GOOS=linux GOARCH=arm64 go build -tags lambda.norpc -trimpath -o dist/bootstrap ./cmd/hello-lambda")
	}
	build = append(build, "go run ./cmd/awsstacks synth "+p.TargetStack+" -o cdk.out")

	return BuildSpec{
		Version: "0.2",
		Env:     goEnv(),
		Phases: Phases{
			Install: install(),
			PreBuild: &Phase{Commands: []string{
				`echo "Running tests and template checks..."`,
				"go vet ./...",
				"go test ./...",
				"go run ./cmd/awsstacks lint " + p.TargetStack + " --fail-on error",
				"go run ./cmd/awsstacks validate " + p.TargetStack,
			}},
			Build: &Phase{Commands: build},
		},
		Artifacts: &Artifacts{Files: []string{"**/*"}},
	}
}

// deploySpec assumes the workload account roles through named profiles,
// publishes the bundle and deploys the synthesized template.
func deploySpec(p Props) BuildSpec {
	commands := []string{
		"aws configure set profile.deploy.role_arn \"$DEPLOY_ROLE_ARN\"",
		"aws configure set profile.deploy.credential_source EcsContainer",
		"aws configure set profile.deploy.region \"$TARGET_REGION\"",
	}

	overrides := ""
	if p.LambdaBundle {
		commands = append(commands,
			"aws configure set profile.publish.role_arn \"$FILE_PUBLISHING_ROLE_ARN\"",
			"aws configure set profile.publish.credential_source EcsContainer",
			"aws configure set profile.publish.region \"$TARGET_REGION\"",
			"go run ./cmd/awsstacks publish dist/bootstrap --profile publish --key-file dist/bootstrap.key",
		)
		overrides = " --parameter-overrides CodeS3Key=$(cat dist/bootstrap.key)"
	}

	commands = append(commands,
		"aws cloudformation deploy --profile deploy"+
			" --stack-name "+p.TargetStack+
			" --template-file cdk.out/"+p.TargetStack+".template.json"+
			" --role-arn \"$CFN_EXEC_ROLE_ARN\""+
			" --capabilities CAPABILITY_IAM CAPABILITY_NAMED_IAM"+
			" --no-fail-on-empty-changeset"+overrides,
	)

	return BuildSpec{
		Version: "0.2",
		Env:     goEnv(),
		Phases: Phases{
			Install:   install(),
			Build:     &Phase{Commands: commands},
			PostBuild: &Phase{Commands: []string{"echo Deployment completed on `date`"}},
		},
	}
}
