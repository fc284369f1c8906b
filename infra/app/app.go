// Package app wires the four stacks of the project with the accounts and
// region from the app config.
//
//	TypeScriptLambdaPipeline  (CI/CD account)  -> deploys TypeScriptLambdaStack
//	TypeScriptEC2Pipeline     (CI/CD account)  -> deploys TypeScriptEC2Stack
//	TypeScriptLambdaStack     (workload account)
//	TypeScriptEC2Stack        (workload account)
package app

import (
	"errors"
	"fmt"
	"sort"

	awsstacks "github.com/balaaddepalli/awsstacks"
	"github.com/balaaddepalli/awsstacks/infra/ec2stack"
	"github.com/balaaddepalli/awsstacks/infra/lambdastack"
	"github.com/balaaddepalli/awsstacks/infra/pipeline"
	"github.com/balaaddepalli/awsstacks/internal/appconfig"
	"github.com/balaaddepalli/awsstacks/internal/stack"
)

// Pipeline stack names.
const (
	LambdaPipelineStack = "TypeScriptLambdaPipeline"
	EC2PipelineStack    = "TypeScriptEC2Pipeline"
)

// EC2PipelineName is the physical name of the EC2 pipeline.
const EC2PipelineName = "TypeScriptEC2-Pipeline"

// New builds every stack of the app in deployment order.
func New(cfg appconfig.Config) ([]*stack.Stack, error) {
	cicd := awsstacks.Env{Account: cfg.CICDAccount, Region: cfg.Region}
	workload := awsstacks.Env{Account: cfg.WorkloadAccount, Region: cfg.Region}

	pipelineProps := func(name, target string) pipeline.Props {
		return pipeline.Props{
			StackName:          name,
			Env:                cicd,
			TargetStack:        target,
			TargetEnv:          workload,
			DeployRole:         cfg.DeployRole(),
			FilePublishingRole: cfg.FilePublishingRole(),
			ExecutionRole:      cfg.ExecutionRole(),
			Owner:              cfg.GitHub.Owner,
			Repo:               cfg.GitHub.Repo,
			Branch:             cfg.GitHub.Branch,
			ConnectionArn:      cfg.ConnectionArn,
			Environment:        cfg.Environment,
		}
	}

	lambdaPipeline := pipelineProps(LambdaPipelineStack, lambdastack.StackName)
	lambdaPipeline.LambdaBundle = true

	ec2Pipeline := pipelineProps(EC2PipelineStack, ec2stack.StackName)
	ec2Pipeline.PipelineName = EC2PipelineName
	ec2Pipeline.RestartExecutionOnUpdate = true

	builders := []func() (*stack.Stack, error){
		func() (*stack.Stack, error) { return pipeline.New(lambdaPipeline) },
		func() (*stack.Stack, error) { return pipeline.New(ec2Pipeline) },
		func() (*stack.Stack, error) {
			return lambdastack.New(lambdastack.Props{
				Env:           workload,
				Environment:   cfg.Environment,
				AssetBucket:   cfg.AssetBucket(),
				CodeKey:       cfg.Lambda.CodeKey,
				AllowedOrigin: cfg.Lambda.AllowedOrigin,
				SourceIPs:     cfg.Lambda.SourceIPs,
			})
		},
		func() (*stack.Stack, error) {
			return ec2stack.New(ec2stack.Props{
				Env:          workload,
				Environment:  cfg.Environment,
				InstanceType: cfg.EC2.InstanceType,
				VolumeSize:   cfg.EC2.VolumeSize,
			})
		},
	}

	stacks := make([]*stack.Stack, 0, len(builders))
	var errs []error
	for _, build := range builders {
		s, err := build()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		stacks = append(stacks, s)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return stacks, nil
}

// Names returns the stack names in deployment order.
func Names(stacks []*stack.Stack) []string {
	names := make([]string, len(stacks))
	for i, s := range stacks {
		names[i] = s.Name
	}
	return names
}

// Select returns the named stacks, or all of them when names is empty.
// Unknown names fail with appconfig.ErrUnknownStack.
func Select(stacks []*stack.Stack, names ...string) ([]*stack.Stack, error) {
	if len(names) == 0 {
		return stacks, nil
	}

	selected := make([]*stack.Stack, 0, len(names))
	var unknown []string
	for _, name := range names {
		s, ok := stack.Find(stacks, name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		selected = append(selected, s)
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: %v (available: %v)", appconfig.ErrUnknownStack, unknown, Names(stacks))
	}
	return selected, nil
}
