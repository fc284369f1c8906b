// Package lambdastack declares the TypeScriptLambdaStack: the hello function,
// its REST API, alarms and dashboards.
//
// This file assembles the stack; the other files hold one concern each.
package lambdastack

import (
	"errors"

	awsstacks "github.com/balaaddepalli/awsstacks"
	. "github.com/balaaddepalli/awsstacks/intrinsics"
	"github.com/balaaddepalli/awsstacks/internal/stack"
)

// StackName is the deployed stack name.
const StackName = "TypeScriptLambdaStack"

// Logical names referenced across files and by tests.
const (
	FunctionRole      = "HelloFunctionRole"
	Function          = "HelloFunction"
	FunctionLogGroup  = "HelloFunctionLogGroup"
	FunctionInvokeCfg = "HelloFunctionEventInvokeConfig"
	FunctionApiPerm   = "HelloFunctionApiPermission"

	Api               = "LambdaApi"
	ApiHelloResource  = "LambdaApiHelloResource"
	ApiHelloGet       = "LambdaApiHelloGet"
	ApiHelloOptions   = "LambdaApiHelloOptions"
	ApiDeployment     = "LambdaApiDeployment"
	ApiStage          = "LambdaApiProdStage"
	ApiCloudWatchRole = "LambdaApiCloudWatchRole"
	ApiAccount        = "LambdaApiAccount"

	SecurityDashboard   = "SecurityDashboard"
	OperationsDashboard = "OperationsDashboard"

	CodeKeyParameter = "CodeS3Key"
)

// ApiName is the REST API name, also the ApiName metric dimension.
const ApiName = "LambdaApi"

// StageName is the API stage.
const StageName = "prod"

// Props parameterizes the stack.
type Props struct {
	Env awsstacks.Env

	// Environment is the ENVIRONMENT tag value.
	Environment string

	// AssetBucket and CodeKey locate the published bootstrap bundle. An empty
	// CodeKey leaves the CodeS3Key parameter without a default.
	AssetBucket string
	CodeKey     string

	ServiceName   string
	AllowedOrigin string
	SourceIPs     []string
}

// New builds the stack.
func New(p Props) (*stack.Stack, error) {
	if p.ServiceName == "" {
		p.ServiceName = "hello-lambda"
	}
	if len(p.SourceIPs) == 0 {
		p.SourceIPs = []string{"0.0.0.0/0"}
	}

	s := stack.New(StackName, p.Env)
	s.Description = "Hello Lambda behind API Gateway with security and operations monitoring"

	codeKey := awsstacks.Parameter{Description: "S3 key of the published bootstrap bundle"}
	if p.CodeKey != "" {
		codeKey.Default = p.CodeKey
	}
	s.AddParameter(CodeKeyParameter, codeKey)

	if err := errors.Join(
		addCompute(s, p),
		addAPI(s, p),
		addAlarms(s),
		addDashboards(s, p),
	); err != nil {
		return nil, err
	}

	addOutputs(s)
	return s, nil
}

func tags(p Props) []any {
	if p.Environment == "" {
		return nil
	}
	return Tags("ENVIRONMENT", p.Environment)
}

// ----------------------------------------------------------------------------
// Outputs
// ----------------------------------------------------------------------------

const consoleHome = "https://${AWS::Region}.console.aws.amazon.com/cloudwatch/home?region=${AWS::Region}"

func addOutputs(s *stack.Stack) {
	s.AddOutput("ApiUrl", stack.Output{
		Description: "Lambda API URL",
		Value:       Sub{String: "https://${" + Api + "}.execute-api.${AWS::Region}.${AWS::URLSuffix}/${" + ApiStage + "}/hello"},
	})
	s.AddOutput("SecurityDashboardUrl", stack.Output{
		Description: "Security Dashboard - Threat Detection & Security Metrics",
		Value:       Sub{String: consoleHome + "#dashboards:name=${" + SecurityDashboard + "}"},
	})
	s.AddOutput("OperationsDashboardUrl", stack.Output{
		Description: "Operations Dashboard - Performance & Operational Excellence",
		Value:       Sub{String: consoleHome + "#dashboards:name=${" + OperationsDashboard + "}"},
	})
	s.AddOutput("SecurityAlarmsUrl", stack.Output{
		Description: "Security Alarms Console URL",
		Value:       Sub{String: consoleHome + "#alarmsV2:"},
	})
}
