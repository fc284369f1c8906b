package lambdastack

import (
	"errors"

	. "github.com/balaaddepalli/awsstacks/intrinsics"
	"github.com/balaaddepalli/awsstacks/internal/stack"
	"github.com/balaaddepalli/awsstacks/resources/iam"
	"github.com/balaaddepalli/awsstacks/resources/lambda"
	"github.com/balaaddepalli/awsstacks/resources/logs"
)

// functionName is the physical function name; the log group is named after it.
const functionName = "${AWS::StackName}-HelloFunction"

// ----------------------------------------------------------------------------
// Execution Role
// ----------------------------------------------------------------------------

var lambdaAssumeRolePolicy = NewPolicyDocument(PolicyStatement{
	Effect:    "Allow",
	Principal: ServicePrincipal{"lambda.amazonaws.com"},
	Action:    "sts:AssumeRole",
})

func executionRole(p Props) iam.Role {
	return iam.Role{
		Description:              "Execution role of the hello function",
		AssumeRolePolicyDocument: lambdaAssumeRolePolicy,
		ManagedPolicyArns: Any(
			ManagedPolicyArn("service-role/AWSLambdaBasicExecutionRole"),
			ManagedPolicyArn("AWSXRayDaemonWriteAccess"),
		),
		Tags: tags(p),
	}
}

// ----------------------------------------------------------------------------
// Function
// ----------------------------------------------------------------------------

func helloFunction(p Props) lambda.Function {
	return lambda.Function{
		FunctionName:  Sub{String: functionName},
		Description:   "Hello handler behind the LambdaApi REST API",
		Runtime:       "provided.al2023",
		Handler:       "bootstrap",
		Architectures: Any("arm64"),
		MemorySize:    256,
		Timeout:       10,
		Role:          GetAtt{LogicalName: FunctionRole, Attribute: "Arn"},
		Code: &lambda.Function_Code{
			S3Bucket: p.AssetBucket,
			S3Key:    Ref{LogicalName: CodeKeyParameter},
		},
		ReservedConcurrentExecutions: 10,
		Environment: &lambda.Function_Environment{
			Variables: map[string]any{
				"LOG_LEVEL":    "info",
				"SERVICE_NAME": p.ServiceName,
			},
		},
		LoggingConfig: &lambda.Function_LoggingConfig{
			LogGroup: Ref{LogicalName: FunctionLogGroup},
		},
		TracingConfig: &lambda.Function_TracingConfig{Mode: "Active"},
		Tags:          tags(p),
	}
}

// helloLogGroup keeps function logs for one week.
func helloLogGroup(p Props) logs.LogGroup {
	return logs.LogGroup{
		LogGroupName:    Sub{String: "/aws/lambda/" + functionName},
		RetentionInDays: 7,
		Tags:            tags(p),
	}
}

// helloInvokeConfig disables retries of asynchronous invocations.
var helloInvokeConfig = lambda.EventInvokeConfig{
	FunctionName:         Ref{LogicalName: Function},
	Qualifier:            "$LATEST",
	MaximumRetryAttempts: 0,
}

func addCompute(s *stack.Stack, p Props) error {
	return errors.Join(
		s.Add(FunctionRole, executionRole(p)),
		s.Add(FunctionLogGroup, helloLogGroup(p)),
		s.Add(Function, helloFunction(p)),
		s.Add(FunctionInvokeCfg, helloInvokeConfig),
	)
}
