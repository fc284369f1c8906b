// Package lambda provides AWS Lambda resource types.
package lambda

// Function represents AWS::Lambda::Function.
type Function struct {
	Architectures                []any                   `json:"Architectures,omitempty"`
	Code                         *Function_Code          `json:"Code,omitempty"`
	Description                  any                     `json:"Description,omitempty"`
	Environment                  *Function_Environment   `json:"Environment,omitempty"`
	FunctionName                 any                     `json:"FunctionName,omitempty"`
	Handler                      any                     `json:"Handler,omitempty"`
	LoggingConfig                *Function_LoggingConfig `json:"LoggingConfig,omitempty"`
	MemorySize                   any                     `json:"MemorySize,omitempty"`
	ReservedConcurrentExecutions any                     `json:"ReservedConcurrentExecutions,omitempty"`
	Role                         any                     `json:"Role,omitempty"`
	Runtime                      any                     `json:"Runtime,omitempty"`
	Tags                         []any                   `json:"Tags,omitempty"`
	Timeout                      any                     `json:"Timeout,omitempty"`
	TracingConfig                *Function_TracingConfig `json:"TracingConfig,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Function) ResourceType() string {
	return "AWS::Lambda::Function"
}

// Function_Code is the deployment package of a function.
type Function_Code struct {
	S3Bucket any `json:"S3Bucket,omitempty"`
	S3Key    any `json:"S3Key,omitempty"`
	ZipFile  any `json:"ZipFile,omitempty"`
}

// Function_Environment holds environment variables.
type Function_Environment struct {
	Variables map[string]any `json:"Variables,omitempty"`
}

// Function_LoggingConfig controls the function's log format and group.
type Function_LoggingConfig struct {
	ApplicationLogLevel any `json:"ApplicationLogLevel,omitempty"`
	LogFormat           any `json:"LogFormat,omitempty"`
	LogGroup            any `json:"LogGroup,omitempty"`
	SystemLogLevel      any `json:"SystemLogLevel,omitempty"`
}

// Function_TracingConfig sets the X-Ray tracing mode ("Active" or "PassThrough").
type Function_TracingConfig struct {
	Mode any `json:"Mode,omitempty"`
}

// Permission represents AWS::Lambda::Permission.
type Permission struct {
	Action        any `json:"Action,omitempty"`
	FunctionName  any `json:"FunctionName,omitempty"`
	Principal     any `json:"Principal,omitempty"`
	SourceAccount any `json:"SourceAccount,omitempty"`
	SourceArn     any `json:"SourceArn,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Permission) ResourceType() string {
	return "AWS::Lambda::Permission"
}

// EventInvokeConfig represents AWS::Lambda::EventInvokeConfig.
// It bounds retries and event age for asynchronous invocations.
type EventInvokeConfig struct {
	FunctionName             any `json:"FunctionName,omitempty"`
	MaximumEventAgeInSeconds any `json:"MaximumEventAgeInSeconds,omitempty"`
	MaximumRetryAttempts     any `json:"MaximumRetryAttempts,omitempty"`
	Qualifier                any `json:"Qualifier,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r EventInvokeConfig) ResourceType() string {
	return "AWS::Lambda::EventInvokeConfig"
}
