// Package apigateway provides Amazon API Gateway (REST) resource types.
package apigateway

// RestApi represents AWS::ApiGateway::RestApi.
type RestApi struct {
	BinaryMediaTypes      []any                          `json:"BinaryMediaTypes,omitempty"`
	Description           any                            `json:"Description,omitempty"`
	EndpointConfiguration *RestApi_EndpointConfiguration `json:"EndpointConfiguration,omitempty"`
	Name                  any                            `json:"Name,omitempty"`
	// Policy is the resource policy document.
	Policy any   `json:"Policy,omitempty"`
	Tags   []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r RestApi) ResourceType() string {
	return "AWS::ApiGateway::RestApi"
}

// RestApi_EndpointConfiguration selects EDGE, REGIONAL or PRIVATE endpoints.
type RestApi_EndpointConfiguration struct {
	Types []any `json:"Types,omitempty"`
}

// Resource represents AWS::ApiGateway::Resource, one path segment.
type Resource struct {
	ParentId  any `json:"ParentId,omitempty"`
	PathPart  any `json:"PathPart,omitempty"`
	RestApiId any `json:"RestApiId,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Resource) ResourceType() string {
	return "AWS::ApiGateway::Resource"
}

// Method represents AWS::ApiGateway::Method.
type Method struct {
	ApiKeyRequired    any                 `json:"ApiKeyRequired,omitempty"`
	AuthorizationType any                 `json:"AuthorizationType,omitempty"`
	HttpMethod        any                 `json:"HttpMethod,omitempty"`
	Integration       *Method_Integration `json:"Integration,omitempty"`
	MethodResponses   []any               `json:"MethodResponses,omitempty"`
	ResourceId        any                 `json:"ResourceId,omitempty"`
	RestApiId         any                 `json:"RestApiId,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Method) ResourceType() string {
	return "AWS::ApiGateway::Method"
}

// Method_Integration is the backend of a method.
type Method_Integration struct {
	IntegrationHttpMethod any            `json:"IntegrationHttpMethod,omitempty"`
	IntegrationResponses  []any          `json:"IntegrationResponses,omitempty"`
	PassthroughBehavior   any            `json:"PassthroughBehavior,omitempty"`
	RequestTemplates      map[string]any `json:"RequestTemplates,omitempty"`
	Type                  any            `json:"Type,omitempty"`
	Uri                   any            `json:"Uri,omitempty"`
}

// Method_IntegrationResponse maps a backend response to a method response.
type Method_IntegrationResponse struct {
	ResponseParameters map[string]any `json:"ResponseParameters,omitempty"`
	ResponseTemplates  map[string]any `json:"ResponseTemplates,omitempty"`
	StatusCode         any            `json:"StatusCode,omitempty"`
}

// Method_MethodResponse declares a response a method may return.
type Method_MethodResponse struct {
	ResponseParameters map[string]any `json:"ResponseParameters,omitempty"`
	StatusCode         any            `json:"StatusCode,omitempty"`
}

// Deployment represents AWS::ApiGateway::Deployment.
type Deployment struct {
	Description any `json:"Description,omitempty"`
	RestApiId   any `json:"RestApiId,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Deployment) ResourceType() string {
	return "AWS::ApiGateway::Deployment"
}

// Stage represents AWS::ApiGateway::Stage.
type Stage struct {
	CacheClusterEnabled any   `json:"CacheClusterEnabled,omitempty"`
	CacheClusterSize    any   `json:"CacheClusterSize,omitempty"`
	DeploymentId        any   `json:"DeploymentId,omitempty"`
	MethodSettings      []any `json:"MethodSettings,omitempty"`
	RestApiId           any   `json:"RestApiId,omitempty"`
	StageName           any   `json:"StageName,omitempty"`
	Tags                []any `json:"Tags,omitempty"`
	TracingEnabled      any   `json:"TracingEnabled,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Stage) ResourceType() string {
	return "AWS::ApiGateway::Stage"
}

// Stage_MethodSetting configures logging, metrics and caching for methods.
// ResourcePath "/*" with HttpMethod "*" applies to every method.
type Stage_MethodSetting struct {
	CacheTtlInSeconds any `json:"CacheTtlInSeconds,omitempty"`
	CachingEnabled    any `json:"CachingEnabled,omitempty"`
	DataTraceEnabled  any `json:"DataTraceEnabled,omitempty"`
	HttpMethod        any `json:"HttpMethod,omitempty"`
	LoggingLevel      any `json:"LoggingLevel,omitempty"`
	MetricsEnabled    any `json:"MetricsEnabled,omitempty"`
	ResourcePath      any `json:"ResourcePath,omitempty"`
}

// Account represents AWS::ApiGateway::Account, the per-region role API
// Gateway uses to write execution logs.
type Account struct {
	CloudWatchRoleArn any `json:"CloudWatchRoleArn,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Account) ResourceType() string {
	return "AWS::ApiGateway::Account"
}
