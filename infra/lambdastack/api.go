package lambdastack

import (
	"errors"

	. "github.com/balaaddepalli/awsstacks/intrinsics"
	"github.com/balaaddepalli/awsstacks/internal/stack"
	"github.com/balaaddepalli/awsstacks/resources/apigateway"
	"github.com/balaaddepalli/awsstacks/resources/iam"
	"github.com/balaaddepalli/awsstacks/resources/lambda"
)

// ----------------------------------------------------------------------------
// REST API
// ----------------------------------------------------------------------------

// apiPolicy allows invocation from the configured source ranges and denies
// every request outside the stack's region.
func apiPolicy(p Props) PolicyDocument {
	allow := Allow(Any("execute-api:Invoke"), "*")
	allow.Principal = AnyPrincipal
	allow.Condition = Json{IpAddress: Json{"aws:SourceIp": stringsAny(p.SourceIPs)}}

	deny := Deny(Any("execute-api:Invoke"), "*")
	deny.Principal = AnyPrincipal
	deny.Condition = Json{StringNotEquals: Json{"aws:RequestedRegion": AWS_REGION}}

	return NewPolicyDocument(allow, deny)
}

func restAPI(p Props) apigateway.RestApi {
	return apigateway.RestApi{
		Name:             ApiName,
		Description:      "API Gateway for the hello function",
		BinaryMediaTypes: Any("image/*", "application/pdf"),
		EndpointConfiguration: &apigateway.RestApi_EndpointConfiguration{
			Types: Any("REGIONAL"),
		},
		Policy: apiPolicy(p),
		Tags:   tags(p),
	}
}

// helloResource creates the /hello path.
var helloResource = apigateway.Resource{
	RestApiId: Ref{LogicalName: Api},
	ParentId:  GetAtt{LogicalName: Api, Attribute: "RootResourceId"},
	PathPart:  "hello",
}

// ----------------------------------------------------------------------------
// Methods
// ----------------------------------------------------------------------------

// helloGet proxies GET /hello to the function.
var helloGet = apigateway.Method{
	RestApiId:         Ref{LogicalName: Api},
	ResourceId:        Ref{LogicalName: ApiHelloResource},
	HttpMethod:        "GET",
	AuthorizationType: "NONE",
	Integration: &apigateway.Method_Integration{
		Type:                  "AWS_PROXY",
		IntegrationHttpMethod: "POST",
		Uri: Sub{String: "arn:${AWS::Partition}:apigateway:${AWS::Region}:lambda:path/2015-03-31/functions/${" +
			Function + ".Arn}/invocations"},
		RequestTemplates: map[string]any{
			"application/json": `{ "statusCode": "200" }`,
		},
	},
}

// corsPreflight answers OPTIONS /hello without reaching the function.
func corsPreflight(p Props) apigateway.Method {
	header := func(name string) string { return "method.response.header." + name }

	return apigateway.Method{
		RestApiId:         Ref{LogicalName: Api},
		ResourceId:        Ref{LogicalName: ApiHelloResource},
		HttpMethod:        "OPTIONS",
		AuthorizationType: "NONE",
		Integration: &apigateway.Method_Integration{
			Type: "MOCK",
			RequestTemplates: map[string]any{
				"application/json": "{ statusCode: 200 }",
			},
			IntegrationResponses: Any(apigateway.Method_IntegrationResponse{
				StatusCode: "204",
				ResponseParameters: map[string]any{
					header("Access-Control-Allow-Headers"): "'Content-Type,Authorization'",
					header("Access-Control-Allow-Origin"):  "'" + p.AllowedOrigin + "'",
					header("Access-Control-Allow-Methods"): "'GET'",
					header("Access-Control-Max-Age"):       "'3600'",
					header("Vary"):                         "'Origin'",
				},
			}),
		},
		MethodResponses: Any(apigateway.Method_MethodResponse{
			StatusCode: "204",
			ResponseParameters: map[string]any{
				header("Access-Control-Allow-Headers"): true,
				header("Access-Control-Allow-Origin"):  true,
				header("Access-Control-Allow-Methods"): true,
				header("Access-Control-Max-Age"):       true,
				header("Vary"):                         true,
			},
		}),
	}
}

// ----------------------------------------------------------------------------
// Deployment and Stage
// ----------------------------------------------------------------------------

var apiDeployment = apigateway.Deployment{
	RestApiId:   Ref{LogicalName: Api},
	Description: "hello API deployment",
}

func prodStage(p Props) apigateway.Stage {
	return apigateway.Stage{
		RestApiId:           Ref{LogicalName: Api},
		DeploymentId:        Ref{LogicalName: ApiDeployment},
		StageName:           StageName,
		CacheClusterEnabled: true,
		CacheClusterSize:    "0.5",
		MethodSettings: Any(apigateway.Stage_MethodSetting{
			ResourcePath:      "/*",
			HttpMethod:        "*",
			LoggingLevel:      "ERROR",
			DataTraceEnabled:  false,
			MetricsEnabled:    true,
			CachingEnabled:    true,
			CacheTtlInSeconds: 300,
		}),
		Tags: tags(p),
	}
}

// apiCloudWatchRole lets API Gateway write execution logs in this region.
var apiCloudWatchRole = iam.Role{
	Description: "Role API Gateway uses to push execution logs",
	AssumeRolePolicyDocument: NewPolicyDocument(PolicyStatement{
		Effect:    "Allow",
		Principal: ServicePrincipal{"apigateway.amazonaws.com"},
		Action:    "sts:AssumeRole",
	}),
	ManagedPolicyArns: Any(ManagedPolicyArn("service-role/AmazonAPIGatewayPushToCloudWatchLogs")),
}

var apiAccount = apigateway.Account{
	CloudWatchRoleArn: GetAtt{LogicalName: ApiCloudWatchRole, Attribute: "Arn"},
}

// apiPermission lets the prod stage invoke the function for GET /hello.
var apiPermission = lambda.Permission{
	Action:       "lambda:InvokeFunction",
	FunctionName: GetAtt{LogicalName: Function, Attribute: "Arn"},
	Principal:    "apigateway.amazonaws.com",
	SourceArn:    Sub{String: "arn:${AWS::Partition}:execute-api:${AWS::Region}:${AWS::AccountId}:${" + Api + "}/*/GET/hello"},
}

func addAPI(s *stack.Stack, p Props) error {
	return errors.Join(
		s.Add(Api, restAPI(p)),
		s.Add(ApiHelloResource, helloResource),
		s.Add(ApiHelloGet, helloGet),
		s.Add(ApiHelloOptions, corsPreflight(p)),
		s.Add(ApiDeployment, apiDeployment, stack.DependsOn(ApiHelloGet, ApiHelloOptions)),
		s.Add(ApiCloudWatchRole, apiCloudWatchRole),
		s.Add(ApiAccount, apiAccount),
		s.Add(ApiStage, prodStage(p), stack.DependsOn(ApiAccount)),
		s.Add(FunctionApiPerm, apiPermission),
	)
}

func stringsAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
