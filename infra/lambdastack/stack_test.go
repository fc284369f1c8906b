package lambdastack

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	awsstacks "github.com/balaaddepalli/awsstacks"
	"github.com/balaaddepalli/awsstacks/internal/template"
)

func testProps() Props {
	return Props{
		Env:           awsstacks.Env{Account: "685385421611", Region: "eu-central-1"},
		Environment:   "SANDBOX",
		AssetBucket:   "cdk-hnb659fds-assets-685385421611-eu-central-1",
		CodeKey:       "abc123.zip",
		AllowedOrigin: "https://*.yourdomain.com",
		SourceIPs:     []string{"0.0.0.0/0"},
	}
}

func synth(t *testing.T, p Props) *awsstacks.Template {
	t.Helper()
	s, err := New(p)
	require.NoError(t, err)
	tmpl, err := template.Synthesize(s)
	require.NoError(t, err)
	return tmpl
}

func props(t *testing.T, tmpl *awsstacks.Template, name string) map[string]any {
	t.Helper()
	r, ok := tmpl.Resources[name]
	require.True(t, ok, "resource %s", name)
	return r.Properties
}

func TestNew_ResourceTypes(t *testing.T) {
	tmpl := synth(t, testProps())

	expected := map[string]string{
		FunctionRole:              "AWS::IAM::Role",
		Function:                  "AWS::Lambda::Function",
		FunctionLogGroup:          "AWS::Logs::LogGroup",
		FunctionInvokeCfg:         "AWS::Lambda::EventInvokeConfig",
		FunctionApiPerm:           "AWS::Lambda::Permission",
		Api:                       "AWS::ApiGateway::RestApi",
		ApiHelloResource:          "AWS::ApiGateway::Resource",
		ApiHelloGet:               "AWS::ApiGateway::Method",
		ApiHelloOptions:           "AWS::ApiGateway::Method",
		ApiDeployment:             "AWS::ApiGateway::Deployment",
		ApiStage:                  "AWS::ApiGateway::Stage",
		ApiCloudWatchRole:         "AWS::IAM::Role",
		ApiAccount:                "AWS::ApiGateway::Account",
		SecurityDashboard:         "AWS::CloudWatch::Dashboard",
		OperationsDashboard:       "AWS::CloudWatch::Dashboard",
		"SecurityErrorsAlarm":     "AWS::CloudWatch::Alarm",
		"ApiSecurityEventsAlarm":  "AWS::CloudWatch::Alarm",
		"PerformanceAnomalyAlarm": "AWS::CloudWatch::Alarm",
		"ThrottleEventsAlarm":     "AWS::CloudWatch::Alarm",
	}

	assert.Len(t, tmpl.Resources, len(expected))
	for name, typ := range expected {
		assert.Equal(t, typ, tmpl.Resources[name].Type, name)
	}
}

func TestNew_Function(t *testing.T) {
	fn := props(t, synth(t, testProps()), Function)

	assert.Equal(t, "provided.al2023", fn["Runtime"])
	assert.Equal(t, "bootstrap", fn["Handler"])
	assert.Equal(t, []any{"arm64"}, fn["Architectures"])
	assert.Equal(t, float64(256), fn["MemorySize"])
	assert.Equal(t, float64(10), fn["Timeout"])
	assert.Equal(t, float64(10), fn["ReservedConcurrentExecutions"])
	assert.Equal(t, map[string]any{"Mode": "Active"}, fn["TracingConfig"])
	assert.Equal(t, map[string]any{
		"S3Bucket": "cdk-hnb659fds-assets-685385421611-eu-central-1",
		"S3Key":    map[string]any{"Ref": CodeKeyParameter},
	}, fn["Code"])
	assert.Equal(t, map[string]any{"Variables": map[string]any{
		"LOG_LEVEL":    "info",
		"SERVICE_NAME": "hello-lambda",
	}}, fn["Environment"])
	assert.Equal(t, []any{map[string]any{"Key": "ENVIRONMENT", "Value": "SANDBOX"}}, fn["Tags"])
}

func TestNew_FunctionSupport(t *testing.T) {
	tmpl := synth(t, testProps())

	invoke := props(t, tmpl, FunctionInvokeCfg)
	assert.Equal(t, float64(0), invoke["MaximumRetryAttempts"])

	logGroup := props(t, tmpl, FunctionLogGroup)
	assert.Equal(t, float64(7), logGroup["RetentionInDays"])
	assert.Equal(t, map[string]any{"Fn::Sub": "/aws/lambda/${AWS::StackName}-HelloFunction"}, logGroup["LogGroupName"])

	role := props(t, tmpl, FunctionRole)
	require.Len(t, role["ManagedPolicyArns"], 2)

	require.Contains(t, tmpl.Parameters, CodeKeyParameter)
	assert.Equal(t, "abc123.zip", tmpl.Parameters[CodeKeyParameter].Default)
}

func TestNew_CodeKeyWithoutDefault(t *testing.T) {
	p := testProps()
	p.CodeKey = ""
	tmpl := synth(t, p)
	assert.Nil(t, tmpl.Parameters[CodeKeyParameter].Default)
}

func TestNew_RestAPI(t *testing.T) {
	tmpl := synth(t, testProps())

	api := props(t, tmpl, Api)
	assert.Equal(t, "LambdaApi", api["Name"])
	assert.Equal(t, []any{"image/*", "application/pdf"}, api["BinaryMediaTypes"])

	policy := api["Policy"].(map[string]any)
	statements := policy["Statement"].([]any)
	require.Len(t, statements, 2)

	allow := statements[0].(map[string]any)
	assert.Equal(t, "Allow", allow["Effect"])
	assert.Equal(t, []any{"execute-api:Invoke"}, allow["Action"])
	assert.Equal(t, map[string]any{"IpAddress": map[string]any{"aws:SourceIp": []any{"0.0.0.0/0"}}}, allow["Condition"])

	deny := statements[1].(map[string]any)
	assert.Equal(t, "Deny", deny["Effect"])
	assert.Equal(t, map[string]any{
		"StringNotEquals": map[string]any{"aws:RequestedRegion": map[string]any{"Ref": "AWS::Region"}},
	}, deny["Condition"])

	get := props(t, tmpl, ApiHelloGet)
	assert.Equal(t, "GET", get["HttpMethod"])
	integration := get["Integration"].(map[string]any)
	assert.Equal(t, "AWS_PROXY", integration["Type"])
	assert.Equal(t, map[string]any{"application/json": `{ "statusCode": "200" }`}, integration["RequestTemplates"])
}

func TestNew_CORS(t *testing.T) {
	options := props(t, synth(t, testProps()), ApiHelloOptions)
	assert.Equal(t, "OPTIONS", options["HttpMethod"])

	integration := options["Integration"].(map[string]any)
	assert.Equal(t, "MOCK", integration["Type"])

	response := integration["IntegrationResponses"].([]any)[0].(map[string]any)
	params := response["ResponseParameters"].(map[string]any)
	assert.Equal(t, "'https://*.yourdomain.com'", params["method.response.header.Access-Control-Allow-Origin"])
	assert.Equal(t, "'GET'", params["method.response.header.Access-Control-Allow-Methods"])
	assert.Equal(t, "'Content-Type,Authorization'", params["method.response.header.Access-Control-Allow-Headers"])
	assert.Equal(t, "'3600'", params["method.response.header.Access-Control-Max-Age"])
}

func TestNew_Stage(t *testing.T) {
	tmpl := synth(t, testProps())

	stage := props(t, tmpl, ApiStage)
	assert.Equal(t, "prod", stage["StageName"])
	assert.Equal(t, true, stage["CacheClusterEnabled"])
	assert.Equal(t, "0.5", stage["CacheClusterSize"])
	assert.Equal(t, []any{map[string]any{
		"ResourcePath":      "/*",
		"HttpMethod":        "*",
		"LoggingLevel":      "ERROR",
		"DataTraceEnabled":  false,
		"MetricsEnabled":    true,
		"CachingEnabled":    true,
		"CacheTtlInSeconds": float64(300),
	}}, stage["MethodSettings"])

	assert.Equal(t, []string{ApiHelloGet, ApiHelloOptions}, tmpl.Resources[ApiDeployment].DependsOn)
	assert.Equal(t, []string{ApiAccount}, tmpl.Resources[ApiStage].DependsOn)
}

func TestNew_Alarms(t *testing.T) {
	tests := []struct {
		logical     string
		name        string
		metric      string
		threshold   float64
		evaluations float64
	}{
		{"SecurityErrorsAlarm", "TypeScriptLambda-SecurityErrors", "Errors", 5, 2},
		{"ApiSecurityEventsAlarm", "TypeScriptLambda-ApiSecurityEvents", "4XXError", 10, 2},
		{"PerformanceAnomalyAlarm", "TypeScriptLambda-PerformanceAnomaly", "Duration", 5000, 2},
		{"ThrottleEventsAlarm", "TypeScriptLambda-ThrottleEvents", "Throttles", 1, 1},
	}

	tmpl := synth(t, testProps())
	for _, tt := range tests {
		t.Run(tt.logical, func(t *testing.T) {
			alarm := props(t, tmpl, tt.logical)
			assert.Equal(t, tt.name, alarm["AlarmName"])
			assert.Equal(t, tt.metric, alarm["MetricName"])
			assert.Equal(t, tt.threshold, alarm["Threshold"])
			assert.Equal(t, tt.evaluations, alarm["EvaluationPeriods"])
			assert.Equal(t, "GreaterThanOrEqualToThreshold", alarm["ComparisonOperator"])
			assert.Equal(t, "notBreaching", alarm["TreatMissingData"])
		})
	}
}

func TestNew_Dashboards(t *testing.T) {
	tmpl := synth(t, testProps())

	tests := []struct {
		logical string
		name    string
		widgets int
		text    string
	}{
		{SecurityDashboard, "TypeScriptLambda-Security", 8, "Security Dashboard"},
		{OperationsDashboard, "TypeScriptLambda-Operations", 9, "Operations Dashboard"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := props(t, tmpl, tt.logical)
			assert.Equal(t, tt.name, board["DashboardName"])

			body := board["DashboardBody"].(map[string]any)["Fn::Sub"].(string)
			assert.Contains(t, body, "${HelloFunction}")

			var parsed struct {
				Widgets []map[string]any `json:"widgets"`
			}
			require.NoError(t, json.Unmarshal([]byte(body), &parsed))
			assert.Len(t, parsed.Widgets, tt.widgets)
			assert.Contains(t, parsed.Widgets[0]["properties"].(map[string]any)["markdown"], tt.text)
		})
	}
}

func TestNew_DashboardsDependOnFunction(t *testing.T) {
	s, err := New(testProps())
	require.NoError(t, err)

	b := template.NewBuilder(s)
	_, err = b.Build()
	require.NoError(t, err)
	assert.Contains(t, b.Dependencies()[SecurityDashboard], Function)
}

func TestNew_Outputs(t *testing.T) {
	tmpl := synth(t, testProps())

	require.Len(t, tmpl.Outputs, 4)
	assert.Equal(t, "Lambda API URL", tmpl.Outputs["ApiUrl"].Description)
	assert.Equal(t, map[string]any{
		"Fn::Sub": "https://${LambdaApi}.execute-api.${AWS::Region}.${AWS::URLSuffix}/${LambdaApiProdStage}/hello",
	}, tmpl.Outputs["ApiUrl"].Value)
	assert.Contains(t, tmpl.Outputs["SecurityAlarmsUrl"].Value.(map[string]any)["Fn::Sub"], "#alarmsV2:")
}
