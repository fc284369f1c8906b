package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	awsstacks "github.com/balaaddepalli/awsstacks"
	"github.com/balaaddepalli/awsstacks/infra/app"
	"github.com/balaaddepalli/awsstacks/internal/appconfig"
	"github.com/balaaddepalli/awsstacks/internal/template"
)

func single(name, typ string, props map[string]any) *awsstacks.Template {
	return &awsstacks.Template{
		Resources: map[string]awsstacks.ResourceDef{
			name: {Type: typ, Properties: props},
		},
	}
}

func ruleIDs(issues []Issue) []string {
	var ids []string
	for _, issue := range issues {
		ids = append(ids, issue.Rule)
	}
	return ids
}

func TestRules(t *testing.T) {
	tests := []struct {
		name     string
		rule     Rule
		template *awsstacks.Template
		issues   int
	}{
		{"AWS001 open ssh", OpenSSHIngress{}, single("Sg", "AWS::EC2::SecurityGroup", map[string]any{
			"SecurityGroupIngress": []any{map[string]any{"IpProtocol": "tcp", "FromPort": float64(22), "ToPort": float64(22), "CidrIp": "0.0.0.0/0"}},
		}), 1},
		{"AWS001 all traffic", OpenSSHIngress{}, single("Sg", "AWS::EC2::SecurityGroup", map[string]any{
			"SecurityGroupIngress": []any{map[string]any{"IpProtocol": "-1", "CidrIpv6": "::/0"}},
		}), 1},
		{"AWS001 port range", OpenSSHIngress{}, single("Ingress", "AWS::EC2::SecurityGroupIngress", map[string]any{
			"IpProtocol": "tcp", "FromPort": 0, "ToPort": 1024, "CidrIp": "0.0.0.0/0",
		}), 1},
		{"AWS001 https only", OpenSSHIngress{}, single("Sg", "AWS::EC2::SecurityGroup", map[string]any{
			"SecurityGroupIngress": []any{map[string]any{"IpProtocol": "tcp", "FromPort": float64(443), "ToPort": float64(443), "CidrIp": "0.0.0.0/0"}},
		}), 0},
		{"AWS001 private cidr", OpenSSHIngress{}, single("Sg", "AWS::EC2::SecurityGroup", map[string]any{
			"SecurityGroupIngress": []any{map[string]any{"IpProtocol": "tcp", "FromPort": float64(22), "ToPort": float64(22), "CidrIp": "10.0.0.0/8"}},
		}), 0},

		{"AWS002 unencrypted device", UnencryptedEBS{}, single("Instance", "AWS::EC2::Instance", map[string]any{
			"BlockDeviceMappings": []any{map[string]any{"DeviceName": "/dev/xvda", "Ebs": map[string]any{"VolumeSize": float64(20)}}},
		}), 1},
		{"AWS002 encrypted device", UnencryptedEBS{}, single("Instance", "AWS::EC2::Instance", map[string]any{
			"BlockDeviceMappings": []any{map[string]any{"DeviceName": "/dev/xvda", "Ebs": map[string]any{"Encrypted": true}}},
		}), 0},
		{"AWS002 volume", UnencryptedEBS{}, single("Volume", "AWS::EC2::Volume", map[string]any{"Size": float64(8)}), 1},

		{"AWS003 wildcard inline policy", WildcardIAMAction{}, single("Role", "AWS::IAM::Role", map[string]any{
			"Policies": []any{map[string]any{"PolicyDocument": map[string]any{
				"Statement": []any{map[string]any{"Effect": "Allow", "Action": "*", "Resource": "*"}},
			}}},
		}), 1},
		{"AWS003 wildcard managed policy", WildcardIAMAction{}, single("Policy", "AWS::IAM::ManagedPolicy", map[string]any{
			"PolicyDocument": map[string]any{"Statement": map[string]any{"Effect": "Allow", "Action": []any{"s3:GetObject", "*"}}},
		}), 1},
		{"AWS003 deny wildcard", WildcardIAMAction{}, single("Policy", "AWS::IAM::Policy", map[string]any{
			"PolicyDocument": map[string]any{"Statement": []any{map[string]any{"Effect": "Deny", "Action": "*"}}},
		}), 0},
		{"AWS003 service wildcard", WildcardIAMAction{}, single("Policy", "AWS::IAM::Policy", map[string]any{
			"PolicyDocument": map[string]any{"Statement": []any{map[string]any{"Effect": "Allow", "Action": "s3:*"}}},
		}), 0},

		{"AWS004 no concurrency", LambdaReservedConcurrency{}, single("Fn", "AWS::Lambda::Function", map[string]any{}), 1},
		{"AWS004 concurrency", LambdaReservedConcurrency{}, single("Fn", "AWS::Lambda::Function", map[string]any{
			"ReservedConcurrentExecutions": float64(10),
		}), 0},
		{"AWS004 zero concurrency", LambdaReservedConcurrency{}, single("Fn", "AWS::Lambda::Function", map[string]any{
			"ReservedConcurrentExecutions": float64(0),
		}), 0},

		{"AWS005 passthrough", LambdaTracing{}, single("Fn", "AWS::Lambda::Function", map[string]any{
			"TracingConfig": map[string]any{"Mode": "PassThrough"},
		}), 1},
		{"AWS005 active", LambdaTracing{}, single("Fn", "AWS::Lambda::Function", map[string]any{
			"TracingConfig": map[string]any{"Mode": "Active"},
		}), 0},

		{"AWS006 missing", AlarmMissingData{}, single("Alarm", "AWS::CloudWatch::Alarm", map[string]any{"Threshold": float64(1)}), 1},
		{"AWS006 set", AlarmMissingData{}, single("Alarm", "AWS::CloudWatch::Alarm", map[string]any{"TreatMissingData": "breaching"}), 0},

		{"AWS007 missing", BucketPublicAccess{}, single("Bucket", "AWS::S3::Bucket", map[string]any{}), 1},
		{"AWS007 partial", BucketPublicAccess{}, single("Bucket", "AWS::S3::Bucket", map[string]any{
			"PublicAccessBlockConfiguration": map[string]any{"BlockPublicAcls": true, "BlockPublicPolicy": true},
		}), 1},
		{"AWS007 complete", BucketPublicAccess{}, single("Bucket", "AWS::S3::Bucket", map[string]any{
			"PublicAccessBlockConfiguration": map[string]any{
				"BlockPublicAcls": true, "BlockPublicPolicy": true, "IgnorePublicAcls": true, "RestrictPublicBuckets": true,
			},
		}), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := tt.rule.Check(tt.template)
			require.Len(t, issues, tt.issues)
			for _, issue := range issues {
				assert.Equal(t, tt.rule.ID(), issue.Rule)
				assert.NotEmpty(t, issue.File)
				assert.Contains(t, issue.Message, issue.File+": ")
			}
		})
	}
}

func TestRuleSeverities(t *testing.T) {
	want := map[string]Severity{
		"AWS001": SeverityWarning,
		"AWS002": SeverityError,
		"AWS003": SeverityError,
		"AWS004": SeverityInfo,
		"AWS005": SeverityInfo,
		"AWS006": SeverityInfo,
		"AWS007": SeverityWarning,
	}

	bad := &awsstacks.Template{Resources: map[string]awsstacks.ResourceDef{
		"Sg": {Type: "AWS::EC2::SecurityGroup", Properties: map[string]any{
			"SecurityGroupIngress": []any{map[string]any{"IpProtocol": "tcp", "FromPort": 22, "ToPort": 22, "CidrIp": "0.0.0.0/0"}},
		}},
		"Volume": {Type: "AWS::EC2::Volume"},
		"Role": {Type: "AWS::IAM::Role", Properties: map[string]any{
			"Policies": []any{map[string]any{"PolicyDocument": map[string]any{
				"Statement": []any{map[string]any{"Effect": "Allow", "Action": "*"}},
			}}},
		}},
		"Fn":     {Type: "AWS::Lambda::Function"},
		"Alarm":  {Type: "AWS::CloudWatch::Alarm"},
		"Bucket": {Type: "AWS::S3::Bucket"},
	}}

	result := LintTemplate(bad, Options{})
	require.False(t, result.Success)
	require.Len(t, result.Issues, len(want))
	for _, issue := range result.Issues {
		assert.Equal(t, want[issue.Rule], issue.Severity, issue.Rule)
	}
}

func TestLintTemplate_Options(t *testing.T) {
	tmpl := &awsstacks.Template{Resources: map[string]awsstacks.ResourceDef{
		"Fn":     {Type: "AWS::Lambda::Function"},
		"Bucket": {Type: "AWS::S3::Bucket"},
	}}

	all := LintTemplate(tmpl, Options{})
	assert.Equal(t, []string{"AWS007", "AWS004", "AWS005"}, ruleIDs(all.Issues))

	enabled := LintTemplate(tmpl, Options{EnabledRules: []string{"AWS004"}})
	assert.Equal(t, []string{"AWS004"}, ruleIDs(enabled.Issues))

	disabled := LintTemplate(tmpl, Options{DisabledRules: []string{"AWS004", "AWS007"}})
	assert.Equal(t, []string{"AWS005"}, ruleIDs(disabled.Issues))
}

func TestResult_Fails(t *testing.T) {
	result := Result{Issues: []Issue{
		{Rule: "AWS004", Severity: SeverityInfo},
		{Rule: "AWS001", Severity: SeverityWarning},
	}}

	assert.True(t, result.Fails(SeverityInfo))
	assert.True(t, result.Fails(SeverityWarning))
	assert.False(t, result.Fails(SeverityError))
	assert.False(t, Result{Success: true}.Fails(SeverityInfo))
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in      string
		want    Severity
		wantErr bool
	}{
		{"error", SeverityError, false},
		{"WARNING", SeverityWarning, false},
		{"warn", SeverityWarning, false},
		{"info", SeverityInfo, false},
		{"fatal", SeverityInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSeverity(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAppStacks(t *testing.T) {
	stacks, err := app.New(appconfig.Default())
	require.NoError(t, err)

	want := map[string][]string{
		"TypeScriptLambdaPipeline": nil,
		"TypeScriptEC2Pipeline":    nil,
		"TypeScriptLambdaStack":    nil,
		// SSH stays open for the demo instance.
		"TypeScriptEC2Stack": {"AWS001"},
	}

	for _, s := range stacks {
		t.Run(s.Name, func(t *testing.T) {
			tmpl, err := template.Synthesize(s)
			require.NoError(t, err)

			result := LintTemplate(tmpl, Options{})
			assert.Equal(t, want[s.Name], ruleIDs(result.Issues))
			assert.False(t, result.Fails(SeverityError))
		})
	}
}
