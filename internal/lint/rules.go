package lint

import (
	"sort"

	awsstacks "github.com/balaaddepalli/awsstacks"
)

// resourcesOfType returns the names of resources of the given types, sorted.
func resourcesOfType(t *awsstacks.Template, types ...string) []string {
	want := make(map[string]bool, len(types))
	for _, typ := range types {
		want[typ] = true
	}
	var names []string
	for name, res := range t.Resources {
		if want[res.Type] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func newIssue(r Rule, resource string, severity Severity, message, suggestion string) Issue {
	return Issue{
		Rule:       r.ID(),
		Message:    resource + ": " + message,
		Suggestion: suggestion,
		File:       resource,
		Severity:   severity,
	}
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// asList accepts a list or a single element.
func asList(v any) []any {
	switch l := v.(type) {
	case []any:
		return l
	case nil:
		return nil
	default:
		return []any{l}
	}
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func isTrue(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b == "true"
	}
	return false
}

// ----------------------------------------------------------------------------
// AWS001
// ----------------------------------------------------------------------------

// OpenSSHIngress detects security group ingress that opens port 22 to any
// address.
type OpenSSHIngress struct{}

func (r OpenSSHIngress) ID() string { return "AWS001" }
func (r OpenSSHIngress) Description() string {
	return "Security group ingress open to the world on SSH (22)"
}

func (r OpenSSHIngress) Check(t *awsstacks.Template) []Issue {
	var issues []Issue
	for _, name := range resourcesOfType(t, "AWS::EC2::SecurityGroup", "AWS::EC2::SecurityGroupIngress") {
		res := t.Resources[name]
		rules := asList(res.Properties["SecurityGroupIngress"])
		if res.Type == "AWS::EC2::SecurityGroupIngress" {
			rules = []any{res.Properties}
		}
		for _, rule := range rules {
			if opensSSH(asMap(rule)) {
				issues = append(issues, newIssue(r, name, SeverityWarning,
					"SSH (22) is reachable from any address",
					"restrict CidrIp to a known range or use SSM Session Manager"))
				break
			}
		}
	}
	return issues
}

func opensSSH(rule map[string]any) bool {
	if rule == nil {
		return false
	}
	if rule["CidrIp"] != "0.0.0.0/0" && rule["CidrIpv6"] != "::/0" {
		return false
	}
	switch rule["IpProtocol"] {
	case "-1", float64(-1), -1:
		return true
	case "tcp", "6", float64(6), 6:
	default:
		return false
	}
	from, okFrom := asNumber(rule["FromPort"])
	to, okTo := asNumber(rule["ToPort"])
	if !okFrom || !okTo {
		return false
	}
	return from <= 22 && 22 <= to
}

// ----------------------------------------------------------------------------
// AWS002
// ----------------------------------------------------------------------------

// UnencryptedEBS detects EBS volumes and instance block devices without
// encryption.
type UnencryptedEBS struct{}

func (r UnencryptedEBS) ID() string          { return "AWS002" }
func (r UnencryptedEBS) Description() string { return "Unencrypted EBS block device" }

func (r UnencryptedEBS) Check(t *awsstacks.Template) []Issue {
	var issues []Issue
	for _, name := range resourcesOfType(t, "AWS::EC2::Instance", "AWS::EC2::Volume") {
		res := t.Resources[name]

		if res.Type == "AWS::EC2::Volume" {
			if !isTrue(res.Properties["Encrypted"]) {
				issues = append(issues, newIssue(r, name, SeverityError,
					"volume is not encrypted", "set Encrypted: true"))
			}
			continue
		}

		for _, mapping := range asList(res.Properties["BlockDeviceMappings"]) {
			m := asMap(mapping)
			ebs := asMap(m["Ebs"])
			if ebs == nil || isTrue(ebs["Encrypted"]) {
				continue
			}
			device, _ := m["DeviceName"].(string)
			issues = append(issues, newIssue(r, name, SeverityError,
				"block device "+device+" is not encrypted", "set Ebs.Encrypted: true"))
		}
	}
	return issues
}

// ----------------------------------------------------------------------------
// AWS003
// ----------------------------------------------------------------------------

// WildcardIAMAction detects Allow statements granting every action.
type WildcardIAMAction struct{}

func (r WildcardIAMAction) ID() string          { return "AWS003" }
func (r WildcardIAMAction) Description() string { return `IAM statement with Action: "*"` }

func (r WildcardIAMAction) Check(t *awsstacks.Template) []Issue {
	var issues []Issue
	for _, name := range resourcesOfType(t, "AWS::IAM::Role", "AWS::IAM::Policy", "AWS::IAM::ManagedPolicy", "AWS::IAM::User", "AWS::IAM::Group") {
		props := t.Resources[name].Properties

		docs := []any{props["PolicyDocument"]}
		for _, p := range asList(props["Policies"]) {
			docs = append(docs, asMap(p)["PolicyDocument"])
		}

		for _, doc := range docs {
			if hasWildcardAction(asMap(doc)) {
				issues = append(issues, newIssue(r, name, SeverityError,
					`policy allows Action "*"`, "list the actions the principal needs"))
				break
			}
		}
	}
	return issues
}

func hasWildcardAction(doc map[string]any) bool {
	for _, st := range asList(doc["Statement"]) {
		statement := asMap(st)
		if statement["Effect"] != "Allow" {
			continue
		}
		for _, action := range asList(statement["Action"]) {
			if action == "*" {
				return true
			}
		}
	}
	return false
}

// ----------------------------------------------------------------------------
// AWS004, AWS005
// ----------------------------------------------------------------------------

// LambdaReservedConcurrency reports functions without a concurrency cap.
type LambdaReservedConcurrency struct{}

func (r LambdaReservedConcurrency) ID() string { return "AWS004" }
func (r LambdaReservedConcurrency) Description() string {
	return "Lambda function without reserved concurrency"
}

func (r LambdaReservedConcurrency) Check(t *awsstacks.Template) []Issue {
	var issues []Issue
	for _, name := range resourcesOfType(t, "AWS::Lambda::Function") {
		if _, ok := t.Resources[name].Properties["ReservedConcurrentExecutions"]; !ok {
			issues = append(issues, newIssue(r, name, SeverityInfo,
				"no reserved concurrency", "set ReservedConcurrentExecutions"))
		}
	}
	return issues
}

// LambdaTracing reports functions without active X-Ray tracing.
type LambdaTracing struct{}

func (r LambdaTracing) ID() string          { return "AWS005" }
func (r LambdaTracing) Description() string { return "Lambda function without tracing" }

func (r LambdaTracing) Check(t *awsstacks.Template) []Issue {
	var issues []Issue
	for _, name := range resourcesOfType(t, "AWS::Lambda::Function") {
		tracing := asMap(t.Resources[name].Properties["TracingConfig"])
		if tracing["Mode"] != "Active" {
			issues = append(issues, newIssue(r, name, SeverityInfo,
				"tracing is not active", "set TracingConfig.Mode: Active"))
		}
	}
	return issues
}

// ----------------------------------------------------------------------------
// AWS006
// ----------------------------------------------------------------------------

// AlarmMissingData reports alarms that leave TreatMissingData unset.
type AlarmMissingData struct{}

func (r AlarmMissingData) ID() string          { return "AWS006" }
func (r AlarmMissingData) Description() string { return "Alarm without TreatMissingData" }

func (r AlarmMissingData) Check(t *awsstacks.Template) []Issue {
	var issues []Issue
	for _, name := range resourcesOfType(t, "AWS::CloudWatch::Alarm") {
		if _, ok := t.Resources[name].Properties["TreatMissingData"]; !ok {
			issues = append(issues, newIssue(r, name, SeverityInfo,
				"TreatMissingData is not set", "set TreatMissingData: notBreaching or breaching"))
		}
	}
	return issues
}

// ----------------------------------------------------------------------------
// AWS007
// ----------------------------------------------------------------------------

// BucketPublicAccess reports buckets without a complete public access block.
type BucketPublicAccess struct{}

func (r BucketPublicAccess) ID() string { return "AWS007" }
func (r BucketPublicAccess) Description() string {
	return "S3 bucket without public access block"
}

var publicAccessFlags = []string{"BlockPublicAcls", "BlockPublicPolicy", "IgnorePublicAcls", "RestrictPublicBuckets"}

func (r BucketPublicAccess) Check(t *awsstacks.Template) []Issue {
	var issues []Issue
	for _, name := range resourcesOfType(t, "AWS::S3::Bucket") {
		block := asMap(t.Resources[name].Properties["PublicAccessBlockConfiguration"])
		if block == nil {
			issues = append(issues, newIssue(r, name, SeverityWarning,
				"no public access block", "set PublicAccessBlockConfiguration with all four flags"))
			continue
		}
		for _, flag := range publicAccessFlags {
			if !isTrue(block[flag]) {
				issues = append(issues, newIssue(r, name, SeverityWarning,
					flag+" is not enabled", "set "+flag+": true"))
				break
			}
		}
	}
	return issues
}
