// Package intrinsics provides CloudFormation intrinsic functions for stack
// declarations.
//
// The core intrinsic types are re-exported from cloudformation-schema-go so
// stack packages can dot-import a single package:
//
//	Ref{"HelloFunction"}                  → {"Ref": "HelloFunction"}
//	GetAtt{"HelloFunctionRole", "Arn"}    → {"Fn::GetAtt": ["HelloFunctionRole", "Arn"]}
//	Sub{String: "${AWS::StackName}-api"}  → {"Fn::Sub": "${AWS::StackName}-api"}
//
// This package adds IAM policy document types and a few ARN helpers.
package intrinsics

import (
	"github.com/lex00/cloudformation-schema-go/intrinsics"
)

type (
	// Ref represents a CloudFormation Ref intrinsic function.
	Ref = intrinsics.Ref

	// GetAtt represents a CloudFormation Fn::GetAtt intrinsic function.
	GetAtt = intrinsics.GetAtt

	// Sub represents a CloudFormation Fn::Sub intrinsic function.
	Sub = intrinsics.Sub

	// SubWithMap is Fn::Sub with a variable map.
	SubWithMap = intrinsics.SubWithMap

	// Join represents a CloudFormation Fn::Join intrinsic function.
	Join = intrinsics.Join

	// Select represents a CloudFormation Fn::Select intrinsic function.
	Select = intrinsics.Select

	// GetAZs represents a CloudFormation Fn::GetAZs intrinsic function.
	GetAZs = intrinsics.GetAZs

	// Base64 represents a CloudFormation Fn::Base64 intrinsic function.
	Base64 = intrinsics.Base64

	// ImportValue represents a CloudFormation Fn::ImportValue intrinsic function.
	ImportValue = intrinsics.ImportValue

	// Equals represents a CloudFormation Fn::Equals condition function.
	Equals = intrinsics.Equals

	// If represents a CloudFormation Fn::If intrinsic function.
	If = intrinsics.If

	// Tag represents a CloudFormation resource tag.
	Tag = intrinsics.Tag
)

// Json is a shorthand for map[string]any.
// Used for inline JSON objects like Condition blocks and request templates.
type Json = map[string]any

// Any creates a []any slice from the given items.
//
//	SecurityGroupIds: Any(GetAtt{"InstanceSecurityGroup", "GroupId"}),
func Any(items ...any) []any {
	return items
}

// Tags builds a tag list from alternating key/value pairs.
//
//	Tags: Tags("ENVIRONMENT", "SANDBOX", "ManagedBy", "awsstacks")
//
// A trailing key without a value is dropped.
func Tags(pairs ...any) []any {
	tags := make([]any, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			continue
		}
		tags = append(tags, Tag{Key: key, Value: pairs[i+1]})
	}
	return tags
}

// ManagedPolicyArn returns the partition-aware ARN of an AWS managed policy.
//
//	ManagedPolicyArn("AmazonSSMManagedInstanceCore")
//	→ {"Fn::Sub": "arn:${AWS::Partition}:iam::aws:policy/AmazonSSMManagedInstanceCore"}
func ManagedPolicyArn(name string) Sub {
	return Sub{String: "arn:${AWS::Partition}:iam::aws:policy/" + name}
}

// RoleArn returns the ARN of a role in another account.
func RoleArn(account, roleName string) Sub {
	return Sub{String: "arn:${AWS::Partition}:iam::" + account + ":role/" + roleName}
}
