package intrinsics

import (
	"encoding/json"
)

// PolicyVersion is the current IAM policy language version.
const PolicyVersion = "2012-10-17"

// PolicyDocument represents an IAM policy document.
//
//	var LambdaAssumeRolePolicy = PolicyDocument{
//	    Version:   PolicyVersion,
//	    Statement: Any(LambdaAssumeRoleStatement),
//	}
type PolicyDocument struct {
	Version   string `json:"Version,omitempty"`
	Statement []any  `json:"Statement"`
}

// NewPolicyDocument creates a PolicyDocument with the default version.
func NewPolicyDocument(statements ...any) PolicyDocument {
	return PolicyDocument{Version: PolicyVersion, Statement: statements}
}

// PolicyStatement represents an IAM policy statement.
type PolicyStatement struct {
	Sid       string `json:"Sid,omitempty"`
	Effect    string `json:"Effect"`
	Principal any    `json:"Principal,omitempty"`
	Action    any    `json:"Action,omitempty"`
	Resource  any    `json:"Resource,omitempty"`
	Condition Json   `json:"Condition,omitempty"`
}

// Allow returns a statement allowing actions on resources.
func Allow(actions []any, resources ...any) PolicyStatement {
	return PolicyStatement{Effect: "Allow", Action: actions, Resource: oneOrMany(resources)}
}

// Deny returns a statement denying actions on resources.
func Deny(actions []any, resources ...any) PolicyStatement {
	return PolicyStatement{Effect: "Deny", Action: actions, Resource: oneOrMany(resources)}
}

func oneOrMany(items []any) any {
	switch len(items) {
	case 0:
		return nil
	case 1:
		return items[0]
	default:
		return items
	}
}

// ServicePrincipal represents a service principal (e.g., lambda.amazonaws.com).
// Serializes to {"Service": ...} format.
type ServicePrincipal []any

// MarshalJSON serializes to {"Service": ...} format.
func (p ServicePrincipal) MarshalJSON() ([]byte, error) {
	if len(p) == 1 {
		return json.Marshal(map[string]any{"Service": p[0]})
	}
	return json.Marshal(map[string]any{"Service": []any(p)})
}

// AWSPrincipal represents an AWS account/role/user principal.
// Serializes to {"AWS": ...} format.
type AWSPrincipal []any

// MarshalJSON serializes to {"AWS": ...} format.
func (p AWSPrincipal) MarshalJSON() ([]byte, error) {
	if len(p) == 1 {
		return json.Marshal(map[string]any{"AWS": p[0]})
	}
	return json.Marshal(map[string]any{"AWS": []any(p)})
}

// AnyPrincipal represents the wildcard principal {"AWS": "*"}.
var AnyPrincipal = AWSPrincipal{"*"}

// IAM condition operators used by the stacks.
const (
	StringEquals    = "StringEquals"
	StringNotEquals = "StringNotEquals"
	StringLike      = "StringLike"
	IpAddress       = "IpAddress"
	NotIpAddress    = "NotIpAddress"
	Bool            = "Bool"
)
