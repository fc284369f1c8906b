// Package iam provides AWS Identity and Access Management resource types.
package iam

// Role represents AWS::IAM::Role.
type Role struct {
	AssumeRolePolicyDocument any   `json:"AssumeRolePolicyDocument,omitempty"`
	Description              any   `json:"Description,omitempty"`
	ManagedPolicyArns        []any `json:"ManagedPolicyArns,omitempty"`
	Path                     any   `json:"Path,omitempty"`
	Policies                 []any `json:"Policies,omitempty"`
	RoleName                 any   `json:"RoleName,omitempty"`
	Tags                     []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Role) ResourceType() string {
	return "AWS::IAM::Role"
}

// Role_Policy is an inline policy embedded in a role.
type Role_Policy struct {
	PolicyDocument any `json:"PolicyDocument,omitempty"`
	PolicyName     any `json:"PolicyName,omitempty"`
}

// InstanceProfile represents AWS::IAM::InstanceProfile.
type InstanceProfile struct {
	InstanceProfileName any   `json:"InstanceProfileName,omitempty"`
	Path                any   `json:"Path,omitempty"`
	Roles               []any `json:"Roles,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r InstanceProfile) ResourceType() string {
	return "AWS::IAM::InstanceProfile"
}

// Policy represents AWS::IAM::Policy, an inline policy attached to roles.
type Policy struct {
	PolicyDocument any   `json:"PolicyDocument,omitempty"`
	PolicyName     any   `json:"PolicyName,omitempty"`
	Roles          []any `json:"Roles,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Policy) ResourceType() string {
	return "AWS::IAM::Policy"
}
