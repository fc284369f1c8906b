// Package logs provides CloudWatch Logs resource types.
package logs

// LogGroup represents AWS::Logs::LogGroup.
type LogGroup struct {
	KmsKeyId        any   `json:"KmsKeyId,omitempty"`
	LogGroupName    any   `json:"LogGroupName,omitempty"`
	RetentionInDays any   `json:"RetentionInDays,omitempty"`
	Tags            []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r LogGroup) ResourceType() string {
	return "AWS::Logs::LogGroup"
}
