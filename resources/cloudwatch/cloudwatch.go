// Package cloudwatch provides Amazon CloudWatch alarm and dashboard types.
package cloudwatch

// Alarm represents AWS::CloudWatch::Alarm.
type Alarm struct {
	ActionsEnabled     any   `json:"ActionsEnabled,omitempty"`
	AlarmActions       []any `json:"AlarmActions,omitempty"`
	AlarmDescription   any   `json:"AlarmDescription,omitempty"`
	AlarmName          any   `json:"AlarmName,omitempty"`
	ComparisonOperator any   `json:"ComparisonOperator,omitempty"`
	Dimensions         []any `json:"Dimensions,omitempty"`
	EvaluationPeriods  any   `json:"EvaluationPeriods,omitempty"`
	MetricName         any   `json:"MetricName,omitempty"`
	Namespace          any   `json:"Namespace,omitempty"`
	Period             any   `json:"Period,omitempty"`
	Statistic          any   `json:"Statistic,omitempty"`
	Threshold          any   `json:"Threshold,omitempty"`
	// TreatMissingData is one of breaching, notBreaching, ignore, missing.
	TreatMissingData any `json:"TreatMissingData,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Alarm) ResourceType() string {
	return "AWS::CloudWatch::Alarm"
}

// Alarm_Dimension narrows a metric to one resource.
type Alarm_Dimension struct {
	Name  any `json:"Name,omitempty"`
	Value any `json:"Value,omitempty"`
}

// Comparison operators.
const (
	GreaterThanOrEqualToThreshold = "GreaterThanOrEqualToThreshold"
	GreaterThanThreshold          = "GreaterThanThreshold"
	LessThanThreshold             = "LessThanThreshold"
)

// Dashboard represents AWS::CloudWatch::Dashboard.
// DashboardBody is a JSON string, usually built with Fn::Sub or Fn::Join so
// it can embed resource names.
type Dashboard struct {
	DashboardBody any `json:"DashboardBody,omitempty"`
	DashboardName any `json:"DashboardName,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Dashboard) ResourceType() string {
	return "AWS::CloudWatch::Dashboard"
}
