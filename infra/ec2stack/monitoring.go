package ec2stack

import (
	"errors"
	"fmt"

	. "github.com/balaaddepalli/awsstacks/intrinsics"
	"github.com/balaaddepalli/awsstacks/internal/dashboard"
	"github.com/balaaddepalli/awsstacks/internal/stack"
	"github.com/balaaddepalli/awsstacks/resources/cloudwatch"
)

const ec2Namespace = "AWS/EC2"

// DashboardName is the CloudWatch dashboard name.
const DashboardName = "TypeScriptEC2-Monitoring"

func instanceMetric(name, statistic, label string) dashboard.Metric {
	return dashboard.Metric{
		Namespace:  ec2Namespace,
		Name:       name,
		Dimensions: []dashboard.Dimension{{Name: "InstanceId", Value: "${" + InstanceName + "}"}},
		Statistic:  statistic,
		Label:      label,
	}
}

func instanceDashboard(region string) *dashboard.Dashboard {
	return dashboard.New(region).
		AddRow(
			dashboard.Text{
				Markdown: "# 🖥️ EC2 Instance Monitoring\n\n**Real-time monitoring for TypeScript EC2 instance**",
				Width:    24, Height: 2,
			},
			dashboard.Graph{
				Title: "Instance Metrics",
				Left:  []dashboard.Series{instanceMetric("CPUUtilization", "Average", "CPU Utilization (%)")},
				Width: 24, Height: 6,
			},
		).
		AddRow(
			dashboard.Graph{
				Title: "Network",
				Left: []dashboard.Series{
					instanceMetric("NetworkIn", "Sum", "Network In (bytes)"),
					instanceMetric("NetworkOut", "Sum", "Network Out (bytes)"),
				},
				Width: 8, Height: 6,
			},
			dashboard.Graph{
				Title: "Disk I/O",
				Left: []dashboard.Series{
					instanceMetric("EBSReadBytes", "Sum", "EBS Read (bytes)"),
					instanceMetric("EBSWriteBytes", "Sum", "EBS Write (bytes)"),
				},
				Width: 8, Height: 6,
			},
			dashboard.Graph{
				Title: "Status Checks",
				Left: []dashboard.Series{
					instanceMetric("StatusCheckFailed_Instance", "Maximum", "Instance Check Failed"),
					instanceMetric("StatusCheckFailed_System", "Maximum", "System Check Failed"),
				},
				Width: 8, Height: 6,
			},
		)
}

func alarm(name, description, metric, statistic string, threshold float64, evaluations int) cloudwatch.Alarm {
	return cloudwatch.Alarm{
		AlarmName:          name,
		AlarmDescription:   description,
		Namespace:          ec2Namespace,
		MetricName:         metric,
		Dimensions:         Any(cloudwatch.Alarm_Dimension{Name: "InstanceId", Value: Ref{LogicalName: InstanceName}}),
		Statistic:          statistic,
		Period:             300,
		Threshold:          threshold,
		EvaluationPeriods:  evaluations,
		ComparisonOperator: cloudwatch.GreaterThanOrEqualToThreshold,
		TreatMissingData:   "notBreaching",
	}
}

var (
	highCPUAlarm = alarm("TypeScriptEC2-HighCPU", "High CPU utilization on EC2 instance",
		"CPUUtilization", "Average", 80, 2)
	statusCheckAlarm = alarm("TypeScriptEC2-StatusCheckFailed", "EC2 instance or system status check failed",
		"StatusCheckFailed", "Maximum", 1, 2)
)

func addMonitoring(s *stack.Stack, p Props) error {
	region := p.Env.Region
	if region == "" {
		region = "${AWS::Region}"
	}

	body, err := instanceDashboard(region).Body()
	if err != nil {
		return fmt.Errorf("%s: %w", DashboardResourceName, err)
	}

	return errors.Join(
		s.Add(DashboardResourceName, cloudwatch.Dashboard{
			DashboardName: DashboardName,
			DashboardBody: body,
		}),
		s.Add(HighCPUAlarmName, highCPUAlarm),
		s.Add(StatusCheckAlarmName, statusCheckAlarm),
	)
}
