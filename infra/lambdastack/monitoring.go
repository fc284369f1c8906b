package lambdastack

import (
	"errors"
	"fmt"
	"time"

	. "github.com/balaaddepalli/awsstacks/intrinsics"
	"github.com/balaaddepalli/awsstacks/internal/dashboard"
	"github.com/balaaddepalli/awsstacks/internal/stack"
	"github.com/balaaddepalli/awsstacks/resources/cloudwatch"
)

const (
	lambdaNamespace = "AWS/Lambda"
	apiNamespace    = "AWS/ApiGateway"
)

// ----------------------------------------------------------------------------
// Alarms
// ----------------------------------------------------------------------------

type alarmSpec struct {
	logical     string
	name        string
	description string
	namespace   string
	metric      string
	statistic   string
	threshold   float64
	evaluations int
}

var alarms = []alarmSpec{
	{"SecurityErrorsAlarm", "TypeScriptLambda-SecurityErrors",
		"High error rate indicating potential security issues",
		lambdaNamespace, "Errors", "Sum", 5, 2},
	{"ApiSecurityEventsAlarm", "TypeScriptLambda-ApiSecurityEvents",
		"High 4XX error rate indicating potential security attacks",
		apiNamespace, "4XXError", "Sum", 10, 2},
	{"PerformanceAnomalyAlarm", "TypeScriptLambda-PerformanceAnomaly",
		"Unusual performance patterns that may indicate security issues",
		lambdaNamespace, "Duration", "Average", 5000, 2},
	{"ThrottleEventsAlarm", "TypeScriptLambda-ThrottleEvents",
		"Lambda throttling events that may indicate DDoS or abuse",
		lambdaNamespace, "Throttles", "Sum", 1, 1},
}

func (a alarmSpec) resource() cloudwatch.Alarm {
	dimension := cloudwatch.Alarm_Dimension{Name: "FunctionName", Value: Ref{LogicalName: Function}}
	if a.namespace == apiNamespace {
		dimension = cloudwatch.Alarm_Dimension{Name: "ApiName", Value: ApiName}
	}
	return cloudwatch.Alarm{
		AlarmName:          a.name,
		AlarmDescription:   a.description,
		Namespace:          a.namespace,
		MetricName:         a.metric,
		Dimensions:         Any(dimension),
		Statistic:          a.statistic,
		Period:             300,
		Threshold:          a.threshold,
		EvaluationPeriods:  a.evaluations,
		ComparisonOperator: cloudwatch.GreaterThanOrEqualToThreshold,
		TreatMissingData:   "notBreaching",
	}
}

func addAlarms(s *stack.Stack) error {
	var errs []error
	for _, a := range alarms {
		errs = append(errs, s.Add(a.logical, a.resource()))
	}
	return errors.Join(errs...)
}

// ----------------------------------------------------------------------------
// Dashboards
// ----------------------------------------------------------------------------

func lambdaMetric(name, statistic string) dashboard.Metric {
	return dashboard.Metric{
		Namespace:  lambdaNamespace,
		Name:       name,
		Dimensions: []dashboard.Dimension{{Name: "FunctionName", Value: "${" + Function + "}"}},
		Statistic:  statistic,
	}
}

func apiMetric(name, statistic string) dashboard.Metric {
	return dashboard.Metric{
		Namespace:  apiNamespace,
		Name:       name,
		Dimensions: []dashboard.Dimension{{Name: "ApiName", Value: ApiName}},
		Statistic:  statistic,
	}
}

const day = 24 * time.Hour

var (
	invocations = lambdaMetric("Invocations", "Sum")
	errorsCount = lambdaMetric("Errors", "Sum")
	throttles   = lambdaMetric("Throttles", "Sum")
	duration    = lambdaMetric("Duration", "Average")

	api4xx      = apiMetric("4XXError", "Sum")
	api5xx      = apiMetric("5XXError", "Sum")
	apiCount    = apiMetric("Count", "SampleCount")
	apiLatency  = apiMetric("Latency", "Average")
	cacheHits   = apiMetric("CacheHitCount", "Sum")
	cacheMisses = apiMetric("CacheMissCount", "Sum")
)

func securityDashboard(region string) *dashboard.Dashboard {
	return dashboard.New(region).
		AddRow(dashboard.Text{
			Markdown: "# 🛡️ Security Dashboard\n\n**Real-time security monitoring and threat detection**",
			Width:    24, Height: 2,
		}).
		AddRow(
			dashboard.SingleValue{
				Title: "Security Score (%)",
				Metrics: []dashboard.Series{dashboard.Expression{
					Expression: "IF(m2 > 0, 100 - ((m1 / m2) * 100), 100)",
					Label:      "Security Score",
					Using: map[string]dashboard.Metric{
						"m1": api5xx.With("Sum", time.Hour, ""),
						"m2": apiCount.With("Sum", time.Hour, ""),
					},
				}},
				Width: 6, Height: 6,
			},
			dashboard.SingleValue{
				Title: "Threat Events (24h)",
				Metrics: []dashboard.Series{
					api4xx.With("Sum", day, "4XX Attacks"),
					api5xx.With("Sum", day, "5XX Errors"),
				},
				Width: 6, Height: 6,
			},
			dashboard.SingleValue{
				Title: "Security Incidents",
				Metrics: []dashboard.Series{
					errorsCount.With("Sum", day, "Lambda Errors"),
					throttles.With("Sum", day, "Throttles"),
				},
				Width: 6, Height: 6,
			},
			dashboard.SingleValue{
				Title: "Attack Success Rate (%)",
				Metrics: []dashboard.Series{dashboard.Expression{
					Expression: "IF(m2 > 0, (m1 / m2) * 100, 0)",
					Label:      "Attack Success Rate",
					Using: map[string]dashboard.Metric{
						"m1": api5xx,
						"m2": api4xx,
					},
				}},
				Width: 6, Height: 6,
			},
		).
		AddRow(dashboard.Graph{
			Title: "Security Threat Timeline",
			Left: []dashboard.Series{
				api4xx.Labeled("Client Attacks (4XX)"),
				api5xx.Labeled("Server Errors (5XX)"),
				errorsCount.Labeled("Lambda Security Events"),
			},
			Width: 24, Height: 6,
		}).
		AddRow(
			dashboard.Graph{
				Title: "DDoS & Abuse Detection",
				Left:  []dashboard.Series{throttles.Labeled("Throttling Events")},
				Right: []dashboard.Series{invocations.Labeled("Invocation Rate")},
				Width: 12, Height: 6,
			},
			dashboard.Graph{
				Title: "Cache Security Analysis",
				Left: []dashboard.Series{
					cacheHits.Labeled("Cache Hits"),
					cacheMisses.Labeled("Cache Misses"),
				},
				Width: 12, Height: 6,
			},
		)
}

func operationsDashboard(region string) *dashboard.Dashboard {
	return dashboard.New(region).
		AddRow(dashboard.Text{
			Markdown: "# ⚙️ Operations Dashboard\n\n**Operational excellence monitoring and performance metrics**",
			Width:    24, Height: 2,
		}).
		AddRow(
			dashboard.SingleValue{
				Title:   "Invocations (24h)",
				Metrics: []dashboard.Series{invocations.With("Sum", day, "Invocations")},
				Width:   6, Height: 6,
			},
			dashboard.SingleValue{
				Title:   "Avg Duration (ms)",
				Metrics: []dashboard.Series{duration.Labeled("Duration")},
				Width:   6, Height: 6,
			},
			dashboard.SingleValue{
				Title: "Success Rate (%)",
				Metrics: []dashboard.Series{dashboard.Expression{
					Expression: "IF(m2 > 0, ((m2 - m1) / m2) * 100, 100)",
					Label:      "Success Rate",
					Using: map[string]dashboard.Metric{
						"m1": errorsCount,
						"m2": invocations,
					},
				}},
				Width: 6, Height: 6,
			},
			dashboard.SingleValue{
				Title:   "API Requests (24h)",
				Metrics: []dashboard.Series{apiCount.With("Sum", day, "Requests")},
				Width:   6, Height: 6,
			},
		).
		AddRow(
			dashboard.Graph{
				Title: "Lambda Performance Metrics",
				Left: []dashboard.Series{
					invocations.Labeled("Invocations"),
					errorsCount.Labeled("Errors"),
				},
				Right: []dashboard.Series{duration.Labeled("Duration (ms)")},
				Width: 12, Height: 6,
			},
			dashboard.Graph{
				Title: "API Gateway Performance",
				Left:  []dashboard.Series{apiCount.Labeled("Requests")},
				Right: []dashboard.Series{apiLatency.Labeled("Latency (ms)")},
				Width: 12, Height: 6,
			},
		).
		AddRow(
			dashboard.Graph{
				Title: "Resource Utilization",
				Left:  []dashboard.Series{invocations.Labeled("Invocations")},
				Right: []dashboard.Series{dashboard.Expression{
					Expression: "(m1 / 600) * 100",
					Label:      "Invocation Rate (per min)",
					Using: map[string]dashboard.Metric{
						"m1": invocations.With("Sum", time.Minute, ""),
					},
				}},
				Width: 12, Height: 6,
			},
			dashboard.Graph{
				Title: "Cost Optimization Metrics",
				Left: []dashboard.Series{
					cacheHits.Labeled("Cache Hits (Cost Savings)"),
					invocations.Labeled("Billable Invocations"),
				},
				Width: 12, Height: 6,
			},
		)
}

func addDashboards(s *stack.Stack, p Props) error {
	region := p.Env.Region
	if region == "" {
		region = "${AWS::Region}"
	}

	boards := []struct {
		logical, name string
		board         *dashboard.Dashboard
	}{
		{SecurityDashboard, "TypeScriptLambda-Security", securityDashboard(region)},
		{OperationsDashboard, "TypeScriptLambda-Operations", operationsDashboard(region)},
	}

	var errs []error
	for _, b := range boards {
		body, err := b.board.Body()
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", b.logical, err))
			continue
		}
		errs = append(errs, s.Add(b.logical, cloudwatch.Dashboard{
			DashboardName: b.name,
			DashboardBody: body,
		}))
	}
	return errors.Join(errs...)
}
