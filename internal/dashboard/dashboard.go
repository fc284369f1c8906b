// Package dashboard renders CloudWatch dashboard bodies.
//
// Widgets are added in rows. Widgets of one row are laid out left to right
// and wrap onto a new line past the 24-unit grid width; each row starts
// below the previous one.
//
// Metric dimension values may contain ${LogicalName} placeholders; Body
// returns a Fn::Sub so they resolve at deploy time.
package dashboard

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/balaaddepalli/awsstacks/intrinsics"
)

// GridWidth is the width of the dashboard grid.
const GridWidth = 24

// DefaultPeriod is the metric period when none is set.
const DefaultPeriod = 5 * time.Minute

// Series is a metric or a math expression shown by a widget.
type Series interface {
	rows(id string, options map[string]any) [][]any
}

// Metric is one CloudWatch metric.
type Metric struct {
	Namespace  string
	Name       string
	Dimensions []Dimension
	Statistic  string
	Period     time.Duration
	Label      string
}

// Dimension narrows a metric.
type Dimension struct {
	Name  string
	Value string
}

// With returns a copy of m with the statistic, period and label replaced
// where they are non-zero.
func (m Metric) With(statistic string, period time.Duration, label string) Metric {
	if statistic != "" {
		m.Statistic = statistic
	}
	if period != 0 {
		m.Period = period
	}
	if label != "" {
		m.Label = label
	}
	return m
}

// Labeled returns a copy of m with label set.
func (m Metric) Labeled(label string) Metric {
	return m.With("", 0, label)
}

func (m Metric) rows(id string, extra map[string]any) [][]any {
	row := []any{m.Namespace, m.Name}
	for _, d := range m.Dimensions {
		row = append(row, d.Name, d.Value)
	}

	opts := map[string]any{}
	if m.Statistic != "" {
		opts["stat"] = m.Statistic
	}
	period := m.Period
	if period == 0 {
		period = DefaultPeriod
	}
	opts["period"] = int(period / time.Second)
	if m.Label != "" {
		opts["label"] = m.Label
	}
	if id != "" {
		opts["id"] = id
	}
	for k, v := range extra {
		opts[k] = v
	}
	return [][]any{append(row, opts)}
}

// Expression is a metric math expression over named metrics.
type Expression struct {
	Expression string
	Using      map[string]Metric
	Label      string
}

func (e Expression) rows(id string, extra map[string]any) [][]any {
	opts := map[string]any{"expression": e.Expression}
	if e.Label != "" {
		opts["label"] = e.Label
	}
	if id != "" {
		opts["id"] = id
	}
	for k, v := range extra {
		opts[k] = v
	}

	out := [][]any{{opts}}
	for _, name := range sortedKeys(e.Using) {
		hidden := map[string]any{"visible": false}
		if y, ok := extra["yAxis"]; ok {
			hidden["yAxis"] = y
		}
		out = append(out, e.Using[name].rows(name, hidden)...)
	}
	return out
}

// Widget is one dashboard tile.
type Widget interface {
	size() (width, height int)
	render(region string) map[string]any
}

// Text is a markdown widget.
type Text struct {
	Markdown      string
	Width, Height int
}

func (t Text) size() (int, int) { return t.Width, t.Height }

func (t Text) render(string) map[string]any {
	return map[string]any{
		"type":       "text",
		"properties": map[string]any{"markdown": t.Markdown},
	}
}

// SingleValue shows the latest value of each series.
type SingleValue struct {
	Title         string
	Metrics       []Series
	Width, Height int
}

func (s SingleValue) size() (int, int) { return s.Width, s.Height }

func (s SingleValue) render(region string) map[string]any {
	return map[string]any{
		"type": "metric",
		"properties": map[string]any{
			"view":    "singleValue",
			"title":   s.Title,
			"region":  region,
			"metrics": metricRows(s.Metrics, nil),
		},
	}
}

// Graph is a time series chart with optional right axis.
type Graph struct {
	Title         string
	Left, Right   []Series
	Width, Height int
	Stacked       bool
}

func (g Graph) size() (int, int) { return g.Width, g.Height }

func (g Graph) render(region string) map[string]any {
	rows := metricRows(g.Left, nil)
	rows = append(rows, metricRowsFrom(len(g.Left), g.Right, map[string]any{"yAxis": "right"})...)
	return map[string]any{
		"type": "metric",
		"properties": map[string]any{
			"view":    "timeSeries",
			"title":   g.Title,
			"region":  region,
			"stacked": g.Stacked,
			"metrics": rows,
			"yAxis":   map[string]any{},
		},
	}
}

func metricRows(series []Series, extra map[string]any) [][]any {
	return metricRowsFrom(0, series, extra)
}

// metricRowsFrom renders series; expressions get ids e<n> so the metrics
// they use can keep their own names.
func metricRowsFrom(offset int, series []Series, extra map[string]any) [][]any {
	var rows [][]any
	for i, s := range series {
		id := ""
		if _, ok := s.(Expression); ok {
			id = fmt.Sprintf("e%d", offset+i+1)
		}
		rows = append(rows, s.rows(id, extra)...)
	}
	return rows
}

// Dashboard collects widget rows for one region.
type Dashboard struct {
	Region string
	rows   [][]Widget
}

// New creates an empty dashboard.
func New(region string) *Dashboard {
	return &Dashboard{Region: region}
}

// AddRow appends widgets laid out left to right below the existing ones.
func (d *Dashboard) AddRow(widgets ...Widget) *Dashboard {
	d.rows = append(d.rows, widgets)
	return d
}

// Widgets renders every widget with its grid position.
func (d *Dashboard) Widgets() []map[string]any {
	var out []map[string]any
	y := 0
	for _, row := range d.rows {
		x, lineHeight := 0, 0
		for _, w := range row {
			width, height := w.size()
			if width <= 0 {
				width = 6
			}
			if height <= 0 {
				height = 6
			}
			if x+width > GridWidth && x > 0 {
				y += lineHeight
				x, lineHeight = 0, 0
			}

			rendered := w.render(d.Region)
			rendered["x"] = x
			rendered["y"] = y
			rendered["width"] = width
			rendered["height"] = height
			out = append(out, rendered)

			x += width
			if height > lineHeight {
				lineHeight = height
			}
		}
		y += lineHeight
	}
	return out
}

// JSON returns the dashboard body as JSON text.
func (d *Dashboard) JSON() (string, error) {
	data, err := json.Marshal(map[string]any{"widgets": d.Widgets()})
	if err != nil {
		return "", fmt.Errorf("encoding dashboard body: %w", err)
	}
	return string(data), nil
}

// Body returns the dashboard body as a Fn::Sub so ${LogicalName}
// placeholders resolve.
func (d *Dashboard) Body() (intrinsics.Sub, error) {
	body, err := d.JSON()
	if err != nil {
		return intrinsics.Sub{}, err
	}
	return intrinsics.Sub{String: body}, nil
}

func sortedKeys(m map[string]Metric) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}
