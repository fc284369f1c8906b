// Package template builds CloudFormation templates from stacks.
package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	awsstacks "github.com/balaaddepalli/awsstacks"
	"github.com/balaaddepalli/awsstacks/internal/serialize"
	"github.com/balaaddepalli/awsstacks/internal/stack"
)

// FormatVersion is the only CloudFormation template format version.
const FormatVersion = "2010-09-09"

var (
	// ErrCycle is returned when resources reference each other in a loop.
	ErrCycle = errors.New("circular dependency detected")

	// ErrUndefinedReference is returned when a resource references a name
	// that is neither a resource nor a parameter of the stack.
	ErrUndefinedReference = errors.New("reference to undefined name")
)

// Builder constructs a CloudFormation template from a stack.
type Builder struct {
	stack *stack.Stack

	props map[string]map[string]any
	deps  map[string][]string
	order []string
}

// NewBuilder creates a template builder for s.
func NewBuilder(s *stack.Stack) *Builder {
	return &Builder{
		stack: s,
		props: make(map[string]map[string]any),
		deps:  make(map[string][]string),
	}
}

// Build constructs the CloudFormation template.
func (b *Builder) Build() (*awsstacks.Template, error) {
	entries := b.stack.Resources()

	for _, e := range entries {
		props, err := serialize.Properties(e.Resource)
		if err != nil {
			return nil, fmt.Errorf("serializing %s: %w", e.Name, err)
		}
		b.props[e.Name] = props
	}

	if err := b.collectDependencies(entries); err != nil {
		return nil, err
	}

	// Get resources in dependency order
	order, err := b.topologicalSort()
	if err != nil {
		return nil, err
	}
	b.order = order

	t := &awsstacks.Template{
		AWSTemplateFormatVersion: FormatVersion,
		Description:              b.stack.Description,
		Resources:                make(map[string]awsstacks.ResourceDef, len(entries)),
	}

	if params := b.stack.Parameters(); len(params) > 0 {
		t.Parameters = make(map[string]awsstacks.Parameter, len(params))
		for name, p := range params {
			if p.Type == "" {
				p.Type = "String"
			}
			t.Parameters[name] = p
		}
	}

	for _, name := range order {
		e, _ := b.stack.Resource(name)
		var dependsOn []string
		if len(e.DependsOn) > 0 {
			dependsOn = append([]string(nil), e.DependsOn...)
			sort.Strings(dependsOn)
		}
		t.Resources[name] = awsstacks.ResourceDef{
			Type:           e.Resource.ResourceType(),
			Properties:     b.props[name],
			DependsOn:      dependsOn,
			DeletionPolicy: e.DeletionPolicy,
		}
	}

	if outputs := b.stack.Outputs(); len(outputs) > 0 {
		t.Outputs = make(map[string]awsstacks.Output, len(outputs))
		for name, o := range outputs {
			output, err := b.serializeOutput(name, o)
			if err != nil {
				return nil, err
			}
			t.Outputs[name] = output
		}
	}

	return t, nil
}

// Order returns the resource names in dependency order of the last Build.
func (b *Builder) Order() []string {
	return b.order
}

// Dependencies returns, per resource, the resources it depends on.
func (b *Builder) Dependencies() map[string][]string {
	return b.deps
}

func (b *Builder) serializeOutput(name string, o stack.Output) (awsstacks.Output, error) {
	value, err := serialize.Value(o.Value)
	if err != nil {
		return awsstacks.Output{}, fmt.Errorf("serializing output %s: %w", name, err)
	}
	if err := b.checkReferences("output "+name, value); err != nil {
		return awsstacks.Output{}, err
	}

	output := awsstacks.Output{Description: o.Description, Value: value}
	if o.ExportName != nil {
		exportName, err := serialize.Value(o.ExportName)
		if err != nil {
			return awsstacks.Output{}, fmt.Errorf("serializing output %s export: %w", name, err)
		}
		output.Export = &awsstacks.OutputExport{Name: exportName}
	}
	return output, nil
}

// collectDependencies derives each resource's dependencies from the
// references in its properties plus its explicit DependsOn.
func (b *Builder) collectDependencies(entries []*stack.Entry) error {
	for _, e := range entries {
		seen := make(map[string]bool)
		var deps []string

		for _, dep := range e.DependsOn {
			if _, ok := b.stack.Resource(dep); !ok {
				return fmt.Errorf("%s: DependsOn %w: %s", e.Name, ErrUndefinedReference, dep)
			}
			if !seen[dep] {
				seen[dep] = true
				deps = append(deps, dep)
			}
		}

		if err := b.checkReferences(e.Name, b.props[e.Name]); err != nil {
			return err
		}
		for _, ref := range serialize.References(b.props[e.Name]) {
			if _, ok := b.stack.Resource(ref.Target); !ok || seen[ref.Target] {
				continue
			}
			seen[ref.Target] = true
			deps = append(deps, ref.Target)
		}

		sort.Strings(deps)
		b.deps[e.Name] = deps
	}
	return nil
}

func (b *Builder) checkReferences(owner string, value any) error {
	params := b.stack.Parameters()
	for _, ref := range serialize.References(value) {
		if _, ok := b.stack.Resource(ref.Target); ok {
			continue
		}
		if _, ok := params[ref.Target]; ok && ref.Attribute == "" {
			continue
		}
		return fmt.Errorf("%s: %w: %s", owner, ErrUndefinedReference, ref.Target)
	}
	return nil
}

// topologicalSort returns resources in dependency order.
func (b *Builder) topologicalSort() ([]string, error) {
	// Build adjacency list
	graph := make(map[string][]string)
	inDegree := make(map[string]int)

	for name := range b.deps {
		graph[name] = nil
		inDegree[name] = 0
	}

	for name, deps := range b.deps {
		for _, dep := range deps {
			graph[dep] = append(graph[dep], name)
			inDegree[name]++
		}
	}

	// Kahn's algorithm
	var queue []string
	for name, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)

	var result []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, neighbor := range graph[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
				sort.Strings(queue)
			}
		}
	}

	if len(result) != len(b.deps) {
		return nil, b.detectCycle()
	}

	return result, nil
}

// detectCycle finds and reports a cycle in the dependency graph.
func (b *Builder) detectCycle() error {
	visited := make(map[string]bool)
	path := make(map[string]bool)

	names := make([]string, 0, len(b.deps))
	for name := range b.deps {
		names = append(names, name)
	}
	sort.Strings(names)

	var cycle []string
	var findCycle func(node string) bool
	findCycle = func(node string) bool {
		visited[node] = true
		path[node] = true

		for _, dep := range b.deps[node] {
			if !visited[dep] {
				if findCycle(dep) {
					cycle = append([]string{node}, cycle...)
					return true
				}
			} else if path[dep] {
				cycle = append([]string{node, dep}, cycle...)
				return true
			}
		}

		path[node] = false
		return false
	}

	for _, name := range names {
		if !visited[name] && findCycle(name) {
			break
		}
	}

	if len(cycle) > 0 {
		return fmt.Errorf("%w: %s", ErrCycle, strings.Join(cycle, " → "))
	}
	return ErrCycle
}

// Synthesize builds the template for s in one call.
func Synthesize(s *stack.Stack) (*awsstacks.Template, error) {
	t, err := NewBuilder(s).Build()
	if err != nil {
		return nil, fmt.Errorf("stack %s: %w", s.Name, err)
	}
	return t, nil
}

// ToJSON serializes the template to JSON.
func ToJSON(t *awsstacks.Template) ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// ToYAML serializes the template to YAML.
func ToYAML(t *awsstacks.Template) ([]byte, error) {
	return yaml.Marshal(t)
}

// Encode serializes the template in the named format ("json" or "yaml").
func Encode(t *awsstacks.Template, format string) ([]byte, error) {
	switch format {
	case "", "json":
		return ToJSON(t)
	case "yaml", "yml":
		return ToYAML(t)
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// Load parses a JSON or YAML template from data.
func Load(data []byte) (*awsstacks.Template, error) {
	var t awsstacks.Template
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("parsing JSON template: %w", err)
		}
		return &t, nil
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing YAML template: %w", err)
	}
	// Round-trip through JSON so values match a JSON-loaded template.
	normalized, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("normalizing YAML template: %w", err)
	}
	if err := json.Unmarshal(normalized, &t); err != nil {
		return nil, fmt.Errorf("parsing YAML template: %w", err)
	}
	return &t, nil
}
