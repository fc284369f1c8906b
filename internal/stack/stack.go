// Package stack holds the in-memory model of a deployable stack: a named set
// of typed resources, parameters and outputs bound to an account and region.
package stack

import (
	"errors"
	"fmt"
	"sort"

	awsstacks "github.com/balaaddepalli/awsstacks"
)

// ErrDuplicateResource is returned when a logical name is added twice.
var ErrDuplicateResource = errors.New("duplicate resource")

// Stack is a named set of resources deployed to one account and region.
type Stack struct {
	Name        string
	Description string
	Env         awsstacks.Env

	resources  map[string]*Entry
	parameters map[string]awsstacks.Parameter
	outputs    map[string]Output
}

// Entry is one resource of a stack together with its template attributes.
type Entry struct {
	Name           string
	Resource       awsstacks.Resource
	DependsOn      []string
	DeletionPolicy string
}

// Output is a stack output before serialization. Value may hold intrinsics.
type Output struct {
	Description string
	Value       any
	ExportName  any
}

// ResourceOption sets template attributes on an added resource.
type ResourceOption func(*Entry)

// DependsOn adds explicit dependencies that are not visible through
// references, for example a deployment that must follow its methods.
func DependsOn(names ...string) ResourceOption {
	return func(e *Entry) {
		e.DependsOn = append(e.DependsOn, names...)
	}
}

// Retain keeps the physical resource when the stack is deleted.
func Retain() ResourceOption {
	return func(e *Entry) {
		e.DeletionPolicy = "Retain"
	}
}

// New creates an empty stack.
func New(name string, env awsstacks.Env) *Stack {
	return &Stack{
		Name:       name,
		Env:        env,
		resources:  make(map[string]*Entry),
		parameters: make(map[string]awsstacks.Parameter),
		outputs:    make(map[string]Output),
	}
}

// Add registers a resource under a logical name.
func (s *Stack) Add(name string, r awsstacks.Resource, opts ...ResourceOption) error {
	if name == "" {
		return fmt.Errorf("stack %s: resource name is empty", s.Name)
	}
	if r == nil {
		return fmt.Errorf("stack %s: resource %s is nil", s.Name, name)
	}
	if _, exists := s.resources[name]; exists {
		return fmt.Errorf("stack %s: %w: %s", s.Name, ErrDuplicateResource, name)
	}

	entry := &Entry{Name: name, Resource: r}
	for _, opt := range opts {
		opt(entry)
	}
	s.resources[name] = entry
	return nil
}

// AddParameter declares a template parameter.
func (s *Stack) AddParameter(name string, p awsstacks.Parameter) {
	s.parameters[name] = p
}

// AddOutput declares a template output.
func (s *Stack) AddOutput(name string, o Output) {
	s.outputs[name] = o
}

// Resource returns the entry registered under name.
func (s *Stack) Resource(name string) (*Entry, bool) {
	e, ok := s.resources[name]
	return e, ok
}

// Resources returns all entries sorted by logical name.
func (s *Stack) Resources() []*Entry {
	entries := make([]*Entry, 0, len(s.resources))
	for _, e := range s.resources {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// Parameters returns the declared parameters.
func (s *Stack) Parameters() map[string]awsstacks.Parameter {
	return s.parameters
}

// Outputs returns the declared outputs.
func (s *Stack) Outputs() map[string]Output {
	return s.outputs
}

// Len returns the number of resources.
func (s *Stack) Len() int {
	return len(s.resources)
}

// Find returns the stack with the given name.
func Find(stacks []*Stack, name string) (*Stack, bool) {
	for _, s := range stacks {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}
