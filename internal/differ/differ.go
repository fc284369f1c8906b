// Package differ provides semantic comparison of CloudFormation templates.
package differ

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	awsstacks "github.com/balaaddepalli/awsstacks"
	"github.com/balaaddepalli/awsstacks/internal/template"
)

// Options configures the differ.
type Options struct {
	// IgnoreOrder ignores array element order in comparisons
	IgnoreOrder bool
}

// Result contains the difference between two templates.
type Result struct {
	Diff    awsstacks.TemplateDiff
	Summary awsstacks.DiffSummary

	// Parameter and output changes, e.g. "CodeS3Key added".
	Parameters []string
	Outputs    []string
}

// Empty reports whether the templates are equivalent.
func (r *Result) Empty() bool {
	return r.Summary.Total == 0 && len(r.Parameters) == 0 && len(r.Outputs) == 0
}

// Compare compares two CloudFormation templates and returns differences.
func Compare(before, after *awsstacks.Template, opts Options) *Result {
	result := &Result{}

	for name, def := range after.Resources {
		if _, exists := before.Resources[name]; !exists {
			result.Diff.Added = append(result.Diff.Added, awsstacks.DiffEntry{
				Resource: name,
				Type:     def.Type,
			})
		}
	}

	for name, def := range before.Resources {
		def2, exists := after.Resources[name]
		if !exists {
			result.Diff.Removed = append(result.Diff.Removed, awsstacks.DiffEntry{
				Resource: name,
				Type:     def.Type,
			})
			continue
		}
		if changes := compareResources(def, def2, opts); len(changes) > 0 {
			result.Diff.Modified = append(result.Diff.Modified, awsstacks.DiffEntry{
				Resource: name,
				Type:     def.Type,
				Changes:  changes,
			})
		}
	}

	sortEntries(result.Diff.Added)
	sortEntries(result.Diff.Removed)
	sortEntries(result.Diff.Modified)

	result.Summary = awsstacks.DiffSummary{
		Added:    len(result.Diff.Added),
		Removed:  len(result.Diff.Removed),
		Modified: len(result.Diff.Modified),
	}
	result.Summary.Total = result.Summary.Added + result.Summary.Removed + result.Summary.Modified

	result.Parameters = compareProperties("", toAnyMap(before.Parameters), toAnyMap(after.Parameters), opts)
	result.Outputs = compareProperties("", toAnyMap(before.Outputs), toAnyMap(after.Outputs), opts)

	return result
}

// CompareFiles compares two template files.
func CompareFiles(file1, file2 string, opts Options) (*Result, error) {
	t1, err := LoadTemplate(file1)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", file1, err)
	}

	t2, err := LoadTemplate(file2)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", file2, err)
	}

	return Compare(t1, t2, opts), nil
}

// LoadTemplate loads a JSON or YAML CloudFormation template from a file.
func LoadTemplate(path string) (*awsstacks.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return template.Load(data)
}

// Write prints r in a compact text form: "+" added, "-" removed, "~" modified.
func Write(w io.Writer, r *Result) error {
	var err error
	printf := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	if r.Empty() {
		printf("No differences\n")
		return err
	}

	for _, e := range r.Diff.Added {
		printf("+ %s (%s)\n", e.Resource, e.Type)
	}
	for _, e := range r.Diff.Removed {
		printf("- %s (%s)\n", e.Resource, e.Type)
	}
	for _, e := range r.Diff.Modified {
		printf("~ %s (%s)\n", e.Resource, e.Type)
		for _, c := range e.Changes {
			printf("    %s\n", c)
		}
	}
	for _, c := range r.Parameters {
		printf("~ Parameter %s\n", c)
	}
	for _, c := range r.Outputs {
		printf("~ Output %s\n", c)
	}
	printf("\n%d added, %d removed, %d modified\n", r.Summary.Added, r.Summary.Removed, r.Summary.Modified)
	return err
}

// compareResources compares two resource definitions and returns changes.
func compareResources(def1, def2 awsstacks.ResourceDef, opts Options) []string {
	var changes []string

	if def1.Type != def2.Type {
		changes = append(changes, fmt.Sprintf("Type changed: %s → %s", def1.Type, def2.Type))
	}

	changes = append(changes, compareProperties("", def1.Properties, def2.Properties, opts)...)

	if !equalStringSlices(sortedCopy(def1.DependsOn), sortedCopy(def2.DependsOn)) {
		changes = append(changes, "DependsOn changed")
	}
	if def1.DeletionPolicy != def2.DeletionPolicy {
		changes = append(changes, fmt.Sprintf("DeletionPolicy changed: %q → %q", def1.DeletionPolicy, def2.DeletionPolicy))
	}

	return changes
}

// compareProperties recursively compares property maps. Nested maps are
// reported by dotted path down to the first differing key.
func compareProperties(prefix string, props1, props2 map[string]any, opts Options) []string {
	var changes []string

	for key, val2 := range props2 {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		val1, exists := props1[key]
		if !exists {
			changes = append(changes, fmt.Sprintf("%s added", path))
			continue
		}

		m1, ok1 := val1.(map[string]any)
		m2, ok2 := val2.(map[string]any)
		if ok1 && ok2 && !isIntrinsic(m1) && !isIntrinsic(m2) {
			changes = append(changes, compareProperties(path, m1, m2, opts)...)
			continue
		}
		if !deepEqual(val1, val2, opts) {
			changes = append(changes, fmt.Sprintf("%s modified", path))
		}
	}

	for key := range props1 {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		if _, exists := props2[key]; !exists {
			changes = append(changes, fmt.Sprintf("%s removed", path))
		}
	}

	sort.Strings(changes)
	return changes
}

// isIntrinsic reports whether m is a single-key intrinsic function such as
// {"Ref": ...} or {"Fn::Sub": ...}. Intrinsics are compared as a whole.
func isIntrinsic(m map[string]any) bool {
	if len(m) != 1 {
		return false
	}
	for k := range m {
		return k == "Ref" || strings.HasPrefix(k, "Fn::")
	}
	return false
}

// deepEqual compares two values deeply, optionally ignoring order.
func deepEqual(a, b any, opts Options) bool {
	if opts.IgnoreOrder {
		a = normalizeValue(a)
		b = normalizeValue(b)
	}
	return reflect.DeepEqual(a, b)
}

// normalizeValue sorts every slice by the JSON encoding of its elements.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case []any:
		type keyed struct {
			key string
			val any
		}
		items := make([]keyed, len(val))
		for i, item := range val {
			n := normalizeValue(item)
			data, _ := json.Marshal(n)
			items[i] = keyed{string(data), n}
		}
		sort.SliceStable(items, func(i, j int) bool { return items[i].key < items[j].key })

		result := make([]any, len(items))
		for i, item := range items {
			result[i] = item.val
		}
		return result
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, v := range val {
			result[k] = normalizeValue(v)
		}
		return result
	default:
		return v
	}
}

// toAnyMap converts parameters or outputs to generic maps through JSON so
// they compare the same way as resource properties.
func toAnyMap[V any](m map[string]V) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		data, err := json.Marshal(v)
		if err != nil {
			out[k] = v
			continue
		}
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			out[k] = v
			continue
		}
		out[k] = generic
	}
	return out
}

func sortedCopy(s []string) []string {
	out := append([]string(nil), s...)
	sort.Strings(out)
	return out
}

// equalStringSlices compares two string slices for equality.
func equalStringSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// sortEntries sorts diff entries by resource name.
func sortEntries(entries []awsstacks.DiffEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Resource < entries[j].Resource
	})
}
