// Package validation checks synthesized templates before deployment.
//
// Two passes run on every template:
//   - structural checks on the template model (format version, resource
//     types, references to undefined names)
//   - cfn-lint-go: the CloudFormation rule set (library dependency)
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lex00/cfn-lint-go/pkg/lint"

	awsstacks "github.com/balaaddepalli/awsstacks"
	"github.com/balaaddepalli/awsstacks/internal/serialize"
	"github.com/balaaddepalli/awsstacks/internal/template"
)

// Options configures validation.
type Options struct {
	// IgnoreRules lists cfn-lint rule IDs to drop from the result.
	IgnoreRules []string

	// SkipCfnLint runs only the structural checks.
	SkipCfnLint bool
}

// CfnLintResult contains the result of running cfn-lint.
type CfnLintResult struct {
	Passed        bool     `json:"passed"`
	Errors        []string `json:"errors"`
	Warnings      []string `json:"warnings"`
	Informational []string `json:"informational"`
}

// TotalIssues returns the total number of issues found.
func (r CfnLintResult) TotalIssues() int {
	return len(r.Errors) + len(r.Warnings) + len(r.Informational)
}

// Validate runs the structural checks and cfn-lint on t and returns the
// combined result for the named stack.
func Validate(stackName string, t *awsstacks.Template, opts Options) (*awsstacks.ValidateResult, error) {
	result := &awsstacks.ValidateResult{
		Stack:     stackName,
		Resources: len(t.Resources),
	}
	result.Errors = append(result.Errors, CheckStructure(t)...)

	if !opts.SkipCfnLint {
		cfn, err := lintTemplate(stackName, t, opts)
		if err != nil {
			return nil, err
		}
		result.Errors = append(result.Errors, cfn.Errors...)
		result.Warnings = append(result.Warnings, cfn.Warnings...)
		result.Warnings = append(result.Warnings, cfn.Informational...)
	}

	result.Success = len(result.Errors) == 0
	return result, nil
}

// CheckStructure reports template-level problems that do not need the
// CloudFormation schema.
func CheckStructure(t *awsstacks.Template) []string {
	var errs []string
	if t.AWSTemplateFormatVersion != template.FormatVersion {
		errs = append(errs, fmt.Sprintf("AWSTemplateFormatVersion is %q, want %q", t.AWSTemplateFormatVersion, template.FormatVersion))
	}
	if len(t.Resources) == 0 {
		errs = append(errs, "template has no resources")
	}

	names := make([]string, 0, len(t.Resources))
	for name := range t.Resources {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		res := t.Resources[name]
		if !strings.HasPrefix(res.Type, "AWS::") && !strings.HasPrefix(res.Type, "Custom::") {
			errs = append(errs, fmt.Sprintf("%s: unsupported resource type %q", name, res.Type))
		}
		for _, dep := range res.DependsOn {
			if _, ok := t.Resources[dep]; !ok {
				errs = append(errs, fmt.Sprintf("%s: DependsOn undefined resource %s", name, dep))
			}
		}
		for _, ref := range serialize.References(res.Properties) {
			if !defined(t, ref) {
				errs = append(errs, fmt.Sprintf("%s: reference to undefined name %s", name, ref.Target))
			}
		}
	}

	outputs := make([]string, 0, len(t.Outputs))
	for name := range t.Outputs {
		outputs = append(outputs, name)
	}
	sort.Strings(outputs)
	for _, name := range outputs {
		for _, ref := range serialize.References(t.Outputs[name].Value) {
			if !defined(t, ref) {
				errs = append(errs, fmt.Sprintf("output %s: reference to undefined name %s", name, ref.Target))
			}
		}
	}
	return errs
}

func defined(t *awsstacks.Template, ref serialize.Reference) bool {
	if _, ok := t.Resources[ref.Target]; ok {
		return true
	}
	_, ok := t.Parameters[ref.Target]
	return ok && ref.Attribute == ""
}

// lintTemplate writes t to a scratch file and runs cfn-lint on it.
func lintTemplate(stackName string, t *awsstacks.Template, opts Options) (*CfnLintResult, error) {
	data, err := template.ToJSON(t)
	if err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "awsstacks-validate-")
	if err != nil {
		return nil, fmt.Errorf("creating scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, stackName+".template.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("writing template: %w", err)
	}
	return RunCfnLint(path, opts.IgnoreRules...)
}

// RunCfnLint runs cfn-lint-go on the given template file. Matches whose rule
// ID is in ignore are dropped.
func RunCfnLint(templatePath string, ignore ...string) (*CfnLintResult, error) {
	if _, err := os.Stat(templatePath); err != nil {
		return &CfnLintResult{
			Passed: false,
			Errors: []string{fmt.Sprintf("Template file not found: %s", templatePath)},
		}, nil
	}

	linter := lint.New(lint.Options{})
	matches, err := linter.LintFile(templatePath)
	if err != nil {
		return &CfnLintResult{
			Passed: false,
			Errors: []string{fmt.Sprintf("Linter error: %v", err)},
		}, nil
	}

	return categorize(matches, ignore), nil
}

func categorize(matches []lint.Match, ignore []string) *CfnLintResult {
	skip := make(map[string]bool, len(ignore))
	for _, id := range ignore {
		skip[id] = true
	}

	result := &CfnLintResult{
		Errors:        []string{},
		Warnings:      []string{},
		Informational: []string{},
	}
	for _, match := range matches {
		if skip[match.Rule.ID] {
			continue
		}
		formatted := formatMatch(match)

		switch match.Level {
		case "Error":
			result.Errors = append(result.Errors, formatted)
		case "Warning":
			result.Warnings = append(result.Warnings, formatted)
		default:
			result.Informational = append(result.Informational, formatted)
		}
	}

	// Passed if no errors (warnings are acceptable)
	result.Passed = len(result.Errors) == 0
	return result
}

// formatMatch formats a cfn-lint-go match for display.
func formatMatch(match lint.Match) string {
	pathStr := ""
	if len(match.Location.Path) > 0 {
		parts := make([]string, len(match.Location.Path))
		for i, p := range match.Location.Path {
			parts[i] = fmt.Sprintf("%v", p)
		}
		pathStr = strings.Join(parts, "/")
	}

	if pathStr != "" {
		return fmt.Sprintf("%s: %s (at %s)", match.Rule.ID, match.Message, pathStr)
	}
	return fmt.Sprintf("%s: %s", match.Rule.ID, match.Message)
}
