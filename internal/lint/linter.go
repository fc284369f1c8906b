// Package lint checks synthesized templates for security and operational
// problems that cfn-lint does not report.
//
// Templates carry no source positions, so an Issue's File holds the logical
// name of the offending resource and Line and Column stay zero.
package lint

import (
	"fmt"
	"sort"
	"strings"

	corelint "github.com/lex00/wetwire-core-go/lint"

	awsstacks "github.com/balaaddepalli/awsstacks"
)

// Type aliases for the core lint package.
type (
	// Issue is an alias for corelint.Issue.
	Issue = corelint.Issue
	// Severity is an alias for corelint.Severity.
	Severity = corelint.Severity
)

// Severity constants.
const (
	SeverityError   = corelint.SeverityError
	SeverityWarning = corelint.SeverityWarning
	SeverityInfo    = corelint.SeverityInfo
)

// Rule checks one property of a template.
type Rule interface {
	ID() string
	Description() string
	Check(t *awsstacks.Template) []Issue
}

// Result contains the outcome of linting.
type Result struct {
	Success bool
	Issues  []Issue
}

// Options configures the linter.
type Options struct {
	// Rules to enable. If empty, all rules are enabled.
	EnabledRules []string
	// DisabledRules are skipped even when enabled.
	DisabledRules []string
}

// AllRules returns every template rule in ID order.
func AllRules() []Rule {
	return []Rule{
		OpenSSHIngress{},
		UnencryptedEBS{},
		WildcardIAMAction{},
		LambdaReservedConcurrency{},
		LambdaTracing{},
		AlarmMissingData{},
		BucketPublicAccess{},
	}
}

func getRules(opts Options) []Rule {
	enabled := make(map[string]bool, len(opts.EnabledRules))
	for _, id := range opts.EnabledRules {
		enabled[id] = true
	}
	disabled := make(map[string]bool, len(opts.DisabledRules))
	for _, id := range opts.DisabledRules {
		disabled[id] = true
	}

	var rules []Rule
	for _, r := range AllRules() {
		if len(enabled) > 0 && !enabled[r.ID()] {
			continue
		}
		if disabled[r.ID()] {
			continue
		}
		rules = append(rules, r)
	}
	return rules
}

// LintTemplate runs the configured rules over t. Issues are sorted by
// resource, then rule.
func LintTemplate(t *awsstacks.Template, opts Options) Result {
	var issues []Issue
	for _, rule := range getRules(opts) {
		issues = append(issues, rule.Check(t)...)
	}

	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].File != issues[j].File {
			return issues[i].File < issues[j].File
		}
		return issues[i].Rule < issues[j].Rule
	})

	return Result{
		Success: len(issues) == 0,
		Issues:  issues,
	}
}

func rank(s Severity) int {
	switch s {
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	}
	return 0
}

// ParseSeverity parses "error", "warning" or "info".
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(s) {
	case "error":
		return SeverityError, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "info":
		return SeverityInfo, nil
	}
	return SeverityInfo, fmt.Errorf("unknown severity %q (want error, warning or info)", s)
}

// Fails reports whether any issue is at least as severe as threshold.
func (r Result) Fails(threshold Severity) bool {
	for _, issue := range r.Issues {
		if rank(issue.Severity) >= rank(threshold) {
			return true
		}
	}
	return false
}
