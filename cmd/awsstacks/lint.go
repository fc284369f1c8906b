package main

import (
	"fmt"

	"github.com/spf13/cobra"

	awsstacks "github.com/balaaddepalli/awsstacks"
	"github.com/balaaddepalli/awsstacks/internal/lint"
	"github.com/balaaddepalli/awsstacks/internal/template"
)

func newLintCmd(root *rootOptions) *cobra.Command {
	var (
		outputFormat string
		failOn       string
		disabled     []string
	)

	cmd := &cobra.Command{
		Use:   "lint [stacks...]",
		Short: "Check synthesized templates for security and operational issues",
		Long: `Lint synthesizes each stack and runs the template rules:

    AWS001  security group ingress open to the world on SSH (22)   warning
    AWS002  unencrypted EBS block device                            error
    AWS003  IAM statement with Action "*"                           error
    AWS004  Lambda function without reserved concurrency            info
    AWS005  Lambda function without tracing                         info
    AWS006  alarm without TreatMissingData                          info
    AWS007  S3 bucket without public access block                   warning

The command exits with status 2 when an issue reaches --fail-on.

Examples:
    awsstacks lint
    awsstacks lint TypeScriptEC2Stack --fail-on error
    awsstacks lint --disable AWS004,AWS005 --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(outputFormat, "text", "json"); err != nil {
				return err
			}
			threshold, err := lint.ParseSeverity(failOn)
			if err != nil {
				return err
			}

			stacks, _, err := root.loadStacks(args)
			if err != nil {
				return err
			}

			result := awsstacks.LintResult{Success: true}
			failed := false
			for _, s := range stacks {
				tmpl, err := template.Synthesize(s)
				if err != nil {
					return fmt.Errorf("%s: %w", s.Name, err)
				}

				lr := lint.LintTemplate(tmpl, lint.Options{DisabledRules: disabled})
				failed = failed || lr.Fails(threshold)
				for _, issue := range lr.Issues {
					result.Issues = append(result.Issues, awsstacks.LintIssue{
						Stack:    s.Name,
						Resource: issue.File,
						Severity: issue.Severity.String(),
						Message:  issue.Message,
						Rule:     issue.Rule,
					})
				}
			}
			result.Success = len(result.Issues) == 0

			if err := outputLintResult(cmd, result); err != nil {
				return err
			}
			if failed {
				return errIssuesFound
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")
	cmd.Flags().StringVar(&failOn, "fail-on", "warning", "Lowest severity that fails the run: error, warning or info")
	cmd.Flags().StringSliceVar(&disabled, "disable", nil, "Rule IDs to skip")

	return cmd
}

func outputLintResult(cmd *cobra.Command, result awsstacks.LintResult) error {
	out := cmd.OutOrStdout()
	if cmd.Flag("format").Value.String() == "json" {
		return writeJSON(out, result)
	}

	if result.Success {
		_, err := fmt.Fprintln(out, "No issues found.")
		return err
	}
	for _, issue := range result.Issues {
		fmt.Fprintf(out, "%s: %s: %s [%s]\n", issue.Stack, issue.Severity, issue.Message, issue.Rule)
	}
	return nil
}
