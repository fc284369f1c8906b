package main

import (
	"fmt"

	"github.com/spf13/cobra"

	awsstacks "github.com/balaaddepalli/awsstacks"
	"github.com/balaaddepalli/awsstacks/internal/template"
	"github.com/balaaddepalli/awsstacks/internal/validation"
)

func newValidateCmd(root *rootOptions) *cobra.Command {
	var (
		outputFormat string
		skipCfnLint  bool
		ignore       []string
	)

	cmd := &cobra.Command{
		Use:   "validate [stacks...]",
		Short: "Validate synthesized templates with structural checks and cfn-lint",
		Long: `Validate synthesizes each stack, checks the template structure and runs
the cfn-lint rule set on it.

Examples:
    awsstacks validate
    awsstacks validate TypeScriptLambdaStack --ignore W3005
    awsstacks validate --skip-cfn-lint --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(outputFormat, "text", "json"); err != nil {
				return err
			}

			stacks, _, err := root.loadStacks(args)
			if err != nil {
				return err
			}

			opts := validation.Options{IgnoreRules: ignore, SkipCfnLint: skipCfnLint}
			results := make([]*awsstacks.ValidateResult, 0, len(stacks))
			failed := 0
			for _, s := range stacks {
				tmpl, err := template.Synthesize(s)
				if err != nil {
					return fmt.Errorf("%s: %w", s.Name, err)
				}
				res, err := validation.Validate(s.Name, tmpl, opts)
				if err != nil {
					return err
				}
				if !res.Success {
					failed++
				}
				results = append(results, res)
			}

			out := cmd.OutOrStdout()
			if outputFormat == "json" {
				if err := writeJSON(out, results); err != nil {
					return err
				}
			} else {
				for _, res := range results {
					status := "ok"
					if !res.Success {
						status = "FAILED"
					}
					fmt.Fprintf(out, "%s: %s (%d resources)\n", res.Stack, status, res.Resources)
					for _, e := range res.Errors {
						fmt.Fprintf(out, "  error: %s\n", e)
					}
					for _, w := range res.Warnings {
						fmt.Fprintf(out, "  warning: %s\n", w)
					}
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d stacks failed validation", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&skipCfnLint, "skip-cfn-lint", false, "Run only the structural checks")
	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "cfn-lint rule IDs to ignore")

	return cmd
}
