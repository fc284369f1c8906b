package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balaaddepalli/awsstacks/internal/differ"
	"github.com/balaaddepalli/awsstacks/internal/template"
)

func newDiffCmd(root *rootOptions) *cobra.Command {
	var (
		outputFormat string
		ignoreOrder  bool
	)

	cmd := &cobra.Command{
		Use:   "diff <stack> <template-file>",
		Short: "Compare a stack with a previously synthesized template",
		Long: `Diff synthesizes the stack and compares it with a JSON or YAML template,
usually the one last deployed. Changes read from the file to the stack:
"+" is a resource the stack adds, "-" one it removes.

Examples:
    awsstacks diff TypeScriptLambdaStack cdk.out/TypeScriptLambdaStack.template.json
    awsstacks diff TypeScriptEC2Stack deployed.yaml --ignore-order`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(outputFormat, "text", "json"); err != nil {
				return err
			}

			stacks, _, err := root.loadStacks(args[:1])
			if err != nil {
				return err
			}
			synth, err := template.Synthesize(stacks[0])
			if err != nil {
				return fmt.Errorf("%s: %w", stacks[0].Name, err)
			}

			before, err := differ.LoadTemplate(args[1])
			if err != nil {
				return err
			}

			result := differ.Compare(before, synth, differ.Options{IgnoreOrder: ignoreOrder})

			if outputFormat == "json" {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"stack":      stacks[0].Name,
					"diff":       result.Diff,
					"summary":    result.Summary,
					"parameters": result.Parameters,
					"outputs":    result.Outputs,
				})
			}
			return differ.Write(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&ignoreOrder, "ignore-order", false, "Ignore array element order")

	return cmd
}
