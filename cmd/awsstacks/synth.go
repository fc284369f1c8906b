package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	awsstacks "github.com/balaaddepalli/awsstacks"
	"github.com/balaaddepalli/awsstacks/internal/template"
)

// DefaultOutDir receives the templates when several stacks are synthesized
// without -o.
const DefaultOutDir = "cdk.out"

func newSynthCmd(root *rootOptions) *cobra.Command {
	var (
		outputFormat string
		outputDir    string
	)

	cmd := &cobra.Command{
		Use:   "synth [stacks...]",
		Short: "Synthesize CloudFormation templates",
		Long: `Synth builds the CloudFormation template of each named stack, or of every
stack when none is named.

A single stack without -o is written to stdout. Otherwise each template is
written to <dir>/<Stack>.template.<format>.

Examples:
    awsstacks synth TypeScriptLambdaStack
    awsstacks synth TypeScriptLambdaStack -f yaml
    awsstacks synth -o cdk.out`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(outputFormat, "json", "yaml"); err != nil {
				return err
			}

			stacks, _, err := root.loadStacks(args)
			if err != nil {
				return err
			}

			if outputDir == "" && len(stacks) == 1 {
				tmpl, err := template.Synthesize(stacks[0])
				if err != nil {
					return fmt.Errorf("%s: %w", stacks[0].Name, err)
				}
				data, err := encode(tmpl, outputFormat)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			if outputDir == "" {
				outputDir = DefaultOutDir
			}
			if err := os.MkdirAll(outputDir, 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", outputDir, err)
			}

			result := awsstacks.SynthResult{Success: true}
			for _, s := range stacks {
				path := filepath.Join(outputDir, s.Name+".template."+outputFormat)
				out := awsstacks.SynthOutput{Stack: s.Name, Path: path, Resources: s.Len()}

				tmpl, err := template.Synthesize(s)
				if err == nil {
					var data []byte
					if data, err = encode(tmpl, outputFormat); err == nil {
						err = os.WriteFile(path, data, 0o644)
					}
				}
				if err != nil {
					result.Success = false
					result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", s.Name, err))
					continue
				}

				result.Stacks = append(result.Stacks, out)
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d resources)\n", path, out.Resources)
			}

			if !result.Success {
				return errors.New(strings.Join(result.Errors, "\n"))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory")

	return cmd
}

// encode serializes tmpl with exactly one trailing newline.
func encode(tmpl *awsstacks.Template, format string) ([]byte, error) {
	data, err := template.Encode(tmpl, format)
	if err != nil {
		return nil, err
	}
	return append(bytes.TrimRight(data, "\n"), '\n'), nil
}
