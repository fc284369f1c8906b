package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balaaddepalli/awsstacks/internal/graph"
	"github.com/balaaddepalli/awsstacks/internal/template"
)

func newGraphCmd(root *rootOptions) *cobra.Command {
	var (
		outputFormat      string
		includeParameters bool
		clusterByService  bool
	)

	cmd := &cobra.Command{
		Use:   "graph <stack>",
		Short: "Generate DOT graph of resource dependencies",
		Long: `Generate a DOT or Mermaid format graph showing resource dependencies.

GetAtt edges are blue, explicit DependsOn edges dashed.

The output can be rendered with Graphviz:
    awsstacks graph TypeScriptLambdaStack | dot -Tpng -o deps.png

Or used in GitHub markdown (Mermaid format):
    awsstacks graph TypeScriptLambdaStack -f mermaid

Examples:
    awsstacks graph TypeScriptEC2Stack -p       # include parameters
    awsstacks graph TypeScriptEC2Stack -c       # cluster by service`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(outputFormat, "dot", "mermaid"); err != nil {
				return err
			}

			stacks, _, err := root.loadStacks(args)
			if err != nil {
				return err
			}
			tmpl, err := template.Synthesize(stacks[0])
			if err != nil {
				return fmt.Errorf("%s: %w", stacks[0].Name, err)
			}

			gen := &graph.Generator{
				Format:            graph.Format(outputFormat),
				IncludeParameters: includeParameters,
				ClusterByService:  clusterByService,
			}
			if err := gen.Generate(tmpl, cmd.OutOrStdout()); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout())
			return err
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "dot", "Output format: dot or mermaid")
	cmd.Flags().BoolVarP(&includeParameters, "include-parameters", "p", false, "Include parameter nodes in the graph")
	cmd.Flags().BoolVarP(&clusterByService, "cluster", "c", false, "Cluster resources by AWS service")

	return cmd
}
