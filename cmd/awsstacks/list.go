package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	awsstacks "github.com/balaaddepalli/awsstacks"
)

func newListCmd(root *rootOptions) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "list [stacks...]",
		Short: "List stacks and their resources",
		Long: `List shows each stack with its account, region and resources.

Examples:
    awsstacks list
    awsstacks list TypeScriptEC2Stack --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(outputFormat, "text", "json"); err != nil {
				return err
			}

			stacks, _, err := root.loadStacks(args)
			if err != nil {
				return err
			}

			result := awsstacks.ListResult{Stacks: make([]awsstacks.ListStack, 0, len(stacks))}
			for _, s := range stacks {
				ls := awsstacks.ListStack{
					Name:    s.Name,
					Account: s.Env.Account,
					Region:  s.Env.Region,
				}
				for _, e := range s.Resources() {
					ls.Resources = append(ls.Resources, awsstacks.ListResource{
						Name: e.Name,
						Type: e.Resource.ResourceType(),
					})
				}
				result.Stacks = append(result.Stacks, ls)
			}

			if outputFormat == "json" {
				return writeJSON(cmd.OutOrStdout(), result)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for i, s := range result.Stacks {
				if i > 0 {
					fmt.Fprintln(w)
				}
				fmt.Fprintf(w, "%s (%s, %s): %d resources\n", s.Name, s.Account, s.Region, len(s.Resources))
				for _, r := range s.Resources {
					fmt.Fprintf(w, "  %s\t%s\n", r.Name, r.Type)
				}
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")

	return cmd
}
