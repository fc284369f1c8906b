// Command awsstacks synthesizes, checks and publishes the project's stacks.
//
// Usage:
//
//	awsstacks synth TypeScriptLambdaStack -o cdk.out   Write a CloudFormation template
//	awsstacks lint                                     Check every stack
//	awsstacks invoke --event event.json                Run the handler locally
//	awsstacks version                                  Show version
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/balaaddepalli/awsstacks/infra/app"
	"github.com/balaaddepalli/awsstacks/internal/appconfig"
	"github.com/balaaddepalli/awsstacks/internal/stack"
)

// exitError ends the process with code without printing anything more.
type exitError struct {
	code int
}

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// Exit code 2 for lint issues found.
var errIssuesFound = exitError{code: 2}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var exit exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "awsstacks",
		Short: "Synthesize and check the Lambda, EC2 and pipeline stacks",
		Long: `awsstacks builds CloudFormation templates for the project's stacks:

    TypeScriptLambdaPipeline   CI/CD account
    TypeScriptEC2Pipeline      CI/CD account
    TypeScriptLambdaStack      workload account
    TypeScriptEC2Stack         workload account

Accounts, region and repository are read from awsstacks.yaml when present.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default: "+appconfig.DefaultFile+" if present)")

	rootCmd.AddCommand(
		newSynthCmd(opts),
		newListCmd(opts),
		newGraphCmd(opts),
		newLintCmd(opts),
		newValidateCmd(opts),
		newDiffCmd(opts),
		newInvokeCmd(),
		newPublishCmd(opts),
		newWatchCmd(opts),
		newVersionCmd(),
	)

	return rootCmd
}

// loadStacks reads the config and returns the named stacks, or all of them.
func (o *rootOptions) loadStacks(names []string) ([]*stack.Stack, appconfig.Config, error) {
	cfg, err := appconfig.Load(o.configPath)
	if err != nil {
		return nil, appconfig.Config{}, err
	}

	stacks, err := app.New(cfg)
	if err != nil {
		return nil, appconfig.Config{}, err
	}

	selected, err := app.Select(stacks, names...)
	if err != nil {
		return nil, appconfig.Config{}, err
	}
	return selected, cfg, nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func checkFormat(format string, allowed ...string) error {
	for _, f := range allowed {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("unknown format: %s", format)
}
