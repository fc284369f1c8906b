package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// newWatchCmd creates the "watch" subcommand for auto-rebuilding on file changes.
func newWatchCmd(root *rootOptions) *cobra.Command {
	var (
		lintOnly  bool
		debounce  time.Duration
		outputDir string
		failOn    string
	)

	cmd := &cobra.Command{
		Use:   "watch [dirs...]",
		Short: "Re-synthesize stacks on source file changes",
		Long: `Watch monitors .go files and re-runs lint and synth on every change.

Stacks are Go code, so each run rebuilds the CLI with "go run".
Rapid changes are debounced.

Examples:
    awsstacks watch
    awsstacks watch ./infra --lint-only
    awsstacks watch --debounce 1s -o cdk.out`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			return runWatch(cmd.Context(), args, watchOptions{
				lintOnly:   lintOnly,
				debounce:   debounce,
				outputDir:  outputDir,
				failOn:     failOn,
				configPath: root.configPath,
				out:        cmd.OutOrStdout(),
				errOut:     cmd.ErrOrStderr(),
			})
		},
	}

	cmd.Flags().BoolVar(&lintOnly, "lint-only", false, "Only run lint, skip synth")
	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "Debounce duration for rapid changes")
	cmd.Flags().StringVarP(&outputDir, "output", "o", DefaultOutDir, "Output directory for synth")
	cmd.Flags().StringVar(&failOn, "fail-on", "error", "Lowest lint severity that skips synth: error, warning or info")

	return cmd
}

type watchOptions struct {
	lintOnly   bool
	debounce   time.Duration
	outputDir  string
	failOn     string
	configPath string
	out        io.Writer
	errOut     io.Writer
}

// runWatch monitors source files and runs lint/synth on changes.
func runWatch(ctx context.Context, paths []string, opts watchOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	dirs, err := resolveDirs(paths)
	if err != nil {
		return fmt.Errorf("failed to resolve paths: %w", err)
	}
	for _, dir := range dirs {
		if err := addDirRecursive(watcher, dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		fmt.Fprintf(opts.out, "Watching: %s\n", dir)
	}

	fmt.Fprintln(opts.out, "Running initial lint/synth...")
	runLintAndSynth(ctx, opts)

	var debounceTimer *time.Timer
	rebuild := make(chan struct{}, 1)

	fmt.Fprintln(opts.out, "\nWatching for changes... (Ctrl+C to stop)")

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isSourceChange(event) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(opts.debounce, func() {
				select {
				case rebuild <- struct{}{}:
				default:
				}
			})

		case <-rebuild:
			fmt.Fprintf(opts.out, "\n[%s] Change detected, rebuilding...\n", time.Now().Format("15:04:05"))
			runLintAndSynth(ctx, opts)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(opts.errOut, "Watch error: %v\n", err)

		case <-ctx.Done():
			fmt.Fprintln(opts.out, "\nStopping watch...")
			return nil
		}
	}
}

// isSourceChange reports whether event writes or creates a non-test .go file.
func isSourceChange(event fsnotify.Event) bool {
	if !strings.HasSuffix(event.Name, ".go") || strings.HasSuffix(event.Name, "_test.go") {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create) != 0
}

// resolveDirs converts ./... style patterns to absolute directories.
func resolveDirs(paths []string) ([]string, error) {
	var dirs []string
	seen := make(map[string]bool)

	for _, p := range paths {
		p = strings.TrimSuffix(p, "/...")
		if p == "" {
			p = "."
		}

		absPath, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		if !seen[absPath] {
			seen[absPath] = true
			dirs = append(dirs, absPath)
		}
	}

	return dirs, nil
}

// addDirRecursive adds a directory and all subdirectories to the watcher.
func addDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}

		base := filepath.Base(path)
		if path != dir && (strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_") || base == "vendor" || base == DefaultOutDir) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// runLintAndSynth lints every stack and, when lint passes, writes the
// templates to the output directory.
func runLintAndSynth(ctx context.Context, opts watchOptions) {
	if err := runSelf(ctx, opts, lintArgs(opts)...); err != nil {
		fmt.Fprintf(opts.out, "Lint failed, skipping synth: %v\n", err)
		return
	}
	fmt.Fprintln(opts.out, "Lint passed")

	if opts.lintOnly {
		return
	}

	if err := runSelf(ctx, opts, "synth", "-o", opts.outputDir); err != nil {
		fmt.Fprintf(opts.errOut, "Synth error: %v\n", err)
		return
	}
	fmt.Fprintln(opts.out, "Synth successful")
}

// lintArgs returns the lint subcommand run on each change. The threshold
// defaults to error: the EC2 stack's open SSH ingress is a standing warning.
func lintArgs(opts watchOptions) []string {
	failOn := opts.failOn
	if failOn == "" {
		failOn = "error"
	}
	return []string{"lint", "--fail-on", failOn}
}

// selfCommand returns the argv that rebuilds and runs this CLI with args.
func selfCommand(configPath string, args ...string) []string {
	argv := []string{"go", "run", "./cmd/awsstacks"}
	argv = append(argv, args...)
	if configPath != "" {
		argv = append(argv, "--config", configPath)
	}
	return argv
}

func runSelf(ctx context.Context, opts watchOptions, args ...string) error {
	argv := selfCommand(opts.configPath, args...)
	c := exec.CommandContext(ctx, argv[0], argv[1:]...)
	c.Stdout = opts.out
	c.Stderr = opts.errOut
	return c.Run()
}
