// vibedev-specs: spec-driven development workflow server.
//
// An MCP server that walks an AI coding assistant through goal,
// requirements, design, tasks and execution, keeping per-feature status
// under .vibedev/specs/.
//
// Usage:
//
//	vibedev-specs serve              # Start MCP server (stdio transport)
//	vibedev-specs list               # List specs
//	vibedev-specs status <session>   # Show one spec's status
//	vibedev-specs progress <feature> # Task progress from tasks.md
//	vibedev-specs validate <file>    # Check a tasks checklist
//	vibedev-specs init               # Write vibedev.yml
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yinwm/vibedevtools/internal/config"
	"github.com/yinwm/vibedevtools/internal/fs"
	"github.com/yinwm/vibedevtools/internal/journal"
	"github.com/yinwm/vibedevtools/internal/logger"
	"github.com/yinwm/vibedevtools/internal/status"
)

func main() {
	defer func() { _ = logger.Close() }()

	if err := newRootCmd().Execute(); err != nil {
		printError(os.Stderr, err)
		_ = logger.Close()
		os.Exit(1)
	}
}

// app carries the configuration resolved before any subcommand runs.
type app struct {
	cfg *config.Config

	specsDir string
	logLevel string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "vibedev-specs",
		Short: "Spec-driven development workflow server",
		Long: `vibedev-specs guides an AI assistant from a feature goal to executed tasks:
goal, requirements, design, tasks, execution. It serves the workflow over
MCP (stdio) and keeps each feature's status under the specs directory.

Configuration is loaded from multiple sources with the following precedence:
  CLI flags > Environment variables > Project config > Global config > Defaults

Project config: ./vibedev.yml
Global config: ~/.config/vibedev/vibedev.yml`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.load,
	}

	root.PersistentFlags().StringVar(&a.specsDir, "specs-dir", "", "Specs directory (default: .vibedev/specs)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (default: warn)")

	root.AddCommand(
		newServeCmd(a),
		newListCmd(a),
		newStatusCmd(a),
		newProgressCmd(a),
		newValidateCmd(),
		newInitCmd(a),
		newVersionCmd(),
	)
	return root
}

// load resolves configuration and applies flags on top of it.
func (a *app) load(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("specs-dir") {
		cfg.SpecsDir = a.specsDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}

	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return fmt.Errorf("configuring logger: %w", err)
	}
	a.cfg = cfg
	return nil
}

// manager opens the status manager, attaching the journal when enabled.
// The returned cleanup is always non-nil.
func (a *app) manager() (*status.Manager, func()) {
	m := status.NewManager(status.NewFileStore(a.cfg.SpecsDir, fs.NewReal()))
	if !a.cfg.Journal {
		return m, func() {}
	}
	j, err := journal.Open(a.cfg.ResolvedJournalPath())
	if err != nil {
		logger.Warn("journal disabled: %v", err)
		return m, func() {}
	}
	m.SetObserver(j)
	return m, func() { _ = j.Close() }
}

// printError writes err and, for status errors, its remediation hint.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	if hint := status.HintOf(err); hint != "" {
		fmt.Fprintf(w, "Hint: %s\n", hint)
	}
}
