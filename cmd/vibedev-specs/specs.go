package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yinwm/vibedevtools/internal/checklist"
	"github.com/yinwm/vibedevtools/internal/status"
)

func newListCmd(a *app) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List specs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, cleanup := a.manager()
			defer cleanup()

			if filter == "all" {
				filter = ""
			}
			entries, err := m.List(filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No specs found.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "SESSION\tNAME\tSTATUS\tUPDATED")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.SessionID, e.Name, e.OverallStatus, e.Updated)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&filter, "status", "", "Filter by status: in_progress, completed, paused, archived, all")
	return cmd
}

func newStatusCmd(a *app) *cobra.Command {
	var feature string

	cmd := &cobra.Command{
		Use:   "status <session_id>",
		Short: "Show the status record of a spec",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, cleanup := a.manager()
			defer cleanup()

			rec, err := m.LoadChecked(args[0], feature)
			if err != nil {
				return err
			}
			return writeYAML(cmd, rec)
		},
	}

	cmd.Flags().StringVar(&feature, "feature", "", "Fail unless the session belongs to this feature")
	return cmd
}

// progressReport is what the progress command prints.
type progressReport struct {
	Feature    string                    `yaml:"feature"`
	Total      int                       `yaml:"total"`
	Completed  int                       `yaml:"completed"`
	Percentage int                       `yaml:"percentage"`
	Details    checklist.ProgressDetails `yaml:"details"`
	NextTasks  []string                  `yaml:"next_tasks"`
}

func newProgressCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "progress <feature>",
		Short: "Show task progress parsed from a feature's tasks.md",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, cleanup := a.manager()
			defer cleanup()

			res, err := m.TaskProgress(args[0])
			if status.IsKind(err, status.KindNotFound) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: no progress yet (tasks.md not written)\n", args[0])
				return nil
			}
			if err != nil {
				return err
			}

			next := make([]string, 0, len(res.Upcoming))
			for _, it := range res.Upcoming {
				next = append(next, it.Text)
			}
			return writeYAML(cmd, progressReport{
				Feature:    args[0],
				Total:      res.Total,
				Completed:  res.Completed,
				Percentage: res.Percentage,
				Details:    checklist.Details(res),
				NextTasks:  next,
			})
		},
	}
}

// errInvalidChecklist makes validate exit non-zero after printing issues.
var errInvalidChecklist = errors.New("checklist has formatting issues")

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a markdown task checklist for formatting issues",
		Args:  cobra.ExactArgs(1),
		// Works on any file; no specs directory needed.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			v := checklist.Validate(string(data))
			out := cmd.OutOrStdout()
			if v.Valid {
				fmt.Fprintf(out, "%s: OK\n", args[0])
				return nil
			}
			for _, is := range v.Issues {
				fmt.Fprintf(out, "%s:%d: %s\n  %s\n", args[0], is.Line, is.Message, is.Suggestion)
			}
			return errInvalidChecklist
		},
	}
}

func writeYAML(cmd *cobra.Command, v any) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}
