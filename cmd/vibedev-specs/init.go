package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yinwm/vibedevtools/internal/config"
	"github.com/yinwm/vibedevtools/internal/fs"
	"github.com/yinwm/vibedevtools/internal/status"
)

func newInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write vibedev.yml and create the specs directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, a.cfg, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing vibedev.yml")
	return cmd
}

func runInit(cmd *cobra.Command, cfg *config.Config, force bool) error {
	out := cmd.OutOrStdout()
	fsys := fs.NewReal()

	exists, err := fsys.Exists(config.ProjectPath())
	if err != nil {
		return err
	}
	if exists && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", config.ProjectPath())
	}
	if err := config.WriteProject(cfg); err != nil {
		return err
	}

	idx := status.NewIndex(status.NewFileStore(cfg.SpecsDir, fsys))
	if err := idx.Ensure(); err != nil {
		return err
	}

	fmt.Fprintf(out, "Wrote %s\n", config.ProjectPath())
	fmt.Fprintf(out, "Specs directory: %s\n", cfg.SpecsDir)
	return nil
}
