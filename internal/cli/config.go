package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/ui"
)

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Args:  exactArgs(0, "todo config init|show|path"),
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return usagef("config: missing subcommand")
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the current configuration to the config file",
		Args:  exactArgs(0, "todo config init [--force]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path(a.configPath)
			if _, err := os.Stat(path); err == nil && !force {
				return usagef("config: %s already exists", path).withHint("pass --force to overwrite it")
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("config: %w", err)
			}
			if err := config.Save(path, a.cfg); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), "wrote "+path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  exactArgs(0, "todo config show"),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.cfg
			rows := [][2]string{
				{"backend", c.Backend},
				{"api.base_url", c.API.BaseURL},
				{"api.timeout", c.API.Timeout.String()},
				{"api.page_size", fmt.Sprint(c.API.PageSize)},
				{"api.rate", fmt.Sprint(c.API.Rate)},
				{"api.burst", fmt.Sprint(c.API.Burst)},
				{"api.owner_id", fmt.Sprint(c.API.OwnerID)},
				{"local.dir", c.Local.Dir},
				{"ui.theme", c.UI.Theme},
				{"ui.color", c.UI.Color},
				{"ui.drag_dead_zone", fmt.Sprint(c.UI.DragDeadZone)},
				{"log.level", c.Log.Level},
				{"log.file", c.Log.File},
			}
			for _, r := range rows {
				fmt.Fprintf(cmd.OutOrStdout(), "%-18s = %s\n", r[0], r[1])
			}
			return nil
		},
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  exactArgs(0, "todo config path"),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), config.Path(a.configPath))
		},
	}

	cmd.AddCommand(initCmd, showCmd, pathCmd)
	return cmd
}
