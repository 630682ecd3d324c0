package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	tlog "github.com/Makepad-fr/tada/internal/log"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/tui"
	"github.com/Makepad-fr/tada/internal/ui"
)

func (a *app) lsCmd() *cobra.Command {
	var plain, group bool
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "Open the board, or print the list with --plain",
		Args:    exactArgs(0, "todo ls [--plain] [--group]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if plain {
				return a.printList(cmd, group)
			}
			return a.runBoard()
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print the list instead of opening the board")
	cmd.Flags().BoolVar(&group, "group", false, "group output by pending/done")
	return cmd
}

// printList numbers items the way done, rm and edit resolve indexes.
func (a *app) printList(cmd *cobra.Command, group bool) error {
	b, closeFn, err := a.openBackend()
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, cancel := a.timeout(cmd)
	defer cancel()
	items, err := fetchAll(ctx, b, a.cfg.API.PageSize)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}

	l := store.New(store.NewestFirst(items)...)
	ui.Panel(cmd.OutOrStdout(), ui.Listing(l.Sorted(), l.Counts(), group))
	return nil
}

// runBoard hands the terminal to the board. Logs go to a file meanwhile.
func (a *app) runBoard() error {
	path := a.cfg.Log.File
	if path == "" {
		path = tlog.DefaultFile()
	}
	f, err := tlog.OpenFile(path)
	if err != nil {
		return err
	}
	defer f.Close()
	tlog.Configure(tlog.Config{Level: a.cfg.Log.Level, Output: f})

	b, closeFn, err := a.openBackend()
	if err != nil {
		return err
	}
	defer closeFn()

	l := tlog.WithComponent("tui")
	return tui.Run(tui.Options{
		Backend:  b,
		PageSize: a.cfg.API.PageSize,
		OwnerID:  a.cfg.API.OwnerID,
		DeadZone: a.cfg.UI.DragDeadZone,
		Timeout:  a.cfg.API.Timeout,
		Logger:   &l,
	})
}
