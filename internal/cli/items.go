package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	tlog "github.com/Makepad-fr/tada/internal/log"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/ui"
)

func (a *app) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a new item (title can be multiple words)",
		Args:  minArgs(1, "todo add <title...>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := model.NewCreateRequest(strings.Join(args, " "), a.cfg.API.OwnerID)
			if err != nil {
				return usagef("add: %v", err)
			}
			b, closeFn, err := a.openBackend()
			if err != nil {
				return err
			}
			defer closeFn()

			ctx, cancel := a.timeout(cmd)
			defer cancel()
			it, err := b.Create(ctx, req)
			if err != nil {
				return fmt.Errorf("add: %w", err)
			}
			a.log.Debug().Int(tlog.FieldItemID, it.ID).Str(tlog.FieldEvent, "item.created").Msg("added")
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("added #%d", it.ID))
			return nil
		},
	}
}

func (a *app) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <index>",
		Short: "Toggle done for the item at a 1-based index",
		Args:  exactArgs(1, "todo done <index>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withItem(cmd, "done", args[0], func(ctx context.Context, b model.Backend, it model.Item) (string, error) {
				if _, err := b.Update(ctx, it.ID, model.SetCompleted(!it.Completed)); err != nil {
					return "", err
				}
				if it.Completed {
					return "reopened", nil
				}
				return "completed", nil
			})
		},
	}
}

func (a *app) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <index>",
		Aliases: []string{"remove"},
		Short:   "Remove the item at a 1-based index",
		Args:    exactArgs(1, "todo rm <index>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withItem(cmd, "rm", args[0], func(ctx context.Context, b model.Backend, it model.Item) (string, error) {
				if err := b.Delete(ctx, it.ID); err != nil {
					return "", err
				}
				return "removed", nil
			})
		},
	}
}

func (a *app) editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <index> <title...>",
		Short: "Change the title of the item at a 1-based index",
		Args:  minArgs(2, "todo edit <index> <title...>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := model.NormalizeText(strings.Join(args[1:], " "))
			if err != nil {
				return usagef("edit: %v", err)
			}
			return a.withItem(cmd, "edit", args[0], func(ctx context.Context, b model.Backend, it model.Item) (string, error) {
				if _, err := b.Update(ctx, it.ID, model.SetText(text)); err != nil {
					return "", err
				}
				return "updated", nil
			})
		},
	}
}

// withItem resolves a 1-based index against the listing order and runs fn
// on that item.
func (a *app) withItem(cmd *cobra.Command, op, arg string, fn func(context.Context, model.Backend, model.Item) (string, error)) error {
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
	sorted := store.SortItems(store.NewestFirst(items))
	i, err := parseIndex(op, arg, len(sorted))
	if err != nil {
		return err
	}
	it := sorted[i]

	done, err := fn(ctx, b, it)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	a.log.Debug().Int(tlog.FieldItemID, it.ID).Str(tlog.FieldEvent, "item."+op).Msg(done)
	ui.OK(cmd.OutOrStdout(), fmt.Sprintf("%s #%d %s", done, i+1, ui.Truncate(it.Text, 60)))
	return nil
}

type allLister interface {
	ListAll(ctx context.Context, limit int) ([]model.Item, error)
}

// fetchAll reads every item, using the backend's bulk fetch when it has
// one and paging otherwise.
func fetchAll(ctx context.Context, b model.Backend, limit int) ([]model.Item, error) {
	if l, ok := b.(allLister); ok {
		return l.ListAll(ctx, limit)
	}
	if limit <= 0 {
		limit = store.DefaultPageSize
	}
	var out []model.Item
	for skip := 0; ; {
		page, err := b.List(ctx, skip, limit)
		if err != nil {
			return nil, err
		}
		out = append(out, page.Todos...)
		if len(page.Todos) == 0 || !page.More() {
			return out, nil
		}
		skip = page.Skip + len(page.Todos)
	}
}
