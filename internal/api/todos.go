package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/Makepad-fr/tada/internal/model"
)

// List fetches one page of todos.
func (c *Client) List(ctx context.Context, skip, limit int) (model.Page, error) {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(max(skip, 0)))
	q.Set("limit", strconv.Itoa(max(limit, 0)))

	var page model.Page
	if err := c.do(ctx, http.MethodGet, "/todos", q, nil, &page); err != nil {
		return model.Page{}, fmt.Errorf("list todos: %w", err)
	}
	return page, nil
}

// ListAll fetches every todo. The first page tells the total; the remaining
// pages are fetched concurrently and joined in order.
func (c *Client) ListAll(ctx context.Context, limit int) ([]model.Item, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	first, err := c.List(ctx, 0, limit)
	if err != nil {
		return nil, err
	}
	if len(first.Todos) == 0 || !first.More() {
		return first.Todos, nil
	}

	var skips []int
	for skip := len(first.Todos); skip < first.Total; skip += limit {
		skips = append(skips, skip)
	}
	pages := make([][]model.Item, len(skips))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(defaultFetchWorkers)
	for i, skip := range skips {
		i, skip := i, skip
		g.Go(func() error {
			p, err := c.List(gctx, skip, limit)
			if err != nil {
				return err
			}
			pages[i] = p.Todos
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]model.Item, 0, first.Total)
	out = append(out, first.Todos...)
	for _, p := range pages {
		out = append(out, p...)
	}
	return out, nil
}

// Get fetches a single todo.
func (c *Client) Get(ctx context.Context, id int) (model.Item, error) {
	var it model.Item
	if err := c.do(ctx, http.MethodGet, todoPath(id), nil, nil, &it); err != nil {
		return model.Item{}, fmt.Errorf("get todo %d: %w", id, err)
	}
	return it, nil
}

// Create adds a todo.
func (c *Client) Create(ctx context.Context, req model.CreateRequest) (model.Item, error) {
	var it model.Item
	if err := c.do(ctx, http.MethodPost, "/todos/add", nil, req, &it); err != nil {
		return model.Item{}, fmt.Errorf("create todo: %w", err)
	}
	return it, nil
}

// Update applies a partial update.
func (c *Client) Update(ctx context.Context, id int, req model.UpdateRequest) (model.Item, error) {
	var it model.Item
	if err := c.do(ctx, http.MethodPatch, todoPath(id), nil, req, &it); err != nil {
		return model.Item{}, fmt.Errorf("update todo %d: %w", id, err)
	}
	return it, nil
}

// Delete removes a todo.
func (c *Client) Delete(ctx context.Context, id int) error {
	if err := c.do(ctx, http.MethodDelete, todoPath(id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete todo %d: %w", id, err)
	}
	return nil
}

func todoPath(id int) string { return "/todos/" + strconv.Itoa(id) }
