// Package jsonstore is the offline backend: a single human-readable JSON
// file holding every todo.
package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/renameio/v2"

	"github.com/Makepad-fr/tada/internal/model"
)

const dataFileName = "todos.json"

// ErrNotFound is returned for unknown ids.
var ErrNotFound = errors.New("todo not found")

// Store keeps todos in dir/todos.json. It is safe for concurrent use within
// one process.
type Store struct {
	mu   sync.Mutex
	path string
}

var _ model.Backend = (*Store)(nil)

// New returns a store rooted at dir. The file is created on first write.
func New(dir string) *Store {
	return &Store{path: filepath.Join(dir, dataFileName)}
}

// Path is the data file location.
func (s *Store) Path() string { return s.path }

// record accepts both the current shape and the older {title, done} one.
type record struct {
	ID        int    `json:"id"`
	Text      string `json:"todo"`
	Completed bool   `json:"completed"`
	OwnerID   int    `json:"userId"`

	Title string `json:"title,omitempty"`
	Done  bool   `json:"done,omitempty"`
}

func (s *Store) load() ([]model.Item, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Item{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	var recs []record
	if err := json.Unmarshal(b, &recs); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	items := make([]model.Item, 0, len(recs))
	next := 1
	for _, r := range recs {
		next = max(next, r.ID+1)
	}
	for _, r := range recs {
		it := model.Item{ID: r.ID, Text: r.Text, Completed: r.Completed || r.Done, OwnerID: r.OwnerID}
		if it.Text == "" {
			it.Text = r.Title
		}
		if it.ID == 0 {
			it.ID = next
			next++
		}
		if it.OwnerID == 0 {
			it.OwnerID = model.DefaultOwnerID
		}
		items = append(items, it)
	}
	return items, nil
}

func (s *Store) save(items []model.Item) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := renameio.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// All returns every stored todo in file order.
func (s *Store) All(ctx context.Context) ([]model.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) List(ctx context.Context, skip, limit int) (model.Page, error) {
	items, err := s.All(ctx)
	if err != nil {
		return model.Page{}, err
	}
	skip = min(max(skip, 0), len(items))
	end := len(items)
	if limit > 0 {
		end = min(skip+limit, len(items))
	}
	return model.Page{Todos: items[skip:end], Total: len(items), Skip: skip, Limit: limit}, nil
}

// Create appends a todo with the next free id.
func (s *Store) Create(ctx context.Context, req model.CreateRequest) (model.Item, error) {
	if err := ctx.Err(); err != nil {
		return model.Item{}, err
	}
	valid, err := model.NewCreateRequest(req.Text, req.OwnerID)
	if err != nil {
		return model.Item{}, err
	}
	valid.Completed = req.Completed

	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.load()
	if err != nil {
		return model.Item{}, err
	}
	id := 1
	for _, it := range items {
		id = max(id, it.ID+1)
	}
	it := model.Item{ID: id, Text: valid.Text, Completed: valid.Completed, OwnerID: valid.OwnerID}
	if err := s.save(append(items, it)); err != nil {
		return model.Item{}, err
	}
	return it, nil
}

func (s *Store) Update(ctx context.Context, id int, req model.UpdateRequest) (model.Item, error) {
	if err := ctx.Err(); err != nil {
		return model.Item{}, err
	}
	if err := req.Validate(); err != nil {
		return model.Item{}, err
	}
	if req.Text != nil {
		t, _ := model.NormalizeText(*req.Text)
		req.Text = &t
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.load()
	if err != nil {
		return model.Item{}, err
	}
	i := indexOf(items, id)
	if i < 0 {
		return model.Item{}, fmt.Errorf("update %d: %w", id, ErrNotFound)
	}
	items[i] = req.Apply(items[i])
	if err := s.save(items); err != nil {
		return model.Item{}, err
	}
	return items[i], nil
}

func (s *Store) Delete(ctx context.Context, id int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.load()
	if err != nil {
		return err
	}
	i := indexOf(items, id)
	if i < 0 {
		return fmt.Errorf("delete %d: %w", id, ErrNotFound)
	}
	return s.save(append(items[:i], items[i+1:]...))
}

func indexOf(items []model.Item, id int) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
