package model

// Item is the domain model for a todo entry.
// Field names follow the remote service's JSON shape.
type Item struct {
	ID        int    `json:"id"`
	Text      string `json:"todo"`
	Completed bool   `json:"completed"`
	OwnerID   int    `json:"userId"`
}

// Page is one slice of the remote collection.
type Page struct {
	Todos []Item `json:"todos"`
	Total int    `json:"total"`
	Skip  int    `json:"skip"`
	Limit int    `json:"limit"`
}

// More reports whether items exist past this page.
func (p Page) More() bool {
	return p.Skip+len(p.Todos) < p.Total
}

// CreateRequest is the body for creating an item.
type CreateRequest struct {
	Text      string `json:"todo"`
	Completed bool   `json:"completed"`
	OwnerID   int    `json:"userId"`
}

// UpdateRequest is a partial update; nil fields are left untouched.
type UpdateRequest struct {
	Text      *string `json:"todo,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// Empty reports whether the request changes nothing.
func (r UpdateRequest) Empty() bool { return r.Text == nil && r.Completed == nil }

// Apply returns it with the request's fields applied.
func (r UpdateRequest) Apply(it Item) Item {
	if r.Text != nil {
		it.Text = *r.Text
	}
	if r.Completed != nil {
		it.Completed = *r.Completed
	}
	return it
}

// SetCompleted builds a status-only update.
func SetCompleted(done bool) UpdateRequest { return UpdateRequest{Completed: &done} }

// SetText builds a text-only update.
func SetText(text string) UpdateRequest { return UpdateRequest{Text: &text} }
