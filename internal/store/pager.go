package store

import "github.com/Makepad-fr/tada/internal/model"

// DefaultPageSize matches the remote service's default page.
const DefaultPageSize = 30

// Pager tracks skip/limit progress through a paginated collection.
type Pager struct {
	limit   int
	next    int
	hasMore bool
	loading bool
}

func NewPager(limit int) *Pager {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	return &Pager{limit: limit, hasMore: true}
}

// Begin claims the next fetch. reset restarts from the first page. It
// returns false while a fetch is in flight or when nothing is left.
func (p *Pager) Begin(reset bool) (skip, limit int, ok bool) {
	if p.loading {
		return 0, 0, false
	}
	if reset {
		p.next = 0
		p.hasMore = true
	}
	if !p.hasMore {
		return 0, 0, false
	}
	p.loading = true
	return p.next, p.limit, true
}

// Done records a fetched page.
func (p *Pager) Done(page model.Page) {
	p.loading = false
	p.next = page.Skip + len(page.Todos)
	p.hasMore = len(page.Todos) > 0 && page.More()
}

// Fail stops paging after an error; a reset Begin starts again.
func (p *Pager) Fail() {
	p.loading = false
	p.hasMore = false
}

func (p *Pager) HasMore() bool { return p.hasMore }
func (p *Pager) Loading() bool { return p.loading }
func (p *Pager) Limit() int    { return p.limit }

// NearEnd reports whether cursor is within threshold rows of the end of a
// list holding count rows.
func NearEnd(cursor, count, threshold int) bool {
	if count == 0 {
		return true
	}
	return count-1-cursor <= threshold
}
