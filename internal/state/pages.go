package state

import "github.com/desertthunder/sptx/internal/models"

// Pages accumulates the pages of a paginated collection in arrival order.
//
// The cursor points at the page the UI is showing. AddPage never deduplicates,
// so callers must not request a page that is already loaded.
type Pages[T any] struct {
	pages []models.Page[T]
	index int
}

// AddPage appends page and moves the cursor to it.
func (p *Pages[T]) AddPage(page models.Page[T]) {
	p.pages = append(p.pages, page)
	p.index = len(p.pages) - 1
}

func (p *Pages[T]) resolve(at *int) (int, bool) {
	i := p.index
	if at != nil {
		i = *at
	}
	if i < 0 || i >= len(p.pages) {
		return 0, false
	}
	return i, true
}

// Results returns a copy of the page at index at, or of the current page when at is nil.
func (p *Pages[T]) Results(at *int) *models.Page[T] {
	i, ok := p.resolve(at)
	if !ok {
		return nil
	}
	page := p.pages[i]
	return &page
}

// MutResults returns the stored page at index at (or the current page) for in-place edits.
func (p *Pages[T]) MutResults(at *int) *models.Page[T] {
	i, ok := p.resolve(at)
	if !ok {
		return nil
	}
	return &p.pages[i]
}

// Items flattens every page in arrival order.
func (p *Pages[T]) Items() []T {
	out := make([]T, 0, p.Len())
	for _, page := range p.pages {
		out = append(out, page.Items...)
	}
	return out
}

// Len is the total number of items across all pages.
func (p *Pages[T]) Len() int {
	n := 0
	for _, page := range p.pages {
		n += len(page.Items)
	}
	return n
}

// Count is the number of loaded pages.
func (p *Pages[T]) Count() int {
	return len(p.pages)
}

// Index is the cursor position.
func (p *Pages[T]) Index() int {
	return p.index
}

// Next moves the cursor forward; false when already on the last page.
func (p *Pages[T]) Next() bool {
	if p.index+1 >= len(p.pages) {
		return false
	}
	p.index++
	return true
}

// Previous moves the cursor back; false when already on the first page.
func (p *Pages[T]) Previous() bool {
	if p.index <= 0 {
		return false
	}
	p.index--
	return true
}

// Reset drops every page.
func (p *Pages[T]) Reset() {
	p.pages = nil
	p.index = 0
}
