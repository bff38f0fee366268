package models

// Page is an offset-paginated API response.
type Page[T any] struct {
	Href     string  `json:"href"`
	Items    []T     `json:"items"`
	Limit    int     `json:"limit"`
	Offset   int     `json:"offset"`
	Total    int     `json:"total"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

// HasNext reports whether another page follows.
func (p *Page[T]) HasNext() bool {
	return p != nil && p.Next != nil && *p.Next != ""
}

// NextOffset is the offset of the page after this one.
func (p *Page[T]) NextOffset() int {
	return p.Offset + len(p.Items)
}

// Cursors locate a position in a cursor-paginated list.
type Cursors struct {
	After  string `json:"after"`
	Before string `json:"before,omitempty"`
}

// CursorPage is a cursor-paginated API response (followed artists, recently played).
type CursorPage[T any] struct {
	Href    string  `json:"href"`
	Items   []T     `json:"items"`
	Limit   int     `json:"limit"`
	Total   int     `json:"total"`
	Next    *string `json:"next"`
	Cursors Cursors `json:"cursors"`
}

// Page converts the response to an offset page so it can be accumulated alongside other collections.
func (c CursorPage[T]) Page() Page[T] {
	return Page[T]{
		Href:  c.Href,
		Items: c.Items,
		Limit: c.Limit,
		Total: c.Total,
		Next:  c.Next,
	}
}

// PageItems maps the items of p through fn.
func PageItems[T, R any](p *Page[T], fn func(T) R) []R {
	if p == nil {
		return nil
	}
	out := make([]R, 0, len(p.Items))
	for _, item := range p.Items {
		out = append(out, fn(item))
	}
	return out
}
