package state

import (
	"testing"

	"github.com/desertthunder/sptx/internal/models"
)

func page(ids ...string) models.Page[models.FullTrack] {
	p := models.Page[models.FullTrack]{}
	for _, id := range ids {
		p.Items = append(p.Items, models.FullTrack{ID: id})
	}
	return p
}

func TestPages(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		var p Pages[models.FullTrack]
		if p.Results(nil) != nil || p.MutResults(nil) != nil {
			t.Fatal("expected no results on empty collection")
		}
		if p.Len() != 0 || len(p.Items()) != 0 {
			t.Fatal("expected no items")
		}
	})

	t.Run("Arrival Order", func(t *testing.T) {
		var p Pages[models.FullTrack]
		p.AddPage(page("a", "b"))
		p.AddPage(page("c"))
		p.AddPage(page("b", "d"))

		if p.Len() != 5 {
			t.Fatalf("expected 5 items, got %d", p.Len())
		}

		want := []string{"a", "b", "c", "b", "d"}
		for i, item := range p.Items() {
			if item.ID != want[i] {
				t.Fatalf("expected %s at %d, got %s", want[i], i, item.ID)
			}
		}
		if p.Count() != 3 || p.Index() != 2 {
			t.Fatalf("expected cursor on page 2 of 3, got %d of %d", p.Index(), p.Count())
		}
	})

	t.Run("Results By Index", func(t *testing.T) {
		var p Pages[models.FullTrack]
		p.AddPage(page("a"))
		p.AddPage(page("b"))

		first := 0
		if got := p.Results(&first); got == nil || got.Items[0].ID != "a" {
			t.Fatalf("expected first page, got %+v", got)
		}
		if got := p.Results(nil); got.Items[0].ID != "b" {
			t.Fatalf("expected current page, got %+v", got)
		}
		outside := 9
		if p.Results(&outside) != nil {
			t.Fatal("expected nil for out of range index")
		}
	})

	t.Run("MutResults Edits In Place", func(t *testing.T) {
		var p Pages[models.FullTrack]
		p.AddPage(page("a"))

		current := p.MutResults(nil)
		current.Items = append(current.Items, models.FullTrack{ID: "z"})

		if p.Len() != 2 {
			t.Fatalf("expected mutation to be stored, got %d items", p.Len())
		}

		copied := p.Results(nil)
		copied.Items = nil
		if p.Len() != 2 {
			t.Fatal("expected Results to return a copy")
		}
	})

	t.Run("Cursor", func(t *testing.T) {
		var p Pages[models.FullTrack]
		p.AddPage(page("a"))
		p.AddPage(page("b"))

		if p.Next() {
			t.Fatal("expected Next to stop at the last page")
		}
		if !p.Previous() || p.Index() != 0 {
			t.Fatalf("expected cursor at 0, got %d", p.Index())
		}
		if p.Previous() {
			t.Fatal("expected Previous to stop at the first page")
		}
		if !p.Next() || p.Results(nil).Items[0].ID != "b" {
			t.Fatal("expected Next to move to the second page")
		}

		p.Reset()
		if p.Count() != 0 {
			t.Fatal("expected reset to drop pages")
		}
	})
}
