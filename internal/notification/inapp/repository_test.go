package inapp

import (
	"fmt"
	"testing"
)

func TestRepositoryEvictsOldestAndListsNewestFirst(t *testing.T) {
	repo := NewRepository(3)
	for i := 1; i <= 5; i++ {
		repo.Create(CreateParams{Title: fmt.Sprintf("entry-%d", i)})
	}

	items := repo.List(0)
	if len(items) != 3 {
		t.Fatalf("expected capacity-bound list, got %d", len(items))
	}
	want := []string{"entry-5", "entry-4", "entry-3"}
	for i, item := range items {
		if item.Title != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], item.Title)
		}
	}

	if got := repo.List(2); len(got) != 2 || got[0].Title != "entry-5" {
		t.Fatalf("unexpected limited list %+v", got)
	}
}

func TestRepositoryPartialFill(t *testing.T) {
	repo := NewRepository(4)
	repo.Create(CreateParams{Title: "a"})
	repo.Create(CreateParams{Title: "b"})

	items := repo.List(10)
	if len(items) != 2 || items[0].Title != "b" || items[1].Title != "a" {
		t.Fatalf("unexpected list %+v", items)
	}
}
