package catalog

import (
	"context"
	"testing"
)

func loadedLister(t *testing.T) (*Store, *Lister) {
	t.Helper()

	store := newTestStore(t, catalogJSON, nil)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return store, NewLister(store, "es")
}

func titles(books []*Book) []string {
	out := make([]string, 0, len(books))
	for _, book := range books {
		out = append(out, book.Title)
	}
	return out
}

func TestListQueryMatchesTitleOrAuthor(t *testing.T) {
	_, lister := loadedLister(t)

	byTitle := lister.List(ListParams{Query: "rayu"})
	if len(byTitle) != 1 || byTitle[0].ID != "101" {
		t.Fatalf("title query failed: %v", titles(byTitle))
	}

	byAuthor := lister.List(ListParams{Query: "BORGES"})
	if len(byAuthor) != 2 {
		t.Fatalf("author query should be case-insensitive: %v", titles(byAuthor))
	}
}

func TestListGenreExactMatch(t *testing.T) {
	store, lister := loadedLister(t)

	cuentos := lister.List(ListParams{Genre: "Cuento"})
	if len(cuentos) != 2 {
		t.Fatalf("expected 2 cuentos, got %v", titles(cuentos))
	}

	none := lister.List(ListParams{Genre: "Poesía"})
	if len(none) != 0 {
		t.Fatalf("expected empty result, got %v", titles(none))
	}
	if store.Len() != 3 {
		t.Fatalf("filtering must not mutate the catalog, len=%d", store.Len())
	}
}

func TestListPriceSortsAreExactReverses(t *testing.T) {
	_, lister := loadedLister(t)

	asc := lister.List(ListParams{Sort: SortPriceAsc})
	desc := lister.List(ListParams{Sort: SortPriceDesc})

	if len(asc) != 3 || len(desc) != 3 {
		t.Fatalf("unexpected lengths %d/%d", len(asc), len(desc))
	}
	for i := range asc {
		if asc[i].ID != desc[len(desc)-1-i].ID {
			t.Fatalf("asc %v is not the reverse of desc %v", titles(asc), titles(desc))
		}
	}
	if asc[0].Price != 8000 || asc[2].Price != 12000 {
		t.Fatalf("bad ascending order: %v", titles(asc))
	}
}

func TestListTitleSortUsesCollation(t *testing.T) {
	_, lister := loadedLister(t)

	sorted := lister.List(ListParams{Sort: SortTitleAZ})
	want := []string{"El Aleph", "Ficciones", "Rayuela"}
	got := titles(sorted)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestListUnorderedKeepsSourceOrder(t *testing.T) {
	_, lister := loadedLister(t)

	listed := lister.List(ListParams{Sort: SortNone})
	got := titles(listed)
	want := []string{"Rayuela", "Ficciones", "El Aleph"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected source order %v, got %v", want, got)
		}
	}
}

func TestListDoesNotMutateCatalogOrder(t *testing.T) {
	store, lister := loadedLister(t)

	_ = lister.List(ListParams{Sort: SortPriceAsc})

	if store.Items()[0].ID != "101" {
		t.Fatalf("sort leaked into the catalog: %v", titles(store.Items()))
	}
}
