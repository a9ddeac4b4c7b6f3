package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sort selects the ordering of a catalog listing. The wire values match
// the storefront's sort selector options.
type Sort string

const (
	SortNone      Sort = "todos"
	SortPriceAsc  Sort = "precio-asc"
	SortPriceDesc Sort = "precio-desc"
	SortTitleAZ   Sort = "titulo-az"
)

// ListParams filters and orders a catalog listing. Query is matched
// case-insensitively as a substring of title or author; Genre is an
// exact match; empty values disable the respective filter.
type ListParams struct {
	Query string
	Genre string
	Sort  Sort
}

// Lister derives filtered, ordered views of a catalog store without
// mutating it. Collation is locale-aware for title ordering.
type Lister struct {
	store    *Store
	collator *collate.Collator
}

// NewLister builds a lister over the store using the given locale for
// title collation. Unparseable locales fall back to Spanish.
func NewLister(store *Store, locale string) *Lister {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Spanish
	}
	return &Lister{
		store:    store,
		collator: collate.New(tag),
	}
}

// List returns a new ordered sequence of the books matching params. The
// underlying catalog and its books are never mutated.
func (l *Lister) List(params ListParams) []*Book {
	query := strings.ToLower(strings.TrimSpace(params.Query))

	var result []*Book
	for _, book := range l.store.Items() {
		if query != "" &&
			!strings.Contains(strings.ToLower(book.Title), query) &&
			!strings.Contains(strings.ToLower(book.Author), query) {
			continue
		}
		if params.Genre != "" && book.Genre != params.Genre {
			continue
		}
		result = append(result, book)
	}

	switch params.Sort {
	case SortPriceAsc:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Price < result[j].Price
		})
	case SortPriceDesc:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Price > result[j].Price
		})
	case SortTitleAZ:
		sort.SliceStable(result, func(i, j int) bool {
			return l.collator.CompareString(result[i].Title, result[j].Title) < 0
		})
	}

	return result
}
