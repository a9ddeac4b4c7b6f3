package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	pkgerrors "github.com/baezlibros/storefront/pkg/errors"
	"github.com/baezlibros/storefront/pkg/logger"
	"github.com/baezlibros/storefront/pkg/metrics"
	"github.com/baezlibros/storefront/pkg/storage"
	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// StoreParams groups dependencies for the catalog store.
type StoreParams struct {
	Source  Source
	KV      storage.KV
	Logger  *logger.Logger
	Metrics *metrics.StorefrontMetrics
}

// Store owns the live catalog and its stock counts. It is the single
// writer for Book.Stock; checkout settles through it.
type Store struct {
	source  Source
	kv      storage.KV
	logg    *logger.Logger
	metrics *metrics.StorefrontMetrics
	books   []*Book
	byID    map[string]*Book
}

// NewStore builds a catalog store with the required dependencies.
func NewStore(params StoreParams) (*Store, error) {
	if params.Source == nil {
		return nil, fmt.Errorf("catalog source required")
	}
	if params.KV == nil {
		return nil, fmt.Errorf("snapshot store required")
	}
	return &Store{
		source:  params.Source,
		kv:      params.KV,
		logg:    params.Logger,
		metrics: params.Metrics,
		byID:    map[string]*Book{},
	}, nil
}

// Load fetches the catalog source, populates the live catalog and applies
// the persisted stock overrides. A valid JSON document that is not a list
// yields an empty catalog; anything unreadable is a LOAD_FAILURE.
func (s *Store) Load(ctx context.Context) error {
	started := time.Now()

	data, err := s.source.Fetch(ctx)
	if err != nil {
		return err
	}

	records, err := decodeRecords(data)
	if err != nil {
		return err
	}

	books := make([]*Book, 0, len(records))
	byID := make(map[string]*Book, len(records))
	var invalid error
	for i, record := range records {
		if record.ID == "" {
			invalid = multierr.Append(invalid, fmt.Errorf("record %d: missing id", i))
			continue
		}
		if err := validate.Struct(record); err != nil {
			invalid = multierr.Append(invalid, fmt.Errorf("record %d (%s): %w", i, record.ID, err))
			continue
		}
		book := record.book()
		books = append(books, book)
		byID[book.ID] = book
	}
	if invalid != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "dropped", len(multierr.Errors(invalid))), "catalog records failed validation: "+invalid.Error())
	}

	s.books = books
	s.byID = byID

	overrides, err := s.readStockSnapshot(ctx)
	if err != nil {
		// Corrupted overrides fall back to source-declared stock.
		if s.logg != nil {
			s.logg.Warn(ctx, "ignoring unreadable stock snapshot: "+err.Error())
		}
	} else if overrides != nil {
		s.ApplyStockOverrides(overrides)
	}

	s.metrics.ObserveCatalogLoad(time.Since(started))
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "books", len(books)), "catalog loaded")
	}
	return nil
}

func decodeRecords(data []byte) ([]sourceRecord, error) {
	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeLoadFailure, err, "parse catalog payload")
	}
	if _, ok := probe.([]any); !ok {
		return nil, nil
	}
	var records []sourceRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeLoadFailure, err, "decode catalog records")
	}
	return records, nil
}

func (s *Store) readStockSnapshot(ctx context.Context) (map[string]int, error) {
	data, ok, err := s.kv.Read(ctx, storage.KeyStock)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read stock snapshot")
	}
	if !ok {
		return nil, nil
	}
	var overrides map[string]int
	if err := json.Unmarshal(data, &overrides); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorageParse, err, "parse stock snapshot")
	}
	return overrides, nil
}

// ApplyStockOverrides replaces the stock of every book whose identity
// appears in the override map. Books absent from the map keep their
// source-declared stock. Idempotent.
func (s *Store) ApplyStockOverrides(overrides map[string]int) {
	for _, book := range s.books {
		if stock, ok := overrides[book.ID]; ok {
			book.Stock = stock
		}
	}
}

// FindByID returns the live book for the identity, or NOT_FOUND.
func (s *Store) FindByID(id string) (*Book, error) {
	if book, ok := s.byID[id]; ok {
		return book, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "book not found")
}

// Items returns the live catalog in source order.
func (s *Store) Items() []*Book {
	return s.books
}

// Len reports the number of books in the live catalog.
func (s *Store) Len() int {
	return len(s.books)
}

// Genres returns the sorted distinct genres in the catalog.
func (s *Store) Genres() []string {
	seen := map[string]struct{}{}
	var genres []string
	for _, book := range s.books {
		if _, ok := seen[book.Genre]; ok {
			continue
		}
		seen[book.Genre] = struct{}{}
		genres = append(genres, book.Genre)
	}
	sort.Strings(genres)
	return genres
}

// PersistStock writes the {identity: stock} mapping for every book,
// fully replacing the prior snapshot.
func (s *Store) PersistStock(ctx context.Context) error {
	stock := make(map[string]int, len(s.books))
	for _, book := range s.books {
		stock[book.ID] = book.Stock
	}
	data, err := json.Marshal(stock)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal stock snapshot")
	}
	if err := s.kv.Write(ctx, storage.KeyStock, data); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write stock snapshot")
	}
	return nil
}
