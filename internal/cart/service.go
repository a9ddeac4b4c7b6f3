package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/baezlibros/storefront/internal/catalog"
	"github.com/baezlibros/storefront/pkg/config"
	pkgerrors "github.com/baezlibros/storefront/pkg/errors"
	"github.com/baezlibros/storefront/pkg/logger"
	"github.com/baezlibros/storefront/pkg/metrics"
	"github.com/baezlibros/storefront/pkg/storage"
)

// Line is one cart selection. Title, price and cover are snapshotted at
// add time for display stability; BookID is the sole link back to live
// stock. JSON tags match the persisted cart snapshot.
type Line struct {
	BookID   string `json:"id"`
	Title    string `json:"titulo"`
	Price    int    `json:"precio"`
	Cover    string `json:"portada"`
	StockMax int    `json:"stockMax"`
	Qty      int    `json:"cantidad"`
}

// Subtotal is the line's price times quantity.
func (l *Line) Subtotal() int {
	return l.Price * l.Qty
}

type bookFinder interface {
	FindByID(id string) (*catalog.Book, error)
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	Catalog  bookFinder
	KV       storage.KV
	Logger   *logger.Logger
	Metrics  *metrics.StorefrontMetrics
	Shipping config.ShippingConfig
}

// Service maintains the in-progress selections with stock-aware quantity
// control. Every mutation rewrites the persisted cart snapshot in full.
type Service struct {
	catalog  bookFinder
	kv       storage.KV
	logg     *logger.Logger
	metrics  *metrics.StorefrontMetrics
	shipping config.ShippingConfig
	lines    []*Line
}

// NewService builds a cart service backed by the provided stack.
func NewService(params ServiceParams) (*Service, error) {
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog required")
	}
	if params.KV == nil {
		return nil, fmt.Errorf("snapshot store required")
	}
	return &Service{
		catalog:  params.Catalog,
		kv:       params.KV,
		logg:     params.Logger,
		metrics:  params.Metrics,
		shipping: params.Shipping,
	}, nil
}

// Restore reads the persisted cart snapshot. A corrupted snapshot, be
// it unparseable JSON or parseable lines that are malformed, is
// discarded and the cart starts empty; only dependency failures surface.
func (s *Service) Restore(ctx context.Context) error {
	data, ok, err := s.kv.Read(ctx, storage.KeyCart)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read cart snapshot")
	}
	if !ok {
		return nil
	}
	lines, err := decodeLines(data)
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, "discarding unreadable cart snapshot: "+err.Error())
		}
		s.metrics.IncCartRejection("storage_parse")
		s.lines = nil
		return nil
	}
	s.lines = lines
	return nil
}

// decodeLines rejects snapshots whose entries could not round onward
// through the cart operations: nil entries, empty identities, or
// quantities below 1.
func decodeLines(data []byte) ([]*Line, error) {
	var lines []*Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, err
	}
	for i, line := range lines {
		if line == nil {
			return nil, fmt.Errorf("line %d is null", i)
		}
		if line.BookID == "" {
			return nil, fmt.Errorf("line %d has no id", i)
		}
		if line.Qty < 1 {
			return nil, fmt.Errorf("line %d has quantity %d", i, line.Qty)
		}
	}
	return lines, nil
}

// QuantityOf returns the quantity of the book in the cart, 0 if absent.
func (s *Service) QuantityOf(bookID string) int {
	if line := s.find(bookID); line != nil {
		return line.Qty
	}
	return 0
}

// Add puts one more unit of the book into the cart. The next quantity
// must not exceed the live stock; on rejection the cart is unchanged.
func (s *Service) Add(ctx context.Context, bookID string) (*Line, error) {
	book, err := s.catalog.FindByID(bookID)
	if err != nil {
		return nil, err
	}

	line := s.find(bookID)
	current := 0
	if line != nil {
		current = line.Qty
	}
	next := current + 1

	if next > book.Stock {
		s.metrics.IncCartRejection("insufficient_stock")
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock,
			fmt.Sprintf("only %d units of %q available", book.Stock, book.Title)).
			WithDetails(map[string]int{
				"stock":     book.Stock,
				"available": book.Stock - current,
			})
	}

	if line != nil {
		line.Qty = next
	} else {
		line = &Line{
			BookID:   book.ID,
			Title:    book.Title,
			Price:    book.Price,
			Cover:    book.Cover,
			StockMax: book.Stock,
			Qty:      1,
		}
		s.lines = append(s.lines, line)
	}

	s.persist(ctx)
	s.metrics.IncCartAdd()
	return line, nil
}

// Remove deletes the line entirely; partial removal is not supported.
// No-op if the book is not in the cart. Confirmation happens upstream.
func (s *Service) Remove(ctx context.Context, bookID string) error {
	if s.find(bookID) == nil {
		return nil
	}
	kept := s.lines[:0]
	for _, line := range s.lines {
		if line.BookID != bookID {
			kept = append(kept, line)
		}
	}
	s.lines = kept
	s.persist(ctx)
	return nil
}

// SetQuantity applies a requested quantity from user input. Non-numeric
// or sub-1 values clamp up to 1; values beyond the live catalog stock
// clamp down to that stock. No-op if the line or book is missing.
func (s *Service) SetQuantity(ctx context.Context, bookID, requested string) (int, error) {
	line := s.find(bookID)
	if line == nil {
		return 0, nil
	}
	book, err := s.catalog.FindByID(bookID)
	if err != nil {
		return line.Qty, nil
	}

	qty, err := strconv.Atoi(strings.TrimSpace(requested))
	if err != nil || qty < 1 {
		qty = 1
	}
	if qty > book.Stock {
		qty = book.Stock
	}

	line.Qty = qty
	s.persist(ctx)
	return qty, nil
}

// Clear empties the cart. An already-empty cart reports the
// informational EMPTY_CART outcome and nothing is persisted.
func (s *Service) Clear(ctx context.Context) error {
	if len(s.lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeEmptyCart, "the cart is already empty")
	}
	s.lines = nil
	s.persist(ctx)
	return nil
}

// AvailableStock is the book's live stock minus what the cart already
// holds, floored at zero.
func (s *Service) AvailableStock(book *catalog.Book) int {
	available := book.Stock - s.QuantityOf(book.ID)
	if available < 0 {
		return 0
	}
	return available
}

// Subtotal sums price times quantity over all lines.
func (s *Service) Subtotal() int {
	total := 0
	for _, line := range s.lines {
		total += line.Subtotal()
	}
	return total
}

// ShippingCost is zero once the subtotal strictly exceeds the free
// threshold, else the flat fee.
func (s *Service) ShippingCost(subtotal int) int {
	if subtotal > s.shipping.FreeThreshold {
		return 0
	}
	return s.shipping.FlatFee
}

// Total is the subtotal plus shipping.
func (s *Service) Total() int {
	subtotal := s.Subtotal()
	return subtotal + s.ShippingCost(subtotal)
}

// Lines returns the cart contents in insertion order.
func (s *Service) Lines() []*Line {
	return s.lines
}

// LineCount is the number of distinct books in the cart.
func (s *Service) LineCount() int {
	return len(s.lines)
}

// UnitCount sums the quantities of all lines (the cart badge number).
func (s *Service) UnitCount() int {
	units := 0
	for _, line := range s.lines {
		units += line.Qty
	}
	return units
}

func (s *Service) find(bookID string) *Line {
	for _, line := range s.lines {
		if line.BookID == bookID {
			return line
		}
	}
	return nil
}

// persist rewrites the cart snapshot in full. Best effort: a failed
// write is logged and the in-memory cart stays authoritative.
func (s *Service) persist(ctx context.Context) {
	lines := s.lines
	if lines == nil {
		lines = []*Line{}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "marshal cart snapshot", err)
		}
		return
	}
	if err := s.kv.Write(ctx, storage.KeyCart, data); err != nil && s.logg != nil {
		s.logg.Error(ctx, "write cart snapshot", err)
	}
}
