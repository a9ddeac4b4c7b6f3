package checkout

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/baezlibros/storefront/internal/cart"
	"github.com/baezlibros/storefront/internal/catalog"
	pkgerrors "github.com/baezlibros/storefront/pkg/errors"
	"github.com/baezlibros/storefront/pkg/logger"
	"github.com/baezlibros/storefront/pkg/metrics"
	"go.uber.org/multierr"
)

// Summary is the purchase preview shown before confirmation.
type Summary struct {
	LineCount int `json:"lines"`
	UnitCount int `json:"units"`
	Subtotal  int `json:"subtotal"`
	Shipping  int `json:"shipping"`
	Total     int `json:"total"`
}

// Receipt is the outcome of a settled purchase. The order reference is
// derived from the settlement timestamp and is only locally distinct.
type Receipt struct {
	OrderRef string `json:"order_ref"`
	Summary
}

// ServiceParams groups dependencies for the settlement service.
type ServiceParams struct {
	Catalog *catalog.Store
	Cart    *cart.Service
	Logger  *logger.Logger
	Metrics *metrics.StorefrontMetrics
	Clock   func() time.Time
}

// Service transitions cart contents into committed stock reductions.
type Service struct {
	catalog *catalog.Store
	cart    *cart.Service
	logg    *logger.Logger
	metrics *metrics.StorefrontMetrics
	clock   func() time.Time
}

// NewService builds the settlement service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog store required")
	}
	if params.Cart == nil {
		return nil, fmt.Errorf("cart service required")
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		catalog: params.Catalog,
		cart:    params.Cart,
		logg:    params.Logger,
		metrics: params.Metrics,
		clock:   clock,
	}, nil
}

// Preview returns the purchase summary for the confirmation dialog.
// An empty cart reports the informational EMPTY_CART outcome.
func (s *Service) Preview() (Summary, error) {
	if s.cart.LineCount() == 0 {
		return Summary{}, pkgerrors.New(pkgerrors.CodeEmptyCart, "add some books before checking out")
	}
	subtotal := s.cart.Subtotal()
	shipping := s.cart.ShippingCost(subtotal)
	return Summary{
		LineCount: s.cart.LineCount(),
		UnitCount: s.cart.UnitCount(),
		Subtotal:  subtotal,
		Shipping:  shipping,
		Total:     subtotal + shipping,
	}, nil
}

// Settle applies every cart line to the live stock, persists the stock
// snapshot, clears the cart and returns the receipt. Each line's
// quantity is at most the live stock by construction of the cart rules;
// the floor at zero covers any snapshot drift. Storage writes are best
// effort: failures are logged, never partial-applied.
func (s *Service) Settle(ctx context.Context) (*Receipt, error) {
	summary, err := s.Preview()
	if err != nil {
		return nil, err
	}

	for _, line := range s.cart.Lines() {
		book, err := s.catalog.FindByID(line.BookID)
		if err != nil {
			continue
		}
		book.Stock -= line.Qty
		if book.Stock < 0 {
			book.Stock = 0
		}
	}

	var persistErr error
	persistErr = multierr.Append(persistErr, s.catalog.PersistStock(ctx))
	persistErr = multierr.Append(persistErr, s.cart.Clear(ctx))
	if persistErr != nil && s.logg != nil {
		s.logg.Error(ctx, "settlement persisted partially", persistErr)
	}

	receipt := &Receipt{
		OrderRef: orderRef(s.clock()),
		Summary:  summary,
	}

	s.metrics.ObserveCheckout(summary.UnitCount)
	if s.logg != nil {
		s.logg.Info(s.logg.WithOrderRef(ctx, receipt.OrderRef), "purchase settled")
	}
	return receipt, nil
}

// orderRef keeps the last 6 digits of the unix-millisecond timestamp.
func orderRef(now time.Time) string {
	millis := strconv.FormatInt(now.UnixMilli(), 10)
	if len(millis) <= 6 {
		return millis
	}
	return millis[len(millis)-6:]
}
