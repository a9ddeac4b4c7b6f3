package storefront

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/baezlibros/storefront/internal/cart"
	"github.com/baezlibros/storefront/internal/catalog"
	"github.com/baezlibros/storefront/internal/checkout"
	"github.com/baezlibros/storefront/internal/confirm"
	"github.com/baezlibros/storefront/pkg/config"
	"github.com/baezlibros/storefront/pkg/debounce"
	pkgerrors "github.com/baezlibros/storefront/pkg/errors"
	"github.com/baezlibros/storefront/pkg/logger"
	"github.com/baezlibros/storefront/pkg/metrics"
	"github.com/baezlibros/storefront/pkg/storage"
	"github.com/google/uuid"
)

const defaultTheme = "light"

// RemoveItemPayload phrases a remove-item confirmation dialog.
type RemoveItemPayload struct {
	BookID string `json:"id"`
	Title  string `json:"titulo"`
}

// Params groups the dependencies for the storefront engine.
type Params struct {
	Config  *config.Config
	Source  catalog.Source
	KV      storage.KV
	Logger  *logger.Logger
	Metrics *metrics.StorefrontMetrics
	Clock   func() time.Time
}

// Engine owns the catalog, cart and checkout state for one storefront
// session and exposes the operations the view layer invokes. All state
// is dependency-injected; there are no package-level globals.
type Engine struct {
	catalog  *catalog.Store
	lister   *catalog.Lister
	cart     *cart.Service
	checkout *checkout.Service
	broker   *confirm.Broker
	kv       storage.KV
	logg     *logger.Logger
	search   config.SearchConfig

	mu          sync.Mutex
	subscribers []Subscriber
	filters     catalog.ListParams
	theme       string
}

// New wires the engine. Params.Source may be nil, in which case it is
// derived from the configuration.
func New(params Params) (*Engine, error) {
	if params.Config == nil {
		return nil, fmt.Errorf("config required")
	}
	if params.KV == nil {
		return nil, fmt.Errorf("snapshot store required")
	}

	source := params.Source
	if source == nil {
		source = catalog.SourceFromConfig(params.Config.Catalog)
	}

	catalogStore, err := catalog.NewStore(catalog.StoreParams{
		Source:  source,
		KV:      params.KV,
		Logger:  params.Logger,
		Metrics: params.Metrics,
	})
	if err != nil {
		return nil, err
	}

	cartSvc, err := cart.NewService(cart.ServiceParams{
		Catalog:  catalogStore,
		KV:       params.KV,
		Logger:   params.Logger,
		Metrics:  params.Metrics,
		Shipping: params.Config.Shipping,
	})
	if err != nil {
		return nil, err
	}

	checkoutSvc, err := checkout.NewService(checkout.ServiceParams{
		Catalog: catalogStore,
		Cart:    cartSvc,
		Logger:  params.Logger,
		Metrics: params.Metrics,
		Clock:   params.Clock,
	})
	if err != nil {
		return nil, err
	}

	return &Engine{
		catalog:  catalogStore,
		lister:   catalog.NewLister(catalogStore, params.Config.Search.Locale),
		cart:     cartSvc,
		checkout: checkoutSvc,
		broker:   confirm.NewBroker(),
		kv:       params.KV,
		logg:     params.Logger,
		search:   params.Config.Search,
		theme:    defaultTheme,
	}, nil
}

// Start restores persisted session state and loads the catalog. A
// catalog load failure is fatal; the caller should surface a reload
// instruction to the user.
func (e *Engine) Start(ctx context.Context) error {
	e.restoreTheme(ctx)

	if err := e.cart.Restore(ctx); err != nil {
		return err
	}
	if err := e.catalog.Load(ctx); err != nil {
		return err
	}

	e.publish(Event{Kind: EventCatalogLoaded})
	e.publish(Event{Kind: EventCartUpdated})
	return nil
}

// Subscribe registers a view-layer callback for engine outcomes.
func (e *Engine) Subscribe(fn Subscriber) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subscribers = append(e.subscribers, fn)
}

func (e *Engine) publish(event Event) {
	e.mu.Lock()
	subs := make([]Subscriber, len(e.subscribers))
	copy(subs, e.subscribers)
	e.mu.Unlock()

	for _, fn := range subs {
		fn(event)
	}
}

// AddToCart puts one unit of the book in the cart. An unknown id is a
// no-op, mirroring a stale button in the view.
func (e *Engine) AddToCart(ctx context.Context, bookID string) error {
	_, err := e.cart.Add(ctx, bookID)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			if e.logg != nil {
				e.logg.Warn(e.logg.WithBookID(ctx, bookID), "add-to-cart for unknown book ignored")
			}
			return nil
		}
		return err
	}
	e.publish(Event{Kind: EventCartUpdated})
	return nil
}

// RemoveFromCart asks for confirmation before deleting the line. The
// returned request must be resolved to apply the removal; a nil request
// means the book was not in the cart.
func (e *Engine) RemoveFromCart(ctx context.Context, bookID string) (*confirm.Request, error) {
	var payload *RemoveItemPayload
	for _, line := range e.cart.Lines() {
		if line.BookID == bookID {
			payload = &RemoveItemPayload{BookID: line.BookID, Title: line.Title}
			break
		}
	}
	if payload == nil {
		return nil, nil
	}

	req := e.broker.Request(confirm.KindRemoveItem, payload)
	e.publish(Event{Kind: EventConfirmationRequested, Request: req})
	return req, nil
}

// ChangeQuantity applies a quantity typed by the user, clamped to
// [1, live stock].
func (e *Engine) ChangeQuantity(ctx context.Context, bookID, requested string) error {
	if _, err := e.cart.SetQuantity(ctx, bookID, requested); err != nil {
		return err
	}
	e.publish(Event{Kind: EventCartUpdated})
	return nil
}

// ClearCart asks for confirmation before emptying a non-empty cart. An
// empty cart reports the informational EMPTY_CART outcome immediately.
func (e *Engine) ClearCart(ctx context.Context) (*confirm.Request, error) {
	if e.cart.LineCount() == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "the cart is already empty")
	}
	req := e.broker.Request(confirm.KindClearCart, nil)
	e.publish(Event{Kind: EventConfirmationRequested, Request: req})
	return req, nil
}

// Checkout previews the purchase and asks for confirmation. Settlement
// happens when the request resolves confirmed.
func (e *Engine) Checkout(ctx context.Context) (*confirm.Request, error) {
	summary, err := e.checkout.Preview()
	if err != nil {
		return nil, err
	}
	req := e.broker.Request(confirm.KindCheckout, summary)
	e.publish(Event{Kind: EventConfirmationRequested, Request: req})
	return req, nil
}

// Resolve answers a pending confirmation. Declined requests leave all
// state unchanged.
func (e *Engine) Resolve(ctx context.Context, id uuid.UUID, decision confirm.Decision) error {
	req, err := e.broker.Take(id)
	if err != nil {
		return err
	}
	if decision != confirm.Confirmed {
		return nil
	}

	switch req.Kind {
	case confirm.KindRemoveItem:
		payload, ok := req.Payload.(*RemoveItemPayload)
		if !ok {
			return pkgerrors.New(pkgerrors.CodeInternal, "malformed remove-item payload")
		}
		if err := e.cart.Remove(ctx, payload.BookID); err != nil {
			return err
		}
		e.publish(Event{Kind: EventCartUpdated})
		return nil

	case confirm.KindClearCart:
		if err := e.cart.Clear(ctx); err != nil && !pkgerrors.IsCode(err, pkgerrors.CodeEmptyCart) {
			return err
		}
		e.publish(Event{Kind: EventCartUpdated})
		return nil

	case confirm.KindCheckout:
		receipt, err := e.checkout.Settle(ctx)
		if err != nil {
			return err
		}
		e.publish(Event{Kind: EventCatalogUpdated})
		e.publish(Event{Kind: EventCartUpdated})
		e.publish(Event{Kind: EventCheckoutCompleted, Receipt: receipt})
		return nil

	default:
		return pkgerrors.New(pkgerrors.CodeInternal, "unknown confirmation kind")
	}
}

// ApplyFilters derives the displayed listing. Pure: the catalog is
// never mutated. Debouncing of the free-text input belongs to the view.
func (e *Engine) ApplyFilters(query, genre string, sort catalog.Sort) []*catalog.Book {
	e.mu.Lock()
	e.filters = catalog.ListParams{Query: query, Genre: genre, Sort: sort}
	params := e.filters
	e.mu.Unlock()

	return e.lister.List(params)
}

// ClearFilters resets the listing to the unfiltered source order.
func (e *Engine) ClearFilters() []*catalog.Book {
	return e.ApplyFilters("", "", catalog.SortNone)
}

// SearchDebouncer builds a trailing-edge debouncer over the configured
// search window. The view triggers it on every keystroke and calls fn
// with the settled input.
func (e *Engine) SearchDebouncer(fn func()) *debounce.Debouncer {
	return debounce.New(e.search.Debounce(), fn)
}

// Filters returns the last-applied listing parameters.
func (e *Engine) Filters() catalog.ListParams {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filters
}

// Catalog exposes the catalog store for read paths in the view.
func (e *Engine) Catalog() *catalog.Store {
	return e.catalog
}

// Cart exposes the cart service for read paths in the view.
func (e *Engine) Cart() *cart.Service {
	return e.cart
}

// Theme returns the current display theme.
func (e *Engine) Theme() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.theme
}

// SetTheme persists the chosen display theme.
func (e *Engine) SetTheme(ctx context.Context, theme string) error {
	if theme == "" {
		theme = defaultTheme
	}

	e.mu.Lock()
	e.theme = theme
	e.mu.Unlock()

	data, err := json.Marshal(theme)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal theme")
	}
	if err := e.kv.Write(ctx, storage.KeyTheme, data); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write theme")
	}
	e.publish(Event{Kind: EventThemeChanged, Theme: theme})
	return nil
}

func (e *Engine) restoreTheme(ctx context.Context) {
	data, ok, err := e.kv.Read(ctx, storage.KeyTheme)
	if err != nil || !ok {
		return
	}
	var theme string
	if err := json.Unmarshal(data, &theme); err != nil || theme == "" {
		return
	}
	e.mu.Lock()
	e.theme = theme
	e.mu.Unlock()
}
