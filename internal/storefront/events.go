package storefront

import (
	"github.com/baezlibros/storefront/internal/checkout"
	"github.com/baezlibros/storefront/internal/confirm"
)

// EventKind labels the outcomes the engine publishes to its subscribers.
// The view layer re-renders in response instead of being called by the
// mutation paths directly.
type EventKind string

const (
	EventCatalogLoaded         EventKind = "catalog-loaded"
	EventCatalogUpdated        EventKind = "catalog-updated"
	EventCartUpdated           EventKind = "cart-updated"
	EventConfirmationRequested EventKind = "confirmation-requested"
	EventCheckoutCompleted     EventKind = "checkout-completed"
	EventThemeChanged          EventKind = "theme-changed"
)

// Event is a single outcome. Only the fields relevant to the kind are
// populated.
type Event struct {
	Kind    EventKind
	Request *confirm.Request
	Receipt *checkout.Receipt
	Theme   string
}

// Subscriber receives engine outcomes. Callbacks run synchronously on
// the mutating call, matching the single-threaded event model.
type Subscriber func(Event)
