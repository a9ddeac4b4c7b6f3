// Package confirm models user confirmation dialogs as a two-step
// protocol: an operation requests a decision and returns a pending
// request; the caller later resolves it with confirmed or declined. An
// unresolved request never mutates anything.
package confirm

import (
	"sync"

	pkgerrors "github.com/baezlibros/storefront/pkg/errors"
	"github.com/google/uuid"
)

// Kind identifies what is being confirmed.
type Kind string

const (
	KindRemoveItem Kind = "remove-item"
	KindClearCart  Kind = "clear-cart"
	KindCheckout   Kind = "checkout"
)

// Decision is the user's answer to a pending request.
type Decision string

const (
	Confirmed Decision = "confirmed"
	Declined  Decision = "declined"
)

// Request is a pending confirmation. Payload carries whatever the view
// needs to phrase the dialog.
type Request struct {
	ID      uuid.UUID `json:"id"`
	Kind    Kind      `json:"kind"`
	Payload any       `json:"payload,omitempty"`
}

// Broker tracks pending confirmation requests by ID.
type Broker struct {
	mu      sync.Mutex
	pending map[uuid.UUID]*Request
}

func NewBroker() *Broker {
	return &Broker{pending: map[uuid.UUID]*Request{}}
}

// Request registers a new pending confirmation and returns it.
func (b *Broker) Request(kind Kind, payload any) *Request {
	req := &Request{
		ID:      uuid.New(),
		Kind:    kind,
		Payload: payload,
	}

	b.mu.Lock()
	b.pending[req.ID] = req
	b.mu.Unlock()

	return req
}

// Take removes and returns the pending request. Taking an unknown or
// already-resolved ID is NOT_FOUND.
func (b *Broker) Take(id uuid.UUID) (*Request, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	req, ok := b.pending[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no pending confirmation with that id")
	}
	delete(b.pending, id)
	return req, nil
}

// PendingCount reports the number of unresolved requests.
func (b *Broker) PendingCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}
