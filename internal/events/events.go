// Package events carries the typed notifications the design engine emits
// toward storefront integrations. Subscribers are synchronous; an emit calls
// every live handler in subscription order on the emitting goroutine.
package events

import (
	"sort"
	"sync"
)

// DesignSaved announces that a design was exported, uploaded and persisted,
// carrying everything the cart integration needs to attach it to a line item.
type DesignSaved struct {
	DesignID   string
	PreviewURL string
	PrintURL   string
	Notes      string
	ProductID  int64
	VariantID  int64
}

// Emitter fans DesignSaved events out to registered handlers. The zero value
// is not usable; construct with New.
type Emitter struct {
	mu   sync.Mutex
	next int
	subs map[int]func(DesignSaved)
}

func New() *Emitter {
	return &Emitter{subs: map[int]func(DesignSaved){}}
}

// Subscribe registers a handler and returns its cancel function. Cancelling
// twice is safe.
func (e *Emitter) Subscribe(fn func(DesignSaved)) (cancel func()) {
	e.mu.Lock()
	id := e.next
	e.next++
	e.subs[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.subs, id)
		e.mu.Unlock()
	}
}

// Emit delivers the event to every current subscriber.
func (e *Emitter) Emit(ev DesignSaved) {
	e.mu.Lock()
	ids := make([]int, 0, len(e.subs))
	for id := range e.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(DesignSaved), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, e.subs[id])
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
