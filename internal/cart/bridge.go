// Package cart turns saved designs into the hidden line item properties the
// Shopify add-to-cart form submits.
package cart

import (
	"net/url"
	"sync"

	"github.com/sarvsartsandcraftsllc-lgtm/shopify-customizer-app/internal/events"
	"github.com/sarvsartsandcraftsllc-lgtm/shopify-customizer-app/internal/shopify"
)

// Bridge listens for saved designs on one product page and exposes the
// latest one as /cart/add form properties. Saves for other products are
// ignored.
type Bridge struct {
	productID int64
	variantID int64

	mu     sync.Mutex
	design *events.DesignSaved

	cancel func()
}

func NewBridge(emitter *events.Emitter, productID, variantID int64) *Bridge {
	b := &Bridge{productID: productID, variantID: variantID}
	b.cancel = emitter.Subscribe(b.onSaved)
	return b
}

func (b *Bridge) onSaved(ev events.DesignSaved) {
	if ev.ProductID != b.productID || ev.VariantID != b.variantID {
		return
	}
	b.mu.Lock()
	b.design = &ev
	b.mu.Unlock()
}

// Ready reports whether a design is attached and the form can be submitted.
func (b *Bridge) Ready() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.design != nil
}

// Design returns the attached design, or nil.
func (b *Bridge) Design() *events.DesignSaved {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.design == nil {
		return nil
	}
	d := *b.design
	return &d
}

// FormProperties renders the attached design as the properties[...] fields
// Shopify carries onto the order's line item.
func (b *Bridge) FormProperties() url.Values {
	b.mu.Lock()
	defer b.mu.Unlock()

	v := url.Values{}
	if b.design == nil {
		return v
	}
	v.Set("properties["+shopify.PropDesignID+"]", b.design.DesignID)
	v.Set("properties["+shopify.PropPreviewURL+"]", b.design.PreviewURL)
	v.Set("properties["+shopify.PropPrintURL+"]", b.design.PrintURL)
	if b.design.Notes != "" {
		v.Set("properties["+shopify.PropNotes+"]", b.design.Notes)
	}
	return v
}

// Reset detaches the current design, e.g. after a successful add-to-cart.
func (b *Bridge) Reset() {
	b.mu.Lock()
	b.design = nil
	b.mu.Unlock()
}

// Close unsubscribes from the emitter.
func (b *Bridge) Close() {
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
}
