package cart

import (
	"testing"

	"github.com/sarvsartsandcraftsllc-lgtm/shopify-customizer-app/internal/events"
)

func TestBridgeAttachesMatchingDesign(t *testing.T) {
	em := events.New()
	b := NewBridge(em, 11, 21)
	defer b.Close()

	if b.Ready() {
		t.Fatalf("bridge ready before any save")
	}

	em.Emit(events.DesignSaved{
		DesignID:   "des-1",
		PreviewURL: "https://cdn/p.png",
		PrintURL:   "https://cdn/q.png",
		Notes:      "left chest",
		ProductID:  11,
		VariantID:  21,
	})

	if !b.Ready() {
		t.Fatalf("bridge not ready after matching save")
	}
	v := b.FormProperties()
	if v.Get("properties[design_id]") != "des-1" {
		t.Fatalf("design_id = %q", v.Get("properties[design_id]"))
	}
	if v.Get("properties[preview_url]") != "https://cdn/p.png" || v.Get("properties[print_url]") != "https://cdn/q.png" {
		t.Fatalf("urls = %v", v)
	}
	if v.Get("properties[notes]") != "left chest" {
		t.Fatalf("notes = %q", v.Get("properties[notes]"))
	}
}

func TestBridgeIgnoresOtherProducts(t *testing.T) {
	em := events.New()
	b := NewBridge(em, 11, 21)
	defer b.Close()

	em.Emit(events.DesignSaved{DesignID: "other", ProductID: 99, VariantID: 21})
	em.Emit(events.DesignSaved{DesignID: "other2", ProductID: 11, VariantID: 98})

	if b.Ready() {
		t.Fatalf("bridge attached a foreign design")
	}
	if len(b.FormProperties()) != 0 {
		t.Fatalf("form properties rendered with no design")
	}
}

func TestBridgeEmptyNotesOmitted(t *testing.T) {
	em := events.New()
	b := NewBridge(em, 1, 2)
	defer b.Close()

	em.Emit(events.DesignSaved{DesignID: "d", ProductID: 1, VariantID: 2})
	if _, ok := b.FormProperties()["properties[notes]"]; ok {
		t.Fatalf("empty notes rendered")
	}
}

func TestBridgeResetAndClose(t *testing.T) {
	em := events.New()
	b := NewBridge(em, 1, 2)

	em.Emit(events.DesignSaved{DesignID: "d", ProductID: 1, VariantID: 2})
	b.Reset()
	if b.Ready() {
		t.Fatalf("bridge ready after reset")
	}

	b.Close()
	em.Emit(events.DesignSaved{DesignID: "late", ProductID: 1, VariantID: 2})
	if b.Ready() {
		t.Fatalf("closed bridge received a design")
	}
}

func TestBridgeLatestSaveWins(t *testing.T) {
	em := events.New()
	b := NewBridge(em, 1, 2)
	defer b.Close()

	em.Emit(events.DesignSaved{DesignID: "first", ProductID: 1, VariantID: 2})
	em.Emit(events.DesignSaved{DesignID: "second", ProductID: 1, VariantID: 2})

	if d := b.Design(); d == nil || d.DesignID != "second" {
		t.Fatalf("design = %+v", d)
	}
}
