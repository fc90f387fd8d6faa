package shopify

import (
	"encoding/json"
	"testing"
)

func int64p(v int64) *int64 { return &v }

func TestDesignItemsSkipsPlainMerchandise(t *testing.T) {
	o := Order{
		ID: 5001,
		LineItems: []LineItem{
			{
				ID:        1,
				ProductID: int64p(11),
				VariantID: int64p(21),
				Title:     "Custom Tee",
				Quantity:  2,
				Properties: []Property{
					{Name: PropDesignID, Value: "des-1"},
					{Name: PropPreviewURL, Value: "https://cdn/preview.png"},
					{Name: PropPrintURL, Value: "https://cdn/print.png"},
					{Name: PropNotes, Value: "left chest"},
				},
			},
			{ID: 2, Title: "Plain Tee", Quantity: 1},
			{
				ID:         3,
				Title:      "Sticker",
				Quantity:   1,
				Properties: []Property{{Name: "gift_wrap", Value: "yes"}},
			},
		},
	}

	items := DesignItems(o)
	if len(items) != 1 {
		t.Fatalf("extracted %d items, want 1", len(items))
	}
	it := items[0]
	if it.LineItemID != 1 || it.DesignID != "des-1" || it.Quantity != 2 {
		t.Fatalf("item = %+v", it)
	}
	if it.PreviewURL != "https://cdn/preview.png" || it.PrintURL != "https://cdn/print.png" || it.Notes != "left chest" {
		t.Fatalf("item urls = %+v", it)
	}
	if it.ProductID == nil || *it.ProductID != 11 {
		t.Fatalf("product id = %v", it.ProductID)
	}
}

func TestDesignItemsDefaults(t *testing.T) {
	o := Order{LineItems: []LineItem{{
		ID:         7,
		Properties: []Property{{Name: PropDesignID, Value: "des-2"}},
	}}}

	items := DesignItems(o)
	if len(items) != 1 {
		t.Fatalf("extracted %d items, want 1", len(items))
	}
	it := items[0]
	if it.PreviewURL != "" || it.PrintURL != "" || it.Notes != "" {
		t.Fatalf("missing properties not defaulted: %+v", it)
	}
	if it.Quantity != 1 {
		t.Fatalf("quantity = %d, want default 1", it.Quantity)
	}
	if it.ProductID != nil || it.VariantID != nil {
		t.Fatalf("ids not nil: %+v", it)
	}
}

func TestEnvelopeDecode(t *testing.T) {
	raw := []byte(`{
		"topic": "orders/create",
		"data": {
			"id": 9001,
			"line_items": [
				{"id": 1, "product_id": 11, "variant_id": null, "quantity": 1,
				 "properties": [{"name": "design_id", "value": "d"}]}
			]
		}
	}`)

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Topic != TopicOrdersCreate || env.Data.ID != 9001 {
		t.Fatalf("envelope = %+v", env)
	}
	li := env.Data.LineItems[0]
	if li.VariantID != nil {
		t.Fatalf("null variant_id decoded as %v", *li.VariantID)
	}
	if li.Property(PropDesignID) != "d" {
		t.Fatalf("property lookup failed")
	}
}
