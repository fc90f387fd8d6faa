package shopify

// TopicOrdersCreate is the only webhook topic this app subscribes to.
const TopicOrdersCreate = "orders/create"

// Envelope is the webhook body shape: the topic travels in the body next to
// the order payload.
type Envelope struct {
	Topic string `json:"topic"`
	Data  Order  `json:"data"`
}

// Order is the subset of a Shopify order this app reads.
type Order struct {
	ID        int64      `json:"id"`
	LineItems []LineItem `json:"line_items"`
}

type LineItem struct {
	ID         int64      `json:"id"`
	ProductID  *int64     `json:"product_id"`
	VariantID  *int64     `json:"variant_id"`
	Title      string     `json:"title"`
	Quantity   int        `json:"quantity"`
	Properties []Property `json:"properties"`
}

// Property is one custom line item property attached at add-to-cart time.
type Property struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Property returns the named custom property's value, or "" when absent.
func (li LineItem) Property(name string) string {
	for _, p := range li.Properties {
		if p.Name == name {
			return p.Value
		}
	}
	return ""
}

// Line item property names written by the storefront customizer.
const (
	PropDesignID   = "design_id"
	PropPreviewURL = "preview_url"
	PropPrintURL   = "print_url"
	PropNotes      = "notes"
)

// DesignItem is one customized line item extracted from an order.
type DesignItem struct {
	LineItemID int64
	ProductID  *int64
	VariantID  *int64
	Title      string
	Quantity   int
	DesignID   string
	PreviewURL string
	PrintURL   string
	Notes      string
}

// DesignItems pulls the customized line items out of an order. Items without
// a design_id property are plain merchandise and are skipped; the other
// properties default to "" when missing. Quantity defaults to 1.
func DesignItems(o Order) []DesignItem {
	var out []DesignItem
	for _, li := range o.LineItems {
		designID := li.Property(PropDesignID)
		if designID == "" {
			continue
		}
		qty := li.Quantity
		if qty < 1 {
			qty = 1
		}
		out = append(out, DesignItem{
			LineItemID: li.ID,
			ProductID:  li.ProductID,
			VariantID:  li.VariantID,
			Title:      li.Title,
			Quantity:   qty,
			DesignID:   designID,
			PreviewURL: li.Property(PropPreviewURL),
			PrintURL:   li.Property(PropPrintURL),
			Notes:      li.Property(PropNotes),
		})
	}
	return out
}
