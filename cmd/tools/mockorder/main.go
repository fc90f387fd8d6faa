// mockorder sends a signed orders/create webhook to a running app server,
// for local end-to-end testing without a Shopify store.
package main

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/sarvsartsandcraftsllc-lgtm/shopify-customizer-app/internal/shopify"
)

func main() {
	url := flag.String("url", "http://localhost:8080/api/webhooks/orders", "Webhook URL")
	secret := flag.String("secret", os.Getenv("SHOPIFY_WEBHOOK_SECRET"), "Webhook secret")
	orderID := flag.Int64("order-id", 0, "Order ID (random if 0)")
	designID := flag.String("design-id", "des_"+randomHex(8), "design_id property")
	previewURL := flag.String("preview-url", "http://localhost:8080/uploads/previews/mock.png", "preview_url property")
	printURL := flag.String("print-url", "http://localhost:8080/uploads/prints/mock.png", "print_url property")
	notes := flag.String("notes", "", "notes property")
	plain := flag.Bool("with-plain-item", false, "Include a line item without design properties")
	dryRun := flag.Bool("dry-run", false, "Only print the signature header, don't send")

	flag.Parse()

	if *secret == "" {
		fmt.Fprintf(os.Stderr, "Error: secret not provided and SHOPIFY_WEBHOOK_SECRET not set\n")
		os.Exit(1)
	}

	oid := *orderID
	if oid == 0 {
		oid = randomID()
	}

	productID := int64(1111)
	variantID := int64(2222)
	props := []shopify.Property{
		{Name: shopify.PropDesignID, Value: *designID},
		{Name: shopify.PropPreviewURL, Value: *previewURL},
		{Name: shopify.PropPrintURL, Value: *printURL},
	}
	if *notes != "" {
		props = append(props, shopify.Property{Name: shopify.PropNotes, Value: *notes})
	}

	env := shopify.Envelope{
		Topic: shopify.TopicOrdersCreate,
		Data: shopify.Order{
			ID: oid,
			LineItems: []shopify.LineItem{{
				ID:         randomID(),
				ProductID:  &productID,
				VariantID:  &variantID,
				Title:      "Custom Tee",
				Quantity:   1,
				Properties: props,
			}},
		},
	}
	if *plain {
		env.Data.LineItems = append(env.Data.LineItems, shopify.LineItem{
			ID: randomID(), Title: "Plain Tee", Quantity: 1,
		})
	}

	body, err := json.Marshal(env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling payload: %v\n", err)
		os.Exit(1)
	}

	sig := shopify.ComputeHMAC(*secret, body)
	fmt.Printf("%s: %s\n", shopify.HeaderHMAC, sig)
	fmt.Printf("Body: %s\n", string(body))

	if *dryRun {
		fmt.Println("\n[DRY RUN] Not sending request")
		return
	}

	fmt.Printf("\nSending to %s...\n", *url)
	req, err := http.NewRequest("POST", *url, bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(shopify.HeaderHMAC, sig)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error sending request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	fmt.Printf("Status: %s\nResponse: %s\n", resp.Status, string(respBody))
}

func randomHex(nBytes int) string {
	b := make([]byte, nBytes)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func randomID() int64 {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	n := int64(b[0])<<24 | int64(b[1])<<16 | int64(b[2])<<8 | int64(b[3])
	if n < 0 {
		n = -n
	}
	return n + 1
}
