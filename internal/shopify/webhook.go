// Package shopify holds the wire-level pieces of the Shopify integration:
// webhook signature verification and order payload parsing.
package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// HeaderHMAC is the header Shopify signs webhook deliveries with.
const HeaderHMAC = "X-Shopify-Hmac-Sha256"

// ComputeHMAC returns the base64 HMAC-SHA256 of the raw request body under
// the shop's shared secret, the exact value Shopify puts in HeaderHMAC.
func ComputeHMAC(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifyHMAC checks a delivery signature in constant time. An empty header
// never verifies.
func VerifyHMAC(secret, header string, body []byte) bool {
	if header == "" {
		return false
	}
	want := ComputeHMAC(secret, body)
	return hmac.Equal([]byte(header), []byte(want))
}
