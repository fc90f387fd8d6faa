package shopify

import "testing"

func TestVerifyHMAC(t *testing.T) {
	secret := "shpss_test_secret"
	body := []byte(`{"topic":"orders/create","data":{"id":1}}`)
	sig := ComputeHMAC(secret, body)

	tests := []struct {
		name   string
		secret string
		header string
		body   []byte
		want   bool
	}{
		{"valid", secret, sig, body, true},
		{"empty header", secret, "", body, false},
		{"wrong secret", "other_secret", sig, body, false},
		{"tampered body", secret, sig, []byte(`{"topic":"orders/create","data":{"id":2}}`), false},
		{"garbage header", secret, "not-base64-of-anything", body, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifyHMAC(tt.secret, tt.header, tt.body); got != tt.want {
				t.Fatalf("VerifyHMAC = %v, want %v", got, tt.want)
			}
		})
	}
}
