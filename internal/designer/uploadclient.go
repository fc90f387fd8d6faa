package designer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// UploadClient talks to the app server's signing endpoint and pushes the
// exported PNGs straight to storage with the signed URLs.
type UploadClient struct {
	BaseURL string // app server, e.g. https://customizer.example.com
	HTTP    *http.Client
}

func NewUploadClient(baseURL string) *UploadClient {
	return &UploadClient{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 60 * time.Second},
	}
}

type signRequest struct {
	FileType string `json:"fileType"`
	FileSize int    `json:"fileSize"`
}

// SignedUpload is the signing endpoint's response: one PUT URL per artifact
// plus the storage keys they were signed for.
type SignedUpload struct {
	PreviewURL      string `json:"previewUrl"`
	PrintURL        string `json:"printUrl"`
	PreviewFileName string `json:"previewFileName"`
	PrintFileName   string `json:"printFileName"`
}

// Sign requests upload URLs for a PNG pair of the given print file size.
func (c *UploadClient) Sign(ctx context.Context, printSize int) (SignedUpload, error) {
	body, err := json.Marshal(signRequest{FileType: "png", FileSize: printSize})
	if err != nil {
		return SignedUpload{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/sign-upload", bytes.NewReader(body))
	if err != nil {
		return SignedUpload{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return SignedUpload{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return SignedUpload{}, fmt.Errorf("sign upload: status %d", resp.StatusCode)
	}

	var out SignedUpload
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return SignedUpload{}, fmt.Errorf("sign upload: decode response: %w", err)
	}
	if out.PreviewURL == "" || out.PrintURL == "" {
		return SignedUpload{}, fmt.Errorf("sign upload: incomplete response")
	}
	return out, nil
}

// PutPNG uploads encoded PNG bytes to a signed URL.
func (c *UploadClient) PutPNG(ctx context.Context, signedURL string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, signedURL, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "image/png")
	req.ContentLength = int64(len(data))

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("upload to storage: status %d", resp.StatusCode)
	}
	return nil
}

// stripQuery drops the signature query from a signed URL, leaving the
// stable object address persisted with the design.
func stripQuery(signed string) string {
	u, err := url.Parse(signed)
	if err != nil {
		return signed
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
