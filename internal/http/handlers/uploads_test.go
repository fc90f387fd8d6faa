package handlers

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sarvsartsandcraftsllc-lgtm/shopify-customizer-app/internal/storage"
)

func newUploadEngine(t *testing.T) (*gin.Engine, *storage.Local) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	local := storage.NewLocal(t.TempDir(), "http://localhost:8080/uploads", "test-secret")
	h := NewUploadHandler(slog.Default(), local)

	r := gin.New()
	r.PUT("/uploads/*key", h.Put)
	r.GET("/uploads/*key", h.Get)
	return r, local
}

func TestSignedPutRoundTrip(t *testing.T) {
	r, local := newUploadEngine(t)
	key := "previews/1712345678_abc.png"

	signed, err := local.SignPut(context.Background(), storage.SignInput{
		Key: key, ContentType: "image/png", TTL: time.Hour,
	})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	u, _ := url.Parse(signed)

	body := []byte("png bytes")
	req := httptest.NewRequest(http.MethodPut, u.RequestURI(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "image/png")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("put status = %d, body = %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/uploads/"+key, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || !bytes.Equal(w.Body.Bytes(), body) {
		t.Fatalf("get status = %d", w.Code)
	}
}

func TestPutRejectsUnsignedRequest(t *testing.T) {
	r, _ := newUploadEngine(t)

	req := httptest.NewRequest(http.MethodPut, "/uploads/previews/x.png", bytes.NewReader([]byte("x")))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestPutRejectsSignatureForOtherKey(t *testing.T) {
	r, local := newUploadEngine(t)

	signed, err := local.SignPut(context.Background(), storage.SignInput{
		Key: "previews/a.png", ContentType: "image/png", TTL: time.Hour,
	})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	u, _ := url.Parse(signed)

	req := httptest.NewRequest(http.MethodPut, "/uploads/previews/b.png?"+u.RawQuery, bytes.NewReader([]byte("x")))
	req.Header.Set("Content-Type", "image/png")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestPutRejectsSignatureForOtherContentType(t *testing.T) {
	r, local := newUploadEngine(t)
	key := "previews/a.png"

	signed, err := local.SignPut(context.Background(), storage.SignInput{
		Key: key, ContentType: "image/png", TTL: time.Hour,
	})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	u, _ := url.Parse(signed)

	req := httptest.NewRequest(http.MethodPut, u.RequestURI(), bytes.NewReader([]byte("x")))
	req.Header.Set("Content-Type", "application/zip")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestGetMissingKey(t *testing.T) {
	r, _ := newUploadEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/uploads/previews/none.png", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}
