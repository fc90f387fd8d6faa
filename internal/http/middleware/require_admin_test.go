package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func newAdminEngine(t *testing.T, tokenHash string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestID())
	g := r.Group("/admin")
	g.Use(RequireAdmin(tokenHash))
	g.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	return r
}

func getWithToken(t *testing.T, r *gin.Engine, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAdmin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-token"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	r := newAdminEngine(t, string(hash))

	if w := getWithToken(t, r, "s3cret-token"); w.Code != http.StatusOK {
		t.Fatalf("valid token: status = %d", w.Code)
	}
	if w := getWithToken(t, r, "wrong-token"); w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong token: status = %d", w.Code)
	}
	if w := getWithToken(t, r, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d", w.Code)
	}
}

func TestRequireAdminDisabledWithoutHash(t *testing.T) {
	r := newAdminEngine(t, "")

	if w := getWithToken(t, r, "anything"); w.Code != http.StatusForbidden {
		t.Fatalf("status = %d", w.Code)
	}
}
