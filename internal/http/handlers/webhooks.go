package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sarvsartsandcraftsllc-lgtm/shopify-customizer-app/internal/modules/designs"
	"github.com/sarvsartsandcraftsllc-lgtm/shopify-customizer-app/internal/shopify"
)

// MaxWebhookBodyBytes caps order webhook payloads. Shopify orders are a few
// hundred KB at most; anything bigger is hostile.
const MaxWebhookBodyBytes = 2 << 20

type WebhookHandler struct {
	Logger     *slog.Logger
	Secret     string // Shopify webhook shared secret
	WebhookSvc *designs.WebhookService
}

func NewWebhookHandler(logger *slog.Logger, secret string, svc *designs.WebhookService) *WebhookHandler {
	return &WebhookHandler{Logger: logger, Secret: secret, WebhookSvc: svc}
}

// POST /api/webhooks/orders
// Body is the raw JSON envelope; the HMAC header is verified over the exact
// bytes before any parsing. 500 makes Shopify redeliver.
func (h *WebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxWebhookBodyBytes))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"ok": false, "error": "payload too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	sig := c.GetHeader(shopify.HeaderHMAC)
	if !shopify.VerifyHMAC(h.Secret, sig, body) {
		h.Logger.Warn("webhook signature rejected", "has_header", sig != "")
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid signature"})
		return
	}

	var env shopify.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid payload"})
		return
	}
	if env.Topic != shopify.TopicOrdersCreate {
		h.Logger.Warn("webhook topic rejected", "topic", env.Topic)
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "unsupported topic"})
		return
	}

	if err := h.WebhookSvc.HandleOrderCreate(c.Request.Context(), env.Data, body); err != nil {
		h.Logger.Error("webhook apply failed", "order_id", env.Data.ID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
