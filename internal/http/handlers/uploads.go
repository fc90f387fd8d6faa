package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sarvsartsandcraftsllc-lgtm/shopify-customizer-app/internal/storage"
)

// UploadHandler serves the local storage driver's HTTP surface: it accepts
// the signed PUTs the driver issued and serves the stored files back. Not
// mounted when the S3 driver is active.
type UploadHandler struct {
	Logger *slog.Logger
	Local  *storage.Local
}

func NewUploadHandler(logger *slog.Logger, local *storage.Local) *UploadHandler {
	return &UploadHandler{Logger: logger, Local: local}
}

// PUT /uploads/*key?exp=...&sig=...
func (h *UploadHandler) Put(c *gin.Context) {
	key := c.Param("key")
	if len(key) > 0 && key[0] == '/' {
		key = key[1:]
	}

	if !h.Local.VerifyPut(key, c.ContentType(), c.Query("exp"), c.Query("sig")) {
		h.Logger.Warn("upload signature rejected", "key", key)
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid or expired signature"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, MaxDesignFileBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if len(data) > MaxDesignFileBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file exceeds the 30MB limit"})
		return
	}

	if err := h.Local.PutAt(key, data); err != nil {
		h.Logger.Error("upload store failed", "key", key, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store failed"})
		return
	}

	h.Logger.Info("upload stored", "key", key, "size", len(data))
	c.Status(http.StatusOK)
}

// GET /uploads/*key
func (h *UploadHandler) Get(c *gin.Context) {
	key := c.Param("key")
	if len(key) > 0 && key[0] == '/' {
		key = key[1:]
	}

	data, err := h.Local.Open(key)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}
