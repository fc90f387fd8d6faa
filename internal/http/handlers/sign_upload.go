package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sarvsartsandcraftsllc-lgtm/shopify-customizer-app/internal/http/middleware"
	"github.com/sarvsartsandcraftsllc-lgtm/shopify-customizer-app/internal/http/validation"
	"github.com/sarvsartsandcraftsllc-lgtm/shopify-customizer-app/internal/shared/apperr"
	"github.com/sarvsartsandcraftsllc-lgtm/shopify-customizer-app/internal/storage"
)

const (
	// MaxDesignFileBytes caps the print artifact at 30MB.
	MaxDesignFileBytes = 30 * 1024 * 1024

	signedUploadTTL = time.Hour
)

type SignUploadHandler struct {
	Logger *slog.Logger
	Signer storage.Signer
}

func NewSignUploadHandler(logger *slog.Logger, signer storage.Signer) *SignUploadHandler {
	return &SignUploadHandler{Logger: logger, Signer: signer}
}

type signUploadRequest struct {
	FileType string `json:"fileType" binding:"required"`
	FileSize int64  `json:"fileSize" binding:"required,gt=0"`
}

// POST /api/sign-upload
// Issues a pair of time-limited PUT URLs, one for the preview and one for
// the print file. Only PNGs are signed.
func (h *SignUploadHandler) Handle(c *gin.Context) {
	var req signUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Invalid request.", validation.FromBindError(err, &req)))
		return
	}

	if req.FileType != "png" {
		middleware.Fail(c, apperr.InvalidErr("Only png uploads are supported.", nil))
		return
	}
	if req.FileSize > MaxDesignFileBytes {
		middleware.Fail(c, apperr.InvalidErr("File exceeds the 30MB limit.", nil))
		return
	}

	stamp := fmt.Sprintf("%d_%s.png", time.Now().UnixMilli(), randHex(8))
	previewKey := "previews/" + stamp
	printKey := "prints/" + stamp

	ctx := c.Request.Context()
	previewURL, err := h.Signer.SignPut(ctx, storage.SignInput{
		Key: previewKey, ContentType: "image/png", TTL: signedUploadTTL,
	})
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	printURL, err := h.Signer.SignPut(ctx, storage.SignInput{
		Key: printKey, ContentType: "image/png", TTL: signedUploadTTL,
	})
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	h.Logger.Info("upload urls signed",
		"request_id", middleware.GetRequestID(c),
		"preview_key", previewKey, "print_key", printKey, "size", req.FileSize)

	c.JSON(http.StatusOK, gin.H{
		"previewUrl":      previewURL,
		"printUrl":        printURL,
		"previewFileName": previewKey,
		"printFileName":   printKey,
	})
}
