package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sarvsartsandcraftsllc-lgtm/shopify-customizer-app/internal/http/handlers"
	adminhandlers "github.com/sarvsartsandcraftsllc-lgtm/shopify-customizer-app/internal/http/handlers/admin"
	"github.com/sarvsartsandcraftsllc-lgtm/shopify-customizer-app/internal/http/middleware"
	"github.com/sarvsartsandcraftsllc-lgtm/shopify-customizer-app/internal/modules/designs"
	"github.com/sarvsartsandcraftsllc-lgtm/shopify-customizer-app/internal/storage"
)

type Config struct {
	// WebhookSecret is the Shopify shared secret for delivery HMACs.
	WebhookSecret string

	// AdminTokenHash is the bcrypt hash of the status board bearer token.
	// Empty disables the board.
	AdminTokenHash string

	Signer storage.Signer
}

func NewRouter(logger *slog.Logger, db *gorm.DB, cfg Config) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.ErrorHandler(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	webhookSvc := designs.NewWebhookService(db)
	webhookSvc.SetLogger(logger)

	api := r.Group("/api")
	{
		sign := handlers.NewSignUploadHandler(logger, cfg.Signer)
		api.POST("/sign-upload", sign.Handle)

		wh := handlers.NewWebhookHandler(logger, cfg.WebhookSecret, webhookSvc)
		api.POST("/webhooks/orders", wh.Handle)
	}

	// local driver only: the signed PUT target and the public file URLs
	if local, ok := cfg.Signer.(*storage.Local); ok {
		up := handlers.NewUploadHandler(logger, local)
		r.PUT("/uploads/*key", up.Put)
		r.GET("/uploads/*key", up.Get)
	}

	admin := r.Group("/admin")
	admin.Use(middleware.RequireAdmin(cfg.AdminTokenHash))
	{
		dh := adminhandlers.NewDesignsHandler(db, designs.NewAdminService(db))
		admin.GET("/designs", dh.List)
		admin.GET("/designs/:id", dh.Detail)
		admin.POST("/designs/:id/action", dh.Action)
		admin.PUT("/designs/:id/notes", dh.Notes)
	}

	return r
}
