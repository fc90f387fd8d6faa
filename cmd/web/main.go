package main

import (
	"context"
	"log"
	"os"

	"log/slog"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	apphttp "github.com/sarvsartsandcraftsllc-lgtm/shopify-customizer-app/internal/http"
	"github.com/sarvsartsandcraftsllc-lgtm/shopify-customizer-app/internal/janitor"
	"github.com/sarvsartsandcraftsllc-lgtm/shopify-customizer-app/internal/storage"
)

func main() {
	// Load .env file (ignore error if not found - prod uses real env vars)
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN environment variable is required")
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	secret := os.Getenv("SHOPIFY_WEBHOOK_SECRET")
	if secret == "" {
		log.Fatal("SHOPIFY_WEBHOOK_SECRET environment variable is required")
	}

	st, err := storage.FromEnv(context.Background())
	if err != nil {
		log.Fatalf("storage init failed: %v", err)
	}
	logger.Info("storage ready", "driver", st.Driver, "target", st.Signer.String())

	if local, ok := st.Signer.(*storage.Local); ok {
		j := janitor.New(local, db, logger)
		if err := j.Start(); err != nil {
			log.Fatalf("janitor start failed: %v", err)
		}
		defer j.Stop()
	}

	r := apphttp.NewRouter(logger, db, apphttp.Config{
		WebhookSecret:  secret,
		AdminTokenHash: os.Getenv("ADMIN_TOKEN_HASH"),
		Signer:         st.Signer,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	_ = r.Run(":" + port)
}
