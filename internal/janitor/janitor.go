// Package janitor prunes abandoned uploads from the local storage driver.
// Signed URLs expire after an hour; anything not referenced by a saved
// design within the retention window is an orphan from an abandoned session.
package janitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/sarvsartsandcraftsllc-lgtm/shopify-customizer-app/internal/modules/designs"
	"github.com/sarvsartsandcraftsllc-lgtm/shopify-customizer-app/internal/storage"
)

const DefaultRetention = 24 * time.Hour

type Janitor struct {
	local     *storage.Local
	publicURL string
	db        *gorm.DB
	logger    *slog.Logger
	retention time.Duration
	cron      *cron.Cron

	claimFn func(ctx context.Context, key string) (bool, error)
}

func New(local *storage.Local, db *gorm.DB, logger *slog.Logger) *Janitor {
	if logger == nil {
		logger = slog.Default()
	}
	j := &Janitor{
		local:     local,
		publicURL: local.PublicURL,
		db:        db,
		logger:    logger,
		retention: DefaultRetention,
	}
	j.claimFn = j.claimed
	return j
}

// Start schedules an hourly sweep. Call Stop on shutdown.
func (j *Janitor) Start() error {
	c := cron.New()
	if _, err := c.AddFunc("@hourly", func() {
		if err := j.Sweep(context.Background()); err != nil {
			j.logger.Error("upload sweep failed", "err", err)
		}
	}); err != nil {
		return err
	}
	c.Start()
	j.cron = c
	return nil
}

func (j *Janitor) Stop() {
	if j.cron != nil {
		j.cron.Stop()
	}
}

// Sweep deletes files older than the retention window that no design order
// references.
func (j *Janitor) Sweep(ctx context.Context) error {
	keys, err := j.local.List()
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(-j.retention)
	removed := 0
	for key, mod := range keys {
		if !mod.Before(cutoff) {
			continue
		}
		claimed, err := j.claimFn(ctx, key)
		if err != nil {
			return err
		}
		if claimed {
			continue
		}
		if err := j.local.Delete(ctx, key); err != nil {
			j.logger.Warn("orphan delete failed", "key", key, "err", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		j.logger.Info("orphaned uploads removed", "count", removed)
	}
	return nil
}

func (j *Janitor) claimed(ctx context.Context, key string) (bool, error) {
	url := j.publicURL + "/" + key
	var n int64
	err := j.db.WithContext(ctx).Model(&designs.DesignOrder{}).
		Where("preview_url = ? OR print_url = ?", url, url).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
