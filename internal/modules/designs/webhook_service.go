package designs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sarvsartsandcraftsllc-lgtm/shopify-customizer-app/internal/shopify"
)

type WebhookService struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewWebhookService(db *gorm.DB) *WebhookService {
	return &WebhookService{db: db, logger: slog.Default()}
}

func (s *WebhookService) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// HandleOrderCreate persists the delivery and one design_orders row per
// customized line item, all in one transaction. A redelivered webhook hits
// the unique(topic, order_id) index and is acknowledged without touching the
// design rows; a row-level duplicate (same design on the same item) is
// skipped the same way.
func (s *WebhookService) HandleOrderCreate(ctx context.Context, order shopify.Order, rawBody []byte) error {
	payload, _ := json.RawMessage(rawBody).MarshalJSON()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		we := WebhookEvent{
			ID:          uuid.NewString(),
			Topic:       shopify.TopicOrdersCreate,
			OrderID:     order.ID,
			PayloadJSON: datatypes.JSON(payload),
			ReceivedAt:  now,
		}

		// dedupe: unique(topic, order_id)
		if err := tx.WithContext(ctx).Create(&we).Error; err != nil {
			if isDup(err) {
				s.logger.InfoContext(ctx, "webhook delivery deduplicated", "order_id", order.ID)
				return nil
			}
			s.logger.ErrorContext(ctx, "failed to persist webhook event", "order_id", order.ID, "err", err)
			return err
		}

		applyErr := s.applyOrderCreate(ctx, tx, order, now)
		if applyErr != nil {
			msg := truncate(applyErr.Error(), 250)
			if err := tx.WithContext(ctx).Model(&WebhookEvent{}).
				Where("id = ?", we.ID).
				Updates(map[string]any{"process_error": msg}).Error; err != nil {
				return err
			}
			s.logger.ErrorContext(ctx, "webhook apply failed", "order_id", order.ID, "error", msg)
			return applyErr
		}

		processed := now
		if err := tx.WithContext(ctx).Model(&WebhookEvent{}).
			Where("id = ?", we.ID).
			Updates(map[string]any{"processed_at": &processed, "process_error": nil}).Error; err != nil {
			return err
		}

		s.logger.InfoContext(ctx, "order webhook processed", "order_id", order.ID)
		return nil
	})
}

func (s *WebhookService) applyOrderCreate(ctx context.Context, tx *gorm.DB, order shopify.Order, now time.Time) error {
	items := shopify.DesignItems(order)
	if len(items) == 0 {
		s.logger.InfoContext(ctx, "order has no customized items", "order_id", order.ID)
		return nil
	}

	for _, it := range items {
		row := DesignOrder{
			ID:         uuid.NewString(),
			OrderID:    order.ID,
			DesignID:   it.DesignID,
			LineItemID: it.LineItemID,
			ProductID:  it.ProductID,
			VariantID:  it.VariantID,
			Title:      it.Title,
			Quantity:   it.Quantity,
			PreviewURL: it.PreviewURL,
			PrintURL:   it.PrintURL,
			Notes:      it.Notes,
			Status:     StatusPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := tx.WithContext(ctx).Create(&row).Error; err != nil {
			if isDup(err) {
				s.logger.InfoContext(ctx, "design order already recorded",
					"order_id", order.ID, "design_id", it.DesignID, "line_item_id", it.LineItemID)
				continue
			}
			return err
		}
		s.logger.InfoContext(ctx, "design order created",
			"order_id", order.ID, "design_id", it.DesignID, "title", it.Title, "quantity", it.Quantity)
	}
	return nil
}

func isDup(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
