package designs

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService { return &AdminService{db: db} }

type TransitionInput struct {
	DesignOrderID string
	Actor         string // admin identity for the audit row
	Action        string // print|fulfill
	Note          string
}

// Transition moves a design order forward through the print lifecycle under
// a row lock and writes the audit event in the same transaction.
func (s *AdminService) Transition(ctx context.Context, in TransitionInput) error {
	if in.DesignOrderID == "" || in.Actor == "" || in.Action == "" {
		return ErrNotActionable
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var d DesignOrder

		// row lock
		if err := tx.WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&d, "id = ?", in.DesignOrderID).Error; err != nil {
			return err
		}

		from := d.Status
		to, err := nextStatus(from, in.Action)
		if err != nil {
			return err
		}

		now := time.Now()
		if err := tx.WithContext(ctx).
			Model(&DesignOrder{}).
			Where("id = ? AND status = ?", d.ID, from). // optimistic guard
			Updates(map[string]any{
				"status":     to,
				"updated_at": now,
			}).Error; err != nil {
			return err
		}

		var notePtr *string
		if n := strings.TrimSpace(in.Note); n != "" {
			notePtr = &n
		}

		ev := DesignOrderEvent{
			ID:            uuid.NewString(),
			DesignOrderID: d.ID,
			Actor:         in.Actor,
			Action:        in.Action,
			FromStatus:    from,
			ToStatus:      to,
			Note:          notePtr,
			CreatedAt:     now,
		}
		return tx.WithContext(ctx).Create(&ev).Error
	})
}

// nextStatus enforces the forward-only lifecycle. Fulfilling straight from
// pending is allowed; the shop may mark both steps at once.
func nextStatus(from, action string) (string, error) {
	switch action {
	case "print":
		if from == StatusPending {
			return StatusPrinted, nil
		}
		return "", ErrInvalidTransition
	case "fulfill":
		if from == StatusPending || from == StatusPrinted {
			return StatusFulfilled, nil
		}
		return "", ErrInvalidTransition
	default:
		return "", ErrInvalidTransition
	}
}
