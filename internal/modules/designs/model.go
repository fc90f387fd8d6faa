package designs

import (
	"time"

	"gorm.io/datatypes"
)

// Design order lifecycle. Print shops move rows forward, never backward.
const (
	StatusPending   = "pending"
	StatusPrinted   = "printed"
	StatusFulfilled = "fulfilled"
)

// DesignOrder is one customized line item lifted out of an orders/create
// webhook. The (order, design, line item) triple is unique so a redelivered
// webhook can never produce a second print job for the same item.
type DesignOrder struct {
	ID string `gorm:"type:char(36);primaryKey"`

	OrderID    int64  `gorm:"not null;uniqueIndex:ux_design_orders_order_design_item,priority:1"`
	DesignID   string `gorm:"type:varchar(64);not null;uniqueIndex:ux_design_orders_order_design_item,priority:2"`
	LineItemID int64  `gorm:"not null;uniqueIndex:ux_design_orders_order_design_item,priority:3"`

	ProductID *int64
	VariantID *int64
	Title     string `gorm:"type:varchar(255);not null"`
	Quantity  int    `gorm:"not null;default:1"`

	PreviewURL string `gorm:"type:varchar(2048);not null"`
	PrintURL   string `gorm:"type:varchar(2048);not null"`
	Notes      string `gorm:"type:text"`

	Status string `gorm:"type:varchar(32);not null;default:pending;index"`

	CreatedAt time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt time.Time `gorm:"type:datetime(3);not null"`
}

func (DesignOrder) TableName() string { return "design_orders" }

// DesignOrderEvent is the audit row written alongside every status change.
type DesignOrderEvent struct {
	ID            string    `gorm:"type:char(36);primaryKey"`
	DesignOrderID string    `gorm:"type:char(36);not null;index"`
	Actor         string    `gorm:"type:varchar(64);not null"`
	Action        string    `gorm:"type:varchar(32);not null"`
	FromStatus    string    `gorm:"type:varchar(32);not null"`
	ToStatus      string    `gorm:"type:varchar(32);not null"`
	Note          *string   `gorm:"type:varchar(255)"`
	CreatedAt     time.Time `gorm:"type:datetime(3);not null"`
}

func (DesignOrderEvent) TableName() string { return "design_order_events" }

// WebhookEvent stores every accepted delivery for dedupe and replay
// debugging. unique(topic, order_id) is the dedupe key.
type WebhookEvent struct {
	ID          string         `gorm:"type:char(36);primaryKey"`
	Topic       string         `gorm:"type:varchar(64);not null;uniqueIndex:ux_webhook_events_topic_order,priority:1"`
	OrderID     int64          `gorm:"not null;uniqueIndex:ux_webhook_events_topic_order,priority:2"`
	PayloadJSON datatypes.JSON `gorm:"type:json;not null"`

	ReceivedAt   time.Time  `gorm:"type:datetime(3);not null"`
	ProcessedAt  *time.Time `gorm:"type:datetime(3)"`
	ProcessError *string    `gorm:"type:varchar(255)"`
}

func (WebhookEvent) TableName() string { return "webhook_events" }
