package main

import (
	"log"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN environment variable is required")
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get DB: %v", err)
	}

	sql := `
	CREATE TABLE IF NOT EXISTS design_orders (
	  id CHAR(36) NOT NULL,
	  order_id BIGINT NOT NULL,
	  design_id VARCHAR(64) NOT NULL,
	  line_item_id BIGINT NOT NULL,
	  product_id BIGINT NULL,
	  variant_id BIGINT NULL,
	  title VARCHAR(255) NOT NULL,
	  quantity INT NOT NULL DEFAULT 1,
	  preview_url VARCHAR(2048) NOT NULL,
	  print_url VARCHAR(2048) NOT NULL,
	  notes TEXT,
	  status VARCHAR(32) NOT NULL DEFAULT 'pending',
	  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  PRIMARY KEY (id),
	  UNIQUE KEY ux_design_orders_order_design_item (order_id, design_id, line_item_id),
	  KEY ix_design_orders_status (status)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

	CREATE TABLE IF NOT EXISTS design_order_events (
	  id CHAR(36) NOT NULL,
	  design_order_id CHAR(36) NOT NULL,
	  actor VARCHAR(64) NOT NULL,
	  action VARCHAR(32) NOT NULL,
	  from_status VARCHAR(32) NOT NULL,
	  to_status VARCHAR(32) NOT NULL,
	  note VARCHAR(255) NULL,
	  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  PRIMARY KEY (id),
	  KEY ix_design_order_events_design_order_id (design_order_id),
	  CONSTRAINT fk_design_order_events_order FOREIGN KEY (design_order_id) REFERENCES design_orders(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

	CREATE TABLE IF NOT EXISTS webhook_events (
	  id CHAR(36) NOT NULL,
	  topic VARCHAR(64) NOT NULL,
	  order_id BIGINT NOT NULL,
	  payload_json JSON NOT NULL,
	  received_at DATETIME(3) NOT NULL,
	  processed_at DATETIME(3) NULL,
	  process_error VARCHAR(255) NULL,
	  PRIMARY KEY (id),
	  UNIQUE KEY ux_webhook_events_topic_order (topic, order_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
	`

	if _, err := sqlDB.Exec(sql); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	log.Println("Tables created")
}
