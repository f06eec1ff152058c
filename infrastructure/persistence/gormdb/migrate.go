package gormdb

import (
	"context"
	"fmt"

	"campodigital/infrastructure/persistence/gormdb/po"
	"campodigital/pkg/logger"

	"go.uber.org/zap"
)

type foreignKey struct {
	name       string
	table      any
	tableName  string
	column     string
	references string
	onDelete   string
}

var foreignKeys = []foreignKey{
	{"fk_products_user", &po.ProductPO{}, "products", "user_id", "users(id)", "CASCADE"},
	{"fk_product_images_product", &po.ProductImagePO{}, "product_images", "product_id", "products(id)", "CASCADE"},
	{"fk_orders_buyer", &po.OrderPO{}, "orders", "buyer_id", "users(id)", "RESTRICT"},
	{"fk_orders_seller", &po.OrderPO{}, "orders", "seller_id", "users(id)", "RESTRICT"},
	{"fk_order_details_order", &po.OrderDetailPO{}, "order_details", "order_id", "orders(id)", "CASCADE"},
	{"fk_order_details_product", &po.OrderDetailPO{}, "order_details", "product_id", "products(id)", "RESTRICT"},
	{"fk_reviews_reviewer", &po.ReviewPO{}, "reviews", "reviewer_id", "users(id)", "CASCADE"},
	{"fk_reviews_reviewed", &po.ReviewPO{}, "reviews", "reviewed_id", "users(id)", "CASCADE"},
	{"fk_reviews_order", &po.ReviewPO{}, "reviews", "order_id", "orders(id)", "SET NULL"},
	{"fk_reviews_product", &po.ReviewPO{}, "reviews", "product_id", "products(id)", "SET NULL"},
	{"fk_messages_sender", &po.MessagePO{}, "messages", "sender_id", "users(id)", "CASCADE"},
	{"fk_messages_receiver", &po.MessagePO{}, "messages", "receiver_id", "users(id)", "CASCADE"},
}

// Migrate creates or updates every table. On MySQL it also adds the foreign keys;
// SQLite relies on the existence checks done by the repositories.
func Migrate(ctx context.Context, s *Session) error {
	db := s.db.WithContext(ctx)
	if err := db.AutoMigrate(po.All()...); err != nil {
		return translateError("migrate", err)
	}
	if db.Dialector.Name() != DriverMySQL {
		logger.Info("Schema migrated", zap.String("driver", db.Dialector.Name()))
		return nil
	}

	added := 0
	for _, fk := range foreignKeys {
		if db.Migrator().HasConstraint(fk.table, fk.name) {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s ON DELETE %s",
			fk.tableName, fk.name, fk.column, fk.references, fk.onDelete)
		if _, err := s.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("add constraint %s: %w", fk.name, err)
		}
		added++
	}
	logger.Info("Schema migrated",
		zap.String("driver", DriverMySQL),
		zap.Int("foreign_keys_added", added),
	)
	return nil
}
