package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefrontlabs/storefront/internal/models"
	"github.com/storefrontlabs/storefront/internal/utils"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	ListOrdersByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error)
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

// CreateOrder persists the order and its line items as one row: the items
// live in a JSONB column, so the whole settlement is a single atomic
// insert and nothing is written before validation completed upstream.
func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	itemsJSON, err := json.Marshal(order.Products)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	query := `
		INSERT INTO orders (id, user_id, products, total_price, status, order_date)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = r.DB.ExecContext(dbCtx, query, order.ID, order.UserID, itemsJSON, order.TotalPrice, order.Status, order.OrderDate)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	return nil
}

func (r *orderRepository) ListOrdersByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, products, total_price, status, order_date
		FROM orders
		WHERE user_id = $1
		ORDER BY order_date DESC`

	rows, err := r.DB.QueryContext(dbCtx, query, buyerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	defer rows.Close()

	var orders []models.Order

	for rows.Next() {
		var order models.Order
		var itemsJSON []byte

		if err := rows.Scan(&order.ID, &order.UserID, &itemsJSON, &order.TotalPrice, &order.Status, &order.OrderDate); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}

		if err := json.Unmarshal(itemsJSON, &order.Products); err != nil {
			return nil, fmt.Errorf("failed to unmarshal order items: %w", err)
		}

		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
