package service

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefrontlabs/storefront/internal/errors"
	"github.com/storefrontlabs/storefront/internal/models"
	repository "github.com/storefrontlabs/storefront/internal/repositories"
)

type OrderService interface {
	CreateOrder(ctx context.Context, buyerID uuid.UUID, req *models.CreateOrderRequest) (*models.Order, error)
	ListOrdersByBuyer(ctx context.Context, buyerID, assertedBuyerID uuid.UUID) ([]models.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
}

func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository) OrderService {
	return &orderService{orderRepo: orderRepo, productRepo: productRepo}
}

// CreateOrder settles a client cart. The client-held cart is untrusted:
// every line item is re-resolved against the catalog and the total is
// recomputed from catalog prices, whatever the client displayed. A single
// missing product fails the whole call before anything is written.
//
// Resubmitting the same line items creates a second order; the protocol
// carries no idempotency key.
func (s *orderService) CreateOrder(ctx context.Context, buyerID uuid.UUID, req *models.CreateOrderRequest) (*models.Order, error) {

	if req.UserID != buyerID {
		return nil, errors.ForbiddenError("Access denied.")
	}

	if len(req.Products) == 0 {
		return nil, errors.BadRequestError("Order must include at least one product.")
	}

	totalPrice := decimal.Zero
	items := make([]models.OrderLineItem, 0, len(req.Products))

	for _, item := range req.Products {

		product, err := s.productRepo.GetProductByID(ctx, item.ProductID)
		if err != nil {
			if stderrors.Is(err, sql.ErrNoRows) {
				return nil, errors.NotFoundError("Product not found: " + item.ProductID.String()).WithError(err)
			}
			return nil, errors.DatabaseError("Failed to look up product").WithError(err)
		}

		totalPrice = totalPrice.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))

		// Re-keyed to the catalog-confirmed id, not echoed from the client
		items = append(items, models.OrderLineItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
		})
	}

	order := &models.Order{
		ID:         uuid.New(),
		UserID:     buyerID,
		Products:   items,
		TotalPrice: totalPrice,
		Status:     models.OrderStatusPending,
		OrderDate:  time.Now(),
	}

	if err := s.orderRepo.CreateOrder(ctx, order); err != nil {
		return nil, errors.DatabaseError("Failed to place order").WithError(err)
	}

	return order, nil
}

// ListOrdersByBuyer returns the buyer's orders with each line item expanded
// to the current catalog snapshot of its product, for display. Prices shown
// per line may have drifted from the settled total; the total on the order
// is the immutable record. Products deleted since purchase expand to nil.
func (s *orderService) ListOrdersByBuyer(ctx context.Context, buyerID, assertedBuyerID uuid.UUID) ([]models.Order, error) {

	if assertedBuyerID != buyerID {
		return nil, errors.ForbiddenError("Access denied.")
	}

	orders, err := s.orderRepo.ListOrdersByBuyer(ctx, buyerID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	for i := range orders {
		for j := range orders[i].Products {

			product, err := s.productRepo.GetProductByID(ctx, orders[i].Products[j].ProductID)
			if err != nil {
				if stderrors.Is(err, sql.ErrNoRows) {
					continue
				}
				return nil, errors.DatabaseError("Failed to expand order products").WithError(err)
			}

			orders[i].Products[j].Product = product
		}
	}

	return orders, nil
}
