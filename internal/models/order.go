package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
)

// OrderLineItem references a catalog product by id only; the quantity comes
// from the client request but the id is re-resolved against the catalog at
// commit time. Product is populated on reads with the current catalog
// snapshot and is never persisted.
type OrderLineItem struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
	Product   *Product  `json:"product,omitempty"`
}

// Order is an immutable record of a settled transaction. TotalPrice is
// computed server-side at creation and never recomputed afterward.
type Order struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"userId"`
	Products   []OrderLineItem `json:"products"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Status     OrderStatus     `json:"status"`
	OrderDate  time.Time       `json:"orderDate"`
}

type CreateOrderRequest struct {
	UserID uuid.UUID `json:"userId" validate:"required"`
	// Presence of the product list is deliberately not validated here:
	// ownership is checked before emptiness in the order service, so a
	// mismatched buyer with an empty cart still gets 403, not 400.
	Products []OrderLineItem `json:"products" validate:"dive"`
}
