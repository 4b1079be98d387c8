// Package cart holds the client-side staging area for line items prior to
// checkout. It is optimistic and unauthenticated: totals computed here are
// display-only estimates, and the server recomputes the authoritative
// total from catalog prices at placement.
package cart

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductSnapshot is the client's view of a catalog product as last
// fetched. Depending on which API produced it, the identifier may arrive
// under "id" or the legacy document alias "_id"; CanonicalID resolves both
// to one key.
type ProductSnapshot struct {
	ID          uuid.UUID       `json:"id,omitempty"`
	LegacyID    uuid.UUID       `json:"_id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

func (p ProductSnapshot) CanonicalID() uuid.UUID {
	if p.ID != uuid.Nil {
		return p.ID
	}

	return p.LegacyID
}

// LineItem pairs a product snapshot with a staged quantity. Its identity
// is the product's canonical id.
type LineItem struct {
	Product  ProductSnapshot `json:"product"`
	Quantity int             `json:"quantity"`
}

// Cart is an explicit state object owned by the client session. It is not
// durable by itself; persistence happens only through Save/Load against a
// Store.
type Cart struct {
	mu    sync.Mutex
	items []LineItem
}

func New() *Cart {
	return &Cart{}
}

// Add merges by canonical product id: adding a product already in the cart
// grows its quantity rather than appending a second line item. The id is
// normalized once here; all later comparisons use the one canonical key.
func (c *Cart) Add(product ProductSnapshot, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	// Normalize at the boundary
	product.ID = product.CanonicalID()
	product.LegacyID = uuid.Nil

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].Product.ID == product.ID {
			c.items[i].Quantity += quantity
			return
		}
	}

	c.items = append(c.items, LineItem{Product: product, Quantity: quantity})
}

// Remove drops the line item for the product id; absent ids are a no-op.
func (c *Cart) Remove(productID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// SetQuantity replaces the staged quantity. Zero or negative quantities
// are equivalent to Remove.
func (c *Cart) SetQuantity(productID uuid.UUID, quantity int) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items[i].Quantity = quantity
			return
		}
	}
}

// Items returns a copy of the staged line items in insertion order.
func (c *Cart) Items() []LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]LineItem, len(c.items))
	copy(items, c.items)

	return items
}

// Len is the number of distinct line items.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items)
}

// ItemCount is the total staged quantity across all line items.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}

	return count
}

// EstimatedTotal sums snapshot price times quantity. It is an estimate for
// display: the committed amount is always the server-computed settled
// total.
func (c *Cart) EstimatedTotal() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	return total
}

// Clear empties the cart. Callers must only invoke this after a confirmed
// successful placement; a failed or timed-out placement leaves the cart
// intact so the user can retry.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
}

// Save writes the cart through the explicit persistence boundary.
func (c *Cart) Save(store Store) error {
	return store.Save(c.Items())
}

// Load rebuilds a cart from a Store. A missing backing record yields an
// empty cart.
func Load(store Store) (*Cart, error) {
	items, err := store.Load()
	if err != nil {
		return nil, err
	}

	c := New()
	for _, item := range items {
		c.Add(item.Product, item.Quantity)
	}

	return c, nil
}
