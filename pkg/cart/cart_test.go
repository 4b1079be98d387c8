package cart_test

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefrontlabs/storefront/pkg/cart"
)

func keyboard() cart.ProductSnapshot {
	return cart.ProductSnapshot{
		ID:    uuid.MustParse("6f1c6ad4-8f4a-4f25-9b6f-3a1e2b4c5d6e"),
		Name:  "Mechanical Keyboard",
		Price: decimal.RequireFromString("19.99"),
	}
}

func deskMat() cart.ProductSnapshot {
	return cart.ProductSnapshot{
		ID:    uuid.MustParse("0d9e8c7b-6a5f-4e3d-2c1b-0a9f8e7d6c5b"),
		Name:  "Desk Mat",
		Price: decimal.RequireFromString("9.50"),
	}
}

func TestCart_AddMergesByProduct(t *testing.T) {
	c := cart.New()

	c.Add(keyboard(), 2)
	c.Add(keyboard(), 3)

	require.Equal(t, 1, c.Len())
	assert.Equal(t, 5, c.Items()[0].Quantity)
	assert.Equal(t, 5, c.ItemCount())
}

func TestCart_AddMergesLegacyIDAlias(t *testing.T) {
	c := cart.New()

	product := keyboard()
	c.Add(product, 1)

	// Same product, identifier under the legacy "_id" key
	aliased := cart.ProductSnapshot{
		LegacyID: product.ID,
		Name:     product.Name,
		Price:    product.Price,
	}
	c.Add(aliased, 2)

	require.Equal(t, 1, c.Len(), "alias of the same product must not create a second line item")
	assert.Equal(t, 3, c.Items()[0].Quantity)
}

func TestCart_AddDefaultsQuantityToOne(t *testing.T) {
	c := cart.New()

	c.Add(keyboard(), 0)

	assert.Equal(t, 1, c.ItemCount())
}

func TestCart_SetQuantity(t *testing.T) {
	c := cart.New()
	product := keyboard()

	c.Add(product, 2)
	c.SetQuantity(product.ID, 7)

	assert.Equal(t, 7, c.Items()[0].Quantity)
}

func TestCart_SetQuantityZeroRemoves(t *testing.T) {
	c := cart.New()
	product := keyboard()

	c.Add(product, 2)
	c.SetQuantity(product.ID, 0)
	assert.Equal(t, 0, c.Len())

	c.Add(product, 2)
	c.SetQuantity(product.ID, -1)
	assert.Equal(t, 0, c.Len())
}

func TestCart_Remove(t *testing.T) {
	c := cart.New()

	c.Add(keyboard(), 1)
	c.Add(deskMat(), 1)

	c.Remove(keyboard().ID)

	require.Equal(t, 1, c.Len())
	assert.Equal(t, "Desk Mat", c.Items()[0].Product.Name)

	// Removing an absent id is a no-op
	c.Remove(uuid.New())
	assert.Equal(t, 1, c.Len())
}

func TestCart_EstimatedTotal(t *testing.T) {
	c := cart.New()

	c.Add(keyboard(), 2) // 39.98
	c.Add(deskMat(), 1)  // 9.50

	assert.True(t, c.EstimatedTotal().Equal(decimal.RequireFromString("49.48")))
}

func TestCart_Clear(t *testing.T) {
	c := cart.New()

	c.Add(keyboard(), 2)
	c.Clear()

	assert.Equal(t, 0, c.Len())
	assert.True(t, c.EstimatedTotal().IsZero())
}

func TestFileStore_RoundTrip(t *testing.T) {
	store := cart.NewFileStore(filepath.Join(t.TempDir(), "cart.json"))

	c := cart.New()
	c.Add(keyboard(), 2)
	c.Add(deskMat(), 1)

	require.NoError(t, c.Save(store))

	loaded, err := cart.Load(store)
	require.NoError(t, err)

	assert.Equal(t, 2, loaded.Len())
	assert.Equal(t, 3, loaded.ItemCount())
	assert.True(t, loaded.EstimatedTotal().Equal(c.EstimatedTotal()))
}

func TestFileStore_MissingFileIsEmptyCart(t *testing.T) {
	store := cart.NewFileStore(filepath.Join(t.TempDir(), "absent.json"))

	loaded, err := cart.Load(store)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Len())
}

func TestFileStore_Clear(t *testing.T) {
	store := cart.NewFileStore(filepath.Join(t.TempDir(), "cart.json"))

	c := cart.New()
	c.Add(keyboard(), 1)
	require.NoError(t, c.Save(store))

	require.NoError(t, store.Clear())

	loaded, err := cart.Load(store)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Len())

	// Clearing twice is fine
	assert.NoError(t, store.Clear())
}
