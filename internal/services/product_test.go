package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	appErrors "github.com/storefrontlabs/storefront/internal/errors"
	"github.com/storefrontlabs/storefront/internal/models"
	"github.com/storefrontlabs/storefront/internal/repositories/mocks"
	service "github.com/storefrontlabs/storefront/internal/services"
)

func TestProductService_CreateProduct(t *testing.T) {

	t.Run("Success - Product Created", func(t *testing.T) {

		mockProductRepo := mocks.NewProductRepository(t)
		productService := service.NewProductService(mockProductRepo)
		ctx := context.Background()

		req := &models.CreateProductRequest{
			Name:        "Mechanical Keyboard",
			Description: "Tenkeyless, brown switches",
			Price:       decimal.RequireFromString("19.99"),
		}

		mockProductRepo.On("CreateProduct", ctx, mock.AnythingOfType("*models.Product")).Return(nil).Once()

		product, err := productService.CreateProduct(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, req.Name, product.Name)
		assert.True(t, product.Price.Equal(req.Price))
	})

	t.Run("Success - Zero Price Allowed", func(t *testing.T) {

		mockProductRepo := mocks.NewProductRepository(t)
		productService := service.NewProductService(mockProductRepo)
		ctx := context.Background()

		req := &models.CreateProductRequest{
			Name:        "Sticker Pack",
			Description: "Free with any order",
			Price:       decimal.Zero,
		}

		mockProductRepo.On("CreateProduct", ctx, mock.AnythingOfType("*models.Product")).Return(nil).Once()

		product, err := productService.CreateProduct(ctx, req)

		assert.NoError(t, err)
		assert.True(t, product.Price.IsZero())
	})

	t.Run("Failure - Negative Price Rejected", func(t *testing.T) {

		mockProductRepo := mocks.NewProductRepository(t)
		productService := service.NewProductService(mockProductRepo)
		ctx := context.Background()

		req := &models.CreateProductRequest{
			Name:        "Broken Listing",
			Description: "Should never exist",
			Price:       decimal.RequireFromString("-1.00"),
		}

		product, err := productService.CreateProduct(ctx, req)

		assert.Nil(t, product)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeValidation, appErr.Code)
		mockProductRepo.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
	})
}

func TestProductService_ListProducts(t *testing.T) {

	t.Run("Success - Catalog Returned", func(t *testing.T) {

		mockProductRepo := mocks.NewProductRepository(t)
		productService := service.NewProductService(mockProductRepo)
		ctx := context.Background()

		catalog := []models.Product{
			{Name: "Mechanical Keyboard", Price: decimal.RequireFromString("19.99")},
			{Name: "Desk Mat", Price: decimal.RequireFromString("9.50")},
		}

		mockProductRepo.On("ListProducts", ctx).Return(catalog, nil).Once()

		products, err := productService.ListProducts(ctx)

		assert.NoError(t, err)
		assert.Len(t, products, 2)
	})

	t.Run("Failure - Storage Error", func(t *testing.T) {

		mockProductRepo := mocks.NewProductRepository(t)
		productService := service.NewProductService(mockProductRepo)
		ctx := context.Background()

		mockProductRepo.On("ListProducts", ctx).Return(nil, errors.New("connection reset")).Once()

		products, err := productService.ListProducts(ctx)

		assert.Nil(t, products)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeDatabaseError, appErr.Code)
	})
}
