package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/storefrontlabs/storefront/internal/api/handlers"
	"github.com/storefrontlabs/storefront/internal/errors"
	"github.com/storefrontlabs/storefront/internal/models"
	repomocks "github.com/storefrontlabs/storefront/internal/repositories/mocks"
	service "github.com/storefrontlabs/storefront/internal/services"
	"github.com/storefrontlabs/storefront/internal/services/mocks"
	"github.com/storefrontlabs/storefront/internal/testutils"
	"github.com/storefrontlabs/storefront/internal/utils/response"
)

func TestOrderHandler_CreateOrder(t *testing.T) {

	t.Run("Success - Order Placed", func(t *testing.T) {

		mockOrderService := mocks.NewOrderService(t)
		orderHandler := handlers.NewOrderHandler(mockOrderService)

		buyerID := uuid.New()
		productID := uuid.New()

		orderReq := &models.CreateOrderRequest{
			UserID: buyerID,
			Products: []models.OrderLineItem{
				{ProductID: productID, Quantity: 2},
			},
		}

		reqBody, err := json.Marshal(orderReq)
		assert.NoError(t, err)
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/commerce/orders/create-order", bytes.NewBuffer(reqBody), buyerID, nil)
		w := httptest.NewRecorder()

		placedOrder := &models.Order{
			ID:         uuid.New(),
			UserID:     buyerID,
			Products:   orderReq.Products,
			TotalPrice: decimal.RequireFromString("39.98"),
			Status:     models.OrderStatusPending,
			OrderDate:  time.Now(),
		}

		// The authenticated id from the token, not the body, is what the
		// handler hands to the service
		mockOrderService.On("CreateOrder", mock.Anything, buyerID, mock.MatchedBy(func(r *models.CreateOrderRequest) bool {
			return r.UserID == buyerID && len(r.Products) == 1
		})).Return(placedOrder, nil).Once()

		orderHandler.CreateOrder()(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var apiResp response.APIResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiResp))
		assert.True(t, apiResp.Success)

		data, _ := json.Marshal(apiResp.Data)
		assert.Contains(t, string(data), "39.98")
		assert.Contains(t, string(data), "pending")
	})

	t.Run("Failure - No Authenticated User", func(t *testing.T) {

		mockOrderService := mocks.NewOrderService(t)
		orderHandler := handlers.NewOrderHandler(mockOrderService)

		orderReq := &models.CreateOrderRequest{
			UserID:   uuid.New(),
			Products: []models.OrderLineItem{{ProductID: uuid.New(), Quantity: 1}},
		}

		reqBody, _ := json.Marshal(orderReq)
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/commerce/orders/create-order", bytes.NewBuffer(reqBody), nil)
		w := httptest.NewRecorder()

		orderHandler.CreateOrder()(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockOrderService.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Buyer Mismatch Bubbles Up As 403", func(t *testing.T) {

		mockOrderService := mocks.NewOrderService(t)
		orderHandler := handlers.NewOrderHandler(mockOrderService)

		buyerID := uuid.New()

		orderReq := &models.CreateOrderRequest{
			UserID:   uuid.New(),
			Products: []models.OrderLineItem{{ProductID: uuid.New(), Quantity: 1}},
		}

		reqBody, _ := json.Marshal(orderReq)
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/commerce/orders/create-order", bytes.NewBuffer(reqBody), buyerID, nil)
		w := httptest.NewRecorder()

		mockOrderService.On("CreateOrder", mock.Anything, buyerID, mock.AnythingOfType("*models.CreateOrderRequest")).
			Return(nil, errors.ForbiddenError("Access denied.")).Once()

		orderHandler.CreateOrder()(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)

		var apiResp response.APIResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiResp))
		assert.Equal(t, errors.ErrCodeForbidden, apiResp.Error.Code)
	})

	t.Run("Failure - Buyer Mismatch Outranks Empty Cart", func(t *testing.T) {

		// Wired through the real order service: ownership must be judged
		// before the product list, so asserting another buyer's id with an
		// empty cart is 403, not 400
		orderService := service.NewOrderService(repomocks.NewOrderRepository(t), repomocks.NewProductRepository(t))
		orderHandler := handlers.NewOrderHandler(orderService)

		buyerID := uuid.New()

		reqBody, _ := json.Marshal(&models.CreateOrderRequest{UserID: uuid.New()})
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/commerce/orders/create-order", bytes.NewBuffer(reqBody), buyerID, nil)
		w := httptest.NewRecorder()

		orderHandler.CreateOrder()(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)

		var apiResp response.APIResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiResp))
		assert.Equal(t, errors.ErrCodeForbidden, apiResp.Error.Code)
	})

	t.Run("Failure - Own Empty Cart Is 400", func(t *testing.T) {

		orderService := service.NewOrderService(repomocks.NewOrderRepository(t), repomocks.NewProductRepository(t))
		orderHandler := handlers.NewOrderHandler(orderService)

		buyerID := uuid.New()

		reqBody, _ := json.Marshal(&models.CreateOrderRequest{UserID: buyerID})
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/commerce/orders/create-order", bytes.NewBuffer(reqBody), buyerID, nil)
		w := httptest.NewRecorder()

		orderHandler.CreateOrder()(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var apiResp response.APIResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiResp))
		assert.Equal(t, errors.ErrCodeBadRequest, apiResp.Error.Code)
	})

	t.Run("Failure - Unknown Product Is 404", func(t *testing.T) {

		mockOrderService := mocks.NewOrderService(t)
		orderHandler := handlers.NewOrderHandler(mockOrderService)

		buyerID := uuid.New()
		unknownID := uuid.New()

		orderReq := &models.CreateOrderRequest{
			UserID:   buyerID,
			Products: []models.OrderLineItem{{ProductID: unknownID, Quantity: 1}},
		}

		reqBody, _ := json.Marshal(orderReq)
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/commerce/orders/create-order", bytes.NewBuffer(reqBody), buyerID, nil)
		w := httptest.NewRecorder()

		mockOrderService.On("CreateOrder", mock.Anything, buyerID, mock.AnythingOfType("*models.CreateOrderRequest")).
			Return(nil, errors.NotFoundError("Product not found: "+unknownID.String())).Once()

		orderHandler.CreateOrder()(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestOrderHandler_ListOrders(t *testing.T) {

	t.Run("Success - Own Orders Returned", func(t *testing.T) {

		mockOrderService := mocks.NewOrderService(t)
		orderHandler := handlers.NewOrderHandler(mockOrderService)

		buyerID := uuid.New()

		orders := []models.Order{
			{
				ID:         uuid.New(),
				UserID:     buyerID,
				TotalPrice: decimal.RequireFromString("39.98"),
				Status:     models.OrderStatusPending,
			},
		}

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/commerce/orders/view/"+buyerID.String(), nil, buyerID,
			map[string]string{"userId": buyerID.String()})
		w := httptest.NewRecorder()

		mockOrderService.On("ListOrdersByBuyer", mock.Anything, buyerID, buyerID).Return(orders, nil).Once()

		orderHandler.ListOrders()(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var apiResp response.APIResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiResp))
		assert.True(t, apiResp.Success)
	})

	t.Run("Success - No Orders Is Empty List", func(t *testing.T) {

		mockOrderService := mocks.NewOrderService(t)
		orderHandler := handlers.NewOrderHandler(mockOrderService)

		buyerID := uuid.New()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/commerce/orders/view/"+buyerID.String(), nil, buyerID,
			map[string]string{"userId": buyerID.String()})
		w := httptest.NewRecorder()

		mockOrderService.On("ListOrdersByBuyer", mock.Anything, buyerID, buyerID).Return(nil, nil).Once()

		orderHandler.ListOrders()(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		// data must be a JSON array, not null
		var raw struct {
			Data json.RawMessage `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
		assert.JSONEq(t, `[]`, string(raw.Data))
	})

	t.Run("Failure - Another Buyer's History Is 403", func(t *testing.T) {

		mockOrderService := mocks.NewOrderService(t)
		orderHandler := handlers.NewOrderHandler(mockOrderService)

		buyerID := uuid.New()
		otherID := uuid.New()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/commerce/orders/view/"+otherID.String(), nil, buyerID,
			map[string]string{"userId": otherID.String()})
		w := httptest.NewRecorder()

		mockOrderService.On("ListOrdersByBuyer", mock.Anything, buyerID, otherID).
			Return(nil, errors.ForbiddenError("Access denied.")).Once()

		orderHandler.ListOrders()(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Failure - Malformed userId Path Value", func(t *testing.T) {

		mockOrderService := mocks.NewOrderService(t)
		orderHandler := handlers.NewOrderHandler(mockOrderService)

		buyerID := uuid.New()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/commerce/orders/view/not-a-uuid", nil, buyerID,
			map[string]string{"userId": "not-a-uuid"})
		w := httptest.NewRecorder()

		orderHandler.ListOrders()(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockOrderService.AssertNotCalled(t, "ListOrdersByBuyer", mock.Anything, mock.Anything, mock.Anything)
	})
}
