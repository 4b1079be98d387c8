package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/storefrontlabs/storefront/internal/api/middleware"
	"github.com/storefrontlabs/storefront/internal/errors"
	"github.com/storefrontlabs/storefront/internal/models"
	service "github.com/storefrontlabs/storefront/internal/services"
	"github.com/storefrontlabs/storefront/internal/utils"
	"github.com/storefrontlabs/storefront/internal/utils/response"
)

type OrderHandler struct {
	orderService service.OrderService
	validator    *validator.Validate
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService, validator: validator.New()}
}

// CreateOrder settles the client's cart. The asserted userId in the body is
// compared against the authenticated identity in the service; a valid token
// for user A must never place orders for user B.
func (h *OrderHandler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized order creation attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}
		logger = logger.With(slog.String("userId", claims.UserID.String()))

		var req models.CreateOrderRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid create order input")
			return
		}

		order, err := h.orderService.CreateOrder(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Error("Failed to place order", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Order placed",
			slog.String("orderId", order.ID.String()),
			slog.String("totalPrice", order.TotalPrice.String()))
		response.Success(w, http.StatusCreated, order)
	}
}

func (h *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized order list attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}
		logger = logger.With(slog.String("userId", claims.UserID.String()))

		assertedBuyerID, err := utils.ParseID(r, "userId")
		if err != nil {
			logger.Warn("Invalid userId path value", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		orders, err := h.orderService.ListOrdersByBuyer(r.Context(), claims.UserID, assertedBuyerID)
		if err != nil {
			logger.Error("Failed to list orders", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		// No orders yet is success, not an error
		if orders == nil {
			orders = []models.Order{}
		}

		logger.Info("Orders listed", slog.Int("count", len(orders)))
		response.Success(w, http.StatusOK, orders)
	}
}
