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

type UserHandler struct {
	userService service.UserService
	validator   *validator.Validate
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService, validator: validator.New()}
}

func (h *UserHandler) Signup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.SignupRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		user, err := h.userService.Register(r.Context(), &req)
		if err != nil {
			logger.Warn("User signup failed", slog.String("email", req.Email), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("User signed up", slog.String("userId", user.ID.String()))
		response.Success(w, http.StatusOK, user.Public())
	}
}

func (h *UserHandler) Signin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.SigninRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		resp, err := h.userService.Login(r.Context(), &req)
		if err != nil {
			logger.Error("Signin failed", slog.String("email", req.Email), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		if !resp.Success {
			status := http.StatusBadRequest
			code := errors.ErrCodeBadRequest
			if resp.RetryAfter > 0 {
				status = http.StatusTooManyRequests
				code = errors.ErrCodeTooManyRequests
			}

			logger.Warn("Signin rejected", slog.String("email", req.Email))
			response.WriteJson(w, status, response.APIResponse{
				Success: false,
				Error:   &response.ErrorResponse{Code: code, Message: resp.Message},
			})
			return
		}

		// Token travels in the custom header as well as the body
		w.Header().Set(middleware.TokenHeader, resp.Token)

		logger.Info("User signed in", slog.String("userId", resp.User.ID.String()))
		response.Success(w, http.StatusOK, resp)
	}
}
