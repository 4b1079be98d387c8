// Package client is a typed HTTP client for the storefront services. It
// carries the session token between calls and owns the checkout handshake:
// the local cart is cleared only after the server confirms placement.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/storefrontlabs/storefront/internal/api/middleware"
	"github.com/storefrontlabs/storefront/internal/models"
	"github.com/storefrontlabs/storefront/pkg/cart"
)

var ErrNotSignedIn = errors.New("not signed in")

// APIError is a non-2xx response decoded from the service envelope.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

type Client struct {
	httpClient      *http.Client
	userBaseURL     string
	commerceBaseURL string

	token string
	user  *models.PublicUser
}

func New(userBaseURL, commerceBaseURL string) *Client {
	return &Client{
		httpClient:      &http.Client{Timeout: 30 * time.Second},
		userBaseURL:     userBaseURL,
		commerceBaseURL: commerceBaseURL,
	}
}

// envelope mirrors the services' response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *Client) do(ctx context.Context, method, url string, body any, wantStatus int, out any) (*http.Response, error) {

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set(middleware.TokenHeader, c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode != wantStatus {
		apiErr := &APIError{StatusCode: resp.StatusCode, Code: "UNKNOWN", Message: http.StatusText(resp.StatusCode)}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return resp, apiErr
	}

	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("failed to decode response data: %w", err)
		}
	}

	return resp, nil
}

// SignUp registers a new account. The returned profile never includes
// credentials.
func (c *Client) SignUp(ctx context.Context, name, email, password string) (*models.PublicUser, error) {

	req := models.SignupRequest{Name: name, Email: email, Password: password}

	var user models.PublicUser
	if _, err := c.do(ctx, http.MethodPost, c.userBaseURL+"/api/user/signup", req, http.StatusOK, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// SignIn authenticates and stores the session token for later calls. The
// token is read from the x-auth-token response header, falling back to the
// body copy.
func (c *Client) SignIn(ctx context.Context, email, password string) (*models.PublicUser, error) {

	req := models.SigninRequest{Email: email, Password: password}

	var signin models.SigninResponse
	resp, err := c.do(ctx, http.MethodPost, c.userBaseURL+"/api/user/signin", req, http.StatusOK, &signin)
	if err != nil {
		return nil, err
	}

	token := resp.Header.Get(middleware.TokenHeader)
	if token == "" {
		token = signin.Token
	}
	if token == "" {
		return nil, errors.New("signin response carried no token")
	}

	c.token = token
	c.user = signin.User

	return signin.User, nil
}

// SignOut drops the local session. The token itself stays valid until it
// expires; verification is stateless.
func (c *Client) SignOut() {
	c.token = ""
	c.user = nil
}

// Products fetches the public catalog.
func (c *Client) Products(ctx context.Context) ([]cart.ProductSnapshot, error) {

	var products []cart.ProductSnapshot
	if _, err := c.do(ctx, http.MethodGet, c.commerceBaseURL+"/api/commerce/products/all-products", nil, http.StatusOK, &products); err != nil {
		return nil, err
	}

	return products, nil
}

// PlaceOrder submits the cart for settlement. Only product ids and
// quantities go over the wire; the server resolves prices from the catalog.
// The cart is cleared only after a confirmed 201, so any failure, including
// a timeout where the outcome is unknown, leaves it intact for retry.
func (c *Client) PlaceOrder(ctx context.Context, crt *cart.Cart) (*models.Order, error) {

	if c.token == "" || c.user == nil {
		return nil, ErrNotSignedIn
	}

	items := crt.Items()
	if len(items) == 0 {
		return nil, errors.New("cart is empty")
	}

	req := models.CreateOrderRequest{UserID: c.user.ID}
	for _, item := range items {
		req.Products = append(req.Products, models.OrderLineItem{
			ProductID: item.Product.CanonicalID(),
			Quantity:  item.Quantity,
		})
	}

	var order models.Order
	if _, err := c.do(ctx, http.MethodPost, c.commerceBaseURL+"/api/commerce/orders/create-order", req, http.StatusCreated, &order); err != nil {
		return nil, err
	}

	crt.Clear()

	return &order, nil
}

// Orders lists the signed-in user's order history, newest first.
func (c *Client) Orders(ctx context.Context) ([]models.Order, error) {

	if c.token == "" || c.user == nil {
		return nil, ErrNotSignedIn
	}

	var orders []models.Order
	url := fmt.Sprintf("%s/api/commerce/orders/view/%s", c.commerceBaseURL, c.user.ID)
	if _, err := c.do(ctx, http.MethodGet, url, nil, http.StatusOK, &orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// User returns the signed-in profile, or nil when no session is active.
func (c *Client) User() *models.PublicUser {
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}
