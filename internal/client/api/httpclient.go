package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/kolamstudio/shopengine/internal/client/models"
	"github.com/kolamstudio/shopengine/internal/common"
	"github.com/kolamstudio/shopengine/internal/logging"
)

// HTTPClient implements Client over the backend's JSON REST endpoints.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	log     logging.Logger

	token string

	onAuthRejected func(ctx context.Context)
}

func NewHTTPClient(baseURL string, timeout time.Duration, log logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: log,
	}
}

func (c *HTTPClient) SetToken(token string) { c.token = token }
func (c *HTTPClient) ClearToken()           { c.token = "" }
func (c *HTTPClient) Token() string         { return c.token }

// OnAuthRejected registers fn to be called whenever an authenticated request
// comes back 401. fn runs before the error is returned to the caller.
func (c *HTTPClient) OnAuthRejected(fn func(ctx context.Context)) {
	c.onAuthRejected = fn
}

// errorResponse is the backend's error envelope. The detail message is
// surfaced to the user verbatim when present.
type errorResponse struct {
	Detail string `json:"detail"`
}

// do sends one JSON request and decodes the response into out (skipped when
// out is nil). Transport-level failures map to common.ErrUnavailable; a 401
// on a request that carried a token maps to common.ErrAuthRejected. A 401
// without a token (wrong login credentials) keeps the backend's message.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s request: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	authed := c.token != ""
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug(ctx, "request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%s %s: %w", method, path, common.ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && authed {
		c.log.Warn(ctx, "token rejected", "method", method, "path", path)
		if c.onAuthRejected != nil {
			c.onAuthRejected(ctx)
		}
		return common.ErrAuthRejected
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return c.apiError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *HTTPClient) apiError(resp *http.Response) error {
	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err == nil && er.Detail != "" {
		return errors.New(er.Detail)
	}
	return fmt.Errorf("request failed with status %d", resp.StatusCode)
}

func (c *HTTPClient) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, http.MethodGet, "/api/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/api/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/api/login", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Register(ctx context.Context, fullName, email, password string) (string, error) {
	body := map[string]string{"fullname": fullName, "email": email, "password": password}
	var result struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/register", body, &result); err != nil {
		return "", err
	}
	return result.Message, nil
}

func (c *HTTPClient) Cart(ctx context.Context) ([]models.CartLine, error) {
	var result struct {
		Items []models.CartLine `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/cart/", nil, &result); err != nil {
		return nil, err
	}
	return result.Items, nil
}

func (c *HTTPClient) AddToCart(ctx context.Context, productID string, quantity int) error {
	body := map[string]any{"product_id": productID, "quantity": quantity}
	return c.do(ctx, http.MethodPost, "/api/cart/add", body, nil)
}

func (c *HTTPClient) RemoveFromCart(ctx context.Context, productID string) error {
	return c.do(ctx, http.MethodDelete, "/api/cart/remove/"+url.PathEscape(productID), nil, nil)
}

func (c *HTTPClient) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	body := map[string]int{"quantity": quantity}
	return c.do(ctx, http.MethodPut, "/api/cart/update/"+url.PathEscape(productID), body, nil)
}

func (c *HTTPClient) Checkout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/checkout/", nil, nil)
}

func (c *HTTPClient) CreatePaymentOrder(ctx context.Context, amount int64, email string) (*PaymentOrder, error) {
	body := map[string]any{"amount": amount}
	if email != "" {
		body["email"] = email
	}
	var order PaymentOrder
	if err := c.do(ctx, http.MethodPost, "/api/payment/create-order", body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *HTTPClient) VerifyPayment(ctx context.Context, req VerifyPaymentRequest) error {
	return c.do(ctx, http.MethodPost, "/api/payment/verify-payment", req, nil)
}
