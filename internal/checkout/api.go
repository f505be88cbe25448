package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fftopup/internal/dto"
	"fftopup/internal/model"
)

var ErrOrderNotFound = errors.New("order not found")

// APIError is a non-2xx answer from the top-up API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api status %d: %s", e.StatusCode, e.Message)
}

type APIClient interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	DanaLink(ctx context.Context, amount int64, orderID string) (string, error)
	QrisCode(ctx context.Context, amount int64, orderID string) (string, error)
	ConfirmOrder(ctx context.Context, req dto.ConfirmOrderRequest) (*dto.ConfirmOrderResponse, error)
	OrderStatus(ctx context.Context, orderID string) (*dto.OrderStatusResponse, error)
}

type apiClientImpl struct {
	httpClient *http.Client
	baseURL    string
}

// NewAPIClient talks to the API mounted at baseURL, e.g. http://localhost:3000.
func NewAPIClient(baseURL string) APIClient {
	return &apiClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/") + "/api",
	}
}

func (c *apiClientImpl) ListProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (c *apiClientImpl) DanaLink(ctx context.Context, amount int64, orderID string) (string, error) {
	var res dto.DanaLinkResponse
	if err := c.do(ctx, http.MethodGet, "/payment/dana?"+paymentQuery(amount, orderID), nil, &res); err != nil {
		return "", fmt.Errorf("dana link: %w", err)
	}
	return res.PaymentLink, nil
}

func (c *apiClientImpl) QrisCode(ctx context.Context, amount int64, orderID string) (string, error) {
	var res dto.QrisCodeResponse
	if err := c.do(ctx, http.MethodGet, "/payment/qris?"+paymentQuery(amount, orderID), nil, &res); err != nil {
		return "", fmt.Errorf("qris code: %w", err)
	}
	return res.QRCodeURL, nil
}

func (c *apiClientImpl) ConfirmOrder(ctx context.Context, req dto.ConfirmOrderRequest) (*dto.ConfirmOrderResponse, error) {
	var res dto.ConfirmOrderResponse
	if err := c.do(ctx, http.MethodPost, "/orders/confirm", req, &res); err != nil {
		return nil, fmt.Errorf("confirm order: %w", err)
	}
	return &res, nil
}

func (c *apiClientImpl) OrderStatus(ctx context.Context, orderID string) (*dto.OrderStatusResponse, error) {
	var res dto.OrderStatusResponse
	err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderID)+"/status", nil, &res)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("order status: %w", err)
	}
	return &res, nil
}

func paymentQuery(amount int64, orderID string) string {
	q := url.Values{}
	q.Set("amount", strconv.FormatInt(amount, 10))
	q.Set("orderId", orderID)
	return q.Encode()
}

func (c *apiClientImpl) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var res dto.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&res); err != nil || res.Message == "" {
			res.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: res.Message}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
