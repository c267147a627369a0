package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/example/flavorpay/internal/models"
)

// APIError is a non-success response from the backend gateway.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// PaymentIntent is the gateway-side order returned by the payment service.
// Amount is in minor currency units, as Razorpay expects.
type PaymentIntent struct {
	AppOrderID      string `json:"appOrderId"`
	RazorpayOrderID string `json:"razorpayOrderId"`
	KeyID           string `json:"keyId"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	Status          string `json:"status"`
}

// PaymentConfirmation is the payment service's verification record.
type PaymentConfirmation struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

// BackendClient wraps the order and payment service REST endpoints exposed
// through the API gateway. It performs no retries; recovery is the caller's
// concern.
type BackendClient struct {
	baseURL string
	client  *http.Client
}

// NewBackendClient constructs a client against the gateway base URL.
func NewBackendClient(baseURL string) *BackendClient {
	return &BackendClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type createOrderRequest struct {
	CustomerName  string  `json:"customerName"`
	TotalAmount   float64 `json:"totalAmount"`
	PaymentMethod string  `json:"paymentMethod"`
}

type createRazorpayOrderRequest struct {
	OrderID       string  `json:"orderId"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"paymentMethod"`
	CustomerName  string  `json:"customerName"`
}

type verifyRazorpayRequest struct {
	OrderID           string `json:"orderId"`
	RazorpayOrderID   string `json:"razorpayOrderId"`
	RazorpayPaymentID string `json:"razorpayPaymentId"`
	RazorpaySignature string `json:"razorpaySignature"`
}

// CreateOrder registers a new order with the order service.
func (c *BackendClient) CreateOrder(ctx context.Context, customerName string, totalAmount float64, paymentMethod string) (*models.Order, error) {
	status, body, err := c.do(ctx, http.MethodPost, "/order/api/orders", createOrderRequest{
		CustomerName:  customerName,
		TotalAmount:   totalAmount,
		PaymentMethod: paymentMethod,
	})
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		if status == http.StatusServiceUnavailable {
			return nil, &APIError{Status: status, Message: "Order service unavailable (503). Start eureka, gateway, and order services."}
		}
		return nil, &APIError{Status: status, Message: fmt.Sprintf("Order creation failed: %d", status)}
	}

	var order models.Order
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("create order unmarshal: %w", err)
	}
	return &order, nil
}

// CreateRazorpayOrder asks the payment service to open a gateway-side order
// linked to the given app order.
func (c *BackendClient) CreateRazorpayOrder(ctx context.Context, orderID string, amount float64, paymentMethod, customerName string) (*PaymentIntent, error) {
	status, body, err := c.do(ctx, http.MethodPost, "/payments/api/payments/razorpay/order", createRazorpayOrderRequest{
		OrderID:       orderID,
		Amount:        amount,
		PaymentMethod: paymentMethod,
		CustomerName:  customerName,
	})
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		if status == http.StatusServiceUnavailable {
			return nil, &APIError{Status: status, Message: "Payment service unavailable (503). Start eureka, gateway, and payment services."}
		}
		return nil, &APIError{Status: status, Message: fmt.Sprintf("Razorpay order creation failed: %d", status)}
	}

	var intent PaymentIntent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, fmt.Errorf("create razorpay order unmarshal: %w", err)
	}
	return &intent, nil
}

// VerifyRazorpayPayment submits the gateway-issued credentials for signature
// verification. On rejection the server-supplied message is preferred over
// the generic one.
func (c *BackendClient) VerifyRazorpayPayment(ctx context.Context, orderID, razorpayOrderID, razorpayPaymentID, signature string) (*PaymentConfirmation, error) {
	status, body, err := c.do(ctx, http.MethodPost, "/payments/api/payments/razorpay/verify", verifyRazorpayRequest{
		OrderID:           orderID,
		RazorpayOrderID:   razorpayOrderID,
		RazorpayPaymentID: razorpayPaymentID,
		RazorpaySignature: signature,
	})
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		message := fmt.Sprintf("Razorpay verification failed: %d", status)
		var failure struct {
			Message string `json:"message"`
		}
		if unmarshalErr := json.Unmarshal(body, &failure); unmarshalErr == nil && failure.Message != "" {
			message = failure.Message
		}
		return nil, &APIError{Status: status, Message: message}
	}

	var confirmation PaymentConfirmation
	if err := json.Unmarshal(body, &confirmation); err != nil {
		return nil, fmt.Errorf("verify payment unmarshal: %w", err)
	}
	return &confirmation, nil
}

// ConfirmOrder transitions the order to Confirmed.
func (c *BackendClient) ConfirmOrder(ctx context.Context, orderID string) (*models.Order, error) {
	return c.postOrderTransition(ctx, orderID, "confirm", "Order confirmation failed")
}

// MarkPaymentFailed transitions the order to Payment Failed. This is the
// compensating call issued when a checkout attempt dies after the order was
// created.
func (c *BackendClient) MarkPaymentFailed(ctx context.Context, orderID string) (*models.Order, error) {
	return c.postOrderTransition(ctx, orderID, "payment-failed", "Mark payment failed request failed")
}

// CancelOrder requests cancellation and refund of a confirmed order.
func (c *BackendClient) CancelOrder(ctx context.Context, orderID string) (*models.Order, error) {
	return c.postOrderTransition(ctx, orderID, "cancel", "Order cancellation failed")
}

func (c *BackendClient) postOrderTransition(ctx context.Context, orderID, action, failurePrefix string) (*models.Order, error) {
	status, body, err := c.do(ctx, http.MethodPost, "/order/api/orders/"+orderID+"/"+action, nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &APIError{Status: status, Message: fmt.Sprintf("%s: %d", failurePrefix, status)}
	}

	var order models.Order
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("%s unmarshal: %w", action, err)
	}
	return &order, nil
}

// GetAllOrders fetches every order known to the order service, in backend
// insertion order.
func (c *BackendClient) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/order/api/orders", nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &APIError{Status: status, Message: fmt.Sprintf("Failed to fetch orders: %d", status)}
	}

	var orders []models.Order
	if err := json.Unmarshal(body, &orders); err != nil {
		return nil, fmt.Errorf("list orders unmarshal: %w", err)
	}
	return orders, nil
}

// GetOrder fetches a single order. A 404 is not an error: it reports the
// order as absent via the boolean.
func (c *BackendClient) GetOrder(ctx context.Context, orderID string) (*models.Order, bool, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/order/api/orders/"+orderID, nil)
	if err != nil {
		return nil, false, err
	}
	if status == http.StatusNotFound {
		return nil, false, nil
	}
	if status < 200 || status >= 300 {
		return nil, false, &APIError{Status: status, Message: fmt.Sprintf("Failed to fetch order: %d", status)}
	}

	var order models.Order
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, false, fmt.Errorf("get order unmarshal: %w", err)
	}
	return &order, true, nil
}

func (c *BackendClient) do(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	var bodyReader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("backend request marshal: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("backend request build: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("backend request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, body, nil
}
