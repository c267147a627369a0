package services

import (
	"context"
	"errors"
	"sync"

	"github.com/example/flavorpay/internal/models"
)

var errMockBackend = errors.New("mock backend error")

// mockBackend implements orderAPI with per-call overrides, call counters and
// recorded arguments.
type mockBackend struct {
	mu sync.Mutex

	CreateOrderFunc  func(ctx context.Context, customerName string, totalAmount float64, paymentMethod string) (*models.Order, error)
	CreateIntentFunc func(ctx context.Context, orderID string, amount float64, paymentMethod, customerName string) (*PaymentIntent, error)
	VerifyFunc       func(ctx context.Context, orderID, razorpayOrderID, razorpayPaymentID, signature string) (*PaymentConfirmation, error)
	MarkFailedFunc   func(ctx context.Context, orderID string) (*models.Order, error)
	GetAllOrdersFunc func(ctx context.Context) ([]models.Order, error)

	CreateOrderCalls  int
	CreateIntentCalls int
	VerifyCalls       int
	MarkFailedCalls   int

	LastMarkFailedOrderID string
	Sequence              []string
}

func (m *mockBackend) record(call string) {
	m.Sequence = append(m.Sequence, call)
}

func (m *mockBackend) CreateOrder(ctx context.Context, customerName string, totalAmount float64, paymentMethod string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateOrderCalls++
	m.record("createOrder")
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, customerName, totalAmount, paymentMethod)
	}
	return &models.Order{OrderID: "ORD1", CustomerName: customerName, TotalAmount: totalAmount, Status: models.StatusPending}, nil
}

func (m *mockBackend) CreateRazorpayOrder(ctx context.Context, orderID string, amount float64, paymentMethod, customerName string) (*PaymentIntent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateIntentCalls++
	m.record("createRazorpayOrder")
	if m.CreateIntentFunc != nil {
		return m.CreateIntentFunc(ctx, orderID, amount, paymentMethod, customerName)
	}
	return &PaymentIntent{
		AppOrderID:      orderID,
		RazorpayOrderID: "rzp_order_1",
		KeyID:           "rzp_key",
		Amount:          int64(amount * 100),
		Currency:        "INR",
	}, nil
}

func (m *mockBackend) VerifyRazorpayPayment(ctx context.Context, orderID, razorpayOrderID, razorpayPaymentID, signature string) (*PaymentConfirmation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.VerifyCalls++
	m.record("verify")
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, orderID, razorpayOrderID, razorpayPaymentID, signature)
	}
	return &PaymentConfirmation{OrderID: orderID, Status: "VERIFIED"}, nil
}

func (m *mockBackend) MarkPaymentFailed(ctx context.Context, orderID string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MarkFailedCalls++
	m.LastMarkFailedOrderID = orderID
	m.record("markPaymentFailed")
	if m.MarkFailedFunc != nil {
		return m.MarkFailedFunc(ctx, orderID)
	}
	return &models.Order{OrderID: orderID, Status: models.StatusPaymentFailed}, nil
}

func (m *mockBackend) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllOrdersFunc != nil {
		return m.GetAllOrdersFunc(ctx)
	}
	return nil, nil
}

func (m *mockBackend) snapshotCounts() (createOrder, createIntent, verify, markFailed int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CreateOrderCalls, m.CreateIntentCalls, m.VerifyCalls, m.MarkFailedCalls
}

// mockGateway implements checkoutGateway with a scripted modal outcome.
type mockGateway struct {
	mu sync.Mutex

	EnsureReadyFunc func(ctx context.Context) error
	OpenFunc        func(ctx context.Context, options CheckoutOptions) (PaymentOutcome, error)

	EnsureReadyCalls int
	OpenCalls        int
	LastOptions      CheckoutOptions

	Outcome PaymentOutcome
	backend *mockBackend
}

func (g *mockGateway) EnsureReady(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.EnsureReadyCalls++
	if g.EnsureReadyFunc != nil {
		return g.EnsureReadyFunc(ctx)
	}
	return nil
}

func (g *mockGateway) Open(ctx context.Context, options CheckoutOptions) (PaymentOutcome, error) {
	g.mu.Lock()
	g.OpenCalls++
	g.LastOptions = options
	openFunc := g.OpenFunc
	outcome := g.Outcome
	g.mu.Unlock()

	if g.backend != nil {
		g.backend.mu.Lock()
		g.backend.record("open")
		g.backend.mu.Unlock()
	}
	// Runs without the lock so a blocking OpenFunc cannot deadlock
	// PendingOptions.
	if openFunc != nil {
		return openFunc(ctx, options)
	}
	return outcome, nil
}

func (g *mockGateway) lastOptions() CheckoutOptions {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.LastOptions
}

func (g *mockGateway) Resolve(outcome PaymentOutcome) bool {
	return false
}

func (g *mockGateway) PendingOptions() (CheckoutOptions, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.OpenCalls == 0 {
		return CheckoutOptions{}, false
	}
	return g.LastOptions, true
}

// mockAdvisor implements adviceProvider.
type mockAdvisor struct {
	Advice     string
	Calls      int
	LastLatest float64
	LastTotal  float64
}

func (a *mockAdvisor) GetTransactionAdvice(ctx context.Context, latestAmount, monthTotal float64) string {
	a.Calls++
	a.LastLatest = latestAmount
	a.LastTotal = monthTotal
	return a.Advice
}

// mockLister implements ordersLister.
type mockLister struct {
	Orders []models.Order
	Err    error
}

func (l *mockLister) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	if l.Err != nil {
		return nil, l.Err
	}
	return l.Orders, nil
}
