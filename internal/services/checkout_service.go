package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/example/flavorpay/internal/models"
)

// State is the checkout flow's position. Processing is true for every state
// except Idle, Succeeded and Failed.
type State string

const (
	StateIdle                  State = "IDLE"
	StateCreatingOrder         State = "CREATING_ORDER"
	StateCreatingPaymentIntent State = "CREATING_PAYMENT_INTENT"
	StateAwaitingGateway       State = "AWAITING_GATEWAY"
	StateVerifying             State = "VERIFYING"
	StateSucceeded             State = "SUCCEEDED"
	StateFailed                State = "FAILED"
)

const (
	paymentMethodRazorpay = "Razorpay"

	msgCancelledOrFailed = "Payment was cancelled or failed. Please try again."
	msgGenericFailure    = "Unable to process payment. Please check your connection and try again."
)

// ErrCheckoutInProgress rejects a second checkout while one is processing.
var ErrCheckoutInProgress = errors.New("a checkout is already in progress")

// ErrUnknownAttempt rejects outcome submissions for a stale or unknown
// checkout attempt.
var ErrUnknownAttempt = errors.New("no matching checkout attempt")

type orderAPI interface {
	CreateOrder(ctx context.Context, customerName string, totalAmount float64, paymentMethod string) (*models.Order, error)
	CreateRazorpayOrder(ctx context.Context, orderID string, amount float64, paymentMethod, customerName string) (*PaymentIntent, error)
	VerifyRazorpayPayment(ctx context.Context, orderID, razorpayOrderID, razorpayPaymentID, signature string) (*PaymentConfirmation, error)
	MarkPaymentFailed(ctx context.Context, orderID string) (*models.Order, error)
}

type checkoutGateway interface {
	EnsureReady(ctx context.Context) error
	Open(ctx context.Context, options CheckoutOptions) (PaymentOutcome, error)
	Resolve(outcome PaymentOutcome) bool
	PendingOptions() (CheckoutOptions, bool)
}

// CheckoutSnapshot is the flow state handed to the polling UI.
type CheckoutSnapshot struct {
	AttemptID  string           `json:"attemptId"`
	State      State            `json:"state"`
	Processing bool             `json:"processing"`
	Message    string           `json:"message,omitempty"`
	OrderID    string           `json:"orderId,omitempty"`
	Checkout   *CheckoutOptions `json:"checkout,omitempty"`
}

// CheckoutService sequences a single payment attempt: create the app order,
// open a gateway-side order, collect the hosted modal outcome, verify, and
// compensate with a payment-failed transition when anything dies after the
// order exists. One attempt runs at a time; a new attempt always starts the
// whole sequence over with a brand-new order.
type CheckoutService struct {
	backend      orderAPI
	gateway      checkoutGateway
	merchantName string
	themeColor   string

	mu          sync.Mutex
	attemptID   string
	state       State
	message     string
	orderID     string
	compensated bool
}

// NewCheckoutService constructs the orchestrator over its two collaborators.
func NewCheckoutService(backend orderAPI, gateway checkoutGateway, merchantName, themeColor string) *CheckoutService {
	return &CheckoutService{
		backend:      backend,
		gateway:      gateway,
		merchantName: merchantName,
		themeColor:   themeColor,
		state:        StateIdle,
	}
}

// Processing reports whether an attempt is between its start and a terminal
// state. The UI disables the pay trigger while this is true.
func (s *CheckoutService) Processing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return processingState(s.state)
}

func processingState(state State) bool {
	switch state {
	case StateIdle, StateSucceeded, StateFailed:
		return false
	}
	return true
}

// Start begins a checkout attempt and returns its ID. It is a no-op while a
// previous attempt is still processing.
func (s *CheckoutService) Start(customerName string, totalAmount float64) (string, error) {
	s.mu.Lock()
	if processingState(s.state) {
		s.mu.Unlock()
		return "", ErrCheckoutInProgress
	}

	attemptID := uuid.NewString()
	s.attemptID = attemptID
	s.state = StateCreatingOrder
	s.message = ""
	s.orderID = ""
	s.compensated = false
	s.mu.Unlock()

	go s.run(customerName, totalAmount)
	return attemptID, nil
}

// run drives a single attempt start to finish. Each step begins only after
// the previous resolved; no step is ever issued twice within one attempt.
func (s *CheckoutService) run(customerName string, totalAmount float64) {
	// No deadline on purpose: the flow suspends as long as the modal stays
	// open, and the backend calls carry their own client timeouts.
	ctx := context.Background()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Checkout] unexpected fault: %v", r)
			s.compensate(ctx)
			s.fail(msgGenericFailure)
		}
	}()

	if err := s.gateway.EnsureReady(ctx); err != nil {
		// No order exists yet, so nothing to compensate.
		s.fail(failureMessage(err))
		return
	}

	order, err := s.backend.CreateOrder(ctx, customerName, totalAmount, paymentMethodRazorpay)
	if err != nil {
		s.fail(failureMessage(err))
		return
	}

	// Record the order ID before anything else can go wrong; compensation
	// is keyed on it.
	s.mu.Lock()
	s.orderID = order.OrderID
	s.state = StateCreatingPaymentIntent
	s.mu.Unlock()

	intent, err := s.backend.CreateRazorpayOrder(ctx, order.OrderID, totalAmount, paymentMethodRazorpay, customerName)
	if err != nil {
		s.compensate(ctx)
		s.fail(failureMessage(err))
		return
	}

	s.setState(StateAwaitingGateway)

	outcome, err := s.gateway.Open(ctx, CheckoutOptions{
		Key:         intent.KeyID,
		Amount:      intent.Amount,
		Currency:    intent.Currency,
		Name:        s.merchantName,
		Description: fmt.Sprintf("Order %s", order.OrderID),
		OrderID:     intent.RazorpayOrderID,
		Prefill:     CheckoutPrefill{Name: customerName},
		Theme:       CheckoutTheme{Color: s.themeColor},
	})
	if err != nil {
		s.compensate(ctx)
		s.fail(failureMessage(err))
		return
	}

	if outcome.Kind != OutcomeSuccess {
		// Dismissal and gateway-reported failure read the same to the user.
		s.compensate(ctx)
		s.fail(msgCancelledOrFailed)
		return
	}

	s.setState(StateVerifying)

	if _, err := s.backend.VerifyRazorpayPayment(ctx, order.OrderID, outcome.RazorpayOrderID, outcome.RazorpayPaymentID, outcome.Signature); err != nil {
		s.compensate(ctx)
		s.fail(failureMessage(err))
		return
	}

	s.mu.Lock()
	s.state = StateSucceeded
	s.mu.Unlock()
	log.Printf("[Checkout] payment verified for order %s", order.OrderID)
}

// SubmitOutcome relays the browser's modal result into the suspended flow.
func (s *CheckoutService) SubmitOutcome(attemptID string, outcome PaymentOutcome) error {
	s.mu.Lock()
	current := s.attemptID
	state := s.state
	s.mu.Unlock()

	if attemptID != current || state != StateAwaitingGateway {
		return ErrUnknownAttempt
	}
	if !s.gateway.Resolve(outcome) {
		return ErrUnknownAttempt
	}
	return nil
}

// Snapshot returns the current flow state for the given attempt.
func (s *CheckoutService) Snapshot(attemptID string) (CheckoutSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if attemptID != s.attemptID {
		return CheckoutSnapshot{}, ErrUnknownAttempt
	}

	snapshot := CheckoutSnapshot{
		AttemptID:  s.attemptID,
		State:      s.state,
		Processing: processingState(s.state),
		Message:    s.message,
		OrderID:    s.orderID,
	}

	if s.state == StateAwaitingGateway {
		if opts, pending := s.gateway.PendingOptions(); pending {
			snapshot.Checkout = &opts
		}
	}

	return snapshot, nil
}

// compensate marks the order's payment failed, at most once per attempt and
// only when an order was actually created. Its own failure is logged, never
// surfaced.
func (s *CheckoutService) compensate(ctx context.Context) {
	s.mu.Lock()
	orderID := s.orderID
	alreadyDone := s.compensated
	s.compensated = true
	s.mu.Unlock()

	if orderID == "" || alreadyDone {
		return
	}

	if _, err := s.backend.MarkPaymentFailed(ctx, orderID); err != nil {
		log.Printf("[Checkout] unable to mark order %s payment failed: %v", orderID, err)
	}
}

func (s *CheckoutService) fail(message string) {
	s.mu.Lock()
	s.state = StateFailed
	s.message = message
	s.mu.Unlock()
	log.Printf("[Checkout] attempt failed: %s", message)
}

func (s *CheckoutService) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func failureMessage(err error) string {
	if err == nil || err.Error() == "" {
		return msgGenericFailure
	}
	return err.Error()
}
