package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// ErrScriptUnavailable is returned when the hosted checkout script cannot be
// fetched from the Razorpay CDN.
var ErrScriptUnavailable = errors.New("Unable to load Razorpay checkout SDK")

// OutcomeKind tags the result of a single hosted-modal attempt.
type OutcomeKind string

const (
	OutcomeSuccess   OutcomeKind = "success"
	OutcomeDismissed OutcomeKind = "dismissed"
	OutcomeFailed    OutcomeKind = "failed"
)

// PaymentOutcome is the single result of one modal open. Success carries the
// three gateway-issued verification fields, failed carries a reason, and
// dismissed carries nothing.
type PaymentOutcome struct {
	Kind              OutcomeKind `json:"type"`
	RazorpayOrderID   string      `json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID string      `json:"razorpay_payment_id,omitempty"`
	Signature         string      `json:"razorpay_signature,omitempty"`
	Reason            string      `json:"reason,omitempty"`
}

// CheckoutOptions mirror the option object handed to the hosted Razorpay
// modal constructor. Field names follow the Razorpay checkout contract.
type CheckoutOptions struct {
	Key         string          `json:"key"`
	Amount      int64           `json:"amount"`
	Currency    string          `json:"currency"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	OrderID     string          `json:"order_id"`
	Prefill     CheckoutPrefill `json:"prefill"`
	Theme       CheckoutTheme   `json:"theme"`
}

type CheckoutPrefill struct {
	Name string `json:"name"`
}

type CheckoutTheme struct {
	Color string `json:"color"`
}

type pendingCheckout struct {
	options CheckoutOptions
	result  chan PaymentOutcome
	once    sync.Once
}

// RazorpayService bridges the BFF to Razorpay's hosted payment modal. The
// checkout script is downloaded at most once per process and served to the
// browser shell; the modal outcome is relayed back through Resolve.
type RazorpayService struct {
	scriptURL string
	client    *http.Client

	mu      sync.Mutex
	script  []byte
	pending *pendingCheckout
}

// NewRazorpayService constructs the adapter against the checkout CDN URL.
func NewRazorpayService(scriptURL string) *RazorpayService {
	return &RazorpayService{
		scriptURL: scriptURL,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// EnsureReady downloads the hosted checkout script on first use. Success is
// memoized for the life of the process; a failed load leaves the slot empty
// so the next checkout attempt retries. Only one checkout runs at a time, so
// the mutex doubles as the single in-flight guard.
func (s *RazorpayService) EnsureReady(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.script != nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.scriptURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrScriptUnavailable, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrScriptUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrScriptUnavailable, resp.StatusCode)
	}

	script, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrScriptUnavailable, err)
	}

	s.script = script
	return nil
}

// Script returns the memoized checkout script, or nil when it has not been
// loaded yet.
func (s *RazorpayService) Script() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.script
}

// Open publishes the modal options for the browser shell and suspends until
// the user completes, dismisses, or fails authentication. It resolves with a
// tagged outcome rather than an error for every user-driven path; the only
// error is context cancellation.
func (s *RazorpayService) Open(ctx context.Context, options CheckoutOptions) (PaymentOutcome, error) {
	attempt := &pendingCheckout{
		options: options,
		result:  make(chan PaymentOutcome, 1),
	}

	s.mu.Lock()
	s.pending = attempt
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if s.pending == attempt {
			s.pending = nil
		}
		s.mu.Unlock()
	}()

	select {
	case outcome := <-attempt.result:
		return outcome, nil
	case <-ctx.Done():
		return PaymentOutcome{}, ctx.Err()
	}
}

// Resolve delivers the browser-relayed modal result to the suspended Open
// call. Exactly one outcome is accepted per open; later events (for example
// payment.failed firing after a dismiss) are ignored. It reports whether the
// outcome was accepted.
func (s *RazorpayService) Resolve(outcome PaymentOutcome) bool {
	s.mu.Lock()
	attempt := s.pending
	s.mu.Unlock()

	if attempt == nil {
		return false
	}

	delivered := false
	attempt.once.Do(func() {
		attempt.result <- outcome
		delivered = true
	})
	return delivered
}

// PendingOptions exposes the modal options of the in-flight checkout, if any.
func (s *RazorpayService) PendingOptions() (CheckoutOptions, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return CheckoutOptions{}, false
	}
	return s.pending.options, true
}
