package models

// Backend order lifecycle statuses as the order service reports them.
// The service also emits "Payment Error", "Payment Service Unavailable" and
// "CANCELLATION_FAILED" on its own failure paths; those have no dedicated
// display bucket and fall through the default in MapOrderStatus.
const (
	StatusPending             = "Pending"
	StatusConfirmed           = "Confirmed"
	StatusPaymentFailed       = "Payment Failed"
	StatusCancelled           = "CANCELLED"
	StatusCancellationPending = "CANCELLATION_PENDING"
)

// Display statuses shown in the payments history view.
const (
	DisplayCompleted = "COMPLETED"
	DisplayFailed    = "FAILED"
	DisplayRefunded  = "REFUNDED"
	DisplayPending   = "PENDING"
)

// Order is the backend-owned purchase record. The BFF never mutates it
// directly; every transition goes through an order-service endpoint.
type Order struct {
	OrderID      string  `json:"orderId"`
	CustomerName string  `json:"customerName"`
	TotalAmount  float64 `json:"totalAmount"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"createdAt"`
}

// Transaction is the read-only history projection of an Order. It is
// recomputed on every history load and never stored.
type Transaction struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Date      string  `json:"date"`
	CreatedAt string  `json:"createdAt"`
	Amount    float64 `json:"amount"`
	Status    string  `json:"status"`
}

var statusDisplayMapping = map[string]string{
	StatusConfirmed:           DisplayCompleted,
	StatusPending:             DisplayPending,
	StatusPaymentFailed:       DisplayFailed,
	StatusCancelled:           DisplayRefunded,
	StatusCancellationPending: DisplayPending,
}

// MapOrderStatus translates a backend order status into its display bucket.
// Unknown statuses map to COMPLETED, matching the upstream product behavior.
func MapOrderStatus(orderStatus string) string {
	if display, ok := statusDisplayMapping[orderStatus]; ok {
		return display
	}
	return DisplayCompleted
}
