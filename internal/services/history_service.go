package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/example/flavorpay/internal/models"
	"github.com/example/flavorpay/internal/utils"
)

// Filter selects how the payments history is restricted and ordered.
type Filter string

const (
	FilterAll     Filter = "All"
	FilterDate    Filter = "Date"
	FilterAmount  Filter = "Amount"
	FilterRefunds Filter = "Refunds"
)

const displayDateLayout = "Jan 2, 2006 3:04 PM"

// createdAtLayouts cover the order service's LocalDateTime serialization,
// with and without fractional seconds, plus plain RFC 3339.
var createdAtLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

type ordersLister interface {
	GetAllOrders(ctx context.Context) ([]models.Order, error)
}

type adviceProvider interface {
	GetTransactionAdvice(ctx context.Context, latestAmount, monthTotal float64) string
}

// HistorySnapshot is one load of the payments view: every order projected to
// a display transaction, the running total, and the advisory sentence.
type HistorySnapshot struct {
	Transactions []models.Transaction `json:"transactions"`
	TotalSpent   float64              `json:"totalSpent"`
	Insight      string               `json:"insight"`
}

// HistoryService builds the payments history view from the order service.
type HistoryService struct {
	backend ordersLister
	advisor adviceProvider
}

// NewHistoryService constructs the view model over its collaborators.
func NewHistoryService(backend ordersLister, advisor adviceProvider) *HistoryService {
	return &HistoryService{backend: backend, advisor: advisor}
}

// Load fetches all orders and projects them for display. A fetch failure is
// returned to the caller; the insight call can never fail the load.
func (s *HistoryService) Load(ctx context.Context) (*HistorySnapshot, error) {
	orders, err := s.backend.GetAllOrders(ctx)
	if err != nil {
		return nil, err
	}

	transactions := make([]models.Transaction, 0, len(orders))
	var total float64
	for _, order := range orders {
		createdAt := order.CreatedAt
		if createdAt == "" {
			createdAt = time.Now().Format(time.RFC3339)
		}
		transactions = append(transactions, models.Transaction{
			ID:        order.OrderID,
			Name:      fmt.Sprintf("Order %s", order.OrderID),
			Date:      formatDate(order.CreatedAt),
			CreatedAt: createdAt,
			Amount:    order.TotalAmount,
			Status:    models.MapOrderStatus(order.Status),
		})
		total += order.TotalAmount
	}

	var latestAmount float64
	if len(transactions) > 0 {
		latestAmount = transactions[0].Amount
	}

	insight := s.advisor.GetTransactionAdvice(ctx, latestAmount, total)
	if insight == "" {
		insight = fmt.Sprintf("You have spent %s this month.", utils.USD(total))
	}

	return &HistorySnapshot{
		Transactions: transactions,
		TotalSpent:   total,
		Insight:      insight,
	}, nil
}

// ApplyFilter restricts and orders transactions for display. It is pure:
// the input slice is never mutated, and no I/O happens here.
func ApplyFilter(transactions []models.Transaction, filter Filter) []models.Transaction {
	result := make([]models.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if filter == FilterRefunds && tx.Status != models.DisplayRefunded {
			continue
		}
		result = append(result, tx)
	}

	if filter == FilterAmount {
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Amount > result[j].Amount
		})
		return result
	}

	sort.SliceStable(result, func(i, j int) bool {
		return parseCreatedAt(result[i].CreatedAt).After(parseCreatedAt(result[j].CreatedAt))
	})
	return result
}

func parseCreatedAt(value string) time.Time {
	for _, layout := range createdAtLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// formatDate renders the order timestamp for display, with "Just now" when
// the backend did not supply one.
func formatDate(value string) string {
	if value == "" {
		return "Just now"
	}
	parsed := parseCreatedAt(value)
	if parsed.IsZero() {
		return value
	}
	return parsed.Format(displayDateLayout)
}
