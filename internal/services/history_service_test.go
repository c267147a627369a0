package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/flavorpay/internal/models"
)

func TestHistoryLoadProjectsOrders(t *testing.T) {
	lister := &mockLister{Orders: []models.Order{
		{OrderID: "ORD1", TotalAmount: 10, Status: models.StatusConfirmed, CreatedAt: "2026-08-01T10:00:00"},
		{OrderID: "ORD2", TotalAmount: 50, Status: models.StatusCancelled, CreatedAt: "2026-08-02T10:00:00"},
	}}
	advisor := &mockAdvisor{Advice: "Nice pacing this month."}
	svc := NewHistoryService(lister, advisor)

	snapshot, err := svc.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, snapshot.Transactions, 2)
	assert.Equal(t, "Order ORD1", snapshot.Transactions[0].Name)
	assert.Equal(t, models.DisplayCompleted, snapshot.Transactions[0].Status)
	assert.Equal(t, models.DisplayRefunded, snapshot.Transactions[1].Status)
	assert.Equal(t, "Aug 1, 2026 10:00 AM", snapshot.Transactions[0].Date)
	assert.InDelta(t, 60.0, snapshot.TotalSpent, 1e-9)
	assert.Equal(t, "Nice pacing this month.", snapshot.Insight)

	// Advisor sees the first-fetched amount and the month total.
	assert.Equal(t, 1, advisor.Calls)
	assert.InDelta(t, 10.0, advisor.LastLatest, 1e-9)
	assert.InDelta(t, 60.0, advisor.LastTotal, 1e-9)
}

func TestHistoryLoadEmptyInsightFallsBackToComputedSentence(t *testing.T) {
	lister := &mockLister{Orders: []models.Order{
		{OrderID: "ORD1", TotalAmount: 25.5, Status: models.StatusConfirmed, CreatedAt: "2026-08-01T10:00:00"},
		{OrderID: "ORD2", TotalAmount: 34.5, Status: models.StatusConfirmed, CreatedAt: "2026-08-02T10:00:00"},
	}}
	advisor := &mockAdvisor{Advice: ""}
	svc := NewHistoryService(lister, advisor)

	snapshot, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "You have spent $60.00 this month.", snapshot.Insight)
}

func TestHistoryLoadFetchFailure(t *testing.T) {
	lister := &mockLister{Err: errors.New("connection refused")}
	advisor := &mockAdvisor{Advice: "should never be asked"}
	svc := NewHistoryService(lister, advisor)

	snapshot, err := svc.Load(context.Background())
	assert.Error(t, err)
	assert.Nil(t, snapshot)
	assert.Equal(t, 0, advisor.Calls, "insight is skipped when the fetch fails")
}

func TestHistoryMissingCreatedAt(t *testing.T) {
	lister := &mockLister{Orders: []models.Order{
		{OrderID: "ORD1", TotalAmount: 12, Status: models.StatusPending},
	}}
	svc := NewHistoryService(lister, &mockAdvisor{Advice: "ok"})

	snapshot, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Just now", snapshot.Transactions[0].Date)
	assert.NotEmpty(t, snapshot.Transactions[0].CreatedAt, "sort key is filled in when the backend omits one")
}

func TestMapOrderStatus(t *testing.T) {
	cases := map[string]string{
		"Confirmed":            models.DisplayCompleted,
		"Pending":              models.DisplayPending,
		"Payment Failed":       models.DisplayFailed,
		"CANCELLED":            models.DisplayRefunded,
		"CANCELLATION_PENDING": models.DisplayPending,
		// Everything unmapped lands in COMPLETED, including the order
		// service's own failure statuses.
		"Payment Error":               models.DisplayCompleted,
		"Payment Service Unavailable": models.DisplayCompleted,
		"CANCELLATION_FAILED":         models.DisplayCompleted,
		"":                            models.DisplayCompleted,
		"garbage":                     models.DisplayCompleted,
	}

	for input, expected := range cases {
		assert.Equal(t, expected, models.MapOrderStatus(input), "status %q", input)
	}
}

func historyFixture() []models.Transaction {
	return []models.Transaction{
		{ID: "ORD1", Amount: 10, Status: models.DisplayCompleted, CreatedAt: "2026-08-01T10:00:00"},
		{ID: "ORD2", Amount: 50, Status: models.DisplayRefunded, CreatedAt: "2026-08-02T10:00:00"},
	}
}

func TestApplyFilterRefunds(t *testing.T) {
	result := ApplyFilter(historyFixture(), FilterRefunds)

	require.Len(t, result, 1)
	assert.Equal(t, "ORD2", result[0].ID)
	assert.InDelta(t, 50.0, result[0].Amount, 1e-9)
	assert.Equal(t, models.DisplayRefunded, result[0].Status)
}

func TestApplyFilterAmountSortsDescending(t *testing.T) {
	result := ApplyFilter(historyFixture(), FilterAmount)

	require.Len(t, result, 2)
	assert.Equal(t, "ORD2", result[0].ID)
	assert.Equal(t, "ORD1", result[1].ID)
	for i := 1; i < len(result); i++ {
		assert.GreaterOrEqual(t, result[i-1].Amount, result[i].Amount)
	}
}

func TestApplyFilterDefaultSortsByDateDescending(t *testing.T) {
	for _, filter := range []Filter{FilterAll, FilterDate, Filter("")} {
		result := ApplyFilter(historyFixture(), filter)

		require.Len(t, result, 2)
		assert.Equal(t, "ORD2", result[0].ID, "filter %q", filter)
		assert.Equal(t, "ORD1", result[1].ID, "filter %q", filter)
	}
}

func TestApplyFilterDoesNotMutateInput(t *testing.T) {
	input := historyFixture()
	_ = ApplyFilter(input, FilterAmount)

	assert.Equal(t, "ORD1", input[0].ID)
	assert.Equal(t, "ORD2", input[1].ID)
}
