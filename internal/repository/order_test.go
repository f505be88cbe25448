package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"fftopup/internal/model"
	"fftopup/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func confirmedOrder(orderID string) *model.Order {
	now := time.Now()
	return &model.Order{
		OrderID:       orderID,
		Package:       model.Package{ID: "p1", Diamonds: 100, Price: 15000},
		Amount:        15000,
		GameID:        "12345",
		Nickname:      "Alice",
		PaymentMethod: "QRIS",
		PaymentProof:  "data:image/png;base64,AAA",
		SenderName:    "Alice",
		PaymentTime:   "2024-01-01T10:00",
		Status:        model.OrderStatusPending,
		ConfirmedAt:   &now,
	}
}

func TestOrderRepository_FindByOrderID_Missing(t *testing.T) {
	repo := NewOrderRepository(testutil.NewDB(t))

	_, err := repo.FindByOrderID(context.Background(), "nope")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestOrderRepository_UpsertPaymentRequest_CreatesStub(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(testutil.NewDB(t))

	require.NoError(t, repo.UpsertPaymentRequest(ctx, "FF123", model.PaymentMethodDANA, 1000))

	order, err := repo.FindByOrderID(ctx, "FF123")
	require.NoError(t, err)
	assert.Equal(t, "DANA", order.PaymentMethod)
	assert.Equal(t, int64(1000), order.Amount)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Nil(t, order.ProcessedAt)
	assert.Nil(t, order.ConfirmedAt)
}

func TestOrderRepository_UpsertPaymentRequest_MergesExisting(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(testutil.NewDB(t))

	require.NoError(t, repo.UpsertPaymentRequest(ctx, "FF123", model.PaymentMethodDANA, 1000))
	require.NoError(t, repo.UpsertPaymentRequest(ctx, "FF123", model.PaymentMethodQRIS, 2000))

	order, err := repo.FindByOrderID(ctx, "FF123")
	require.NoError(t, err)
	assert.Equal(t, "QRIS", order.PaymentMethod)
	assert.Equal(t, int64(2000), order.Amount)
}

func TestOrderRepository_UpsertPaymentRequest_KeepsCompletedStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(testutil.NewDB(t))

	inserted, err := repo.CreateIfAbsent(ctx, confirmedOrder("FF1"))
	require.NoError(t, err)
	require.True(t, inserted)
	moved, err := repo.MarkCompleted(ctx, "FF1", time.Now())
	require.NoError(t, err)
	require.True(t, moved)

	require.NoError(t, repo.UpsertPaymentRequest(ctx, "FF1", model.PaymentMethodDANA, 500))

	order, err := repo.FindByOrderID(ctx, "FF1")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCompleted, order.Status)
	assert.NotNil(t, order.ProcessedAt)
	assert.Equal(t, "12345", order.GameID)
}

func TestOrderRepository_CreateIfAbsent_KeepsExisting(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(testutil.NewDB(t))

	require.NoError(t, repo.UpsertPaymentRequest(ctx, "FF1", model.PaymentMethodDANA, 15000))

	inserted, err := repo.CreateIfAbsent(ctx, confirmedOrder("FF1"))
	require.NoError(t, err)
	assert.False(t, inserted)

	order, err := repo.FindByOrderID(ctx, "FF1")
	require.NoError(t, err)
	assert.Empty(t, order.Nickname)
	assert.Nil(t, order.ConfirmedAt)

	inserted, err = repo.CreateIfAbsent(ctx, confirmedOrder("FF2"))
	require.NoError(t, err)
	assert.True(t, inserted)
}

func TestOrderRepository_MergeConfirmation(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(testutil.NewDB(t))

	require.NoError(t, repo.UpsertPaymentRequest(ctx, "FF1", model.PaymentMethodQRIS, 15000))

	merged, err := repo.MergeConfirmation(ctx, confirmedOrder("FF1"))
	require.NoError(t, err)
	assert.True(t, merged)

	order, err := repo.FindByOrderID(ctx, "FF1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", order.Nickname)
	assert.Equal(t, "p1", order.Package.ID)
	assert.Equal(t, int64(100), order.Package.Diamonds)
	assert.NotNil(t, order.ConfirmedAt)

	merged, err = repo.MergeConfirmation(ctx, confirmedOrder("FF1"))
	require.NoError(t, err)
	assert.False(t, merged, "an already confirmed order must not be merged again")
}

func TestOrderRepository_MarkCompleted_OnlyFromPending(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(testutil.NewDB(t))
	at := time.Date(2024, 1, 1, 10, 0, 5, 0, time.UTC)

	moved, err := repo.MarkCompleted(ctx, "missing", at)
	require.NoError(t, err)
	assert.False(t, moved)

	inserted, err := repo.CreateIfAbsent(ctx, confirmedOrder("FF1"))
	require.NoError(t, err)
	require.True(t, inserted)

	moved, err = repo.MarkCompleted(ctx, "FF1", at)
	require.NoError(t, err)
	assert.True(t, moved)

	moved, err = repo.MarkCompleted(ctx, "FF1", at.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, moved)

	order, err := repo.FindByOrderID(ctx, "FF1")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCompleted, order.Status)
	require.NotNil(t, order.ProcessedAt)
	assert.True(t, order.ProcessedAt.Equal(at))
}
