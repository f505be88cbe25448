package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"image/png"
	"strings"
	"testing"

	"fftopup/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentService_GenerateDanaLink(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)

	link, err := f.payments.GenerateDanaLink(ctx, 1000, "FF123")
	require.NoError(t, err)
	assert.Equal(t, "https://link.dana.id/minta?amount=1000&orderId=FF123", link)
	assert.Contains(t, link, "amount=1000")
	assert.Contains(t, link, "orderId=FF123")

	order, err := f.orders.GetOrderStatus(ctx, "FF123")
	require.NoError(t, err)
	assert.Equal(t, "DANA", order.PaymentMethod)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, int64(1000), order.Amount)
}

func TestPaymentService_GenerateQrisCode(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)

	for _, tc := range []struct {
		amount  int64
		orderID string
	}{
		{1000, "FF1"},
		{15000, "FF2"},
		{100000, "FF-with-dash"},
	} {
		uri, err := f.payments.GenerateQrisCode(ctx, tc.amount, tc.orderID)
		require.NoError(t, err)

		const prefix = "data:image/png;base64,"
		require.True(t, strings.HasPrefix(uri, prefix))

		raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
		require.NoError(t, err)
		img, err := png.Decode(bytes.NewReader(raw))
		require.NoError(t, err)
		assert.Positive(t, img.Bounds().Dx())

		order, err := f.orders.GetOrderStatus(ctx, tc.orderID)
		require.NoError(t, err)
		assert.Equal(t, "QRIS", order.PaymentMethod)
	}
}

func TestPaymentService_QrisPayloadIgnoresAmount(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)

	a, err := f.payments.GenerateQrisCode(ctx, 1000, "FF1")
	require.NoError(t, err)
	b, err := f.payments.GenerateQrisCode(ctx, 99000, "FF2")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestPaymentService_RejectsBadInput(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)

	_, err := f.payments.GenerateDanaLink(ctx, 0, "FF1")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = f.payments.GenerateQrisCode(ctx, 1000, " ")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "orderId", verr.Fields[0].Field)

	_, err = f.orders.GetOrderStatus(ctx, "FF1")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
