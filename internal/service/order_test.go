package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"fftopup/internal/config"
	"fftopup/internal/dto"
	"fftopup/internal/model"
	"fftopup/internal/repository"
	"fftopup/internal/testutil"
	"fftopup/internal/worker"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const verificationDelay = 5 * time.Second

type recordingPublisher struct {
	mu      sync.Mutex
	updates []dto.OrderUpdate
}

func (p *recordingPublisher) PublishOrderStatus(orderID string, status model.OrderStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates = append(p.updates, dto.OrderUpdate{OrderID: orderID, Status: status})
}

func (p *recordingPublisher) all() []dto.OrderUpdate {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]dto.OrderUpdate(nil), p.updates...)
}

// lockedBuffer collects log output written from several goroutines.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type orderFixture struct {
	logs      *lockedBuffer
	orders    OrderService
	payments  PaymentService
	repo      repository.OrderRepository
	clock     *clockwork.FakeClock
	scheduler *worker.VerificationScheduler
	publisher *recordingPublisher
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	logs := &lockedBuffer{}
	logger := slog.New(slog.NewTextHandler(logs, nil))
	clock := clockwork.NewFakeClockAt(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	repo := repository.NewOrderRepository(testutil.NewDBWithLogger(t, logger))
	scheduler := worker.NewVerificationScheduler(clock, verificationDelay, logger)
	t.Cleanup(scheduler.Stop)
	publisher := &recordingPublisher{}

	return &orderFixture{
		logs:      logs,
		orders:    NewOrderService(repo, scheduler, publisher, clock, logger),
		payments:  NewPaymentService(repo, &config.Payment{DanaBaseURL: "https://link.dana.id", QrisPayload: config.DefaultQrisPayload}),
		repo:      repo,
		clock:     clock,
		scheduler: scheduler,
		publisher: publisher,
	}
}

func aliceRequest(orderID string) *dto.ConfirmOrderRequest {
	return &dto.ConfirmOrderRequest{
		OrderID:       orderID,
		Package:       dto.PackageRequest{ID: "p1", Diamonds: 100, Price: 15000},
		GameID:        "12345",
		Nickname:      "Alice",
		PaymentMethod: "QRIS",
		PaymentProof:  "data:image/png;base64,AAA",
		SenderName:    "Alice",
		PaymentTime:   "2024-01-01T10:00",
	}
}

func TestOrderService_ConfirmThenAutoComplete(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)

	order, err := f.orders.ConfirmOrder(ctx, aliceRequest("FF1"))
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, int64(15000), order.Amount)

	got, err := f.orders.GetOrderStatus(ctx, "FF1")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, got.Status)
	assert.Nil(t, got.ProcessedAt)

	f.clock.Advance(verificationDelay - time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	got, err = f.orders.GetOrderStatus(ctx, "FF1")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, got.Status)

	f.clock.Advance(time.Millisecond)
	require.Eventually(t, func() bool {
		o, err := f.orders.GetOrderStatus(ctx, "FF1")
		return err == nil && o.Status == model.OrderStatusCompleted
	}, time.Second, 5*time.Millisecond)

	got, err = f.orders.GetOrderStatus(ctx, "FF1")
	require.NoError(t, err)
	require.NotNil(t, got.ProcessedAt)
	assert.False(t, got.ProcessedAt.Before(order.ConfirmedAt.Add(verificationDelay)))
	assert.Equal(t, []dto.OrderUpdate{{OrderID: "FF1", Status: model.OrderStatusCompleted}}, f.publisher.all())
}

func TestOrderService_GetOrderStatus_NotFound(t *testing.T) {
	f := newOrderFixture(t)

	for _, id := range []string{"", "FF404", "unknown"} {
		_, err := f.orders.GetOrderStatus(context.Background(), id)
		assert.ErrorIs(t, err, ErrOrderNotFound, id)
	}
}

func TestOrderService_ConfirmMergesIntoPaymentStub(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)

	_, err := f.payments.GenerateDanaLink(ctx, 15000, "FF1")
	require.NoError(t, err)

	req := aliceRequest("FF1")
	req.PaymentMethod = "DANA"
	order, err := f.orders.ConfirmOrder(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, "DANA", order.PaymentMethod)
	assert.Equal(t, "Alice", order.Nickname)
	assert.Equal(t, "p1", order.Package.ID)
	assert.NotNil(t, order.ConfirmedAt)
	assert.Equal(t, 1, f.scheduler.Pending())
}

func TestOrderService_ConfirmAfterStubLogsNoError(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)

	_, err := f.payments.GenerateQrisCode(ctx, 15000, "FF1")
	require.NoError(t, err)
	_, err = f.orders.ConfirmOrder(ctx, aliceRequest("FF1"))
	require.NoError(t, err)

	logs := f.logs.String()
	assert.Contains(t, logs, "order confirmed")
	assert.NotContains(t, logs, "level=WARN")
	assert.NotContains(t, logs, "level=ERROR")
	assert.NotContains(t, logs, "data:image/png;base64", "payment proof leaked into the log")
}

// reloadFailingRepo stores orders normally but cannot read them back.
type reloadFailingRepo struct {
	repository.OrderRepository
}

func (reloadFailingRepo) FindByOrderID(context.Context, string) (*model.Order, error) {
	return nil, errors.New("connection reset")
}

func TestOrderService_ReloadFailureStillSchedulesVerification(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)
	orders := NewOrderService(reloadFailingRepo{f.repo}, f.scheduler, f.publisher, f.clock,
		slog.New(slog.NewTextHandler(f.logs, nil)))

	_, err := orders.ConfirmOrder(ctx, aliceRequest("FF1"))
	require.Error(t, err)
	assert.Equal(t, 1, f.scheduler.Pending())

	f.clock.Advance(verificationDelay)
	require.Eventually(t, func() bool {
		o, err := f.repo.FindByOrderID(ctx, "FF1")
		return err == nil && o.Status == model.OrderStatusCompleted
	}, time.Second, 5*time.Millisecond)
}

func TestOrderService_DuplicateConfirmationRejected(t *testing.T) {
	ctx := context.Background()

	for _, withStub := range []bool{false, true} {
		f := newOrderFixture(t)
		if withStub {
			_, err := f.payments.GenerateQrisCode(ctx, 15000, "FF1")
			require.NoError(t, err)
		}

		var wg sync.WaitGroup
		errs := make([]error, 8)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = f.orders.ConfirmOrder(ctx, aliceRequest("FF1"))
			}(i)
		}
		wg.Wait()

		accepted, duplicates := 0, 0
		for _, err := range errs {
			switch {
			case err == nil:
				accepted++
			case errors.Is(err, ErrDuplicateOrder):
				duplicates++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		assert.Equal(t, 1, accepted, "stub=%v", withStub)
		assert.Equal(t, len(errs)-1, duplicates, "stub=%v", withStub)
	}
}

func TestOrderService_ConfirmValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *dto.ConfirmOrderRequest)
		field  string
	}{
		{"missing order id", func(r *dto.ConfirmOrderRequest) { r.OrderID = "" }, "orderId"},
		{"missing game id", func(r *dto.ConfirmOrderRequest) { r.GameID = "" }, "gameId"},
		{"missing nickname", func(r *dto.ConfirmOrderRequest) { r.Nickname = "" }, "nickname"},
		{"missing proof", func(r *dto.ConfirmOrderRequest) { r.PaymentProof = "" }, "paymentProof"},
		{"missing sender", func(r *dto.ConfirmOrderRequest) { r.SenderName = "" }, "senderName"},
		{"missing payment time", func(r *dto.ConfirmOrderRequest) { r.PaymentTime = "" }, "paymentTime"},
		{"unknown method", func(r *dto.ConfirmOrderRequest) { r.PaymentMethod = "OVO" }, "paymentMethod"},
		{"zero price", func(r *dto.ConfirmOrderRequest) { r.Package.Price = 0 }, "package.price"},
		{"zero diamonds", func(r *dto.ConfirmOrderRequest) { r.Package.Diamonds = 0 }, "package.diamonds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newOrderFixture(t)
			req := aliceRequest("FF1")
			tt.mutate(req)

			_, err := f.orders.ConfirmOrder(ctx, req)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			fields := make([]string, len(verr.Fields))
			for i, fe := range verr.Fields {
				fields[i] = fe.Field
			}
			assert.Contains(t, fields, tt.field)

			if req.OrderID != "" {
				_, err = f.orders.GetOrderStatus(ctx, req.OrderID)
				assert.ErrorIs(t, err, ErrOrderNotFound, "nothing may be persisted")
			}
			assert.Equal(t, 0, f.scheduler.Pending())
		})
	}
}

func TestOrderService_CancelVerificationLeavesPending(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)

	_, err := f.orders.ConfirmOrder(ctx, aliceRequest("FF1"))
	require.NoError(t, err)
	assert.True(t, f.orders.CancelVerification("FF1"))

	f.clock.Advance(time.Minute)
	time.Sleep(10 * time.Millisecond)

	got, err := f.orders.GetOrderStatus(ctx, "FF1")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, got.Status)
	assert.Nil(t, got.ProcessedAt)
}

func TestOrderService_CompleteVerification_NotPending(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)

	require.NoError(t, f.orders.CompleteVerification(ctx, "missing"))
	assert.Empty(t, f.publisher.all())
}
