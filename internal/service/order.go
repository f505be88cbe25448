package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fftopup/internal/dto"
	"fftopup/internal/model"
	"fftopup/internal/repository"
	"fftopup/internal/worker"

	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"
)

type OrderService interface {
	ConfirmOrder(ctx context.Context, req *dto.ConfirmOrderRequest) (*model.Order, error)
	GetOrderStatus(ctx context.Context, orderID string) (*model.Order, error)
	CompleteVerification(ctx context.Context, orderID string) error
	CancelVerification(orderID string) bool
}

type VerificationScheduler interface {
	Schedule(orderID string, job worker.Job)
	Cancel(orderID string) bool
}

type StatusPublisher interface {
	PublishOrderStatus(orderID string, status model.OrderStatus)
}

type orderServiceImpl struct {
	orderRepo repository.OrderRepository
	scheduler VerificationScheduler
	publisher StatusPublisher
	clock     clockwork.Clock
	validator *RequestValidator
	logger    *slog.Logger
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	scheduler VerificationScheduler,
	publisher StatusPublisher,
	clock clockwork.Clock,
	logger *slog.Logger,
) OrderService {
	return &orderServiceImpl{
		orderRepo: orderRepo,
		scheduler: scheduler,
		publisher: publisher,
		clock:     clock,
		validator: NewRequestValidator(),
		logger:    logger,
	}
}

// ConfirmOrder stores the customer's payment confirmation as a pending order
// and schedules its simulated verification. When a payment link or code was
// requested earlier for the same order id, the confirmation is merged into
// that row. A second confirmation of the same order id fails with
// ErrDuplicateOrder.
func (s *orderServiceImpl) ConfirmOrder(ctx context.Context, req *dto.ConfirmOrderRequest) (*model.Order, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	order := &model.Order{
		OrderID: req.OrderID,
		Package: model.Package{
			ID:       req.Package.ID,
			Diamonds: req.Package.Diamonds,
			Price:    req.Package.Price,
		},
		Amount:        req.Package.Price,
		GameID:        req.GameID,
		Nickname:      req.Nickname,
		PaymentMethod: req.PaymentMethod,
		PaymentProof:  req.PaymentProof,
		SenderName:    req.SenderName,
		PaymentTime:   req.PaymentTime,
		Status:        model.OrderStatusPending,
		ConfirmedAt:   &now,
	}

	if err := s.persistConfirmation(ctx, order); err != nil {
		return nil, err
	}

	s.scheduler.Schedule(order.OrderID, func(ctx context.Context, orderID string) error {
		return s.CompleteVerification(ctx, orderID)
	})

	stored, err := s.orderRepo.FindByOrderID(ctx, order.OrderID)
	if err != nil {
		return nil, fmt.Errorf("reload order %s: %w", order.OrderID, err)
	}

	s.logger.Info("order confirmed",
		"order_id", stored.OrderID,
		"payment_method", stored.PaymentMethod,
		"amount", stored.Amount,
	)

	return stored, nil
}

// persistConfirmation merges order into the stub left by the payment step,
// or inserts it when there is none. The second merge covers a stub created
// between the first merge and the insert.
func (s *orderServiceImpl) persistConfirmation(ctx context.Context, order *model.Order) error {
	merged, err := s.orderRepo.MergeConfirmation(ctx, order)
	if err != nil {
		return fmt.Errorf("merge confirmation into order %s: %w", order.OrderID, err)
	}
	if merged {
		return nil
	}

	inserted, err := s.orderRepo.CreateIfAbsent(ctx, order)
	if err != nil {
		return fmt.Errorf("store order %s: %w", order.OrderID, err)
	}
	if inserted {
		return nil
	}

	merged, err = s.orderRepo.MergeConfirmation(ctx, order)
	if err != nil {
		return fmt.Errorf("merge confirmation into order %s: %w", order.OrderID, err)
	}
	if !merged {
		return ErrDuplicateOrder
	}
	return nil
}

func (s *orderServiceImpl) GetOrderStatus(ctx context.Context, orderID string) (*model.Order, error) {
	order, err := s.orderRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order %s: %w", orderID, err)
	}

	return order, nil
}

// CompleteVerification is the simulated payment check: it unconditionally
// accepts the payment of a pending order.
func (s *orderServiceImpl) CompleteVerification(ctx context.Context, orderID string) error {
	moved, err := s.orderRepo.MarkCompleted(ctx, orderID, s.clock.Now())
	if err != nil {
		return fmt.Errorf("mark order %s completed: %w", orderID, err)
	}
	if !moved {
		s.logger.Warn("verification skipped, order not pending", "order_id", orderID)
		return nil
	}

	s.logger.Info("order completed", "order_id", orderID)
	if s.publisher != nil {
		s.publisher.PublishOrderStatus(orderID, model.OrderStatusCompleted)
	}

	return nil
}

// CancelVerification stops a scheduled verification; the order stays pending.
func (s *orderServiceImpl) CancelVerification(orderID string) bool {
	return s.scheduler.Cancel(orderID)
}
