package repository

import (
	"context"
	"time"

	"fftopup/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository interface {
	FindByOrderID(ctx context.Context, orderID string) (*model.Order, error)
	UpsertPaymentRequest(ctx context.Context, orderID string, method model.PaymentMethod, amount int64) error
	CreateIfAbsent(ctx context.Context, order *model.Order) (bool, error)
	MergeConfirmation(ctx context.Context, order *model.Order) (bool, error)
	MarkCompleted(ctx context.Context, orderID string, at time.Time) (bool, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) FindByOrderID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

// UpsertPaymentRequest records the payment method and amount requested for
// orderID. A missing order is created as a pending stub; an existing one only
// has these two columns merged, its status is left alone.
func (r *orderRepoImpl) UpsertPaymentRequest(ctx context.Context, orderID string, method model.PaymentMethod, amount int64) error {
	stub := &model.Order{
		OrderID:       orderID,
		PaymentMethod: string(method),
		Amount:        amount,
		Status:        model.OrderStatusPending,
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "order_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"payment_method": string(method),
			"amount":         amount,
			"updated_at":     time.Now(),
		}),
	}).Create(stub).Error
}

// CreateIfAbsent inserts order unless its order_id is already stored. It
// reports whether the row was inserted.
func (r *orderRepoImpl) CreateIfAbsent(ctx context.Context, order *model.Order) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}},
			DoNothing: true,
		}).
		Create(order)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MergeConfirmation writes the confirmation fields of order into the stored
// row with the same order_id, provided that row has not been confirmed yet.
// It reports whether a row was merged.
func (r *orderRepoImpl) MergeConfirmation(ctx context.Context, order *model.Order) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("order_id = ? AND confirmed_at IS NULL", order.OrderID).
		Updates(map[string]interface{}{
			"package_id":       order.Package.ID,
			"package_diamonds": order.Package.Diamonds,
			"package_price":    order.Package.Price,
			"amount":           order.Amount,
			"game_id":          order.GameID,
			"nickname":         order.Nickname,
			"payment_method":   order.PaymentMethod,
			"payment_proof":    order.PaymentProof,
			"sender_name":      order.SenderName,
			"payment_time":     order.PaymentTime,
			"confirmed_at":     order.ConfirmedAt,
			"updated_at":       time.Now(),
		})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// MarkCompleted moves a pending order to completed and stamps processed_at.
// It reports false when the order is missing or no longer pending.
func (r *orderRepoImpl) MarkCompleted(ctx context.Context, orderID string, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where(`
			order_id = ?
			AND status = ?
		`,
			orderID,
			model.OrderStatusPending,
		).
		Updates(map[string]interface{}{
			"status":       model.OrderStatusCompleted,
			"processed_at": at,
			"updated_at":   time.Now(),
		})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
