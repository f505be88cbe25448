package model

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusFailed    OrderStatus = "failed"
)

// IsTerminal reports whether no further transition can happen.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusFailed
}

type PaymentMethod string

const (
	PaymentMethodDANA PaymentMethod = "DANA"
	PaymentMethodQRIS PaymentMethod = "QRIS"
)

type Product struct {
	ID        string    `gorm:"primaryKey;size:64;not null" json:"id"`
	Diamonds  int64     `gorm:"not null" json:"diamonds"`
	Price     int64     `gorm:"not null" json:"price"` // rupiah
	CreatedAt time.Time `json:"createdAt"`
}

// Package is the copy of a Product taken at purchase time. It is not a
// foreign key: the id is never checked against the products table.
type Package struct {
	ID       string `gorm:"size:64" json:"id"`
	Diamonds int64  `json:"diamonds"`
	Price    int64  `json:"price"`
}

type Order struct {
	OrderID       string      `gorm:"primaryKey;size:64;not null" json:"orderId"`
	Package       Package     `gorm:"embedded;embeddedPrefix:package_" json:"package"`
	Amount        int64       `json:"amount,omitempty"`
	GameID        string      `gorm:"size:64" json:"gameId"`
	Nickname      string      `gorm:"size:128" json:"nickname"`
	PaymentMethod string      `gorm:"size:16" json:"paymentMethod"`
	PaymentProof  string      `gorm:"type:text" json:"paymentProof"`
	SenderName    string      `gorm:"size:128" json:"senderName"`
	PaymentTime   string      `gorm:"size:64" json:"paymentTime"` // free-form, as typed by the customer
	Status        OrderStatus `gorm:"size:16;index;not null;default:pending" json:"status"`
	ProcessedAt   *time.Time  `json:"processedAt,omitempty"`
	ConfirmedAt   *time.Time  `json:"confirmedAt,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}
