package dto

import "fftopup/internal/model"

type PackageRequest struct {
	ID       string `json:"id" validate:"required"`
	Diamonds int64  `json:"diamonds" validate:"gt=0"`
	Price    int64  `json:"price" validate:"gt=0"`
}

type ConfirmOrderRequest struct {
	OrderID       string         `json:"orderId" validate:"required"`
	Package       PackageRequest `json:"package"`
	GameID        string         `json:"gameId" validate:"required"`
	Nickname      string         `json:"nickname" validate:"required"`
	PaymentMethod string         `json:"paymentMethod" validate:"required,oneof=DANA QRIS"`
	PaymentProof  string         `json:"paymentProof" validate:"required"`
	SenderName    string         `json:"senderName" validate:"required"`
	PaymentTime   string         `json:"paymentTime" validate:"required"`
}

type ConfirmOrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type PaymentQuery struct {
	Amount  int64  `query:"amount"`
	OrderID string `query:"orderId"`
}

type DanaLinkResponse struct {
	PaymentLink string `json:"paymentLink"`
}

type QrisCodeResponse struct {
	QRCodeURL string `json:"qrCodeUrl"`
}

type OrderStatusResponse struct {
	Status model.OrderStatus `json:"status"`
	Order  *model.Order      `json:"order"`
}

type EmailRequest struct {
	To      string `json:"to" validate:"required,email_list"`
	Subject string `json:"subject"`
	Message string `json:"message" validate:"required"`
}

type WhatsAppRequest struct {
	To      string `json:"to" validate:"required,msisdn"`
	Message string `json:"message" validate:"required"`
}

type NotificationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

type OrderUpdate struct {
	OrderID string            `json:"orderId"`
	Status  model.OrderStatus `json:"status"`
}
