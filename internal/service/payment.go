package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"fftopup/internal/config"
	"fftopup/internal/model"
	"fftopup/internal/repository"

	"github.com/skip2/go-qrcode"
)

const qrCodeSize = 256

type PaymentService interface {
	GenerateDanaLink(ctx context.Context, amount int64, orderID string) (string, error)
	GenerateQrisCode(ctx context.Context, amount int64, orderID string) (string, error)
}

type paymentServiceImpl struct {
	orderRepo   repository.OrderRepository
	danaBaseURL string
	qrisPayload string
}

func NewPaymentService(orderRepo repository.OrderRepository, cfg *config.Payment) PaymentService {
	return &paymentServiceImpl{
		orderRepo:   orderRepo,
		danaBaseURL: strings.TrimRight(cfg.DanaBaseURL, "/"),
		qrisPayload: cfg.QrisPayload,
	}
}

// GenerateDanaLink returns a DANA "minta" link for the amount and records a
// pending DANA payment request for orderID. No gateway is contacted.
func (s *paymentServiceImpl) GenerateDanaLink(ctx context.Context, amount int64, orderID string) (string, error) {
	if err := validatePaymentRequest(amount, orderID); err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("amount", fmt.Sprint(amount))
	q.Set("orderId", orderID)
	link := s.danaBaseURL + "/minta?" + q.Encode()

	if err := s.orderRepo.UpsertPaymentRequest(ctx, orderID, model.PaymentMethodDANA, amount); err != nil {
		return "", fmt.Errorf("save dana payment request: %w", err)
	}

	return link, nil
}

// GenerateQrisCode renders the merchant QRIS payload as a PNG data URI and
// records a pending QRIS payment request for orderID. The payload is static,
// the amount is not encoded into it.
func (s *paymentServiceImpl) GenerateQrisCode(ctx context.Context, amount int64, orderID string) (string, error) {
	if err := validatePaymentRequest(amount, orderID); err != nil {
		return "", err
	}

	png, err := qrcode.Encode(s.qrisPayload, qrcode.Medium, qrCodeSize)
	if err != nil {
		return "", fmt.Errorf("encode qris payload: %w", err)
	}
	dataURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)

	if err := s.orderRepo.UpsertPaymentRequest(ctx, orderID, model.PaymentMethodQRIS, amount); err != nil {
		return "", fmt.Errorf("save qris payment request: %w", err)
	}

	return dataURI, nil
}

func validatePaymentRequest(amount int64, orderID string) error {
	var fields []FieldError
	if amount <= 0 {
		fields = append(fields, FieldError{Field: "amount", Rule: "gt"})
	}
	if strings.TrimSpace(orderID) == "" {
		fields = append(fields, FieldError{Field: "orderId", Rule: "required"})
	}
	if len(fields) > 0 {
		return newValidationError(fields...)
	}
	return nil
}
