package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"fftopup/internal/client"
	"fftopup/internal/config"
	"fftopup/internal/model"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type NotificationService interface {
	SendEmail(ctx context.Context, to, subject, message string) error
	SendWhatsApp(ctx context.Context, to, message string) error
	NotifyOrderConfirmed(ctx context.Context, order *model.Order)
}

type notificationServiceImpl struct {
	mailClient     client.MailClient
	whatsAppClient client.WhatsAppClient
	recipients     config.Notify
	logger         *slog.Logger
}

func NewNotificationService(
	mailClient client.MailClient,
	whatsAppClient client.WhatsAppClient,
	recipients config.Notify,
	logger *slog.Logger,
) NotificationService {
	return &notificationServiceImpl{
		mailClient:     mailClient,
		whatsAppClient: whatsAppClient,
		recipients:     recipients,
		logger:         logger,
	}
}

func (s *notificationServiceImpl) SendEmail(ctx context.Context, to, subject, message string) error {
	if err := s.mailClient.SendMail(ctx, to, subject, message); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

func (s *notificationServiceImpl) SendWhatsApp(ctx context.Context, to, message string) error {
	if err := s.whatsAppClient.SendMessage(ctx, to, message); err != nil {
		return fmt.Errorf("send whatsapp: %w", err)
	}
	return nil
}

// NotifyOrderConfirmed tells the shop operator about a new confirmation,
// email first and WhatsApp second. Failures are logged only.
func (s *notificationServiceImpl) NotifyOrderConfirmed(ctx context.Context, order *model.Order) {
	text := OrderConfirmedMessage(order)

	if s.recipients.EmailTo != "" {
		subject := fmt.Sprintf("Pesanan baru %s", order.OrderID)
		if err := s.SendEmail(ctx, s.recipients.EmailTo, subject, text); err != nil {
			s.logger.Error("order email notification failed", "order_id", order.OrderID, "err", err)
		}
	}

	if s.recipients.WhatsAppTo != "" {
		if err := s.SendWhatsApp(ctx, s.recipients.WhatsAppTo, text); err != nil {
			s.logger.Error("order whatsapp notification failed", "order_id", order.OrderID, "err", err)
		}
	}
}

func OrderConfirmedMessage(order *model.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Konfirmasi pembayaran diterima\n")
	fmt.Fprintf(&b, "Order ID: %s\n", order.OrderID)
	fmt.Fprintf(&b, "Paket: %d Diamond (Rp %s)\n", order.Package.Diamonds, formatRupiah(order.Package.Price))
	fmt.Fprintf(&b, "Game ID: %s (%s)\n", order.GameID, order.Nickname)
	fmt.Fprintf(&b, "Metode: %s\n", order.PaymentMethod)
	fmt.Fprintf(&b, "Pengirim: %s, %s", order.SenderName, order.PaymentTime)
	return b.String()
}

var rupiahPrinter = message.NewPrinter(language.Indonesian)

// formatRupiah groups thousands the Indonesian way: 15000 -> "15.000".
func formatRupiah(amount int64) string {
	return rupiahPrinter.Sprintf("%d", amount)
}
