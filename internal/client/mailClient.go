package client

import (
	"context"
	"fmt"
	"strings"

	"fftopup/internal/config"

	"gopkg.in/gomail.v2"
)

type MailClient interface {
	SendMail(ctx context.Context, to, subject, text string) error
}

type mailClientImpl struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailClient(cfg *config.Email) MailClient {
	return &mailClientImpl{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass),
		from:   cfg.User,
	}
}

func (c *mailClientImpl) SendMail(ctx context.Context, to, subject, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", c.from)
	m.SetHeader("To", Recipients(to)...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", text)

	if err := c.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}

	return nil
}

// Recipients splits a comma-separated address list, dropping empty entries.
func Recipients(to string) []string {
	var addrs []string
	for _, addr := range strings.Split(to, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			addrs = append(addrs, addr)
		}
	}
	return addrs
}
