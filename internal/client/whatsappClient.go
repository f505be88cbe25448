package client

import (
	"context"
	"fmt"
	"strings"

	"fftopup/internal/config"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

type WhatsAppClient interface {
	SendMessage(ctx context.Context, to, text string) error
}

type whatsAppClientImpl struct {
	rest *twilio.RestClient
	from string
}

func NewWhatsAppClient(cfg *config.Twilio) WhatsAppClient {
	rest := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.SID,
		Password: cfg.AuthToken,
	})

	return &whatsAppClientImpl{
		rest: rest,
		from: "whatsapp:" + cfg.PhoneNumber,
	}
}

// SendMessage delivers text to an international number given without the
// leading plus, e.g. 6281234567890.
func (c *whatsAppClientImpl) SendMessage(ctx context.Context, to, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(c.from)
	params.SetTo(WhatsAppAddress(to))
	params.SetBody(text)

	if _, err := c.rest.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio create message: %w", err)
	}

	return nil
}

func WhatsAppAddress(number string) string {
	return "whatsapp:+" + strings.TrimPrefix(number, "+")
}
