package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	Environment  Environment
	Log          Log
	HTTP         HTTPServer
	SeedProducts bool   `env:"SEED_PRODUCTS" envDefault:"true"`
	StaticDir    string `env:"STATIC_DIR" envDefault:"public"`

	Database Database `envPrefix:"DATABASE_"`
	Email    Email    `envPrefix:"EMAIL_"`
	Twilio   Twilio   `envPrefix:"TWILIO_"`
	Payment  Payment  `envPrefix:"PAYMENT_"`
	Notify   Notify   `envPrefix:"NOTIFY_"`
}

type Database struct {
	Driver string `env:"DRIVER" envDefault:"sqlite"` // sqlite | mysql
	URL    string `env:"URL" envDefault:"fftopup.db"`
}

type Email struct {
	Host string `env:"HOST" envDefault:"smtp.gmail.com"`
	Port int    `env:"PORT" envDefault:"587"`
	User string `env:"USER"`
	Pass string `env:"PASS"`
}

type Twilio struct {
	SID         string `env:"SID"`
	AuthToken   string `env:"AUTH_TOKEN"`
	PhoneNumber string `env:"PHONE_NUMBER"`
}

// DefaultQrisPayload is a static merchant-presented demo code. The amount is
// not part of it.
const DefaultQrisPayload = "00020101021226680014ID.CO.QRIS.WWW011893600911000000000000021520000000000000303UMI51440014ID.CO.QRIS.WWW0215ID12345678901230303UMI5204581253033605802ID5914MERCHANT NAME6013JAKARTA PUSAT6105101406230012345678902163A9B4C"

type Payment struct {
	DanaBaseURL       string        `env:"DANA_BASE_URL" envDefault:"https://link.dana.id"`
	QrisPayload       string        `env:"QRIS_PAYLOAD"`
	VerificationDelay time.Duration `env:"VERIFICATION_DELAY" envDefault:"5s"`
}

type Notify struct {
	EmailTo    string `env:"EMAIL_TO"`
	WhatsAppTo string `env:"WHATSAPP_TO"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"3000"`
}

func (h HTTPServer) Address() string {
	return h.Host + ":" + h.Port
}

// Load parses the process environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.Payment.QrisPayload == "" {
		cfg.Payment.QrisPayload = DefaultQrisPayload
	}
	if cfg.Payment.VerificationDelay <= 0 {
		return nil, fmt.Errorf("PAYMENT_VERIFICATION_DELAY must be positive, got %s", cfg.Payment.VerificationDelay)
	}

	switch cfg.Database.Driver {
	case "sqlite", "mysql":
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.Database.Driver)
	}

	return cfg, nil
}
