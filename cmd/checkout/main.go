package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"fftopup/internal/checkout"

	"github.com/jonboulle/clockwork"
	"github.com/urfave/cli/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func defaultStateFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".fftopup-order.json"
	}
	return filepath.Join(dir, "fftopup", "order.json")
}

func newWizard(c *cli.Context) *checkout.Wizard {
	return checkout.NewWizard(
		checkout.NewAPIClient(c.String("api")),
		checkout.NewFileSlot(c.String("state-file")),
		clockwork.NewRealClock(),
	)
}

func rupiah(amount int64) string {
	return message.NewPrinter(language.Indonesian).Sprintf("Rp %d", amount)
}

func main() {
	app := &cli.App{
		Name:  "fftopup",
		Usage: "Top up Free Fire diamonds from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api",
				Value:   "http://localhost:3000",
				Usage:   "Base URL of the top-up API",
				EnvVars: []string{"FFTOPUP_API"},
			},
			&cli.StringFlag{
				Name:  "state-file",
				Value: defaultStateFile(),
				Usage: "Where the order being tracked is remembered between runs",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "products",
				Usage:  "List the diamond packages",
				Action: productsCommand,
			},
			{
				Name:  "buy",
				Usage: "Buy a diamond package and follow the order until it completes",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "package", Aliases: []string{"p"}, Required: true, Usage: "Package id, see the products command"},
					&cli.StringFlag{Name: "game-id", Required: true, Usage: "Free Fire player id"},
					&cli.StringFlag{Name: "nickname", Required: true, Usage: "Free Fire nickname"},
					&cli.StringFlag{Name: "method", Value: "QRIS", Usage: "Payment method: DANA or QRIS"},
					&cli.StringFlag{Name: "qr-out", Value: "qris.png", Usage: "Where the QRIS code image is written"},
					&cli.StringFlag{Name: "proof", Usage: "Screenshot of the transfer; asked for interactively when empty"},
					&cli.StringFlag{Name: "sender", Usage: "Name of the account the transfer was sent from"},
					&cli.StringFlag{Name: "paid-at", Usage: "When the transfer was made (defaults to now)"},
					&cli.BoolFlag{Name: "no-wait", Usage: "Do not wait for the order to complete"},
				},
				Action: buyCommand,
			},
			{
				Name:      "status",
				Usage:     "Follow an order until it completes",
				ArgsUsage: "[order-id]",
				Description: "Without an order id the order placed by the last buy " +
					"command is resumed.",
				Action: statusCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func productsCommand(c *cli.Context) error {
	s, err := newWizard(c).Begin(c.Context)
	if err != nil {
		return err
	}

	for _, p := range s.Products {
		fmt.Fprintf(c.App.Writer, "%-8s %5d Diamond  %s\n", p.ID, p.Diamonds, rupiah(p.Price))
	}
	return nil
}
