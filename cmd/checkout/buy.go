package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"fftopup/internal/checkout"
	"fftopup/internal/model"

	"github.com/urfave/cli/v2"
)

func buyCommand(c *cli.Context) error {
	ctx := c.Context
	w := newWizard(c)
	out := c.App.Writer
	in := bufio.NewReader(c.App.Reader)

	s, err := w.Begin(ctx)
	if err != nil {
		return err
	}
	if s, err = checkout.SelectPackage(s, c.String("package")); err != nil {
		return err
	}
	if s, err = w.EnterIdentity(s, c.String("game-id"), c.String("nickname")); err != nil {
		return err
	}

	method := model.PaymentMethod(strings.ToUpper(c.String("method")))
	if s, err = w.RequestPayment(ctx, s, method); err != nil {
		return err
	}

	fmt.Fprintf(out, "Order %s: %d Diamond for %s\n", s.OrderID, s.Package.Diamonds, rupiah(s.Package.Price))
	switch method {
	case model.PaymentMethodDANA:
		fmt.Fprintf(out, "Pay with DANA: %s\n", s.PaymentLink)
	case model.PaymentMethodQRIS:
		png, err := checkout.DecodeImage(s.QRCode)
		if err != nil {
			return err
		}
		if err := os.WriteFile(c.String("qr-out"), png, 0o644); err != nil {
			return fmt.Errorf("write qris code: %w", err)
		}
		fmt.Fprintf(out, "Scan the QRIS code saved to %s\n", c.String("qr-out"))
	}

	proofPath := c.String("proof")
	if proofPath == "" {
		if proofPath, err = prompt(in, out, "Path to the payment screenshot: "); err != nil {
			return err
		}
	}
	proof, err := checkout.EncodeProof(proofPath)
	if err != nil {
		return err
	}
	if s, err = checkout.AttachProof(s, proof); err != nil {
		return err
	}

	sender := c.String("sender")
	if sender == "" {
		if sender, err = prompt(in, out, "Sender name: "); err != nil {
			return err
		}
	}
	paidAt := c.String("paid-at")
	if paidAt == "" {
		paidAt = time.Now().Format("2006-01-02 15:04")
	}

	if s, err = w.Confirm(ctx, s, sender, paidAt); err != nil {
		return err
	}
	fmt.Fprintf(out, "Payment confirmation received for order %s\n", s.OrderID)

	if c.Bool("no-wait") {
		return nil
	}
	return follow(c, w, s)
}

func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
