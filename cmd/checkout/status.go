package main

import (
	"errors"
	"fmt"

	"fftopup/internal/checkout"
	"fftopup/internal/model"

	"github.com/urfave/cli/v2"
)

func statusCommand(c *cli.Context) error {
	w := newWizard(c)

	if orderID := c.Args().First(); orderID != "" {
		return follow(c, w, checkout.Resume(orderID))
	}

	s, ok, err := w.ResumeFromSlot()
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("no order to resume, pass an order id")
	}
	return follow(c, w, s)
}

// follow polls the order and prints every status change.
func follow(c *cli.Context, w *checkout.Wizard, s checkout.State) error {
	var last string
	s, err := w.PollStatus(c.Context, s, func(u checkout.State) {
		if status := string(u.Status); status != last {
			last = status
			fmt.Fprintf(c.App.Writer, "Order %s: %s\n", u.OrderID, status)
		}
	})
	if errors.Is(err, checkout.ErrOrderNotFound) {
		return fmt.Errorf("order %s not found", s.OrderID)
	}
	if err != nil {
		return err
	}

	if summary := orderSummary(s); summary != "" {
		fmt.Fprintln(c.App.Writer, summary)
	}
	return nil
}

// orderSummary describes how a finished order ended.
func orderSummary(s checkout.State) string {
	switch {
	case s.Order == nil:
		return ""
	case s.Status == model.OrderStatusCompleted:
		return fmt.Sprintf("%d Diamond sent to game ID %s (%s)", s.Order.Package.Diamonds, s.Order.GameID, s.Order.Nickname)
	case s.Status == model.OrderStatusFailed:
		return fmt.Sprintf("Payment for order %s was not accepted, no diamonds were sent", s.OrderID)
	default:
		return ""
	}
}
