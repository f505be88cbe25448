package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fftopup/internal/model"

	"github.com/jonboulle/clockwork"
)

const DefaultPollInterval = 5 * time.Second

// Wizard runs the checkout steps that need the API or the order slot. The
// pure transitions in state.go do the rest.
type Wizard struct {
	api          APIClient
	slot         OrderIDSlot
	clock        clockwork.Clock
	pollInterval time.Duration
}

func NewWizard(api APIClient, slot OrderIDSlot, clock clockwork.Clock) *Wizard {
	return &Wizard{
		api:          api,
		slot:         slot,
		clock:        clock,
		pollInterval: DefaultPollInterval,
	}
}

// NewOrderID returns the client-generated order id, "FF" plus the current
// unix time in milliseconds.
func (w *Wizard) NewOrderID() string {
	return fmt.Sprintf("FF%d", w.clock.Now().UnixMilli())
}

// Begin loads the package list and opens the home page.
func (w *Wizard) Begin(ctx context.Context) (State, error) {
	products, err := w.api.ListProducts(ctx)
	if err != nil {
		return State{}, err
	}
	return Start(products), nil
}

func (w *Wizard) EnterIdentity(s State, gameID, nickname string) (State, error) {
	return SubmitIdentity(s, gameID, nickname, w.NewOrderID())
}

// RequestPayment asks the API for a DANA link or a QRIS code for the
// selected package.
func (w *Wizard) RequestPayment(ctx context.Context, s State, method model.PaymentMethod) (State, error) {
	if s.Step != StepPayment && s.Step != StepConfirmationForm {
		return s, &StepError{Action: "choose a payment method", Step: s.Step}
	}

	var (
		artifact string
		err      error
	)
	switch method {
	case model.PaymentMethodDANA:
		artifact, err = w.api.DanaLink(ctx, s.Package.Price, s.OrderID)
	case model.PaymentMethodQRIS:
		artifact, err = w.api.QrisCode(ctx, s.Package.Price, s.OrderID)
	default:
		return s, &ValidationError{Message: fmt.Sprintf("Unsupported payment method %q", method)}
	}
	if err != nil {
		return s, err
	}

	return ChoosePayment(s, method, artifact)
}

// Confirm submits the payment confirmation. On success the order id is
// stored in the slot so polling can resume after a restart.
func (w *Wizard) Confirm(ctx context.Context, s State, senderName, paymentTime string) (State, error) {
	next, err := SubmitConfirmation(s, senderName, paymentTime)
	if err != nil {
		return s, err
	}

	res, err := w.api.ConfirmOrder(ctx, ConfirmRequest(next))
	if err != nil {
		return s, err
	}
	if !res.Success {
		return s, fmt.Errorf("confirm order: %s", res.Message)
	}

	if err := w.slot.Set(next.OrderID); err != nil {
		return next, err
	}
	return next, nil
}

// ResumeFromSlot reopens the status page for the order left in the slot.
func (w *Wizard) ResumeFromSlot() (State, bool, error) {
	orderID, ok, err := w.slot.Get()
	if err != nil || !ok {
		return State{}, false, err
	}
	return Resume(orderID), true, nil
}

// PollStatus fetches the order status every poll interval until it is
// terminal or ctx is done. Each fetched state is passed to onUpdate. The
// slot is cleared once the order is terminal or unknown to the server.
func (w *Wizard) PollStatus(ctx context.Context, s State, onUpdate func(State)) (State, error) {
	if s.Step != StepStatus {
		return s, &StepError{Action: "check order status", Step: s.Step}
	}

	for {
		res, err := w.api.OrderStatus(ctx, s.OrderID)
		switch {
		case errors.Is(err, ErrOrderNotFound):
			if clearErr := w.slot.Clear(); clearErr != nil {
				return s, clearErr
			}
			return s, err
		case err != nil:
			return s, err
		}

		order := res.Order
		if order == nil {
			order = &model.Order{OrderID: s.OrderID, Status: res.Status}
		}
		s = ApplyStatus(s, order)
		if onUpdate != nil {
			onUpdate(s)
		}
		if s.Done() {
			return s, w.slot.Clear()
		}

		select {
		case <-ctx.Done():
			return s, ctx.Err()
		case <-w.clock.After(w.pollInterval):
		}
	}
}
