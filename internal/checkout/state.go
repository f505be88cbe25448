// Package checkout implements the customer side of the top-up flow: a linear
// wizard from package selection to status polling.
//
// State is a value. Every transition function takes the current State and
// returns the next one; on error the returned State is the unchanged input.
// Slices and pointers inside a State are shared between copies and must be
// treated as read-only.
package checkout

import (
	"errors"
	"fmt"
	"strings"

	"fftopup/internal/dto"
	"fftopup/internal/model"
)

type Step string

const (
	StepHome             Step = "home"
	StepCheckout         Step = "checkout"
	StepPayment          Step = "payment"
	StepConfirmationForm Step = "confirmationForm"
	StepStatus           Step = "statusPage"
)

var ErrUnknownPackage = errors.New("package not available")

// ValidationError is shown to the customer as a blocking message.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StepError reports a transition attempted from the wrong page.
type StepError struct {
	Action string
	Step   Step
}

func (e *StepError) Error() string {
	return fmt.Sprintf("cannot %s on %s page", e.Action, e.Step)
}

type State struct {
	Step     Step
	Products []model.Product
	Package  model.Package

	GameID   string
	Nickname string
	OrderID  string

	PaymentMethod model.PaymentMethod
	PaymentLink   string // DANA
	QRCode        string // QRIS image data URI

	PaymentProof string
	SenderName   string
	PaymentTime  string

	Status model.OrderStatus
	Order  *model.Order
}

// Done reports whether the status page shows a terminal status.
func (s State) Done() bool {
	return s.Step == StepStatus && s.Status.IsTerminal()
}

func Start(products []model.Product) State {
	return State{
		Step:     StepHome,
		Products: append([]model.Product(nil), products...),
	}
}

// Reset returns to the package list, keeping the loaded products.
func Reset(s State) State {
	return Start(s.Products)
}

// Resume opens the status page for an order placed before a restart.
func Resume(orderID string) State {
	return State{
		Step:    StepStatus,
		OrderID: orderID,
		Status:  model.OrderStatusPending,
	}
}

func SelectPackage(s State, productID string) (State, error) {
	if s.Step != StepHome && s.Step != StepCheckout {
		return s, &StepError{Action: "select a package", Step: s.Step}
	}

	for _, p := range s.Products {
		if p.ID == productID {
			next := s
			next.Package = model.Package{ID: p.ID, Diamonds: p.Diamonds, Price: p.Price}
			next.Step = StepCheckout
			return next, nil
		}
	}

	return s, fmt.Errorf("%w: %s", ErrUnknownPackage, productID)
}

// SubmitIdentity records the player's game ID and nickname. Both are
// required. orderID is the client-generated id used from here on.
func SubmitIdentity(s State, gameID, nickname, orderID string) (State, error) {
	if s.Step != StepCheckout {
		return s, &StepError{Action: "enter game ID", Step: s.Step}
	}

	gameID = strings.TrimSpace(gameID)
	nickname = strings.TrimSpace(nickname)
	if gameID == "" || nickname == "" {
		return s, &ValidationError{Message: "Please fill in your Game ID and nickname"}
	}

	next := s
	next.GameID = gameID
	next.Nickname = nickname
	next.OrderID = orderID
	next.Step = StepPayment
	return next, nil
}

// ChoosePayment records the chosen method with what the customer pays with:
// a DANA link or a QRIS image data URI.
func ChoosePayment(s State, method model.PaymentMethod, artifact string) (State, error) {
	if s.Step != StepPayment && s.Step != StepConfirmationForm {
		return s, &StepError{Action: "choose a payment method", Step: s.Step}
	}

	next := s
	next.PaymentLink, next.QRCode = "", ""
	switch method {
	case model.PaymentMethodDANA:
		next.PaymentLink = artifact
	case model.PaymentMethodQRIS:
		next.QRCode = artifact
	default:
		return s, &ValidationError{Message: fmt.Sprintf("Unsupported payment method %q", method)}
	}

	next.PaymentMethod = method
	next.Step = StepConfirmationForm
	return next, nil
}

// AttachProof stores the uploaded transfer screenshot as an image data URI.
func AttachProof(s State, dataURI string) (State, error) {
	if s.Step != StepConfirmationForm {
		return s, &StepError{Action: "upload payment proof", Step: s.Step}
	}
	if !strings.HasPrefix(dataURI, "data:image/") {
		return s, &ValidationError{Message: "Payment proof must be an image"}
	}

	next := s
	next.PaymentProof = dataURI
	return next, nil
}

func SubmitConfirmation(s State, senderName, paymentTime string) (State, error) {
	if s.Step != StepConfirmationForm {
		return s, &StepError{Action: "confirm payment", Step: s.Step}
	}

	senderName = strings.TrimSpace(senderName)
	paymentTime = strings.TrimSpace(paymentTime)
	switch {
	case s.PaymentProof == "":
		return s, &ValidationError{Message: "Please upload your payment proof"}
	case senderName == "" || paymentTime == "":
		return s, &ValidationError{Message: "Please fill in the sender name and payment time"}
	}

	next := s
	next.SenderName = senderName
	next.PaymentTime = paymentTime
	next.Status = model.OrderStatusPending
	next.Step = StepStatus
	return next, nil
}

// ApplyStatus records a status read from the server.
func ApplyStatus(s State, order *model.Order) State {
	next := s
	next.Status = order.Status
	next.Order = order
	return next
}

// ConfirmRequest builds the confirmation payload from a state that has
// passed SubmitConfirmation.
func ConfirmRequest(s State) dto.ConfirmOrderRequest {
	return dto.ConfirmOrderRequest{
		OrderID: s.OrderID,
		Package: dto.PackageRequest{
			ID:       s.Package.ID,
			Diamonds: s.Package.Diamonds,
			Price:    s.Package.Price,
		},
		GameID:        s.GameID,
		Nickname:      s.Nickname,
		PaymentMethod: string(s.PaymentMethod),
		PaymentProof:  s.PaymentProof,
		SenderName:    s.SenderName,
		PaymentTime:   s.PaymentTime,
	}
}
