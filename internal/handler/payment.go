package handler

import (
	"net/http"

	"fftopup/internal/dto"
	"fftopup/internal/service"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) DanaLink(c echo.Context) error {
	ctx := c.Request().Context()

	var q dto.PaymentQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "amount must be a whole number"})
	}

	link, err := h.paymentService.GenerateDanaLink(ctx, q.Amount, q.OrderID)
	if err != nil {
		return c.JSON(statusFor(err), dto.ErrorResponse{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, dto.DanaLinkResponse{PaymentLink: link})
}

func (h *PaymentHandler) QrisCode(c echo.Context) error {
	ctx := c.Request().Context()

	var q dto.PaymentQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "amount must be a whole number"})
	}

	qrCodeURL, err := h.paymentService.GenerateQrisCode(ctx, q.Amount, q.OrderID)
	if err != nil {
		return c.JSON(statusFor(err), dto.ErrorResponse{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, dto.QrisCodeResponse{QRCodeURL: qrCodeURL})
}
