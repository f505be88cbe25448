package handler

import (
	"context"
	"net/http"

	"fftopup/internal/dto"
	"fftopup/internal/service"

	"github.com/labstack/echo/v4"
)

const confirmedMessage = "Payment confirmation received. Your order is being processed."

type OrderHandler struct {
	orderService        service.OrderService
	notificationService service.NotificationService
}

func NewOrderHandler(orderService service.OrderService, notificationService service.NotificationService) *OrderHandler {
	return &OrderHandler{
		orderService:        orderService,
		notificationService: notificationService,
	}
}

func (h *OrderHandler) ConfirmOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ConfirmOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ConfirmOrderResponse{
			Success: false,
			Message: "invalid req body",
		})
	}

	order, err := h.orderService.ConfirmOrder(ctx, &req)
	if err != nil {
		return c.JSON(statusFor(err), dto.ConfirmOrderResponse{
			Success: false,
			Message: err.Error(),
		})
	}

	// the customer gets the response without waiting on the providers
	go h.notificationService.NotifyOrderConfirmed(context.WithoutCancel(ctx), order)

	return c.JSON(http.StatusOK, dto.ConfirmOrderResponse{
		Success: true,
		Message: confirmedMessage,
	})
}

func (h *OrderHandler) GetOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.orderService.GetOrderStatus(ctx, c.Param("orderId"))
	if err != nil {
		msg := err.Error()
		if statusFor(err) == http.StatusNotFound {
			msg = "Order not found"
		}
		return c.JSON(statusFor(err), dto.ErrorResponse{Message: msg})
	}

	return c.JSON(http.StatusOK, dto.OrderStatusResponse{
		Status: order.Status,
		Order:  order,
	})
}
