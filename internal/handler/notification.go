package handler

import (
	"net/http"

	"fftopup/internal/dto"
	"fftopup/internal/service"

	"github.com/labstack/echo/v4"
)

type NotificationHandler struct {
	notificationService service.NotificationService
}

func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

func (h *NotificationHandler) SendEmail(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.EmailRequest
	if err := bindAndValidate(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NotificationResponse{Success: false, Message: err.Error()})
	}

	if err := h.notificationService.SendEmail(ctx, req.To, req.Subject, req.Message); err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NotificationResponse{Success: false, Message: err.Error()})
	}

	return c.JSON(http.StatusOK, dto.NotificationResponse{Success: true})
}

func (h *NotificationHandler) SendWhatsApp(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.WhatsAppRequest
	if err := bindAndValidate(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NotificationResponse{Success: false, Message: err.Error()})
	}

	if err := h.notificationService.SendWhatsApp(ctx, req.To, req.Message); err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NotificationResponse{Success: false, Message: err.Error()})
	}

	return c.JSON(http.StatusOK, dto.NotificationResponse{Success: true})
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}
