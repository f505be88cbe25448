package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"fftopup/internal/dto"
	"fftopup/internal/model"
	"fftopup/internal/service"

	gw "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const writeWait = 10 * time.Second

var upgrader = gw.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type OrderReader interface {
	GetOrderStatus(ctx context.Context, orderID string) (*model.Order, error)
}

type Handler struct {
	hub    *Hub
	orders OrderReader
	logger *slog.Logger
}

func NewHandler(hub *Hub, orders OrderReader, logger *slog.Logger) *Handler {
	return &Handler{hub: hub, orders: orders, logger: logger}
}

// ServeWS streams status updates for one order, starting with its current
// status. The stream ends after a terminal status has been sent.
func (h *Handler) ServeWS(c echo.Context) error {
	ctx := c.Request().Context()
	orderID := c.Param("orderId")

	order, err := h.orders.GetOrderStatus(ctx, orderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Order not found"})
		}
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: err.Error()})
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// the upgrader already wrote the error response
		return nil
	}
	defer conn.Close()

	initial := dto.OrderUpdate{OrderID: orderID, Status: order.Status}
	if err := writeUpdate(conn, initial); err != nil || order.Status.IsTerminal() {
		return nil
	}

	sub, ok := h.hub.subscribe(orderID)
	if !ok {
		return nil
	}
	defer h.hub.unsubscribe(sub)

	// the status may have moved between the read above and subscribe
	if latest, err := h.orders.GetOrderStatus(ctx, orderID); err == nil && latest.Status != order.Status {
		if err := writeUpdate(conn, dto.OrderUpdate{OrderID: orderID, Status: latest.Status}); err != nil || latest.Status.IsTerminal() {
			return nil
		}
	}

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-sub.send:
			if !ok {
				return nil
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(gw.TextMessage, msg); err != nil {
				h.logger.Debug("websocket write failed", "order_id", orderID, "err", err)
				return nil
			}

			var upd dto.OrderUpdate
			if json.Unmarshal(msg, &upd) == nil && upd.Status.IsTerminal() {
				_ = conn.WriteControl(gw.CloseMessage,
					gw.FormatCloseMessage(gw.CloseNormalClosure, "order "+string(upd.Status)),
					time.Now().Add(writeWait))
				return nil
			}
		case <-closed:
			return nil
		}
	}
}

func writeUpdate(conn *gw.Conn, upd dto.OrderUpdate) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(upd)
}
