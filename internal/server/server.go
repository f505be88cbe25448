package server

import (
	"context"
	"log/slog"
	"net/http"

	"fftopup/internal/handler"
	"fftopup/internal/middleware"
	"fftopup/internal/service"
	"fftopup/internal/websocket"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

type Services struct {
	Products      service.ProductService
	Payments      service.PaymentService
	Orders        service.OrderService
	Notifications service.NotificationService
}

type Server struct {
	echo                *echo.Echo
	productHandler      *handler.ProductHandler
	paymentHandler      *handler.PaymentHandler
	orderHandler        *handler.OrderHandler
	notificationHandler *handler.NotificationHandler
	wsHandler           *websocket.Handler
}

func NewServer(services Services, hub *websocket.Hub, staticDir string, logger *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = service.NewRequestValidator()

	if staticDir != "" {
		e.Static("/", staticDir)
	}

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	s := &Server{
		echo:                e,
		productHandler:      handler.NewProductHandler(services.Products),
		paymentHandler:      handler.NewPaymentHandler(services.Payments),
		orderHandler:        handler.NewOrderHandler(services.Orders, services.Notifications),
		notificationHandler: handler.NewNotificationHandler(services.Notifications),
		wsHandler:           websocket.NewHandler(hub, services.Orders, logger),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api.GET("/products", s.productHandler.ListProducts)

	// -------- payment --------
	payment := api.Group("/payment")
	payment.GET("/dana", s.paymentHandler.DanaLink)
	payment.GET("/qris", s.paymentHandler.QrisCode)

	// -------- orders --------
	orders := api.Group("/orders")
	orders.POST("/confirm", s.orderHandler.ConfirmOrder)
	orders.GET("/:orderId/status", s.orderHandler.GetOrderStatus)
	orders.GET("/:orderId/ws", s.wsHandler.ServeWS)

	// -------- notifications --------
	notifications := api.Group("/notifications")
	notifications.POST("/email", s.notificationHandler.SendEmail)
	notifications.POST("/whatsapp", s.notificationHandler.SendWhatsApp)
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
