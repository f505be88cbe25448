package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fftopup/internal/client"
	"fftopup/internal/config"
	"fftopup/internal/logger"
	"fftopup/internal/repository"
	"fftopup/internal/server"
	"fftopup/internal/service"
	"fftopup/internal/websocket"
	"fftopup/internal/worker"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(os.Stdout, cfg.Log)
	slog.SetDefault(log)

	db, err := client.InitDBClient(cfg.Database, log)
	if err != nil {
		log.Error("init database", "err", err)
		os.Exit(1)
	}

	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	if cfg.SeedProducts {
		if err := productRepo.Seed(context.Background()); err != nil {
			log.Error("seed products", "err", err)
			os.Exit(1)
		}
	}

	mailClient := client.NewMailClient(&cfg.Email)
	whatsAppClient := client.NewWhatsAppClient(&cfg.Twilio)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	hub := websocket.NewHub()
	go hub.Run(ctx)

	clock := clockwork.NewRealClock()
	scheduler := worker.NewVerificationScheduler(clock, cfg.Payment.VerificationDelay, log)

	services := server.Services{
		Products:      service.NewProductService(productRepo),
		Payments:      service.NewPaymentService(orderRepo, &cfg.Payment),
		Orders:        service.NewOrderService(orderRepo, scheduler, hub, clock, log),
		Notifications: service.NewNotificationService(mailClient, whatsAppClient, cfg.Notify, log),
	}

	serverAddr := cfg.HTTP.Address()

	// Init HTTP server
	srv := server.NewServer(services, hub, cfg.StaticDir, log)

	log.Info("Starting HTTP server", "addr", serverAddr, "environment", cfg.Environment.Name)
	go func() {
		if err := srv.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "err", err)
	}

	// orders still waiting for verification stay pending
	dropped := scheduler.Pending()
	scheduler.Stop()
	log.Info("shutdown complete", "dropped_verifications", dropped)
}
