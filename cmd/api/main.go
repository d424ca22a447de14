package main

import (
	"log/slog"
	"net/http"
	"os"
	"strconv"

	slogenv "github.com/cbrewster/slog-env"
	"github.com/go-chi/chi/v5"

	"github.com/danielmoisemontezima/zw-payment-gateway/internal/adapters"
	"github.com/danielmoisemontezima/zw-payment-gateway/internal/config"
	"github.com/danielmoisemontezima/zw-payment-gateway/internal/controller"
	"github.com/danielmoisemontezima/zw-payment-gateway/internal/core"
	"github.com/danielmoisemontezima/zw-payment-gateway/internal/repository"
	"github.com/danielmoisemontezima/zw-payment-gateway/internal/service"
)

func main() {
	logger := slog.New(slogenv.NewHandler(slog.NewTextHandler(os.Stderr, nil)))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	pool, err := config.InitPostgresPool(cfg.ConnString())
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Payment types this deployment mediates
	registry := core.DefaultTypeRegistry()

	gateway := adapters.NewRestGateway(cfg.GatewayBaseURL, cfg.GatewayPrivateKey, registry, logger)

	transactionRepo := repository.NewTransactionRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)

	paymentService := service.NewPaymentService(gateway, registry, transactionRepo, customerRepo, logger)
	cancelService := service.NewCancelService(gateway, transactionRepo, logger)
	paymentController := controller.NewPaymentController(paymentService, cancelService)

	r := chi.NewRouter()
	r.Post("/payments/authorize", paymentController.Authorize)
	r.Post("/payments/charges", paymentController.DirectCharge)
	r.Post("/payments/{paymentID}/charges", paymentController.Charge)
	r.Post("/payments/{paymentID}/cancels", paymentController.CancelPayment)
	r.Post("/payments/{paymentID}/authorize/cancels", paymentController.CancelAuthorization)
	r.Post("/payments/{paymentID}/charges/{chargeID}/cancels", paymentController.CancelCharge)
	r.Post("/payments/{paymentID}/payouts", paymentController.Payout)
	r.Post("/customers", paymentController.CreateCustomer)
	r.Post("/baskets", paymentController.CreateBasket)

	r.Get("/payments/health", paymentController.GetHealthCheck)
	r.Get("/payments/{paymentID}", paymentController.GetPayment)
	r.Get("/payments/{paymentID}/transactions", paymentController.GetTransactions)
	r.Get("/customers/{customerID}", paymentController.GetCustomer)

	addr := ":" + strconv.Itoa(cfg.Port)
	logger.Info("server running", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
