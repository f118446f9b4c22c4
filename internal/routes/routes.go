// Package routes defines the API routing configuration.
package routes

import (
	"bankledger/internal/handlers"
	"bankledger/internal/services/account"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SetupRoutes registers the account and health endpoints.
func SetupRoutes(app *fiber.App, accountService account.Service, healthHandler *handlers.HealthHandler, logger *zap.Logger) {
	app.Get("/health", healthHandler.HealthCheck)

	accountHandler := handlers.NewAccountHandler(accountService, logger)
	setupAccountRoutes(app, accountHandler)
}

func setupAccountRoutes(router fiber.Router, h *handlers.AccountHandler) {
	accounts := router.Group("/accounts")
	accounts.Post("/", h.CreateAccount)
	accounts.Get("/:accountNumber/balance", h.GetBalance)
	accounts.Put("/:accountNumber/deposit", h.Deposit)
	accounts.Put("/:sourceAccountNumber/transfer", h.Transfer)
}
