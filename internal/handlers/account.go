package handlers

import (
	"bankledger/internal/errors"
	"bankledger/internal/services/account"
	"bankledger/internal/utils"

	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type AccountHandler struct {
	accountService account.Service
	logger         *zap.Logger
}

func NewAccountHandler(accountService account.Service, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

type balanceResponse struct {
	AccountNumber string          `json:"account_number"`
	Balance       decimal.Decimal `json:"balance"`
}

type transferResponse struct {
	SourceAccountNumber      string          `json:"source_account_number"`
	DestinationAccountNumber string          `json:"destination_account_number"`
	Amount                   decimal.Decimal `json:"amount"`
	Balance                  decimal.Decimal `json:"balance"`
}

func (h *AccountHandler) GetBalance(c *fiber.Ctx) error {
	accountNumber := fiberutils.CopyString(c.Params("accountNumber"))

	balance, err := h.accountService.GetBalance(c.UserContext(), accountNumber)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.Success(c, balanceResponse{
		AccountNumber: accountNumber,
		Balance:       balance,
	})
}

func (h *AccountHandler) CreateAccount(c *fiber.Ctx) error {
	var input account.CreateAccountRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}

	created, err := h.accountService.CreateAccount(c.UserContext(), &input)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.Created(c, created)
}

func (h *AccountHandler) Deposit(c *fiber.Ctx) error {
	accountNumber := fiberutils.CopyString(c.Params("accountNumber"))

	amount, err := parseAmount(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	balance, err := h.accountService.Deposit(c.UserContext(), accountNumber, amount)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.Success(c, balanceResponse{
		AccountNumber: accountNumber,
		Balance:       balance,
	})
}

func (h *AccountHandler) Transfer(c *fiber.Ctx) error {
	// Params and Query alias the request buffer, which fasthttp reuses.
	source := fiberutils.CopyString(c.Params("sourceAccountNumber"))
	destination := fiberutils.CopyString(c.Query("destinationAccountNumber"))
	if destination == "" {
		return utils.BadRequest(c, "destinationAccountNumber is required")
	}

	amount, err := parseAmount(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	balance, err := h.accountService.Transfer(c.UserContext(), source, destination, amount)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.Success(c, transferResponse{
		SourceAccountNumber:      source,
		DestinationAccountNumber: destination,
		Amount:                   amount,
		Balance:                  balance,
	})
}

// parseAmount reads the amount query parameter as an exact decimal.
func parseAmount(c *fiber.Ctx) (decimal.Decimal, error) {
	raw := c.Query("amount")
	if raw == "" {
		return decimal.Zero, errors.ErrInvalidAmount.WithMessage("amount is required")
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errors.ErrInvalidAmount.WithMessage("amount must be a decimal number")
	}
	return amount, nil
}
