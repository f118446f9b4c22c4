package handlers

import (
	stderrors "errors"

	"bankledger/internal/errors"
	"bankledger/internal/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// statusByCode maps ledger error codes to HTTP statuses.
var statusByCode = map[string]int{
	errors.CodeInvalidAccountData: fiber.StatusBadRequest,
	errors.CodeDuplicateAccount:   fiber.StatusConflict,
	errors.CodeAccountNotFound:    fiber.StatusNotFound,
	errors.CodeInvalidAmount:      fiber.StatusBadRequest,
	errors.CodeSelfTransfer:       fiber.StatusBadRequest,
	errors.CodeInsufficientFunds:  fiber.StatusBadRequest,
}

// respondError writes a ledger error. Anything that is not a DomainError
// is logged and reported as a generic 500.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	if de, ok := errors.AsDomainError(err); ok {
		status, known := statusByCode[de.Code]
		if !known {
			status = fiber.StatusBadRequest
		}
		return utils.Error(c, status, de.Code, de.Message)
	}

	logger.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return utils.InternalError(c, "internal server error")
}

// ErrorHandler renders errors returned by handlers and by fiber itself
// (unknown routes, bad methods) in the standard error body.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if stderrors.As(err, &fe) {
			code := utils.CodeBadRequest
			switch {
			case fe.Code == fiber.StatusNotFound:
				code = utils.CodeNotFound
			case fe.Code >= fiber.StatusInternalServerError:
				code = utils.CodeInternal
			}
			return utils.Error(c, fe.Code, code, fe.Message)
		}
		return respondError(c, logger, err)
	}
}
