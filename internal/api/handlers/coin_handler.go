package handlers

import (
	"errors"

	"ghibli-backend/domain"
	"ghibli-backend/internal/api/presenters"
	"ghibli-backend/pkg/coin"
	"ghibli-backend/pkg/iap"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	CoinHandler interface {
		GetBalance(c *fiber.Ctx) error
		GetCoinPackages(c *fiber.Ctx) error
		PurchaseCoins(c *fiber.Ctx) error
		CreateInvoice(c *fiber.Ctx) error
		RestorePurchases(c *fiber.Ctx) error
		MidtransWebhookHandler(c *fiber.Ctx) error
	}

	coinHandler struct {
		coinService coin.CoinService
		validator   *validator.Validate
	}
)

func NewCoinHandler(coinService coin.CoinService, validator *validator.Validate) CoinHandler {
	return &coinHandler{
		coinService: coinService,
		validator:   validator,
	}
}

func (h *coinHandler) GetBalance(c *fiber.Ctx) error {
	balance := h.coinService.GetBalance(c.Context())
	return presenters.SuccessResponse(c, domain.BalanceResponse{Coins: balance}, fiber.StatusOK, domain.MessageSuccessGetBalance)
}

func (h *coinHandler) GetCoinPackages(c *fiber.Ctx) error {
	packages, err := h.coinService.GetCoinPackages(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetCoinPackages, err)
	}

	return presenters.SuccessResponse(c, packages, fiber.StatusOK, domain.MessageSuccessGetCoinPackages)
}

func (h *coinHandler) PurchaseCoins(c *fiber.Ctx) error {
	req := new(domain.PurchaseCoinRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedPurchaseCoins, err)
	}

	resp, err := h.coinService.PurchaseCoins(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedPurchaseCoins, err)
	}

	return presenters.SuccessResponse(c, resp, fiber.StatusOK, domain.MessageSuccessPurchaseCoins)
}

func (h *coinHandler) CreateInvoice(c *fiber.Ctx) error {
	req := new(domain.CreateInvoiceRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateInvoice, err)
	}

	resp, err := h.coinService.CreateInvoice(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateInvoice, err)
	}

	return presenters.SuccessResponse(c, resp, fiber.StatusOK, domain.MessageSuccessCreateInvoice)
}

func (h *coinHandler) RestorePurchases(c *fiber.Ctx) error {
	if err := h.coinService.RestorePurchases(c.Context()); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRestore, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRestore)
}

func (h *coinHandler) MidtransWebhookHandler(c *fiber.Ctx) error {
	notification := new(iap.PaymentNotification)
	if err := c.BodyParser(notification); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.coinService.HandlePaymentNotification(c.Context(), *notification); err != nil {
		if errors.Is(err, domain.ErrInvalidSignature) {
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedProcessRequest, err)
		}
		if errors.Is(err, domain.ErrOrderNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedProcessRequest, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedProcessRequest, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessPurchaseCoins)
}
