package handlers

import (
	"errors"

	"ghibli-backend/domain"
	"ghibli-backend/internal/api/presenters"
	"ghibli-backend/pkg/transform"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	TransformHandler interface {
		Transform(c *fiber.Ctx) error
		Regenerate(c *fiber.Ctx) error
	}

	transformHandler struct {
		transformService transform.TransformService
		validator        *validator.Validate
	}
)

func NewTransformHandler(transformService transform.TransformService, validator *validator.Validate) TransformHandler {
	return &transformHandler{
		transformService: transformService,
		validator:        validator,
	}
}

func (h *transformHandler) Transform(c *fiber.Ctx) error {
	req := new(domain.TransformRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedTransform, err)
	}

	result, err := h.transformService.Transform(c.Context(), *req)
	if err != nil {
		return transformErrorResponse(c, domain.MessageFailedTransform, err)
	}

	if result.Duplicate {
		return presenters.SuccessResponse(c, result, fiber.StatusOK, domain.MessageDuplicatePhoto)
	}

	return presenters.SuccessResponse(c, result, fiber.StatusCreated, domain.MessageSuccessTransform)
}

func (h *transformHandler) Regenerate(c *fiber.Ctx) error {
	id := c.Params("id")

	result, err := h.transformService.Regenerate(c.Context(), id)
	if err != nil {
		return transformErrorResponse(c, domain.MessageFailedRegenerate, err)
	}

	return presenters.SuccessResponse(c, result, fiber.StatusCreated, domain.MessageSuccessRegenerate)
}

// transformErrorResponse maps workflow errors to status codes so the client
// can distinguish a payment problem from a pipeline failure.
func transformErrorResponse(c *fiber.Ctx, message string, err error) error {
	switch {
	case errors.Is(err, domain.ErrInsufficientCoins):
		return presenters.ErrorResponse(c, fiber.StatusPaymentRequired, message, err)
	case errors.Is(err, domain.ErrPhotoNotFound):
		return presenters.ErrorResponse(c, fiber.StatusNotFound, message, err)
	case errors.Is(err, domain.ErrPhotoProcessing):
		return presenters.ErrorResponse(c, fiber.StatusConflict, message, err)
	case errors.Is(err, domain.ErrStylizeTimeout):
		return presenters.ErrorResponse(c, fiber.StatusGatewayTimeout, message, err)
	case errors.Is(err, domain.ErrStylizeAuth):
		return presenters.ErrorResponse(c, fiber.StatusBadGateway, message, err)
	case errors.Is(err, domain.ErrStylizeNotFound), errors.Is(err, domain.ErrStylizeFailed), errors.Is(err, domain.ErrUploadFailed):
		return presenters.ErrorResponse(c, fiber.StatusBadGateway, message, err)
	default:
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, message, err)
	}
}
