package handlers

import (
	"ghibli-backend/domain"
	"ghibli-backend/internal/api/presenters"
	"ghibli-backend/pkg/jwt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	SessionHandler interface {
		CreateSession(c *fiber.Ctx) error
	}

	sessionHandler struct {
		jwtService jwt.JWTService
		validator  *validator.Validate
	}
)

func NewSessionHandler(jwtService jwt.JWTService, validator *validator.Validate) SessionHandler {
	return &sessionHandler{
		jwtService: jwtService,
		validator:  validator,
	}
}

func (h *sessionHandler) CreateSession(c *fiber.Ctx) error {
	req := new(domain.CreateSessionRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateSession, err)
	}

	token := h.jwtService.GenerateTokenDevice(req.DeviceID)
	return presenters.SuccessResponse(c, domain.CreateSessionResponse{Token: token}, fiber.StatusCreated, domain.MessageSuccessCreateSession)
}
