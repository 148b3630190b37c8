package handlers

import (
	"errors"
	"fmt"

	"ghibli-backend/domain"
	"ghibli-backend/internal/api/presenters"
	"ghibli-backend/pkg/photo"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	PhotoHandler interface {
		GetPhotos(c *fiber.Ctx) error
		GetPhotoByID(c *fiber.Ctx) error
		DownloadPhoto(c *fiber.Ctx) error
		SharePhoto(c *fiber.Ctx) error
		DeleteAllPhotos(c *fiber.Ctx) error
	}

	photoHandler struct {
		photoService photo.PhotoService
		validator    *validator.Validate
	}
)

func NewPhotoHandler(photoService photo.PhotoService, validator *validator.Validate) PhotoHandler {
	return &photoHandler{
		photoService: photoService,
		validator:    validator,
	}
}

func (h *photoHandler) GetPhotos(c *fiber.Ctx) error {
	photos := h.photoService.GetPhotos(c.Context())
	return presenters.SuccessResponse(c, photos, fiber.StatusOK, domain.MessageSuccessGetPhotos)
}

func (h *photoHandler) GetPhotoByID(c *fiber.Ctx) error {
	id := c.Params("id")

	record, err := h.photoService.GetPhotoByID(c.Context(), id)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetPhoto, err)
	}

	return presenters.SuccessResponse(c, record, fiber.StatusOK, domain.MessageSuccessGetPhoto)
}

func (h *photoHandler) DownloadPhoto(c *fiber.Ctx) error {
	id := c.Params("id")

	download, err := h.photoService.DownloadPhoto(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrPhotoNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedDownloadPhoto, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDownloadPhoto, err)
	}

	c.Set(fiber.HeaderContentType, "image/jpeg")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", download.Filename))
	return c.Send(download.Data)
}

func (h *photoHandler) SharePhoto(c *fiber.Ctx) error {
	id := c.Params("id")

	req := new(domain.SharePhotoRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSharePhoto, err)
	}

	if err := h.photoService.SharePhoto(c.Context(), id, *req); err != nil {
		if errors.Is(err, domain.ErrPhotoNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedSharePhoto, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSharePhoto, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessSharePhoto)
}

func (h *photoHandler) DeleteAllPhotos(c *fiber.Ctx) error {
	if err := h.photoService.DeleteAllPhotos(c.Context()); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedClearPhotos, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessClearPhotos)
}
