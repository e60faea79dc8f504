package api

import (
	"lodging-service/internal/service"
	"lodging-service/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type SpotHandler struct {
	spotService service.SpotService
}

func NewSpotHandler(spotService service.SpotService) *SpotHandler {
	return &SpotHandler{spotService: spotService}
}

func (h *SpotHandler) ListSpots(c *fiber.Ctx) error {
	query := service.DefaultSpotQuery()

	if err := c.QueryParser(&query); err != nil {
		verr := validation.New()
		verr.Add("page", "Page and size must be integers")
		return writeError(c, verr)
	}

	spots, err := h.spotService.List(c.UserContext(), query)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{"Spots": spots, "page": query.Page, "size": query.Size})
}

func (h *SpotHandler) ListCurrentUserSpots(c *fiber.Ctx) error {
	spots, err := h.spotService.ListByOwner(c.UserContext(), callerID(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{"Spots": spots})
}

func (h *SpotHandler) GetSpot(c *fiber.Ctx) error {
	spotID, err := pathID(c, "Spot")
	if err != nil {
		return writeError(c, err)
	}

	details, err := h.spotService.Details(c.UserContext(), spotID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(details)
}

func (h *SpotHandler) CreateSpot(c *fiber.Ctx) error {
	var request service.SpotInput

	if err := c.BodyParser(&request); err != nil {
		return badBody(c)
	}

	spot, err := h.spotService.Create(c.UserContext(), callerID(c), request)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(spot)
}

func (h *SpotHandler) UpdateSpot(c *fiber.Ctx) error {
	spotID, err := pathID(c, "Spot")
	if err != nil {
		return writeError(c, err)
	}

	var request service.SpotInput
	if err := c.BodyParser(&request); err != nil {
		return badBody(c)
	}

	spot, err := h.spotService.Update(c.UserContext(), spotID, callerID(c), request)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(spot)
}

func (h *SpotHandler) DeleteSpot(c *fiber.Ctx) error {
	spotID, err := pathID(c, "Spot")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.spotService.Delete(c.UserContext(), spotID, callerID(c)); err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{"message": msgSuccessfullyDeleted})
}

func (h *SpotHandler) AddSpotImage(c *fiber.Ctx) error {
	spotID, err := pathID(c, "Spot")
	if err != nil {
		return writeError(c, err)
	}

	var request service.SpotImageInput
	if err := c.BodyParser(&request); err != nil {
		return badBody(c)
	}

	image, err := h.spotService.AddImage(c.UserContext(), spotID, callerID(c), request)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(image)
}

func (h *SpotHandler) SpotImageUploadURL(c *fiber.Ctx) error {
	spotID, err := pathID(c, "Spot")
	if err != nil {
		return writeError(c, err)
	}

	var request service.ImageUploadInput
	if err := c.BodyParser(&request); err != nil {
		return badBody(c)
	}

	upload, err := h.spotService.ImageUploadURL(c.UserContext(), spotID, callerID(c), request)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(upload)
}

func (h *SpotHandler) DeleteSpotImage(c *fiber.Ctx) error {
	imageID, err := pathID(c, "Spot Image")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.spotService.DeleteImage(c.UserContext(), imageID, callerID(c)); err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{"message": msgSuccessfullyDeleted})
}
