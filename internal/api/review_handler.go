package api

import (
	"lodging-service/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReviewHandler struct {
	reviewService service.ReviewService
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func (h *ReviewHandler) ListCurrentUserReviews(c *fiber.Ctx) error {
	reviews, err := h.reviewService.ListByUser(c.UserContext(), callerID(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{"Reviews": reviews})
}

func (h *ReviewHandler) ListSpotReviews(c *fiber.Ctx) error {
	spotID, err := pathID(c, "Spot")
	if err != nil {
		return writeError(c, err)
	}

	reviews, err := h.reviewService.ListBySpot(c.UserContext(), spotID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{"Reviews": reviews})
}

func (h *ReviewHandler) CreateReview(c *fiber.Ctx) error {
	spotID, err := pathID(c, "Spot")
	if err != nil {
		return writeError(c, err)
	}

	var request service.ReviewInput
	if err := c.BodyParser(&request); err != nil {
		return badBody(c)
	}

	review, err := h.reviewService.Create(c.UserContext(), spotID, callerID(c), request)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(review)
}

func (h *ReviewHandler) UpdateReview(c *fiber.Ctx) error {
	reviewID, err := pathID(c, "Review")
	if err != nil {
		return writeError(c, err)
	}

	var request service.ReviewInput
	if err := c.BodyParser(&request); err != nil {
		return badBody(c)
	}

	review, err := h.reviewService.Update(c.UserContext(), reviewID, callerID(c), request)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(review)
}

func (h *ReviewHandler) DeleteReview(c *fiber.Ctx) error {
	reviewID, err := pathID(c, "Review")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.reviewService.Delete(c.UserContext(), reviewID, callerID(c)); err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{"message": msgSuccessfullyDeleted})
}

func (h *ReviewHandler) AddReviewImage(c *fiber.Ctx) error {
	reviewID, err := pathID(c, "Review")
	if err != nil {
		return writeError(c, err)
	}

	var request service.ReviewImageInput
	if err := c.BodyParser(&request); err != nil {
		return badBody(c)
	}

	image, err := h.reviewService.AddImage(c.UserContext(), reviewID, callerID(c), request)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": image.ID, "url": image.URL})
}

func (h *ReviewHandler) ReviewImageUploadURL(c *fiber.Ctx) error {
	reviewID, err := pathID(c, "Review")
	if err != nil {
		return writeError(c, err)
	}

	var request service.ImageUploadInput
	if err := c.BodyParser(&request); err != nil {
		return badBody(c)
	}

	upload, err := h.reviewService.ImageUploadURL(c.UserContext(), reviewID, callerID(c), request)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(upload)
}

func (h *ReviewHandler) DeleteReviewImage(c *fiber.Ctx) error {
	imageID, err := pathID(c, "Review Image")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.reviewService.DeleteImage(c.UserContext(), imageID, callerID(c)); err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{"message": msgSuccessfullyDeleted})
}
