package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Handlers struct {
	Auth    *AuthHandler
	Spots   *SpotHandler
	Reviews *ReviewHandler
}

type RouterConfig struct {
	Tokens              TokenValidator
	Cookie              SessionCookie
	RateLimitMax        int
	RateLimitExpiration time.Duration
}

func SetupRoutes(app *fiber.App, h Handlers, rc RouterConfig) {
	api := app.Group("/api")

	if rc.RateLimitMax > 0 {
		api.Use(limiter.New(limiter.Config{
			Max:        rc.RateLimitMax,
			Expiration: rc.RateLimitExpiration,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"message": "Too many requests, please try again later.",
				})
			},
		}))
	}

	api.Use(RestoreUser(rc.Tokens, rc.Cookie))
	auth := RequireAuth()

	api.Post("/users", h.Auth.Signup)

	session := api.Group("/session")
	session.Get("/", h.Auth.GetSession)
	session.Post("/", h.Auth.Login)
	session.Delete("/", h.Auth.Logout)

	spots := api.Group("/spots")
	spots.Get("/", h.Spots.ListSpots)
	spots.Get("/current", auth, h.Spots.ListCurrentUserSpots)
	spots.Get("/:id", h.Spots.GetSpot)
	spots.Post("/", auth, h.Spots.CreateSpot)
	spots.Put("/:id", auth, h.Spots.UpdateSpot)
	spots.Delete("/:id", auth, h.Spots.DeleteSpot)
	spots.Post("/:id/images", auth, h.Spots.AddSpotImage)
	spots.Post("/:id/images/upload-url", auth, h.Spots.SpotImageUploadURL)
	spots.Get("/:id/reviews", h.Reviews.ListSpotReviews)
	spots.Post("/:id/reviews", auth, h.Reviews.CreateReview)

	api.Delete("/spot-images/:id", auth, h.Spots.DeleteSpotImage)

	reviews := api.Group("/reviews")
	reviews.Get("/current", auth, h.Reviews.ListCurrentUserReviews)
	reviews.Put("/:id", auth, h.Reviews.UpdateReview)
	reviews.Delete("/:id", auth, h.Reviews.DeleteReview)
	reviews.Post("/:id/images", auth, h.Reviews.AddReviewImage)
	reviews.Post("/:id/images/upload-url", auth, h.Reviews.ReviewImageUploadURL)

	api.Delete("/review-images/:id", auth, h.Reviews.DeleteReviewImage)
}
