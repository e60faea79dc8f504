package api

import (
	"lodging-service/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// pathID parses the :id parameter. An id that does not parse cannot address a row, so it is
// reported as the resource not being found.
func pathID(c *fiber.Ctx, resource string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, &service.NotFoundError{Resource: resource}
	}
	return id, nil
}

// callerID is only called behind RequireAuth.
func callerID(c *fiber.Ctx) uuid.UUID {
	id, _ := CurrentUserID(c)
	return id
}
