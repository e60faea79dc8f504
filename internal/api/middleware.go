package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"lodging-service/internal/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	sessionCookieName = "token"
	localsUserID      = "userID"
	localsClaims      = "userClaims"
)

var (
	httpRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of http request",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)
)

type TokenValidator interface {
	ValidateToken(tokenString string) (*jwt.Claims, error)
}

// SessionCookie holds the attributes of the session cookie.
type SessionCookie struct {
	Secure bool
	MaxAge time.Duration
}

func (s SessionCookie) set(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.MaxAge.Seconds()),
		Expires:  time.Now().Add(s.MaxAge),
		Secure:   s.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (s SessionCookie) clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   s.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// RestoreUser attaches the caller identity when the request carries a valid session token.
// Requests without one continue anonymously; a stale cookie is cleared.
func RestoreUser(tokens TokenValidator, cookie SessionCookie) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, fromCookie := sessionToken(c)
		if tokenString == "" {
			return c.Next()
		}

		claims, err := tokens.ValidateToken(tokenString)
		if err == nil {
			var userID uuid.UUID
			if userID, err = claims.UserID(); err == nil {
				c.Locals(localsUserID, userID)
				c.Locals(localsClaims, claims)
				return c.Next()
			}
		}

		if fromCookie {
			cookie.clear(c)
		}
		return c.Next()
	}
}

func sessionToken(c *fiber.Ctx) (string, bool) {
	if token := c.Cookies(sessionCookieName); token != "" {
		return token, true
	}

	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1]), false
	}
	return "", false
}

func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := CurrentUserID(c); !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": msgAuthRequired})
		}
		return c.Next()
	}
}

func CurrentUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	userID, ok := c.Locals(localsUserID).(uuid.UUID)
	return userID, ok
}

func PrometheusMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		duration := time.Since(start).Seconds()
		statusCode := c.Response().StatusCode()

		if err != nil {
			var e *fiber.Error

			if errors.As(err, &e) {
				statusCode = e.Code
			} else {
				statusCode = fiber.StatusInternalServerError
			}
		}

		method := c.Method()
		// Route pattern keeps ids out of the label set.
		path := c.Route().Path
		statusStr := fmt.Sprintf("%d", statusCode)

		httpRequestTotal.WithLabelValues(method, path, statusStr).Inc()
		httpRequestDuration.WithLabelValues(method, path, statusStr).Observe(duration)

		return err
	}
}
