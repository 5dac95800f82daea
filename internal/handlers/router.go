package handlers

import (
	"server/internal/app"
	"server/internal/handlers/middleware"
	"server/internal/logger"
	"server/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	setupWebSocketRoute(router, app)

	api := router.Group("/api")
	HealthHandler(api, app.Config)
	NewUserHandler(*app, api).Register()
	NewTestHandler(*app, api).Register()
	NewAnalysisHandler(*app, api).Register()

	return nil
}

func setupWebSocketRoute(router fiber.Router, app *app.App) {
	router.Use("/ws", app.Middleware.RequireAuth, func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws", websocket.New(func(c *websocket.Conn) {
		app.Websocket.HandleWebSocket(c)
	}))
}

// statusFromError maps the service error taxonomy onto HTTP statuses.
func statusFromError(err error) int {
	se, ok := services.AsServiceError(err)
	if !ok {
		return fiber.StatusInternalServerError
	}

	switch se.Code {
	case services.ErrorInvalid:
		return fiber.StatusBadRequest
	case services.ErrorUnauthorized:
		return fiber.StatusUnauthorized
	case services.ErrorForbidden:
		return fiber.StatusForbidden
	case services.ErrorNotFound:
		return fiber.StatusNotFound
	case services.ErrorConflict:
		return fiber.StatusConflict
	case services.ErrorModelFault:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
