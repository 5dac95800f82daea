package middleware

import (
	"server/config"
	"server/internal/database"
	"server/internal/logger"
	"server/internal/repositories"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type Middleware struct {
	db       database.DB
	config   config.Config
	userRepo repositories.UserRepository
	log      logger.Logger
}

func New(db database.DB, config config.Config, userRepo repositories.UserRepository) Middleware {
	return Middleware{
		db:       db,
		config:   config,
		userRepo: userRepo,
		log:      logger.New("middleware"),
	}
}

func sessionToken(c *fiber.Ctx) string {
	auth := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	// Browsers cannot set headers on websocket upgrades.
	return c.Query("token")
}

// RequireAuth resolves the session token into a user and stores it in
// Locals for downstream handlers.
func (m Middleware) RequireAuth(c *fiber.Ctx) error {
	log := m.log.Function("RequireAuth")

	token := sessionToken(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{"message": "missing session token"})
	}

	var userID string
	found, err := database.NewCacheBuilder(m.db.Cache.Session, token).
		WithContext(c.Context()).
		Get(&userID)
	if err != nil {
		log.Er("failed to read session", err)
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "failed to read session"})
	}
	if !found {
		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{"message": "session expired"})
	}

	user, err := m.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		log.Er("session user lookup failed", err, "userID", userID)
		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{"message": "session user no longer exists"})
	}

	c.Locals("user", *user)
	c.Locals("userID", user.ID)
	c.Locals("sessionToken", token)

	return c.Next()
}
