package handlers

import (
	"server/internal/app"
	userController "server/internal/controllers/users"
	"server/internal/logger"
	. "server/internal/models"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	Handler
	controller userController.UserController
}

func NewUserHandler(app app.App, router fiber.Router) *UserHandler {
	log := logger.New("handlers").File("user_handler")
	return &UserHandler{
		controller: *app.UserController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *UserHandler) Register() {
	users := h.router.Group("/users")
	users.Post("/register", h.register)
	users.Post("/login", h.login)

	users.Get("/", h.middleware.RequireAuth, h.getUser)
	users.Get("/employees", h.middleware.RequireAuth, h.listEmployees)
	users.Post("/logout", h.middleware.RequireAuth, h.logout)
}

func (h *UserHandler) register(c *fiber.Ctx) error {
	log := h.log.Function("register")

	var request RegisterRequest
	if err := c.BodyParser(&request); err != nil {
		log.Er("failed to parse register request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse register request"})
	}

	user, err := h.controller.Register(c.Context(), &request)
	if err != nil {
		log.Er("failed to register user", err)
		return c.Status(statusFromError(err)).
			JSON(fiber.Map{"message": "failed to register", "error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "success", "user": user})
}

func (h *UserHandler) login(c *fiber.Ctx) error {
	log := h.log.Function("login")

	var request LoginRequest
	if err := c.BodyParser(&request); err != nil {
		log.Er("failed to parse login request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse login request"})
	}

	response, err := h.controller.Login(c.Context(), &request)
	if err != nil {
		log.Er("failed to log in", err)
		return c.Status(statusFromError(err)).
			JSON(fiber.Map{"message": "failed to log in", "error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "success", "token": response.Token, "user": response.User})
}

func (h *UserHandler) getUser(c *fiber.Ctx) error {
	user := c.Locals("user").(User)
	if user.ID == "" {
		h.log.Function("getUser").ErMsg("No user found in locals")
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "error", "error": "failed to get user"})
	}

	return c.JSON(fiber.Map{"message": "success", "user": user})
}

func (h *UserHandler) listEmployees(c *fiber.Ctx) error {
	log := h.log.Function("listEmployees")

	employees, err := h.controller.ListEmployees(c.Context(), c.Locals("user").(User))
	if err != nil {
		log.Er("failed to list employees", err)
		return c.Status(statusFromError(err)).
			JSON(fiber.Map{"message": "failed to list employees", "error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "success", "employees": employees})
}

func (h *UserHandler) logout(c *fiber.Ctx) error {
	token, _ := c.Locals("sessionToken").(string)
	if err := h.controller.Logout(c.Context(), token); err != nil {
		h.log.Function("logout").Er("failed to drop session", err)
	}
	return c.JSON(fiber.Map{"message": "success"})
}
