package handlers

import (
	"server/internal/app"
	testController "server/internal/controllers/tests"
	"server/internal/logger"
	. "server/internal/models"

	"github.com/gofiber/fiber/v2"
)

type TestHandler struct {
	Handler
	controller testController.TestController
}

func NewTestHandler(app app.App, router fiber.Router) *TestHandler {
	log := logger.New("handlers").File("test_handler")
	return &TestHandler{
		controller: *app.TestController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *TestHandler) Register() {
	h.router.Get("/questions", h.middleware.RequireAuth, h.listQuestions)

	tests := h.router.Group("/tests", h.middleware.RequireAuth)
	tests.Post("/", h.createTest)
	tests.Get("/", h.listTests)
	tests.Get("/:id", h.getTest)
	tests.Post("/:id/answers", h.submitAnswers)
	tests.Get("/:id/results", h.exportResults)
}

func (h *TestHandler) createTest(c *fiber.Ctx) error {
	log := h.log.Function("createTest")

	var request CreateTestRequest
	if err := c.BodyParser(&request); err != nil {
		log.Er("failed to parse create test request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse create test request"})
	}

	test, err := h.controller.CreateTest(c.Context(), &request, c.Locals("user").(User))
	if err != nil {
		log.Er("failed to create test", err)
		return c.Status(statusFromError(err)).
			JSON(fiber.Map{"message": "failed to create test", "error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "success", "test": test})
}

func (h *TestHandler) listTests(c *fiber.Ctx) error {
	log := h.log.Function("listTests")

	tests, err := h.controller.ListCompanyTests(c.Context(), c.Locals("user").(User))
	if err != nil {
		log.Er("failed to list tests", err)
		return c.Status(statusFromError(err)).
			JSON(fiber.Map{"message": "failed to list tests", "error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "success", "tests": tests})
}

func (h *TestHandler) getTest(c *fiber.Ctx) error {
	log := h.log.Function("getTest")

	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "test ID is required"})
	}

	test, err := h.controller.GetTest(c.Context(), id, c.Locals("user").(User))
	if err != nil {
		log.Er("failed to get test", err)
		return c.Status(statusFromError(err)).
			JSON(fiber.Map{"message": "failed to get test", "error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "success", "test": test})
}

func (h *TestHandler) submitAnswers(c *fiber.Ctx) error {
	log := h.log.Function("submitAnswers")

	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "test ID is required"})
	}

	var request SubmitAnswersRequest
	if err := c.BodyParser(&request); err != nil {
		log.Er("failed to parse answers request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse answers request"})
	}

	if err := h.controller.SubmitAnswers(c.Context(), id, &request, c.Locals("user").(User)); err != nil {
		log.Er("failed to submit answers", err)
		return c.Status(statusFromError(err)).
			JSON(fiber.Map{"message": "failed to submit answers", "error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "success"})
}

func (h *TestHandler) exportResults(c *fiber.Ctx) error {
	log := h.log.Function("exportResults")

	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "test ID is required"})
	}

	data, err := h.controller.ExportResults(c.Context(), id, c.Locals("user").(User))
	if err != nil {
		log.Er("failed to export results", err, "testID", id)
		return c.Status(statusFromError(err)).
			JSON(fiber.Map{"message": "failed to export results", "error": err.Error()})
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="test_results.csv"`)
	return c.Send(data)
}

func (h *TestHandler) listQuestions(c *fiber.Ctx) error {
	log := h.log.Function("listQuestions")

	questions, err := h.controller.ListQuestions(c.Context())
	if err != nil {
		log.Er("failed to list questions", err)
		return c.Status(statusFromError(err)).
			JSON(fiber.Map{"message": "failed to list questions", "error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "success", "questions": questions})
}
