package handlers

import (
	"strconv"

	"server/internal/app"
	analysisController "server/internal/controllers/analysis"
	"server/internal/logger"
	. "server/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AnalysisHandler struct {
	Handler
	controller *analysisController.AnalysisController
}

func NewAnalysisHandler(app app.App, router fiber.Router) *AnalysisHandler {
	log := logger.New("handlers").File("analysis_handler")
	return &AnalysisHandler{
		controller: app.AnalysisController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AnalysisHandler) Register() {
	analyses := h.router.Group("/analyses", h.middleware.RequireAuth)
	analyses.Post("/", h.startAnalysis)
	analyses.Get("/", h.listAnalyses)
	analyses.Get("/:id/status", h.getStatus)
	analyses.Get("/:id/report", h.downloadReport)
}

func (h *AnalysisHandler) startAnalysis(c *fiber.Ctx) error {
	log := h.log.Function("startAnalysis")

	var request StartAnalysisRequest
	if err := c.BodyParser(&request); err != nil {
		log.Er("failed to parse analysis request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse analysis request"})
	}

	if request.TestID == "" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "test ID is required"})
	}

	job, err := h.controller.StartAnalysis(c.Context(), request.TestID, c.Locals("user").(User))
	if err != nil {
		log.Er("failed to start analysis", err, "testID", request.TestID)
		return c.Status(statusFromError(err)).
			JSON(fiber.Map{"message": "failed to start analysis", "error": err.Error()})
	}

	return c.Status(fiber.StatusAccepted).
		JSON(fiber.Map{"message": "success", "job": job})
}

func (h *AnalysisHandler) listAnalyses(c *fiber.Ctx) error {
	log := h.log.Function("listAnalyses")

	limit, _ := strconv.Atoi(c.Query("limit"))
	jobs, err := h.controller.ListJobs(c.Context(), c.Locals("user").(User), c.Query("status"), limit)
	if err != nil {
		log.Er("failed to list analyses", err)
		return c.Status(statusFromError(err)).
			JSON(fiber.Map{"message": "failed to list analyses", "error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "success", "jobs": jobs})
}

func (h *AnalysisHandler) getStatus(c *fiber.Ctx) error {
	log := h.log.Function("getStatus")

	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "job ID is required"})
	}

	view, err := h.controller.GetStatus(c.Context(), id, c.Locals("user").(User))
	if err != nil {
		log.Er("failed to get analysis status", err, "jobID", id)
		return c.Status(statusFromError(err)).
			JSON(fiber.Map{"message": "failed to get analysis status", "error": err.Error()})
	}

	return c.JSON(view)
}

func (h *AnalysisHandler) downloadReport(c *fiber.Ctx) error {
	log := h.log.Function("downloadReport")

	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "job ID is required"})
	}

	path, err := h.controller.DownloadReport(c.Context(), id, c.Locals("user").(User))
	if err != nil {
		log.Er("failed to fetch report", err, "jobID", id)
		return c.Status(statusFromError(err)).
			JSON(fiber.Map{"message": "failed to fetch report", "error": err.Error()})
	}

	return c.Download(path, "team-report.md")
}
