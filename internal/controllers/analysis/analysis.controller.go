package analysisController

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"server/config"
	"server/internal/logger"
	. "server/internal/models"
	"server/internal/reports"
	"server/internal/repositories"
	"server/internal/services"
	"time"

	"gorm.io/gorm"
)

// WSManager pushes analysis lifecycle events to the requester's open
// dashboards. Declared here to avoid an import cycle with the
// websocket package.
type WSManager interface {
	SendAnalysisProgress(userID, jobID string, data map[string]any)
	SendAnalysisComplete(userID, jobID string, data map[string]any)
	SendAnalysisError(userID, jobID string, errorMsg string)
}

type AnalysisController struct {
	jobRepo   repositories.AnalysisJobRepository
	testRepo  repositories.TestRepository
	userRepo  repositories.UserRepository
	client    services.TeamAnalysisClient
	pool      *services.AnalysisPool
	wsManager WSManager
	config    config.Config
	log       logger.Logger
	now       func() time.Time
}

func New(
	jobRepo repositories.AnalysisJobRepository,
	testRepo repositories.TestRepository,
	userRepo repositories.UserRepository,
	client services.TeamAnalysisClient,
	pool *services.AnalysisPool,
	wsManager WSManager,
	config config.Config,
) *AnalysisController {
	return &AnalysisController{
		jobRepo:   jobRepo,
		testRepo:  testRepo,
		userRepo:  userRepo,
		client:    client,
		pool:      pool,
		wsManager: wsManager,
		config:    config,
		log:       logger.New("AnalysisController"),
		now:       time.Now,
	}
}

// StartAnalysis aggregates the test's answers, creates a processing
// job and hands the model call to the worker pool. It returns as soon
// as the job row is committed; it never waits on the external model.
func (c *AnalysisController) StartAnalysis(ctx context.Context, testID string, requester User) (*AnalysisJob, error) {
	log := c.log.Function("StartAnalysis")

	if !requester.IsCompany() {
		return nil, services.NewForbiddenError("only companies can request analysis")
	}

	payload, err := c.Aggregate(ctx, testID, requester)
	if err != nil {
		return nil, err
	}

	job := &AnalysisJob{
		TestID:      testID,
		RequesterID: requester.ID,
		Status:      JobStatusProcessing,
	}

	if err := c.jobRepo.Create(ctx, job); err != nil {
		return nil, services.NewPersistenceFaultError("failed to create analysis job: " + err.Error())
	}

	// The background body works on its own copy. The row handed back to
	// the caller is a snapshot of the processing state; sharing it with
	// the worker would let the terminal write race the caller's reads.
	background := *job
	if err := c.pool.Submit(func(taskCtx context.Context) {
		c.runAnalysis(taskCtx, &background, requester, *payload)
	}); err != nil {
		c.failJob(context.Background(), job, err.Error())
		return nil, err
	}

	log.Info("analysis started", "jobID", job.ID, "testID", testID, "teamSize", payload.TeamSize)
	return job, nil
}

// runAnalysis is the background body: one external-model call, report
// rendering, then a single terminal commit. Faults become job state,
// never panics.
func (c *AnalysisController) runAnalysis(ctx context.Context, job *AnalysisJob, requester User, payload TeamPayload) {
	log := c.log.Function("runAnalysis")

	ctx, cancel := context.WithTimeout(ctx, c.config.AnalysisTimeout)
	defer cancel()

	c.wsManager.SendAnalysisProgress(requester.ID, job.ID, map[string]any{
		"status":  JobStatusProcessing,
		"message": "Запрос отправлен аналитической модели",
	})

	result, err := c.client.AnalyzeTeam(ctx, payload)
	if err != nil {
		log.Er("external model call failed", err, "jobID", job.ID)
		c.failJob(ctx, job, err.Error())
		c.wsManager.SendAnalysisError(requester.ID, job.ID, err.Error())
		return
	}

	reportPath, err := c.writeReport(job.ID, *result)
	if err != nil {
		log.Er("failed to write report artifact", err, "jobID", job.ID)
		c.failJob(ctx, job, "failed to write report: "+err.Error())
		c.wsManager.SendAnalysisError(requester.ID, job.ID, "failed to write report")
		return
	}

	rawResult, err := json.Marshal(result)
	if err != nil {
		c.failJob(ctx, job, "failed to serialize analysis result: "+err.Error())
		c.wsManager.SendAnalysisError(requester.ID, job.ID, "failed to serialize analysis result")
		return
	}

	completedAt := c.now()
	resultJSON := string(rawResult)
	job.Status = JobStatusCompleted
	job.ResultJSON = &resultJSON
	job.ReportPath = &reportPath
	job.CompletedAt = &completedAt
	job.ErrorMessage = nil

	if err := c.persistTerminal(job); err != nil {
		c.wsManager.SendAnalysisError(requester.ID, job.ID, "failed to persist analysis result")
		return
	}

	c.wsManager.SendAnalysisComplete(requester.ID, job.ID, map[string]any{
		"status":     JobStatusCompleted,
		"reportPath": reportPath,
	})

	log.Info("analysis completed", "jobID", job.ID, "reportPath", reportPath)
}

// writeReport renders the result and persists it keyed by job id, so
// concurrent analyses never collide on a filename.
func (c *AnalysisController) writeReport(jobID string, result AnalysisResult) (string, error) {
	if err := os.MkdirAll(c.config.ReportDir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(c.config.ReportDir, jobID+".md")
	if err := os.WriteFile(path, []byte(reports.Render(result, c.now())), 0644); err != nil {
		return "", err
	}

	return path, nil
}

func (c *AnalysisController) failJob(ctx context.Context, job *AnalysisJob, message string) {
	job.Status = JobStatusFailed
	job.ErrorMessage = &message
	job.CompletedAt = nil

	_ = c.persistTerminal(job)
}

// persistTerminal writes the terminal state in one commit, retrying
// transient persistence faults with backoff. Losing this write would
// leave the job processing forever, so it tries hard before giving up.
func (c *AnalysisController) persistTerminal(job *AnalysisJob) error {
	log := c.log.Function("persistTerminal")

	backoff := 500 * time.Millisecond
	var lastErr error

	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			time.Sleep(backoff)
			backoff *= 2
		}

		if lastErr = c.jobRepo.Update(context.Background(), job); lastErr == nil {
			return nil
		}

		log.Warn("terminal state write failed, retrying",
			"jobID", job.ID,
			"attempt", attempt+1,
			"error", lastErr)
	}

	// Last resort: force the job into failed so pollers are not stuck
	// watching processing forever.
	if job.Status != JobStatusFailed {
		message := "failed to persist analysis result: " + lastErr.Error()
		job.Status = JobStatusFailed
		job.ErrorMessage = &message
		job.ResultJSON = nil
		job.ReportPath = nil
		job.CompletedAt = nil

		if err := c.jobRepo.Update(context.Background(), job); err == nil {
			return lastErr
		}
	}

	return log.Err("failed to persist terminal job state", lastErr, "jobID", job.ID)
}

// GetStatus returns what polling clients see. Progress for processing
// jobs is a wall-clock heuristic, not a measurement.
func (c *AnalysisController) GetStatus(ctx context.Context, jobID string, requester User) (*JobStatusView, error) {
	job, err := c.getOwnedJob(ctx, jobID, requester)
	if err != nil {
		return nil, err
	}

	view := &JobStatusView{
		JobID:  job.ID,
		Status: job.Status,
	}

	switch job.Status {
	case JobStatusCompleted:
		view.Progress = 100
		if job.ResultJSON != nil {
			var result AnalysisResult
			if err := json.Unmarshal([]byte(*job.ResultJSON), &result); err != nil {
				c.log.Function("GetStatus").Er("failed to decode stored result", err, "jobID", job.ID)
			} else {
				view.Result = &result
			}
		}
	case JobStatusFailed:
		if job.ErrorMessage != nil {
			view.Error = *job.ErrorMessage
		}
	default:
		view.Progress = progressEstimate(
			job.CreatedAt,
			c.now(),
			c.config.ProgressRampMinutes,
			c.config.ProgressCapPercent,
		)
	}

	return view, nil
}

// DownloadReport returns the path of the finished report artifact.
func (c *AnalysisController) DownloadReport(ctx context.Context, jobID string, requester User) (string, error) {
	job, err := c.getOwnedJob(ctx, jobID, requester)
	if err != nil {
		return "", err
	}

	if job.Status != JobStatusCompleted || job.ReportPath == nil {
		return "", services.NewNotFoundError("report is not ready")
	}

	return *job.ReportPath, nil
}

// ListJobs returns the requester's jobs most-recent-first for the
// dashboard.
func (c *AnalysisController) ListJobs(ctx context.Context, requester User, status string, limit int) ([]*AnalysisJob, error) {
	return c.jobRepo.GetByRequester(ctx, requester.ID, status, limit)
}

func (c *AnalysisController) getOwnedJob(ctx context.Context, jobID string, requester User) (*AnalysisJob, error) {
	job, err := c.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.NewNotFoundError("analysis job not found")
		}
		return nil, err
	}

	if job.RequesterID != requester.ID {
		return nil, services.NewForbiddenError("analysis job belongs to another company")
	}

	return job, nil
}
