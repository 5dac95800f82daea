package repositories

import (
	"context"
	"server/internal/database"
	"server/internal/logger"
	. "server/internal/models"
	"server/internal/services"
	"time"

	"gorm.io/gorm"
)

const (
	ANALYSIS_JOB_CACHE_EXPIRY = 24 * time.Hour
	JOB_LIST_PAGE_SIZE        = 20
)

type AnalysisJobRepository interface {
	Create(ctx context.Context, job *AnalysisJob) error
	Update(ctx context.Context, job *AnalysisJob) error
	GetByID(ctx context.Context, id string) (*AnalysisJob, error)
	GetByRequester(ctx context.Context, requesterID, status string, limit int) ([]*AnalysisJob, error)
}

type analysisJobRepository struct {
	db  database.DB
	log logger.Logger
}

func NewAnalysisJob(db database.DB) AnalysisJobRepository {
	return &analysisJobRepository{
		db:  db,
		log: logger.New("analysisJobRepository"),
	}
}

func (r *analysisJobRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

// Create commits the processing row before the background body starts
// so pollers can see the job immediately.
func (r *analysisJobRepository) Create(ctx context.Context, job *AnalysisJob) error {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(job).Error; err != nil {
		return log.Err("failed to create analysis job", err, "testID", job.TestID)
	}

	if err := r.addJobToCache(ctx, job); err != nil {
		log.Warn("failed to add analysis job to cache", "jobID", job.ID, "error", err)
	}

	return nil
}

func (r *analysisJobRepository) Update(ctx context.Context, job *AnalysisJob) error {
	log := r.log.Function("Update")

	if err := r.getDB(ctx).Save(job).Error; err != nil {
		return log.Err("failed to update analysis job", err, "jobID", job.ID)
	}

	if err := r.addJobToCache(ctx, job); err != nil {
		log.Warn("failed to update analysis job in cache", "jobID", job.ID, "error", err)
	}

	return nil
}

func (r *analysisJobRepository) GetByID(ctx context.Context, id string) (*AnalysisJob, error) {
	log := r.log.Function("GetByID")

	var job AnalysisJob
	found, err := database.NewCacheBuilder(r.db.Cache.Job, id).WithContext(ctx).Get(&job)
	if err == nil && found {
		return &job, nil
	}

	if err := r.getDB(ctx).First(&job, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get analysis job by id", err, "id", id)
	}

	if err := r.addJobToCache(ctx, &job); err != nil {
		log.Warn("failed to add analysis job to cache", "jobID", id, "error", err)
	}

	return &job, nil
}

// GetByRequester lists the requester's jobs most-recent-first for the
// dashboard. An empty status matches every state; limit is clamped to
// the page size.
func (r *analysisJobRepository) GetByRequester(ctx context.Context, requesterID, status string, limit int) ([]*AnalysisJob, error) {
	log := r.log.Function("GetByRequester")

	if limit <= 0 || limit > JOB_LIST_PAGE_SIZE {
		limit = JOB_LIST_PAGE_SIZE
	}

	query := r.getDB(ctx).Where("requester_id = ?", requesterID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var jobs []*AnalysisJob
	if err := query.Order("created_at DESC").Limit(limit).Find(&jobs).Error; err != nil {
		return nil, log.Err("failed to get analysis jobs by requester", err, "requesterID", requesterID)
	}

	return jobs, nil
}

func (r *analysisJobRepository) addJobToCache(ctx context.Context, job *AnalysisJob) error {
	return database.NewCacheBuilder(r.db.Cache.Job, job.ID).
		WithStruct(job).
		WithTTL(ANALYSIS_JOB_CACHE_EXPIRY).
		WithContext(ctx).
		Set()
}
