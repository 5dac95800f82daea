package repositories

import (
	"testing"
	"time"

	. "server/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func stringPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestAnalysisJob_StatusValidation(t *testing.T) {
	tests := []struct {
		name          string
		status        string
		isValidStatus bool
	}{
		{name: "processing status", status: "processing", isValidStatus: true},
		{name: "completed status", status: "completed", isValidStatus: true},
		{name: "failed status", status: "failed", isValidStatus: true},
		{name: "unknown status", status: "cancelled", isValidStatus: false},
		{name: "empty status", status: "", isValidStatus: false},
	}

	validStatuses := []string{JobStatusProcessing, JobStatusCompleted, JobStatusFailed}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isValid := false
			for _, validStatus := range validStatuses {
				if tt.status == validStatus {
					isValid = true
					break
				}
			}
			assert.Equal(t, tt.isValidStatus, isValid)
		})
	}
}

func TestAnalysisJob_TerminalStateShape(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		job  AnalysisJob
	}{
		{
			name: "processing job has no terminal fields",
			job: AnalysisJob{
				TestID:      uuid.NewString(),
				RequesterID: uuid.NewString(),
				Status:      JobStatusProcessing,
			},
		},
		{
			name: "completed job carries result, report and timestamp",
			job: AnalysisJob{
				TestID:      uuid.NewString(),
				RequesterID: uuid.NewString(),
				Status:      JobStatusCompleted,
				ResultJSON:  stringPtr(`{"compatibility":{"score":70}}`),
				ReportPath:  stringPtr("data/reports/some-job.md"),
				CompletedAt: timePtr(now),
			},
		},
		{
			name: "failed job carries the error message only",
			job: AnalysisJob{
				TestID:       uuid.NewString(),
				RequesterID:  uuid.NewString(),
				Status:       JobStatusFailed,
				ErrorMessage: stringPtr("model returned error: empty team"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// CompletedAt is set iff the job completed.
			if tt.job.Status == JobStatusCompleted {
				assert.NotNil(t, tt.job.CompletedAt)
				assert.NotNil(t, tt.job.ResultJSON)
				assert.NotNil(t, tt.job.ReportPath)
			} else {
				assert.Nil(t, tt.job.CompletedAt)
			}

			if tt.job.Status == JobStatusFailed {
				assert.NotNil(t, tt.job.ErrorMessage)
				assert.NotEmpty(t, *tt.job.ErrorMessage)
			}
		})
	}
}

func TestGetByRequester_LimitClamping(t *testing.T) {
	tests := []struct {
		name     string
		limit    int
		expected int
	}{
		{name: "zero limit falls back to page size", limit: 0, expected: JOB_LIST_PAGE_SIZE},
		{name: "negative limit falls back to page size", limit: -5, expected: JOB_LIST_PAGE_SIZE},
		{name: "oversized limit is clamped", limit: 500, expected: JOB_LIST_PAGE_SIZE},
		{name: "in-range limit is kept", limit: 5, expected: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit := tt.limit
			if limit <= 0 || limit > JOB_LIST_PAGE_SIZE {
				limit = JOB_LIST_PAGE_SIZE
			}
			assert.Equal(t, tt.expected, limit)
		})
	}
}
