package models

import "time"

const (
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// AnalysisJob tracks one asynchronous team-analysis request. Created
// with status processing, mutated exactly once by the background body
// to reach a terminal state. CompletedAt is set iff status is
// completed.
type AnalysisJob struct {
	BaseUUIDModel
	TestID       string     `gorm:"type:varchar(64);not null;index" json:"testId"`
	RequesterID  string     `gorm:"type:varchar(64);not null;index" json:"requesterId"`
	Status       string     `gorm:"type:varchar(20);not null;index" json:"status"`
	ResultJSON   *string    `gorm:"type:text"                       json:"-"`
	ReportPath   *string    `gorm:"type:varchar(255)"               json:"reportPath,omitempty"`
	ErrorMessage *string    `gorm:"type:text"                       json:"errorMessage,omitempty"`
	CompletedAt  *time.Time `gorm:"type:datetime"                   json:"completedAt,omitempty"`
}

// DiscEmployeeResult carries one employee's normalized DISC profile.
// The four percentages sum to ~100 (independent rounding).
type DiscEmployeeResult struct {
	Name string `json:"name"`
	D    int    `json:"d"`
	I    int    `json:"i"`
	S    int    `json:"s"`
	C    int    `json:"c"`
}

type EqEmployeeResult struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// TeamPayload is the aggregated input sent to the external model. It
// is rebuilt from current answer rows on every analysis request and
// never persisted.
type TeamPayload struct {
	DiscResults []DiscEmployeeResult `json:"disc_results"`
	EqResults   []EqEmployeeResult   `json:"eq_results"`
	TeamSize    int                  `json:"team_size"`
	Industry    string               `json:"industry"`
}

type DiscAxisAnalysis struct {
	Count       int    `json:"count"`
	Description string `json:"description"`
}

type EqAnalysis struct {
	AverageScore float64  `json:"average_score"`
	StrongAreas  []string `json:"strong_areas"`
	WeakAreas    []string `json:"weak_areas"`
}

type CompatibilityAnalysis struct {
	Score            int      `json:"score"`
	ConflictWarnings []string `json:"conflict_warnings"`
	SynergyPairs     []string `json:"synergy_pairs"`
}

type IndividualAdvice struct {
	Name   string `json:"name"`
	Advice string `json:"advice"`
}

type Recommendations struct {
	Individual []IndividualAdvice `json:"individual"`
	Team       []string           `json:"team"`
}

// AnalysisResult is the structured document the external model returns.
// Every field is optional on the wire; the report renderer substitutes
// defaults for anything missing.
type AnalysisResult struct {
	DiscAnalysis    map[string]DiscAxisAnalysis `json:"disc_analysis"`
	EqAnalysis      EqAnalysis                  `json:"eq_analysis"`
	Compatibility   CompatibilityAnalysis       `json:"compatibility"`
	Recommendations Recommendations             `json:"recommendations"`
}

// JobStatusView is what polling clients see. Progress is a UX
// heuristic for processing jobs, not a true measurement.
type JobStatusView struct {
	JobID    string          `json:"jobId"`
	Status   string          `json:"status"`
	Progress int             `json:"progress"`
	Result   *AnalysisResult `json:"result,omitempty"`
	Error    string          `json:"error,omitempty"`
}

type StartAnalysisRequest struct {
	TestID string `json:"testId"`
}
