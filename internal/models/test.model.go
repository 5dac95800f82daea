package models

import "time"

const (
	QuestionTypeDisc = "disc"
	QuestionTypeEq   = "eq"
)

// Question is an immutable catalog entry. DISC questions carry one of
// the d/i/s/c categories, EQ questions one of the five EQ areas.
type Question struct {
	BaseUUIDModel
	Text     string `gorm:"type:text;not null"        json:"text"`
	Type     string `gorm:"type:varchar(10);not null" json:"type"`
	Category string `gorm:"type:varchar(30);not null" json:"category"`
}

// Test is one company-initiated testing round. Its question set is
// bound through test_questions at creation time and never changes.
type Test struct {
	BaseUUIDModel
	CompanyID string     `gorm:"type:varchar(64);not null;index"    json:"companyId"`
	Title     string     `gorm:"type:varchar(200);not null"         json:"title"`
	EndsAt    time.Time  `gorm:"not null"                           json:"endsAt"`
	Active    bool       `gorm:"not null;default:true"              json:"active"`
	Questions []Question `gorm:"many2many:test_questions"           json:"questions,omitempty"`
}

// Answer is one employee's response to one question within one test,
// on a 1-5 Likert scale. One row per (user, test, question); repeat
// submissions overwrite the previous value.
type Answer struct {
	BaseUUIDModel
	UserID     string `gorm:"type:varchar(64);not null;uniqueIndex:idx_answer_triple" json:"userId"`
	TestID     string `gorm:"type:varchar(64);not null;uniqueIndex:idx_answer_triple" json:"testId"`
	QuestionID string `gorm:"type:varchar(64);not null;uniqueIndex:idx_answer_triple" json:"questionId"`
	Value      int    `gorm:"not null"                                                json:"value"`
}

type CreateTestRequest struct {
	Title       string    `json:"title"`
	EndsAt      time.Time `json:"endsAt"`
	QuestionIDs []string  `json:"questionIds"`
}

type SubmitAnswerRequest struct {
	QuestionID string `json:"questionId"`
	Value      int    `json:"value"`
}

type SubmitAnswersRequest struct {
	Answers []SubmitAnswerRequest `json:"answers"`
}
