package repositories

import (
	"context"
	"server/internal/database"
	"server/internal/logger"
	. "server/internal/models"
	"server/internal/services"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	QUESTION_CATALOG_CACHE_KEY    = "questions:catalog"
	QUESTION_CATALOG_CACHE_EXPIRY = 1 * time.Hour
)

type TestRepository interface {
	Create(ctx context.Context, test *Test) error
	GetByID(ctx context.Context, id string) (*Test, error)
	GetByCompany(ctx context.Context, companyID string) ([]*Test, error)
	GetQuestionsByIDs(ctx context.Context, ids []string) ([]Question, error)
	ListQuestions(ctx context.Context) ([]Question, error)
	UpsertAnswer(ctx context.Context, answer *Answer) error
	GetAnswersByUserAndTest(ctx context.Context, userID, testID string) ([]Answer, error)
}

type testRepository struct {
	db  database.DB
	log logger.Logger
}

func NewTest(db database.DB) TestRepository {
	return &testRepository{
		db:  db,
		log: logger.New("testRepository"),
	}
}

func (r *testRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

// Create persists the test together with its question binding. The
// binding is written once here and never updated afterwards.
func (r *testRepository) Create(ctx context.Context, test *Test) error {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(test).Error; err != nil {
		return log.Err("failed to create test", err, "companyID", test.CompanyID)
	}

	return nil
}

func (r *testRepository) GetByID(ctx context.Context, id string) (*Test, error) {
	log := r.log.Function("GetByID")

	var test Test
	if err := r.getDB(ctx).Preload("Questions").First(&test, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get test by id", err, "id", id)
	}

	return &test, nil
}

func (r *testRepository) GetByCompany(ctx context.Context, companyID string) ([]*Test, error) {
	log := r.log.Function("GetByCompany")

	var tests []*Test
	if err := r.getDB(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&tests).Error; err != nil {
		return nil, log.Err("failed to get tests by company", err, "companyID", companyID)
	}

	return tests, nil
}

func (r *testRepository) GetQuestionsByIDs(ctx context.Context, ids []string) ([]Question, error) {
	log := r.log.Function("GetQuestionsByIDs")

	var questions []Question
	if err := r.getDB(ctx).Where("id IN ?", ids).Find(&questions).Error; err != nil {
		return nil, log.Err("failed to get questions by ids", err, "count", len(ids))
	}

	return questions, nil
}

// ListQuestions serves the catalog cache-aside; the catalog only
// changes when the schema initializer seeds new entries.
func (r *testRepository) ListQuestions(ctx context.Context) ([]Question, error) {
	log := r.log.Function("ListQuestions")

	var questions []Question
	found, err := database.NewCacheBuilder(r.db.Cache.General, QUESTION_CATALOG_CACHE_KEY).
		WithContext(ctx).
		Get(&questions)
	if err == nil && found {
		return questions, nil
	}

	if err := r.getDB(ctx).Order("type ASC, category ASC").Find(&questions).Error; err != nil {
		return nil, log.Err("failed to list questions", err)
	}

	if err := database.NewCacheBuilder(r.db.Cache.General, QUESTION_CATALOG_CACHE_KEY).
		WithStruct(questions).
		WithTTL(QUESTION_CATALOG_CACHE_EXPIRY).
		WithContext(ctx).
		Set(); err != nil {
		log.Warn("failed to cache question catalog", "error", err)
	}

	return questions, nil
}

// UpsertAnswer overwrites a previous answer for the same (user, test,
// question) triple so repeat submissions replace rather than append.
func (r *testRepository) UpsertAnswer(ctx context.Context, answer *Answer) error {
	log := r.log.Function("UpsertAnswer")

	if err := r.getDB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "test_id"},
			{Name: "question_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(answer).Error; err != nil {
		return log.Err("failed to upsert answer", err,
			"userID", answer.UserID,
			"testID", answer.TestID,
			"questionID", answer.QuestionID)
	}

	return nil
}

func (r *testRepository) GetAnswersByUserAndTest(ctx context.Context, userID, testID string) ([]Answer, error) {
	log := r.log.Function("GetAnswersByUserAndTest")

	var answers []Answer
	if err := r.getDB(ctx).
		Where("user_id = ? AND test_id = ?", userID, testID).
		Find(&answers).Error; err != nil {
		return nil, log.Err("failed to get answers", err, "userID", userID, "testID", testID)
	}

	return answers, nil
}
