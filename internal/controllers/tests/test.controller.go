package testController

import (
	"context"
	"errors"
	"server/internal/logger"
	. "server/internal/models"
	"server/internal/repositories"
	"server/internal/services"
	"server/internal/utils"
	"strings"
	"time"

	"gorm.io/gorm"
)

type TestController struct {
	testRepo           repositories.TestRepository
	userRepo           repositories.UserRepository
	transactionService *services.TransactionService
	log                logger.Logger
}

func New(
	testRepo repositories.TestRepository,
	userRepo repositories.UserRepository,
	transactionService *services.TransactionService,
) *TestController {
	return &TestController{
		testRepo:           testRepo,
		userRepo:           userRepo,
		transactionService: transactionService,
		log:                logger.New("TestController"),
	}
}

// CreateTest starts a testing round for the requesting company. The
// question binding is fixed here; nothing mutates it afterwards.
func (tc *TestController) CreateTest(ctx context.Context, req *CreateTestRequest, requester User) (*Test, error) {
	log := tc.log.Function("CreateTest")

	if !requester.IsCompany() {
		return nil, services.NewForbiddenError("only companies can create tests")
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, services.NewInvalidError("title is required")
	}
	if !req.EndsAt.After(time.Now()) {
		return nil, services.NewInvalidError("test end time must be in the future")
	}
	if len(req.QuestionIDs) == 0 {
		return nil, services.NewInvalidError("a test needs at least one question")
	}

	questions, err := tc.testRepo.GetQuestionsByIDs(ctx, req.QuestionIDs)
	if err != nil {
		return nil, err
	}
	if len(questions) != len(req.QuestionIDs) {
		return nil, services.NewInvalidError("unknown question id in request")
	}

	test := &Test{
		CompanyID: requester.ID,
		Title:     strings.TrimSpace(req.Title),
		EndsAt:    req.EndsAt,
		Active:    true,
		Questions: questions,
	}

	if err := tc.testRepo.Create(ctx, test); err != nil {
		return nil, err
	}

	log.Info("test created", "testID", test.ID, "companyID", requester.ID, "questions", len(questions))
	return test, nil
}

// GetTest returns the test to its owning company or to an employee of
// that company who needs to take it.
func (tc *TestController) GetTest(ctx context.Context, testID string, requester User) (*Test, error) {
	test, err := tc.testRepo.GetByID(ctx, testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.NewNotFoundError("test not found")
		}
		return nil, err
	}

	if test.CompanyID == requester.ID {
		return test, nil
	}

	if requester.Role == RoleEmployee && requester.CompanyName != nil {
		company, err := tc.userRepo.GetByID(ctx, test.CompanyID)
		if err == nil && company.Name == *requester.CompanyName {
			return test, nil
		}
	}

	return nil, services.NewForbiddenError("test belongs to another company")
}

func (tc *TestController) ListCompanyTests(ctx context.Context, requester User) ([]*Test, error) {
	if !requester.IsCompany() {
		return nil, services.NewForbiddenError("only companies can list their tests")
	}
	return tc.testRepo.GetByCompany(ctx, requester.ID)
}

func (tc *TestController) ListQuestions(ctx context.Context) ([]Question, error) {
	return tc.testRepo.ListQuestions(ctx)
}

// ExportResults joins the test's answers with the roster and renders
// the CSV the owning company downloads.
func (tc *TestController) ExportResults(ctx context.Context, testID string, requester User) ([]byte, error) {
	log := tc.log.Function("ExportResults")

	if !requester.IsCompany() {
		return nil, services.NewForbiddenError("only companies can export results")
	}

	test, err := tc.testRepo.GetByID(ctx, testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.NewNotFoundError("test not found")
		}
		return nil, err
	}
	if test.CompanyID != requester.ID {
		return nil, services.NewForbiddenError("test belongs to another company")
	}

	employees, err := tc.userRepo.GetEmployeesByCompany(ctx, requester.Name)
	if err != nil {
		return nil, err
	}

	questionByID := make(map[string]Question, len(test.Questions))
	for _, question := range test.Questions {
		questionByID[question.ID] = question
	}

	var rows []utils.ResultRow
	for _, employee := range employees {
		answers, err := tc.testRepo.GetAnswersByUserAndTest(ctx, employee.ID, testID)
		if err != nil {
			return nil, err
		}
		for _, answer := range answers {
			question, ok := questionByID[answer.QuestionID]
			if !ok {
				continue
			}
			rows = append(rows, utils.ResultRow{
				EmployeeName:  employee.Name,
				EmployeeEmail: employee.Email,
				QuestionText:  question.Text,
				QuestionType:  question.Type,
				Category:      question.Category,
				Value:         answer.Value,
			})
		}
	}

	data, err := utils.GenerateResultsCSV(rows)
	if err != nil {
		return nil, log.Err("failed to render results export", err, "testID", testID)
	}

	log.Info("results exported", "testID", testID, "rows", len(rows))
	return data, nil
}

// SubmitAnswers records an employee's answers in one transaction.
// Repeat submissions overwrite previous values per question.
func (tc *TestController) SubmitAnswers(ctx context.Context, testID string, req *SubmitAnswersRequest, requester User) error {
	log := tc.log.Function("SubmitAnswers")

	if requester.Role != RoleEmployee {
		return services.NewForbiddenError("only employees can submit answers")
	}
	if len(req.Answers) == 0 {
		return services.NewInvalidError("no answers submitted")
	}

	test, err := tc.GetTest(ctx, testID, requester)
	if err != nil {
		return err
	}
	if !test.Active || time.Now().After(test.EndsAt) {
		return services.NewInvalidError("test is no longer accepting answers")
	}

	questionByID := make(map[string]Question, len(test.Questions))
	for _, question := range test.Questions {
		questionByID[question.ID] = question
	}

	for _, answer := range req.Answers {
		if _, ok := questionByID[answer.QuestionID]; !ok {
			return services.NewInvalidError("answer references a question outside this test")
		}
		if answer.Value < 1 || answer.Value > 5 {
			return services.NewInvalidError("answer value must be between 1 and 5")
		}
	}

	err = tc.transactionService.Execute(ctx, func(txCtx context.Context) error {
		for _, answer := range req.Answers {
			if err := tc.testRepo.UpsertAnswer(txCtx, &Answer{
				UserID:     requester.ID,
				TestID:     testID,
				QuestionID: answer.QuestionID,
				Value:      answer.Value,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("answers submitted", "testID", testID, "userID", requester.ID, "count", len(req.Answers))
	return nil
}
