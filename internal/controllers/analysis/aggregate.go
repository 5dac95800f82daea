package analysisController

import (
	"context"
	"errors"
	. "server/internal/models"
	"server/internal/scoring"
	"server/internal/services"

	"gorm.io/gorm"
)

// placeholderIndustry tags the payload until companies carry a real
// industry field.
const placeholderIndustry = "IT"

// Aggregate joins the test's answers against its fixed question set
// and produces the payload the external model consumes. Only the
// owning company may call it.
func (c *AnalysisController) Aggregate(ctx context.Context, testID string, requester User) (*TeamPayload, error) {
	log := c.log.Function("Aggregate")

	test, err := c.testRepo.GetByID(ctx, testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.NewNotFoundError("test not found")
		}
		return nil, err
	}

	if test.CompanyID != requester.ID {
		return nil, services.NewForbiddenError("test belongs to another company")
	}

	employees, err := c.userRepo.GetEmployeesByCompany(ctx, requester.Name)
	if err != nil {
		return nil, err
	}

	// The test's own question set is the lookup table; answers that
	// reference anything outside it are ignored.
	questionByID := make(map[string]Question, len(test.Questions))
	for _, question := range test.Questions {
		questionByID[question.ID] = question
	}

	payload := &TeamPayload{
		DiscResults: []DiscEmployeeResult{},
		EqResults:   []EqEmployeeResult{},
		TeamSize:    len(employees),
		Industry:    placeholderIndustry,
	}

	for _, employee := range employees {
		answers, err := c.testRepo.GetAnswersByUserAndTest(ctx, employee.ID, testID)
		if err != nil {
			return nil, err
		}

		var discAnswers []scoring.CategoryAnswer
		var eqValues []int

		for _, answer := range answers {
			question, ok := questionByID[answer.QuestionID]
			if !ok {
				continue
			}

			switch question.Type {
			case QuestionTypeDisc:
				discAnswers = append(discAnswers, scoring.CategoryAnswer{
					Category: question.Category,
					Value:    answer.Value,
				})
			case QuestionTypeEq:
				eqValues = append(eqValues, answer.Value)
			}
		}

		// An employee with no answers of a type is absent from that
		// results list; they still count toward the team size.
		if len(discAnswers) > 0 {
			scores := scoring.ComputeDiscScores(discAnswers)
			payload.DiscResults = append(payload.DiscResults, DiscEmployeeResult{
				Name: employee.Name,
				D:    scores.D,
				I:    scores.I,
				S:    scores.S,
				C:    scores.C,
			})
		}

		if len(eqValues) > 0 {
			payload.EqResults = append(payload.EqResults, EqEmployeeResult{
				Name:  employee.Name,
				Score: scoring.ComputeEqScore(eqValues),
			})
		}
	}

	log.Info("aggregated test payload",
		"testID", testID,
		"teamSize", payload.TeamSize,
		"discRespondents", len(payload.DiscResults),
		"eqRespondents", len(payload.EqResults))

	return payload, nil
}
