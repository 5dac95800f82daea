package initialize

import (
	"server/config"
	"server/internal/logger"
	. "server/internal/models"

	"gorm.io/gorm"
)

// InitializeTables migrates the schema and installs the fixed question
// catalog. Safe to run on every start.
func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	if err := db.AutoMigrate(
		&User{},
		&Question{},
		&Test{},
		&Answer{},
		&AnalysisJob{},
	); err != nil {
		return log.Err("failed to migrate tables", err)
	}

	if err := seedQuestionCatalog(db, log); err != nil {
		return err
	}

	log.Info("Table initialization complete")
	return nil
}

// seedQuestionCatalog installs the DISC and EQ question bank companies
// pick from when assembling a test. Idempotent on question text.
func seedQuestionCatalog(db *gorm.DB, log logger.Logger) error {
	questions := []Question{
		{Text: "Я беру на себя инициативу в сложных ситуациях", Type: QuestionTypeDisc, Category: "d"},
		{Text: "Я быстро принимаю решения, даже под давлением", Type: QuestionTypeDisc, Category: "d"},
		{Text: "Мне важно побеждать и добиваться результата", Type: QuestionTypeDisc, Category: "d"},
		{Text: "Я прямо говорю о том, что меня не устраивает", Type: QuestionTypeDisc, Category: "d"},

		{Text: "Мне легко знакомиться с новыми людьми", Type: QuestionTypeDisc, Category: "i"},
		{Text: "Я умею увлечь коллег своей идеей", Type: QuestionTypeDisc, Category: "i"},
		{Text: "Я предпочитаю обсуждать задачи вслух, а не в переписке", Type: QuestionTypeDisc, Category: "i"},
		{Text: "Я оптимистично смотрю на рабочие трудности", Type: QuestionTypeDisc, Category: "i"},

		{Text: "Я предпочитаю стабильный, предсказуемый ритм работы", Type: QuestionTypeDisc, Category: "s"},
		{Text: "Я терпеливо выслушиваю собеседника до конца", Type: QuestionTypeDisc, Category: "s"},
		{Text: "Мне комфортнее доводить начатое до конца, чем переключаться", Type: QuestionTypeDisc, Category: "s"},
		{Text: "Я избегаю конфликтов и ищу компромисс", Type: QuestionTypeDisc, Category: "s"},

		{Text: "Я тщательно проверяю свою работу перед сдачей", Type: QuestionTypeDisc, Category: "c"},
		{Text: "Мне важно следовать установленным правилам и стандартам", Type: QuestionTypeDisc, Category: "c"},
		{Text: "Я опираюсь на данные, а не на интуицию", Type: QuestionTypeDisc, Category: "c"},
		{Text: "Я замечаю ошибки, которые пропускают другие", Type: QuestionTypeDisc, Category: "c"},

		{Text: "Я понимаю, какие эмоции испытываю в данный момент", Type: QuestionTypeEq, Category: "awareness"},
		{Text: "Я осознаю, как мое настроение влияет на работу", Type: QuestionTypeEq, Category: "awareness"},
		{Text: "Я сохраняю спокойствие в стрессовых ситуациях", Type: QuestionTypeEq, Category: "management"},
		{Text: "Я умею сдерживать раздражение при общении с коллегами", Type: QuestionTypeEq, Category: "management"},
		{Text: "Я замечаю, когда коллеге нужна поддержка", Type: QuestionTypeEq, Category: "empathy"},
		{Text: "Мне легко поставить себя на место другого человека", Type: QuestionTypeEq, Category: "empathy"},
		{Text: "Я сохраняю мотивацию даже при неудачах", Type: QuestionTypeEq, Category: "motivation"},
		{Text: "Я ставлю себе цели и последовательно иду к ним", Type: QuestionTypeEq, Category: "motivation"},
		{Text: "Я распознаю невысказанное недовольство в команде", Type: QuestionTypeEq, Category: "recognition"},
		{Text: "Я понимаю причины эмоциональных реакций коллег", Type: QuestionTypeEq, Category: "recognition"},
	}

	for _, question := range questions {
		var existing Question
		if err := db.First(&existing, "text = ?", question.Text).Error; err == nil {
			continue
		}
		if err := db.Create(&question).Error; err != nil {
			return log.Err("failed to seed question", err, "text", question.Text)
		}
	}

	return nil
}
