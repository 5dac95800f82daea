package reports

import (
	"server/internal/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var fixedNow = time.Date(2025, 3, 14, 12, 30, 0, 0, time.UTC)

func TestRender_EmptyResultProducesAllSections(t *testing.T) {
	doc := Render(models.AnalysisResult{}, fixedNow)

	assert.Contains(t, doc, "## Распределение DISC-профилей")
	assert.Contains(t, doc, "## Эмоциональный интеллект")
	assert.Contains(t, doc, "## Совместимость команды")
	assert.Contains(t, doc, "## Рекомендации")
	assert.Contains(t, doc, "Нет данных")
	assert.Contains(t, doc, "Средний балл команды: 0.0")
	assert.Contains(t, doc, "Оценка совместимости: 0 из 100")
}

func TestRender_Deterministic(t *testing.T) {
	result := models.AnalysisResult{
		DiscAnalysis: map[string]models.DiscAxisAnalysis{
			"d": {Count: 2, Description: "Лидеры, склонные к конкуренции"},
			"s": {Count: 1, Description: "Опора команды"},
		},
		EqAnalysis: models.EqAnalysis{
			AverageScore: 3.7,
			StrongAreas:  []string{"Эмпатия"},
			WeakAreas:    []string{"Самоконтроль"},
		},
		Compatibility: models.CompatibilityAnalysis{
			Score:            72,
			ConflictWarnings: []string{"Два доминирующих профиля"},
			SynergyPairs:     []string{"Анна + Борис"},
		},
		Recommendations: models.Recommendations{
			Individual: []models.IndividualAdvice{{Name: "Анна", Advice: "Делегировать чаще"}},
			Team:       []string{"Ввести ретроспективы"},
		},
	}

	first := Render(result, fixedNow)
	second := Render(result, fixedNow)

	assert.Equal(t, first, second)
}

func TestRender_PopulatedFields(t *testing.T) {
	result := models.AnalysisResult{
		DiscAnalysis: map[string]models.DiscAxisAnalysis{
			"d": {Count: 3, Description: "Ориентированы на результат"},
		},
		EqAnalysis: models.EqAnalysis{AverageScore: 4.25},
		Compatibility: models.CompatibilityAnalysis{
			Score:        81,
			SynergyPairs: []string{"Иван + Мария"},
		},
	}

	doc := Render(result, fixedNow)

	assert.Contains(t, doc, "Доминирование (D)")
	assert.Contains(t, doc, "3 чел.")
	assert.Contains(t, doc, "Ориентированы на результат")
	// EQ average is rendered to one decimal place.
	assert.Contains(t, doc, "Средний балл команды: 4.2")
	assert.Contains(t, doc, "Оценка совместимости: 81 из 100")
	assert.Contains(t, doc, "Иван + Мария")
	// Axes the model skipped still render, as placeholders.
	assert.Contains(t, doc, "Стабильность (S)")
}

func TestRender_TimestampLine(t *testing.T) {
	doc := Render(models.AnalysisResult{}, fixedNow)
	assert.Contains(t, doc, "Сформирован: 14.03.2025 12:30")
}
