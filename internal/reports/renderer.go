// Package reports renders the external model's structured analysis
// into the Markdown report artifact stored per job.
package reports

import (
	"fmt"
	"server/internal/models"
	"strings"
	"time"
)

const noData = "Нет данных"

// discAxisOrder fixes the section layout regardless of map iteration.
var discAxisOrder = []struct {
	code  string
	label string
}{
	{"d", "Доминирование (D)"},
	{"i", "Влияние (I)"},
	{"s", "Стабильность (S)"},
	{"c", "Добросовестность (C)"},
}

// Render produces the report document. Every section tolerates missing
// or partial input by substituting defaults; given identical input and
// timestamp the output is byte-for-byte identical.
func Render(result models.AnalysisResult, now time.Time) string {
	var b strings.Builder

	b.WriteString("# Отчет о командной совместимости\n\n")
	b.WriteString(fmt.Sprintf("Сформирован: %s\n\n", now.Format("02.01.2006 15:04")))

	renderDiscSection(&b, result.DiscAnalysis)
	renderEqSection(&b, result.EqAnalysis)
	renderCompatibilitySection(&b, result.Compatibility)
	renderRecommendationsSection(&b, result.Recommendations)

	return b.String()
}

func renderDiscSection(b *strings.Builder, analysis map[string]models.DiscAxisAnalysis) {
	b.WriteString("## Распределение DISC-профилей\n\n")

	for _, axis := range discAxisOrder {
		entry, ok := analysis[axis.code]
		description := entry.Description
		if !ok || description == "" {
			description = noData
		}
		b.WriteString(fmt.Sprintf("- **%s** — %d чел. %s\n", axis.label, entry.Count, description))
	}
	b.WriteString("\n")
}

func renderEqSection(b *strings.Builder, analysis models.EqAnalysis) {
	b.WriteString("## Эмоциональный интеллект\n\n")
	b.WriteString(fmt.Sprintf("Средний балл команды: %.1f\n\n", analysis.AverageScore))

	b.WriteString("Сильные стороны:\n")
	writeList(b, analysis.StrongAreas)

	b.WriteString("\nЗоны роста:\n")
	writeList(b, analysis.WeakAreas)
	b.WriteString("\n")
}

func renderCompatibilitySection(b *strings.Builder, compat models.CompatibilityAnalysis) {
	b.WriteString("## Совместимость команды\n\n")
	b.WriteString(fmt.Sprintf("Оценка совместимости: %d из 100\n\n", compat.Score))

	b.WriteString("Возможные конфликты:\n")
	writeList(b, compat.ConflictWarnings)

	b.WriteString("\nСильные связки:\n")
	writeList(b, compat.SynergyPairs)
	b.WriteString("\n")
}

func renderRecommendationsSection(b *strings.Builder, recs models.Recommendations) {
	b.WriteString("## Рекомендации\n\n")

	b.WriteString("Индивидуальные:\n")
	if len(recs.Individual) == 0 {
		b.WriteString(fmt.Sprintf("- %s\n", noData))
	} else {
		for _, advice := range recs.Individual {
			name := advice.Name
			if name == "" {
				name = noData
			}
			b.WriteString(fmt.Sprintf("- **%s**: %s\n", name, advice.Advice))
		}
	}

	b.WriteString("\nКомандные:\n")
	writeList(b, recs.Team)
}

func writeList(b *strings.Builder, items []string) {
	if len(items) == 0 {
		b.WriteString(fmt.Sprintf("- %s\n", noData))
		return
	}
	for _, item := range items {
		b.WriteString(fmt.Sprintf("- %s\n", item))
	}
}
