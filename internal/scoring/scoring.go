// Package scoring converts raw per-question answers into normalized
// DISC percentages and EQ averages. Pure functions, no I/O.
package scoring

import (
	"math"
	"strings"
)

// CategoryAnswer is one raw answer joined with its question category.
type CategoryAnswer struct {
	Category string
	Value    int
}

// DiscScores holds per-axis percentages of the respondent's total raw
// score. Because each axis is rounded independently the four values
// may sum to 99-101, not exactly 100.
type DiscScores struct {
	D int `json:"d"`
	I int `json:"i"`
	S int `json:"s"`
	C int `json:"c"`
}

// canonicalAxis maps category spellings onto the four DISC codes.
// Matching is case-insensitive; unknown categories are dropped.
func canonicalAxis(category string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(category)) {
	case "d", "dominance":
		return "d", true
	case "i", "influence":
		return "i", true
	case "s", "steadiness":
		return "s", true
	case "c", "compliance", "conscientiousness":
		return "c", true
	}
	return "", false
}

// ComputeDiscScores sums raw values per axis, then converts each
// bucket into a percentage of the overall total. An all-zero total is
// treated as 1 to keep the function total.
func ComputeDiscScores(answers []CategoryAnswer) DiscScores {
	sums := map[string]int{"d": 0, "i": 0, "s": 0, "c": 0}

	for _, answer := range answers {
		axis, ok := canonicalAxis(answer.Category)
		if !ok {
			continue
		}
		sums[axis] += answer.Value
	}

	total := sums["d"] + sums["i"] + sums["s"] + sums["c"]
	if total == 0 {
		total = 1
	}

	percent := func(bucket int) int {
		return int(math.Round(float64(bucket) / float64(total) * 100))
	}

	return DiscScores{
		D: percent(sums["d"]),
		I: percent(sums["i"]),
		S: percent(sums["s"]),
		C: percent(sums["c"]),
	}
}

// ComputeEqScore returns the arithmetic mean of the values rounded to
// one decimal place, or 0 for an empty input.
func ComputeEqScore(values []int) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0
	for _, v := range values {
		sum += v
	}

	mean := float64(sum) / float64(len(values))
	return math.Round(mean*10) / 10
}
