package analysisController

import "time"

// progressEstimate maps elapsed wall-clock time onto a linear ramp
// capped below 100%. It is a UX heuristic for jobs whose real progress
// is unobservable, tuned via config (default: ~9 minutes to 90%).
func progressEstimate(createdAt, now time.Time, rampMinutes, capPercent int) int {
	if rampMinutes <= 0 || capPercent <= 0 {
		return 0
	}

	elapsed := now.Sub(createdAt)
	if elapsed <= 0 {
		return 0
	}

	ramp := time.Duration(rampMinutes) * time.Minute
	progress := int(float64(capPercent) * (elapsed.Seconds() / ramp.Seconds()))

	if progress > capPercent {
		return capPercent
	}
	return progress
}
