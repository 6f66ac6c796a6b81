package service

import "math"

// ProgressPercent derives a completion percentage from session counts. A zero
// or unset target reports 0 rather than dividing by zero.
func ProgressPercent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// SkillProgress is the derived per-skill completion state returned by the
// stats endpoint. It is never stored.
type SkillProgress struct {
	SkillName         string `json:"skillName"`
	CompletedSessions int    `json:"completedSessions"`
	TotalSessions     int    `json:"totalSessions"`
	Percent           int    `json:"percent"`
}

// mergeProgress sums entries sharing a skill name and recomputes percentages,
// preserving first-seen order.
func mergeProgress(entries []SkillProgress) []SkillProgress {
	index := make(map[string]int)
	merged := make([]SkillProgress, 0, len(entries))

	for _, e := range entries {
		if i, ok := index[e.SkillName]; ok {
			merged[i].CompletedSessions += e.CompletedSessions
			merged[i].TotalSessions += e.TotalSessions
			continue
		}
		index[e.SkillName] = len(merged)
		merged = append(merged, e)
	}

	for i := range merged {
		merged[i].Percent = ProgressPercent(merged[i].CompletedSessions, merged[i].TotalSessions)
	}
	return merged
}
