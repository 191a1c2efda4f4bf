package services

import "github.com/yoockh/recruitdesk/internal/models"

// ProgressFormula derives a project's completion percent from its profile count.
type ProgressFormula struct {
	PerProfile int
	Cap        int
}

var DefaultProgress = ProgressFormula{PerProfile: 20, Cap: 100}

// Percent is min(count*PerProfile, Cap), never negative.
func (f ProgressFormula) Percent(count int) int {
	if count <= 0 || f.PerProfile <= 0 {
		return 0
	}
	return max(0, min(count*f.PerProfile, f.Cap))
}

// GroupProfilesByProject keeps the profiles of projectID in insertion order.
func GroupProfilesByProject(profiles []models.Profile, projectID int64) []models.Profile {
	out := make([]models.Profile, 0)
	for _, p := range profiles {
		if p.ProjectID == projectID {
			out = append(out, p)
		}
	}
	return out
}

// CountProfilesByProject indexes profile counts by project id in one pass.
func CountProfilesByProject(profiles []models.Profile) map[int64]int {
	out := make(map[int64]int)
	for _, p := range profiles {
		out[p.ProjectID]++
	}
	return out
}
