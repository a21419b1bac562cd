package repository

import (
	"github.com/quicklist/quicklist/internal/model"
)

// Stats is the aggregate read-model achievements are derived from.
type Stats struct {
	Lists          int
	Items          int
	CompletedItems int
	Notes          int
}

// ComputeStats derives aggregate statistics from the stored data.
func (r *Repository) ComputeStats() Stats {
	var s Stats
	for _, l := range r.LoadLists() {
		s.Lists++
		for _, it := range l.Items {
			s.Items++
			if it.Completed {
				s.CompletedItems++
			}
		}
	}
	s.Notes = len(r.LoadNotes())
	return s
}

// RecomputeAchievements re-derives achievement progress from current
// statistics and persists the result. Progress and unlock state are
// monotonic: a recompute can only move them forward.
func (r *Repository) RecomputeAchievements() []model.Achievement {
	stats := r.ComputeStats()
	achievements := r.LoadAchievements()

	for i := range achievements {
		a := &achievements[i]
		switch a.Type {
		case model.AchievementFirstItem, model.AchievementItemsCompleted:
			a.Merge(stats.CompletedItems)
		case model.AchievementListsCreated:
			a.Merge(stats.Lists)
		case model.AchievementNotesCreated:
			a.Merge(stats.Notes)
		}
	}

	r.SaveAchievements(achievements)
	return achievements
}
