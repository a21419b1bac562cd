package model

import "time"

// Achievement tracks a productivity milestone. Progress never decreases
// and Unlocked never transitions back to false once true.
type Achievement struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlockedAt,omitempty"`
	Progress    int        `json:"progress"`
	MaxProgress int        `json:"maxProgress"`
	Type        string     `json:"type"`
}

// Achievement types, matched against aggregate statistics on recompute.
const (
	AchievementFirstItem      = "first_item"
	AchievementItemsCompleted = "items_completed"
	AchievementListsCreated   = "lists_created"
	AchievementNotesCreated   = "notes_created"
)

// DefaultAchievements returns the built-in achievement set with zero progress.
func DefaultAchievements() []Achievement {
	return []Achievement{
		{ID: "first-step", Title: "First Step", Description: "Complete your first item", Icon: "star", MaxProgress: 1, Type: AchievementFirstItem},
		{ID: "getting-things-done", Title: "Getting Things Done", Description: "Complete 10 items", Icon: "check", MaxProgress: 10, Type: AchievementItemsCompleted},
		{ID: "task-master", Title: "Task Master", Description: "Complete 100 items", Icon: "trophy", MaxProgress: 100, Type: AchievementItemsCompleted},
		{ID: "organizer", Title: "Organizer", Description: "Create 5 lists", Icon: "folder", MaxProgress: 5, Type: AchievementListsCreated},
		{ID: "wall-of-ideas", Title: "Wall of Ideas", Description: "Create 20 sticky notes", Icon: "note", MaxProgress: 20, Type: AchievementNotesCreated},
	}
}

// Merge applies new progress while holding the monotonic invariants:
// progress only moves forward and an unlocked achievement stays unlocked.
func (a *Achievement) Merge(progress int) {
	if progress > a.Progress {
		a.Progress = progress
	}
	if a.Progress > a.MaxProgress {
		a.Progress = a.MaxProgress
	}
	if !a.Unlocked && a.Progress >= a.MaxProgress {
		a.Unlocked = true
		now := time.Now()
		a.UnlockedAt = &now
	}
}
