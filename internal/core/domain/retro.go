package domain

import "time"

// Retrospective is a dated look back on a project.
type Retrospective struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"-"`
	ProjectID  int64     `json:"project_id"`
	RetroDate  string    `json:"retro_date"`
	WentWell   string    `json:"went_well"`
	Challenges string    `json:"challenges"`
	NextSteps  string    `json:"next_steps"`
	CreatedAt  time.Time `json:"created_at"`
}
