package domain

import "time"

// DateLayout is the wire and storage format of a goal date.
const DateLayout = "2006-01-02"

type DailyGoal struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	ProjectID int64     `json:"project_id"`
	GoalText  string    `json:"goal_text"`
	GoalDate  string    `json:"goal_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Today returns the calendar day of now in UTC, formatted with DateLayout.
func Today(now time.Time) string {
	return now.UTC().Format(DateLayout)
}

type Dashboard struct {
	Today          string       `json:"today"`
	ActiveProjects []*Project   `json:"active_projects"`
	TodaysGoals    []*DailyGoal `json:"todays_goals"`
}
