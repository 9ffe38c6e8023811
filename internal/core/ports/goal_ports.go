package ports

import (
	"context"

	"github.com/vncsmyrnk/dailygoals/internal/core/domain"
)

type GoalRepository interface {
	// Create inserts the goal for an owned project. It fails with
	// domain.ErrProjectNotFound or domain.ErrDailyGoalExists.
	Create(ctx context.Context, goal *domain.DailyGoal) error
	// Upsert inserts the goal or replaces the text of the existing goal for
	// the same (user, project, date) in one statement.
	Upsert(ctx context.Context, goal *domain.DailyGoal) (inserted bool, err error)
	// GetForDate returns (nil, nil) when there is no goal for that day.
	GetForDate(ctx context.Context, userID, projectID int64, date string) (*domain.DailyGoal, error)
	ListByProject(ctx context.Context, userID, projectID int64) ([]*domain.DailyGoal, error)
	ListForDate(ctx context.Context, userID int64, date string) ([]*domain.DailyGoal, error)
}

type GoalService interface {
	Create(ctx context.Context, userID, projectID int64, goalText string) (*domain.DailyGoal, error)
	UpsertToday(ctx context.Context, userID, projectID int64, goalText string) (*domain.DailyGoal, bool, error)
	GetToday(ctx context.Context, userID, projectID int64) (*domain.DailyGoal, error)
	List(ctx context.Context, userID, projectID int64) ([]*domain.DailyGoal, error)
	Dashboard(ctx context.Context, userID int64) (*domain.Dashboard, error)
}
