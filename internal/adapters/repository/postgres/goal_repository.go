package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vncsmyrnk/dailygoals/internal/core/domain"
	"github.com/vncsmyrnk/dailygoals/internal/core/ports"
	"github.com/vncsmyrnk/dailygoals/internal/dbx"
)

type goalRepository struct {
	db dbx.DBTX
}

func NewGoalRepository(db dbx.DBTX) ports.GoalRepository {
	return &goalRepository{
		db: db,
	}
}

const goalColumns = `id, user_id, project_id, goal_text, goal_date, created_at, updated_at`

func scanGoal(row rowScanner, extra ...any) (*domain.DailyGoal, error) {
	g := &domain.DailyGoal{}
	var goalDate time.Time
	dest := append([]any{&g.ID, &g.UserID, &g.ProjectID, &g.GoalText, &goalDate, &g.CreatedAt, &g.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	g.GoalDate = goalDate.Format(domain.DateLayout)
	g.CreatedAt = g.CreatedAt.UTC()
	g.UpdatedAt = g.UpdatedAt.UTC()
	return g, nil
}

// Create is the plain insert path. Selecting from projects keeps the write
// scoped to a project the user owns.
func (r *goalRepository) Create(ctx context.Context, goal *domain.DailyGoal) error {
	query := `
		INSERT INTO daily_goals (user_id, project_id, goal_text, goal_date)
		SELECT p.user_id, p.id, $3::text, $4::date
		FROM projects p
		WHERE p.id = $2 AND p.user_id = $1
		RETURNING ` + goalColumns

	created, err := scanGoal(dbx.Conn(ctx, r.db).QueryRowContext(ctx, query, goal.UserID, goal.ProjectID, goal.GoalText, goal.GoalDate))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows), isForeignKeyViolation(err):
			return domain.ErrProjectNotFound
		case isUniqueViolation(err):
			return domain.ErrDailyGoalExists
		}
		return fmt.Errorf("failed to create daily goal: %w", err)
	}
	*goal = *created
	return nil
}

func (r *goalRepository) Upsert(ctx context.Context, goal *domain.DailyGoal) (bool, error) {
	query := `
		INSERT INTO daily_goals (user_id, project_id, goal_text, goal_date)
		SELECT p.user_id, p.id, $3::text, $4::date
		FROM projects p
		WHERE p.id = $2 AND p.user_id = $1
		ON CONFLICT (user_id, project_id, goal_date)
		DO UPDATE SET goal_text = EXCLUDED.goal_text, updated_at = now()
		RETURNING ` + goalColumns + `, (xmax = 0) AS inserted`

	var inserted bool
	saved, err := scanGoal(dbx.Conn(ctx, r.db).QueryRowContext(ctx, query, goal.UserID, goal.ProjectID, goal.GoalText, goal.GoalDate), &inserted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isForeignKeyViolation(err) {
			return false, domain.ErrProjectNotFound
		}
		return false, fmt.Errorf("failed to upsert daily goal: %w", err)
	}
	*goal = *saved
	return inserted, nil
}

func (r *goalRepository) GetForDate(ctx context.Context, userID, projectID int64, date string) (*domain.DailyGoal, error) {
	query := `SELECT ` + goalColumns + `
		FROM daily_goals
		WHERE user_id = $1 AND project_id = $2 AND goal_date = $3::date`

	g, err := scanGoal(dbx.Conn(ctx, r.db).QueryRowContext(ctx, query, userID, projectID, date))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get daily goal: %w", err)
	}
	return g, nil
}

func (r *goalRepository) ListByProject(ctx context.Context, userID, projectID int64) ([]*domain.DailyGoal, error) {
	query := `SELECT ` + goalColumns + `
		FROM daily_goals
		WHERE user_id = $1 AND project_id = $2
		ORDER BY goal_date DESC, created_at DESC, id DESC`
	return r.list(ctx, query, userID, projectID)
}

func (r *goalRepository) ListForDate(ctx context.Context, userID int64, date string) ([]*domain.DailyGoal, error) {
	query := `SELECT ` + goalColumns + `
		FROM daily_goals
		WHERE user_id = $1 AND goal_date = $2::date
		ORDER BY created_at DESC, id DESC`
	return r.list(ctx, query, userID, date)
}

func (r *goalRepository) list(ctx context.Context, query string, args ...any) ([]*domain.DailyGoal, error) {
	rows, err := dbx.Conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily goals: %w", err)
	}
	defer rows.Close()

	goals := []*domain.DailyGoal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily goal: %w", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily goals: %w", err)
	}
	return goals, nil
}
