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

type retroRepository struct {
	db dbx.DBTX
}

func NewRetroRepository(db dbx.DBTX) ports.RetroRepository {
	return &retroRepository{
		db: db,
	}
}

const retroColumns = `id, user_id, project_id, retro_date, went_well, challenges, next_steps, created_at`

func scanRetro(row rowScanner) (*domain.Retrospective, error) {
	rt := &domain.Retrospective{}
	var retroDate time.Time
	if err := row.Scan(&rt.ID, &rt.UserID, &rt.ProjectID, &retroDate, &rt.WentWell, &rt.Challenges, &rt.NextSteps, &rt.CreatedAt); err != nil {
		return nil, err
	}
	rt.RetroDate = retroDate.Format(domain.DateLayout)
	rt.CreatedAt = rt.CreatedAt.UTC()
	return rt, nil
}

func (r *retroRepository) Create(ctx context.Context, retro *domain.Retrospective) error {
	query := `
		INSERT INTO retrospectives (user_id, project_id, retro_date, went_well, challenges, next_steps)
		SELECT p.user_id, p.id, $3::date, $4::text, $5::text, $6::text
		FROM projects p
		WHERE p.id = $2 AND p.user_id = $1
		RETURNING ` + retroColumns

	created, err := scanRetro(dbx.Conn(ctx, r.db).QueryRowContext(ctx, query,
		retro.UserID, retro.ProjectID, retro.RetroDate, retro.WentWell, retro.Challenges, retro.NextSteps))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isForeignKeyViolation(err) {
			return domain.ErrProjectNotFound
		}
		return fmt.Errorf("failed to create retrospective: %w", err)
	}
	*retro = *created
	return nil
}

func (r *retroRepository) ListByProject(ctx context.Context, userID, projectID int64) ([]*domain.Retrospective, error) {
	query := `SELECT ` + retroColumns + `
		FROM retrospectives
		WHERE user_id = $1 AND project_id = $2
		ORDER BY retro_date DESC, created_at DESC, id DESC`

	rows, err := dbx.Conn(ctx, r.db).QueryContext(ctx, query, userID, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list retrospectives: %w", err)
	}
	defer rows.Close()

	retros := []*domain.Retrospective{}
	for rows.Next() {
		rt, err := scanRetro(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan retrospective: %w", err)
		}
		retros = append(retros, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating retrospectives: %w", err)
	}
	return retros, nil
}
