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

type projectRepository struct {
	db dbx.DBTX
}

func NewProjectRepository(db dbx.DBTX) ports.ProjectRepository {
	return &projectRepository{
		db: db,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	p := &domain.Project{}
	var archivedAt sql.NullTime
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.CreatedAt, &archivedAt); err != nil {
		return nil, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	if archivedAt.Valid {
		t := archivedAt.Time.UTC()
		p.ArchivedAt = &t
	}
	return p, nil
}

func (r *projectRepository) Create(ctx context.Context, project *domain.Project) error {
	query := `
		INSERT INTO projects (user_id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := dbx.Conn(ctx, r.db).QueryRowContext(ctx, query, project.UserID, project.Name, project.Description).
		Scan(&project.ID, &project.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	project.CreatedAt = project.CreatedAt.UTC()
	return nil
}

func (r *projectRepository) GetByID(ctx context.Context, userID, id int64) (*domain.Project, error) {
	query := `
		SELECT id, user_id, name, description, created_at, archived_at
		FROM projects
		WHERE id = $1 AND user_id = $2
	`
	p, err := scanProject(dbx.Conn(ctx, r.db).QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

func (r *projectRepository) List(ctx context.Context, userID int64, archived bool) ([]*domain.Project, error) {
	query := `
		SELECT id, user_id, name, description, created_at, archived_at
		FROM projects
		WHERE user_id = $1 AND archived_at IS NULL
		ORDER BY created_at DESC, id DESC
	`
	if archived {
		query = `
			SELECT id, user_id, name, description, created_at, archived_at
			FROM projects
			WHERE user_id = $1 AND archived_at IS NOT NULL
			ORDER BY archived_at DESC, id DESC
		`
	}

	rows, err := dbx.Conn(ctx, r.db).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []*domain.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}
	return projects, nil
}

func (r *projectRepository) Update(ctx context.Context, userID, id int64, name, description *string) (*domain.Project, error) {
	query := `
		UPDATE projects
		SET name = COALESCE($3::text, name), description = COALESCE($4::text, description)
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, name, description, created_at, archived_at
	`
	p, err := scanProject(dbx.Conn(ctx, r.db).QueryRowContext(ctx, query, id, userID, name, description))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return p, nil
}

func (r *projectRepository) Archive(ctx context.Context, userID, id int64, at time.Time) (bool, error) {
	query := `
		UPDATE projects SET archived_at = $3
		WHERE id = $1 AND user_id = $2 AND archived_at IS NULL
	`
	return r.exec(ctx, "archive", query, id, userID, at)
}

func (r *projectRepository) Restore(ctx context.Context, userID, id int64) (bool, error) {
	query := `
		UPDATE projects SET archived_at = NULL
		WHERE id = $1 AND user_id = $2 AND archived_at IS NOT NULL
	`
	return r.exec(ctx, "restore", query, id, userID)
}

func (r *projectRepository) exec(ctx context.Context, op, query string, args ...any) (bool, error) {
	res, err := dbx.Conn(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to %s project: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to %s project: %w", op, err)
	}
	return n > 0, nil
}
