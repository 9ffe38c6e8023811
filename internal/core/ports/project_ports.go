package ports

import (
	"context"
	"time"

	"github.com/vncsmyrnk/dailygoals/internal/core/domain"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	// GetByID returns (nil, nil) when the project does not exist or belongs to another user.
	GetByID(ctx context.Context, userID, id int64) (*domain.Project, error)
	List(ctx context.Context, userID int64, archived bool) ([]*domain.Project, error)
	// Update overwrites the non-nil fields and returns the updated project, or
	// (nil, nil) when the user owns no such project.
	Update(ctx context.Context, userID, id int64, name, description *string) (*domain.Project, error)
	Archive(ctx context.Context, userID, id int64, at time.Time) (bool, error)
	Restore(ctx context.Context, userID, id int64) (bool, error)
}

type CreateProjectInput struct {
	Name        string
	Description string
}

// UpdateProjectInput carries a partial update; nil fields are left as they are.
type UpdateProjectInput struct {
	Name        *string
	Description *string
}

type ProjectService interface {
	Create(ctx context.Context, userID int64, input CreateProjectInput) (*domain.Project, error)
	Get(ctx context.Context, userID, id int64) (*domain.Project, error)
	ListActive(ctx context.Context, userID int64) ([]*domain.Project, error)
	ListArchived(ctx context.Context, userID int64) ([]*domain.Project, error)
	Update(ctx context.Context, userID, id int64, input UpdateProjectInput) (*domain.Project, error)
	Archive(ctx context.Context, userID, id int64) error
	Restore(ctx context.Context, userID, id int64) error
}
