package ports

import (
	"context"

	"github.com/vncsmyrnk/dailygoals/internal/core/domain"
)

type RetroRepository interface {
	// Create inserts the retrospective for an owned project. It fails with
	// domain.ErrProjectNotFound otherwise.
	Create(ctx context.Context, retro *domain.Retrospective) error
	ListByProject(ctx context.Context, userID, projectID int64) ([]*domain.Retrospective, error)
}

type CreateRetroInput struct {
	// RetroDate defaults to today when empty.
	RetroDate  string
	WentWell   string
	Challenges string
	NextSteps  string
}

type RetroService interface {
	Create(ctx context.Context, userID, projectID int64, input CreateRetroInput) (*domain.Retrospective, error)
	List(ctx context.Context, userID, projectID int64) ([]*domain.Retrospective, error)
}
