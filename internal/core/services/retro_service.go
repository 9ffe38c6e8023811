package services

import (
	"context"
	"strings"
	"time"

	"github.com/vncsmyrnk/dailygoals/internal/core/domain"
	"github.com/vncsmyrnk/dailygoals/internal/core/ports"
)

type retroService struct {
	retros   ports.RetroRepository
	projects ports.ProjectRepository
	now      func() time.Time
}

func NewRetroService(retros ports.RetroRepository, projects ports.ProjectRepository) ports.RetroService {
	return &retroService{
		retros:   retros,
		projects: projects,
		now:      time.Now,
	}
}

// Create records a retrospective dated input.RetroDate, or today in UTC when
// the date is omitted. At least one of the text fields must be non-blank.
func (s *retroService) Create(ctx context.Context, userID, projectID int64, input ports.CreateRetroInput) (*domain.Retrospective, error) {
	date := strings.TrimSpace(input.RetroDate)
	if date == "" {
		date = domain.Today(s.now())
	} else if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return nil, domain.ErrInvalidRetroDate
	}

	retro := &domain.Retrospective{
		UserID:     userID,
		ProjectID:  projectID,
		RetroDate:  date,
		WentWell:   strings.TrimSpace(input.WentWell),
		Challenges: strings.TrimSpace(input.Challenges),
		NextSteps:  strings.TrimSpace(input.NextSteps),
	}
	if retro.WentWell == "" && retro.Challenges == "" && retro.NextSteps == "" {
		return nil, domain.ErrRetroContentRequired
	}

	if err := s.retros.Create(ctx, retro); err != nil {
		return nil, err
	}
	return retro, nil
}

func (s *retroService) List(ctx context.Context, userID, projectID int64) ([]*domain.Retrospective, error) {
	project, err := s.projects.GetByID(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.ErrProjectNotFound
	}
	return s.retros.ListByProject(ctx, userID, projectID)
}
