package services

import (
	"context"
	"strings"
	"time"

	"github.com/vncsmyrnk/dailygoals/internal/core/domain"
	"github.com/vncsmyrnk/dailygoals/internal/core/ports"
)

type projectService struct {
	repo ports.ProjectRepository
	now  func() time.Time
}

func NewProjectService(repo ports.ProjectRepository) ports.ProjectService {
	return &projectService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *projectService) Create(ctx context.Context, userID int64, input ports.CreateProjectInput) (*domain.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrProjectNameRequired
	}

	project := &domain.Project{
		UserID:      userID,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
	}
	if err := s.repo.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) Get(ctx context.Context, userID, id int64) (*domain.Project, error) {
	project, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.ErrProjectNotFound
	}
	return project, nil
}

func (s *projectService) ListActive(ctx context.Context, userID int64) ([]*domain.Project, error) {
	return s.repo.List(ctx, userID, false)
}

func (s *projectService) ListArchived(ctx context.Context, userID int64) ([]*domain.Project, error) {
	return s.repo.List(ctx, userID, true)
}

// Update renames or redescribes a project. Archived projects can be edited.
func (s *projectService) Update(ctx context.Context, userID, id int64, input ports.UpdateProjectInput) (*domain.Project, error) {
	var name, description *string
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed == "" {
			return nil, domain.ErrProjectNameRequired
		}
		name = &trimmed
	}
	if input.Description != nil {
		trimmed := strings.TrimSpace(*input.Description)
		description = &trimmed
	}

	project, err := s.repo.Update(ctx, userID, id, name, description)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.ErrProjectNotFound
	}
	return project, nil
}

func (s *projectService) Archive(ctx context.Context, userID, id int64) error {
	changed, err := s.repo.Archive(ctx, userID, id, s.now().UTC())
	if err != nil {
		return err
	}
	if changed {
		return nil
	}
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return domain.ErrProjectAlreadyArchived
}

func (s *projectService) Restore(ctx context.Context, userID, id int64) error {
	changed, err := s.repo.Restore(ctx, userID, id)
	if err != nil {
		return err
	}
	if changed {
		return nil
	}
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return domain.ErrProjectNotArchived
}
