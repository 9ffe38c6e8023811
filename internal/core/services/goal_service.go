package services

import (
	"context"
	"strings"
	"time"

	"github.com/vncsmyrnk/dailygoals/internal/core/domain"
	"github.com/vncsmyrnk/dailygoals/internal/core/ports"
	"github.com/vncsmyrnk/dailygoals/internal/metrics"
)

type goalService struct {
	goals    ports.GoalRepository
	projects ports.ProjectRepository
	now      func() time.Time
}

func NewGoalService(goals ports.GoalRepository, projects ports.ProjectRepository) ports.GoalService {
	return &goalService{
		goals:    goals,
		projects: projects,
		now:      time.Now,
	}
}

// Create inserts today's goal and fails with domain.ErrDailyGoalExists when
// one is already set. UpsertToday is the race-free way to set it.
func (s *goalService) Create(ctx context.Context, userID, projectID int64, goalText string) (*domain.DailyGoal, error) {
	goal, err := s.newGoal(userID, projectID, goalText)
	if err != nil {
		return nil, err
	}
	if err := s.goals.Create(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *goalService) UpsertToday(ctx context.Context, userID, projectID int64, goalText string) (*domain.DailyGoal, bool, error) {
	goal, err := s.newGoal(userID, projectID, goalText)
	if err != nil {
		return nil, false, err
	}
	inserted, err := s.goals.Upsert(ctx, goal)
	if err != nil {
		return nil, false, err
	}
	metrics.RecordGoalUpsert(inserted)
	return goal, inserted, nil
}

func (s *goalService) GetToday(ctx context.Context, userID, projectID int64) (*domain.DailyGoal, error) {
	if err := s.ensureProject(ctx, userID, projectID); err != nil {
		return nil, err
	}
	goal, err := s.goals.GetForDate(ctx, userID, projectID, domain.Today(s.now()))
	if err != nil {
		return nil, err
	}
	if goal == nil {
		return nil, domain.ErrNoGoalToday
	}
	return goal, nil
}

func (s *goalService) List(ctx context.Context, userID, projectID int64) ([]*domain.DailyGoal, error) {
	if err := s.ensureProject(ctx, userID, projectID); err != nil {
		return nil, err
	}
	return s.goals.ListByProject(ctx, userID, projectID)
}

func (s *goalService) Dashboard(ctx context.Context, userID int64) (*domain.Dashboard, error) {
	today := domain.Today(s.now())

	projects, err := s.projects.List(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	goals, err := s.goals.ListForDate(ctx, userID, today)
	if err != nil {
		return nil, err
	}

	return &domain.Dashboard{
		Today:          today,
		ActiveProjects: projects,
		TodaysGoals:    goals,
	}, nil
}

func (s *goalService) newGoal(userID, projectID int64, goalText string) (*domain.DailyGoal, error) {
	text := strings.TrimSpace(goalText)
	if text == "" {
		return nil, domain.ErrGoalTextRequired
	}
	return &domain.DailyGoal{
		UserID:    userID,
		ProjectID: projectID,
		GoalText:  text,
		GoalDate:  domain.Today(s.now()),
	}, nil
}

func (s *goalService) ensureProject(ctx context.Context, userID, projectID int64) error {
	project, err := s.projects.GetByID(ctx, userID, projectID)
	if err != nil {
		return err
	}
	if project == nil {
		return domain.ErrProjectNotFound
	}
	return nil
}
