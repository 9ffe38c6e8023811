package http

import (
	"context"
	"time"

	"github.com/vncsmyrnk/dailygoals/internal/core/domain"
	"github.com/vncsmyrnk/dailygoals/internal/core/ports"
)

type fakeAuthService struct {
	tokens       map[string]int64
	revoked      map[string]bool
	registerErr  error
	lastLogout   []string
	logoutResult *ports.LogoutResult
}

func newFakeAuthService() *fakeAuthService {
	return &fakeAuthService{
		tokens:  map[string]int64{},
		revoked: map[string]bool{},
	}
}

func (f *fakeAuthService) result(email string) *ports.AuthResult {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &ports.AuthResult{
		User: &domain.User{ID: 7, Email: email},
		Tokens: &domain.TokenPair{
			UserID:  7,
			Access:  domain.IssuedToken{Value: "access-1", ExpiresAt: now.Add(15 * time.Minute)},
			Refresh: domain.IssuedToken{Value: "refresh-1", ExpiresAt: now.Add(30 * 24 * time.Hour)},
		},
		ExpiresIn: 15 * time.Minute,
	}
}

func (f *fakeAuthService) Register(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	if email == "" || password == "" {
		return nil, domain.ErrCredentialsRequired
	}
	return f.result(email), nil
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	if password != "secret" {
		return nil, domain.ErrInvalidCredentials
	}
	return f.result(email), nil
}

func (f *fakeAuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if refreshToken == "" {
		return nil, domain.ErrRefreshTokenRequired
	}
	if refreshToken != "refresh-1" {
		return nil, domain.ErrInvalidRefreshToken
	}
	return f.result("a@b.c").Tokens, nil
}

func (f *fakeAuthService) Logout(ctx context.Context, userID int64, refreshToken, accessToken string) (*ports.LogoutResult, error) {
	if refreshToken == "" {
		return nil, domain.ErrRefreshTokenRequired
	}
	f.lastLogout = []string{refreshToken, accessToken}
	if f.logoutResult != nil {
		return f.logoutResult, nil
	}
	return &ports.LogoutResult{RefreshTokenRevoked: true, AccessTokenRevoked: true}, nil
}

func (f *fakeAuthService) Authenticate(ctx context.Context, accessToken string) (int64, error) {
	id, ok := f.tokens[accessToken]
	if !ok || f.revoked[accessToken] {
		return 0, domain.ErrInvalidAuthToken
	}
	return id, nil
}

func (f *fakeAuthService) AuthenticateForLogout(ctx context.Context, accessToken string) (int64, error) {
	id, ok := f.tokens[accessToken]
	if !ok {
		return 0, domain.ErrInvalidAuthToken
	}
	return id, nil
}

type fakeUserService struct {
	users map[int64]*domain.User
}

func (f *fakeUserService) CreateUser(ctx context.Context, email, password string) (*domain.User, error) {
	return nil, nil
}

func (f *fakeUserService) VerifyPassword(ctx context.Context, email, password string) (*domain.User, error) {
	return nil, nil
}

func (f *fakeUserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

type fakeProjectService struct {
	projects map[int64]*domain.Project
	nextID   int64
	err      error
}

func newFakeProjectService() *fakeProjectService {
	return &fakeProjectService{projects: map[int64]*domain.Project{}}
}

func (f *fakeProjectService) Create(ctx context.Context, userID int64, input ports.CreateProjectInput) (*domain.Project, error) {
	if f.err != nil {
		return nil, f.err
	}
	if input.Name == "" {
		return nil, domain.ErrProjectNameRequired
	}
	f.nextID++
	p := &domain.Project{ID: f.nextID, UserID: userID, Name: input.Name, Description: input.Description}
	f.projects[p.ID] = p
	return p, nil
}

func (f *fakeProjectService) Get(ctx context.Context, userID, id int64) (*domain.Project, error) {
	p, ok := f.projects[id]
	if !ok || p.UserID != userID {
		return nil, domain.ErrProjectNotFound
	}
	return p, nil
}

func (f *fakeProjectService) list(userID int64, archived bool) []*domain.Project {
	out := []*domain.Project{}
	for id := int64(1); id <= f.nextID; id++ {
		p, ok := f.projects[id]
		if ok && p.UserID == userID && p.Archived() == archived {
			out = append(out, p)
		}
	}
	return out
}

func (f *fakeProjectService) ListActive(ctx context.Context, userID int64) ([]*domain.Project, error) {
	return f.list(userID, false), nil
}

func (f *fakeProjectService) ListArchived(ctx context.Context, userID int64) ([]*domain.Project, error) {
	return f.list(userID, true), nil
}

func (f *fakeProjectService) Update(ctx context.Context, userID, id int64, input ports.UpdateProjectInput) (*domain.Project, error) {
	p, err := f.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		if *input.Name == "" {
			return nil, domain.ErrProjectNameRequired
		}
		p.Name = *input.Name
	}
	if input.Description != nil {
		p.Description = *input.Description
	}
	return p, nil
}

func (f *fakeProjectService) Archive(ctx context.Context, userID, id int64) error {
	p, err := f.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if p.Archived() {
		return domain.ErrProjectAlreadyArchived
	}
	now := time.Now()
	p.ArchivedAt = &now
	return nil
}

func (f *fakeProjectService) Restore(ctx context.Context, userID, id int64) error {
	p, err := f.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if !p.Archived() {
		return domain.ErrProjectNotArchived
	}
	p.ArchivedAt = nil
	return nil
}

type fakeGoalService struct {
	projects *fakeProjectService
	today    map[int64]*domain.DailyGoal
}

func newFakeGoalService(projects *fakeProjectService) *fakeGoalService {
	return &fakeGoalService{projects: projects, today: map[int64]*domain.DailyGoal{}}
}

func (f *fakeGoalService) Create(ctx context.Context, userID, projectID int64, goalText string) (*domain.DailyGoal, error) {
	if _, err := f.projects.Get(ctx, userID, projectID); err != nil {
		return nil, err
	}
	if goalText == "" {
		return nil, domain.ErrGoalTextRequired
	}
	if _, ok := f.today[projectID]; ok {
		return nil, domain.ErrDailyGoalExists
	}
	g := &domain.DailyGoal{ID: projectID, UserID: userID, ProjectID: projectID, GoalText: goalText, GoalDate: "2026-03-01"}
	f.today[projectID] = g
	return g, nil
}

func (f *fakeGoalService) UpsertToday(ctx context.Context, userID, projectID int64, goalText string) (*domain.DailyGoal, bool, error) {
	if _, err := f.projects.Get(ctx, userID, projectID); err != nil {
		return nil, false, err
	}
	if goalText == "" {
		return nil, false, domain.ErrGoalTextRequired
	}
	if g, ok := f.today[projectID]; ok {
		g.GoalText = goalText
		return g, false, nil
	}
	g, err := f.Create(ctx, userID, projectID, goalText)
	return g, err == nil, err
}

func (f *fakeGoalService) GetToday(ctx context.Context, userID, projectID int64) (*domain.DailyGoal, error) {
	if _, err := f.projects.Get(ctx, userID, projectID); err != nil {
		return nil, err
	}
	g, ok := f.today[projectID]
	if !ok {
		return nil, domain.ErrNoGoalToday
	}
	return g, nil
}

func (f *fakeGoalService) List(ctx context.Context, userID, projectID int64) ([]*domain.DailyGoal, error) {
	if _, err := f.projects.Get(ctx, userID, projectID); err != nil {
		return nil, err
	}
	out := []*domain.DailyGoal{}
	if g, ok := f.today[projectID]; ok {
		out = append(out, g)
	}
	return out, nil
}

func (f *fakeGoalService) Dashboard(ctx context.Context, userID int64) (*domain.Dashboard, error) {
	goals := []*domain.DailyGoal{}
	for _, g := range f.today {
		if g.UserID == userID {
			goals = append(goals, g)
		}
	}
	return &domain.Dashboard{
		Today:          "2026-03-01",
		ActiveProjects: f.projects.list(userID, false),
		TodaysGoals:    goals,
	}, nil
}

type fakeRetroService struct {
	projects *fakeProjectService
	retros   []*domain.Retrospective
}

func (f *fakeRetroService) Create(ctx context.Context, userID, projectID int64, input ports.CreateRetroInput) (*domain.Retrospective, error) {
	if _, err := f.projects.Get(ctx, userID, projectID); err != nil {
		return nil, err
	}
	if input.WentWell == "" && input.Challenges == "" && input.NextSteps == "" {
		return nil, domain.ErrRetroContentRequired
	}
	date := input.RetroDate
	if date == "" {
		date = "2026-03-01"
	}
	rt := &domain.Retrospective{
		ID:         int64(len(f.retros) + 1),
		UserID:     userID,
		ProjectID:  projectID,
		RetroDate:  date,
		WentWell:   input.WentWell,
		Challenges: input.Challenges,
		NextSteps:  input.NextSteps,
	}
	f.retros = append([]*domain.Retrospective{rt}, f.retros...)
	return rt, nil
}

func (f *fakeRetroService) List(ctx context.Context, userID, projectID int64) ([]*domain.Retrospective, error) {
	if _, err := f.projects.Get(ctx, userID, projectID); err != nil {
		return nil, err
	}
	out := []*domain.Retrospective{}
	for _, rt := range f.retros {
		if rt.ProjectID == projectID {
			out = append(out, rt)
		}
	}
	return out, nil
}

type fakePinger struct {
	err error
}

func (p fakePinger) PingContext(ctx context.Context) error {
	return p.err
}
