package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vncsmyrnk/dailygoals/internal/core/domain"
)

type tokenKey struct {
	kind domain.TokenKind
	hash string
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	nextID int64
	tokens map[tokenKey]*domain.Token
	err    error
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[tokenKey]*domain.Token{}}
}

func (r *fakeTokenRepo) Store(ctx context.Context, token *domain.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.nextID++
	token.ID = r.nextID
	cp := *token
	r.tokens[tokenKey{token.Kind, token.TokenHash}] = &cp
	return nil
}

func (r *fakeTokenRepo) GetByHash(ctx context.Context, kind domain.TokenKind, hash string) (*domain.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	t, ok := r.tokens[tokenKey{kind, hash}]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTokenRepo) Consume(ctx context.Context, kind domain.TokenKind, hash string, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[tokenKey{kind, hash}]
	if !ok || t.Status(now) != nil {
		return 0, domain.ErrTokenNotFound
	}
	at := now
	t.RevokedAt = &at
	return t.UserID, nil
}

func (r *fakeTokenRepo) Revoke(ctx context.Context, kind domain.TokenKind, hash string, userID int64, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[tokenKey{kind, hash}]
	if !ok || t.UserID != userID || t.RevokedAt != nil {
		return false, nil
	}
	at := now
	t.RevokedAt = &at
	return true, nil
}

func (r *fakeTokenRepo) PurgeDead(ctx context.Context, kind domain.TokenKind, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	var n int64
	for k, t := range r.tokens {
		if k.kind != kind {
			continue
		}
		if t.ExpiresAt.Before(cutoff) || (t.RevokedAt != nil && t.RevokedAt.Before(cutoff)) {
			delete(r.tokens, k)
			n++
		}
	}
	return n, nil
}

func (r *fakeTokenRepo) count(kind domain.TokenKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for k := range r.tokens {
		if k.kind == kind {
			n++
		}
	}
	return n
}

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	nextID int64
	// raceOnCreate simulates another request winning the email between the
	// pre-check and the insert.
	raceOnCreate bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Email]; ok || r.raceOnCreate {
		return domain.ErrEmailAlreadyRegistered
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now().UTC()
	cp := *user
	r.users[user.Email] = &cp
	return nil
}

type fakeProjectRepo struct {
	mu       sync.Mutex
	nextID   int64
	projects map[int64]*domain.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: map[int64]*domain.Project{}}
}

func (r *fakeProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = r.nextID
	p.CreatedAt = time.Now().UTC()
	cp := *p
	r.projects[p.ID] = &cp
	return nil
}

func (r *fakeProjectRepo) GetByID(ctx context.Context, userID, id int64) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok || p.UserID != userID {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProjectRepo) List(ctx context.Context, userID int64, archived bool) ([]*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Project{}
	for _, p := range r.projects {
		if p.UserID == userID && p.Archived() == archived {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeProjectRepo) Update(ctx context.Context, userID, id int64, name, description *string) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok || p.UserID != userID {
		return nil, nil
	}
	if name != nil {
		p.Name = *name
	}
	if description != nil {
		p.Description = *description
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProjectRepo) Archive(ctx context.Context, userID, id int64, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok || p.UserID != userID || p.Archived() {
		return false, nil
	}
	p.ArchivedAt = &at
	return true, nil
}

func (r *fakeProjectRepo) Restore(ctx context.Context, userID, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok || p.UserID != userID || !p.Archived() {
		return false, nil
	}
	p.ArchivedAt = nil
	return true, nil
}

type goalKey struct {
	userID, projectID int64
	date              string
}

type fakeGoalRepo struct {
	mu       sync.Mutex
	nextID   int64
	goals    map[goalKey]*domain.DailyGoal
	projects *fakeProjectRepo
}

func newFakeGoalRepo(projects *fakeProjectRepo) *fakeGoalRepo {
	return &fakeGoalRepo{goals: map[goalKey]*domain.DailyGoal{}, projects: projects}
}

func (r *fakeGoalRepo) owned(g *domain.DailyGoal) bool {
	p, _ := r.projects.GetByID(context.Background(), g.UserID, g.ProjectID)
	return p != nil
}

func (r *fakeGoalRepo) Create(ctx context.Context, g *domain.DailyGoal) error {
	if !r.owned(g) {
		return domain.ErrProjectNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	k := goalKey{g.UserID, g.ProjectID, g.GoalDate}
	if _, ok := r.goals[k]; ok {
		return domain.ErrDailyGoalExists
	}
	r.nextID++
	g.ID = r.nextID
	g.CreatedAt = time.Now().UTC()
	g.UpdatedAt = g.CreatedAt
	cp := *g
	r.goals[k] = &cp
	return nil
}

func (r *fakeGoalRepo) Upsert(ctx context.Context, g *domain.DailyGoal) (bool, error) {
	if !r.owned(g) {
		return false, domain.ErrProjectNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	k := goalKey{g.UserID, g.ProjectID, g.GoalDate}
	if existing, ok := r.goals[k]; ok {
		existing.GoalText = g.GoalText
		existing.UpdatedAt = time.Now().UTC()
		*g = *existing
		return false, nil
	}
	r.nextID++
	g.ID = r.nextID
	g.CreatedAt = time.Now().UTC()
	g.UpdatedAt = g.CreatedAt
	cp := *g
	r.goals[k] = &cp
	return true, nil
}

func (r *fakeGoalRepo) GetForDate(ctx context.Context, userID, projectID int64, date string) (*domain.DailyGoal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.goals[goalKey{userID, projectID, date}]
	if !ok {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

func (r *fakeGoalRepo) ListByProject(ctx context.Context, userID, projectID int64) ([]*domain.DailyGoal, error) {
	return r.filter(func(g *domain.DailyGoal) bool { return g.UserID == userID && g.ProjectID == projectID }), nil
}

func (r *fakeGoalRepo) ListForDate(ctx context.Context, userID int64, date string) ([]*domain.DailyGoal, error) {
	return r.filter(func(g *domain.DailyGoal) bool { return g.UserID == userID && g.GoalDate == date }), nil
}

func (r *fakeGoalRepo) filter(keep func(*domain.DailyGoal) bool) []*domain.DailyGoal {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.DailyGoal{}
	for _, g := range r.goals {
		if keep(g) {
			cp := *g
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].GoalDate != out[j].GoalDate {
			return out[i].GoalDate > out[j].GoalDate
		}
		return out[i].ID > out[j].ID
	})
	return out
}

type fakeRetroRepo struct {
	mu       sync.Mutex
	nextID   int64
	retros   []*domain.Retrospective
	projects *fakeProjectRepo
}

func newFakeRetroRepo(projects *fakeProjectRepo) *fakeRetroRepo {
	return &fakeRetroRepo{projects: projects}
}

func (r *fakeRetroRepo) Create(ctx context.Context, rt *domain.Retrospective) error {
	if p, _ := r.projects.GetByID(ctx, rt.UserID, rt.ProjectID); p == nil {
		return domain.ErrProjectNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	rt.ID = r.nextID
	rt.CreatedAt = time.Now().UTC()
	cp := *rt
	r.retros = append(r.retros, &cp)
	return nil
}

func (r *fakeRetroRepo) ListByProject(ctx context.Context, userID, projectID int64) ([]*domain.Retrospective, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Retrospective{}
	for _, rt := range r.retros {
		if rt.UserID == userID && rt.ProjectID == projectID {
			cp := *rt
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RetroDate != out[j].RetroDate {
			return out[i].RetroDate > out[j].RetroDate
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock(t time.Time) *clock { return &clock{t: t} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}
