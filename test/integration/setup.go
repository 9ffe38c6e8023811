package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	handler "github.com/vncsmyrnk/dailygoals/internal/adapters/handler/http"
	repo "github.com/vncsmyrnk/dailygoals/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/dailygoals/internal/core/ports"
	"github.com/vncsmyrnk/dailygoals/internal/core/services"
	"github.com/vncsmyrnk/dailygoals/internal/logging"
)

const (
	testSecret     = "test-secret"
	testAccessTTL  = 900 * time.Second
	testRefreshTTL = 30 * 24 * time.Hour
)

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	Client      *http.Client
	Tokens      ports.TokenRepository
	DBContainer testcontainers.Container
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	dbName := "testdb"
	user := "user"
	password := "password"

	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(user),
		postgres.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()

	ctx := context.Background()
	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)

	require.NoError(t, repo.Migrate(ctx, db))

	log := logging.Nop()

	userRepo := repo.NewUserRepository(db)
	tokenRepo := repo.NewTokenRepository(db)
	projectRepo := repo.NewProjectRepository(db)
	goalRepo := repo.NewGoalRepository(db)
	retroRepo := repo.NewRetroRepository(db)

	userSvc := services.NewUserService(userRepo, 4)
	issuer := services.NewTokenIssuer(tokenRepo, []byte(testSecret), testAccessTTL, testRefreshTTL)
	authSvc := services.NewAuthService(userSvc, issuer, log)
	projectSvc := services.NewProjectService(projectRepo)
	goalSvc := services.NewGoalService(goalRepo, projectRepo)
	retroSvc := services.NewRetroService(retroRepo, projectRepo)

	router := handler.NewHandler(handler.Handlers{
		Auth:    handler.NewAuthHandler(authSvc, log),
		User:    handler.NewUserHandler(userSvc, log),
		Project: handler.NewProjectHandler(projectSvc, log),
		Goal:    handler.NewGoalHandler(goalSvc, log),
		Retro:   handler.NewRetroHandler(retroSvc, log),
		Health:  handler.NewHealthHandler(db, log),
	}, handler.RouterDeps{DB: db, AuthService: authSvc, Log: log})

	server := httptest.NewServer(router)

	return &TestApp{
		DB:          db,
		Server:      server,
		Client:      server.Client(),
		Tokens:      tokenRepo,
		DBContainer: dbContainer,
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	app.Server.Close()
	app.DB.Close()
	if err := app.DBContainer.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}

// call sends a JSON request and decodes the JSON response into out when out is non-nil.
func (app *TestApp) call(t *testing.T, method, path, token string, body, out any) int {
	t.Helper()

	status, err := app.send(method, path, token, body, out)
	require.NoError(t, err)
	return status
}

// send is call without a *testing.T, for use off the test goroutine.
func (app *TestApp) send(method, path, token string, body, out any) (int, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return 0, err
		}
	}
	req, err := http.NewRequest(method, app.Server.URL+path, &buf)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}

type authBody struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (app *TestApp) register(t *testing.T) (authBody, string, string) {
	t.Helper()

	email := fmt.Sprintf("user-%s@example.com", uuid.New())
	password := "correct horse battery staple"

	var body authBody
	status := app.call(t, http.MethodPost, "/auth/register", "",
		map[string]string{"email": email, "password": password}, &body)
	require.Equal(t, http.StatusCreated, status)
	return body, email, password
}
