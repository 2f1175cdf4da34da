package server

import (
	"math/rand"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/desk/internal/adapters/repository"
	"github.com/taskmaster/desk/internal/application/services"
	"github.com/taskmaster/desk/internal/domain/entities"
	"github.com/taskmaster/desk/internal/infrastructure/config"
	"github.com/taskmaster/desk/internal/infrastructure/logger"
)

func testConfig(authEnabled bool) *config.Config {
	return &config.Config{
		App:      config.AppConfig{Name: "desk", Version: "test"},
		Storage:  config.StorageConfig{Driver: "json"},
		Server:   config.ServerConfig{Host: "127.0.0.1", Port: 8080},
		Auth:     config.AuthConfig{Enabled: authEnabled},
		JWT:      config.JWTConfig{Secret: "s3cret", ExpiresIn: time.Hour, Issuer: "desk"},
		Security: config.SecurityConfig{RateLimitRequests: 1000, RateLimitWindow: time.Second},
		Metrics:  config.MetricsConfig{Enabled: true},
		Calc:     config.CalcConfig{DefaultRate: 18, HistoryLimit: 10},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) (*Server, *services.AuthService) {
	t.Helper()
	dir := t.TempDir()
	log := logger.NewNop()

	contactStore, err := repository.OpenFileStore[entities.Contact](filepath.Join(dir, "contacts.json"), repository.FileStoreOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = contactStore.Close() })
	taskStore, err := repository.OpenFileStore[entities.Task](filepath.Join(dir, "gui_todo_data.json"), repository.FileStoreOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = taskStore.Close() })

	contactRepo := repository.NewJSONContactRepository(contactStore)
	taskRepo := repository.NewJSONTaskRepository(taskStore)
	auth := services.NewAuthService(cfg.JWT, log)

	srv, err := New(cfg, Services{
		Contacts:    services.NewContactService(contactRepo, log),
		Tasks:       services.NewTaskService(taskRepo, log),
		Calc:        services.NewCalculatorService(cfg.Calc, log),
		Game:        services.NewGameService(rand.New(rand.NewSource(3)), log),
		Auth:        auth,
		ContactRepo: contactRepo,
		TaskRepo:    taskRepo,
	}, log)
	require.NoError(t, err)

	return srv, auth
}

func serve(srv *Server, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(false))

	rec := serve(srv, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestRoutesWithoutAuth(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(false))

	rec := serve(srv, http.MethodPost, "/api/v1/contacts", `{"name":"Ada"}`, "")
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = serve(srv, http.MethodGet, "/api/v1/contacts", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	srv, auth := newTestServer(t, testConfig(true))

	rec := serve(srv, http.MethodGet, "/api/v1/tasks", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(srv, http.MethodGet, "/api/v1/tasks", "", "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	tok, err := auth.IssueToken("tester")
	require.NoError(t, err)
	rec = serve(srv, http.MethodGet, "/api/v1/tasks", "", tok.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(srv, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(false))

	serve(srv, http.MethodPost, "/api/v1/tasks", `{"task":"write tests"}`, "")

	rec := serve(srv, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `desk_records{store="tasks"} 1`)
	assert.Contains(t, body, `desk_records{store="contacts"} 0`)
	assert.Contains(t, body, `http_requests_total{method="POST",path="/api/v1/tasks",status="201"} 1`)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig(false)
	cfg.Security = config.SecurityConfig{RateLimitRequests: 2, RateLimitWindow: time.Hour}
	srv, _ := newTestServer(t, cfg)

	for i := 0; i < 2; i++ {
		rec := serve(srv, http.MethodGet, "/health", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := serve(srv, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestBodyLimit(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(false))

	body := `{"expression":"` + strings.Repeat("1", 3<<20) + `"}`
	rec := serve(srv, http.MethodPost, "/api/v1/calc/eval", body, "")
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = serve(srv, http.MethodPost, "/api/v1/calc/eval", `{"expression":"1+1"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
