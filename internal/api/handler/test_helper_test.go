package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/martijn/jobboard/internal/api/dto"
	"github.com/martijn/jobboard/internal/api/middleware"
	"github.com/martijn/jobboard/internal/core/domain"
	"github.com/martijn/jobboard/internal/core/service"
	"github.com/martijn/jobboard/internal/infrastructure/sqlstore"
	"golang.org/x/crypto/bcrypt"
)

// testEnv holds all test dependencies
type testEnv struct {
	db          *sqlstore.DB
	router      *gin.Engine
	authService *service.AuthService
	userService *service.UserService
	jobService  *service.JobService

	// ids of the seeded jobs, in seed order
	jobIDs []int64
}

// setupTestEnv creates a test environment with in-memory SQLite database
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlstore.NewMemory()
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	userRepo := sqlstore.NewUserRepository(db)
	jobRepo := sqlstore.NewJobRepository(db)

	authService := service.NewAuthService(userRepo, service.AuthOptions{
		JWTSecret:  "test-secret",
		BcryptCost: bcrypt.MinCost,
	})
	userService := service.NewUserService(userRepo, jobRepo, authService, logger)
	jobService := service.NewJobService(jobRepo, logger)

	authHandler := NewAuthHandler(authService, userService)
	userHandler := NewUserHandler(userService, authService)
	jobHandler := NewJobHandler(jobService)

	gin.SetMode(gin.TestMode)
	binding.EnableDecoderDisallowUnknownFields = true

	router := gin.New()
	router.Use(middleware.ErrorHandlerMiddleware(logger))
	router.Use(middleware.Authenticate(authService))

	adminOnly := middleware.EnsureAdmin()
	adminOrSelf := middleware.EnsureAdminOrSelf("username")

	router.POST("/auth/token", authHandler.Token)
	router.POST("/auth/register", authHandler.Register)

	router.POST("/users", adminOnly, userHandler.CreateUser)
	router.GET("/users", adminOnly, userHandler.ListUsers)
	router.GET("/users/:username", adminOrSelf, userHandler.GetUser)
	router.PATCH("/users/:username", adminOrSelf, userHandler.UpdateUser)
	router.DELETE("/users/:username", adminOrSelf, userHandler.DeleteUser)
	router.POST("/users/:username/jobs/:id", adminOrSelf, userHandler.ApplyForJob)

	router.POST("/jobs", adminOnly, jobHandler.CreateJob)
	router.GET("/jobs", jobHandler.ListJobs)
	router.GET("/jobs/:id", jobHandler.GetJob)
	router.PATCH("/jobs/:id", adminOnly, jobHandler.UpdateJob)
	router.DELETE("/jobs/:id", adminOnly, jobHandler.DeleteJob)

	return &testEnv{
		db:          db,
		router:      router,
		authService: authService,
		userService: userService,
		jobService:  jobService,
	}
}

// cleanup closes the test database
func (env *testEnv) cleanup() {
	if env.db != nil {
		env.db.Close()
	}
}

// seedTestData creates u1, u2 and admin (passwords "password1",
// "password2", "adminpass") and three jobs.
func (env *testEnv) seedTestData(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	users := []service.RegisterInput{
		{Username: "u1", Password: "password1", FirstName: "U1F", LastName: "U1L", Email: "user1@user.com"},
		{Username: "u2", Password: "password2", FirstName: "U2F", LastName: "U2L", Email: "user2@user.com"},
		{Username: "admin", Password: "adminpass", FirstName: "Ad", LastName: "Min", Email: "admin@user.com", IsAdmin: true},
	}
	for _, u := range users {
		if _, err := env.userService.Register(ctx, u); err != nil {
			t.Fatalf("failed to seed user %s: %v", u.Username, err)
		}
	}

	jobs := []*domain.NewJob{
		{Title: "Network Engineer", Salary: ptr(int64(100000)), Equity: ptr(0.1), CompanyHandle: "c1", Technologies: []string{"go"}},
		{Title: "Accountant", Salary: ptr(int64(50000)), Equity: ptr(0.0), CompanyHandle: "c2"},
		{Title: "Dotnet Developer", CompanyHandle: "c3"},
	}
	for _, j := range jobs {
		job, err := env.jobService.CreateJob(ctx, j)
		if err != nil {
			t.Fatalf("failed to seed job %s: %v", j.Title, err)
		}
		env.jobIDs = append(env.jobIDs, job.ID)
	}
}

// tokenFor issues a token for a seeded user
func (env *testEnv) tokenFor(t *testing.T, username string, isAdmin bool) string {
	t.Helper()

	token, err := env.authService.IssueToken(&domain.User{Username: username, IsAdmin: isAdmin})
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return token
}

// makeRequest performs a request with an optional JSON body and bearer token
func (env *testEnv) makeRequest(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, path, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// parseJSON parses the response body into out
func parseJSON(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()

	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to parse response: %v\nBody: %s", err, w.Body.String())
	}
}

// parseErrorResponse parses the response body into ErrorResponse
func parseErrorResponse(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()

	var resp dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, w.Body.String())
	}
	return resp
}

// ptr is a helper to create a pointer to a value
func ptr[T any](v T) *T {
	return &v
}
