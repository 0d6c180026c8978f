package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/martijn/jobboard/internal/core/repository"
	"github.com/martijn/jobboard/internal/core/service"
	"github.com/martijn/jobboard/internal/infrastructure/sqlstore"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

type testServices struct {
	userRepo repository.UserRepository
	jobRepo  repository.JobRepository
	auth     *service.AuthService
	users    *service.UserService
	jobs     *service.JobService
}

func setupServices(t *testing.T) *testServices {
	t.Helper()

	db, err := sqlstore.NewMemory()
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	userRepo := sqlstore.NewUserRepository(db)
	jobRepo := sqlstore.NewJobRepository(db)
	auth := service.NewAuthService(userRepo, service.AuthOptions{
		JWTSecret:  testSecret,
		BcryptCost: bcrypt.MinCost,
	})

	return &testServices{
		userRepo: userRepo,
		jobRepo:  jobRepo,
		auth:     auth,
		users:    service.NewUserService(userRepo, jobRepo, auth, logger),
		jobs:     service.NewJobService(jobRepo, logger),
	}
}

func (s *testServices) register(t *testing.T, username string, isAdmin bool) {
	t.Helper()

	_, err := s.users.Register(context.Background(), service.RegisterInput{
		Username:  username,
		Password:  "password-" + username,
		FirstName: "First",
		LastName:  "Last",
		Email:     username + "@example.com",
		IsAdmin:   isAdmin,
	})
	if err != nil {
		t.Fatalf("failed to register %s: %v", username, err)
	}
}

func ptr[T any](v T) *T {
	return &v
}
