package service

import (
	"context"
	"log/slog"

	"github.com/martijn/jobboard/internal/core/domain"
	"github.com/martijn/jobboard/internal/core/repository"
)

var userUpdatableFields = map[string]bool{
	"firstName": true,
	"lastName":  true,
	"password":  true,
	"email":     true,
}

type UserService struct {
	userRepo    repository.UserRepository
	jobRepo     repository.JobRepository
	authService *AuthService
	logger      *slog.Logger
}

func NewUserService(
	userRepo repository.UserRepository,
	jobRepo repository.JobRepository,
	authService *AuthService,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		jobRepo:     jobRepo,
		authService: authService,
		logger:      logger,
	}
}

// RegisterInput holds the fields of a new account. Password is plaintext.
type RegisterInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Email     string
	IsAdmin   bool
}

// Register hashes the password and stores the user. The returned user has
// no password hash.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	hash, err := s.authService.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := domain.NewUser(in.Username, hash, in.FirstName, in.LastName, in.Email, in.IsAdmin)
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", slog.String("username", user.Username), slog.Bool("is_admin", user.IsAdmin))

	user.Password = ""
	user.Jobs = []int64{}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context, filter repository.UserFilter) ([]*domain.User, error) {
	users, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if err := s.attachJobs(ctx, users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserService) GetUser(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	if err := s.attachJobs(ctx, []*domain.User{user}); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser applies a partial update. A password in fields is re-hashed
// before it is stored.
func (s *UserService) UpdateUser(ctx context.Context, username string, fields []repository.UpdateField) (*domain.User, error) {
	if len(fields) == 0 {
		return nil, BadRequest("No data")
	}

	toStore := make([]repository.UpdateField, 0, len(fields))
	for _, f := range fields {
		if !userUpdatableFields[f.Name] {
			return nil, BadRequest("field %q cannot be updated", f.Name)
		}
		if f.Name == "password" {
			plain, _ := f.Value.(string)
			hash, err := s.authService.HashPassword(plain)
			if err != nil {
				return nil, err
			}
			f.Value = hash
		}
		toStore = append(toStore, f)
	}

	user, err := s.userRepo.Update(ctx, username, toStore)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	if err := s.attachJobs(ctx, []*domain.User{user}); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, username string) error {
	if err := s.userRepo.Delete(ctx, username); err != nil {
		return err
	}
	s.logger.Info("user deleted", slog.String("username", username))
	return nil
}

// ApplyForJob records the user's application state for a job. An empty
// state means "applied".
func (s *UserService) ApplyForJob(ctx context.Context, username string, jobID int64, state domain.ApplicationState) (*domain.Application, error) {
	if state == "" {
		state = domain.StateApplied
	}
	if !state.Valid() {
		return nil, BadRequest("Invalid state: %s", state)
	}

	ok, err := s.userRepo.Exists(ctx, username)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NotFound("No user: %s", username)
	}

	ok, err = s.jobRepo.Exists(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NotFound("No job: %d", jobID)
	}

	app := &domain.Application{Username: username, JobID: jobID, State: state}
	if err := s.userRepo.CreateApplication(ctx, app); err != nil {
		return nil, err
	}

	s.logger.Info("application recorded",
		slog.String("username", username),
		slog.Int64("job_id", jobID),
		slog.String("state", string(state)),
	)
	return app, nil
}

func (s *UserService) attachJobs(ctx context.Context, users []*domain.User) error {
	if len(users) == 0 {
		return nil
	}

	usernames := make([]string, len(users))
	for i, u := range users {
		usernames[i] = u.Username
	}

	jobsByUser, err := s.userRepo.ApplicationJobIDs(ctx, usernames)
	if err != nil {
		return err
	}

	for _, u := range users {
		u.Jobs = jobsByUser[u.Username]
		if u.Jobs == nil {
			u.Jobs = []int64{}
		}
	}
	return nil
}
