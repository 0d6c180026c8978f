package repository

import (
	"context"

	"github.com/martijn/jobboard/internal/core/domain"
)

type UserFilter struct {
	IsAdmin *bool
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Exists(ctx context.Context, username string) (bool, error)
	List(ctx context.Context, filter UserFilter) ([]*domain.User, error)
	Update(ctx context.Context, username string, fields []UpdateField) (*domain.User, error)
	Delete(ctx context.Context, username string) error

	// ApplicationJobIDs returns the job ids each of the given users applied
	// for, keyed by username. Users without applications are absent.
	ApplicationJobIDs(ctx context.Context, usernames []string) (map[string][]int64, error)
	CreateApplication(ctx context.Context, app *domain.Application) error
}
