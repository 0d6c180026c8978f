package repository

import (
	"context"

	"github.com/martijn/jobboard/internal/core/domain"
)

type JobFilter struct {
	Title     *string // case-insensitive substring
	MinSalary *int64
	HasEquity *bool
}

type JobRepository interface {
	// Create stores the job together with its technology links.
	Create(ctx context.Context, job *domain.NewJob) (*domain.Job, error)
	FindByID(ctx context.Context, id int64) (*domain.Job, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, filter JobFilter) ([]*domain.Job, error)
	Update(ctx context.Context, id int64, fields []UpdateField) (*domain.Job, error)
	Delete(ctx context.Context, id int64) error

	// TechnologiesByJob loads every job's technology names in one query.
	TechnologiesByJob(ctx context.Context) (map[int64][]string, error)
	TechnologiesForJob(ctx context.Context, jobID int64) ([]string, error)
}
