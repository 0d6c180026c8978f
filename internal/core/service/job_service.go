package service

import (
	"context"
	"log/slog"

	"github.com/martijn/jobboard/internal/core/domain"
	"github.com/martijn/jobboard/internal/core/repository"
)

// companyHandle is fixed at creation, so it is not listed here.
var jobUpdatableFields = map[string]bool{
	"title":  true,
	"salary": true,
	"equity": true,
}

type JobService struct {
	jobRepo repository.JobRepository
	logger  *slog.Logger
}

func NewJobService(jobRepo repository.JobRepository, logger *slog.Logger) *JobService {
	return &JobService{
		jobRepo: jobRepo,
		logger:  logger,
	}
}

func (s *JobService) CreateJob(ctx context.Context, newJob *domain.NewJob) (*domain.Job, error) {
	newJob.Technologies = dedupe(newJob.Technologies)

	job, err := s.jobRepo.Create(ctx, newJob)
	if err != nil {
		return nil, err
	}

	if err := s.attachTechnologies(ctx, job); err != nil {
		return nil, err
	}

	s.logger.Info("job created", slog.Int64("job_id", job.ID), slog.String("company_handle", job.CompanyHandle))
	return job, nil
}

// ListJobs returns the jobs matching filter, ordered by title, each with its
// technology names.
func (s *JobService) ListJobs(ctx context.Context, filter repository.JobFilter) ([]*domain.Job, error) {
	jobs, err := s.jobRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	techByJob, err := s.jobRepo.TechnologiesByJob(ctx)
	if err != nil {
		return nil, err
	}

	for _, job := range jobs {
		job.Technologies = techByJob[job.ID]
		if job.Technologies == nil {
			job.Technologies = []string{}
		}
	}
	return jobs, nil
}

func (s *JobService) GetJob(ctx context.Context, id int64) (*domain.Job, error) {
	job, err := s.jobRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachTechnologies(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *JobService) UpdateJob(ctx context.Context, id int64, fields []repository.UpdateField) (*domain.Job, error) {
	if len(fields) == 0 {
		return nil, BadRequest("No data")
	}
	for _, f := range fields {
		if !jobUpdatableFields[f.Name] {
			return nil, BadRequest("field %q cannot be updated", f.Name)
		}
	}
	job, err := s.jobRepo.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	if err := s.attachTechnologies(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *JobService) DeleteJob(ctx context.Context, id int64) error {
	if err := s.jobRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("job deleted", slog.Int64("job_id", id))
	return nil
}

func (s *JobService) attachTechnologies(ctx context.Context, job *domain.Job) error {
	names, err := s.jobRepo.TechnologiesForJob(ctx, job.ID)
	if err != nil {
		return err
	}
	job.Technologies = names
	return nil
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
