package service_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/martijn/jobboard/internal/core/domain"
	"github.com/martijn/jobboard/internal/core/repository"
	"github.com/martijn/jobboard/internal/core/service"
)

func TestCreateJobWithTechnologies(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	job, err := env.jobs.CreateJob(ctx, &domain.NewJob{
		Title:         "Engineer",
		Salary:        ptr(int64(100)),
		Equity:        ptr(0.1),
		CompanyHandle: "acme",
		Technologies:  []string{"postgres", "go", "postgres"},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !reflect.DeepEqual(job.Technologies, []string{"go", "postgres"}) {
		t.Errorf("unexpected technologies: %v", job.Technologies)
	}

	fetched, err := env.jobs.GetJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !reflect.DeepEqual(fetched, job) {
		t.Errorf("expected %+v, got %+v", job, fetched)
	}

	plain, err := env.jobs.CreateJob(ctx, &domain.NewJob{Title: "Plain", CompanyHandle: "acme"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if plain.Technologies == nil || len(plain.Technologies) != 0 {
		t.Errorf("expected empty technologies, got %#v", plain.Technologies)
	}
}

func TestListJobsAttachesTechnologies(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	if _, err := env.jobs.CreateJob(ctx, &domain.NewJob{Title: "B", CompanyHandle: "c", Technologies: []string{"go"}}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := env.jobs.CreateJob(ctx, &domain.NewJob{Title: "A", CompanyHandle: "c"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	jobs, err := env.jobs.ListJobs(ctx, repository.JobFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(jobs) != 2 || jobs[0].Title != "A" {
		t.Fatalf("unexpected jobs: %+v", jobs)
	}
	if jobs[0].Technologies == nil || len(jobs[0].Technologies) != 0 {
		t.Errorf("expected empty technologies for A, got %#v", jobs[0].Technologies)
	}
	if !reflect.DeepEqual(jobs[1].Technologies, []string{"go"}) {
		t.Errorf("unexpected technologies for B: %v", jobs[1].Technologies)
	}
}

func TestUpdateJob(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	job, err := env.jobs.CreateJob(ctx, &domain.NewJob{Title: "Old", CompanyHandle: "acme", Technologies: []string{"go"}})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := env.jobs.UpdateJob(ctx, job.ID, []repository.UpdateField{{Name: "title", Value: "New"}})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Title != "New" || updated.CompanyHandle != "acme" {
		t.Errorf("unexpected job: %+v", updated)
	}
	if !reflect.DeepEqual(updated.Technologies, []string{"go"}) {
		t.Errorf("technologies lost on update: %v", updated.Technologies)
	}

	tests := []struct {
		name   string
		id     int64
		fields []repository.UpdateField
		kind   service.ErrorKind
	}{
		{"empty update", job.ID, nil, service.KindBadRequest},
		{"company handle is immutable", job.ID, []repository.UpdateField{{Name: "companyHandle", Value: "x"}}, service.KindBadRequest},
		{"id is immutable", job.ID, []repository.UpdateField{{Name: "id", Value: 5}}, service.KindBadRequest},
		{"unknown job", 9999, []repository.UpdateField{{Name: "title", Value: "x"}}, service.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.jobs.UpdateJob(ctx, tt.id, tt.fields)
			if !service.IsKind(err, tt.kind) {
				t.Errorf("expected %s, got %v", tt.kind, err)
			}
		})
	}

	if err := env.jobs.DeleteJob(ctx, job.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := env.jobs.GetJob(ctx, job.ID); !service.IsKind(err, service.KindNotFound) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}
