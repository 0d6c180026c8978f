package service_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/martijn/jobboard/internal/core/domain"
	"github.com/martijn/jobboard/internal/core/repository"
	"github.com/martijn/jobboard/internal/core/service"
)

func TestRegisterDuplicate(t *testing.T) {
	env := setupServices(t)
	env.register(t, "u1", false)

	_, err := env.users.Register(context.Background(), service.RegisterInput{
		Username: "u1", Password: "secret", FirstName: "A", LastName: "B", Email: "a@b.com",
	})
	if !service.IsKind(err, service.KindConflict) {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestGetUserIncludesJobs(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	env.register(t, "u1", false)

	user, err := env.users.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if user.Jobs == nil || len(user.Jobs) != 0 {
		t.Errorf("expected empty non-nil jobs, got %#v", user.Jobs)
	}
	if user.Password != "" {
		t.Error("password hash leaked")
	}

	job, err := env.jobs.CreateJob(ctx, &domain.NewJob{Title: "J1", CompanyHandle: "c1"})
	if err != nil {
		t.Fatalf("create job failed: %v", err)
	}
	if _, err := env.users.ApplyForJob(ctx, "u1", job.ID, ""); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	user, err = env.users.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !reflect.DeepEqual(user.Jobs, []int64{job.ID}) {
		t.Errorf("expected jobs [%d], got %v", job.ID, user.Jobs)
	}

	if _, err := env.users.GetUser(ctx, "ghost"); !service.IsKind(err, service.KindNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestUpdateUser(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	env.register(t, "u1", false)

	user, err := env.users.UpdateUser(ctx, "u1", []repository.UpdateField{
		{Name: "firstName", Value: "Ann"},
		{Name: "password", Value: "new-password"},
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if user.FirstName != "Ann" || user.Password != "" {
		t.Errorf("unexpected user: %+v", user)
	}

	if _, err := env.auth.Authenticate(ctx, "u1", "new-password"); err != nil {
		t.Errorf("expected new password to work: %v", err)
	}
	if _, err := env.auth.Authenticate(ctx, "u1", "password-u1"); err == nil {
		t.Error("expected old password to stop working")
	}

	tests := []struct {
		name   string
		user   string
		fields []repository.UpdateField
		kind   service.ErrorKind
	}{
		{"empty update", "u1", nil, service.KindBadRequest},
		{"admin flag is not updatable", "u1", []repository.UpdateField{{Name: "isAdmin", Value: true}}, service.KindBadRequest},
		{"username is not updatable", "u1", []repository.UpdateField{{Name: "username", Value: "x"}}, service.KindBadRequest},
		{"unknown user", "ghost", []repository.UpdateField{{Name: "email", Value: "g@h.com"}}, service.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.users.UpdateUser(ctx, tt.user, tt.fields)
			if !service.IsKind(err, tt.kind) {
				t.Errorf("expected %s, got %v", tt.kind, err)
			}
		})
	}
}

func TestApplyForJob(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	env.register(t, "u1", false)

	job, err := env.jobs.CreateJob(ctx, &domain.NewJob{Title: "J1", CompanyHandle: "c1"})
	if err != nil {
		t.Fatalf("create job failed: %v", err)
	}
	other, err := env.jobs.CreateJob(ctx, &domain.NewJob{Title: "J2", CompanyHandle: "c1"})
	if err != nil {
		t.Fatalf("create job failed: %v", err)
	}

	app, err := env.users.ApplyForJob(ctx, "u1", job.ID, "")
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if app.State != domain.StateApplied || app.JobID != job.ID {
		t.Errorf("unexpected application: %+v", app)
	}

	app, err = env.users.ApplyForJob(ctx, "u1", other.ID, domain.StateInterested)
	if err != nil {
		t.Fatalf("apply with state failed: %v", err)
	}
	if app.State != domain.StateInterested {
		t.Errorf("expected interested, got %s", app.State)
	}

	tests := []struct {
		name  string
		user  string
		jobID int64
		state domain.ApplicationState
		kind  service.ErrorKind
	}{
		{"repeated application", "u1", job.ID, "", service.KindConflict},
		{"unknown job", "u1", 9999, "", service.KindNotFound},
		{"unknown user", "ghost", job.ID, "", service.KindNotFound},
		{"invalid state", "u1", job.ID, "hired", service.KindBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.users.ApplyForJob(ctx, tt.user, tt.jobID, tt.state)
			if !service.IsKind(err, tt.kind) {
				t.Errorf("expected %s, got %v", tt.kind, err)
			}
		})
	}
}

func TestListUsersAndDelete(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	env.register(t, "u2", false)
	env.register(t, "admin", true)
	env.register(t, "u1", false)

	users, err := env.users.ListUsers(ctx, repository.UserFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(users) != 3 || users[0].Username != "admin" {
		t.Fatalf("unexpected users: %+v", users)
	}
	for _, u := range users {
		if u.Jobs == nil {
			t.Errorf("expected non-nil jobs for %s", u.Username)
		}
	}

	nonAdmins, err := env.users.ListUsers(ctx, repository.UserFilter{IsAdmin: ptr(false)})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(nonAdmins) != 2 {
		t.Errorf("expected 2 non-admins, got %d", len(nonAdmins))
	}

	if err := env.users.DeleteUser(ctx, "u1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := env.users.DeleteUser(ctx, "u1"); !service.IsKind(err, service.KindNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}
