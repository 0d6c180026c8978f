package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/martijn/jobboard/internal/core/domain"
	"github.com/martijn/jobboard/internal/core/repository"
	"github.com/martijn/jobboard/internal/core/service"
)

const userColumnList = "username, password, first_name, last_name, email, is_admin"

var userColumns = map[string]string{
	"firstName": "first_name",
	"lastName":  "last_name",
	"isAdmin":   "is_admin",
}

type userRepository struct {
	db *DB
}

func NewUserRepository(db *DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO users (username, password, first_name, last_name, email, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.Username,
		user.Password,
		user.FirstName,
		user.LastName,
		user.Email,
		user.IsAdmin,
	)
	if isUniqueViolation(err) {
		return service.Conflict("Duplicate username: %s", user.Username)
	}
	if err != nil {
		return service.Internal(err, "failed to create user")
	}
	return nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + userColumnList + ` FROM users WHERE username = $1`

	var user domain.User
	err := r.db.GetContext(ctx, &user, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, service.NotFound("No user: %s", username)
	}
	if err != nil {
		return nil, service.Internal(err, "failed to find user")
	}
	return &user, nil
}

func (r *userRepository) Exists(ctx context.Context, username string) (bool, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username)
	if err != nil {
		return false, service.Internal(err, "failed to look up user")
	}
	return exists, nil
}

func (r *userRepository) List(ctx context.Context, filter repository.UserFilter) ([]*domain.User, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	where, args := BuildUserFilter(filter)
	query := `SELECT ` + userColumnList + ` FROM users` + where + ` ORDER BY username`

	users := []*domain.User{}
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, service.Internal(err, "failed to list users")
	}
	for _, u := range users {
		u.Password = ""
	}
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, username string, fields []repository.UpdateField) (*domain.User, error) {
	setCols, values, err := PartialUpdate(fields, userColumns)
	if err != nil {
		return nil, err
	}

	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf(`
		UPDATE users
		SET %s
		WHERE username = $%d
		RETURNING %s`, setCols, len(values)+1, userColumnList)

	var user domain.User
	err = r.db.GetContext(ctx, &user, query, append(values, username)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, service.NotFound("No user: %s", username)
	}
	if err != nil {
		return nil, service.Internal(err, "failed to update user")
	}
	return &user, nil
}

func (r *userRepository) Delete(ctx context.Context, username string) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE username = $1`, username)
	if err != nil {
		return service.Internal(err, "failed to delete user")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return service.Internal(err, "failed to delete user")
	}
	if rows == 0 {
		return service.NotFound("No user: %s", username)
	}
	return nil
}

func (r *userRepository) ApplicationJobIDs(ctx context.Context, usernames []string) (map[string][]int64, error) {
	out := make(map[string][]int64)
	if len(usernames) == 0 {
		return out, nil
	}

	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	query, args, err := sqlx.In(`
		SELECT username, job_id
		FROM applications
		WHERE username IN (?)
		ORDER BY username, job_id`, usernames)
	if err != nil {
		return nil, service.Internal(err, "failed to load applications")
	}

	var rows []domain.Application
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, service.Internal(err, "failed to load applications")
	}

	for _, row := range rows {
		out[row.Username] = append(out[row.Username], row.JobID)
	}
	return out, nil
}

func (r *userRepository) CreateApplication(ctx context.Context, app *domain.Application) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO applications (username, job_id, state)
		VALUES ($1, $2, $3)`, app.Username, app.JobID, string(app.State))
	if isUniqueViolation(err) {
		return service.Conflict("%s already has an application for job %d", app.Username, app.JobID)
	}
	if isForeignKeyViolation(err) {
		return service.NotFound("No user %s or job %d", app.Username, app.JobID)
	}
	if err != nil {
		return service.Internal(err, "failed to create application")
	}
	return nil
}
