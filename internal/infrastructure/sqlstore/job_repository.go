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

const jobColumnList = "id, title, salary, equity, company_handle"

var jobColumns = map[string]string{
	"title":  "title",
	"salary": "salary",
	"equity": "equity",
}

type jobRepository struct {
	db *DB
}

func NewJobRepository(db *DB) repository.JobRepository {
	return &jobRepository{db: db}
}

// Create inserts the job and links its technologies in one transaction, so
// a failed link leaves no job behind.
func (r *jobRepository) Create(ctx context.Context, job *domain.NewJob) (*domain.Job, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, service.Internal(err, "failed to create job")
	}
	defer tx.Rollback()

	query := `
		INSERT INTO jobs (title, salary, equity, company_handle)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + jobColumnList

	var created domain.Job
	err = tx.GetContext(ctx, &created, query,
		job.Title,
		job.Salary,
		job.Equity,
		job.CompanyHandle,
	)
	if err != nil {
		return nil, service.Internal(err, "failed to create job")
	}

	if err := linkTechnologies(ctx, tx, created.ID, job.Technologies); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, service.Internal(err, "failed to create job")
	}
	return &created, nil
}

func (r *jobRepository) FindByID(ctx context.Context, id int64) (*domain.Job, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + jobColumnList + ` FROM jobs WHERE id = $1`

	var job domain.Job
	err := r.db.GetContext(ctx, &job, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, service.NotFound("No job found with id: %d", id)
	}
	if err != nil {
		return nil, service.Internal(err, "failed to find job")
	}
	return &job, nil
}

func (r *jobRepository) Exists(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM jobs WHERE id = $1)`, id)
	if err != nil {
		return false, service.Internal(err, "failed to look up job")
	}
	return exists, nil
}

func (r *jobRepository) List(ctx context.Context, filter repository.JobFilter) ([]*domain.Job, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	where, args := BuildJobFilter(filter)
	query := `SELECT ` + jobColumnList + ` FROM jobs` + where + ` ORDER BY title, id`

	jobs := []*domain.Job{}
	if err := r.db.SelectContext(ctx, &jobs, query, args...); err != nil {
		return nil, service.Internal(err, "failed to list jobs")
	}
	return jobs, nil
}

func (r *jobRepository) Update(ctx context.Context, id int64, fields []repository.UpdateField) (*domain.Job, error) {
	setCols, values, err := PartialUpdate(fields, jobColumns)
	if err != nil {
		return nil, err
	}

	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf(`
		UPDATE jobs
		SET %s
		WHERE id = $%d
		RETURNING %s`, setCols, len(values)+1, jobColumnList)

	var job domain.Job
	err = r.db.GetContext(ctx, &job, query, append(values, id)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, service.NotFound("No job found with id: %d", id)
	}
	if err != nil {
		return nil, service.Internal(err, "failed to update job")
	}
	return &job, nil
}

func (r *jobRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return service.Internal(err, "failed to delete job")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return service.Internal(err, "failed to delete job")
	}
	if rows == 0 {
		return service.NotFound("No job found with id: %d", id)
	}
	return nil
}

func (r *jobRepository) TechnologiesByJob(ctx context.Context) (map[int64][]string, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT jt.job_id, t.name
		FROM job_technologies jt
		JOIN technologies t ON jt.technology_id = t.id
		ORDER BY jt.job_id, t.name
	`
	var rows []struct {
		JobID int64  `db:"job_id"`
		Name  string `db:"name"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, service.Internal(err, "failed to load job technologies")
	}

	techByJob := make(map[int64][]string)
	for _, row := range rows {
		techByJob[row.JobID] = append(techByJob[row.JobID], row.Name)
	}
	return techByJob, nil
}

func (r *jobRepository) TechnologiesForJob(ctx context.Context, jobID int64) ([]string, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT t.name
		FROM job_technologies jt
		JOIN technologies t ON jt.technology_id = t.id
		WHERE jt.job_id = $1
		ORDER BY t.name
	`
	names := []string{}
	if err := r.db.SelectContext(ctx, &names, query, jobID); err != nil {
		return nil, service.Internal(err, "failed to load job technologies")
	}
	return names, nil
}

// linkTechnologies links the named technologies to a job, creating any
// technology that does not exist yet.
func linkTechnologies(ctx context.Context, tx *sqlx.Tx, jobID int64, names []string) error {
	for _, name := range names {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO technologies (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name); err != nil {
			return service.Internal(err, "failed to set job technologies")
		}

		var techID int64
		if err := tx.GetContext(ctx, &techID, `SELECT id FROM technologies WHERE name = $1`, name); err != nil {
			return service.Internal(err, "failed to set job technologies")
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO job_technologies (job_id, technology_id)
			VALUES ($1, $2)
			ON CONFLICT (job_id, technology_id) DO NOTHING`, jobID, techID)
		if err != nil {
			return service.Internal(err, "failed to set job technologies")
		}
	}
	return nil
}
