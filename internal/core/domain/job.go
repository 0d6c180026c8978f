package domain

type Job struct {
	ID            int64   `db:"id"`
	Title         string  `db:"title"`
	Salary        *int64  `db:"salary"`
	Equity        *string `db:"equity"` // numeric string, e.g. "0.2"
	CompanyHandle string  `db:"company_handle"`

	Technologies []string `db:"-"`
}

// NewJob builds a job that has not been persisted yet. Equity is kept as a
// float until it reaches the store, which hands it back as a numeric string.
type NewJob struct {
	Title         string
	Salary        *int64
	Equity        *float64
	CompanyHandle string
	Technologies  []string
}
