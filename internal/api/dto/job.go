package dto

type CreateJobRequest struct {
	Title         string   `json:"title" binding:"required,min=1,max=100"`
	Salary        *int64   `json:"salary" binding:"omitempty,min=0"`
	Equity        *float64 `json:"equity" binding:"omitempty,min=0,max=1"`
	CompanyHandle string   `json:"companyHandle" binding:"required,min=1,max=25"`
	Technologies  []string `json:"technologies" binding:"omitempty,dive,min=1,max=50"`
}

// UpdateJobRequest is a partial update. companyHandle is immutable and is
// rejected as an unknown field. An explicit null clears salary or equity;
// their bounds are checked by the handler.
type UpdateJobRequest struct {
	Title  *string           `json:"title" binding:"omitempty,min=1,max=100"`
	Salary Nullable[int64]   `json:"salary"`
	Equity Nullable[float64] `json:"equity"`
}

type JobResponse struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	Salary        *int64   `json:"salary"`
	Equity        *string  `json:"equity"`
	CompanyHandle string   `json:"companyHandle"`
	Technologies  []string `json:"technologies"`
}

type JobEnvelope struct {
	Job JobResponse `json:"job"`
}

type JobListResponse struct {
	Jobs []JobResponse `json:"jobs"`
}

type JobDeletedResponse struct {
	Deleted int64 `json:"deleted"`
}
