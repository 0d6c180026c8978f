package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/martijn/jobboard/internal/api/dto"
	"github.com/martijn/jobboard/internal/core/domain"
	"github.com/martijn/jobboard/internal/core/repository"
	"github.com/martijn/jobboard/internal/core/service"
)

type JobHandler struct {
	jobService *service.JobService
}

func NewJobHandler(jobService *service.JobService) *JobHandler {
	return &JobHandler{
		jobService: jobService,
	}
}

// CreateJob handles POST /jobs (admin only)
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dto.CreateJobRequest
	if !bindJSON(c, &req) {
		return
	}

	job, err := h.jobService.CreateJob(c.Request.Context(), &domain.NewJob{
		Title:         req.Title,
		Salary:        req.Salary,
		Equity:        req.Equity,
		CompanyHandle: req.CompanyHandle,
		Technologies:  req.Technologies,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, dto.JobEnvelope{Job: toJobResponse(job)})
}

// ListJobs handles GET /jobs?title=&minSalary=&hasEquity=
func (h *JobHandler) ListJobs(c *gin.Context) {
	var filter repository.JobFilter

	if title := c.Query("title"); title != "" {
		filter.Title = &title
	}
	if v, ok := c.GetQuery("minSalary"); ok {
		minSalary, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			_ = c.Error(service.BadRequest("minSalary must be an integer"))
			return
		}
		filter.MinSalary = &minSalary
	}
	if v, ok := c.GetQuery("hasEquity"); ok {
		hasEquity := v == "true"
		filter.HasEquity = &hasEquity
	}

	jobs, err := h.jobService.ListJobs(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response := dto.JobListResponse{Jobs: make([]dto.JobResponse, len(jobs))}
	for i, job := range jobs {
		response.Jobs[i] = toJobResponse(job)
	}
	c.JSON(http.StatusOK, response)
}

// GetJob handles GET /jobs/:id
func (h *JobHandler) GetJob(c *gin.Context) {
	id, ok := jobIDParam(c)
	if !ok {
		return
	}

	job, err := h.jobService.GetJob(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.JobEnvelope{Job: toJobResponse(job)})
}

// UpdateJob handles PATCH /jobs/:id (admin only)
func (h *JobHandler) UpdateJob(c *gin.Context) {
	id, ok := jobIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateJobRequest
	if !bindJSON(c, &req) {
		return
	}

	var fields []repository.UpdateField
	if req.Title != nil {
		fields = append(fields, repository.UpdateField{Name: "title", Value: *req.Title})
	}
	if req.Salary.Set {
		var salary interface{}
		if v := req.Salary.Value; v != nil {
			if *v < 0 {
				_ = c.Error(service.BadRequest("salary must be at least 0"))
				return
			}
			salary = *v
		}
		fields = append(fields, repository.UpdateField{Name: "salary", Value: salary})
	}
	if req.Equity.Set {
		var equity interface{}
		if v := req.Equity.Value; v != nil {
			if *v < 0 || *v > 1 {
				_ = c.Error(service.BadRequest("equity must be between 0 and 1"))
				return
			}
			equity = *v
		}
		fields = append(fields, repository.UpdateField{Name: "equity", Value: equity})
	}

	job, err := h.jobService.UpdateJob(c.Request.Context(), id, fields)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.JobEnvelope{Job: toJobResponse(job)})
}

// DeleteJob handles DELETE /jobs/:id (admin only)
func (h *JobHandler) DeleteJob(c *gin.Context) {
	id, ok := jobIDParam(c)
	if !ok {
		return
	}

	if err := h.jobService.DeleteJob(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.JobDeletedResponse{Deleted: id})
}

func toJobResponse(job *domain.Job) dto.JobResponse {
	technologies := job.Technologies
	if technologies == nil {
		technologies = []string{}
	}
	return dto.JobResponse{
		ID:            job.ID,
		Title:         job.Title,
		Salary:        job.Salary,
		Equity:        job.Equity,
		CompanyHandle: job.CompanyHandle,
		Technologies:  technologies,
	}
}
