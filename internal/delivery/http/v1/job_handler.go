package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/validation"
)

type JobHandler struct {
	jobUC domain.JobUsecase
}

// NewJobHandler registers the public browse routes and the employer
// posting routes.
func NewJobHandler(public *gin.RouterGroup, protected *gin.RouterGroup, jobUC domain.JobUsecase) {
	handler := &JobHandler{jobUC: jobUC}

	jobs := public.Group("/jobs")
	{
		jobs.GET("", handler.ListPublicJobs)
		jobs.GET("/:id", handler.GetJob)
	}

	employers := protected.Group("/employers/jobs")
	{
		employers.POST("", handler.CreateJob)
		employers.GET("", handler.ListMyJobs)
		employers.PUT("/:id", handler.UpdateJob)
		employers.POST("/:id/publish", handler.changeStatus(domain.JobActionPublish))
		employers.POST("/:id/pause", handler.changeStatus(domain.JobActionPause))
		employers.POST("/:id/resume", handler.changeStatus(domain.JobActionResume))
		employers.POST("/:id/close", handler.changeStatus(domain.JobActionClose))
	}
}

type JobRequest struct {
	Title           string  `json:"title" binding:"required,max=200"`
	Description     string  `json:"description" binding:"required"`
	Location        string  `json:"location" binding:"required,max=120"`
	SalaryMin       float64 `json:"salary_min" binding:"min=0"`
	SalaryMax       float64 `json:"salary_max" binding:"min=0"`
	EmploymentType  *string `json:"employment_type"`
	ExperienceLevel *string `json:"experience_level"`
}

// pageParams reads ?page and ?page_size; out-of-range values fall back
// to the usecase defaults.
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return page, pageSize
}

// ListPublicJobs godoc
// @Summary      Browse active job postings
// @Tags         jobs
// @Produce      json
// @Param        page       query     int     false  "Page number"
// @Param        page_size  query     int     false  "Page size (max 100)"
// @Param        location   query     string  false  "Filter by location"
// @Param        keyword    query     string  false  "Search in title and description"
// @Success      200  {object}  response.Response
// @Router       /jobs [get]
func (h *JobHandler) ListPublicJobs(c *gin.Context) {
	page, pageSize := pageParams(c)

	var filter domain.JobFilter
	if loc := c.Query("location"); loc != "" {
		filter.Location = &loc
	}
	if kw := c.Query("keyword"); kw != "" {
		filter.Keyword = &kw
	}
	if et := c.Query("employment_type"); et != "" {
		filter.EmploymentType = &et
	}

	result, err := h.jobUC.ListPublicJobs(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Jobs retrieved", result)
}

// GetJob godoc
// @Summary      Get one job posting
// @Tags         jobs
// @Produce      json
// @Param        id  path      string  true  "Job ID"
// @Success      200  {object}  response.Response{data=domain.Job}
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [get]
func (h *JobHandler) GetJob(c *gin.Context) {
	job, err := h.jobUC.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job retrieved", job)
}

// CreateJob godoc
// @Summary      Create a job posting
// @Description  Creates the posting in draft status (Employer only)
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        body  body      JobRequest  true  "Posting details"
// @Success      201  {object}  response.Response{data=domain.Job}
// @Failure      400  {object}  response.Response
// @Router       /employers/jobs [post]
// @Security     BearerAuth
func (h *JobHandler) CreateJob(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	role := c.GetString(string(domain.KeyUserRole))
	if role != domain.RoleEmployer {
		c.Error(apperror.Forbidden("Only employers can create job postings"))
		return
	}

	var req JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(validation.AsError(err))
		return
	}

	job, err := h.jobUC.CreateJob(c.Request.Context(), userID, &domain.Job{
		Title:           req.Title,
		Description:     req.Description,
		Location:        req.Location,
		SalaryMin:       req.SalaryMin,
		SalaryMax:       req.SalaryMax,
		EmploymentType:  req.EmploymentType,
		ExperienceLevel: req.ExperienceLevel,
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Job created", job)
}

// ListMyJobs godoc
// @Summary      List the caller's job postings
// @Tags         jobs
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /employers/jobs [get]
// @Security     BearerAuth
func (h *JobHandler) ListMyJobs(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	page, pageSize := pageParams(c)

	result, err := h.jobUC.ListEmployerJobs(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Jobs retrieved", result)
}

// UpdateJob godoc
// @Summary      Update a job posting
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id    path      string      true  "Job ID"
// @Param        body  body      JobRequest  true  "Updated posting details"
// @Success      200  {object}  response.Response{data=domain.Job}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /employers/jobs/{id} [put]
// @Security     BearerAuth
func (h *JobHandler) UpdateJob(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	role := c.GetString(string(domain.KeyUserRole))

	var req JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(validation.AsError(err))
		return
	}

	job, err := h.jobUC.UpdateJob(c.Request.Context(), userID, role, c.Param("id"), domain.JobUpdate{
		Title:           req.Title,
		Description:     req.Description,
		Location:        req.Location,
		SalaryMin:       req.SalaryMin,
		SalaryMax:       req.SalaryMax,
		EmploymentType:  req.EmploymentType,
		ExperienceLevel: req.ExperienceLevel,
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job updated", job)
}

// changeStatus runs one lifecycle action; illegal transitions surface
// as INVALID_TRANSITION.
func (h *JobHandler) changeStatus(action domain.JobAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(string(domain.KeyUserID))
		role := c.GetString(string(domain.KeyUserRole))

		job, err := h.jobUC.ChangeJobStatus(c.Request.Context(), userID, role, c.Param("id"), action)
		if err != nil {
			c.Error(err)
			return
		}

		response.Success(c, http.StatusOK, "Job status updated", job)
	}
}
