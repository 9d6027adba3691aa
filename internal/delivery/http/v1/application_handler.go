package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/validation"
)

type ApplicationHandler struct {
	applicationUC domain.ApplicationUsecase
}

// NewApplicationHandler registers application routes
func NewApplicationHandler(protected *gin.RouterGroup, applicationUC domain.ApplicationUsecase) {
	handler := &ApplicationHandler{applicationUC: applicationUC}

	candidates := protected.Group("/candidates")
	{
		candidates.POST("/jobs/:id/apply", handler.ApplyToJob)
		candidates.GET("/applications", handler.ListMyApplications)
		candidates.POST("/applications/:id/withdraw", handler.Withdraw)
	}

	employers := protected.Group("/employers")
	{
		employers.GET("/jobs/:id/applications", handler.ListJobApplications)
		employers.PATCH("/applications/:id", handler.UpdateApplicationStatus)
	}
}

type ApplyToJobRequest struct {
	CoverLetter string `json:"cover_letter" binding:"max=5000"`
}

type UpdateApplicationStatusRequest struct {
	Status          string  `json:"status" binding:"required,oneof=screening interview offer hired rejected"`
	RejectionReason *string `json:"rejection_reason" binding:"omitempty,max=1000"`
}

// statusFilter reads the optional ?status query parameter.
func statusFilter(c *gin.Context) *domain.ApplicationStatus {
	if s := c.Query("status"); s != "" {
		status := domain.ApplicationStatus(s)
		return &status
	}
	return nil
}

// ApplyToJob godoc
// @Summary      Apply to a job
// @Description  Submit an application for an active job (Candidate only)
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Job ID"
// @Param        body  body      ApplyToJobRequest  true  "Application data"
// @Success      201  {object}  response.Response{data=domain.JobApplication}
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /candidates/jobs/{id}/apply [post]
// @Security     BearerAuth
func (h *ApplicationHandler) ApplyToJob(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	role := c.GetString(string(domain.KeyUserRole))
	if role != domain.RoleCandidate {
		c.Error(apperror.Forbidden("Only candidates can apply to jobs"))
		return
	}

	var req ApplyToJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(validation.AsError(err))
		return
	}

	app, err := h.applicationUC.ApplyToJob(c.Request.Context(), userID, c.Param("id"), req.CoverLetter)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Application submitted successfully", app)
}

// ListMyApplications godoc
// @Summary      List my applications
// @Tags         applications
// @Produce      json
// @Param        status  query     string  false  "Filter by status"
// @Success      200  {object}  response.Response
// @Router       /candidates/applications [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListMyApplications(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	page, pageSize := pageParams(c)

	result, err := h.applicationUC.ListMyApplications(c.Request.Context(), userID, statusFilter(c), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Applications retrieved", result)
}

// Withdraw godoc
// @Summary      Withdraw an application
// @Tags         applications
// @Produce      json
// @Param        id  path      string  true  "Application ID"
// @Success      200  {object}  response.Response{data=domain.JobApplication}
// @Failure      403  {object}  response.Response
// @Router       /candidates/applications/{id}/withdraw [post]
// @Security     BearerAuth
func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	app, err := h.applicationUC.Withdraw(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application withdrawn", app)
}

// ListJobApplications godoc
// @Summary      List applications for a job
// @Description  Lists applications for a posting owned by the caller
// @Tags         applications
// @Produce      json
// @Param        id      path      string  true   "Job ID"
// @Param        status  query     string  false  "Filter by status"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /employers/jobs/{id}/applications [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListJobApplications(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	role := c.GetString(string(domain.KeyUserRole))
	page, pageSize := pageParams(c)

	result, err := h.applicationUC.ListJobApplications(c.Request.Context(), userID, role, c.Param("id"), statusFilter(c), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Applications retrieved", result)
}

// UpdateApplicationStatus godoc
// @Summary      Update an application's status
// @Description  Advances the hiring pipeline and notifies the candidate
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id    path      string                          true  "Application ID"
// @Param        body  body      UpdateApplicationStatusRequest  true  "Target status"
// @Success      200  {object}  response.Response{data=domain.JobApplication}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /employers/applications/{id} [patch]
// @Security     BearerAuth
func (h *ApplicationHandler) UpdateApplicationStatus(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	role := c.GetString(string(domain.KeyUserRole))

	var req UpdateApplicationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(validation.AsError(err))
		return
	}

	app, err := h.applicationUC.UpdateApplicationStatus(c.Request.Context(), userID, role, c.Param("id"),
		domain.ApplicationStatus(req.Status), req.RejectionReason)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application status updated", app)
}
