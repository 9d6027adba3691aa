package v1

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-jobboard-backend/internal/delivery/http/middleware"
	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/validation"
)

type CvParseHandler struct {
	cvParseUC domain.CvParseUsecase
}

// NewCvParseHandler registers the candidate-facing CV routes and the
// worker callback.
func NewCvParseHandler(protected, worker *gin.RouterGroup, cvParseUC domain.CvParseUsecase) {
	handler := &CvParseHandler{cvParseUC: cvParseUC}

	me := protected.Group("/candidates/me")
	{
		me.POST("/cv", middleware.RateLimitMiddleware(middleware.UploadRateLimitConfig()), handler.UploadCv)
		me.GET("/cv-parses", handler.ListMyParses)
	}

	parses := protected.Group("/cv-parses")
	{
		parses.GET("/:id", handler.GetParseResult)
		parses.POST("/:id/apply", handler.ApplyToProfile)
	}

	worker.POST("/cv-parses/:id/advance", handler.AdvanceParse)
}

type AdvanceParseRequest struct {
	Status        string            `json:"status" binding:"required,oneof=processing completed failed"`
	Parsed        *ParsedCvRequest  `json:"parsed"`
	FailureReason *string           `json:"failure_reason" binding:"omitempty,max=1000"`
}

type ParsedCvRequest struct {
	Headline        string   `json:"headline" binding:"max=200"`
	Summary         string   `json:"summary" binding:"max=5000"`
	Skills          []string `json:"skills" binding:"max=50,dive,max=60"`
	YearsExperience int      `json:"years_experience" binding:"min=0,max=80"`
}

// UploadCv godoc
// @Summary      Upload a CV
// @Description  Accepts a PDF up to 5 MiB and queues it for parsing
// @Tags         cv
// @Accept       multipart/form-data
// @Produce      json
// @Param        cv  formData  file  true  "PDF file"
// @Success      201  {object}  response.Response{data=domain.CvParseResult}
// @Failure      400  {object}  response.Response
// @Router       /candidates/me/cv [post]
// @Security     BearerAuth
func (h *CvParseHandler) UploadCv(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	role := c.GetString(string(domain.KeyUserRole))
	if role != domain.RoleCandidate {
		c.Error(apperror.Forbidden("Only candidates can upload a CV"))
		return
	}

	fileHeader, err := c.FormFile("cv")
	if err != nil {
		c.Error(apperror.BadRequest("A 'cv' file field is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	result, err := h.cvParseUC.UploadCv(c.Request.Context(), userID, data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "CV uploaded, parsing queued", result)
}

// ListMyParses godoc
// @Summary      List my CV parses
// @Tags         cv
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /candidates/me/cv-parses [get]
// @Security     BearerAuth
func (h *CvParseHandler) ListMyParses(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	page, pageSize := pageParams(c)

	result, err := h.cvParseUC.ListMyParses(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "CV parses retrieved", result)
}

// GetParseResult godoc
// @Summary      Get one CV parse
// @Tags         cv
// @Produce      json
// @Param        id  path      string  true  "Parse ID"
// @Success      200  {object}  response.Response{data=domain.CvParseResult}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /cv-parses/{id} [get]
// @Security     BearerAuth
func (h *CvParseHandler) GetParseResult(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	role := c.GetString(string(domain.KeyUserRole))

	result, err := h.cvParseUC.GetParseResult(c.Request.Context(), userID, role, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "CV parse retrieved", result)
}

// ApplyToProfile godoc
// @Summary      Apply a parsed CV to my profile
// @Description  One-shot: fills profile gaps from the parse and unions skills
// @Tags         cv
// @Produce      json
// @Param        id  path      string  true  "Parse ID"
// @Success      200  {object}  response.Response{data=domain.CandidateProfile}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /cv-parses/{id}/apply [post]
// @Security     BearerAuth
func (h *CvParseHandler) ApplyToProfile(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	profile, err := h.cvParseUC.ApplyToProfile(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "CV applied to profile", profile)
}

// AdvanceParse is the worker callback that moves a parse through its
// lifecycle. Guarded by the worker token, not a user session.
func (h *CvParseHandler) AdvanceParse(c *gin.Context) {
	var req AdvanceParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(validation.AsError(err))
		return
	}

	var parsed *domain.ParsedCv
	if req.Parsed != nil {
		parsed = &domain.ParsedCv{
			Headline:        req.Parsed.Headline,
			Summary:         req.Parsed.Summary,
			Skills:          req.Parsed.Skills,
			YearsExperience: req.Parsed.YearsExperience,
		}
	}

	result, err := h.cvParseUC.AdvanceParse(c.Request.Context(), c.Param("id"),
		domain.ParseStatus(req.Status), parsed, req.FailureReason)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Parse advanced", result)
}
