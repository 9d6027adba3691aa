package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/validation"
)

type MatchingHandler struct {
	matchingUC domain.MatchingUsecase
}

func NewMatchingHandler(protected, worker *gin.RouterGroup, matchingUC domain.MatchingUsecase) {
	handler := &MatchingHandler{matchingUC: matchingUC}

	protected.GET("/employers/jobs/:id/matches", handler.MatchesForJob)
	protected.GET("/candidates/me/matches", handler.MatchesForCandidate)

	enhancements := protected.Group("/candidates/me/enhancements")
	{
		enhancements.POST("", handler.RequestEnhancement)
		enhancements.GET("/:id", handler.GetEnhancement)
	}

	worker.POST("/enhancements/:id/advance", handler.AdvanceEnhancement)
	worker.POST("/embeddings/refresh", handler.RefreshEmbedding)
}

type AdvanceEnhancementRequest struct {
	Status        string  `json:"status" binding:"required,oneof=processing completed failed"`
	Suggestions   *string `json:"suggestions" binding:"omitempty,max=10000"`
	FailureReason *string `json:"failure_reason" binding:"omitempty,max=1000"`
}

type RefreshEmbeddingRequest struct {
	Subject   string `json:"subject" binding:"required,oneof=profile job"`
	SubjectID string `json:"subject_id" binding:"required"`
}

// MatchesForJob godoc
// @Summary      Rank candidate matches for a job
// @Description  Candidates with ready profile embeddings, best match first
// @Tags         matching
// @Produce      json
// @Param        id  path      string  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /employers/jobs/{id}/matches [get]
// @Security     BearerAuth
func (h *MatchingHandler) MatchesForJob(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	role := c.GetString(string(domain.KeyUserRole))
	page, pageSize := pageParams(c)

	result, err := h.matchingUC.MatchesForJob(c.Request.Context(), userID, role, c.Param("id"), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Matches retrieved", result)
}

// MatchesForCandidate godoc
// @Summary      Rank job matches for my profile
// @Tags         matching
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /candidates/me/matches [get]
// @Security     BearerAuth
func (h *MatchingHandler) MatchesForCandidate(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	role := c.GetString(string(domain.KeyUserRole))
	if role != domain.RoleCandidate {
		c.Error(apperror.Forbidden("Only candidates can request job matches"))
		return
	}
	page, pageSize := pageParams(c)

	result, err := h.matchingUC.MatchesForCandidate(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Matches retrieved", result)
}

// RequestEnhancement godoc
// @Summary      Request an AI profile enhancement
// @Tags         matching
// @Produce      json
// @Success      202  {object}  response.Response{data=domain.EnhancementResult}
// @Failure      400  {object}  response.Response
// @Router       /candidates/me/enhancements [post]
// @Security     BearerAuth
func (h *MatchingHandler) RequestEnhancement(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	role := c.GetString(string(domain.KeyUserRole))
	if role != domain.RoleCandidate {
		c.Error(apperror.Forbidden("Only candidates can request profile enhancements"))
		return
	}

	result, err := h.matchingUC.RequestEnhancement(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusAccepted, "Enhancement requested", result)
}

// GetEnhancement godoc
// @Summary      Get one enhancement result
// @Tags         matching
// @Produce      json
// @Param        id  path      string  true  "Enhancement ID"
// @Success      200  {object}  response.Response{data=domain.EnhancementResult}
// @Failure      403  {object}  response.Response
// @Router       /candidates/me/enhancements/{id} [get]
// @Security     BearerAuth
func (h *MatchingHandler) GetEnhancement(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	result, err := h.matchingUC.GetEnhancement(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Enhancement retrieved", result)
}

// AdvanceEnhancement is the worker callback for the enhancement
// lifecycle.
func (h *MatchingHandler) AdvanceEnhancement(c *gin.Context) {
	var req AdvanceEnhancementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(validation.AsError(err))
		return
	}

	result, err := h.matchingUC.AdvanceEnhancement(c.Request.Context(), c.Param("id"),
		domain.ParseStatus(req.Status), req.Suggestions, req.FailureReason)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Enhancement advanced", result)
}

// RefreshEmbedding recomputes the vector for one profile or job.
func (h *MatchingHandler) RefreshEmbedding(c *gin.Context) {
	var req RefreshEmbeddingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(validation.AsError(err))
		return
	}

	record, err := h.matchingUC.RefreshEmbedding(c.Request.Context(),
		domain.EmbeddingSubject(req.Subject), req.SubjectID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Embedding refreshed", record)
}
