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

type ProfileHandler struct {
	profileUC domain.ProfileUsecase
}

func NewProfileHandler(protected *gin.RouterGroup, profileUC domain.ProfileUsecase) {
	handler := &ProfileHandler{profileUC: profileUC}

	me := protected.Group("/candidates/me")
	{
		me.GET("/profile", handler.GetMyProfile)
		me.PUT("/profile", handler.UpsertMyProfile)
		me.POST("/avatar", middleware.RateLimitMiddleware(middleware.UploadRateLimitConfig()), handler.UploadAvatar)
	}

	// Employers and admins view candidate profiles by user ID. Kept
	// outside /candidates because the router cannot mix the static
	// "me" segment with a parameter at the same position.
	protected.GET("/profiles/:userId", handler.GetProfile)
}

type ProfileRequest struct {
	Headline        string   `json:"headline" binding:"required,max=200"`
	Bio             *string  `json:"bio" binding:"omitempty,max=5000"`
	Skills          []string `json:"skills" binding:"max=50,dive,max=60"`
	YearsExperience int      `json:"years_experience" binding:"min=0,max=80"`
	Location        *string  `json:"location" binding:"omitempty,max=120"`
}

// GetMyProfile godoc
// @Summary      Get my candidate profile
// @Tags         profiles
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.CandidateProfile}
// @Failure      404  {object}  response.Response
// @Router       /candidates/me/profile [get]
// @Security     BearerAuth
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	role := c.GetString(string(domain.KeyUserRole))

	profile, err := h.profileUC.GetProfile(c.Request.Context(), userID, role, userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile retrieved", profile)
}

// GetProfile godoc
// @Summary      Get a candidate's profile
// @Description  Employers and admins only; candidates use /candidates/me/profile
// @Tags         profiles
// @Produce      json
// @Param        userId  path      string  true  "Candidate user ID"
// @Success      200  {object}  response.Response{data=domain.CandidateProfile}
// @Failure      403  {object}  response.Response
// @Router       /profiles/{userId} [get]
// @Security     BearerAuth
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	role := c.GetString(string(domain.KeyUserRole))

	profile, err := h.profileUC.GetProfile(c.Request.Context(), userID, role, c.Param("userId"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile retrieved", profile)
}

// UpsertMyProfile godoc
// @Summary      Create or update my profile
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        body  body      ProfileRequest  true  "Profile fields"
// @Success      200  {object}  response.Response{data=domain.CandidateProfile}
// @Failure      400  {object}  response.Response
// @Router       /candidates/me/profile [put]
// @Security     BearerAuth
func (h *ProfileHandler) UpsertMyProfile(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	role := c.GetString(string(domain.KeyUserRole))
	if role != domain.RoleCandidate {
		c.Error(apperror.Forbidden("Only candidates have a profile"))
		return
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(validation.AsError(err))
		return
	}

	profile, err := h.profileUC.UpsertProfile(c.Request.Context(), userID, domain.ProfileUpdate{
		Headline:        req.Headline,
		Bio:             req.Bio,
		Skills:          req.Skills,
		YearsExperience: req.YearsExperience,
		Location:        req.Location,
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile saved", profile)
}

// UploadAvatar godoc
// @Summary      Upload a profile picture
// @Description  JPEG or PNG up to 2 MiB; stored downscaled to 512px
// @Tags         profiles
// @Accept       multipart/form-data
// @Produce      json
// @Param        avatar  formData  file  true  "Image file"
// @Success      200  {object}  response.Response{data=domain.CandidateProfile}
// @Failure      400  {object}  response.Response
// @Router       /candidates/me/avatar [post]
// @Security     BearerAuth
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		c.Error(apperror.BadRequest("An 'avatar' file field is required"))
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

	profile, err := h.profileUC.UploadAvatar(c.Request.Context(), userID, data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Avatar uploaded", profile)
}
