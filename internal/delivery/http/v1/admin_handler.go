package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
)

type AdminHandler struct {
	userAdminUC domain.UserAdminUsecase
}

// NewAdminHandler registers the account administration routes. The role
// check lives in the usecase; the route group only requires a session.
func NewAdminHandler(protected *gin.RouterGroup, userAdminUC domain.UserAdminUsecase) {
	handler := &AdminHandler{userAdminUC: userAdminUC}

	admin := protected.Group("/admin/users")
	{
		admin.GET("", handler.ListUsers)
		admin.POST("/:id/suspend", handler.SuspendUser)
		admin.POST("/:id/reinstate", handler.ReinstateUser)
		admin.DELETE("/:id", handler.SoftDeleteUser)
	}
}

// ListUsers godoc
// @Summary      List user accounts
// @Description  Admin only. Soft-deleted accounts are hidden unless include_deleted=true.
// @Tags         admin
// @Produce      json
// @Param        role             query     string  false  "Filter by role"
// @Param        status           query     string  false  "Filter by status"
// @Param        include_deleted  query     bool    false  "Include soft-deleted accounts"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /admin/users [get]
// @Security     BearerAuth
func (h *AdminHandler) ListUsers(c *gin.Context) {
	role := c.GetString(string(domain.KeyUserRole))
	page, pageSize := pageParams(c)

	var filter domain.UserFilter
	if r := c.Query("role"); r != "" {
		filter.Role = &r
	}
	if s := c.Query("status"); s != "" {
		status := domain.UserStatus(s)
		filter.Status = &status
	}
	filter.IncludeDeleted = c.Query("include_deleted") == "true"

	result, err := h.userAdminUC.ListUsers(c.Request.Context(), role, filter, page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Users retrieved", result)
}

// SuspendUser godoc
// @Summary      Suspend a user account
// @Description  Blocks the account and revokes all its sessions
// @Tags         admin
// @Produce      json
// @Param        id  path      string  true  "User ID"
// @Success      200  {object}  response.Response{data=domain.UserAccount}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /admin/users/{id}/suspend [post]
// @Security     BearerAuth
func (h *AdminHandler) SuspendUser(c *gin.Context) {
	actorID := c.GetString(string(domain.KeyUserID))
	role := c.GetString(string(domain.KeyUserRole))

	user, err := h.userAdminUC.SuspendUser(c.Request.Context(), actorID, role, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "User suspended", user)
}

// ReinstateUser godoc
// @Summary      Reinstate a suspended or deleted account
// @Tags         admin
// @Produce      json
// @Param        id  path      string  true  "User ID"
// @Success      200  {object}  response.Response{data=domain.UserAccount}
// @Failure      400  {object}  response.Response
// @Router       /admin/users/{id}/reinstate [post]
// @Security     BearerAuth
func (h *AdminHandler) ReinstateUser(c *gin.Context) {
	actorID := c.GetString(string(domain.KeyUserID))
	role := c.GetString(string(domain.KeyUserRole))

	user, err := h.userAdminUC.ReinstateUser(c.Request.Context(), actorID, role, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "User reinstated", user)
}

// SoftDeleteUser godoc
// @Summary      Soft-delete a user account
// @Description  Flags the account deleted and revokes all its sessions
// @Tags         admin
// @Produce      json
// @Param        id  path      string  true  "User ID"
// @Success      200  {object}  response.Response{data=domain.UserAccount}
// @Failure      400  {object}  response.Response
// @Router       /admin/users/{id} [delete]
// @Security     BearerAuth
func (h *AdminHandler) SoftDeleteUser(c *gin.Context) {
	actorID := c.GetString(string(domain.KeyUserID))
	role := c.GetString(string(domain.KeyUserRole))

	user, err := h.userAdminUC.SoftDeleteUser(c.Request.Context(), actorID, role, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "User deleted", user)
}
