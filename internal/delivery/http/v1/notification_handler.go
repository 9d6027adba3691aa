package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
)

type NotificationHandler struct {
	notificationUC domain.NotificationUsecase
}

func NewNotificationHandler(protected *gin.RouterGroup, notificationUC domain.NotificationUsecase) {
	handler := &NotificationHandler{notificationUC: notificationUC}

	notifications := protected.Group("/notifications")
	{
		notifications.GET("", handler.List)
		notifications.GET("/unread-count", handler.UnreadCount)
		// PATCH for the single mark, POST for the bulk mark: the router
		// cannot hold ":id" and "read-all" at the same position in one
		// method tree.
		notifications.PATCH("/:id/read", handler.MarkAsRead)
		notifications.POST("/read-all", handler.MarkAllAsRead)
	}
}

// List godoc
// @Summary      List my notifications
// @Tags         notifications
// @Produce      json
// @Param        unread_only  query     bool  false  "Only unread notifications"
// @Success      200  {object}  response.Response
// @Router       /notifications [get]
// @Security     BearerAuth
func (h *NotificationHandler) List(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	page, pageSize := pageParams(c)
	unreadOnly := c.Query("unread_only") == "true"

	result, err := h.notificationUC.List(c.Request.Context(), userID, unreadOnly, page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Notifications retrieved", result)
}

// UnreadCount godoc
// @Summary      Count unread notifications
// @Tags         notifications
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /notifications/unread-count [get]
// @Security     BearerAuth
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	count, err := h.notificationUC.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Unread count retrieved", gin.H{"unread": count})
}

// MarkAsRead godoc
// @Summary      Mark one notification as read
// @Description  Idempotent: an already-read notification keeps its original read time
// @Tags         notifications
// @Produce      json
// @Param        id  path      string  true  "Notification ID"
// @Success      200  {object}  response.Response{data=domain.Notification}
// @Failure      403  {object}  response.Response
// @Router       /notifications/{id}/read [patch]
// @Security     BearerAuth
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	n, err := h.notificationUC.MarkAsRead(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Notification marked as read", n)
}

// MarkAllAsRead godoc
// @Summary      Mark all my notifications as read
// @Tags         notifications
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /notifications/read-all [post]
// @Security     BearerAuth
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	if err := h.notificationUC.MarkAllAsRead(c.Request.Context(), userID); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "All notifications marked as read", nil)
}
