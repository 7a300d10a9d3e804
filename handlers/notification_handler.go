// Package handlers exposes the notification store to the panel UI over a
// small local HTTP API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PigSoilPlus/pigsoil-notify/internal/auth"
	"github.com/PigSoilPlus/pigsoil-notify/internal/utils"
	"github.com/PigSoilPlus/pigsoil-notify/service"
	"github.com/PigSoilPlus/pigsoil-notify/types"
)

// NotificationHandler handles HTTP requests from the notification panel.
type NotificationHandler struct {
	store       *service.NotificationStore
	currentUser auth.UserProvider
	logger      *zap.SugaredLogger
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(store *service.NotificationStore, currentUser auth.UserProvider, logger *zap.SugaredLogger) *NotificationHandler {
	return &NotificationHandler{
		store:       store,
		currentUser: currentUser,
		logger:      logger,
	}
}

// notificationView decorates a record with its panel display string.
type notificationView struct {
	types.NotificationRecord
	TimeAgo string `json:"timeAgo"`
}

// List returns the authenticated user's notifications for the requested
// filter (default "all"), unread first, newest first within each group.
func (h *NotificationHandler) List(c *gin.Context) {
	if !h.requireUser(c) {
		return
	}

	filter := c.DefaultQuery("filter", string(types.FilterAll))
	if !types.ValidFilter(filter) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter. Use all, unread, read, chat, subscription or system."})
		return
	}

	records := h.store.GetByFilter(c.Request.Context(), types.Filter(filter))
	views := make([]notificationView, 0, len(records))
	for _, r := range records {
		views = append(views, notificationView{
			NotificationRecord: r,
			TimeAgo:            utils.FormatTimestamp(r.Timestamp),
		})
	}
	c.JSON(http.StatusOK, views)
}

// UnreadCount returns the authenticated user's unread notification count.
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	if !h.requireUser(c) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": h.store.UnreadCount(c.Request.Context())})
}

// MarkRead marks one notification as read. 404 when the id does not exist for
// this user.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if !h.requireUser(c) {
		return
	}

	id := c.Param("notificationId")
	if !h.store.MarkAsRead(c.Request.Context(), id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllRead marks every unread notification of the user as read.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if !h.requireUser(c) {
		return
	}
	count := h.store.MarkAllAsRead(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"marked_as_read_count": count})
}

// Delete removes one notification. 404 when the id does not exist for this
// user.
func (h *NotificationHandler) Delete(c *gin.Context) {
	if !h.requireUser(c) {
		return
	}

	id := c.Param("notificationId")
	if !h.store.Delete(c.Request.Context(), id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	h.logger.Infow("Deleted notification", "notificationId", id)
	c.Status(http.StatusNoContent)
}

// ClearAll removes every notification belonging to the user.
func (h *NotificationHandler) ClearAll(c *gin.Context) {
	if !h.requireUser(c) {
		return
	}
	count := h.store.ClearAll(c.Request.Context())
	h.logger.Infow("Cleared notifications", "count", count)
	c.JSON(http.StatusOK, gin.H{"cleared_count": count})
}

// requireUser rejects the request with 401 when nobody is signed in.
func (h *NotificationHandler) requireUser(c *gin.Context) bool {
	if h.currentUser() == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No authenticated user"})
		return false
	}
	return true
}
