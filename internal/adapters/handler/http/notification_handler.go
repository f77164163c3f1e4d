package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dreamersunited/fieldline/internal/adapters/handler/http/middleware"
	"github.com/dreamersunited/fieldline/internal/core/services"
)

type NotificationHandler struct {
	svc *services.NotificationService
}

func NewNotificationHandler(svc *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	notifications := router.Group("/notifications")
	{
		notifications.GET("", h.List)
		notifications.GET("/unread-count", h.CountUnread)
		notifications.PUT("/:id/read", h.MarkRead)
		notifications.PUT("/read-all", h.MarkAllRead)
	}
}

func (h *NotificationHandler) List(c *gin.Context) {
	irID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	unreadOnly := c.Query("unread") == "true"

	list, err := h.svc.List(c.Request.Context(), irID, unreadOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *NotificationHandler) CountUnread(c *gin.Context) {
	irID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	count, err := h.svc.CountUnread(c.Request.Context(), irID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": count})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	irID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	if err := h.svc.MarkRead(c.Request.Context(), irID, c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return
	}

	c.Status(http.StatusOK)
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	irID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	if err := h.svc.MarkAllRead(c.Request.Context(), irID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Status(http.StatusOK)
}
