package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dreamersunited/fieldline/internal/adapters/handler/http/middleware"
	"github.com/dreamersunited/fieldline/internal/core/domain"
	"github.com/dreamersunited/fieldline/internal/core/services"
)

type ReportHandler struct {
	svc     *services.ReportService
	targets *services.TargetService
}

func NewReportHandler(svc *services.ReportService, targets *services.TargetService) *ReportHandler {
	return &ReportHandler{
		svc:     svc,
		targets: targets,
	}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/reports")
	{
		reports.GET("/dashboard", h.Dashboard)
		reports.GET("/teams/:id", h.TeamReport)
	}
}

func (h *ReportHandler) Dashboard(c *gin.Context) {
	actorID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	key, ok := weekKeyParam(c, h.targets.CurrentWeek)
	if !ok {
		return
	}

	dash, err := h.svc.Dashboard(c.Request.Context(), actorID, key)
	if err != nil {
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, dash)
}

func (h *ReportHandler) TeamReport(c *gin.Context) {
	actorID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	key, ok := weekKeyParam(c, h.targets.CurrentWeek)
	if !ok {
		return
	}

	report, err := h.svc.TeamReport(c.Request.Context(), actorID, c.Param("id"), key)
	if err != nil {
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func respondReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrIRNotFound), errors.Is(err, domain.ErrTeamNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed"})
	case errors.Is(err, domain.ErrInvalidWeekKey):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
