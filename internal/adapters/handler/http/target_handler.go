package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dreamersunited/fieldline/internal/adapters/handler/http/middleware"
	"github.com/dreamersunited/fieldline/internal/core/domain"
	"github.com/dreamersunited/fieldline/internal/core/services"
)

type TargetHandler struct {
	svc *services.TargetService
}

func NewTargetHandler(svc *services.TargetService) *TargetHandler {
	return &TargetHandler{svc: svc}
}

func (h *TargetHandler) RegisterRoutes(router *gin.RouterGroup) {
	targets := router.Group("/targets")
	{
		targets.PUT("/irs/:id", h.SetIRTarget)
		targets.GET("/irs/:id", h.GetIRTarget)
		targets.PUT("/teams/:id", h.SetTeamTarget)
		targets.GET("/teams/:id", h.GetTeamTarget)
		targets.PUT("/pockets/:id", h.SetPocketTarget)
		targets.POST("/teams/:id/split", h.SplitTeamTarget)
	}

	weeks := router.Group("/weeks")
	{
		weeks.GET("", h.AvailableWeeks)
		weeks.GET("/current", h.CurrentWeek)
	}
}

type setTargetRequest struct {
	Week       int `json:"week_number" binding:"required"`
	Year       int `json:"year" binding:"required"`
	InfoTarget int `json:"info_target"`
	PlanTarget int `json:"plan_target"`
	UVTarget   int `json:"uv_target"`
}

func (h *TargetHandler) setInput(c *gin.Context) (services.SetTargetInput, bool) {
	actorID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return services.SetTargetInput{}, false
	}

	var req setTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return services.SetTargetInput{}, false
	}

	return services.SetTargetInput{
		ActorID:    actorID,
		Key:        domain.WeekKey{Week: req.Week, Year: req.Year},
		InfoTarget: req.InfoTarget,
		PlanTarget: req.PlanTarget,
		UVTarget:   req.UVTarget,
	}, true
}

func (h *TargetHandler) SetIRTarget(c *gin.Context) {
	input, ok := h.setInput(c)
	if !ok {
		return
	}

	target, err := h.svc.SetIRTarget(c.Request.Context(), input, c.Param("id"))
	if err != nil {
		respondTargetError(c, err)
		return
	}

	c.JSON(http.StatusOK, target)
}

func (h *TargetHandler) SetTeamTarget(c *gin.Context) {
	input, ok := h.setInput(c)
	if !ok {
		return
	}

	target, err := h.svc.SetTeamTarget(c.Request.Context(), input, c.Param("id"))
	if err != nil {
		respondTargetError(c, err)
		return
	}

	c.JSON(http.StatusOK, target)
}

func (h *TargetHandler) SetPocketTarget(c *gin.Context) {
	input, ok := h.setInput(c)
	if !ok {
		return
	}

	target, err := h.svc.SetPocketTarget(c.Request.Context(), input, c.Param("id"))
	if err != nil {
		respondTargetError(c, err)
		return
	}

	c.JSON(http.StatusOK, target)
}

func (h *TargetHandler) SplitTeamTarget(c *gin.Context) {
	actorID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	key, ok := weekKeyParam(c, h.svc.CurrentWeek)
	if !ok {
		return
	}

	targets, err := h.svc.SplitTeamTargetToPockets(c.Request.Context(), actorID, c.Param("id"), key)
	if err != nil {
		respondTargetError(c, err)
		return
	}

	c.JSON(http.StatusOK, targets)
}

func (h *TargetHandler) GetIRTarget(c *gin.Context) {
	actorID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	key, ok := weekKeyParam(c, h.svc.CurrentWeek)
	if !ok {
		return
	}

	target, err := h.svc.GetIRTarget(c.Request.Context(), actorID, c.Param("id"), key)
	if err != nil {
		respondTargetError(c, err)
		return
	}

	c.JSON(http.StatusOK, target)
}

func (h *TargetHandler) GetTeamTarget(c *gin.Context) {
	actorID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	key, ok := weekKeyParam(c, h.svc.CurrentWeek)
	if !ok {
		return
	}

	target, err := h.svc.GetTeamTarget(c.Request.Context(), actorID, c.Param("id"), key)
	if err != nil {
		respondTargetError(c, err)
		return
	}

	c.JSON(http.StatusOK, target)
}

// AvailableWeeks drives the week picker: every week with a target, newest
// first.
func (h *TargetHandler) AvailableWeeks(c *gin.Context) {
	keys, err := h.svc.AvailableWeeks(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"weeks": keys})
}

func (h *TargetHandler) CurrentWeek(c *gin.Context) {
	key, err := h.svc.CurrentWeek()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, key)
}

func respondTargetError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrTargetNotFound),
		errors.Is(err, domain.ErrIRNotFound),
		errors.Is(err, domain.ErrTeamNotFound),
		errors.Is(err, domain.ErrPocketNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed"})
	case errors.Is(err, domain.ErrInvalidWeekKey),
		errors.Is(err, domain.ErrNegativeTarget):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
