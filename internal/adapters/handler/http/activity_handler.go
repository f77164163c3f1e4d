package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dreamersunited/fieldline/internal/adapters/handler/http/middleware"
	"github.com/dreamersunited/fieldline/internal/core/domain"
	"github.com/dreamersunited/fieldline/internal/core/services"
)

type ActivityHandler struct {
	svc *services.ActivityService
}

func NewActivityHandler(svc *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{svc: svc}
}

func (h *ActivityHandler) RegisterRoutes(router *gin.RouterGroup) {
	irs := router.Group("/irs/:id")
	{
		irs.POST("/infos", h.AddInfo)
		irs.GET("/infos", h.ListInfos)
		irs.POST("/plans", h.AddPlan)
		irs.GET("/plans", h.ListPlans)
		irs.POST("/uvs", h.AddUV)
		irs.GET("/uvs", h.ListUVs)
	}

	router.PUT("/infos/:id", h.UpdateInfo)
	router.DELETE("/infos/:id", h.DeleteInfo)
	router.PUT("/plans/:id", h.UpdatePlan)
	router.DELETE("/plans/:id", h.DeletePlan)
	router.DELETE("/uvs/:id", h.DeleteUV)
}

// weekKeyParam reads the week/year pair every list endpoint filters on. Both
// absent means the current week; a partial or malformed pair is rejected.
func weekKeyParam(c *gin.Context, current func() (domain.WeekKey, error)) (domain.WeekKey, bool) {
	weekStr := c.Query("week")
	yearStr := c.Query("year")

	if weekStr == "" && yearStr == "" {
		key, err := current()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return domain.WeekKey{}, false
		}
		return key, true
	}

	week, errW := strconv.Atoi(weekStr)
	year, errY := strconv.Atoi(yearStr)
	if errW != nil || errY != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "week and year must both be integers"})
		return domain.WeekKey{}, false
	}
	return domain.WeekKey{Week: week, Year: year}, true
}

func recordedAtParam(c *gin.Context, raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recorded_at format, use RFC3339"})
		return time.Time{}, false
	}
	return t, true
}

type addInfoRequest struct {
	ProspectName string `json:"prospect_name" binding:"required"`
	Response     string `json:"response" binding:"required"`
	Type         string `json:"info_type"`
	Comments     string `json:"comments"`
	RecordedAt   string `json:"recorded_at"`
}

func (h *ActivityHandler) AddInfo(c *gin.Context) {
	actorID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	var req addInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recordedAt, ok := recordedAtParam(c, req.RecordedAt)
	if !ok {
		return
	}

	info, err := h.svc.AddInfo(c.Request.Context(), services.AddInfoInput{
		ActorID:      actorID,
		TargetID:     c.Param("id"),
		ProspectName: req.ProspectName,
		Response:     domain.InfoResponse(req.Response),
		Type:         domain.InfoType(req.Type),
		Comments:     req.Comments,
		RecordedAt:   recordedAt,
	})
	if err != nil {
		respondActivityError(c, err)
		return
	}

	c.JSON(http.StatusCreated, info)
}

type updateInfoRequest struct {
	ProspectName string  `json:"prospect_name"`
	Response     string  `json:"response"`
	Type         string  `json:"info_type"`
	Comments     *string `json:"comments"`
	Version      int     `json:"version" binding:"required"`
}

func (h *ActivityHandler) UpdateInfo(c *gin.Context) {
	actorID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	var req updateInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	info, err := h.svc.UpdateInfo(c.Request.Context(), services.UpdateInfoInput{
		ActorID:      actorID,
		InfoID:       c.Param("id"),
		ProspectName: req.ProspectName,
		Response:     domain.InfoResponse(req.Response),
		Type:         domain.InfoType(req.Type),
		Comments:     req.Comments,
		Version:      req.Version,
	})
	if err != nil {
		respondActivityError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

func (h *ActivityHandler) DeleteInfo(c *gin.Context) {
	actorID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	if err := h.svc.DeleteInfo(c.Request.Context(), actorID, c.Param("id")); err != nil {
		respondActivityError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ActivityHandler) ListInfos(c *gin.Context) {
	actorID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	key, ok := weekKeyParam(c, h.svc.CurrentWeek)
	if !ok {
		return
	}

	infos, err := h.svc.ListInfos(c.Request.Context(), actorID, c.Param("id"), key)
	if err != nil {
		respondActivityError(c, err)
		return
	}

	c.JSON(http.StatusOK, infos)
}

type addPlanRequest struct {
	Name       string `json:"plan_name" binding:"required"`
	Status     string `json:"status"`
	Comments   string `json:"comments"`
	RecordedAt string `json:"recorded_at"`
}

func (h *ActivityHandler) AddPlan(c *gin.Context) {
	actorID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	var req addPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recordedAt, ok := recordedAtParam(c, req.RecordedAt)
	if !ok {
		return
	}

	plan, err := h.svc.AddPlan(c.Request.Context(), services.AddPlanInput{
		ActorID:    actorID,
		TargetID:   c.Param("id"),
		Name:       req.Name,
		Status:     domain.PlanStatus(req.Status),
		Comments:   req.Comments,
		RecordedAt: recordedAt,
	})
	if err != nil {
		respondActivityError(c, err)
		return
	}

	c.JSON(http.StatusCreated, plan)
}

type updatePlanRequest struct {
	Name     string  `json:"plan_name"`
	Status   string  `json:"status"`
	Comments *string `json:"comments"`
	Version  int     `json:"version" binding:"required"`
}

func (h *ActivityHandler) UpdatePlan(c *gin.Context) {
	actorID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	var req updatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.svc.UpdatePlan(c.Request.Context(), services.UpdatePlanInput{
		ActorID:  actorID,
		PlanID:   c.Param("id"),
		Name:     req.Name,
		Status:   domain.PlanStatus(req.Status),
		Comments: req.Comments,
		Version:  req.Version,
	})
	if err != nil {
		respondActivityError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

func (h *ActivityHandler) DeletePlan(c *gin.Context) {
	actorID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	if err := h.svc.DeletePlan(c.Request.Context(), actorID, c.Param("id")); err != nil {
		respondActivityError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ActivityHandler) ListPlans(c *gin.Context) {
	actorID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	key, ok := weekKeyParam(c, h.svc.CurrentWeek)
	if !ok {
		return
	}

	plans, err := h.svc.ListPlans(c.Request.Context(), actorID, c.Param("id"), key)
	if err != nil {
		respondActivityError(c, err)
		return
	}

	c.JSON(http.StatusOK, plans)
}

type addUVRequest struct {
	ProspectName string `json:"prospect_name"`
	Count        int    `json:"uv_count" binding:"required"`
	Comments     string `json:"comments"`
	RecordedAt   string `json:"recorded_at"`
}

func (h *ActivityHandler) AddUV(c *gin.Context) {
	actorID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	var req addUVRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recordedAt, ok := recordedAtParam(c, req.RecordedAt)
	if !ok {
		return
	}

	uv, err := h.svc.AddUV(c.Request.Context(), services.AddUVInput{
		ActorID:      actorID,
		TargetID:     c.Param("id"),
		ProspectName: req.ProspectName,
		Count:        req.Count,
		Comments:     req.Comments,
		RecordedAt:   recordedAt,
	})
	if err != nil {
		respondActivityError(c, err)
		return
	}

	c.JSON(http.StatusCreated, uv)
}

func (h *ActivityHandler) DeleteUV(c *gin.Context) {
	actorID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	if err := h.svc.DeleteUV(c.Request.Context(), actorID, c.Param("id")); err != nil {
		respondActivityError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ActivityHandler) ListUVs(c *gin.Context) {
	actorID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	key, ok := weekKeyParam(c, h.svc.CurrentWeek)
	if !ok {
		return
	}

	uvs, err := h.svc.ListUVs(c.Request.Context(), actorID, c.Param("id"), key)
	if err != nil {
		respondActivityError(c, err)
		return
	}

	c.JSON(http.StatusOK, uvs)
}

func respondActivityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrActivityConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "version conflict",
			"message": "Data has been modified elsewhere. Reload and retry.",
		})
	case errors.Is(err, domain.ErrActivityNotFound), errors.Is(err, domain.ErrIRNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed"})
	case errors.Is(err, domain.ErrInvalidWeekKey),
		errors.Is(err, domain.ErrInvalidInstant),
		errors.Is(err, domain.ErrProspectNameEmpty),
		errors.Is(err, domain.ErrInvalidResponse),
		errors.Is(err, domain.ErrInvalidInfoType),
		errors.Is(err, domain.ErrInvalidPlanStatus),
		errors.Is(err, domain.ErrInvalidUVCount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
