package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dreamersunited/fieldline/internal/adapters/handler/http/middleware"
	"github.com/dreamersunited/fieldline/internal/core/domain"
	"github.com/dreamersunited/fieldline/internal/core/services"
)

type TeamHandler struct {
	svc *services.TeamService
}

func NewTeamHandler(svc *services.TeamService) *TeamHandler {
	return &TeamHandler{svc: svc}
}

func (h *TeamHandler) RegisterRoutes(router *gin.RouterGroup) {
	teams := router.Group("/teams")
	{
		teams.POST("", h.Create)
		teams.GET("", h.List)
		teams.GET("/:id", h.Get)
		teams.PUT("/:id", h.Rename)
		teams.DELETE("/:id", h.Delete)

		teams.GET("/:id/members", h.ListMembers)
		teams.POST("/:id/members", h.AddMember)
		teams.DELETE("/:id/members/:irID", h.RemoveMember)

		teams.GET("/:id/pockets", h.ListPockets)
		teams.POST("/:id/pockets", h.CreatePocket)
	}

	pockets := router.Group("/pockets")
	{
		pockets.DELETE("/:id", h.DeletePocket)
		pockets.GET("/:id/members", h.ListPocketMembers)
		pockets.POST("/:id/members", h.AddPocketMember)
		pockets.DELETE("/:id/members/:irID", h.RemovePocketMember)
	}
}

type teamNameRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *TeamHandler) Create(c *gin.Context) {
	actorID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	var req teamNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	team, err := h.svc.Create(c.Request.Context(), actorID, req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrTeamNameEmpty) || errors.Is(err, domain.ErrTeamNameTooLong) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusCreated, team)
}

func (h *TeamHandler) List(c *gin.Context) {
	actorID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	teams, err := h.svc.List(c.Request.Context(), actorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, teams)
}

func (h *TeamHandler) Get(c *gin.Context) {
	actorID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	team, err := h.svc.Get(c.Request.Context(), actorID, c.Param("id"))
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, team)
}

func (h *TeamHandler) Rename(c *gin.Context) {
	actorID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	var req teamNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	team, err := h.svc.Rename(c.Request.Context(), actorID, c.Param("id"), req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrTeamNameEmpty) || errors.Is(err, domain.ErrTeamNameTooLong) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, team)
}

func (h *TeamHandler) Delete(c *gin.Context) {
	actorID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), actorID, c.Param("id")); err != nil {
		respondTeamError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TeamHandler) ListMembers(c *gin.Context) {
	actorID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	members, err := h.svc.ListMembers(c.Request.Context(), actorID, c.Param("id"))
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, members)
}

type addMemberRequest struct {
	IRID string `json:"ir_id" binding:"required"`
	Role string `json:"role"`
}

func (h *TeamHandler) AddMember(c *gin.Context) {
	actorID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := h.svc.AddMember(c.Request.Context(), actorID, c.Param("id"), req.IRID, domain.TeamRole(req.Role))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTeamRole) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusCreated, member)
}

func (h *TeamHandler) RemoveMember(c *gin.Context) {
	actorID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	if err := h.svc.RemoveMember(c.Request.Context(), actorID, c.Param("id"), c.Param("irID")); err != nil {
		respondTeamError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TeamHandler) ListPockets(c *gin.Context) {
	actorID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	pockets, err := h.svc.ListPockets(c.Request.Context(), actorID, c.Param("id"))
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, pockets)
}

func (h *TeamHandler) CreatePocket(c *gin.Context) {
	actorID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	var req teamNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pocket, err := h.svc.CreatePocket(c.Request.Context(), actorID, c.Param("id"), req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrTeamNameEmpty) || errors.Is(err, domain.ErrTeamNameTooLong) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusCreated, pocket)
}

func (h *TeamHandler) DeletePocket(c *gin.Context) {
	actorID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	if err := h.svc.DeletePocket(c.Request.Context(), actorID, c.Param("id")); err != nil {
		respondTeamError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TeamHandler) ListPocketMembers(c *gin.Context) {
	actorID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	members, err := h.svc.ListPocketMembers(c.Request.Context(), actorID, c.Param("id"))
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, members)
}

type addPocketMemberRequest struct {
	IRID   string `json:"ir_id" binding:"required"`
	IsHead bool   `json:"is_head"`
}

func (h *TeamHandler) AddPocketMember(c *gin.Context) {
	actorID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	var req addPocketMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := h.svc.AddPocketMember(c.Request.Context(), actorID, c.Param("id"), req.IRID, req.IsHead)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusCreated, member)
}

func (h *TeamHandler) RemovePocketMember(c *gin.Context) {
	actorID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	if err := h.svc.RemovePocketMember(c.Request.Context(), actorID, c.Param("id"), c.Param("irID")); err != nil {
		respondTeamError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondTeamError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrTeamNotFound),
		errors.Is(err, domain.ErrPocketNotFound),
		errors.Is(err, domain.ErrIRNotFound),
		errors.Is(err, domain.ErrNotMember),
		errors.Is(err, domain.ErrNotPocketMember):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrAlreadyMember),
		errors.Is(err, domain.ErrAlreadyInPocket),
		errors.Is(err, domain.ErrPocketNameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
