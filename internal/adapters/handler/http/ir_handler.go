package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dreamersunited/fieldline/internal/adapters/handler/http/middleware"
	"github.com/dreamersunited/fieldline/internal/core/domain"
	"github.com/dreamersunited/fieldline/internal/core/services"
)

type IRHandler struct {
	svc *services.IRService
}

func NewIRHandler(svc *services.IRService) *IRHandler {
	return &IRHandler{svc: svc}
}

func (h *IRHandler) RegisterRoutes(router *gin.RouterGroup) {
	irs := router.Group("/irs")
	{
		irs.GET("", h.List)
		irs.GET("/:id", h.Get)
		irs.PUT("/:id", h.Update)
		irs.DELETE("/:id", h.Delete)
		irs.PUT("/:id/access-level", h.ChangeAccessLevel)
		irs.PUT("/:id/parent", h.Reparent)
		irs.GET("/:id/downlines", h.Downlines)
		irs.GET("/:id/tree", h.Tree)
	}
}

func (h *IRHandler) List(c *gin.Context) {
	actorID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	irs, err := h.svc.List(c.Request.Context(), actorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, irs)
}

func (h *IRHandler) Get(c *gin.Context) {
	actorID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	ir, err := h.svc.Get(c.Request.Context(), actorID, c.Param("id"))
	if err != nil {
		respondIRError(c, err)
		return
	}

	c.JSON(http.StatusOK, ir)
}

type updateIRRequest struct {
	Name  string `json:"ir_name"`
	Email string `json:"email"`
}

func (h *IRHandler) Update(c *gin.Context) {
	actorID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	var req updateIRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ir, err := h.svc.UpdateProfile(c.Request.Context(), services.UpdateIRInput{
		ActorID:  actorID,
		TargetID: c.Param("id"),
		Name:     req.Name,
		Email:    req.Email,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidIRName) || errors.Is(err, domain.ErrInvalidEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondIRError(c, err)
		return
	}

	c.JSON(http.StatusOK, ir)
}

type accessLevelRequest struct {
	AccessLevel int `json:"access_level" binding:"required"`
}

func (h *IRHandler) ChangeAccessLevel(c *gin.Context) {
	actorID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	var req accessLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ir, err := h.svc.ChangeAccessLevel(c.Request.Context(), actorID, c.Param("id"), req.AccessLevel)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAccessLevel) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondIRError(c, err)
		return
	}

	c.JSON(http.StatusOK, ir)
}

type reparentRequest struct {
	// Empty means the IR becomes a root.
	ParentID string `json:"parent_ir_id"`
}

func (h *IRHandler) Reparent(c *gin.Context) {
	actorID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	var req reparentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.svc.Reparent(c.Request.Context(), actorID, c.Param("id"), req.ParentID)
	if err != nil {
		if errors.Is(err, domain.ErrCyclicHierarchy) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondIRError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

func (h *IRHandler) Delete(c *gin.Context) {
	actorID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), actorID, c.Param("id")); err != nil {
		respondIRError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *IRHandler) Downlines(c *gin.Context) {
	actorID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	irs, err := h.svc.DirectDownlines(c.Request.Context(), actorID, c.Param("id"))
	if err != nil {
		respondIRError(c, err)
		return
	}

	c.JSON(http.StatusOK, irs)
}

func (h *IRHandler) Tree(c *gin.Context) {
	actorID, ok := middleware.GetIRID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ir context missing"})
		return
	}

	tree, err := h.svc.Tree(c.Request.Context(), actorID, c.Param("id"))
	if err != nil {
		respondIRError(c, err)
		return
	}

	c.JSON(http.StatusOK, tree)
}

// respondIRError maps the errors every IR operation shares.
func respondIRError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrIRNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "ir not found"})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
