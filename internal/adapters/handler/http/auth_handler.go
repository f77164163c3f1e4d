package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dreamersunited/fieldline/internal/core/domain"
	"github.com/dreamersunited/fieldline/internal/core/services"
)

type AuthHandler struct {
	service *services.AuthService
	tokens  *services.TokenService
}

func NewAuthHandler(service *services.AuthService, tokens *services.TokenService) *AuthHandler {
	return &AuthHandler{
		service: service,
		tokens:  tokens,
	}
}

type registerRequest struct {
	ID          string `json:"ir_id" binding:"required"`
	Name        string `json:"ir_name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	AccessLevel int    `json:"access_level"`
	ParentID    string `json:"parent_ir_id"`
}

type irResponse struct {
	ID          string `json:"ir_id"`
	Name        string `json:"ir_name"`
	Email       string `json:"email"`
	AccessLevel int    `json:"access_level"`
	Role        string `json:"role"`
}

func toIRResponse(ir *domain.IR) irResponse {
	return irResponse{
		ID:          ir.ID,
		Name:        ir.Name,
		Email:       ir.Email,
		AccessLevel: int(ir.AccessLevel),
		Role:        ir.AccessLevel.String(),
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.RegisterInput{
		ID:          req.ID,
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		AccessLevel: req.AccessLevel,
		ParentID:    req.ParentID,
	}

	ir, err := h.service.Register(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrIRIDTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "ir id already registered"})
		case errors.Is(err, domain.ErrIRNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "parent ir not found"})
		case errors.Is(err, domain.ErrInvalidIRID),
			errors.Is(err, domain.ErrInvalidIRName),
			errors.Is(err, domain.ErrInvalidEmail),
			errors.Is(err, domain.ErrPasswordTooShort),
			errors.Is(err, domain.ErrInvalidAccessLevel):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, toIRResponse(ir))
}

type loginRequest struct {
	ID       string `json:"ir_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ir, err := h.service.Login(c.Request.Context(), services.LoginInput{
		ID:       req.ID,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	token, err := h.tokens.GenerateToken(ir.ID)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"ir":    toIRResponse(ir),
	})
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}
}
