package handler

import (
	"net/http"

	"agenda/internal/service"
	"agenda/internal/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	service service.AuthService
	log     *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{service: s, log: log}
}

func (h *AuthHandler) Register(c *gin.Context) {
	fields, photo, done, err := readPayload(c)
	defer done()
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	in, err := validation.Registration(fields)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	user, err := h.service.Register(c.Request.Context(), in, photo)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Usuário cadastrado com sucesso",
		"id":      user.ID,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	fields, _, done, err := readPayload(c)
	defer done()
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	email, password := validation.Login(fields)
	user, token, err := h.service.Login(c.Request.Context(), email, password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := gin.H{
		"token": token,
		"name":  user.Name,
	}
	if user.PhotoPath != nil {
		resp["photo_path"] = *user.PhotoPath
	}
	c.JSON(http.StatusOK, resp)
}

// RegisterAuthRoutes registers auth routes
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}
}
