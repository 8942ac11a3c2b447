package handler

import (
	"net/http"

	"agenda/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CategoryHandler serves the category catalogue. It is public.
type CategoryHandler struct {
	service service.CategoryService
	log     *zap.Logger
}

func NewCategoryHandler(s service.CategoryService, log *zap.Logger) *CategoryHandler {
	return &CategoryHandler{service: s, log: log}
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) RegisterCategoryRoutes(rg *gin.RouterGroup) {
	rg.GET("/categories", h.ListCategories)
}
