package handler

import (
	"net/http"

	"agenda/internal/apperr"
	"agenda/internal/middleware"
	"agenda/internal/model"
	"agenda/internal/service"
	"agenda/internal/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContactHandler handles contact CRUD and the dashboard stats
type ContactHandler struct {
	service service.ContactService
	scoped  bool // false: every caller shares the ownerless address book
	log     *zap.Logger
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(s service.ContactService, scoped bool, log *zap.Logger) *ContactHandler {
	return &ContactHandler{service: s, scoped: scoped, log: log}
}

// owner resolves whose address book the request works on.
func (h *ContactHandler) owner(c *gin.Context) (int64, error) {
	if !h.scoped {
		return model.GlobalOwner, nil
	}
	id, ok := middleware.UserID(c)
	if !ok {
		return 0, apperr.Unauthorized(apperr.MsgTokenMissing)
	}
	return id, nil
}

// ownerAndID also parses the :id path parameter.
func (h *ContactHandler) ownerAndID(c *gin.Context) (int64, int64, error) {
	owner, err := h.owner(c)
	if err != nil {
		return 0, 0, err
	}
	id, err := validation.ID(c.Param("id"))
	if err != nil {
		return 0, 0, err
	}
	return owner, id, nil
}

func (h *ContactHandler) ListContacts(c *gin.Context) {
	owner, err := h.owner(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	contacts, err := h.service.List(c.Request.Context(), owner)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, contacts)
}

func (h *ContactHandler) GetContact(c *gin.Context) {
	owner, id, err := h.ownerAndID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	contact, err := h.service.Get(c.Request.Context(), owner, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) CreateContact(c *gin.Context) {
	owner, err := h.owner(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	fields, photo, done, err := readPayload(c)
	defer done()
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	in, err := validation.Contact(fields)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	contact, err := h.service.Create(c.Request.Context(), owner, in, photo)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Contato criado com sucesso", "id": contact.ID})
}

func (h *ContactHandler) UpdateContact(c *gin.Context) {
	owner, id, err := h.ownerAndID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	fields, photo, done, err := readPayload(c)
	defer done()
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	in, err := validation.Contact(fields)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	if _, err := h.service.Update(c.Request.Context(), owner, id, in, photo); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contato atualizado com sucesso"})
}

func (h *ContactHandler) DeleteContact(c *gin.Context) {
	owner, id, err := h.ownerAndID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), owner, id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ContactHandler) Stats(c *gin.Context) {
	owner, err := h.owner(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	stats, err := h.service.Stats(c.Request.Context(), owner)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// RegisterContactRoutes registers contact and stats routes. authMW is nil
// when contacts are not scoped to users.
func (h *ContactHandler) RegisterContactRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	var mws []gin.HandlerFunc
	if authMW != nil {
		mws = append(mws, authMW)
	}

	contactRoutes := rg.Group("/contacts", mws...)
	{
		contactRoutes.GET("", h.ListContacts)
		contactRoutes.POST("", h.CreateContact)
		contactRoutes.GET("/:id", h.GetContact)
		contactRoutes.PUT("/:id", h.UpdateContact)
		contactRoutes.DELETE("/:id", h.DeleteContact)
	}
	rg.GET("/stats", append(mws, h.Stats)...)
}
