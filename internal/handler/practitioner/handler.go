package practitioner

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hms-api/internal/handler"
	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/internal/service/practitioner"
)

type Handler struct {
	service practitioner.PractitionerService
}

func NewHandler(service practitioner.PractitionerService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	practitioners := r.Group("/practitioners")
	{
		practitioners.GET("", h.ListPractitioners)
		practitioners.POST("", h.CreatePractitioner)
		practitioners.DELETE("/:id", h.DeletePractitioner)
	}
}

func (h *Handler) ListPractitioners(c *gin.Context) {
	practitioners, err := h.service.ListPractitioners(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, practitioners)
}

func (h *Handler) CreatePractitioner(c *gin.Context) {
	var req model.CreatePractitionerRequest
	if err := handler.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	created, err := h.service.CreatePractitioner(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, created)
}

func (h *Handler) DeletePractitioner(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.service.DeletePractitioner(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, model.DeleteResult{Success: true})
}
