package session

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hms-api/internal/handler"
	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/internal/service/session"
)

type Handler struct {
	service session.SessionIdentityService
}

func NewHandler(service session.SessionIdentityService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/sessionIdentity", h.GetSessionIdentity)
	r.PUT("/sessionIdentity", h.UpdateSessionIdentity)
}

func (h *Handler) GetSessionIdentity(c *gin.Context) {
	identity, err := h.service.GetSessionIdentity(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	if identity == nil {
		c.JSON(http.StatusOK, handler.Empty)
		return
	}
	c.JSON(http.StatusOK, identity)
}

func (h *Handler) UpdateSessionIdentity(c *gin.Context) {
	var patch model.SessionIdentityPatch
	if err := handler.BindJSON(c, &patch); err != nil {
		_ = c.Error(err)
		return
	}

	merged, err := h.service.UpdateSessionIdentity(c.Request.Context(), &patch)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, merged)
}
