package catalog

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"btoolme/internal/shared/apperr"
	"btoolme/internal/shared/server/respond"
)

// Handler exposes the read-only catalog.
type Handler struct {
	Catalog *Snapshot
}

func NewHandler(snapshot *Snapshot) *Handler {
	return &Handler{Catalog: snapshot}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tools", h.list)
	rg.GET("/tools/:id", h.get)
}

func (h *Handler) list(c *gin.Context) {
	if h.Catalog == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "catalog unavailable", nil)
		return
	}
	tools := h.Catalog.Tools()
	if raw := strings.TrimSpace(c.Query("category")); raw != "" {
		category, ok := ParseCategory(raw)
		if !ok {
			respond.Error(c, http.StatusBadRequest, "validation_error", ErrUnknownCategory.Error(), []apperr.FieldIssue{
				{Field: "category", Issue: "oneof"},
			})
			return
		}
		tools = h.Catalog.ByCategory(category)
	}
	if tools == nil {
		tools = []Tool{}
	}
	respond.OK(c, gin.H{"tools": tools})
}

func (h *Handler) get(c *gin.Context) {
	if h.Catalog == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "catalog unavailable", nil)
		return
	}
	tool, ok := h.Catalog.Get(c.Param("id"))
	if !ok {
		respond.Error(c, http.StatusNotFound, "not_found", ErrNotFound.Error(), nil)
		return
	}
	respond.OK(c, tool)
}
