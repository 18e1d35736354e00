// README: Health handler reporting which optional backends are wired.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthDeps flags which optional backends were configured at startup.
type HealthDeps struct {
	Maps  bool
	DB    bool
	Redis bool
}

type HealthHandler struct {
	deps HealthDeps
}

func NewHealthHandler(deps HealthDeps) *HealthHandler {
	return &HealthHandler{deps: deps}
}

func (h *HealthHandler) Status(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	writeJSON(c, http.StatusOK, map[string]any{
		"status": "ok",
		"maps":   h.deps.Maps,
		"db":     h.deps.DB,
		"redis":  h.deps.Redis,
	})
}
