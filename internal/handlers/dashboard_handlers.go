package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminDashboard handles GET /admin
func (h *Handlers) AdminDashboard(c *gin.Context) {
	stats, err := h.Admin.Dashboard(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "admin_dashboard.html", gin.H{"Title": "Admin", "Stats": stats})
}
