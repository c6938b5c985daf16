package handlers

import (
	"github.com/gin-gonic/gin"

	"command-center/internal/catalog"
	"command-center/internal/utils/platformerrors"
)

// DashboardHandler serves embedded dashboard configuration.
type DashboardHandler struct {
	catalog   *catalog.Catalog
	serverURL string
}

// NewDashboardHandler wires dependencies for dashboard routes.
func NewDashboardHandler(cat *catalog.Catalog, serverURL string) *DashboardHandler {
	return &DashboardHandler{
		catalog:   cat,
		serverURL: serverURL,
	}
}

// List godoc
// @Summary List available dashboards
// @Tags tableau
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/tableau/list [get]
func (h *DashboardHandler) List(c *gin.Context) {
	defs := h.catalog.Dashboards()
	dashboards := make([]gin.H, 0, len(defs))
	for _, d := range defs {
		dashboards = append(dashboards, gin.H{
			"id":              d.ID,
			"name":            d.Name,
			"description":     d.Description,
			"category":        d.Category,
			"dashboard_url":   d.FullURL(h.serverURL),
			"default_filters": d.DefaultFilters,
			"toolbar":         d.Toolbar,
			"tabs":            d.Tabs,
		})
	}
	c.JSON(200, gin.H{"dashboards": dashboards})
}

// Config godoc
// @Summary Get dashboard configuration
// @Tags tableau
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/tableau/config/{dashboard_id} [get]
func (h *DashboardHandler) Config(c *gin.Context) {
	d, err := h.catalog.Dashboard(c.Param("dashboard_id"))
	if err != nil {
		platformerrors.WriteNotFound(c, err.Error())
		return
	}
	c.JSON(200, gin.H{
		"id":              d.ID,
		"name":            d.Name,
		"description":     d.Description,
		"dashboard_url":   d.FullURL(h.serverURL),
		"default_filters": d.DefaultFilters,
		"toolbar":         d.Toolbar,
		"tabs":            d.Tabs,
		"device":          d.Device,
	})
}
