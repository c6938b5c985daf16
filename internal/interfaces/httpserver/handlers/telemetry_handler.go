package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"command-center/internal/domain/telemetry"
	"command-center/internal/utils/platformerrors"
)

// TelemetryHandler records widget runs and action logs.
type TelemetryHandler struct {
	service *telemetry.Service
}

// NewTelemetryHandler wires dependencies for telemetry routes.
func NewTelemetryHandler(service *telemetry.Service) *TelemetryHandler {
	return &TelemetryHandler{service: service}
}

type actionLogRequest struct {
	WidgetID    string `json:"widget_id" binding:"required"`
	WidgetName  string `json:"widget_name"`
	Explanation string `json:"explanation"`
	Context     any    `json:"context"`
}

// RecordRun godoc
// @Summary Record one widget execution
// @Tags widgets
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/widgets/{widget_id}/run [post]
func (h *TelemetryHandler) RecordRun(c *gin.Context) {
	widgetID := c.Param("widget_id")
	if err := h.service.RecordWidgetRun(c.Request.Context(), widgetID); err != nil {
		platformerrors.WriteError(c, err)
		return
	}
	c.JSON(200, gin.H{"status": "success", "widget_id": widgetID})
}

// Popularity godoc
// @Summary Widget run counts
// @Tags widgets
// @Produce json
// @Success 200 {object} map[string]int64
// @Router /api/widgets/popularity [get]
func (h *TelemetryHandler) Popularity(c *gin.Context) {
	scores, err := h.service.PopularityScores(c.Request.Context())
	if err != nil {
		platformerrors.WriteError(c, err)
		return
	}
	c.JSON(200, scores)
}

// LogAction godoc
// @Summary Record a dashboard action
// @Tags actions
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/actions/log [post]
func (h *TelemetryHandler) LogAction(c *gin.Context) {
	var req actionLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, "widget_id is required")
		return
	}

	entry, err := h.service.RecordAction(c.Request.Context(), req.WidgetID, req.WidgetName, req.Explanation, req.Context)
	if err != nil {
		platformerrors.WriteError(c, err)
		return
	}
	c.JSON(200, gin.H{"status": "success", "action_id": entry.ID})
}

// ListActions godoc
// @Summary List recent dashboard actions
// @Tags actions
// @Produce json
// @Success 200 {array} telemetry.ActionLog
// @Router /api/actions [get]
func (h *TelemetryHandler) ListActions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	logs, err := h.service.Actions(c.Request.Context(), limit, offset)
	if err != nil {
		platformerrors.WriteError(c, err)
		return
	}
	c.JSON(200, logs)
}
