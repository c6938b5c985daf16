package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"command-center/internal/catalog"
	"command-center/internal/infrastructure/n8n"
	"command-center/internal/utils/platformerrors"
)

// WorkflowHandler triggers webhook workflows.
type WorkflowHandler struct {
	catalog *catalog.Catalog
	client  *n8n.Client
	log     zerolog.Logger
}

// NewWorkflowHandler wires dependencies for workflow routes.
func NewWorkflowHandler(cat *catalog.Catalog, client *n8n.Client, log zerolog.Logger) *WorkflowHandler {
	return &WorkflowHandler{
		catalog: cat,
		client:  client,
		log:     log.With().Str("component", "workflow_handler").Logger(),
	}
}

type triggerWorkflowRequest struct {
	WorkflowID string         `json:"workflow_id" binding:"required"`
	Parameters map[string]any `json:"parameters"`
}

// List godoc
// @Summary List available workflows
// @Tags n8n
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/n8n/list [get]
func (h *WorkflowHandler) List(c *gin.Context) {
	defs := h.catalog.Workflows()
	workflows := make([]gin.H, 0, len(defs))
	for _, w := range defs {
		parameters := w.Parameters
		if parameters == nil {
			parameters = []catalog.Parameter{}
		}
		workflows = append(workflows, gin.H{
			"id":          w.ID,
			"name":        w.Name,
			"description": w.Description,
			"category":    w.Category,
			"parameters":  parameters,
		})
	}
	c.JSON(200, gin.H{"workflows": workflows})
}

// Trigger godoc
// @Summary Trigger a workflow via its webhook
// @Tags n8n
// @Accept json
// @Produce json
// @Success 200 {object} n8n.TriggerResult
// @Router /api/n8n/trigger [post]
func (h *WorkflowHandler) Trigger(c *gin.Context) {
	var req triggerWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, "workflow_id is required")
		return
	}

	def, err := h.catalog.Workflow(req.WorkflowID)
	if err != nil {
		platformerrors.WriteNotFound(c, err.Error())
		return
	}

	h.log.Info().Str("workflow_id", def.ID).Msg("triggering workflow")
	result, err := h.client.Trigger(c.Request.Context(), def, req.Parameters)
	if err != nil {
		platformerrors.WriteError(c, err)
		return
	}
	c.JSON(200, result)
}
