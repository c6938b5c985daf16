package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"command-center/internal/domain/widget"
	"command-center/internal/infrastructure/databricks"
	"command-center/internal/interfaces/httpserver/middlewares"
	"command-center/internal/utils/platformerrors"
)

// WidgetHandler serves custom widget CRUD with upstream-resolved ownership.
type WidgetHandler struct {
	service *widget.Service
	factory *databricks.Factory
	devMode bool
	log     zerolog.Logger
}

// NewWidgetHandler wires dependencies for custom widget routes.
func NewWidgetHandler(service *widget.Service, factory *databricks.Factory, devMode bool, log zerolog.Logger) *WidgetHandler {
	return &WidgetHandler{
		service: service,
		factory: factory,
		devMode: devMode,
		log:     log.With().Str("component", "widget_handler").Logger(),
	}
}

// currentUsername resolves the caller's upstream username for ownership
// checks. Failures degrade to "dev" in dev mode and "unknown" otherwise so
// legacy rows stay editable.
func (h *WidgetHandler) currentUsername(c *gin.Context) string {
	fallback := "unknown"
	if h.devMode {
		fallback = "dev"
	}

	ctx := c.Request.Context()
	identity := middlewares.IdentityFromContext(c)
	client, err := h.factory.ClientFor(ctx, identity.Token, databricks.CapabilityGeneral)
	if err != nil {
		return fallback
	}
	user, err := client.CurrentUser(ctx)
	if err != nil || user.UserName == "" {
		h.log.Warn().Err(err).Msg("could not resolve current user")
		return fallback
	}
	return user.UserName
}

// Me godoc
// @Summary Current user identity
// @Tags widgets
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/widgets/me [get]
func (h *WidgetHandler) Me(c *gin.Context) {
	c.JSON(200, gin.H{"user": h.currentUsername(c)})
}

// List godoc
// @Summary List custom widgets
// @Tags widgets
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/widgets/custom [get]
func (h *WidgetHandler) List(c *gin.Context) {
	widgets, err := h.service.List(c.Request.Context())
	if err != nil {
		platformerrors.WriteError(c, err)
		return
	}
	c.JSON(200, gin.H{"widgets": widgets})
}

// Create godoc
// @Summary Create a custom widget
// @Tags widgets
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/widgets/custom [post]
func (h *WidgetHandler) Create(c *gin.Context) {
	var w widget.CustomWidget
	if err := c.ShouldBindJSON(&w); err != nil {
		platformerrors.WriteValidationError(c, "invalid widget payload")
		return
	}

	created, err := h.service.Create(c.Request.Context(), &w, h.currentUsername(c))
	if err != nil {
		platformerrors.WriteError(c, err)
		return
	}
	c.JSON(200, gin.H{
		"status":     "success",
		"id":         created.ID,
		"created_by": created.CreatedBy,
	})
}

// Update godoc
// @Summary Update a custom widget
// @Tags widgets
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/widgets/custom/{widget_id} [put]
func (h *WidgetHandler) Update(c *gin.Context) {
	var w widget.CustomWidget
	if err := c.ShouldBindJSON(&w); err != nil {
		platformerrors.WriteValidationError(c, "invalid widget payload")
		return
	}

	if err := h.service.Update(c.Request.Context(), c.Param("widget_id"), &w, h.currentUsername(c)); err != nil {
		platformerrors.WriteError(c, err)
		return
	}
	c.JSON(200, gin.H{"status": "success"})
}

// Delete godoc
// @Summary Delete a custom widget
// @Tags widgets
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/widgets/custom/{widget_id} [delete]
func (h *WidgetHandler) Delete(c *gin.Context) {
	id := c.Param("widget_id")
	if err := h.service.Delete(c.Request.Context(), id, h.currentUsername(c)); err != nil {
		platformerrors.WriteError(c, err)
		return
	}
	c.JSON(200, gin.H{"status": "deleted", "id": id})
}
