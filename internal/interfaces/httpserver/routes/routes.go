package routes

import (
	"github.com/gin-gonic/gin"

	"command-center/internal/interfaces/httpserver/handlers"
	"command-center/internal/interfaces/httpserver/middlewares"
)

// Provider encapsulates API route registration.
type Provider struct {
	handlers *handlers.Provider
	devMode  bool
}

// NewProvider builds the API route registrar.
func NewProvider(handlerProvider *handlers.Provider, devMode bool) *Provider {
	return &Provider{
		handlers: handlerProvider,
		devMode:  devMode,
	}
}

// Register attaches all API routes under the /api prefix. Every route
// requires a forwarded user token unless dev mode is active; the handlers
// then decide per capability whether the call runs on behalf of the user or
// the service identity.
func (p *Provider) Register(engine *gin.Engine) {
	api := engine.Group("/api")
	api.Use(middlewares.RequireAuthenticated(p.devMode))

	genie := api.Group("/genie")
	{
		genie.GET("/list", p.handlers.Genie.List)
		genie.POST("/query", p.handlers.Genie.Query)
	}

	sql := api.Group("/sql")
	{
		sql.GET("/list", p.handlers.SQL.List)
		sql.GET("/config/:query_id", p.handlers.SQL.Config)
		sql.POST("/execute", p.handlers.SQL.Execute)
		sql.POST("/execute/:query_id", p.handlers.SQL.ExecuteByID)
		sql.POST("/execute-raw", p.handlers.SQL.ExecuteRaw)
	}

	n8n := api.Group("/n8n")
	{
		n8n.GET("/list", p.handlers.Workflow.List)
		n8n.POST("/trigger", p.handlers.Workflow.Trigger)
	}

	tableau := api.Group("/tableau")
	{
		tableau.GET("/list", p.handlers.Dashboard.List)
		tableau.GET("/config/:dashboard_id", p.handlers.Dashboard.Config)
	}

	jobs := api.Group("/jobs")
	{
		jobs.POST("/trigger", p.handlers.Jobs.Trigger)
		jobs.GET("/status/:run_id", p.handlers.Jobs.Status)
		jobs.GET("/output/:run_id", p.handlers.Jobs.Output)
		jobs.DELETE("/cancel/:run_id", p.handlers.Jobs.Cancel)
		jobs.GET("/job/:job_id", p.handlers.Jobs.Details)
		jobs.POST("/execute-notebook", p.handlers.Jobs.ExecuteNotebook)
		jobs.GET("/notebooks", p.handlers.Jobs.Notebooks)
	}

	widgets := api.Group("/widgets")
	{
		widgets.GET("/me", p.handlers.Widget.Me)
		widgets.GET("/popularity", p.handlers.Telemetry.Popularity)
		widgets.GET("/custom", p.handlers.Widget.List)
		widgets.POST("/custom", p.handlers.Widget.Create)
		widgets.PUT("/custom/:widget_id", p.handlers.Widget.Update)
		widgets.DELETE("/custom/:widget_id", p.handlers.Widget.Delete)
		widgets.POST("/:widget_id/run", p.handlers.Telemetry.RecordRun)
	}

	actions := api.Group("/actions")
	{
		actions.GET("", p.handlers.Telemetry.ListActions)
		actions.POST("/log", p.handlers.Telemetry.LogAction)
	}

	studio := api.Group("/studio")
	{
		studio.POST("/generate", p.handlers.Studio.Generate)
		studio.POST("/datasource/test", p.handlers.Studio.TestDataSource)
	}
}
