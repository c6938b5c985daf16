package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"command-center/internal/catalog"
	"command-center/internal/infrastructure/databricks"
	"command-center/internal/interfaces/httpserver/middlewares"
	"command-center/internal/utils/platformerrors"
)

const defaultRawRowCap = 500

// SQLHandler executes catalog queries and raw SQL on the warehouse.
type SQLHandler struct {
	factory     *databricks.Factory
	catalog     *catalog.Catalog
	warehouseID string
	log         zerolog.Logger
}

// NewSQLHandler wires dependencies for SQL routes.
func NewSQLHandler(factory *databricks.Factory, cat *catalog.Catalog, warehouseID string, log zerolog.Logger) *SQLHandler {
	return &SQLHandler{
		factory:     factory,
		catalog:     cat,
		warehouseID: warehouseID,
		log:         log.With().Str("component", "sql_handler").Logger(),
	}
}

type sqlQueryRequest struct {
	QueryID    string         `json:"query_id" binding:"required"`
	Parameters map[string]any `json:"parameters"`
}

type sqlQueryResponse struct {
	QueryID         string           `json:"query_id"`
	Status          string           `json:"status"`
	Columns         []string         `json:"columns"`
	Rows            []map[string]any `json:"rows"`
	RowCount        int              `json:"row_count"`
	StatementID     string           `json:"statement_id,omitempty"`
	ExecutionTimeMS int64            `json:"execution_time_ms"`
}

type sqlListEntry struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	RefreshInterval int    `json:"refresh_interval,omitempty"`
	HasParameters   bool   `json:"has_parameters"`
}

type rawSQLRequest struct {
	SQL      string `json:"sql"`
	RawQuery string `json:"raw_query"`
	MaxRows  int    `json:"max_rows"`
}

// List godoc
// @Summary List available SQL queries
// @Tags sql
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/sql/list [get]
func (h *SQLHandler) List(c *gin.Context) {
	configured := h.warehouseID != ""

	queries := []sqlListEntry{}
	if configured {
		for _, q := range h.catalog.Queries() {
			queries = append(queries, sqlListEntry{
				ID:              q.ID,
				Name:            q.Name,
				Description:     q.Description,
				Category:        q.Category,
				RefreshInterval: q.RefreshInterval,
				HasParameters:   len(q.Parameters) > 0,
			})
		}
	}
	c.JSON(200, gin.H{
		"queries":              queries,
		"warehouse_configured": configured,
	})
}

// Config godoc
// @Summary Get SQL query configuration
// @Tags sql
// @Produce json
// @Success 200 {object} catalog.QueryDefinition
// @Router /api/sql/config/{query_id} [get]
func (h *SQLHandler) Config(c *gin.Context) {
	def, err := h.catalog.Query(c.Param("query_id"))
	if err != nil {
		platformerrors.WriteNotFound(c, err.Error())
		return
	}
	c.JSON(200, def)
}

// Execute godoc
// @Summary Execute a pre-configured SQL query
// @Tags sql
// @Accept json
// @Produce json
// @Success 200 {object} sqlQueryResponse
// @Router /api/sql/execute [post]
func (h *SQLHandler) Execute(c *gin.Context) {
	var req sqlQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, "query_id is required")
		return
	}
	h.executeQuery(c, req.QueryID, req.Parameters)
}

// ExecuteByID is a convenience variant taking the query id from the path; the
// optional body is a bare parameter map.
func (h *SQLHandler) ExecuteByID(c *gin.Context) {
	var parameters map[string]any
	// Body is optional here.
	_ = c.ShouldBindJSON(&parameters)
	h.executeQuery(c, c.Param("query_id"), parameters)
}

func (h *SQLHandler) executeQuery(c *gin.Context, queryID string, parameters map[string]any) {
	def, err := h.catalog.Query(queryID)
	if err != nil {
		platformerrors.WriteNotFound(c, err.Error())
		return
	}

	sql, missing := substituteParameters(def, parameters)
	if missing != "" {
		platformerrors.WriteValidationError(c, "Missing required parameter: "+missing)
		return
	}

	warehouseID := def.EffectiveWarehouseID(h.warehouseID)
	if warehouseID == "" {
		platformerrors.WriteTypedError(c, platformerrors.ErrorTypeInternal,
			"No SQL Warehouse ID configured. Set SQL_WAREHOUSE_ID in environment")
		return
	}

	ctx := c.Request.Context()
	identity := middlewares.IdentityFromContext(c)
	client, err := h.factory.ClientFor(ctx, identity.Token, databricks.CapabilityGeneral)
	if err != nil {
		platformerrors.WriteError(c, err)
		return
	}

	h.log.Info().Str("query_id", queryID).Msg("executing catalog query")
	started := time.Now()
	stmt, err := client.ExecuteStatement(ctx, warehouseID, sql)
	if err != nil {
		platformerrors.WriteError(c, err)
		return
	}

	envelope := stmt.Envelope(0)
	c.JSON(200, sqlQueryResponse{
		QueryID:         queryID,
		Status:          stmt.State(),
		Columns:         envelope.Columns,
		Rows:            envelope.Rows,
		RowCount:        envelope.RowCount,
		StatementID:     stmt.StatementID,
		ExecutionTimeMS: time.Since(started).Milliseconds(),
	})
}

// ExecuteRaw godoc
// @Summary Execute a raw SQL string on the warehouse
// @Tags sql
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/sql/execute-raw [post]
func (h *SQLHandler) ExecuteRaw(c *gin.Context) {
	var req rawSQLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c,
			"Request body must include a 'sql' field with the SQL query to execute.")
		return
	}

	sql := req.SQL
	if sql == "" {
		sql = req.RawQuery
	}
	if sql == "" {
		platformerrors.WriteValidationError(c,
			"Request body must include a 'sql' field with the SQL query to execute.")
		return
	}

	if h.warehouseID == "" {
		platformerrors.WriteTypedError(c, platformerrors.ErrorTypeInternal,
			"No SQL Warehouse ID configured. Set SQL_WAREHOUSE_ID in environment")
		return
	}

	maxRows := req.MaxRows
	if maxRows <= 0 {
		maxRows = defaultRawRowCap
	}

	ctx := c.Request.Context()
	identity := middlewares.IdentityFromContext(c)
	client, err := h.factory.ClientFor(ctx, identity.Token, databricks.CapabilityGeneral)
	if err != nil {
		platformerrors.WriteError(c, err)
		return
	}

	started := time.Now()
	stmt, err := client.ExecuteStatement(ctx, h.warehouseID, sql)
	if err != nil {
		platformerrors.WriteError(c, err)
		return
	}

	envelope := stmt.Envelope(maxRows)
	c.JSON(200, gin.H{
		"columns":           envelope.Columns,
		"rows":              envelope.Rows,
		"row_count":         envelope.RowCount,
		"statement_id":      stmt.StatementID,
		"execution_time_ms": time.Since(started).Milliseconds(),
	})
}

// substituteParameters fills {name} placeholders from supplied values with
// definition defaults as fallback. It returns the name of the first parameter
// with neither value nor default.
func substituteParameters(def catalog.QueryDefinition, supplied map[string]any) (string, string) {
	sql := def.SQL
	for _, param := range def.Parameters {
		value, ok := supplied[param.Name]
		if !ok || value == nil {
			value = param.Default
		}
		if value == nil {
			return "", param.Name
		}
		sql = strings.ReplaceAll(sql, "{"+param.Name+"}", fmt.Sprint(value))
	}
	return sql, ""
}
