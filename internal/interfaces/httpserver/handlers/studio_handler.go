package handlers

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"resty.dev/v3"

	"command-center/internal/infrastructure/databricks"
	"command-center/internal/interfaces/httpserver/middlewares"
	"command-center/internal/utils/platformerrors"
)

// studioSystemPrompt steers the model-serving endpoint toward emitting a
// single self-contained dashboard component.
const studioSystemPrompt = `You are an expert frontend engineer generating dashboard widgets.
Produce exactly one self-contained React component in TypeScript (TSX) inside a single fenced code block tagged tsx.
The component receives its configuration via props.data and must fetch data through props.data.dataSource when one is configured.
Use only the standard library of the browser plus React; no external imports.
After the code block, explain briefly what the widget does.`

var (
	taggedCodeBlock  = regexp.MustCompile("(?is)```(?:tsx|jsx|typescript|javascript|ts|js)\n(.*?)```")
	labeledCodeBlock = regexp.MustCompile("(?s)```[a-zA-Z]+\n(.*?)```")
	openCodeBlock    = regexp.MustCompile("(?is)```(?:tsx|jsx|typescript|javascript|ts|js)\n(.*)")
	fenceEdges       = regexp.MustCompile("(?m)^```[a-zA-Z]*\n?|\n?```$")
	limitClause      = regexp.MustCompile(`(?i)\bLIMIT\b`)
)

// StudioHandler generates widget code against the platform's model-serving
// endpoints and probes candidate data sources.
type StudioHandler struct {
	factory     *databricks.Factory
	http        *resty.Client
	warehouseID string
	model       string
	log         zerolog.Logger
}

// NewStudioHandler wires dependencies for agent studio routes.
func NewStudioHandler(factory *databricks.Factory, httpClient *resty.Client, warehouseID, model string, log zerolog.Logger) *StudioHandler {
	return &StudioHandler{
		factory:     factory,
		http:        httpClient,
		warehouseID: warehouseID,
		model:       model,
		log:         log.With().Str("component", "studio_handler").Logger(),
	}
}

type studioMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type generateRequest struct {
	Prompt           string          `json:"prompt" binding:"required"`
	History          []studioMessage `json:"history"`
	ErrorLog         string          `json:"error_log"`
	CurrentCode      string          `json:"current_code"`
	DataSourceSchema map[string]any  `json:"data_source_schema"`
	DataSource       string          `json:"data_source"`
	DataSourceType   string          `json:"data_source_type"`
}

type datasourceTestRequest struct {
	DataSourceType string `json:"data_source_type" binding:"required"`
	DataSource     string `json:"data_source" binding:"required"`
}

// Generate godoc
// @Summary Generate widget code from a prompt
// @Tags studio
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/studio/generate [post]
func (h *StudioHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, "prompt is required")
		return
	}

	ctx := c.Request.Context()
	identity := middlewares.IdentityFromContext(c)

	// Generation runs against the platform's own serving endpoints, so it
	// always uses the service identity.
	client, err := h.factory.ClientFor(ctx, identity.Token, databricks.CapabilityStrictService)
	if err != nil {
		platformerrors.WriteError(c, err)
		return
	}
	token, err := client.Token(ctx)
	if err != nil {
		platformerrors.WriteError(c, err)
		return
	}

	system := studioSystemPrompt
	if req.ErrorLog != "" {
		system += fmt.Sprintf("\n\nPrevious attempt failed with error:\n%s\nPlease fix the issue.", req.ErrorLog)
	}
	if req.CurrentCode != "" {
		system += fmt.Sprintf("\n\nHere is the CURRENT state of the widget code:\n```tsx\n%s\n```\nModify this code according to the user's instructions.", req.CurrentCode)
	}
	if req.DataSource != "" {
		label := "API endpoint URL"
		if req.DataSourceType == "sql" {
			label = "SQL query"
		}
		system += fmt.Sprintf("\n\nThe widget has a configured data source (%s):\n```\n%s\n```\nYou MUST use `props.data.dataSource` directly in your fetch/query call; do NOT hardcode the SQL or URL.", label, req.DataSource)
	}
	if len(req.DataSourceSchema) > 0 {
		schemaJSON, _ := json.MarshalIndent(req.DataSourceSchema, "", "  ")
		system += fmt.Sprintf("\n\nThe data source returns the following schema (use these exact field names in your component):\n```json\n%s\n```", schemaJSON)
	}

	messages := []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleSystem, Content: system}}
	for _, m := range req.History {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt})

	llmConfig := openai.DefaultConfig(token)
	llmConfig.BaseURL = client.Host() + "/serving-endpoints"
	llm := openai.NewClientWithConfig(llmConfig)

	completion, err := llm.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       h.model,
		Messages:    messages,
		Temperature: 0.1,
		MaxTokens:   4096,
	})
	if err != nil {
		platformerrors.WriteError(c, platformerrors.NewError(ctx, platformerrors.LayerHandler,
			platformerrors.ErrorTypeExternal, "widget generation failed: "+err.Error(), err))
		return
	}
	if len(completion.Choices) == 0 {
		platformerrors.WriteTypedError(c, platformerrors.ErrorTypeExternal,
			"widget generation returned no choices")
		return
	}

	content := completion.Choices[0].Message.Content
	code, explanation := extractCodeBlock(content)
	c.JSON(200, gin.H{"code": code, "explanation": explanation, "raw": content})
}

// extractCodeBlock pulls the generated component out of the model reply,
// preferring explicitly tagged blocks and tolerating truncated output.
func extractCodeBlock(content string) (string, string) {
	match := taggedCodeBlock.FindStringSubmatchIndex(content)
	if match == nil {
		match = labeledCodeBlock.FindStringSubmatchIndex(content)
	}
	if match != nil {
		code := strings.TrimSpace(content[match[2]:match[3]])
		explanation := strings.TrimSpace(content[:match[0]] + content[match[1]:])
		return fenceEdges.ReplaceAllString(code, ""), explanation
	}

	if partial := openCodeBlock.FindStringSubmatchIndex(content); partial != nil {
		code := strings.TrimSpace(content[partial[2]:partial[3]])
		explanation := strings.TrimSpace(content[:partial[0]])
		return fenceEdges.ReplaceAllString(code, ""), explanation
	}

	return "", strings.TrimSpace(content)
}

// TestDataSource godoc
// @Summary Probe a widget data source and report its schema
// @Tags studio
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/studio/datasource/test [post]
func (h *StudioHandler) TestDataSource(c *gin.Context) {
	var req datasourceTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, "data_source_type and data_source are required")
		return
	}

	switch req.DataSourceType {
	case "api":
		h.testAPISource(c, req.DataSource)
	case "sql":
		h.testSQLSource(c, req.DataSource)
	default:
		platformerrors.WriteValidationError(c, "Unknown data source type: "+req.DataSourceType)
	}
}

func (h *StudioHandler) testAPISource(c *gin.Context, url string) {
	resp, err := h.http.R().SetContext(c.Request.Context()).Get(url)
	if err != nil {
		platformerrors.WriteValidationError(c, "API request failed: "+err.Error())
		return
	}
	if resp.IsError() {
		platformerrors.WriteValidationError(c, "API request failed: "+resp.Status())
		return
	}

	var data any
	if err := json.Unmarshal(resp.Bytes(), &data); err != nil {
		platformerrors.WriteValidationError(c, "API request failed: response is not JSON")
		return
	}

	sample := data
	if list, ok := data.([]any); ok && len(list) > 2 {
		sample = list[:2]
	}
	c.JSON(200, gin.H{"schema": schemaFromJSON(data), "sample": sample})
}

func (h *StudioHandler) testSQLSource(c *gin.Context, sql string) {
	if h.warehouseID == "" {
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

	// Wrap in a LIMIT 1 probe unless the query already limits itself.
	probe := strings.TrimRight(strings.TrimSpace(sql), ";")
	if !limitClause.MatchString(probe) {
		probe = fmt.Sprintf("SELECT * FROM (%s) AS _schema_probe LIMIT 1", probe)
	}

	stmt, err := client.ExecuteStatement(ctx, h.warehouseID, probe)
	if err != nil {
		if platformerrors.IsErrorType(err, platformerrors.ErrorTypeUnauthorized) {
			platformerrors.WriteError(c, err)
			return
		}
		platformerrors.WriteValidationError(c, "SQL query failed: "+err.Error())
		return
	}

	envelope := stmt.Envelope(5)
	schema := make(map[string]string, len(envelope.Columns))
	for _, col := range envelope.Columns {
		schema[col] = "string"
		if len(envelope.Rows) > 0 && envelope.Rows[0][col] != nil {
			schema[col] = jsonTypeName(envelope.Rows[0][col])
		}
	}
	c.JSON(200, gin.H{"schema": schema, "sample": envelope.Rows})
}

// schemaFromJSON infers field type names from a decoded JSON payload.
func schemaFromJSON(data any) map[string]string {
	switch v := data.(type) {
	case []any:
		if len(v) == 0 {
			return map[string]string{}
		}
		if obj, ok := v[0].(map[string]any); ok {
			return schemaFromObject(obj)
		}
		return map[string]string{"value": jsonTypeName(v[0])}
	case map[string]any:
		return schemaFromObject(v)
	default:
		return map[string]string{"data": jsonTypeName(data)}
	}
}

func schemaFromObject(obj map[string]any) map[string]string {
	schema := make(map[string]string, len(obj))
	for k, v := range obj {
		if v == nil {
			schema[k] = "string"
			continue
		}
		schema[k] = jsonTypeName(v)
	}
	return schema
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case float64, int, int64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "string"
	}
}
