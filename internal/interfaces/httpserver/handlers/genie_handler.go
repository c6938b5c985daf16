package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"command-center/internal/catalog"
	"command-center/internal/infrastructure/databricks"
	"command-center/internal/interfaces/httpserver/middlewares"
	"command-center/internal/utils/platformerrors"
)

// GenieHandler serves natural-language analytics conversations.
type GenieHandler struct {
	factory *databricks.Factory
	catalog *catalog.Catalog
	log     zerolog.Logger
}

// NewGenieHandler wires dependencies for genie routes.
func NewGenieHandler(factory *databricks.Factory, cat *catalog.Catalog, log zerolog.Logger) *GenieHandler {
	return &GenieHandler{
		factory: factory,
		catalog: cat,
		log:     log.With().Str("component", "genie_handler").Logger(),
	}
}

type genieQueryRequest struct {
	Question       string `json:"question" binding:"required"`
	ConversationID string `json:"conversation_id"`
	SpaceID        string `json:"space_id"`
}

type genieQueryResponse struct {
	Answer         string           `json:"answer"`
	ConversationID string           `json:"conversation_id"`
	Status         string           `json:"status"`
	Description    string           `json:"description,omitempty"`
	SQL            string           `json:"sql,omitempty"`
	RowCount       *int             `json:"row_count,omitempty"`
	Rows           []map[string]any `json:"rows,omitempty"`
	MessageID      string           `json:"message_id,omitempty"`
	AttachmentID   string           `json:"attachment_id,omitempty"`
	SpaceID        string           `json:"space_id"`
}

type genieListEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Category    string `json:"category"`
}

// List godoc
// @Summary List available genies
// @Tags genie
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/genie/list [get]
func (h *GenieHandler) List(c *gin.Context) {
	assistants := h.catalog.Assistants()
	genies := make([]genieListEntry, 0, len(assistants))
	for _, a := range assistants {
		genies = append(genies, genieListEntry{
			ID:          a.ID,
			Name:        a.Name,
			Description: a.Description,
			Icon:        a.Icon,
			Category:    a.Category,
		})
	}
	c.JSON(200, gin.H{"genies": genies})
}

// Query godoc
// @Summary Ask a question to a Genie Space
// @Tags genie
// @Accept json
// @Produce json
// @Success 200 {object} genieQueryResponse
// @Router /api/genie/query [post]
func (h *GenieHandler) Query(c *gin.Context) {
	var req genieQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, "question is required")
		return
	}
	if req.SpaceID == "" {
		platformerrors.WriteValidationError(c, "space_id is required")
		return
	}

	ctx := c.Request.Context()
	identity := middlewares.IdentityFromContext(c)
	client, err := h.factory.ClientFor(ctx, identity.Token, databricks.CapabilityGeneral)
	if err != nil {
		platformerrors.WriteError(c, err)
		return
	}

	var msg *databricks.GenieMessage
	if req.ConversationID != "" {
		msg, err = client.ContinueConversation(ctx, req.SpaceID, req.ConversationID, req.Question)
	} else {
		msg, err = client.StartConversation(ctx, req.SpaceID, req.Question)
	}
	if err != nil {
		platformerrors.LogError(h.log, platformerrors.GetPlatformError(err))
		platformerrors.WriteError(c, err)
		return
	}

	outcome := msg.Outcome()
	resp := genieQueryResponse{
		ConversationID: outcome.ConversationID,
		Status:         outcome.Status,
		MessageID:      outcome.MessageID,
		SpaceID:        req.SpaceID,
	}

	switch outcome.Kind {
	case databricks.OutcomeText:
		resp.Answer = outcome.Answer
	case databricks.OutcomeQuery:
		resp.SQL = outcome.SQL
		resp.Description = outcome.Description
		// The text attachment is the preferred answer; the query
		// description is the fallback.
		resp.Answer = outcome.Answer
		if resp.Answer == "" {
			resp.Answer = outcome.Description
		}
		resp.AttachmentID = outcome.StatementID
		if outcome.StatementID != "" {
			stmt, stmtErr := client.GetStatement(ctx, outcome.StatementID)
			if stmtErr != nil {
				// The answer is still useful without materialized rows.
				h.log.Warn().Err(stmtErr).Str("statement_id", outcome.StatementID).
					Msg("failed to materialize query result")
			} else {
				envelope := stmt.Envelope(0)
				resp.Rows = envelope.Rows
				resp.RowCount = &envelope.RowCount
			}
		}
	}

	c.JSON(200, resp)
}
