package databricks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"command-center/internal/utils/platformerrors"
)

// Conversation wire types (Genie API 2.0).

type genieStartRequest struct {
	Content string `json:"content"`
}

type GenieQueryAttachment struct {
	Description string `json:"description,omitempty"`
	Query       string `json:"query,omitempty"`
	StatementID string `json:"statement_id,omitempty"`
}

type GenieTextAttachment struct {
	Content string `json:"content,omitempty"`
}

type GenieAttachment struct {
	AttachmentID string                `json:"attachment_id,omitempty"`
	Query        *GenieQueryAttachment `json:"query,omitempty"`
	Text         *GenieTextAttachment  `json:"text,omitempty"`
}

type GenieQueryResult struct {
	StatementID string `json:"statement_id,omitempty"`
	RowCount    int64  `json:"row_count,omitempty"`
}

// GenieMessage is one message in a conversation, including the assistant's
// attachments once processing completes.
type GenieMessage struct {
	ID             string            `json:"id,omitempty"`
	MessageID      string            `json:"message_id,omitempty"`
	ConversationID string            `json:"conversation_id,omitempty"`
	SpaceID        string            `json:"space_id,omitempty"`
	Status         string            `json:"status,omitempty"`
	Error          *genieError       `json:"error,omitempty"`
	Attachments    []GenieAttachment `json:"attachments,omitempty"`
	QueryResult    *GenieQueryResult `json:"query_result,omitempty"`
}

type genieError struct {
	Type  string `json:"type,omitempty"`
	Error string `json:"error,omitempty"`
}

// ResolvedID returns the message id, tolerating both wire spellings.
func (m *GenieMessage) ResolvedID() string {
	if m.MessageID != "" {
		return m.MessageID
	}
	return m.ID
}

type genieStartResponse struct {
	ConversationID string        `json:"conversation_id,omitempty"`
	MessageID      string        `json:"message_id,omitempty"`
	Message        *GenieMessage `json:"message,omitempty"`
}

// OutcomeKind discriminates the conversation outcome variant.
type OutcomeKind string

const (
	OutcomeText  OutcomeKind = "text"
	OutcomeQuery OutcomeKind = "query"
	OutcomeEmpty OutcomeKind = "empty"
)

// ConversationOutcome is the distilled result of a completed message: either a
// plain text answer, a generated query (with the statement id to materialize
// its rows), or nothing.
type ConversationOutcome struct {
	Kind           OutcomeKind
	ConversationID string
	MessageID      string
	Status         string

	// Text answer fields.
	Answer string

	// Query answer fields.
	SQL         string
	Description string
	StatementID string
	RowCount    int64
}

const (
	genieWaitTimeout  = 60 * time.Second
	geniePollInterval = 2 * time.Second
)

// StartConversation opens a new conversation in the space with the question as
// the first message and waits for the assistant to finish processing it.
func (c *Client) StartConversation(ctx context.Context, spaceID, question string) (*GenieMessage, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	var out genieStartResponse
	resp, err := req.
		SetBody(genieStartRequest{Content: question}).
		SetResult(&out).
		Post(c.url(fmt.Sprintf("/api/2.0/genie/spaces/%s/start-conversation", spaceID)))
	if err != nil {
		return nil, wrapTransportError(ctx, err, "start conversation")
	}
	if resp.IsError() {
		return nil, apiError(ctx, resp, "start conversation")
	}

	conversationID := out.ConversationID
	messageID := out.MessageID
	if out.Message != nil {
		if conversationID == "" {
			conversationID = out.Message.ConversationID
		}
		if messageID == "" {
			messageID = out.Message.ResolvedID()
		}
	}
	if conversationID == "" || messageID == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal,
			"unable to resolve conversation and message ids from upstream response", nil)
	}

	return c.waitForMessage(ctx, spaceID, conversationID, messageID)
}

// ContinueConversation appends a question to an existing conversation and
// waits for processing to finish.
func (c *Client) ContinueConversation(ctx context.Context, spaceID, conversationID, question string) (*GenieMessage, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	var out GenieMessage
	resp, err := req.
		SetBody(genieStartRequest{Content: question}).
		SetResult(&out).
		Post(c.url(fmt.Sprintf("/api/2.0/genie/spaces/%s/conversations/%s/messages", spaceID, conversationID)))
	if err != nil {
		return nil, wrapTransportError(ctx, err, "continue conversation")
	}
	if resp.IsError() {
		return nil, apiError(ctx, resp, "continue conversation")
	}

	messageID := out.ResolvedID()
	if messageID == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal,
			"unable to resolve message id from upstream response", nil)
	}
	return c.waitForMessage(ctx, spaceID, conversationID, messageID)
}

// getMessage fetches the current state of a message.
func (c *Client) getMessage(ctx context.Context, spaceID, conversationID, messageID string) (*GenieMessage, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	var out GenieMessage
	resp, err := req.
		SetResult(&out).
		Get(c.url(fmt.Sprintf("/api/2.0/genie/spaces/%s/conversations/%s/messages/%s", spaceID, conversationID, messageID)))
	if err != nil {
		return nil, wrapTransportError(ctx, err, "get conversation message")
	}
	if resp.IsError() {
		return nil, apiError(ctx, resp, "get conversation message")
	}
	if out.ConversationID == "" {
		out.ConversationID = conversationID
	}
	if out.MessageID == "" && out.ID == "" {
		out.MessageID = messageID
	}
	return &out, nil
}

// waitForMessage polls until the message reaches a terminal state or the wait
// budget runs out.
func (c *Client) waitForMessage(ctx context.Context, spaceID, conversationID, messageID string) (*GenieMessage, error) {
	deadline := time.Now().Add(genieWaitTimeout)
	for {
		msg, err := c.getMessage(ctx, spaceID, conversationID, messageID)
		if err != nil {
			return nil, err
		}

		switch msg.Status {
		case "COMPLETED":
			return msg, nil
		case "FAILED", "CANCELLED", "QUERY_RESULT_EXPIRED":
			detail := msg.Status
			if msg.Error != nil && msg.Error.Error != "" {
				detail = fmt.Sprintf("%s: %s", msg.Status, msg.Error.Error)
			}
			return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
				platformerrors.ErrorTypeExternal,
				fmt.Sprintf("conversation message did not complete (%s)", detail), nil)
		}

		if time.Now().After(deadline) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
				platformerrors.ErrorTypeTimeout,
				"timed out waiting for conversation message to complete", nil)
		}
		select {
		case <-ctx.Done():
			return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
				platformerrors.ErrorTypeTimeout,
				"timed out waiting for conversation message to complete", ctx.Err())
		case <-time.After(geniePollInterval):
		}
	}
}

// Outcome distills a completed message into its tagged outcome variant. A
// query attachment makes the outcome a query; a text attachment supplies the
// answer in either case. Messages carrying both keep the text answer alongside
// the query fields.
func (m *GenieMessage) Outcome() ConversationOutcome {
	outcome := ConversationOutcome{
		Kind:           OutcomeEmpty,
		ConversationID: m.ConversationID,
		MessageID:      m.ResolvedID(),
		Status:         m.Status,
	}
	if m.QueryResult != nil {
		outcome.StatementID = m.QueryResult.StatementID
		outcome.RowCount = m.QueryResult.RowCount
	}

	for _, att := range m.Attachments {
		if att.Query != nil && att.Query.Query != "" && outcome.SQL == "" {
			outcome.Kind = OutcomeQuery
			outcome.SQL = att.Query.Query
			outcome.Description = att.Query.Description
			if outcome.StatementID == "" {
				outcome.StatementID = att.Query.StatementID
			}
		}
		if att.Text != nil && strings.TrimSpace(att.Text.Content) != "" && outcome.Answer == "" {
			outcome.Answer = strings.TrimSpace(att.Text.Content)
		}
	}

	if outcome.Kind == OutcomeEmpty && outcome.Answer != "" {
		outcome.Kind = OutcomeText
	}
	return outcome
}
