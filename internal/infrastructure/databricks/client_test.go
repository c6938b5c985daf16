package databricks_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"resty.dev/v3"

	"command-center/internal/infrastructure/databricks"
	"command-center/internal/utils/platformerrors"
)

func newTestClient(host string) *databricks.Client {
	return databricks.NewClient(host, databricks.AuthModeOnBehalfOf, databricks.StaticToken("user-token"), resty.New())
}

func TestExecuteStatementRequestShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/2.0/sql/statements", r.URL.Path)
		require.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "wh-123", body["warehouse_id"])
		require.Equal(t, "SELECT 1", body["statement"])
		require.Equal(t, "50s", body["wait_timeout"])
		require.Equal(t, "INLINE", body["disposition"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"statement_id": "stmt-1",
			"status":       map[string]any{"state": "SUCCEEDED"},
			"manifest": map[string]any{
				"schema": map[string]any{"columns": []map[string]any{{"name": "one"}}},
			},
			"result": map[string]any{"data_array": [][]any{{1}}},
		})
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL).ExecuteStatement(context.Background(), "wh-123", "SELECT 1")
	require.NoError(t, err)
	require.Equal(t, "stmt-1", resp.StatementID)
	require.Equal(t, "SUCCEEDED", resp.State())

	envelope := resp.Envelope(0)
	require.Equal(t, []string{"one"}, envelope.Columns)
	require.Equal(t, 1, envelope.RowCount)
}

func TestUpstreamErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		wantType    platformerrors.ErrorType
		wantMessage string
	}{
		{
			name:        "403 becomes forbidden with guidance",
			status:      http.StatusForbidden,
			wantType:    platformerrors.ErrorTypeForbidden,
			wantMessage: "Permission denied: upstream says no. Please contact your administrator.",
		},
		{
			name:        "404 becomes not found",
			status:      http.StatusNotFound,
			wantType:    platformerrors.ErrorTypeNotFound,
			wantMessage: "upstream says no",
		},
		{
			name:        "401 becomes unauthorized",
			status:      http.StatusUnauthorized,
			wantType:    platformerrors.ErrorTypeUnauthorized,
			wantMessage: "upstream says no",
		},
		{
			name:        "500 becomes external with upstream message",
			status:      http.StatusInternalServerError,
			wantType:    platformerrors.ErrorTypeExternal,
			wantMessage: "upstream says no",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]any{
					"error_code": "SOME_CODE",
					"message":    "upstream says no",
				})
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).ExecuteStatement(context.Background(), "wh-123", "SELECT 1")
			require.Error(t, err)
			require.True(t, platformerrors.IsErrorType(err, tt.wantType))
			require.Contains(t, err.Error(), tt.wantMessage)
		})
	}
}

func TestClientWithoutHostFailsFast(t *testing.T) {
	_, err := newTestClient("").GetStatement(context.Background(), "stmt-1")
	require.Error(t, err)
	require.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal))
	require.Contains(t, err.Error(), "workspace host not configured")
}

func TestListNotebooksFiltersToNotebooks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/2.0/workspace/list", r.URL.Path)
		require.Equal(t, "/Users/someone", r.URL.Query().Get("path"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"objects":[
			{"path":"/Users/someone/etl","object_type":"NOTEBOOK","language":"PYTHON"},
			{"path":"/Users/someone/data","object_type":"DIRECTORY"},
			{"path":"/Users/someone/report","object_type":"NOTEBOOK","language":"SQL"}
		]}`))
	}))
	defer server.Close()

	notebooks, err := newTestClient(server.URL).ListNotebooks(context.Background(), "/Users/someone")
	require.NoError(t, err)
	require.Len(t, notebooks, 2)
	require.Equal(t, "etl", notebooks[0].Name)
	require.Equal(t, "SQL", notebooks[1].Language)
}

func TestGenieOutcomePrecedence(t *testing.T) {
	queryMsg := &databricks.GenieMessage{
		ConversationID: "conv-1",
		MessageID:      "msg-1",
		Status:         "COMPLETED",
		Attachments: []databricks.GenieAttachment{
			{Text: &databricks.GenieTextAttachment{Content: "narrative"}},
			{Query: &databricks.GenieQueryAttachment{
				Query:       "SELECT * FROM shipments",
				Description: "All shipments",
				StatementID: "stmt-att",
			}},
		},
		QueryResult: &databricks.GenieQueryResult{StatementID: "stmt-result", RowCount: 7},
	}

	outcome := queryMsg.Outcome()
	require.Equal(t, databricks.OutcomeQuery, outcome.Kind)
	require.Equal(t, "SELECT * FROM shipments", outcome.SQL)
	require.Equal(t, "All shipments", outcome.Description)
	// A text attachment alongside the query keeps its content as the answer.
	require.Equal(t, "narrative", outcome.Answer)
	// The query result statement id wins over the attachment's.
	require.Equal(t, "stmt-result", outcome.StatementID)
	require.Equal(t, int64(7), outcome.RowCount)

	queryOnly := &databricks.GenieMessage{
		Status: "COMPLETED",
		Attachments: []databricks.GenieAttachment{
			{Query: &databricks.GenieQueryAttachment{
				Query:       "SELECT 1",
				Description: "One",
			}},
		},
	}
	outcome = queryOnly.Outcome()
	require.Equal(t, databricks.OutcomeQuery, outcome.Kind)
	require.Empty(t, outcome.Answer)

	textMsg := &databricks.GenieMessage{
		ID:     "msg-2",
		Status: "COMPLETED",
		Attachments: []databricks.GenieAttachment{
			{Text: &databricks.GenieTextAttachment{Content: "  plain answer \n"}},
		},
	}
	outcome = textMsg.Outcome()
	require.Equal(t, databricks.OutcomeText, outcome.Kind)
	require.Equal(t, "plain answer", outcome.Answer)
	require.Equal(t, "msg-2", outcome.MessageID)

	emptyMsg := &databricks.GenieMessage{Status: "COMPLETED"}
	require.Equal(t, databricks.OutcomeEmpty, emptyMsg.Outcome().Kind)
}
