package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"resty.dev/v3"

	"command-center/internal/infrastructure/databricks"
	"command-center/internal/interfaces/httpserver/middlewares"
)

func newGenieRouter(t *testing.T, host string) *gin.Engine {
	t.Helper()
	factory := databricks.NewFactory(host, "", "", false, false, resty.New())
	handler := NewGenieHandler(factory, mustCatalog(t), zerolog.Nop())

	engine := gin.New()
	engine.Use(middlewares.ForwardedToken(zerolog.Nop()))
	engine.GET("/api/genie/list", handler.List)
	engine.POST("/api/genie/query", handler.Query)
	return engine
}

func TestGenieListReturnsBoundAssistants(t *testing.T) {
	engine := newGenieRouter(t, "https://workspace.example.com")
	w := doJSON(engine, http.MethodGet, "/api/genie/list", "", "token")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Genies []genieListEntry `json:"genies"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Genies)
	for _, g := range body.Genies {
		require.NotEmpty(t, g.ID)
		require.NotEmpty(t, g.Name)
	}
}

func TestGenieQueryValidation(t *testing.T) {
	engine := newGenieRouter(t, "https://workspace.example.com")

	w := doJSON(engine, http.MethodPost, "/api/genie/query", `{}`, "token")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "question is required")

	w = doJSON(engine, http.MethodPost, "/api/genie/query", `{"question":"how many shipments?"}`, "token")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "space_id is required")
}

func TestGenieQueryWithoutTokenFailsBeforeUpstream(t *testing.T) {
	var upstreamCalls atomic.Int64
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamCalls.Add(1)
	}))
	defer upstream.Close()

	engine := newGenieRouter(t, upstream.URL)
	w := doJSON(engine, http.MethodPost, "/api/genie/query",
		`{"question":"how many shipments?","space_id":"space-1"}`, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Zero(t, upstreamCalls.Load())
}

func TestGenieQueryTextAnswerFlow(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/2.0/genie/spaces/space-1/start-conversation":
			w.Write([]byte(`{"conversation_id":"conv-1","message_id":"msg-1"}`))
		case r.Method == http.MethodGet && r.URL.Path == "/api/2.0/genie/spaces/space-1/conversations/conv-1/messages/msg-1":
			w.Write([]byte(`{
				"id":"msg-1",
				"conversation_id":"conv-1",
				"status":"COMPLETED",
				"attachments":[{"text":{"content":"There are 42 shipments."}}]
			}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer upstream.Close()

	engine := newGenieRouter(t, upstream.URL)
	w := doJSON(engine, http.MethodPost, "/api/genie/query",
		`{"question":"how many shipments?","space_id":"space-1"}`, "user-token")
	require.Equal(t, http.StatusOK, w.Code)

	var body genieQueryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "There are 42 shipments.", body.Answer)
	require.Equal(t, "conv-1", body.ConversationID)
	require.Equal(t, "COMPLETED", body.Status)
	require.Equal(t, "space-1", body.SpaceID)
}

func TestGenieQueryPermissionDenied(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error_code":"PERMISSION_DENIED","message":"no access to space"}`))
	}))
	defer upstream.Close()

	engine := newGenieRouter(t, upstream.URL)
	w := doJSON(engine, http.MethodPost, "/api/genie/query",
		`{"question":"how many shipments?","space_id":"space-1"}`, "user-token")
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Contains(t, w.Body.String(), "Permission denied")
	require.Contains(t, w.Body.String(), "contact your administrator")
}
