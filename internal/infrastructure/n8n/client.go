// Package n8n triggers webhook workflows on an n8n automation host.
package n8n

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"resty.dev/v3"

	"command-center/internal/catalog"
	"command-center/internal/infrastructure/metrics"
	"command-center/internal/utils/platformerrors"
)

// TriggerResult reports a successful webhook invocation.
type TriggerResult struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	WorkflowID     string `json:"workflow_id"`
	ResponseStatus int    `json:"response_status"`
}

// Client invokes workflow webhooks. Relative webhook paths are resolved
// against the configured base URL.
type Client struct {
	baseURL string
	http    *resty.Client
}

// NewClient builds an n8n webhook client.
func NewClient(baseURL string, httpClient *resty.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// Trigger invokes the workflow's webhook with the given parameters. GET
// workflows receive parameters as query values, everything else as a JSON
// body.
func (c *Client) Trigger(ctx context.Context, workflow catalog.WorkflowDefinition, parameters map[string]any) (*TriggerResult, error) {
	url := workflow.FullURL(c.baseURL)
	if parameters == nil {
		parameters = map[string]any{}
	}

	req := c.http.R().SetContext(ctx)

	var resp *resty.Response
	var err error
	if strings.EqualFold(workflow.Method, http.MethodGet) {
		query := make(map[string]string, len(parameters))
		for k, v := range parameters {
			query[k] = fmt.Sprint(v)
		}
		resp, err = req.SetQueryParams(query).Get(url)
	} else {
		resp, err = req.SetBody(parameters).Post(url)
	}

	if err != nil {
		metrics.RecordWorkflowTrigger(workflow.ID, "error")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal, "Failed to trigger workflow: "+err.Error(), err)
	}
	if resp.IsError() {
		metrics.RecordWorkflowTrigger(workflow.ID, "error")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal,
			"Failed to trigger workflow: webhook returned "+resp.Status(), nil)
	}

	metrics.RecordWorkflowTrigger(workflow.ID, "success")
	message := workflow.SuccessMessage
	if message == "" {
		message = "Workflow '" + workflow.Name + "' triggered successfully"
	}
	return &TriggerResult{
		Success:        true,
		Message:        message,
		WorkflowID:     workflow.ID,
		ResponseStatus: resp.StatusCode(),
	}, nil
}
