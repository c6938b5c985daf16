// Package databricks implements the upstream analytics-platform client and the
// per-request credential policy that decides between the caller's forwarded
// token and the service's own OAuth identity.
package databricks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"resty.dev/v3"

	"command-center/internal/infrastructure/metrics"
	"command-center/internal/utils/platformerrors"
)

// apiErrorBody is the upstream error payload shape.
type apiErrorBody struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

// Client is a workspace REST client bound to one resolved credential. Clients
// are built per request and never cached or shared across callers.
type Client struct {
	host   string
	mode   AuthMode
	tokens TokenSource
	http   *resty.Client
}

// NewClient builds a workspace client for the given host and token source.
func NewClient(host string, mode AuthMode, tokens TokenSource, httpClient *resty.Client) *Client {
	return &Client{
		host:   strings.TrimRight(host, "/"),
		mode:   mode,
		tokens: tokens,
		http:   httpClient,
	}
}

// Host returns the workspace base URL.
func (c *Client) Host() string { return c.host }

// AuthMode returns the credential decision this client was built with.
func (c *Client) AuthMode() AuthMode { return c.mode }

// Token resolves the bearer token this client authenticates with.
func (c *Client) Token(ctx context.Context) (string, error) {
	return c.tokens.Token(ctx)
}

// request prepares an authenticated request against the workspace.
func (c *Client) request(ctx context.Context) (*resty.Request, error) {
	if c.host == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal,
			"workspace host not configured. Set DATABRICKS_HOST in environment", nil)
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}
	return c.http.R().
		SetContext(ctx).
		SetAuthToken(token), nil
}

// url joins an API path onto the workspace host.
func (c *Client) url(path string) string {
	return c.host + path
}

// wrapTransportError classifies a transport-level failure, distinguishing
// context timeouts from other network errors.
func wrapTransportError(ctx context.Context, err error, operation string) error {
	errType := platformerrors.ErrorTypeExternal
	if ctx.Err() != nil {
		errType = platformerrors.ErrorTypeTimeout
	}
	metrics.RecordUpstreamError(operation, string(errType))
	return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, errType,
		fmt.Sprintf("%s: upstream request failed", operation), err)
}

// apiError maps an upstream error response onto the service taxonomy. A 403
// becomes FORBIDDEN with administrator guidance, a 404 NOT_FOUND, a 401
// UNAUTHORIZED; everything else surfaces as EXTERNAL with the upstream
// message preserved for diagnosis.
func apiError(ctx context.Context, resp *resty.Response, operation string) error {
	message := resp.String()
	var body apiErrorBody
	if err := json.Unmarshal(resp.Bytes(), &body); err == nil && body.Message != "" {
		message = body.Message
	}

	metrics.RecordUpstreamError(operation, resp.Status())

	switch resp.StatusCode() {
	case http.StatusForbidden:
		return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeForbidden,
			fmt.Sprintf("Permission denied: %s. Please contact your administrator.", message),
			nil, map[string]any{"operation": operation})
	case http.StatusNotFound:
		return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("%s: %s", operation, message),
			nil, map[string]any{"operation": operation})
	case http.StatusUnauthorized:
		return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeUnauthorized,
			fmt.Sprintf("%s: %s", operation, message),
			nil, map[string]any{"operation": operation})
	default:
		return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal,
			fmt.Sprintf("%s: %s", operation, message),
			nil, map[string]any{"operation": operation, "status": resp.StatusCode()})
	}
}
