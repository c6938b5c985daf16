package databricks

import (
	"context"
	"path"
)

// Workspace and identity wire types.

type workspaceObject struct {
	Path       string `json:"path,omitempty"`
	ObjectType string `json:"object_type,omitempty"`
	Language   string `json:"language,omitempty"`
}

type workspaceListResponse struct {
	Objects []workspaceObject `json:"objects,omitempty"`
}

// Notebook is a workspace notebook entry.
type Notebook struct {
	Path     string `json:"path"`
	Name     string `json:"name"`
	Language string `json:"language,omitempty"`
}

// User is the authenticated principal as reported by the workspace.
type User struct {
	UserName    string `json:"userName,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

// ListNotebooks lists notebook objects under a workspace path. Non-notebook
// objects (directories, files, libraries) are filtered out.
func (c *Client) ListNotebooks(ctx context.Context, workspacePath string) ([]Notebook, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	var out workspaceListResponse
	resp, err := req.
		SetQueryParam("path", workspacePath).
		SetResult(&out).
		Get(c.url("/api/2.0/workspace/list"))
	if err != nil {
		return nil, wrapTransportError(ctx, err, "list notebooks")
	}
	if resp.IsError() {
		return nil, apiError(ctx, resp, "list notebooks")
	}

	notebooks := make([]Notebook, 0, len(out.Objects))
	for _, obj := range out.Objects {
		if obj.ObjectType != "NOTEBOOK" {
			continue
		}
		notebooks = append(notebooks, Notebook{
			Path:     obj.Path,
			Name:     path.Base(obj.Path),
			Language: obj.Language,
		})
	}
	return notebooks, nil
}

// CurrentUser resolves the principal the client authenticates as.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	var out User
	resp, err := req.
		SetResult(&out).
		Get(c.url("/api/2.0/preview/scim/v2/Me"))
	if err != nil {
		return nil, wrapTransportError(ctx, err, "get current user")
	}
	if resp.IsError() {
		return nil, apiError(ctx, resp, "get current user")
	}
	return &out, nil
}
