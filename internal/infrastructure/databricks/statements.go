package databricks

import (
	"context"
	"fmt"
)

// Statement execution wire types (SQL Statement Execution API 2.0).

type StatementColumn struct {
	Name         string `json:"name"`
	TypeText     string `json:"type_text,omitempty"`
	TypeName     string `json:"type_name,omitempty"`
	Position     int    `json:"position,omitempty"`
	TypeInterval string `json:"type_interval_type,omitempty"`
}

type StatementSchema struct {
	ColumnCount int               `json:"column_count,omitempty"`
	Columns     []StatementColumn `json:"columns,omitempty"`
}

type StatementManifest struct {
	Format        string          `json:"format,omitempty"`
	Schema        StatementSchema `json:"schema,omitempty"`
	TotalRowCount int64           `json:"total_row_count,omitempty"`
	Truncated     bool            `json:"truncated,omitempty"`
}

type StatementResult struct {
	RowCount  int64   `json:"row_count,omitempty"`
	DataArray [][]any `json:"data_array,omitempty"`
}

type StatementStatusError struct {
	ErrorCode string `json:"error_code,omitempty"`
	Message   string `json:"message,omitempty"`
}

type StatementStatus struct {
	State string                `json:"state,omitempty"`
	Error *StatementStatusError `json:"error,omitempty"`
}

// StatementResponse is the response of both execute and get statement calls.
type StatementResponse struct {
	StatementID string             `json:"statement_id"`
	Status      *StatementStatus   `json:"status,omitempty"`
	Manifest    *StatementManifest `json:"manifest,omitempty"`
	Result      *StatementResult   `json:"result,omitempty"`
}

// State returns the statement state, defaulting to SUCCEEDED when absent.
func (r *StatementResponse) State() string {
	if r.Status == nil || r.Status.State == "" {
		return "SUCCEEDED"
	}
	return r.Status.State
}

type executeStatementRequest struct {
	WarehouseID string `json:"warehouse_id"`
	Statement   string `json:"statement"`
	WaitTimeout string `json:"wait_timeout"`
	Disposition string `json:"disposition"`
}

// statementWaitTimeout is the synchronous wait passed to the warehouse; the
// API caps it at 50 seconds.
const statementWaitTimeout = "50s"

// ExecuteStatement runs SQL on the given warehouse and waits inline for the
// result.
func (c *Client) ExecuteStatement(ctx context.Context, warehouseID, sql string) (*StatementResponse, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	var out StatementResponse
	resp, err := req.
		SetBody(executeStatementRequest{
			WarehouseID: warehouseID,
			Statement:   sql,
			WaitTimeout: statementWaitTimeout,
			Disposition: "INLINE",
		}).
		SetResult(&out).
		Post(c.url("/api/2.0/sql/statements"))
	if err != nil {
		return nil, wrapTransportError(ctx, err, "execute statement")
	}
	if resp.IsError() {
		return nil, apiError(ctx, resp, "execute statement")
	}
	return &out, nil
}

// GetStatement fetches the current state and inline result of a statement.
func (c *Client) GetStatement(ctx context.Context, statementID string) (*StatementResponse, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	var out StatementResponse
	resp, err := req.
		SetResult(&out).
		Get(c.url(fmt.Sprintf("/api/2.0/sql/statements/%s", statementID)))
	if err != nil {
		return nil, wrapTransportError(ctx, err, "get statement")
	}
	if resp.IsError() {
		return nil, apiError(ctx, resp, "get statement")
	}
	return &out, nil
}

// Envelope materializes the statement's inline result into the uniform
// column/row envelope. maxRows <= 0 means no cap.
func (r *StatementResponse) Envelope(maxRows int) ResultEnvelope {
	var columns []string
	if r.Manifest != nil {
		for _, col := range r.Manifest.Schema.Columns {
			columns = append(columns, col.Name)
		}
	}
	var data [][]any
	if r.Result != nil {
		data = r.Result.DataArray
	}
	if maxRows > 0 && len(data) > maxRows {
		data = data[:maxRows]
	}
	return BuildEnvelope(columns, data)
}
