package databricks_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"command-center/internal/infrastructure/databricks"
)

func TestBuildEnvelope(t *testing.T) {
	columns := []string{"region", "revenue", "orders"}
	data := [][]any{
		{"EMEA", 1250.5, int64(42)},
		{"APAC", 990.0},
		{},
	}

	envelope := databricks.BuildEnvelope(columns, data)

	require.Equal(t, columns, envelope.Columns)
	require.Equal(t, len(envelope.Rows), envelope.RowCount)
	require.Len(t, envelope.Rows, 3)

	for _, row := range envelope.Rows {
		require.Len(t, row, len(columns))
		for _, col := range columns {
			require.Contains(t, row, col)
		}
	}

	require.Equal(t, "EMEA", envelope.Rows[0]["region"])
	require.Equal(t, int64(42), envelope.Rows[0]["orders"])

	// Short rows pad the trailing columns with nil.
	require.Equal(t, "APAC", envelope.Rows[1]["region"])
	require.Nil(t, envelope.Rows[1]["orders"])
	require.Nil(t, envelope.Rows[2]["region"])
}

func TestBuildEnvelopeEmpty(t *testing.T) {
	envelope := databricks.BuildEnvelope(nil, nil)
	require.Empty(t, envelope.Columns)
	require.Empty(t, envelope.Rows)
	require.Zero(t, envelope.RowCount)
}

func TestStatementEnvelopeRowCap(t *testing.T) {
	resp := &databricks.StatementResponse{
		Manifest: &databricks.StatementManifest{
			Schema: databricks.StatementSchema{
				Columns: []databricks.StatementColumn{{Name: "id"}},
			},
		},
		Result: &databricks.StatementResult{
			DataArray: [][]any{{"a"}, {"b"}, {"c"}},
		},
	}

	capped := resp.Envelope(2)
	require.Equal(t, 2, capped.RowCount)

	uncapped := resp.Envelope(0)
	require.Equal(t, 3, uncapped.RowCount)
}

func TestStatementStateDefaultsToSucceeded(t *testing.T) {
	resp := &databricks.StatementResponse{}
	require.Equal(t, "SUCCEEDED", resp.State())

	resp.Status = &databricks.StatementStatus{State: "FAILED"}
	require.Equal(t, "FAILED", resp.State())
}
