package databricks

// ResultEnvelope is the uniform tabular result returned to the dashboard.
// RowCount always equals len(Rows) and every row carries exactly the keys in
// Columns, padding short upstream rows with nil.
type ResultEnvelope struct {
	Columns  []string         `json:"columns"`
	Rows     []map[string]any `json:"rows"`
	RowCount int              `json:"row_count"`
}

// BuildEnvelope converts positional result data into named rows.
func BuildEnvelope(columns []string, data [][]any) ResultEnvelope {
	rows := make([]map[string]any, 0, len(data))
	for _, raw := range data {
		row := make(map[string]any, len(columns))
		for i, name := range columns {
			if i < len(raw) {
				row[name] = raw[i]
			} else {
				row[name] = nil
			}
		}
		rows = append(rows, row)
	}
	return ResultEnvelope{
		Columns:  columns,
		Rows:     rows,
		RowCount: len(rows),
	}
}
