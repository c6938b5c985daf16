package handlers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractCodeBlockTaggedBlock(t *testing.T) {
	content := "Here is the widget:\n```tsx\nconst Widget = () => <div/>;\nexport default Widget;\n```\nIt renders an empty div."

	code, explanation := extractCodeBlock(content)
	require.Equal(t, "const Widget = () => <div/>;\nexport default Widget;", code)
	require.Contains(t, explanation, "Here is the widget:")
	require.Contains(t, explanation, "It renders an empty div.")
	require.NotContains(t, explanation, "const Widget")
}

func TestExtractCodeBlockFallsBackToAnyLabeledBlock(t *testing.T) {
	content := "```python\nprint('hi')\n```"

	code, explanation := extractCodeBlock(content)
	require.Equal(t, "print('hi')", code)
	require.Empty(t, explanation)
}

func TestExtractCodeBlockPartialUnclosedBlock(t *testing.T) {
	content := "Building the component now.\n```tsx\nconst Widget = () => {\n  return null;"

	code, explanation := extractCodeBlock(content)
	require.Contains(t, code, "const Widget = () => {")
	require.Contains(t, code, "return null;")
	require.Equal(t, "Building the component now.", explanation)
}

func TestExtractCodeBlockNoCode(t *testing.T) {
	code, explanation := extractCodeBlock("  I could not generate a widget for that request.  ")
	require.Empty(t, code)
	require.Equal(t, "I could not generate a widget for that request.", explanation)
}

func TestSchemaFromJSON(t *testing.T) {
	obj := map[string]any{
		"name":   "widget",
		"count":  float64(3),
		"active": true,
		"tags":   []any{"a"},
		"meta":   map[string]any{"k": "v"},
		"owner":  nil,
	}

	schema := schemaFromJSON(obj)
	require.Equal(t, "string", schema["name"])
	require.Equal(t, "number", schema["count"])
	require.Equal(t, "boolean", schema["active"])
	require.Equal(t, "array", schema["tags"])
	require.Equal(t, "object", schema["meta"])
	require.Equal(t, "string", schema["owner"])
}

func TestSchemaFromJSONListUsesFirstElement(t *testing.T) {
	list := []any{
		map[string]any{"id": float64(1), "label": "x"},
		map[string]any{"id": float64(2), "label": "y"},
	}
	schema := schemaFromJSON(list)
	require.Equal(t, "number", schema["id"])
	require.Equal(t, "string", schema["label"])

	require.Empty(t, schemaFromJSON([]any{}))
	require.Equal(t, map[string]string{"value": "string"}, schemaFromJSON([]any{"scalar"}))
	require.Equal(t, map[string]string{"data": "number"}, schemaFromJSON(float64(7)))
}
