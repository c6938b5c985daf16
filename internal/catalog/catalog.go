// Package catalog holds the static widget definitions served to the dashboard:
// SQL queries, webhook workflows, embedded dashboards and conversational
// assistants. Definitions are compiled in and may be replaced or extended by an
// optional YAML overlay file.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned by id lookups for unknown definitions.
var ErrNotFound = errors.New("catalog: definition not found")

// Parameter describes a user-supplied input for a query or workflow.
type Parameter struct {
	Name        string   `json:"name" yaml:"name"`
	Label       string   `json:"label" yaml:"label"`
	Type        string   `json:"type" yaml:"type"`
	Default     any      `json:"default,omitempty" yaml:"default,omitempty"`
	Required    bool     `json:"required,omitempty" yaml:"required,omitempty"`
	Options     []string `json:"options,omitempty" yaml:"options,omitempty"`
	Placeholder string   `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
}

// QueryDefinition describes a SQL warehouse query widget. The SQL text may
// contain {name} placeholders matched against Parameters.
type QueryDefinition struct {
	ID              string         `json:"id" yaml:"id"`
	Name            string         `json:"name" yaml:"name"`
	SQL             string         `json:"sql" yaml:"sql"`
	WarehouseID     string         `json:"warehouse_id,omitempty" yaml:"warehouse_id,omitempty"`
	Description     string         `json:"description" yaml:"description"`
	Category        string         `json:"category" yaml:"category"`
	RefreshInterval int            `json:"refresh_interval,omitempty" yaml:"refresh_interval,omitempty"`
	Parameters      []Parameter    `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	ChartConfig     map[string]any `json:"chart_config,omitempty" yaml:"chart_config,omitempty"`
}

// EffectiveWarehouseID returns the per-query warehouse override or the
// configured default.
func (q QueryDefinition) EffectiveWarehouseID(defaultID string) string {
	if q.WarehouseID != "" {
		return q.WarehouseID
	}
	return defaultID
}

// WorkflowDefinition describes an n8n webhook workflow widget.
type WorkflowDefinition struct {
	ID             string      `json:"id" yaml:"id"`
	Name           string      `json:"name" yaml:"name"`
	WebhookURL     string      `json:"webhook_url" yaml:"webhook_url"`
	Description    string      `json:"description" yaml:"description"`
	Category       string      `json:"category" yaml:"category"`
	Method         string      `json:"method" yaml:"method"`
	Parameters     []Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	SuccessMessage string      `json:"success_message,omitempty" yaml:"success_message,omitempty"`
}

// FullURL resolves a relative webhook path against the configured base URL.
// Absolute URLs pass through unchanged.
func (w WorkflowDefinition) FullURL(base string) string {
	if strings.HasPrefix(w.WebhookURL, "http") {
		return w.WebhookURL
	}
	return base + w.WebhookURL
}

// DashboardDefinition describes an embedded Tableau dashboard widget.
type DashboardDefinition struct {
	ID             string            `json:"id" yaml:"id"`
	Name           string            `json:"name" yaml:"name"`
	DashboardURL   string            `json:"dashboard_url" yaml:"dashboard_url"`
	Description    string            `json:"description" yaml:"description"`
	Category       string            `json:"category" yaml:"category"`
	WorkbookName   string            `json:"workbook_name,omitempty" yaml:"workbook_name,omitempty"`
	ViewName       string            `json:"view_name,omitempty" yaml:"view_name,omitempty"`
	DefaultFilters map[string]string `json:"default_filters,omitempty" yaml:"default_filters,omitempty"`
	Toolbar        bool              `json:"toolbar" yaml:"toolbar"`
	Tabs           bool              `json:"tabs" yaml:"tabs"`
	Device         string            `json:"device" yaml:"device"`
}

// FullURL resolves a relative dashboard path against the Tableau server URL.
func (d DashboardDefinition) FullURL(base string) string {
	if strings.HasPrefix(d.DashboardURL, "http") {
		return d.DashboardURL
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(d.DashboardURL, "/")
}

// AssistantDefinition describes a natural-language analytics assistant bound to
// an upstream conversation space.
type AssistantDefinition struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	SpaceID     string `json:"space_id" yaml:"space_id"`
	Description string `json:"description" yaml:"description"`
	Icon        string `json:"icon" yaml:"icon"`
	Category    string `json:"category" yaml:"category"`
}

// Catalog is the loaded set of widget definitions.
type Catalog struct {
	queries    []QueryDefinition
	workflows  []WorkflowDefinition
	dashboards []DashboardDefinition
	assistants []AssistantDefinition
}

// overlayFile is the YAML shape of an optional catalog overlay. Entries with an
// id matching a built-in definition replace it; new ids are appended.
type overlayFile struct {
	Queries    []QueryDefinition     `yaml:"queries"`
	Workflows  []WorkflowDefinition  `yaml:"workflows"`
	Dashboards []DashboardDefinition `yaml:"dashboards"`
	Assistants []AssistantDefinition `yaml:"assistants"`
}

// Load builds the catalog from the compiled-in defaults, applying the overlay
// file at path when non-empty.
func Load(path string) (*Catalog, error) {
	cat := &Catalog{
		queries:    defaultQueries(),
		workflows:  defaultWorkflows(),
		dashboards: defaultDashboards(),
		assistants: defaultAssistants(),
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog overlay: %w", err)
		}
		var overlay overlayFile
		if err := yaml.Unmarshal(raw, &overlay); err != nil {
			return nil, fmt.Errorf("parse catalog overlay: %w", err)
		}
		cat.queries = mergeByID(cat.queries, overlay.Queries, func(q QueryDefinition) string { return q.ID })
		cat.workflows = mergeByID(cat.workflows, overlay.Workflows, func(w WorkflowDefinition) string { return w.ID })
		cat.dashboards = mergeByID(cat.dashboards, overlay.Dashboards, func(d DashboardDefinition) string { return d.ID })
		cat.assistants = mergeByID(cat.assistants, overlay.Assistants, func(a AssistantDefinition) string { return a.ID })
	}

	if err := cat.validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

func mergeByID[T any](base, overlay []T, id func(T) string) []T {
	merged := make([]T, len(base))
	copy(merged, base)
	for _, item := range overlay {
		replaced := false
		for i := range merged {
			if id(merged[i]) == id(item) {
				merged[i] = item
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, item)
		}
	}
	return merged
}

func (c *Catalog) validate() error {
	seen := make(map[string]string)
	check := func(kind, id string) error {
		if id == "" {
			return fmt.Errorf("catalog: %s definition with empty id", kind)
		}
		key := kind + "/" + id
		if _, dup := seen[key]; dup {
			return fmt.Errorf("catalog: duplicate %s id %q", kind, id)
		}
		seen[key] = kind
		return nil
	}
	for _, q := range c.queries {
		if err := check("query", q.ID); err != nil {
			return err
		}
	}
	for _, w := range c.workflows {
		if err := check("workflow", w.ID); err != nil {
			return err
		}
	}
	for _, d := range c.dashboards {
		if err := check("dashboard", d.ID); err != nil {
			return err
		}
	}
	for _, a := range c.assistants {
		if err := check("assistant", a.ID); err != nil {
			return err
		}
	}
	return nil
}

// Queries returns every SQL query definition.
func (c *Catalog) Queries() []QueryDefinition { return c.queries }

// Query looks up a query definition by id.
func (c *Catalog) Query(id string) (QueryDefinition, error) {
	for _, q := range c.queries {
		if q.ID == id {
			return q, nil
		}
	}
	return QueryDefinition{}, fmt.Errorf("query %q: %w", id, ErrNotFound)
}

// Workflows returns every workflow definition.
func (c *Catalog) Workflows() []WorkflowDefinition { return c.workflows }

// Workflow looks up a workflow definition by id.
func (c *Catalog) Workflow(id string) (WorkflowDefinition, error) {
	for _, w := range c.workflows {
		if w.ID == id {
			return w, nil
		}
	}
	return WorkflowDefinition{}, fmt.Errorf("workflow %q: %w", id, ErrNotFound)
}

// Dashboards returns every dashboard definition.
func (c *Catalog) Dashboards() []DashboardDefinition { return c.dashboards }

// Dashboard looks up a dashboard definition by id.
func (c *Catalog) Dashboard(id string) (DashboardDefinition, error) {
	for _, d := range c.dashboards {
		if d.ID == id {
			return d, nil
		}
	}
	return DashboardDefinition{}, fmt.Errorf("dashboard %q: %w", id, ErrNotFound)
}

// Assistants returns assistant definitions with a bound space, preserving
// order. Entries without a space id are placeholders and are skipped.
func (c *Catalog) Assistants() []AssistantDefinition {
	out := make([]AssistantDefinition, 0, len(c.assistants))
	for _, a := range c.assistants {
		if a.SpaceID != "" {
			out = append(out, a)
		}
	}
	return out
}

// Assistant looks up an assistant definition by id.
func (c *Catalog) Assistant(id string) (AssistantDefinition, error) {
	for _, a := range c.assistants {
		if a.ID == id {
			return a, nil
		}
	}
	return AssistantDefinition{}, fmt.Errorf("assistant %q: %w", id, ErrNotFound)
}
