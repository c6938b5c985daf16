package telemetry

import "time"

// WidgetRun records one execution of a widget, used for popularity ranking.
type WidgetRun struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	WidgetID  string    `gorm:"column:widget_id;not null;index" json:"widget_id"`
	CreatedAt time.Time `gorm:"column:timestamp;autoCreateTime" json:"timestamp"`
}

// TableName returns the table name for WidgetRun
func (WidgetRun) TableName() string {
	return "widget_runs"
}

// ActionLog records a user-facing action taken from the dashboard, with a
// free-form explanation and a stringified context snapshot.
type ActionLog struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	WidgetID    string    `gorm:"column:widget_id;index" json:"widget_id"`
	WidgetName  string    `gorm:"column:widget_name" json:"widget_name"`
	Explanation string    `gorm:"column:user_explanation" json:"user_explanation"`
	Context     string    `gorm:"column:dashboard_context" json:"dashboard_context"`
	CreatedAt   time.Time `gorm:"column:timestamp;autoCreateTime" json:"timestamp"`
}

// TableName returns the table name for ActionLog
func (ActionLog) TableName() string {
	return "action_logs"
}

// PopularityCount is a per-widget run count aggregate.
type PopularityCount struct {
	WidgetID string `json:"widget_id"`
	Count    int64  `json:"count"`
}
