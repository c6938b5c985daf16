package widget

import "time"

// CustomWidget is a user-authored dashboard widget: generated component code
// plus an optional data source binding.
type CustomWidget struct {
	ID                string    `gorm:"primaryKey" json:"id"`
	Name              string    `gorm:"column:name;not null" json:"name"`
	Description       string    `gorm:"column:description" json:"description"`
	Category          string    `gorm:"column:category" json:"category"`
	Domain            string    `gorm:"column:domain" json:"domain"`
	DefaultW          int       `gorm:"column:default_w;default:6" json:"default_w"`
	DefaultH          int       `gorm:"column:default_h;default:6" json:"default_h"`
	TSXCode           string    `gorm:"column:tsx_code;type:text" json:"tsx_code"`
	ConfigurationMode string    `gorm:"column:configuration_mode" json:"configuration_mode"`
	ConfigSchema      *string   `gorm:"column:config_schema;type:text" json:"config_schema,omitempty"`
	DataSourceType    string    `gorm:"column:data_source_type" json:"data_source_type"`
	DataSource        *string   `gorm:"column:data_source;type:text" json:"data_source,omitempty"`
	IsExecutable      bool      `gorm:"column:is_executable;default:false" json:"is_executable"`
	CreatedBy         string    `gorm:"column:created_by;index" json:"created_by"`
	CreatedAt         time.Time `gorm:"column:timestamp;autoCreateTime" json:"timestamp"`
}

// TableName returns the table name for CustomWidget
func (CustomWidget) TableName() string {
	return "custom_widgets"
}
