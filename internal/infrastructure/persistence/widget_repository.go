package persistence

import (
	"context"

	"gorm.io/gorm"

	"command-center/internal/domain/widget"
)

// WidgetRepository is the gorm-backed implementation of widget.Repository.
type WidgetRepository struct {
	db *gorm.DB
}

// NewWidgetRepository creates a new widget repository.
func NewWidgetRepository(db *gorm.DB) *WidgetRepository {
	return &WidgetRepository{db: db}
}

// Create inserts a custom widget row.
func (r *WidgetRepository) Create(ctx context.Context, w *widget.CustomWidget) error {
	return r.db.WithContext(ctx).Create(w).Error
}

// Update saves the full widget row.
func (r *WidgetRepository) Update(ctx context.Context, w *widget.CustomWidget) error {
	return r.db.WithContext(ctx).Save(w).Error
}

// Delete removes a widget by id.
func (r *WidgetRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&widget.CustomWidget{}, "id = ?", id).Error
}

// GetByID loads a widget by id, returning gorm.ErrRecordNotFound when absent.
func (r *WidgetRepository) GetByID(ctx context.Context, id string) (*widget.CustomWidget, error) {
	var w widget.CustomWidget
	if err := r.db.WithContext(ctx).First(&w, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// List returns all widgets ordered most recent first.
func (r *WidgetRepository) List(ctx context.Context) ([]widget.CustomWidget, error) {
	var widgets []widget.CustomWidget
	if err := r.db.WithContext(ctx).Order("timestamp DESC").Find(&widgets).Error; err != nil {
		return nil, err
	}
	return widgets, nil
}
