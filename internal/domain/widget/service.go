package widget

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"command-center/internal/utils/platformerrors"
)

// Repository persists custom widgets.
type Repository interface {
	Create(ctx context.Context, w *CustomWidget) error
	Update(ctx context.Context, w *CustomWidget) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*CustomWidget, error)
	List(ctx context.Context) ([]CustomWidget, error)
}

// legacyOwner marks rows created before ownership resolution worked; anyone
// may edit or delete those.
const legacyOwner = "unknown"

// Service implements custom widget CRUD with ownership enforcement.
type Service struct {
	repo Repository
	log  zerolog.Logger
}

// NewService builds a widget service.
func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("component", "widget").Logger(),
	}
}

// List returns every custom widget, most recent first.
func (s *Service) List(ctx context.Context) ([]CustomWidget, error) {
	widgets, err := s.repo.List(ctx)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "list custom widgets")
	}
	return widgets, nil
}

// Create stores a new widget owned by creator. A missing id is generated.
func (s *Service) Create(ctx context.Context, w *CustomWidget, creator string) (*CustomWidget, error) {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.Name == "" {
		w.Name = "Untitled Widget"
	}
	if w.Category == "" {
		w.Category = "Custom"
	}
	if w.Domain == "" {
		w.Domain = "General"
	}
	if w.DefaultW == 0 {
		w.DefaultW = 6
	}
	if w.DefaultH == 0 {
		w.DefaultH = 6
	}
	if w.ConfigurationMode == "" {
		w.ConfigurationMode = "none"
	}
	if w.DataSourceType == "" {
		w.DataSourceType = "none"
	}
	w.CreatedBy = creator

	if err := s.repo.Create(ctx, w); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "create custom widget")
	}
	s.log.Info().Str("widget_id", w.ID).Str("created_by", creator).Msg("custom widget created")
	return w, nil
}

// Update replaces an existing widget's editable fields after verifying the
// caller owns it.
func (s *Service) Update(ctx context.Context, id string, updated *CustomWidget, caller string) error {
	if updated.Name == "" || updated.TSXCode == "" {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "Name and tsx_code are required", nil)
	}

	existing, err := s.ownedWidget(ctx, id, caller, "edit")
	if err != nil {
		return err
	}

	existing.Name = updated.Name
	existing.Description = updated.Description
	existing.Category = defaultString(updated.Category, "Custom")
	existing.Domain = defaultString(updated.Domain, "General")
	existing.TSXCode = updated.TSXCode
	existing.DataSourceType = defaultString(updated.DataSourceType, "none")
	existing.DataSource = updated.DataSource
	if updated.DefaultW > 0 {
		existing.DefaultW = updated.DefaultW
	}
	if updated.DefaultH > 0 {
		existing.DefaultH = updated.DefaultH
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "update custom widget")
	}
	return nil
}

// Delete removes a widget after verifying ownership.
func (s *Service) Delete(ctx context.Context, id, caller string) error {
	if _, err := s.ownedWidget(ctx, id, caller, "delete"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "delete custom widget")
	}
	s.log.Info().Str("widget_id", id).Str("deleted_by", caller).Msg("custom widget deleted")
	return nil
}

func (s *Service) ownedWidget(ctx context.Context, id, caller, verb string) (*CustomWidget, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeNotFound, "Widget not found", err)
		}
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "load custom widget")
	}

	owner := existing.CreatedBy
	if owner != "" && owner != legacyOwner && owner != caller {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeForbidden,
			"You do not have permission to "+verb+" this widget", nil)
	}
	return existing, nil
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
