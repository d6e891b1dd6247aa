package services

import (
	"context"
	"errors"

	apperrors "github.com/HamzaHashone/ecommerce-hijaab-collection/common/errors"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/models"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type SettingsService interface {
	ThresholdProvider
	List(ctx context.Context) ([]models.Settings, *apperrors.Error)
	Create(ctx context.Context, req *models.SettingsRequest) (*models.Settings, *apperrors.Error)
	Update(ctx context.Context, id string, req *models.SettingsRequest) (*models.Settings, *apperrors.Error)
}

type settingsServiceImpl struct {
	repo   repository.SettingsRepo
	cache  ProductListCache
	logger *zap.Logger
}

// NewSettingsService wires the settings store. Threshold changes flush the
// product list cache because the low-stock filter depends on them.
func NewSettingsService(repo repository.SettingsRepo, cache ProductListCache, logger *zap.Logger) SettingsService {
	return &settingsServiceImpl{repo: repo, cache: cache, logger: logger}
}

// Thresholds never fails: a missing document or a zero value falls back to
// the defaults.
func (s *settingsServiceImpl) Thresholds(ctx context.Context) models.Thresholds {
	t := models.Thresholds{LowStock: models.DefaultLowStockQuantity, HighValue: models.DefaultHighValueSpend}

	latest, err := s.repo.Latest(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("Failed to load settings, using defaults", zap.Error(err))
		}
		return t
	}
	if latest.QuantityForLowStock != 0 {
		t.LowStock = latest.QuantityForLowStock
	}
	if latest.HighValueUserSpents != 0 {
		t.HighValue = latest.HighValueUserSpents
	}
	return t
}

func (s *settingsServiceImpl) List(ctx context.Context) ([]models.Settings, *apperrors.Error) {
	settings, err := s.repo.List(ctx)
	if err != nil {
		return nil, internal(err)
	}
	return settings, nil
}

func (s *settingsServiceImpl) Create(ctx context.Context, req *models.SettingsRequest) (*models.Settings, *apperrors.Error) {
	settings := &models.Settings{}
	if req.QuantityForLowStock != nil {
		settings.QuantityForLowStock = *req.QuantityForLowStock
	}
	if req.HighValueUserSpents != nil {
		settings.HighValueUserSpents = *req.HighValueUserSpents
	}

	if err := s.repo.Create(ctx, settings); err != nil {
		s.logger.Error("Failed to create settings", zap.Error(err))
		return nil, internal(err)
	}
	s.flushCatalog(ctx)
	return settings, nil
}

func (s *settingsServiceImpl) Update(ctx context.Context, id string, req *models.SettingsRequest) (*models.Settings, *apperrors.Error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, apperrors.NotFound("Settings not found")
	}

	updates := bson.M{}
	if req.QuantityForLowStock != nil {
		updates["quantityForLowStock"] = *req.QuantityForLowStock
	}
	if req.HighValueUserSpents != nil {
		updates["highValueUserSpents"] = *req.HighValueUserSpents
	}

	settings, err := s.repo.Update(ctx, oid, updates)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Settings not found")
	}
	if err != nil {
		s.logger.Error("Failed to update settings", zap.String("settings_id", id), zap.Error(err))
		return nil, internal(err)
	}
	s.flushCatalog(ctx)
	return settings, nil
}

func (s *settingsServiceImpl) flushCatalog(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("Failed to invalidate product cache", zap.Error(err))
	}
}
