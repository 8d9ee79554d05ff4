package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ortiurbani/orti-api/internal/domain"
	"github.com/ortiurbani/orti-api/internal/metrics"
)

const (
	DefaultReadingLimit = 50
	MaxReadingLimit     = 500
)

type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Invalidate(ctx context.Context, key string) error
}

type WeatherRepository interface {
	CreateWeather(ctx context.Context, w domain.WeatherReading) (domain.WeatherReading, error)
	FindWeather(ctx context.Context, gardenID uint, limit int) ([]domain.WeatherReading, error)
	FindLatestWeather(ctx context.Context, gardenID uint) (domain.WeatherReading, error)
}

type WeatherService struct {
	repo    WeatherRepository
	gardens GardenFinder
	cache   Cache
	now     func() time.Time
}

func NewWeatherService(repo WeatherRepository, gardens GardenFinder, cache Cache) *WeatherService {
	return &WeatherService{
		repo:    repo,
		gardens: gardens,
		cache:   cache,
		now:     utcNow,
	}
}

func latestWeatherKey(gardenID uint) string {
	return "meteo:ultimo:" + strconv.FormatUint(uint64(gardenID), 10)
}

func (s *WeatherService) Record(ctx context.Context, w domain.WeatherReading) (domain.WeatherReading, error) {
	if _, err := s.gardens.FindByID(ctx, w.GardenID); err != nil {
		return domain.WeatherReading{}, fmt.Errorf("s.gardens.FindByID -> %w", err)
	}
	if w.RecordedAt.IsZero() {
		w.RecordedAt = s.now()
	}

	created, err := s.repo.CreateWeather(ctx, w)
	if err != nil {
		return domain.WeatherReading{}, fmt.Errorf("s.repo.CreateWeather -> %w", err)
	}

	if err = s.cache.Invalidate(ctx, latestWeatherKey(w.GardenID)); err != nil {
		zap.L().Warn("cache invalidation failed", zap.Uint("garden_id", w.GardenID), zap.Error(err))
	}

	return created, nil
}

func (s *WeatherService) List(ctx context.Context, gardenID uint, limit int) ([]domain.WeatherReading, error) {
	if _, err := s.gardens.FindByID(ctx, gardenID); err != nil {
		return nil, fmt.Errorf("s.gardens.FindByID -> %w", err)
	}

	ws, err := s.repo.FindWeather(ctx, gardenID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindWeather -> %w", err)
	}

	return ws, nil
}

// Latest serves the newest reading of a garden from the cache, falling back
// to the store. Cache failures are logged and never fail the request.
func (s *WeatherService) Latest(ctx context.Context, gardenID uint) (domain.WeatherReading, error) {
	key := latestWeatherKey(gardenID)

	var cached domain.WeatherReading
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		zap.L().Warn("cache lookup failed", zap.String("key", key), zap.Error(err))
	}
	if found {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return cached, nil
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	if _, err = s.gardens.FindByID(ctx, gardenID); err != nil {
		return domain.WeatherReading{}, fmt.Errorf("s.gardens.FindByID -> %w", err)
	}

	latest, err := s.repo.FindLatestWeather(ctx, gardenID)
	if err != nil {
		return domain.WeatherReading{}, fmt.Errorf("s.repo.FindLatestWeather -> %w", err)
	}

	if err = s.cache.Set(ctx, key, latest); err != nil {
		zap.L().Warn("cache store failed", zap.String("key", key), zap.Error(err))
	}

	return latest, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultReadingLimit
	}
	if limit > MaxReadingLimit {
		return MaxReadingLimit
	}

	return limit
}
