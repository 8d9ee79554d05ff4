package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ortiurbani/orti-api/internal/domain"
)

type GardenRepository interface {
	Create(ctx context.Context, g domain.Garden) (domain.Garden, error)
	FindByID(ctx context.Context, id uint) (domain.Garden, error)
	Find(ctx context.Context, municipalityID uint) ([]domain.Garden, error)
	Update(ctx context.Context, g domain.Garden) (domain.Garden, error)
	Delete(ctx context.Context, id uint) error
	CreatePlot(ctx context.Context, p domain.Plot) (domain.Plot, error)
	FindPlotByID(ctx context.Context, id uint) (domain.Plot, error)
	FindPlots(ctx context.Context, gardenID uint) ([]domain.Plot, error)
	PlotIDsByGardens(ctx context.Context, gardenIDs []uint) ([]uint, error)
	UpdatePlot(ctx context.Context, p domain.Plot) (domain.Plot, error)
	DeletePlot(ctx context.Context, id uint) error
	DeletePlotsByGarden(ctx context.Context, gardenID uint) (int64, error)
}

type GardenAssignmentCascade interface {
	DeletePlotAssignmentsByPlots(ctx context.Context, plotIDs []uint) (int64, error)
	DeleteGardenAssignmentsByGarden(ctx context.Context, gardenID uint) (int64, error)
}

type GardenNoticeCascade interface {
	DetachNoticesFromGarden(ctx context.Context, gardenID uint) (int64, error)
}

type GardenTelemetryCascade interface {
	DeleteWeatherByGarden(ctx context.Context, gardenID uint) (int64, error)
	DeleteSensorsByGarden(ctx context.Context, gardenID uint) (int64, error)
}

type GardenService struct {
	tx             Transactor
	repo           GardenRepository
	municipalities MunicipalityFinder
	assignments    GardenAssignmentCascade
	notices        GardenNoticeCascade
	telemetry      GardenTelemetryCascade
	cache          Cache
}

func NewGardenService(
	tx Transactor,
	repo GardenRepository,
	municipalities MunicipalityFinder,
	assignments GardenAssignmentCascade,
	notices GardenNoticeCascade,
	telemetry GardenTelemetryCascade,
	cache Cache,
) *GardenService {
	return &GardenService{
		tx:             tx,
		repo:           repo,
		municipalities: municipalities,
		assignments:    assignments,
		notices:        notices,
		telemetry:      telemetry,
		cache:          cache,
	}
}

func (s *GardenService) Create(ctx context.Context, g domain.Garden) (domain.Garden, error) {
	if _, err := s.municipalities.FindByID(ctx, g.MunicipalityID); err != nil {
		return domain.Garden{}, fmt.Errorf("s.municipalities.FindByID -> %w", reference(err, "municipality", g.MunicipalityID))
	}

	created, err := s.repo.Create(ctx, g)
	if err != nil {
		return domain.Garden{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *GardenService) Get(ctx context.Context, id uint) (domain.Garden, error) {
	g, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Garden{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return g, nil
}

func (s *GardenService) List(ctx context.Context, municipalityID uint) ([]domain.Garden, error) {
	gs, err := s.repo.Find(ctx, municipalityID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Find -> %w", err)
	}

	return gs, nil
}

func (s *GardenService) Update(ctx context.Context, g domain.Garden) (domain.Garden, error) {
	current, err := s.repo.FindByID(ctx, g.ID)
	if err != nil {
		return domain.Garden{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if g.MunicipalityID != current.MunicipalityID {
		if _, err = s.municipalities.FindByID(ctx, g.MunicipalityID); err != nil {
			return domain.Garden{}, fmt.Errorf("s.municipalities.FindByID -> %w", reference(err, "municipality", g.MunicipalityID))
		}
	}
	g.CreatedAt = current.CreatedAt

	updated, err := s.repo.Update(ctx, g)
	if err != nil {
		return domain.Garden{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// Delete removes the garden with its plots, every assignment on them, its
// sensors and weather history. Notices about the garden are kept but no
// longer point to it.
func (s *GardenService) Delete(ctx context.Context, id uint) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.FindByID(ctx, id); err != nil {
			return fmt.Errorf("s.repo.FindByID -> %w", err)
		}

		plotIDs, err := s.repo.PlotIDsByGardens(ctx, []uint{id})
		if err != nil {
			return fmt.Errorf("%w: s.repo.PlotIDsByGardens -> %w", ErrCascadeFailed, err)
		}
		if _, err = s.assignments.DeletePlotAssignmentsByPlots(ctx, plotIDs); err != nil {
			return fmt.Errorf("%w: s.assignments.DeletePlotAssignmentsByPlots -> %w", ErrCascadeFailed, err)
		}
		if _, err = s.repo.DeletePlotsByGarden(ctx, id); err != nil {
			return fmt.Errorf("%w: s.repo.DeletePlotsByGarden -> %w", ErrCascadeFailed, err)
		}
		if _, err = s.assignments.DeleteGardenAssignmentsByGarden(ctx, id); err != nil {
			return fmt.Errorf("%w: s.assignments.DeleteGardenAssignmentsByGarden -> %w", ErrCascadeFailed, err)
		}
		if _, err = s.notices.DetachNoticesFromGarden(ctx, id); err != nil {
			return fmt.Errorf("%w: s.notices.DetachNoticesFromGarden -> %w", ErrCascadeFailed, err)
		}
		if _, err = s.telemetry.DeleteSensorsByGarden(ctx, id); err != nil {
			return fmt.Errorf("%w: s.telemetry.DeleteSensorsByGarden -> %w", ErrCascadeFailed, err)
		}
		if _, err = s.telemetry.DeleteWeatherByGarden(ctx, id); err != nil {
			return fmt.Errorf("%w: s.telemetry.DeleteWeatherByGarden -> %w", ErrCascadeFailed, err)
		}
		if err = s.repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("%w: s.repo.Delete -> %w", ErrCascadeFailed, err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	if err = s.cache.Invalidate(ctx, latestWeatherKey(id)); err != nil {
		zap.L().Warn("cache invalidation failed", zap.Uint("garden_id", id), zap.Error(err))
	}

	return nil
}

func (s *GardenService) CreatePlot(ctx context.Context, p domain.Plot) (domain.Plot, error) {
	if _, err := s.repo.FindByID(ctx, p.GardenID); err != nil {
		return domain.Plot{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	created, err := s.repo.CreatePlot(ctx, p)
	if err != nil {
		return domain.Plot{}, fmt.Errorf("s.repo.CreatePlot -> %w", err)
	}

	return created, nil
}

func (s *GardenService) ListPlots(ctx context.Context, gardenID uint) ([]domain.Plot, error) {
	if _, err := s.repo.FindByID(ctx, gardenID); err != nil {
		return nil, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	ps, err := s.repo.FindPlots(ctx, gardenID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindPlots -> %w", err)
	}

	return ps, nil
}

func (s *GardenService) GetPlot(ctx context.Context, id uint) (domain.Plot, error) {
	p, err := s.repo.FindPlotByID(ctx, id)
	if err != nil {
		return domain.Plot{}, fmt.Errorf("s.repo.FindPlotByID -> %w", err)
	}

	return p, nil
}

// UpdatePlot changes number and area. A plot never moves to another garden.
func (s *GardenService) UpdatePlot(ctx context.Context, p domain.Plot) (domain.Plot, error) {
	current, err := s.repo.FindPlotByID(ctx, p.ID)
	if err != nil {
		return domain.Plot{}, fmt.Errorf("s.repo.FindPlotByID -> %w", err)
	}
	current.Number = p.Number
	current.Area = p.Area

	updated, err := s.repo.UpdatePlot(ctx, current)
	if err != nil {
		return domain.Plot{}, fmt.Errorf("s.repo.UpdatePlot -> %w", err)
	}

	return updated, nil
}

func (s *GardenService) DeletePlot(ctx context.Context, id uint) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.FindPlotByID(ctx, id); err != nil {
			return fmt.Errorf("s.repo.FindPlotByID -> %w", err)
		}
		if _, err := s.assignments.DeletePlotAssignmentsByPlots(ctx, []uint{id}); err != nil {
			return fmt.Errorf("%w: s.assignments.DeletePlotAssignmentsByPlots -> %w", ErrCascadeFailed, err)
		}
		if err := s.repo.DeletePlot(ctx, id); err != nil {
			return fmt.Errorf("%w: s.repo.DeletePlot -> %w", ErrCascadeFailed, err)
		}

		return nil
	})
}
