package repository

import (
	"context"
	"fmt"

	"github.com/ortiurbani/orti-api/internal/domain"
	"github.com/ortiurbani/orti-api/internal/repository/dao"
)

type GardenDAO interface {
	Insert(ctx context.Context, g dao.Garden) (dao.Garden, error)
	FindByID(ctx context.Context, id uint) (dao.Garden, error)
	Find(ctx context.Context, municipalityID uint) ([]dao.Garden, error)
	CountByMunicipality(ctx context.Context, municipalityID uint) (int64, error)
	Update(ctx context.Context, g dao.Garden) (dao.Garden, error)
	Delete(ctx context.Context, id uint) error
	InsertPlot(ctx context.Context, p dao.Plot) (dao.Plot, error)
	FindPlotByID(ctx context.Context, id uint) (dao.Plot, error)
	FindPlots(ctx context.Context, gardenID uint) ([]dao.Plot, error)
	PlotIDsByGardens(ctx context.Context, gardenIDs []uint) ([]uint, error)
	UpdatePlot(ctx context.Context, p dao.Plot) (dao.Plot, error)
	DeletePlot(ctx context.Context, id uint) error
	DeletePlotsByGarden(ctx context.Context, gardenID uint) (int64, error)
}

type GardenRepository struct {
	dao GardenDAO
}

func NewGardenRepository(dao GardenDAO) *GardenRepository {
	return &GardenRepository{
		dao: dao,
	}
}

func (r *GardenRepository) Create(ctx context.Context, g domain.Garden) (domain.Garden, error) {
	created, err := r.dao.Insert(ctx, dao.Garden{
		Name:           g.Name,
		Address:        g.Address,
		MunicipalityID: g.MunicipalityID,
	})
	if err != nil {
		return domain.Garden{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return gardenToDomain(created), nil
}

func (r *GardenRepository) FindByID(ctx context.Context, id uint) (domain.Garden, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Garden{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return gardenToDomain(found), nil
}

func (r *GardenRepository) Find(ctx context.Context, municipalityID uint) ([]domain.Garden, error) {
	found, err := r.dao.Find(ctx, municipalityID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.Find -> %w", err)
	}

	gs := make([]domain.Garden, 0, len(found))
	for _, g := range found {
		gs = append(gs, gardenToDomain(g))
	}

	return gs, nil
}

func (r *GardenRepository) CountByMunicipality(ctx context.Context, municipalityID uint) (int64, error) {
	n, err := r.dao.CountByMunicipality(ctx, municipalityID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountByMunicipality -> %w", err)
	}

	return n, nil
}

func (r *GardenRepository) Update(ctx context.Context, g domain.Garden) (domain.Garden, error) {
	_, err := r.dao.Update(ctx, dao.Garden{
		ID:             g.ID,
		Name:           g.Name,
		Address:        g.Address,
		MunicipalityID: g.MunicipalityID,
		CreatedAt:      g.CreatedAt,
	})
	if err != nil {
		return domain.Garden{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.FindByID(ctx, g.ID)
}

func (r *GardenRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *GardenRepository) CreatePlot(ctx context.Context, p domain.Plot) (domain.Plot, error) {
	created, err := r.dao.InsertPlot(ctx, dao.Plot{
		GardenID: p.GardenID,
		Number:   p.Number,
		Area:     p.Area,
	})
	if err != nil {
		return domain.Plot{}, fmt.Errorf("r.dao.InsertPlot -> %w", err)
	}

	return plotToDomain(created), nil
}

func (r *GardenRepository) FindPlotByID(ctx context.Context, id uint) (domain.Plot, error) {
	found, err := r.dao.FindPlotByID(ctx, id)
	if err != nil {
		return domain.Plot{}, fmt.Errorf("r.dao.FindPlotByID -> %w", err)
	}

	return plotToDomain(found), nil
}

func (r *GardenRepository) FindPlots(ctx context.Context, gardenID uint) ([]domain.Plot, error) {
	found, err := r.dao.FindPlots(ctx, gardenID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindPlots -> %w", err)
	}

	ps := make([]domain.Plot, 0, len(found))
	for _, p := range found {
		ps = append(ps, plotToDomain(p))
	}

	return ps, nil
}

func (r *GardenRepository) PlotIDsByGardens(ctx context.Context, gardenIDs []uint) ([]uint, error) {
	ids, err := r.dao.PlotIDsByGardens(ctx, gardenIDs)
	if err != nil {
		return nil, fmt.Errorf("r.dao.PlotIDsByGardens -> %w", err)
	}

	return ids, nil
}

func (r *GardenRepository) UpdatePlot(ctx context.Context, p domain.Plot) (domain.Plot, error) {
	updated, err := r.dao.UpdatePlot(ctx, dao.Plot{
		ID:        p.ID,
		GardenID:  p.GardenID,
		Number:    p.Number,
		Area:      p.Area,
		CreatedAt: p.CreatedAt,
	})
	if err != nil {
		return domain.Plot{}, fmt.Errorf("r.dao.UpdatePlot -> %w", err)
	}

	return plotToDomain(updated), nil
}

func (r *GardenRepository) DeletePlot(ctx context.Context, id uint) error {
	if err := r.dao.DeletePlot(ctx, id); err != nil {
		return fmt.Errorf("r.dao.DeletePlot -> %w", err)
	}

	return nil
}

func (r *GardenRepository) DeletePlotsByGarden(ctx context.Context, gardenID uint) (int64, error) {
	n, err := r.dao.DeletePlotsByGarden(ctx, gardenID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.DeletePlotsByGarden -> %w", err)
	}

	return n, nil
}

func gardenToDomain(g dao.Garden) domain.Garden {
	plotIDs := make([]uint, 0, len(g.Plots))
	for _, p := range g.Plots {
		plotIDs = append(plotIDs, p.ID)
	}

	return domain.Garden{
		ID:             g.ID,
		Name:           g.Name,
		Address:        g.Address,
		MunicipalityID: g.MunicipalityID,
		PlotIDs:        plotIDs,
		CreatedAt:      g.CreatedAt,
		UpdatedAt:      g.UpdatedAt,
	}
}

func plotToDomain(p dao.Plot) domain.Plot {
	return domain.Plot{
		ID:        p.ID,
		GardenID:  p.GardenID,
		Number:    p.Number,
		Area:      p.Area,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
