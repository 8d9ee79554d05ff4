package repository

import (
	"context"
	"fmt"

	"github.com/ortiurbani/orti-api/internal/domain"
	"github.com/ortiurbani/orti-api/internal/repository/dao"
)

type AssignmentDAO interface {
	InsertGardenAssignment(ctx context.Context, a dao.GardenAssignment) (dao.GardenAssignment, error)
	FindGardenAssignmentByID(ctx context.Context, id uint) (dao.GardenAssignment, error)
	FindGardenAssignments(ctx context.Context, associationID uint) ([]dao.GardenAssignment, error)
	DeleteGardenAssignment(ctx context.Context, id uint) error
	DeleteGardenAssignmentsByAssociation(ctx context.Context, associationID uint) (int64, error)
	DeleteGardenAssignmentsByGarden(ctx context.Context, gardenID uint) (int64, error)
	InsertPlotAssignment(ctx context.Context, a dao.PlotAssignment) (dao.PlotAssignment, error)
	FindPlotAssignmentByID(ctx context.Context, id uint) (dao.PlotAssignment, error)
	FindPlotAssignments(ctx context.Context, filter dao.PlotAssignmentFilter) ([]dao.PlotAssignment, error)
	LockPlot(ctx context.Context, plotID uint) error
	CountPlotAssignments(ctx context.Context, plotID uint, status string, excludeID uint) (int64, error)
	UpdatePlotAssignment(ctx context.Context, a dao.PlotAssignment) (dao.PlotAssignment, error)
	DeletePlotAssignment(ctx context.Context, id uint) error
	DeletePlotAssignmentsByPlots(ctx context.Context, plotIDs []uint) (int64, error)
	DeletePlotAssignmentsByUser(ctx context.Context, userID uint) (int64, error)
}

// PlotAssignmentFilter narrows plot-assignment listings; zero fields are ignored.
type PlotAssignmentFilter struct {
	Status domain.AssignmentStatus
	PlotID uint
	UserID uint
}

type AssignmentRepository struct {
	dao AssignmentDAO
}

func NewAssignmentRepository(dao AssignmentDAO) *AssignmentRepository {
	return &AssignmentRepository{
		dao: dao,
	}
}

func (r *AssignmentRepository) CreateGardenAssignment(ctx context.Context, a domain.GardenAssignment) (domain.GardenAssignment, error) {
	created, err := r.dao.InsertGardenAssignment(ctx, dao.GardenAssignment{
		GardenID:      a.GardenID,
		AssociationID: a.AssociationID,
		Start:         a.Start,
		End:           a.End,
	})
	if err != nil {
		return domain.GardenAssignment{}, fmt.Errorf("r.dao.InsertGardenAssignment -> %w", err)
	}

	return gardenAssignmentToDomain(created), nil
}

func (r *AssignmentRepository) FindGardenAssignmentByID(ctx context.Context, id uint) (domain.GardenAssignment, error) {
	found, err := r.dao.FindGardenAssignmentByID(ctx, id)
	if err != nil {
		return domain.GardenAssignment{}, fmt.Errorf("r.dao.FindGardenAssignmentByID -> %w", err)
	}

	return gardenAssignmentToDomain(found), nil
}

// FindGardenAssignments lists the garden assignments of an association, or all of them when associationID is 0.
func (r *AssignmentRepository) FindGardenAssignments(ctx context.Context, associationID uint) ([]domain.GardenAssignment, error) {
	found, err := r.dao.FindGardenAssignments(ctx, associationID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindGardenAssignments -> %w", err)
	}

	as := make([]domain.GardenAssignment, 0, len(found))
	for _, a := range found {
		as = append(as, gardenAssignmentToDomain(a))
	}

	return as, nil
}

func (r *AssignmentRepository) DeleteGardenAssignment(ctx context.Context, id uint) error {
	if err := r.dao.DeleteGardenAssignment(ctx, id); err != nil {
		return fmt.Errorf("r.dao.DeleteGardenAssignment -> %w", err)
	}

	return nil
}

func (r *AssignmentRepository) DeleteGardenAssignmentsByAssociation(ctx context.Context, associationID uint) (int64, error) {
	n, err := r.dao.DeleteGardenAssignmentsByAssociation(ctx, associationID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.DeleteGardenAssignmentsByAssociation -> %w", err)
	}

	return n, nil
}

func (r *AssignmentRepository) DeleteGardenAssignmentsByGarden(ctx context.Context, gardenID uint) (int64, error) {
	n, err := r.dao.DeleteGardenAssignmentsByGarden(ctx, gardenID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.DeleteGardenAssignmentsByGarden -> %w", err)
	}

	return n, nil
}

func (r *AssignmentRepository) CreatePlotAssignment(ctx context.Context, a domain.PlotAssignment) (domain.PlotAssignment, error) {
	created, err := r.dao.InsertPlotAssignment(ctx, plotAssignmentToDAO(a))
	if err != nil {
		return domain.PlotAssignment{}, fmt.Errorf("r.dao.InsertPlotAssignment -> %w", err)
	}

	return plotAssignmentToDomain(created), nil
}

func (r *AssignmentRepository) FindPlotAssignmentByID(ctx context.Context, id uint) (domain.PlotAssignment, error) {
	found, err := r.dao.FindPlotAssignmentByID(ctx, id)
	if err != nil {
		return domain.PlotAssignment{}, fmt.Errorf("r.dao.FindPlotAssignmentByID -> %w", err)
	}

	return plotAssignmentToDomain(found), nil
}

func (r *AssignmentRepository) FindPlotAssignments(ctx context.Context, filter PlotAssignmentFilter) ([]domain.PlotAssignment, error) {
	found, err := r.dao.FindPlotAssignments(ctx, dao.PlotAssignmentFilter{
		Status: string(filter.Status),
		PlotID: filter.PlotID,
		UserID: filter.UserID,
	})
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindPlotAssignments -> %w", err)
	}

	as := make([]domain.PlotAssignment, 0, len(found))
	for _, a := range found {
		as = append(as, plotAssignmentToDomain(a))
	}

	return as, nil
}

func (r *AssignmentRepository) LockPlot(ctx context.Context, plotID uint) error {
	if err := r.dao.LockPlot(ctx, plotID); err != nil {
		return fmt.Errorf("r.dao.LockPlot -> %w", err)
	}

	return nil
}

// CountAccepted counts accepted assignments of a plot other than excludeID.
func (r *AssignmentRepository) CountAccepted(ctx context.Context, plotID, excludeID uint) (int64, error) {
	n, err := r.dao.CountPlotAssignments(ctx, plotID, string(domain.StatusAccepted), excludeID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountPlotAssignments -> %w", err)
	}

	return n, nil
}

func (r *AssignmentRepository) UpdatePlotAssignment(ctx context.Context, a domain.PlotAssignment) (domain.PlotAssignment, error) {
	updated, err := r.dao.UpdatePlotAssignment(ctx, plotAssignmentToDAO(a))
	if err != nil {
		return domain.PlotAssignment{}, fmt.Errorf("r.dao.UpdatePlotAssignment -> %w", err)
	}

	return plotAssignmentToDomain(updated), nil
}

func (r *AssignmentRepository) DeletePlotAssignment(ctx context.Context, id uint) error {
	if err := r.dao.DeletePlotAssignment(ctx, id); err != nil {
		return fmt.Errorf("r.dao.DeletePlotAssignment -> %w", err)
	}

	return nil
}

func (r *AssignmentRepository) DeletePlotAssignmentsByPlots(ctx context.Context, plotIDs []uint) (int64, error) {
	n, err := r.dao.DeletePlotAssignmentsByPlots(ctx, plotIDs)
	if err != nil {
		return 0, fmt.Errorf("r.dao.DeletePlotAssignmentsByPlots -> %w", err)
	}

	return n, nil
}

func (r *AssignmentRepository) DeletePlotAssignmentsByUser(ctx context.Context, userID uint) (int64, error) {
	n, err := r.dao.DeletePlotAssignmentsByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.DeletePlotAssignmentsByUser -> %w", err)
	}

	return n, nil
}

func gardenAssignmentToDomain(a dao.GardenAssignment) domain.GardenAssignment {
	return domain.GardenAssignment{
		ID:            a.ID,
		GardenID:      a.GardenID,
		AssociationID: a.AssociationID,
		Start:         a.Start,
		End:           a.End,
		CreatedAt:     a.CreatedAt,
	}
}

func plotAssignmentToDAO(a domain.PlotAssignment) dao.PlotAssignment {
	return dao.PlotAssignment{
		ID:          a.ID,
		PlotID:      a.PlotID,
		UserID:      a.UserID,
		Status:      string(a.Status),
		RequestedAt: a.RequestedAt,
		Start:       a.Start,
		End:         a.End,
		Crops:       a.Crops,
		CreatedAt:   a.RequestedAt,
	}
}

func plotAssignmentToDomain(a dao.PlotAssignment) domain.PlotAssignment {
	crops := a.Crops
	if crops == nil {
		crops = []string{}
	}

	return domain.PlotAssignment{
		ID:          a.ID,
		PlotID:      a.PlotID,
		UserID:      a.UserID,
		Status:      domain.AssignmentStatus(a.Status),
		RequestedAt: a.RequestedAt,
		Start:       a.Start,
		End:         a.End,
		Crops:       crops,
		UpdatedAt:   a.UpdatedAt,
	}
}
