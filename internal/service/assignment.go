package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/ortiurbani/orti-api/internal/domain"
	"github.com/ortiurbani/orti-api/internal/export"
	"github.com/ortiurbani/orti-api/internal/metrics"
	"github.com/ortiurbani/orti-api/internal/repository"
)

type PlotAssignmentFilter = repository.PlotAssignmentFilter

type AssignmentRepository interface {
	CreateGardenAssignment(ctx context.Context, a domain.GardenAssignment) (domain.GardenAssignment, error)
	FindGardenAssignmentByID(ctx context.Context, id uint) (domain.GardenAssignment, error)
	FindGardenAssignments(ctx context.Context, associationID uint) ([]domain.GardenAssignment, error)
	DeleteGardenAssignment(ctx context.Context, id uint) error
	CreatePlotAssignment(ctx context.Context, a domain.PlotAssignment) (domain.PlotAssignment, error)
	FindPlotAssignmentByID(ctx context.Context, id uint) (domain.PlotAssignment, error)
	FindPlotAssignments(ctx context.Context, filter PlotAssignmentFilter) ([]domain.PlotAssignment, error)
	LockPlot(ctx context.Context, plotID uint) error
	CountAccepted(ctx context.Context, plotID, excludeID uint) (int64, error)
	UpdatePlotAssignment(ctx context.Context, a domain.PlotAssignment) (domain.PlotAssignment, error)
	DeletePlotAssignment(ctx context.Context, id uint) error
}

type GardenFinder interface {
	FindByID(ctx context.Context, id uint) (domain.Garden, error)
}

type PlotFinder interface {
	FindPlotByID(ctx context.Context, id uint) (domain.Plot, error)
}

type GardenAssignmentService struct {
	repo         AssignmentRepository
	gardens      GardenFinder
	associations AssociationFinder
}

func NewGardenAssignmentService(repo AssignmentRepository, gardens GardenFinder, associations AssociationFinder) *GardenAssignmentService {
	return &GardenAssignmentService{
		repo:         repo,
		gardens:      gardens,
		associations: associations,
	}
}

func (s *GardenAssignmentService) Create(ctx context.Context, a domain.GardenAssignment) (domain.GardenAssignment, error) {
	if err := a.Validate(); err != nil {
		return domain.GardenAssignment{}, err
	}
	if _, err := s.gardens.FindByID(ctx, a.GardenID); err != nil {
		return domain.GardenAssignment{}, fmt.Errorf("s.gardens.FindByID -> %w", reference(err, "garden", a.GardenID))
	}
	if _, err := s.associations.FindByID(ctx, a.AssociationID); err != nil {
		return domain.GardenAssignment{}, fmt.Errorf("s.associations.FindByID -> %w", reference(err, "association", a.AssociationID))
	}

	created, err := s.repo.CreateGardenAssignment(ctx, a)
	if err != nil {
		return domain.GardenAssignment{}, fmt.Errorf("s.repo.CreateGardenAssignment -> %w", err)
	}

	return created, nil
}

func (s *GardenAssignmentService) Get(ctx context.Context, id uint) (domain.GardenAssignment, error) {
	a, err := s.repo.FindGardenAssignmentByID(ctx, id)
	if err != nil {
		return domain.GardenAssignment{}, fmt.Errorf("s.repo.FindGardenAssignmentByID -> %w", err)
	}

	return a, nil
}

func (s *GardenAssignmentService) List(ctx context.Context, associationID uint) ([]domain.GardenAssignment, error) {
	as, err := s.repo.FindGardenAssignments(ctx, associationID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindGardenAssignments -> %w", err)
	}

	return as, nil
}

func (s *GardenAssignmentService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.DeleteGardenAssignment(ctx, id); err != nil {
		return fmt.Errorf("s.repo.DeleteGardenAssignment -> %w", err)
	}

	return nil
}

type PlotAssignmentService struct {
	tx    Transactor
	repo  AssignmentRepository
	plots PlotFinder
	now   func() time.Time
}

func NewPlotAssignmentService(tx Transactor, repo AssignmentRepository, plots PlotFinder) *PlotAssignmentService {
	return &PlotAssignmentService{
		tx:    tx,
		repo:  repo,
		plots: plots,
		now:   utcNow,
	}
}

// Request files a pending assignment of plotID for the citizen userID.
func (s *PlotAssignmentService) Request(ctx context.Context, userID, plotID uint, crops []string) (domain.PlotAssignment, error) {
	if _, err := s.plots.FindPlotByID(ctx, plotID); err != nil {
		return domain.PlotAssignment{}, fmt.Errorf("s.plots.FindPlotByID -> %w", reference(err, "plot", plotID))
	}

	if crops == nil {
		crops = []string{}
	}
	created, err := s.repo.CreatePlotAssignment(ctx, domain.NewPlotAssignment(plotID, userID, crops, s.now()))
	if err != nil {
		return domain.PlotAssignment{}, fmt.Errorf("s.repo.CreatePlotAssignment -> %w", err)
	}

	return created, nil
}

func (s *PlotAssignmentService) Get(ctx context.Context, id uint) (domain.PlotAssignment, error) {
	a, err := s.repo.FindPlotAssignmentByID(ctx, id)
	if err != nil {
		return domain.PlotAssignment{}, fmt.Errorf("s.repo.FindPlotAssignmentByID -> %w", err)
	}

	return a, nil
}

func (s *PlotAssignmentService) List(ctx context.Context, filter PlotAssignmentFilter) ([]domain.PlotAssignment, error) {
	as, err := s.repo.FindPlotAssignments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindPlotAssignments -> %w", err)
	}

	return as, nil
}

// Manage applies an accept or reject action to a pending assignment.
// Accepting fails while another assignment of the same plot is accepted.
func (s *PlotAssignmentService) Manage(ctx context.Context, id uint, action domain.Action) (domain.PlotAssignment, error) {
	if action != domain.ActionAccept && action != domain.ActionReject {
		return domain.PlotAssignment{}, domain.ErrInvalidAction
	}

	var updated domain.PlotAssignment
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		a, err := s.repo.FindPlotAssignmentByID(ctx, id)
		if err != nil {
			return fmt.Errorf("s.repo.FindPlotAssignmentByID -> %w", err)
		}

		if action == domain.ActionAccept {
			if err = s.repo.LockPlot(ctx, a.PlotID); err != nil {
				return fmt.Errorf("s.repo.LockPlot -> %w", err)
			}

			accepted, err := s.repo.CountAccepted(ctx, a.PlotID, a.ID)
			if err != nil {
				return fmt.Errorf("s.repo.CountAccepted -> %w", err)
			}
			if accepted > 0 {
				return domain.ErrPlotAlreadyAssigned
			}
		}

		if err = a.Apply(action, s.now()); err != nil {
			return err
		}

		updated, err = s.repo.UpdatePlotAssignment(ctx, a)
		if errors.Is(err, ErrDuplicate) {
			return domain.ErrPlotAlreadyAssigned
		}
		if err != nil {
			return fmt.Errorf("s.repo.UpdatePlotAssignment -> %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.PlotAssignment{}, err
	}

	metrics.PlotAssignmentTransitions.WithLabelValues(string(updated.Status)).Inc()
	zap.L().Info("plot assignment updated",
		zap.Uint("assignment_id", updated.ID),
		zap.Uint("plot_id", updated.PlotID),
		zap.String("status", string(updated.Status)),
	)

	return updated, nil
}

// UpdateCrops replaces the crop list without touching status or dates.
func (s *PlotAssignmentService) UpdateCrops(ctx context.Context, id uint, crops []string) (domain.PlotAssignment, error) {
	a, err := s.repo.FindPlotAssignmentByID(ctx, id)
	if err != nil {
		return domain.PlotAssignment{}, fmt.Errorf("s.repo.FindPlotAssignmentByID -> %w", err)
	}

	if crops == nil {
		crops = []string{}
	}
	a.Crops = crops

	updated, err := s.repo.UpdatePlotAssignment(ctx, a)
	if err != nil {
		return domain.PlotAssignment{}, fmt.Errorf("s.repo.UpdatePlotAssignment -> %w", err)
	}

	return updated, nil
}

func (s *PlotAssignmentService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.DeletePlotAssignment(ctx, id); err != nil {
		return fmt.Errorf("s.repo.DeletePlotAssignment -> %w", err)
	}

	return nil
}

// Export writes every plot assignment to w as an xlsx workbook.
func (s *PlotAssignmentService) Export(ctx context.Context, w io.Writer) error {
	as, err := s.repo.FindPlotAssignments(ctx, PlotAssignmentFilter{})
	if err != nil {
		return fmt.Errorf("s.repo.FindPlotAssignments -> %w", err)
	}

	if err = export.PlotAssignments(w, as); err != nil {
		return fmt.Errorf("export.PlotAssignments -> %w", err)
	}

	return nil
}
