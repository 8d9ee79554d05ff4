package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ortiurbani/orti-api/internal/domain"
	"github.com/ortiurbani/orti-api/internal/metrics"
)

type AssociationRepository interface {
	Create(ctx context.Context, a domain.Association) (domain.Association, error)
	FindByID(ctx context.Context, id uint) (domain.Association, error)
	Find(ctx context.Context, municipalityID uint) ([]domain.Association, error)
	Update(ctx context.Context, a domain.Association) (domain.Association, error)
	Delete(ctx context.Context, id uint) error
}

type MemberRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByAssociation(ctx context.Context, associationID uint) ([]domain.User, error)
	UpdateAffiliation(ctx context.Context, user domain.User) (domain.User, error)
	DowngradeAssociationMembers(ctx context.Context, associationID uint) (int64, error)
}

type PlotIDLister interface {
	PlotIDsByGardens(ctx context.Context, gardenIDs []uint) ([]uint, error)
}

type AssociationAssignmentRepository interface {
	FindGardenAssignments(ctx context.Context, associationID uint) ([]domain.GardenAssignment, error)
	DeletePlotAssignmentsByPlots(ctx context.Context, plotIDs []uint) (int64, error)
	DeleteGardenAssignmentsByAssociation(ctx context.Context, associationID uint) (int64, error)
}

type AssociationService struct {
	tx             Transactor
	repo           AssociationRepository
	members        MemberRepository
	plots          PlotIDLister
	assignments    AssociationAssignmentRepository
	municipalities MunicipalityFinder
}

func NewAssociationService(
	tx Transactor,
	repo AssociationRepository,
	members MemberRepository,
	plots PlotIDLister,
	assignments AssociationAssignmentRepository,
	municipalities MunicipalityFinder,
) *AssociationService {
	return &AssociationService{
		tx:             tx,
		repo:           repo,
		members:        members,
		plots:          plots,
		assignments:    assignments,
		municipalities: municipalities,
	}
}

func (s *AssociationService) Create(ctx context.Context, a domain.Association) (domain.Association, error) {
	if _, err := s.municipalities.FindByID(ctx, a.MunicipalityID); err != nil {
		return domain.Association{}, fmt.Errorf("s.municipalities.FindByID -> %w", reference(err, "municipality", a.MunicipalityID))
	}

	created, err := s.repo.Create(ctx, a)
	if err != nil {
		return domain.Association{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *AssociationService) Get(ctx context.Context, id uint) (domain.Association, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Association{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return a, nil
}

func (s *AssociationService) List(ctx context.Context, municipalityID uint) ([]domain.Association, error) {
	as, err := s.repo.Find(ctx, municipalityID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Find -> %w", err)
	}

	return as, nil
}

// Update lets municipality members edit any association and association
// administrators edit their own.
func (s *AssociationService) Update(ctx context.Context, principal domain.Principal, a domain.Association) (domain.Association, error) {
	if err := canManageAssociation(principal, a.ID, true); err != nil {
		return domain.Association{}, err
	}

	current, err := s.repo.FindByID(ctx, a.ID)
	if err != nil {
		return domain.Association{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if a.MunicipalityID != current.MunicipalityID {
		if _, err = s.municipalities.FindByID(ctx, a.MunicipalityID); err != nil {
			return domain.Association{}, fmt.Errorf("s.municipalities.FindByID -> %w", reference(err, "municipality", a.MunicipalityID))
		}
	}
	a.CreatedAt = current.CreatedAt

	updated, err := s.repo.Update(ctx, a)
	if err != nil {
		return domain.Association{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// AddMember turns a citizen into a member of the association.
func (s *AssociationService) AddMember(ctx context.Context, principal domain.Principal, associationID, userID uint, admin bool) (domain.User, error) {
	if err := canManageAssociation(principal, associationID, true); err != nil {
		return domain.User{}, err
	}

	if _, err := s.repo.FindByID(ctx, associationID); err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	user, err := s.members.FindByID(ctx, userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.members.FindByID -> %w", reference(err, "user", userID))
	}
	if user.Kind() != domain.KindCitizen {
		return domain.User{}, ErrNotCitizen
	}

	user.Affiliation = domain.AssociationMembership{AssociationID: associationID, Admin: admin}
	updated, err := s.members.UpdateAffiliation(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.members.UpdateAffiliation -> %w", err)
	}

	return updated, nil
}

func (s *AssociationService) ListMembers(ctx context.Context, principal domain.Principal, associationID uint) ([]domain.User, error) {
	if err := canManageAssociation(principal, associationID, false); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByID(ctx, associationID); err != nil {
		return nil, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	members, err := s.members.FindByAssociation(ctx, associationID)
	if err != nil {
		return nil, fmt.Errorf("s.members.FindByAssociation -> %w", err)
	}

	return members, nil
}

// Delete removes an association and everything hanging off it:
//  1. members become citizens without admin rights,
//  2. plot assignments on plots of gardens the association manages are
//     removed whatever their status,
//  3. the association's garden assignments are removed,
//  4. the association itself is removed.
//
// A missing association is reported as not found before anything is
// written. A failure after that point is wrapped in ErrCascadeFailed.
func (s *AssociationService) Delete(ctx context.Context, id uint) (domain.AssociationDeletion, error) {
	result := domain.AssociationDeletion{AssociationID: id}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.FindByID(ctx, id); err != nil {
			return fmt.Errorf("s.repo.FindByID -> %w", err)
		}

		downgraded, err := s.members.DowngradeAssociationMembers(ctx, id)
		if err != nil {
			return fmt.Errorf("%w: s.members.DowngradeAssociationMembers -> %w", ErrCascadeFailed, err)
		}
		result.MembersDowngraded = downgraded

		managed, err := s.assignments.FindGardenAssignments(ctx, id)
		if err != nil {
			return fmt.Errorf("%w: s.assignments.FindGardenAssignments -> %w", ErrCascadeFailed, err)
		}

		gardenIDs := managedGardenIDs(managed)
		result.GardensReleased = len(gardenIDs)
		if len(gardenIDs) > 0 {
			plotIDs, err := s.plots.PlotIDsByGardens(ctx, gardenIDs)
			if err != nil {
				return fmt.Errorf("%w: s.plots.PlotIDsByGardens -> %w", ErrCascadeFailed, err)
			}

			removed, err := s.assignments.DeletePlotAssignmentsByPlots(ctx, plotIDs)
			if err != nil {
				return fmt.Errorf("%w: s.assignments.DeletePlotAssignmentsByPlots -> %w", ErrCascadeFailed, err)
			}
			result.PlotAssignmentsRemoved = removed
		}

		released, err := s.assignments.DeleteGardenAssignmentsByAssociation(ctx, id)
		if err != nil {
			return fmt.Errorf("%w: s.assignments.DeleteGardenAssignmentsByAssociation -> %w", ErrCascadeFailed, err)
		}
		result.GardenAssignmentsRemoved = released

		if err = s.repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("%w: s.repo.Delete -> %w", ErrCascadeFailed, err)
		}

		return nil
	})
	if err != nil {
		return domain.AssociationDeletion{}, err
	}

	metrics.AssociationsDeleted.Inc()
	metrics.MembersDowngraded.Add(float64(result.MembersDowngraded))
	metrics.AssignmentsRemoved.WithLabelValues("lotto").Add(float64(result.PlotAssignmentsRemoved))
	metrics.AssignmentsRemoved.WithLabelValues("orto").Add(float64(result.GardenAssignmentsRemoved))

	zap.L().Info("association deleted",
		zap.Uint("association_id", id),
		zap.Int64("members_downgraded", result.MembersDowngraded),
		zap.Int("gardens_released", result.GardensReleased),
		zap.Int64("plot_assignments_removed", result.PlotAssignmentsRemoved),
		zap.Int64("garden_assignments_removed", result.GardenAssignmentsRemoved),
	)

	return result, nil
}

func managedGardenIDs(assignments []domain.GardenAssignment) []uint {
	seen := make(map[uint]struct{}, len(assignments))
	ids := make([]uint, 0, len(assignments))
	for _, a := range assignments {
		if _, ok := seen[a.GardenID]; ok {
			continue
		}
		seen[a.GardenID] = struct{}{}
		ids = append(ids, a.GardenID)
	}

	return ids
}

// canManageAssociation allows municipality members, and association members
// of associationID (administrators only when adminOnly is set).
func canManageAssociation(principal domain.Principal, associationID uint, adminOnly bool) error {
	switch principal.Kind {
	case domain.KindMunicipalityMember:
		return nil
	case domain.KindAssociationMember:
		if principal.AssociationID != associationID {
			return domain.ErrForbiddenRole
		}
		if adminOnly && !principal.Admin {
			return domain.ErrForbiddenAdmin
		}
		return nil
	default:
		return domain.ErrForbiddenRole
	}
}
