package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ortiurbani/orti-api/internal/domain"
)

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByKind(ctx context.Context, kind *domain.Kind) ([]domain.User, error)
	UpdateAffiliation(ctx context.Context, user domain.User) (domain.User, error)
	Delete(ctx context.Context, id uint) error
}

type UserAssignmentRepository interface {
	DeletePlotAssignmentsByUser(ctx context.Context, userID uint) (int64, error)
}

type AssociationFinder interface {
	FindByID(ctx context.Context, id uint) (domain.Association, error)
}

type MunicipalityFinder interface {
	FindByID(ctx context.Context, id uint) (domain.Municipality, error)
}

type UserService struct {
	tx             Transactor
	repo           UserRepository
	assignments    UserAssignmentRepository
	associations   AssociationFinder
	municipalities MunicipalityFinder
}

func NewUserService(tx Transactor, repo UserRepository, assignments UserAssignmentRepository, associations AssociationFinder, municipalities MunicipalityFinder) *UserService {
	return &UserService{
		tx:             tx,
		repo:           repo,
		assignments:    assignments,
		associations:   associations,
		municipalities: municipalities,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context, kind *domain.Kind) ([]domain.User, error) {
	users, err := s.repo.FindByKind(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByKind -> %w", err)
	}

	return users, nil
}

// SetAffiliation replaces the user's affiliation. The association or
// municipality it points to must exist.
func (s *UserService) SetAffiliation(ctx context.Context, id uint, affiliation domain.Affiliation) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	switch a := affiliation.(type) {
	case domain.AssociationMembership:
		if _, err = s.associations.FindByID(ctx, a.AssociationID); err != nil {
			return domain.User{}, fmt.Errorf("s.associations.FindByID -> %w", reference(err, "association", a.AssociationID))
		}
	case domain.MunicipalityMembership:
		if _, err = s.municipalities.FindByID(ctx, a.MunicipalityID); err != nil {
			return domain.User{}, fmt.Errorf("s.municipalities.FindByID -> %w", reference(err, "municipality", a.MunicipalityID))
		}
	}

	user.Affiliation = affiliation
	updated, err := s.repo.UpdateAffiliation(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.UpdateAffiliation -> %w", err)
	}

	zap.L().Info("user affiliation changed",
		zap.Uint("user_id", id),
		zap.Stringer("kind", updated.Kind()),
		zap.Bool("admin", updated.IsAdmin()),
	)

	return updated, nil
}

// DeleteUser removes the user together with their plot assignments.
func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.FindByID(ctx, id); err != nil {
			return fmt.Errorf("s.repo.FindByID -> %w", err)
		}
		if _, err := s.assignments.DeletePlotAssignmentsByUser(ctx, id); err != nil {
			return fmt.Errorf("s.assignments.DeletePlotAssignmentsByUser -> %w", err)
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("s.repo.Delete -> %w", err)
		}

		return nil
	})
}
