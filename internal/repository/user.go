package repository

import (
	"context"
	"fmt"

	"github.com/ortiurbani/orti-api/internal/domain"
	"github.com/ortiurbani/orti-api/internal/repository/dao"
)

type UserDAO interface {
	Insert(ctx context.Context, user dao.User) (dao.User, error)
	FindByID(ctx context.Context, id uint) (dao.User, error)
	FindByEmail(ctx context.Context, email string) (dao.User, error)
	FindByKind(ctx context.Context, kind string) ([]dao.User, error)
	FindByAssociation(ctx context.Context, associationID uint) ([]dao.User, error)
	UpdateAffiliation(ctx context.Context, user dao.User) (dao.User, error)
	ClearAssociation(ctx context.Context, associationID uint, kind string) (int64, error)
	CountByMunicipality(ctx context.Context, municipalityID uint) (int64, error)
	CountByKind(ctx context.Context, kind string) (int64, error)
	Delete(ctx context.Context, id uint) error
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	created, err := r.dao.Insert(ctx, r.domainToDAO(user))
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created)
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	found, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByEmail -> %w", err)
	}

	return r.daoToDomain(found)
}

// FindByKind lists users of kind, or every user when kind is nil.
func (r *UserRepository) FindByKind(ctx context.Context, kind *domain.Kind) ([]domain.User, error) {
	filter := ""
	if kind != nil {
		filter = kind.String()
	}

	found, err := r.dao.FindByKind(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByKind -> %w", err)
	}

	return r.daosToDomain(found)
}

func (r *UserRepository) FindByAssociation(ctx context.Context, associationID uint) ([]domain.User, error) {
	found, err := r.dao.FindByAssociation(ctx, associationID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByAssociation -> %w", err)
	}

	return r.daosToDomain(found)
}

func (r *UserRepository) UpdateAffiliation(ctx context.Context, user domain.User) (domain.User, error) {
	updated, err := r.dao.UpdateAffiliation(ctx, r.domainToDAO(user))
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.UpdateAffiliation -> %w", err)
	}

	return r.daoToDomain(updated)
}

// DowngradeAssociationMembers turns every member of the association into a citizen.
func (r *UserRepository) DowngradeAssociationMembers(ctx context.Context, associationID uint) (int64, error) {
	n, err := r.dao.ClearAssociation(ctx, associationID, domain.KindCitizen.String())
	if err != nil {
		return 0, fmt.Errorf("r.dao.ClearAssociation -> %w", err)
	}

	return n, nil
}

func (r *UserRepository) CountByMunicipality(ctx context.Context, municipalityID uint) (int64, error) {
	n, err := r.dao.CountByMunicipality(ctx, municipalityID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountByMunicipality -> %w", err)
	}

	return n, nil
}

func (r *UserRepository) CountByKind(ctx context.Context, kind domain.Kind) (int64, error) {
	n, err := r.dao.CountByKind(ctx, kind.String())
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountByKind -> %w", err)
	}

	return n, nil
}

func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *UserRepository) domainToDAO(u domain.User) dao.User {
	kind, admin, associationID, municipalityID := domain.FlattenAffiliation(u.Affiliation)

	return dao.User{
		ID:             u.ID,
		Email:          u.Email,
		Password:       u.Password,
		Name:           u.Name,
		Kind:           kind.String(),
		Admin:          admin,
		AssociationID:  associationID,
		MunicipalityID: municipalityID,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

// daoToDomain rebuilds the affiliation variant. Rows whose flat columns
// disagree with their kind are reported as validation failures.
func (r *UserRepository) daoToDomain(u dao.User) (domain.User, error) {
	kind, err := domain.ParseKind(u.Kind)
	if err != nil {
		return domain.User{}, fmt.Errorf("user %d -> %w", u.ID, err)
	}

	affiliation, err := domain.NewAffiliation(kind, u.Admin, u.AssociationID, u.MunicipalityID)
	if err != nil {
		return domain.User{}, fmt.Errorf("user %d -> %w", u.ID, err)
	}

	return domain.User{
		ID:          u.ID,
		Email:       u.Email,
		Password:    u.Password,
		Name:        u.Name,
		Affiliation: affiliation,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}, nil
}

func (r *UserRepository) daosToDomain(us []dao.User) ([]domain.User, error) {
	users := make([]domain.User, 0, len(us))
	for _, u := range us {
		user, err := r.daoToDomain(u)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, nil
}
