package repository

import (
	"context"
	"fmt"

	"github.com/ortiurbani/orti-api/internal/domain"
	"github.com/ortiurbani/orti-api/internal/repository/dao"
)

type MunicipalityDAO interface {
	Insert(ctx context.Context, m dao.Municipality) (dao.Municipality, error)
	FindByID(ctx context.Context, id uint) (dao.Municipality, error)
	FindByName(ctx context.Context, name string) (dao.Municipality, error)
	FindAll(ctx context.Context) ([]dao.Municipality, error)
	Update(ctx context.Context, m dao.Municipality) (dao.Municipality, error)
	Delete(ctx context.Context, id uint) error
}

type MunicipalityRepository struct {
	dao MunicipalityDAO
}

func NewMunicipalityRepository(dao MunicipalityDAO) *MunicipalityRepository {
	return &MunicipalityRepository{
		dao: dao,
	}
}

func (r *MunicipalityRepository) Create(ctx context.Context, m domain.Municipality) (domain.Municipality, error) {
	created, err := r.dao.Insert(ctx, dao.Municipality{
		Name:     m.Name,
		Province: m.Province,
		Region:   m.Region,
	})
	if err != nil {
		return domain.Municipality{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return municipalityToDomain(created), nil
}

func (r *MunicipalityRepository) FindByID(ctx context.Context, id uint) (domain.Municipality, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Municipality{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return municipalityToDomain(found), nil
}

func (r *MunicipalityRepository) FindByName(ctx context.Context, name string) (domain.Municipality, error) {
	found, err := r.dao.FindByName(ctx, name)
	if err != nil {
		return domain.Municipality{}, fmt.Errorf("r.dao.FindByName -> %w", err)
	}

	return municipalityToDomain(found), nil
}

func (r *MunicipalityRepository) FindAll(ctx context.Context) ([]domain.Municipality, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	ms := make([]domain.Municipality, 0, len(found))
	for _, m := range found {
		ms = append(ms, municipalityToDomain(m))
	}

	return ms, nil
}

func (r *MunicipalityRepository) Update(ctx context.Context, m domain.Municipality) (domain.Municipality, error) {
	updated, err := r.dao.Update(ctx, dao.Municipality{
		ID:        m.ID,
		Name:      m.Name,
		Province:  m.Province,
		Region:    m.Region,
		CreatedAt: m.CreatedAt,
	})
	if err != nil {
		return domain.Municipality{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return municipalityToDomain(updated), nil
}

func (r *MunicipalityRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func municipalityToDomain(m dao.Municipality) domain.Municipality {
	return domain.Municipality{
		ID:        m.ID,
		Name:      m.Name,
		Province:  m.Province,
		Region:    m.Region,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type AssociationDAO interface {
	Insert(ctx context.Context, a dao.Association) (dao.Association, error)
	FindByID(ctx context.Context, id uint) (dao.Association, error)
	Find(ctx context.Context, municipalityID uint) ([]dao.Association, error)
	CountByMunicipality(ctx context.Context, municipalityID uint) (int64, error)
	Update(ctx context.Context, a dao.Association) (dao.Association, error)
	Delete(ctx context.Context, id uint) error
}

type AssociationRepository struct {
	dao AssociationDAO
}

func NewAssociationRepository(dao AssociationDAO) *AssociationRepository {
	return &AssociationRepository{
		dao: dao,
	}
}

func (r *AssociationRepository) Create(ctx context.Context, a domain.Association) (domain.Association, error) {
	created, err := r.dao.Insert(ctx, associationToDAO(a))
	if err != nil {
		return domain.Association{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return associationToDomain(created), nil
}

func (r *AssociationRepository) FindByID(ctx context.Context, id uint) (domain.Association, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Association{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return associationToDomain(found), nil
}

func (r *AssociationRepository) Find(ctx context.Context, municipalityID uint) ([]domain.Association, error) {
	found, err := r.dao.Find(ctx, municipalityID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.Find -> %w", err)
	}

	as := make([]domain.Association, 0, len(found))
	for _, a := range found {
		as = append(as, associationToDomain(a))
	}

	return as, nil
}

func (r *AssociationRepository) CountByMunicipality(ctx context.Context, municipalityID uint) (int64, error) {
	n, err := r.dao.CountByMunicipality(ctx, municipalityID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountByMunicipality -> %w", err)
	}

	return n, nil
}

func (r *AssociationRepository) Update(ctx context.Context, a domain.Association) (domain.Association, error) {
	updated, err := r.dao.Update(ctx, associationToDAO(a))
	if err != nil {
		return domain.Association{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return associationToDomain(updated), nil
}

func (r *AssociationRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func associationToDAO(a domain.Association) dao.Association {
	return dao.Association{
		ID:             a.ID,
		Name:           a.Name,
		Description:    a.Description,
		Email:          a.Email,
		MunicipalityID: a.MunicipalityID,
		CreatedAt:      a.CreatedAt,
	}
}

func associationToDomain(a dao.Association) domain.Association {
	return domain.Association{
		ID:             a.ID,
		Name:           a.Name,
		Description:    a.Description,
		Email:          a.Email,
		MunicipalityID: a.MunicipalityID,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}
