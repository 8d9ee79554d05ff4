package service

import (
	"context"
	"fmt"

	"github.com/ortiurbani/orti-api/internal/domain"
)

type MunicipalityRepository interface {
	Create(ctx context.Context, m domain.Municipality) (domain.Municipality, error)
	FindByID(ctx context.Context, id uint) (domain.Municipality, error)
	FindAll(ctx context.Context) ([]domain.Municipality, error)
	Update(ctx context.Context, m domain.Municipality) (domain.Municipality, error)
	Delete(ctx context.Context, id uint) error
}

// MunicipalityCounter counts records owned by a municipality.
type MunicipalityCounter interface {
	CountByMunicipality(ctx context.Context, municipalityID uint) (int64, error)
}

type MunicipalityService struct {
	tx           Transactor
	repo         MunicipalityRepository
	dependencies []MunicipalityCounter
}

// NewMunicipalityService takes every repository whose records may point to a
// municipality; deletion is refused while any of them still does.
func NewMunicipalityService(tx Transactor, repo MunicipalityRepository, dependencies ...MunicipalityCounter) *MunicipalityService {
	return &MunicipalityService{
		tx:           tx,
		repo:         repo,
		dependencies: dependencies,
	}
}

func (s *MunicipalityService) Create(ctx context.Context, m domain.Municipality) (domain.Municipality, error) {
	created, err := s.repo.Create(ctx, m)
	if err != nil {
		return domain.Municipality{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *MunicipalityService) Get(ctx context.Context, id uint) (domain.Municipality, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Municipality{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return m, nil
}

func (s *MunicipalityService) List(ctx context.Context) ([]domain.Municipality, error) {
	ms, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return ms, nil
}

func (s *MunicipalityService) Update(ctx context.Context, m domain.Municipality) (domain.Municipality, error) {
	current, err := s.repo.FindByID(ctx, m.ID)
	if err != nil {
		return domain.Municipality{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	m.CreatedAt = current.CreatedAt

	updated, err := s.repo.Update(ctx, m)
	if err != nil {
		return domain.Municipality{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *MunicipalityService) Delete(ctx context.Context, id uint) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.FindByID(ctx, id); err != nil {
			return fmt.Errorf("s.repo.FindByID -> %w", err)
		}

		for _, dep := range s.dependencies {
			n, err := dep.CountByMunicipality(ctx, id)
			if err != nil {
				return fmt.Errorf("dep.CountByMunicipality -> %w", err)
			}
			if n > 0 {
				return ErrMunicipalityUsed
			}
		}

		if err := s.repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("s.repo.Delete -> %w", err)
		}

		return nil
	})
}
