package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ortiurbani/orti-api/internal/domain"
)

type NoticeRepository interface {
	CreateNotice(ctx context.Context, n domain.Notice) (domain.Notice, error)
	FindNoticeByID(ctx context.Context, id uint) (domain.Notice, error)
	FindNotices(ctx context.Context, gardenID uint) ([]domain.Notice, error)
	DeleteNotice(ctx context.Context, id uint) error
}

type NoticeService struct {
	repo    NoticeRepository
	gardens GardenFinder
}

func NewNoticeService(repo NoticeRepository, gardens GardenFinder) *NoticeService {
	return &NoticeService{
		repo:    repo,
		gardens: gardens,
	}
}

func (s *NoticeService) Publish(ctx context.Context, authorID uint, n domain.Notice) (domain.Notice, error) {
	if n.GardenID != nil {
		if _, err := s.gardens.FindByID(ctx, *n.GardenID); err != nil {
			return domain.Notice{}, fmt.Errorf("s.gardens.FindByID -> %w", reference(err, "garden", *n.GardenID))
		}
	}
	n.AuthorID = authorID

	created, err := s.repo.CreateNotice(ctx, n)
	if err != nil {
		return domain.Notice{}, fmt.Errorf("s.repo.CreateNotice -> %w", err)
	}

	return created, nil
}

func (s *NoticeService) Get(ctx context.Context, id uint) (domain.Notice, error) {
	n, err := s.repo.FindNoticeByID(ctx, id)
	if err != nil {
		return domain.Notice{}, fmt.Errorf("s.repo.FindNoticeByID -> %w", err)
	}

	return n, nil
}

func (s *NoticeService) List(ctx context.Context, gardenID uint) ([]domain.Notice, error) {
	ns, err := s.repo.FindNotices(ctx, gardenID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindNotices -> %w", err)
	}

	return ns, nil
}

// Delete is allowed to the author and to municipality administrators.
func (s *NoticeService) Delete(ctx context.Context, principal domain.Principal, id uint) error {
	n, err := s.repo.FindNoticeByID(ctx, id)
	if err != nil {
		return fmt.Errorf("s.repo.FindNoticeByID -> %w", err)
	}

	municipalityAdmin := principal.Kind == domain.KindMunicipalityMember && principal.Admin
	if n.AuthorID != principal.UserID && !municipalityAdmin {
		return domain.ErrForbiddenRole
	}

	if err = s.repo.DeleteNotice(ctx, id); err != nil {
		return fmt.Errorf("s.repo.DeleteNotice -> %w", err)
	}

	return nil
}

type TenderRepository interface {
	CreateTender(ctx context.Context, t domain.Tender) (domain.Tender, error)
	FindTenderByID(ctx context.Context, id uint) (domain.Tender, error)
	FindTenders(ctx context.Context, openAt time.Time) ([]domain.Tender, error)
	UpdateTender(ctx context.Context, t domain.Tender) (domain.Tender, error)
	DeleteTender(ctx context.Context, id uint) error
}

type TenderService struct {
	repo           TenderRepository
	municipalities MunicipalityFinder
	now            func() time.Time
}

func NewTenderService(repo TenderRepository, municipalities MunicipalityFinder) *TenderService {
	return &TenderService{
		repo:           repo,
		municipalities: municipalities,
		now:            utcNow,
	}
}

func (s *TenderService) Create(ctx context.Context, t domain.Tender) (domain.Tender, error) {
	if err := t.Validate(); err != nil {
		return domain.Tender{}, err
	}
	if _, err := s.municipalities.FindByID(ctx, t.MunicipalityID); err != nil {
		return domain.Tender{}, fmt.Errorf("s.municipalities.FindByID -> %w", reference(err, "municipality", t.MunicipalityID))
	}

	created, err := s.repo.CreateTender(ctx, t)
	if err != nil {
		return domain.Tender{}, fmt.Errorf("s.repo.CreateTender -> %w", err)
	}

	return created, nil
}

func (s *TenderService) Get(ctx context.Context, id uint) (domain.Tender, error) {
	t, err := s.repo.FindTenderByID(ctx, id)
	if err != nil {
		return domain.Tender{}, fmt.Errorf("s.repo.FindTenderByID -> %w", err)
	}

	return t, nil
}

// List returns every tender, or only those open right now when openOnly is set.
func (s *TenderService) List(ctx context.Context, openOnly bool) ([]domain.Tender, error) {
	var at time.Time
	if openOnly {
		at = s.now()
	}

	ts, err := s.repo.FindTenders(ctx, at)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindTenders -> %w", err)
	}

	return ts, nil
}

func (s *TenderService) Update(ctx context.Context, t domain.Tender) (domain.Tender, error) {
	if err := t.Validate(); err != nil {
		return domain.Tender{}, err
	}

	current, err := s.repo.FindTenderByID(ctx, t.ID)
	if err != nil {
		return domain.Tender{}, fmt.Errorf("s.repo.FindTenderByID -> %w", err)
	}
	if t.MunicipalityID != current.MunicipalityID {
		if _, err = s.municipalities.FindByID(ctx, t.MunicipalityID); err != nil {
			return domain.Tender{}, fmt.Errorf("s.municipalities.FindByID -> %w", reference(err, "municipality", t.MunicipalityID))
		}
	}
	t.CreatedAt = current.CreatedAt

	updated, err := s.repo.UpdateTender(ctx, t)
	if err != nil {
		return domain.Tender{}, fmt.Errorf("s.repo.UpdateTender -> %w", err)
	}

	return updated, nil
}

func (s *TenderService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.DeleteTender(ctx, id); err != nil {
		return fmt.Errorf("s.repo.DeleteTender -> %w", err)
	}

	return nil
}
