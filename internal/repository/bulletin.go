package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ortiurbani/orti-api/internal/domain"
	"github.com/ortiurbani/orti-api/internal/repository/dao"
)

type BulletinDAO interface {
	InsertNotice(ctx context.Context, n dao.Notice) (dao.Notice, error)
	FindNoticeByID(ctx context.Context, id uint) (dao.Notice, error)
	FindNotices(ctx context.Context, gardenID uint) ([]dao.Notice, error)
	DetachNoticesFromGarden(ctx context.Context, gardenID uint) (int64, error)
	DeleteNotice(ctx context.Context, id uint) error
	InsertTender(ctx context.Context, t dao.Tender) (dao.Tender, error)
	FindTenderByID(ctx context.Context, id uint) (dao.Tender, error)
	FindTenders(ctx context.Context, openAt time.Time) ([]dao.Tender, error)
	UpdateTender(ctx context.Context, t dao.Tender) (dao.Tender, error)
	DeleteTender(ctx context.Context, id uint) error
}

type BulletinRepository struct {
	dao BulletinDAO
}

func NewBulletinRepository(dao BulletinDAO) *BulletinRepository {
	return &BulletinRepository{
		dao: dao,
	}
}

func (r *BulletinRepository) CreateNotice(ctx context.Context, n domain.Notice) (domain.Notice, error) {
	created, err := r.dao.InsertNotice(ctx, dao.Notice{
		Title:    n.Title,
		Content:  n.Content,
		AuthorID: n.AuthorID,
		GardenID: n.GardenID,
	})
	if err != nil {
		return domain.Notice{}, fmt.Errorf("r.dao.InsertNotice -> %w", err)
	}

	return noticeToDomain(created), nil
}

func (r *BulletinRepository) FindNoticeByID(ctx context.Context, id uint) (domain.Notice, error) {
	found, err := r.dao.FindNoticeByID(ctx, id)
	if err != nil {
		return domain.Notice{}, fmt.Errorf("r.dao.FindNoticeByID -> %w", err)
	}

	return noticeToDomain(found), nil
}

func (r *BulletinRepository) FindNotices(ctx context.Context, gardenID uint) ([]domain.Notice, error) {
	found, err := r.dao.FindNotices(ctx, gardenID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindNotices -> %w", err)
	}

	ns := make([]domain.Notice, 0, len(found))
	for _, n := range found {
		ns = append(ns, noticeToDomain(n))
	}

	return ns, nil
}

func (r *BulletinRepository) DetachNoticesFromGarden(ctx context.Context, gardenID uint) (int64, error) {
	n, err := r.dao.DetachNoticesFromGarden(ctx, gardenID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.DetachNoticesFromGarden -> %w", err)
	}

	return n, nil
}

func (r *BulletinRepository) DeleteNotice(ctx context.Context, id uint) error {
	if err := r.dao.DeleteNotice(ctx, id); err != nil {
		return fmt.Errorf("r.dao.DeleteNotice -> %w", err)
	}

	return nil
}

func (r *BulletinRepository) CreateTender(ctx context.Context, t domain.Tender) (domain.Tender, error) {
	created, err := r.dao.InsertTender(ctx, tenderToDAO(t))
	if err != nil {
		return domain.Tender{}, fmt.Errorf("r.dao.InsertTender -> %w", err)
	}

	return tenderToDomain(created), nil
}

func (r *BulletinRepository) FindTenderByID(ctx context.Context, id uint) (domain.Tender, error) {
	found, err := r.dao.FindTenderByID(ctx, id)
	if err != nil {
		return domain.Tender{}, fmt.Errorf("r.dao.FindTenderByID -> %w", err)
	}

	return tenderToDomain(found), nil
}

func (r *BulletinRepository) FindTenders(ctx context.Context, openAt time.Time) ([]domain.Tender, error) {
	found, err := r.dao.FindTenders(ctx, openAt)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindTenders -> %w", err)
	}

	ts := make([]domain.Tender, 0, len(found))
	for _, t := range found {
		ts = append(ts, tenderToDomain(t))
	}

	return ts, nil
}

func (r *BulletinRepository) UpdateTender(ctx context.Context, t domain.Tender) (domain.Tender, error) {
	updated, err := r.dao.UpdateTender(ctx, tenderToDAO(t))
	if err != nil {
		return domain.Tender{}, fmt.Errorf("r.dao.UpdateTender -> %w", err)
	}

	return tenderToDomain(updated), nil
}

func (r *BulletinRepository) DeleteTender(ctx context.Context, id uint) error {
	if err := r.dao.DeleteTender(ctx, id); err != nil {
		return fmt.Errorf("r.dao.DeleteTender -> %w", err)
	}

	return nil
}

func noticeToDomain(n dao.Notice) domain.Notice {
	return domain.Notice{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		AuthorID:  n.AuthorID,
		GardenID:  n.GardenID,
		CreatedAt: n.CreatedAt,
	}
}

func tenderToDAO(t domain.Tender) dao.Tender {
	return dao.Tender{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		MunicipalityID: t.MunicipalityID,
		OpensAt:        t.OpensAt,
		ClosesAt:       t.ClosesAt,
		CreatedAt:      t.CreatedAt,
	}
}

func tenderToDomain(t dao.Tender) domain.Tender {
	return domain.Tender{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		MunicipalityID: t.MunicipalityID,
		OpensAt:        t.OpensAt,
		ClosesAt:       t.ClosesAt,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}
