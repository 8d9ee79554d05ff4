package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Notice struct {
	ID        uint   `gorm:"primaryKey"`
	Title     string `gorm:"not null"`
	Content   string `gorm:"type:text"`
	AuthorID  uint   `gorm:"not null;index"`
	GardenID  *uint  `gorm:"index"`
	CreatedAt time.Time
}

type Tender struct {
	ID             uint   `gorm:"primaryKey"`
	Title          string `gorm:"not null"`
	Description    string `gorm:"type:text"`
	MunicipalityID uint   `gorm:"not null;index"`
	OpensAt        time.Time
	ClosesAt       time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type BulletinDAO struct {
	db *gorm.DB
}

func NewBulletinDAO(db *gorm.DB) *BulletinDAO {
	return &BulletinDAO{
		db: db,
	}
}

func (d *BulletinDAO) InsertNotice(ctx context.Context, n Notice) (Notice, error) {
	return insert(ctx, d.db, n)
}

func (d *BulletinDAO) FindNoticeByID(ctx context.Context, id uint) (Notice, error) {
	return first[Notice](ctx, d.db, id)
}

func (d *BulletinDAO) FindNotices(ctx context.Context, gardenID uint) ([]Notice, error) {
	var ns []Notice

	q := conn(ctx, d.db).Order("created_at DESC, id DESC")
	if gardenID != 0 {
		q = q.Where("garden_id = ?", gardenID)
	}
	if err := q.Find(&ns).Error; err != nil {
		return nil, translate(err)
	}

	return ns, nil
}

func (d *BulletinDAO) DetachNoticesFromGarden(ctx context.Context, gardenID uint) (int64, error) {
	result := conn(ctx, d.db).Model(&Notice{}).Where("garden_id = ?", gardenID).Update("garden_id", nil)
	return result.RowsAffected, translate(result.Error)
}

func (d *BulletinDAO) DeleteNotice(ctx context.Context, id uint) error {
	return deleteByID[Notice](ctx, d.db, id)
}

func (d *BulletinDAO) InsertTender(ctx context.Context, t Tender) (Tender, error) {
	return insert(ctx, d.db, t)
}

func (d *BulletinDAO) FindTenderByID(ctx context.Context, id uint) (Tender, error) {
	return first[Tender](ctx, d.db, id)
}

// FindTenders lists tenders; when openAt is non-zero only those open at that instant.
func (d *BulletinDAO) FindTenders(ctx context.Context, openAt time.Time) ([]Tender, error) {
	var ts []Tender

	q := conn(ctx, d.db).Order("closes_at")
	if !openAt.IsZero() {
		q = q.Where("opens_at <= ? AND closes_at >= ?", openAt, openAt)
	}
	if err := q.Find(&ts).Error; err != nil {
		return nil, translate(err)
	}

	return ts, nil
}

func (d *BulletinDAO) UpdateTender(ctx context.Context, t Tender) (Tender, error) {
	return save(ctx, d.db, t)
}

func (d *BulletinDAO) DeleteTender(ctx context.Context, id uint) error {
	return deleteByID[Tender](ctx, d.db, id)
}
