package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Municipality struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"unique;not null"`
	Province  string
	Region    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Association struct {
	ID             uint   `gorm:"primaryKey"`
	Name           string `gorm:"unique;not null"`
	Description    string
	Email          string
	MunicipalityID uint `gorm:"index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type MunicipalityDAO struct {
	db *gorm.DB
}

func NewMunicipalityDAO(db *gorm.DB) *MunicipalityDAO {
	return &MunicipalityDAO{
		db: db,
	}
}

func (d *MunicipalityDAO) Insert(ctx context.Context, m Municipality) (Municipality, error) {
	return insert(ctx, d.db, m)
}

func (d *MunicipalityDAO) FindByID(ctx context.Context, id uint) (Municipality, error) {
	return first[Municipality](ctx, d.db, id)
}

func (d *MunicipalityDAO) FindByName(ctx context.Context, name string) (Municipality, error) {
	var m Municipality
	if err := conn(ctx, d.db).First(&m, "name = ?", name).Error; err != nil {
		return Municipality{}, translate(err)
	}

	return m, nil
}

func (d *MunicipalityDAO) FindAll(ctx context.Context) ([]Municipality, error) {
	var ms []Municipality
	if err := conn(ctx, d.db).Order("name").Find(&ms).Error; err != nil {
		return nil, translate(err)
	}

	return ms, nil
}

func (d *MunicipalityDAO) Update(ctx context.Context, m Municipality) (Municipality, error) {
	return save(ctx, d.db, m)
}

func (d *MunicipalityDAO) Delete(ctx context.Context, id uint) error {
	return deleteByID[Municipality](ctx, d.db, id)
}

type AssociationDAO struct {
	db *gorm.DB
}

func NewAssociationDAO(db *gorm.DB) *AssociationDAO {
	return &AssociationDAO{
		db: db,
	}
}

func (d *AssociationDAO) Insert(ctx context.Context, a Association) (Association, error) {
	return insert(ctx, d.db, a)
}

func (d *AssociationDAO) FindByID(ctx context.Context, id uint) (Association, error) {
	return first[Association](ctx, d.db, id)
}

func (d *AssociationDAO) Find(ctx context.Context, municipalityID uint) ([]Association, error) {
	var as []Association

	q := conn(ctx, d.db).Order("id")
	if municipalityID != 0 {
		q = q.Where("municipality_id = ?", municipalityID)
	}
	if err := q.Find(&as).Error; err != nil {
		return nil, translate(err)
	}

	return as, nil
}

func (d *AssociationDAO) CountByMunicipality(ctx context.Context, municipalityID uint) (int64, error) {
	var count int64
	err := conn(ctx, d.db).Model(&Association{}).Where("municipality_id = ?", municipalityID).Count(&count).Error

	return count, translate(err)
}

func (d *AssociationDAO) Update(ctx context.Context, a Association) (Association, error) {
	return save(ctx, d.db, a)
}

func (d *AssociationDAO) Delete(ctx context.Context, id uint) error {
	return deleteByID[Association](ctx, d.db, id)
}
