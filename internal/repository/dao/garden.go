package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Garden struct {
	ID             uint   `gorm:"primaryKey"`
	Name           string `gorm:"not null"`
	Address        string
	MunicipalityID uint   `gorm:"not null;index"`
	Plots          []Plot `gorm:"foreignKey:GardenID"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Plot struct {
	ID        uint    `gorm:"primaryKey"`
	GardenID  uint    `gorm:"not null;index"`
	Number    int     `gorm:"not null"`
	Area      float64 `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type GardenDAO struct {
	db *gorm.DB
}

func NewGardenDAO(db *gorm.DB) *GardenDAO {
	return &GardenDAO{
		db: db,
	}
}

func (d *GardenDAO) Insert(ctx context.Context, g Garden) (Garden, error) {
	return insert(ctx, d.db, g)
}

func (d *GardenDAO) FindByID(ctx context.Context, id uint) (Garden, error) {
	var g Garden

	err := conn(ctx, d.db).Preload("Plots", func(db *gorm.DB) *gorm.DB {
		return db.Order("number")
	}).First(&g, id).Error
	if err != nil {
		return Garden{}, translate(err)
	}

	return g, nil
}

func (d *GardenDAO) Find(ctx context.Context, municipalityID uint) ([]Garden, error) {
	var gs []Garden

	q := conn(ctx, d.db).Preload("Plots").Order("id")
	if municipalityID != 0 {
		q = q.Where("municipality_id = ?", municipalityID)
	}
	if err := q.Find(&gs).Error; err != nil {
		return nil, translate(err)
	}

	return gs, nil
}

func (d *GardenDAO) CountByMunicipality(ctx context.Context, municipalityID uint) (int64, error) {
	var count int64
	err := conn(ctx, d.db).Model(&Garden{}).Where("municipality_id = ?", municipalityID).Count(&count).Error

	return count, translate(err)
}

func (d *GardenDAO) Update(ctx context.Context, g Garden) (Garden, error) {
	g.Plots = nil
	return save(ctx, d.db, g)
}

func (d *GardenDAO) Delete(ctx context.Context, id uint) error {
	return deleteByID[Garden](ctx, d.db, id)
}

func (d *GardenDAO) InsertPlot(ctx context.Context, p Plot) (Plot, error) {
	return insert(ctx, d.db, p)
}

func (d *GardenDAO) FindPlotByID(ctx context.Context, id uint) (Plot, error) {
	return first[Plot](ctx, d.db, id)
}

func (d *GardenDAO) FindPlots(ctx context.Context, gardenID uint) ([]Plot, error) {
	var ps []Plot
	if err := conn(ctx, d.db).Where("garden_id = ?", gardenID).Order("number").Find(&ps).Error; err != nil {
		return nil, translate(err)
	}

	return ps, nil
}

// PlotIDsByGardens returns the ids of every plot owned by the given gardens.
func (d *GardenDAO) PlotIDsByGardens(ctx context.Context, gardenIDs []uint) ([]uint, error) {
	var ids []uint
	if len(gardenIDs) == 0 {
		return ids, nil
	}

	err := conn(ctx, d.db).Model(&Plot{}).Where("garden_id IN ?", gardenIDs).Order("id").Pluck("id", &ids).Error
	if err != nil {
		return nil, translate(err)
	}

	return ids, nil
}

func (d *GardenDAO) UpdatePlot(ctx context.Context, p Plot) (Plot, error) {
	return save(ctx, d.db, p)
}

func (d *GardenDAO) DeletePlot(ctx context.Context, id uint) error {
	return deleteByID[Plot](ctx, d.db, id)
}

func (d *GardenDAO) DeletePlotsByGarden(ctx context.Context, gardenID uint) (int64, error) {
	result := conn(ctx, d.db).Where("garden_id = ?", gardenID).Delete(&Plot{})
	return result.RowsAffected, translate(result.Error)
}
