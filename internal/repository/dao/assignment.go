package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GardenAssignment struct {
	ID            uint      `gorm:"primaryKey"`
	GardenID      uint      `gorm:"not null;index"`
	AssociationID uint      `gorm:"not null;index"`
	Start         time.Time `gorm:"not null"`
	End           time.Time `gorm:"not null"`
	CreatedAt     time.Time
}

type PlotAssignment struct {
	ID          uint      `gorm:"primaryKey"`
	PlotID      uint      `gorm:"not null;index;uniqueIndex:idx_plot_assignments_accepted,where:status = 'accettato'"`
	UserID      uint      `gorm:"not null;index"`
	Status      string    `gorm:"not null;index"`
	RequestedAt time.Time `gorm:"not null"`
	Start       *time.Time
	End         *time.Time
	Crops       []string `gorm:"type:text;serializer:json"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type PlotAssignmentFilter struct {
	Status string
	PlotID uint
	UserID uint
}

type AssignmentDAO struct {
	db *gorm.DB
}

func NewAssignmentDAO(db *gorm.DB) *AssignmentDAO {
	return &AssignmentDAO{
		db: db,
	}
}

func (d *AssignmentDAO) InsertGardenAssignment(ctx context.Context, a GardenAssignment) (GardenAssignment, error) {
	return insert(ctx, d.db, a)
}

func (d *AssignmentDAO) FindGardenAssignmentByID(ctx context.Context, id uint) (GardenAssignment, error) {
	return first[GardenAssignment](ctx, d.db, id)
}

func (d *AssignmentDAO) FindGardenAssignments(ctx context.Context, associationID uint) ([]GardenAssignment, error) {
	var as []GardenAssignment

	q := conn(ctx, d.db).Order("id")
	if associationID != 0 {
		q = q.Where("association_id = ?", associationID)
	}
	if err := q.Find(&as).Error; err != nil {
		return nil, translate(err)
	}

	return as, nil
}

func (d *AssignmentDAO) DeleteGardenAssignment(ctx context.Context, id uint) error {
	return deleteByID[GardenAssignment](ctx, d.db, id)
}

func (d *AssignmentDAO) DeleteGardenAssignmentsByAssociation(ctx context.Context, associationID uint) (int64, error) {
	result := conn(ctx, d.db).Where("association_id = ?", associationID).Delete(&GardenAssignment{})
	return result.RowsAffected, translate(result.Error)
}

func (d *AssignmentDAO) DeleteGardenAssignmentsByGarden(ctx context.Context, gardenID uint) (int64, error) {
	result := conn(ctx, d.db).Where("garden_id = ?", gardenID).Delete(&GardenAssignment{})
	return result.RowsAffected, translate(result.Error)
}

func (d *AssignmentDAO) InsertPlotAssignment(ctx context.Context, a PlotAssignment) (PlotAssignment, error) {
	return insert(ctx, d.db, a)
}

func (d *AssignmentDAO) FindPlotAssignmentByID(ctx context.Context, id uint) (PlotAssignment, error) {
	return first[PlotAssignment](ctx, d.db, id)
}

func (d *AssignmentDAO) FindPlotAssignments(ctx context.Context, filter PlotAssignmentFilter) ([]PlotAssignment, error) {
	var as []PlotAssignment

	q := conn(ctx, d.db).Order("id")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.PlotID != 0 {
		q = q.Where("plot_id = ?", filter.PlotID)
	}
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if err := q.Find(&as).Error; err != nil {
		return nil, translate(err)
	}

	return as, nil
}

// LockPlot holds a row lock on the plot until the surrounding transaction
// ends. SQLite serialises writers already and ignores the clause.
func (d *AssignmentDAO) LockPlot(ctx context.Context, plotID uint) error {
	var p Plot
	err := conn(ctx, d.db).Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&p, plotID).Error

	return translate(err)
}

// CountPlotAssignments counts assignments of plotID in status, ignoring excludeID.
func (d *AssignmentDAO) CountPlotAssignments(ctx context.Context, plotID uint, status string, excludeID uint) (int64, error) {
	var count int64
	err := conn(ctx, d.db).Model(&PlotAssignment{}).
		Where("plot_id = ? AND status = ? AND id <> ?", plotID, status, excludeID).
		Count(&count).Error

	return count, translate(err)
}

func (d *AssignmentDAO) UpdatePlotAssignment(ctx context.Context, a PlotAssignment) (PlotAssignment, error) {
	return save(ctx, d.db, a)
}

func (d *AssignmentDAO) DeletePlotAssignment(ctx context.Context, id uint) error {
	return deleteByID[PlotAssignment](ctx, d.db, id)
}

func (d *AssignmentDAO) DeletePlotAssignmentsByPlots(ctx context.Context, plotIDs []uint) (int64, error) {
	if len(plotIDs) == 0 {
		return 0, nil
	}

	result := conn(ctx, d.db).Where("plot_id IN ?", plotIDs).Delete(&PlotAssignment{})
	return result.RowsAffected, translate(result.Error)
}

func (d *AssignmentDAO) DeletePlotAssignmentsByUser(ctx context.Context, userID uint) (int64, error) {
	result := conn(ctx, d.db).Where("user_id = ?", userID).Delete(&PlotAssignment{})
	return result.RowsAffected, translate(result.Error)
}
