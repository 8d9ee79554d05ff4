package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID uint `gorm:"primaryKey"`

	Email    string `gorm:"unique;not null"`
	Password string `gorm:"not null"`
	Name     string `gorm:"not null"`

	Kind           string `gorm:"not null;index"`
	Admin          bool   `gorm:"not null;default:false"`
	AssociationID  *uint  `gorm:"index"`
	MunicipalityID *uint  `gorm:"index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

func (d *UserDAO) Insert(ctx context.Context, user User) (User, error) {
	return insert(ctx, d.db, user)
}

func (d *UserDAO) FindByID(ctx context.Context, id uint) (User, error) {
	return first[User](ctx, d.db, id)
}

func (d *UserDAO) FindByEmail(ctx context.Context, email string) (User, error) {
	var user User

	result := conn(ctx, d.db).First(&user, "email = ?", email)
	if result.Error != nil {
		return User{}, translate(result.Error)
	}

	return user, nil
}

func (d *UserDAO) FindByKind(ctx context.Context, kind string) ([]User, error) {
	var users []User

	q := conn(ctx, d.db).Order("id")
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, translate(err)
	}

	return users, nil
}

func (d *UserDAO) FindByAssociation(ctx context.Context, associationID uint) ([]User, error) {
	var users []User

	result := conn(ctx, d.db).Where("association_id = ?", associationID).Order("id").Find(&users)
	if result.Error != nil {
		return nil, translate(result.Error)
	}

	return users, nil
}

// UpdateAffiliation writes the four affiliation columns, nil values included.
func (d *UserDAO) UpdateAffiliation(ctx context.Context, user User) (User, error) {
	result := conn(ctx, d.db).Model(&User{ID: user.ID}).
		Select("kind", "admin", "association_id", "municipality_id", "updated_at").
		Updates(&User{
			Kind:           user.Kind,
			Admin:          user.Admin,
			AssociationID:  user.AssociationID,
			MunicipalityID: user.MunicipalityID,
		})
	if result.Error != nil {
		return User{}, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return User{}, ErrNotFound
	}

	return d.FindByID(ctx, user.ID)
}

// ClearAssociation turns every member of the association into kind, dropping
// the association reference and the admin flag. It returns the affected rows.
func (d *UserDAO) ClearAssociation(ctx context.Context, associationID uint, kind string) (int64, error) {
	result := conn(ctx, d.db).Model(&User{}).
		Where("association_id = ?", associationID).
		Updates(map[string]any{
			"kind":           kind,
			"admin":          false,
			"association_id": nil,
		})
	if result.Error != nil {
		return 0, translate(result.Error)
	}

	return result.RowsAffected, nil
}

func (d *UserDAO) CountByMunicipality(ctx context.Context, municipalityID uint) (int64, error) {
	var count int64

	result := conn(ctx, d.db).Model(&User{}).Where("municipality_id = ?", municipalityID).Count(&count)
	if result.Error != nil {
		return 0, translate(result.Error)
	}

	return count, nil
}

func (d *UserDAO) CountByKind(ctx context.Context, kind string) (int64, error) {
	var count int64

	result := conn(ctx, d.db).Model(&User{}).Where("kind = ?", kind).Count(&count)
	if result.Error != nil {
		return 0, translate(result.Error)
	}

	return count, nil
}

func (d *UserDAO) Delete(ctx context.Context, id uint) error {
	return deleteByID[User](ctx, d.db, id)
}
