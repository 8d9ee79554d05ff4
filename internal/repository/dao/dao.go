package dao

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

type txKey struct{}

// Transactor runs a function inside a database transaction. DAO calls made
// with the context handed to fn join that transaction.
type Transactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{
		db: db,
	}
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}

	return db.WithContext(ctx)
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrDuplicate
	}

	return err
}

func first[T any](ctx context.Context, db *gorm.DB, id uint) (T, error) {
	var record T
	if err := conn(ctx, db).First(&record, id).Error; err != nil {
		return record, translate(err)
	}

	return record, nil
}

func insert[T any](ctx context.Context, db *gorm.DB, record T) (T, error) {
	if err := conn(ctx, db).Create(&record).Error; err != nil {
		return record, translate(err)
	}

	return record, nil
}

func save[T any](ctx context.Context, db *gorm.DB, record T) (T, error) {
	if err := conn(ctx, db).Save(&record).Error; err != nil {
		return record, translate(err)
	}

	return record, nil
}

func deleteByID[T any](ctx context.Context, db *gorm.DB, id uint) error {
	result := conn(ctx, db).Delete(new(T), id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
