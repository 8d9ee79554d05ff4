package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ortiurbani/orti-api/internal/domain"
	"github.com/ortiurbani/orti-api/internal/repository"
)

var (
	ErrNotFound  = repository.ErrNotFound
	ErrDuplicate = repository.ErrDuplicate

	ErrUserEmailExists  = fmt.Errorf("%w: email already registered", ErrDuplicate)
	ErrWrongPassword    = errors.New("wrong password")
	ErrInvalidReference = fmt.Errorf("%w: referenced record does not exist", domain.ErrValidation)
	ErrNotCitizen       = fmt.Errorf("%w: user is not a citizen", domain.ErrValidation)
	ErrMunicipalityUsed = fmt.Errorf("%w: municipality is still referenced", domain.ErrValidation)
	ErrCascadeFailed    = errors.New("cascade failed")
)

// Transactor runs fn atomically when the store supports it. Repository
// calls made with the context passed to fn take part in the transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// NoTransaction runs fn directly, for stores without transactions.
type NoTransaction struct{}

func (NoTransaction) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func utcNow() time.Time {
	return time.Now().UTC()
}

// reference turns a not-found lookup of a record named in a request body
// into a validation failure.
func reference(err error, what string, id uint) error {
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: %s %d", ErrInvalidReference, what, id)
	}

	return err
}
