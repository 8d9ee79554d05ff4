package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbiddenRole   = errors.New("role not allowed")
	ErrForbiddenAdmin  = errors.New("admin privileges required")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")

	ErrInvalidAffiliation  = fmt.Errorf("%w: affiliation does not match user kind", ErrValidation)
	ErrInvalidTransition   = fmt.Errorf("%w: plot assignment is not pending", ErrValidation)
	ErrPlotAlreadyAssigned = fmt.Errorf("%w: plot already has an accepted assignment", ErrValidation)
	ErrInvalidAction       = fmt.Errorf("%w: unknown action", ErrValidation)
	ErrInvalidInterval     = fmt.Errorf("%w: start must not be after end", ErrValidation)
)
