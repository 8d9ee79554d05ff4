package repository

import (
	"github.com/ortiurbani/orti-api/internal/repository/dao"
)

var (
	ErrNotFound  = dao.ErrNotFound
	ErrDuplicate = dao.ErrDuplicate
)
