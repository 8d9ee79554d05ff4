package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ortiurbani/orti-api/internal/config"
	"github.com/ortiurbani/orti-api/internal/domain"
)

type BootstrapUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	CountByKind(ctx context.Context, kind domain.Kind) (int64, error)
}

type BootstrapMunicipalityRepository interface {
	Create(ctx context.Context, m domain.Municipality) (domain.Municipality, error)
	FindByName(ctx context.Context, name string) (domain.Municipality, error)
}

// Bootstrap seeds the first municipality and its administrator, so that a
// fresh installation has someone allowed to grant memberships. It does
// nothing once any municipality member exists or when conf is incomplete.
func Bootstrap(ctx context.Context, conf *config.BootstrapConfig, users BootstrapUserRepository, municipalities BootstrapMunicipalityRepository) error {
	if conf == nil || conf.Municipality == "" || conf.AdminEmail == "" || conf.AdminPassword == "" {
		return nil
	}

	count, err := users.CountByKind(ctx, domain.KindMunicipalityMember)
	if err != nil {
		return fmt.Errorf("users.CountByKind -> %w", err)
	}
	if count > 0 {
		return nil
	}

	m, err := municipalities.FindByName(ctx, conf.Municipality)
	if errors.Is(err, ErrNotFound) {
		m, err = municipalities.Create(ctx, domain.Municipality{
			Name:     conf.Municipality,
			Province: conf.Province,
			Region:   conf.Region,
		})
	}
	if err != nil {
		return fmt.Errorf("municipalities.Create -> %w", err)
	}

	hashed, err := hashPassword(conf.AdminPassword)
	if err != nil {
		return err
	}

	admin, err := users.Create(ctx, domain.User{
		Email:       conf.AdminEmail,
		Password:    hashed,
		Name:        conf.AdminName,
		Affiliation: domain.MunicipalityMembership{MunicipalityID: m.ID, Admin: true},
	})
	if err != nil {
		return fmt.Errorf("users.Create -> %w", err)
	}

	zap.L().Info("bootstrap administrator created",
		zap.Uint("user_id", admin.ID),
		zap.Uint("municipality_id", m.ID),
	)

	return nil
}
