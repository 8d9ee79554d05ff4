//go:build integration

package db

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ortiurbani/orti-api/internal/domain"
	"github.com/ortiurbani/orti-api/internal/repository"
	"github.com/ortiurbani/orti-api/internal/repository/dao"
	"github.com/ortiurbani/orti-api/internal/service"
)

// startPostgres runs a throwaway postgres container and returns a migrated connection.
func startPostgres(t *testing.T) *gorm.DB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err)
	require.NoError(t, pool.Client.Ping())
	pool.MaxWait = 2 * time.Minute

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=orti",
			"POSTGRES_PASSWORD=orti",
			"POSTGRES_DB=orti",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })
	_ = resource.Expire(300)

	dsn := fmt.Sprintf("postgres://orti:orti@%s/orti?sslmode=disable", resource.GetHostPort("5432/tcp"))

	var db *gorm.DB
	require.NoError(t, pool.Retry(func() error {
		var err error
		db, err = OpenPostgresWithURL(dsn)
		return err
	}))

	return db
}

func TestPostgres(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()

	users := repository.NewUserRepository(dao.NewUserDAO(db))
	municipalities := repository.NewMunicipalityRepository(dao.NewMunicipalityDAO(db))
	associations := repository.NewAssociationRepository(dao.NewAssociationDAO(db))
	gardens := repository.NewGardenRepository(dao.NewGardenDAO(db))
	assignments := repository.NewAssignmentRepository(dao.NewAssignmentDAO(db))

	t.Run("unique violation is a duplicate", func(t *testing.T) {
		u := domain.User{Email: "dup@example.com", Password: "hash", Name: "Dup", Affiliation: domain.Citizen{}}
		_, err := users.Create(ctx, u)
		require.NoError(t, err)

		_, err = users.Create(ctx, u)
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})

	t.Run("association deletion cascade", func(t *testing.T) {
		m, err := municipalities.Create(ctx, domain.Municipality{Name: "Milano", Province: "MI", Region: "Lombardia"})
		require.NoError(t, err)
		a, err := associations.Create(ctx, domain.Association{Name: "Orti in Rete", MunicipalityID: m.ID})
		require.NoError(t, err)

		for _, email := range []string{"uno@example.com", "due@example.com"} {
			_, err = users.Create(ctx, domain.User{
				Email:       email,
				Password:    "hash",
				Name:        email,
				Affiliation: domain.AssociationMembership{AssociationID: a.ID},
			})
			require.NoError(t, err)
		}
		requester, err := users.Create(ctx, domain.User{Email: "tre@example.com", Password: "hash", Name: "Tre", Affiliation: domain.Citizen{}})
		require.NoError(t, err)

		g, err := gardens.Create(ctx, domain.Garden{Name: "Orto Navigli", MunicipalityID: m.ID})
		require.NoError(t, err)
		p, err := gardens.CreatePlot(ctx, domain.Plot{GardenID: g.ID, Number: 1, Area: 30})
		require.NoError(t, err)

		start := time.Now().UTC()
		_, err = assignments.CreateGardenAssignment(ctx, domain.GardenAssignment{
			GardenID:      g.ID,
			AssociationID: a.ID,
			Start:         start,
			End:           start.AddDate(1, 0, 0),
		})
		require.NoError(t, err)
		_, err = assignments.CreatePlotAssignment(ctx, domain.NewPlotAssignment(p.ID, requester.ID, []string{"zucchine"}, start))
		require.NoError(t, err)

		svc := service.NewAssociationService(dao.NewTransactor(db), associations, users, gardens, assignments, municipalities)
		got, err := svc.Delete(ctx, a.ID)
		require.NoError(t, err)

		assert.Equal(t, domain.AssociationDeletion{
			AssociationID:            a.ID,
			MembersDowngraded:        2,
			GardensReleased:          1,
			PlotAssignmentsRemoved:   1,
			GardenAssignmentsRemoved: 1,
		}, got)

		_, err = associations.FindByID(ctx, a.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		_, err = gardens.FindPlotByID(ctx, p.ID)
		assert.NoError(t, err)
	})
}
