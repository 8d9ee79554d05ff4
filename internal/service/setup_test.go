package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ortiurbani/orti-api/internal/cache"
	"github.com/ortiurbani/orti-api/internal/domain"
	"github.com/ortiurbani/orti-api/internal/repository"
	"github.com/ortiurbani/orti-api/internal/repository/dao"
)

type testStore struct {
	db             *gorm.DB
	tx             *dao.Transactor
	users          *repository.UserRepository
	municipalities *repository.MunicipalityRepository
	associations   *repository.AssociationRepository
	gardens        *repository.GardenRepository
	assignments    *repository.AssignmentRepository
	bulletin       *repository.BulletinRepository
	telemetry      *repository.TelemetryRepository
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "service.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, dao.InitTables(db))

	return &testStore{
		db:             db,
		tx:             dao.NewTransactor(db),
		users:          repository.NewUserRepository(dao.NewUserDAO(db)),
		municipalities: repository.NewMunicipalityRepository(dao.NewMunicipalityDAO(db)),
		associations:   repository.NewAssociationRepository(dao.NewAssociationDAO(db)),
		gardens:        repository.NewGardenRepository(dao.NewGardenDAO(db)),
		assignments:    repository.NewAssignmentRepository(dao.NewAssignmentDAO(db)),
		bulletin:       repository.NewBulletinRepository(dao.NewBulletinDAO(db)),
		telemetry:      repository.NewTelemetryRepository(dao.NewTelemetryDAO(db)),
	}
}

func (s *testStore) associationService() *AssociationService {
	return NewAssociationService(s.tx, s.associations, s.users, s.gardens, s.assignments, s.municipalities)
}

func (s *testStore) gardenService() *GardenService {
	return NewGardenService(s.tx, s.gardens, s.municipalities, s.assignments, s.bulletin, s.telemetry, cache.Noop{})
}

func (s *testStore) municipality(t *testing.T, name string) domain.Municipality {
	t.Helper()

	m, err := s.municipalities.Create(context.Background(), domain.Municipality{Name: name, Province: "TO", Region: "Piemonte"})
	require.NoError(t, err)

	return m
}

func (s *testStore) association(t *testing.T, name string, municipalityID uint) domain.Association {
	t.Helper()

	a, err := s.associations.Create(context.Background(), domain.Association{Name: name, MunicipalityID: municipalityID})
	require.NoError(t, err)

	return a
}

func (s *testStore) user(t *testing.T, email string, affiliation domain.Affiliation) domain.User {
	t.Helper()

	u, err := s.users.Create(context.Background(), domain.User{Email: email, Password: "hash", Name: email, Affiliation: affiliation})
	require.NoError(t, err)

	return u
}

func (s *testStore) garden(t *testing.T, name string, municipalityID uint, plots int) (domain.Garden, []domain.Plot) {
	t.Helper()
	ctx := context.Background()

	g, err := s.gardens.Create(ctx, domain.Garden{Name: name, MunicipalityID: municipalityID})
	require.NoError(t, err)

	ps := make([]domain.Plot, 0, plots)
	for i := 1; i <= plots; i++ {
		p, err := s.gardens.CreatePlot(ctx, domain.Plot{GardenID: g.ID, Number: i, Area: 25})
		require.NoError(t, err)
		ps = append(ps, p)
	}

	return g, ps
}

func (s *testStore) manage(t *testing.T, gardenID, associationID uint) domain.GardenAssignment {
	t.Helper()

	start := time.Now().UTC()
	a, err := s.assignments.CreateGardenAssignment(context.Background(), domain.GardenAssignment{
		GardenID:      gardenID,
		AssociationID: associationID,
		Start:         start,
		End:           start.AddDate(2, 0, 0),
	})
	require.NoError(t, err)

	return a
}

func (s *testStore) request(t *testing.T, plotID, userID uint, status domain.AssignmentStatus) domain.PlotAssignment {
	t.Helper()

	a := domain.NewPlotAssignment(plotID, userID, []string{"lattuga"}, time.Now().UTC())
	a.Status = status
	created, err := s.assignments.CreatePlotAssignment(context.Background(), a)
	require.NoError(t, err)

	return created
}

func (s *testStore) count(t *testing.T, model any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, s.db.Model(model).Count(&n).Error)

	return n
}
