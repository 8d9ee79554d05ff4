package dao

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, InitTables(db))

	return db
}

func uintPtr(v uint) *uint { return &v }

func TestUserDAO_InsertAndFind(t *testing.T) {
	ctx := context.Background()
	d := NewUserDAO(newTestDB(t))

	created, err := d.Insert(ctx, User{Email: "anna@example.com", Password: "hash", Name: "Anna", Kind: "cittadino"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	found, err := d.FindByEmail(ctx, "anna@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = d.FindByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = d.Insert(ctx, User{Email: "anna@example.com", Password: "hash", Name: "Other", Kind: "cittadino"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestUserDAO_ClearAssociation(t *testing.T) {
	ctx := context.Background()
	d := NewUserDAO(newTestDB(t))

	for _, u := range []User{
		{Email: "u1@example.com", Password: "x", Name: "U1", Kind: "associazione", Admin: true, AssociationID: uintPtr(1)},
		{Email: "u2@example.com", Password: "x", Name: "U2", Kind: "associazione", AssociationID: uintPtr(1)},
		{Email: "u3@example.com", Password: "x", Name: "U3", Kind: "associazione", AssociationID: uintPtr(2)},
	} {
		_, err := d.Insert(ctx, u)
		require.NoError(t, err)
	}

	n, err := d.ClearAssociation(ctx, 1, "cittadino")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	members, err := d.FindByAssociation(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, members)

	citizens, err := d.FindByKind(ctx, "cittadino")
	require.NoError(t, err)
	require.Len(t, citizens, 2)
	for _, c := range citizens {
		assert.False(t, c.Admin)
		assert.Nil(t, c.AssociationID)
	}

	// A second run over an already cleared association touches nothing.
	n, err = d.ClearAssociation(ctx, 1, "cittadino")
	require.NoError(t, err)
	assert.Zero(t, n)

	others, err := d.FindByAssociation(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, others, 1)
}

func TestUserDAO_UpdateAffiliation(t *testing.T) {
	ctx := context.Background()
	d := NewUserDAO(newTestDB(t))

	created, err := d.Insert(ctx, User{Email: "m@example.com", Password: "x", Name: "M", Kind: "associazione", AssociationID: uintPtr(3)})
	require.NoError(t, err)

	created.Kind = "comune"
	created.Admin = true
	created.AssociationID = nil
	created.MunicipalityID = uintPtr(7)
	updated, err := d.UpdateAffiliation(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "comune", updated.Kind)
	assert.True(t, updated.Admin)
	assert.Nil(t, updated.AssociationID)
	require.NotNil(t, updated.MunicipalityID)
	assert.Equal(t, uint(7), *updated.MunicipalityID)

	_, err = d.UpdateAffiliation(ctx, User{ID: 999, Kind: "cittadino"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGardenDAO_Plots(t *testing.T) {
	ctx := context.Background()
	d := NewGardenDAO(newTestDB(t))

	g1, err := d.Insert(ctx, Garden{Name: "Orto Nord", MunicipalityID: 1})
	require.NoError(t, err)
	g2, err := d.Insert(ctx, Garden{Name: "Orto Sud", MunicipalityID: 1})
	require.NoError(t, err)

	p1, err := d.InsertPlot(ctx, Plot{GardenID: g1.ID, Number: 2, Area: 20})
	require.NoError(t, err)
	p2, err := d.InsertPlot(ctx, Plot{GardenID: g1.ID, Number: 1, Area: 15})
	require.NoError(t, err)
	p3, err := d.InsertPlot(ctx, Plot{GardenID: g2.ID, Number: 1, Area: 30})
	require.NoError(t, err)

	found, err := d.FindByID(ctx, g1.ID)
	require.NoError(t, err)
	require.Len(t, found.Plots, 2)
	assert.Equal(t, p2.ID, found.Plots[0].ID)

	ids, err := d.PlotIDsByGardens(ctx, []uint{g1.ID, g2.ID})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{p1.ID, p2.ID, p3.ID}, ids)

	ids, err = d.PlotIDsByGardens(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, ids)

	n, err := d.DeletePlotsByGarden(ctx, g1.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	count, err := d.CountByMunicipality(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestAssignmentDAO_PlotAssignments(t *testing.T) {
	ctx := context.Background()
	d := NewAssignmentDAO(newTestDB(t))
	now := time.Now().UTC().Truncate(time.Second)

	a1, err := d.InsertPlotAssignment(ctx, PlotAssignment{PlotID: 1, UserID: 10, Status: "in_attesa", RequestedAt: now, Crops: []string{"pomodori", "basilico"}})
	require.NoError(t, err)
	_, err = d.InsertPlotAssignment(ctx, PlotAssignment{PlotID: 1, UserID: 11, Status: "accettato", RequestedAt: now})
	require.NoError(t, err)
	_, err = d.InsertPlotAssignment(ctx, PlotAssignment{PlotID: 2, UserID: 10, Status: "rifiutato", RequestedAt: now})
	require.NoError(t, err)

	found, err := d.FindPlotAssignmentByID(ctx, a1.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"pomodori", "basilico"}, found.Crops)

	mine, err := d.FindPlotAssignments(ctx, PlotAssignmentFilter{UserID: 10})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	pending, err := d.FindPlotAssignments(ctx, PlotAssignmentFilter{Status: "in_attesa", PlotID: 1})
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	accepted, err := d.CountPlotAssignments(ctx, 1, "accettato", a1.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), accepted)

	n, err := d.DeletePlotAssignmentsByPlots(ctx, []uint{1, 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = d.DeletePlotAssignmentsByPlots(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.ErrorIs(t, d.DeletePlotAssignment(ctx, a1.ID), ErrNotFound)
}

func TestAssignmentDAO_OneAcceptedPerPlot(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	d := NewAssignmentDAO(db)
	now := time.Now().UTC()

	require.NoError(t, db.Create(&Plot{GardenID: 1, Number: 1}).Error)

	_, err := d.InsertPlotAssignment(ctx, PlotAssignment{PlotID: 1, UserID: 10, Status: "accettato", RequestedAt: now})
	require.NoError(t, err)
	pending, err := d.InsertPlotAssignment(ctx, PlotAssignment{PlotID: 1, UserID: 11, Status: "in_attesa", RequestedAt: now})
	require.NoError(t, err)
	_, err = d.InsertPlotAssignment(ctx, PlotAssignment{PlotID: 1, UserID: 12, Status: "in_attesa", RequestedAt: now})
	require.NoError(t, err)

	pending.Status = "accettato"
	_, err = d.UpdatePlotAssignment(ctx, pending)
	assert.ErrorIs(t, err, ErrDuplicate)

	require.NoError(t, NewTransactor(db).WithinTransaction(ctx, func(ctx context.Context) error {
		return d.LockPlot(ctx, 1)
	}))
	assert.ErrorIs(t, d.LockPlot(ctx, 99), ErrNotFound)
}

func TestAssignmentDAO_GardenAssignments(t *testing.T) {
	ctx := context.Background()
	d := NewAssignmentDAO(newTestDB(t))
	start := time.Now().UTC().Truncate(time.Second)

	for _, a := range []GardenAssignment{
		{GardenID: 1, AssociationID: 5, Start: start, End: start.AddDate(1, 0, 0)},
		{GardenID: 2, AssociationID: 5, Start: start, End: start.AddDate(1, 0, 0)},
		{GardenID: 3, AssociationID: 6, Start: start, End: start.AddDate(1, 0, 0)},
	} {
		_, err := d.InsertGardenAssignment(ctx, a)
		require.NoError(t, err)
	}

	managed, err := d.FindGardenAssignments(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, managed, 2)

	all, err := d.FindGardenAssignments(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	n, err := d.DeleteGardenAssignmentsByAssociation(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserDAO(db)
	tr := NewTransactor(db)

	err := tr.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := users.Insert(ctx, User{Email: "tx@example.com", Password: "x", Name: "Tx", Kind: "cittadino"}); err != nil {
			return err
		}
		return users.Delete(ctx, 999)
	})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = users.FindByEmail(ctx, "tx@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBulletinDAO(t *testing.T) {
	ctx := context.Background()
	d := NewBulletinDAO(newTestDB(t))
	now := time.Now().UTC().Truncate(time.Second)

	n, err := d.InsertNotice(ctx, Notice{Title: "Semina", Content: "Si parte", AuthorID: 1, GardenID: uintPtr(4)})
	require.NoError(t, err)

	affected, err := d.DetachNoticesFromGarden(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	found, err := d.FindNoticeByID(ctx, n.ID)
	require.NoError(t, err)
	assert.Nil(t, found.GardenID)

	_, err = d.InsertTender(ctx, Tender{Title: "Aperto", MunicipalityID: 1, OpensAt: now.Add(-time.Hour), ClosesAt: now.Add(time.Hour)})
	require.NoError(t, err)
	_, err = d.InsertTender(ctx, Tender{Title: "Chiuso", MunicipalityID: 1, OpensAt: now.Add(-2 * time.Hour), ClosesAt: now.Add(-time.Hour)})
	require.NoError(t, err)

	open, err := d.FindTenders(ctx, now)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "Aperto", open[0].Title)

	all, err := d.FindTenders(ctx, time.Time{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestTelemetryDAO(t *testing.T) {
	ctx := context.Background()
	d := NewTelemetryDAO(newTestDB(t))
	now := time.Now().UTC().Truncate(time.Second)

	_, err := d.InsertWeather(ctx, WeatherReading{GardenID: 1, Temperature: 18, RecordedAt: now.Add(-time.Hour)})
	require.NoError(t, err)
	latest, err := d.InsertWeather(ctx, WeatherReading{GardenID: 1, Temperature: 21, RecordedAt: now})
	require.NoError(t, err)

	found, err := d.FindLatestWeather(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, latest.ID, found.ID)

	_, err = d.FindLatestWeather(ctx, 2)
	assert.ErrorIs(t, err, ErrNotFound)

	s, err := d.InsertSensor(ctx, Sensor{GardenID: 1, Name: "Sonda 1", Type: "ph"})
	require.NoError(t, err)
	_, err = d.InsertSensorReading(ctx, SensorReading{SensorID: s.ID, Value: 6.5, RecordedAt: now})
	require.NoError(t, err)

	n, err := d.DeleteSensorsByGarden(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	readings, err := d.FindSensorReadings(ctx, s.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, readings)
}
