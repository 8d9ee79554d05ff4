package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ortiurbani/orti-api/internal/domain"
	"github.com/ortiurbani/orti-api/internal/repository/dao"
)

func TestGardenService_Delete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	m := s.municipality(t, "Torino")
	a := s.association(t, "Orti Uniti", m.ID)
	citizen := s.user(t, "c@example.com", domain.Citizen{})

	g, plots := s.garden(t, "Da chiudere", m.ID, 2)
	kept, keptPlots := s.garden(t, "Resta", m.ID, 1)
	s.manage(t, g.ID, a.ID)
	s.manage(t, kept.ID, a.ID)
	s.request(t, plots[0].ID, citizen.ID, domain.StatusAccepted)
	s.request(t, plots[1].ID, citizen.ID, domain.StatusPending)
	s.request(t, keptPlots[0].ID, citizen.ID, domain.StatusPending)

	notice, err := s.bulletin.CreateNotice(ctx, domain.Notice{Title: "Chiusura", Content: "L'orto chiude", AuthorID: citizen.ID, GardenID: &g.ID})
	require.NoError(t, err)

	sensor, err := s.telemetry.CreateSensor(ctx, domain.Sensor{GardenID: g.ID, Name: "T1", Type: domain.SensorTemperature, Unit: "C"})
	require.NoError(t, err)
	_, err = s.telemetry.CreateSensorReading(ctx, domain.SensorReading{SensorID: sensor.ID, Value: 21.5, RecordedAt: time.Now().UTC()})
	require.NoError(t, err)
	_, err = s.telemetry.CreateWeather(ctx, domain.WeatherReading{GardenID: g.ID, Temperature: 18, RecordedAt: time.Now().UTC()})
	require.NoError(t, err)

	require.NoError(t, s.gardenService().Delete(ctx, g.ID))

	_, err = s.gardens.FindByID(ctx, g.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, int64(1), s.count(t, &dao.Garden{}))
	assert.Equal(t, int64(1), s.count(t, &dao.Plot{}))
	assert.Equal(t, int64(1), s.count(t, &dao.PlotAssignment{}))
	assert.Equal(t, int64(1), s.count(t, &dao.GardenAssignment{}))
	assert.Zero(t, s.count(t, &dao.Sensor{}))
	assert.Zero(t, s.count(t, &dao.SensorReading{}))
	assert.Zero(t, s.count(t, &dao.WeatherReading{}))

	detached, err := s.bulletin.FindNoticeByID(ctx, notice.ID)
	require.NoError(t, err)
	assert.Nil(t, detached.GardenID)

	assert.ErrorIs(t, s.gardenService().Delete(ctx, g.ID), ErrNotFound)
}

func TestGardenService_Plots(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := s.gardenService()

	m := s.municipality(t, "Torino")
	g, err := svc.Create(ctx, domain.Garden{Name: "Orto Dora", Address: "Via Livorno 1", MunicipalityID: m.ID})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.Garden{Name: "Senza comune", MunicipalityID: m.ID + 10})
	assert.ErrorIs(t, err, ErrInvalidReference)

	p, err := svc.CreatePlot(ctx, domain.Plot{GardenID: g.ID, Number: 1, Area: 30})
	require.NoError(t, err)

	_, err = svc.CreatePlot(ctx, domain.Plot{GardenID: g.ID + 10, Number: 1})
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := svc.UpdatePlot(ctx, domain.Plot{ID: p.ID, GardenID: g.ID + 10, Number: 2, Area: 45})
	require.NoError(t, err)
	assert.Equal(t, g.ID, updated.GardenID)
	assert.Equal(t, 2, updated.Number)

	got, err := svc.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{p.ID}, got.PlotIDs)

	citizen := s.user(t, "c@example.com", domain.Citizen{})
	s.request(t, p.ID, citizen.ID, domain.StatusPending)

	require.NoError(t, svc.DeletePlot(ctx, p.ID))
	assert.Zero(t, s.count(t, &dao.PlotAssignment{}))

	ps, err := svc.ListPlots(ctx, g.ID)
	require.NoError(t, err)
	assert.Empty(t, ps)
}

func TestMunicipalityService_Delete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := NewMunicipalityService(s.tx, s.municipalities, s.associations, s.gardens, s.users)

	used := s.municipality(t, "Torino")
	s.association(t, "Orti Uniti", used.ID)
	empty := s.municipality(t, "Asti")

	assert.ErrorIs(t, svc.Delete(ctx, used.ID), ErrMunicipalityUsed)
	assert.ErrorIs(t, svc.Delete(ctx, used.ID), domain.ErrValidation)

	require.NoError(t, svc.Delete(ctx, empty.ID))
	assert.ErrorIs(t, svc.Delete(ctx, empty.ID), ErrNotFound)

	ms, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, ms, 1)
	assert.Equal(t, used.ID, ms[0].ID)
}

func TestUserService(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := NewUserService(s.tx, s.users, s.assignments, s.associations, s.municipalities)

	m := s.municipality(t, "Torino")
	a := s.association(t, "Orti Uniti", m.ID)
	u := s.user(t, "u@example.com", domain.Citizen{})
	_, plots := s.garden(t, "G", m.ID, 1)
	s.request(t, plots[0].ID, u.ID, domain.StatusPending)

	_, err := svc.SetAffiliation(ctx, u.ID, domain.AssociationMembership{AssociationID: a.ID + 5})
	assert.ErrorIs(t, err, ErrInvalidReference)

	updated, err := svc.SetAffiliation(ctx, u.ID, domain.MunicipalityMembership{MunicipalityID: m.ID, Admin: true})
	require.NoError(t, err)
	assert.Equal(t, domain.KindMunicipalityMember, updated.Kind())
	assert.True(t, updated.IsAdmin())

	kind := domain.KindMunicipalityMember
	users, err := svc.ListUsers(ctx, &kind)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	require.NoError(t, svc.DeleteUser(ctx, u.ID))
	assert.Zero(t, s.count(t, &dao.PlotAssignment{}))
	_, err = svc.GetUser(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
