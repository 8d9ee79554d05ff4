package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ortiurbani/orti-api/internal/domain"
)

type recordingPublisher struct {
	mu       sync.Mutex
	readings []domain.SensorReading
}

func (p *recordingPublisher) Publish(r domain.SensorReading) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.readings = append(p.readings, r)
}

func TestSensorService(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	m := s.municipality(t, "Torino")
	g, _ := s.garden(t, "G1", m.ID, 0)

	publisher := &recordingPublisher{}
	svc := NewSensorService(s.telemetry, s.gardens, publisher)

	_, err := svc.Register(ctx, domain.Sensor{GardenID: g.ID, Name: "X", Type: "radiazioni"})
	assert.ErrorIs(t, err, ErrInvalidSensorType)

	_, err = svc.Register(ctx, domain.Sensor{GardenID: g.ID + 1, Name: "X", Type: domain.SensorPH})
	assert.ErrorIs(t, err, ErrNotFound)

	sensor, err := svc.Register(ctx, domain.Sensor{GardenID: g.ID, Name: "Umidita aiuola 1", Type: domain.SensorSoilMoisture, Unit: "%"})
	require.NoError(t, err)

	reading, err := svc.Record(ctx, domain.SensorReading{SensorID: sensor.ID, Value: 41.2})
	require.NoError(t, err)
	assert.False(t, reading.RecordedAt.IsZero())

	require.Len(t, publisher.readings, 1)
	assert.Equal(t, reading.ID, publisher.readings[0].ID)

	_, err = svc.Record(ctx, domain.SensorReading{SensorID: sensor.ID + 1, Value: 1})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, publisher.readings, 1)

	readings, err := svc.Readings(ctx, sensor.ID, 0)
	require.NoError(t, err)
	assert.Len(t, readings, 1)

	require.NoError(t, svc.Delete(ctx, sensor.ID))
	_, err = svc.Get(ctx, sensor.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNoticeService_Delete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	m := s.municipality(t, "Torino")
	a := s.association(t, "Orti Uniti", m.ID)
	author := s.user(t, "author@example.com", domain.AssociationMembership{AssociationID: a.ID})

	svc := NewNoticeService(s.bulletin, s.gardens)

	missing := uint(404)
	_, err := svc.Publish(ctx, author.ID, domain.Notice{Title: "x", Content: "y", GardenID: &missing})
	assert.ErrorIs(t, err, ErrInvalidReference)

	n, err := svc.Publish(ctx, author.ID, domain.Notice{Title: "Raccolta", Content: "Sabato mattina"})
	require.NoError(t, err)
	assert.Equal(t, author.ID, n.AuthorID)

	stranger := domain.Principal{UserID: author.ID + 1, Kind: domain.KindAssociationMember, AssociationID: a.ID, Admin: true}
	assert.ErrorIs(t, svc.Delete(ctx, stranger, n.ID), domain.ErrForbiddenRole)

	municipalityAdmin := domain.Principal{UserID: 999, Kind: domain.KindMunicipalityMember, MunicipalityID: m.ID, Admin: true}
	require.NoError(t, svc.Delete(ctx, municipalityAdmin, n.ID))
	assert.ErrorIs(t, svc.Delete(ctx, municipalityAdmin, n.ID), ErrNotFound)
}
