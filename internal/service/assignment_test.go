package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ortiurbani/orti-api/internal/domain"
)

func TestPlotAssignmentService_Manage(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	s := newTestStore(t)
	m := s.municipality(t, "Torino")
	_, plots := s.garden(t, "G1", m.ID, 2)
	citizen := s.user(t, "c@example.com", domain.Citizen{})

	svc := NewPlotAssignmentService(s.tx, s.assignments, s.gardens)
	svc.now = func() time.Time { return now }

	t.Run("accept sets a one year period", func(t *testing.T) {
		pending := s.request(t, plots[0].ID, citizen.ID, domain.StatusPending)

		got, err := svc.Manage(ctx, pending.ID, domain.ActionAccept)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusAccepted, got.Status)
		require.NotNil(t, got.Start)
		require.NotNil(t, got.End)
		assert.WithinDuration(t, now, *got.Start, time.Second)
		assert.WithinDuration(t, now.AddDate(1, 0, 0), *got.End, time.Second)

		stored, err := s.assignments.FindPlotAssignmentByID(ctx, pending.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusAccepted, stored.Status)
	})

	t.Run("accepting a second request for the same plot fails", func(t *testing.T) {
		other := s.request(t, plots[0].ID, citizen.ID, domain.StatusPending)

		_, err := svc.Manage(ctx, other.ID, domain.ActionAccept)
		assert.ErrorIs(t, err, domain.ErrPlotAlreadyAssigned)

		stored, err := s.assignments.FindPlotAssignmentByID(ctx, other.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, stored.Status)
	})

	t.Run("reject keeps dates empty", func(t *testing.T) {
		pending := s.request(t, plots[1].ID, citizen.ID, domain.StatusPending)

		got, err := svc.Manage(ctx, pending.ID, domain.ActionReject)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusRejected, got.Status)
		assert.Nil(t, got.Start)
		assert.Nil(t, got.End)
	})

	t.Run("only pending requests can change", func(t *testing.T) {
		rejected := s.request(t, plots[1].ID, citizen.ID, domain.StatusRejected)

		_, err := svc.Manage(ctx, rejected.ID, domain.ActionAccept)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)

		_, err = svc.Manage(ctx, rejected.ID, domain.ActionReject)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("unknown action", func(t *testing.T) {
		_, err := svc.Manage(ctx, 12345, domain.Action("approva"))
		assert.ErrorIs(t, err, domain.ErrInvalidAction)
	})

	t.Run("unknown assignment", func(t *testing.T) {
		_, err := svc.Manage(ctx, 12345, domain.ActionReject)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

// staleCount reports no accepted assignment, as a concurrent transaction that
// committed after the count would.
type staleCount struct {
	AssignmentRepository
}

func (staleCount) CountAccepted(context.Context, uint, uint) (int64, error) {
	return 0, nil
}

func TestPlotAssignmentService_Manage_ConcurrentAccept(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	m := s.municipality(t, "Trento")
	_, plots := s.garden(t, "G1", m.ID, 1)
	citizen := s.user(t, "c@example.com", domain.Citizen{})

	s.request(t, plots[0].ID, citizen.ID, domain.StatusAccepted)
	late := s.request(t, plots[0].ID, citizen.ID, domain.StatusPending)

	svc := NewPlotAssignmentService(s.tx, staleCount{AssignmentRepository: s.assignments}, s.gardens)

	_, err := svc.Manage(ctx, late.ID, domain.ActionAccept)
	assert.ErrorIs(t, err, domain.ErrPlotAlreadyAssigned)

	stored, err := s.assignments.FindPlotAssignmentByID(ctx, late.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
}

func TestPlotAssignmentService_Request(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	m := s.municipality(t, "Torino")
	_, plots := s.garden(t, "G1", m.ID, 1)
	citizen := s.user(t, "c@example.com", domain.Citizen{})

	svc := NewPlotAssignmentService(s.tx, s.assignments, s.gardens)

	got, err := svc.Request(ctx, citizen.ID, plots[0].ID, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Equal(t, []string{}, got.Crops)
	assert.Nil(t, got.Start)

	_, err = svc.Request(ctx, citizen.ID, 999, []string{"pomodori"})
	assert.ErrorIs(t, err, ErrInvalidReference)

	updated, err := svc.UpdateCrops(ctx, got.ID, []string{"zucchine", "basilico"})
	require.NoError(t, err)
	assert.Equal(t, []string{"zucchine", "basilico"}, updated.Crops)
	assert.Equal(t, domain.StatusPending, updated.Status)

	mine, err := svc.List(ctx, PlotAssignmentFilter{UserID: citizen.ID})
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	require.NoError(t, svc.Delete(ctx, got.ID))
	assert.ErrorIs(t, svc.Delete(ctx, got.ID), ErrNotFound)
}

func TestGardenAssignmentService_Create(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	m := s.municipality(t, "Torino")
	a := s.association(t, "Orti Uniti", m.ID)
	g, _ := s.garden(t, "G1", m.ID, 0)

	svc := NewGardenAssignmentService(s.assignments, s.gardens, s.associations)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.Create(ctx, domain.GardenAssignment{GardenID: g.ID, AssociationID: a.ID, Start: start, End: start.AddDate(0, 0, -1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInterval)

	_, err = svc.Create(ctx, domain.GardenAssignment{GardenID: g.ID, AssociationID: a.ID + 1, Start: start, End: start})
	assert.ErrorIs(t, err, ErrInvalidReference)

	created, err := svc.Create(ctx, domain.GardenAssignment{GardenID: g.ID, AssociationID: a.ID, Start: start, End: start.AddDate(3, 0, 0)})
	require.NoError(t, err)

	list, err := svc.List(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
}
