package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ortiurbani/orti-api/internal/domain"
	"github.com/ortiurbani/orti-api/internal/repository/dao"
)

func TestAssociationService_Delete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	m := s.municipality(t, "Torino")
	a1 := s.association(t, "Orti Uniti", m.ID)
	a2 := s.association(t, "Verde Comune", m.ID)

	u1 := s.user(t, "u1@example.com", domain.AssociationMembership{AssociationID: a1.ID, Admin: true})
	u2 := s.user(t, "u2@example.com", domain.AssociationMembership{AssociationID: a1.ID})
	u3 := s.user(t, "u3@example.com", domain.Citizen{})
	other := s.user(t, "other@example.com", domain.AssociationMembership{AssociationID: a2.ID, Admin: true})

	g1, g1Plots := s.garden(t, "G1", m.ID, 2)
	g2, g2Plots := s.garden(t, "G2", m.ID, 1)
	s.manage(t, g1.ID, a1.ID)
	s.manage(t, g2.ID, a2.ID)

	s.request(t, g1Plots[0].ID, u3.ID, domain.StatusAccepted)
	s.request(t, g1Plots[1].ID, u3.ID, domain.StatusPending)
	s.request(t, g1Plots[1].ID, u1.ID, domain.StatusRejected)
	kept := s.request(t, g2Plots[0].ID, u3.ID, domain.StatusPending)

	result, err := s.associationService().Delete(ctx, a1.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.AssociationDeletion{
		AssociationID:            a1.ID,
		MembersDowngraded:        2,
		GardensReleased:          1,
		PlotAssignmentsRemoved:   3,
		GardenAssignmentsRemoved: 1,
	}, result)

	for _, id := range []uint{u1.ID, u2.ID} {
		u, err := s.users.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.KindCitizen, u.Kind())
		assert.False(t, u.IsAdmin())
		_, member := u.AssociationID()
		assert.False(t, member)
	}

	unchanged, err := s.users.FindByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AssociationMembership{AssociationID: a2.ID, Admin: true}, unchanged.Affiliation)

	_, err = s.associations.FindByID(ctx, a1.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	remaining, err := s.assignments.FindPlotAssignments(ctx, PlotAssignmentFilter{})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, kept.ID, remaining[0].ID)

	managed, err := s.assignments.FindGardenAssignments(ctx, 0)
	require.NoError(t, err)
	require.Len(t, managed, 1)
	assert.Equal(t, a2.ID, managed[0].AssociationID)

	// Gardens and plots stay: only the management link goes away.
	assert.Equal(t, int64(2), s.count(t, &dao.Garden{}))
	assert.Equal(t, int64(3), s.count(t, &dao.Plot{}))
}

func TestAssociationService_Delete_WithoutGardens(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	m := s.municipality(t, "Milano")
	a := s.association(t, "Senza Orti", m.ID)
	s.user(t, "member@example.com", domain.AssociationMembership{AssociationID: a.ID})

	result, err := s.associationService().Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.MembersDowngraded)
	assert.Zero(t, result.GardensReleased)
	assert.Zero(t, result.PlotAssignmentsRemoved)
}

func TestAssociationService_Delete_NotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	m := s.municipality(t, "Genova")
	a := s.association(t, "Esistente", m.ID)
	s.user(t, "member@example.com", domain.AssociationMembership{AssociationID: a.ID})
	g, plots := s.garden(t, "G", m.ID, 1)
	s.manage(t, g.ID, a.ID)
	citizen := s.user(t, "citizen@example.com", domain.Citizen{})
	s.request(t, plots[0].ID, citizen.ID, domain.StatusPending)

	_, err := s.associationService().Delete(ctx, a.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrCascadeFailed)

	assert.Equal(t, int64(1), s.count(t, &dao.Association{}))
	assert.Equal(t, int64(1), s.count(t, &dao.GardenAssignment{}))
	assert.Equal(t, int64(1), s.count(t, &dao.PlotAssignment{}))

	members, err := s.users.FindByAssociation(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

type associationRepoMock struct {
	mock.Mock
	AssociationRepository
}

func (m *associationRepoMock) FindByID(ctx context.Context, id uint) (domain.Association, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Association), args.Error(1)
}

func (m *associationRepoMock) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

type memberRepoMock struct {
	mock.Mock
	MemberRepository
}

func (m *memberRepoMock) DowngradeAssociationMembers(ctx context.Context, associationID uint) (int64, error) {
	args := m.Called(ctx, associationID)
	return args.Get(0).(int64), args.Error(1)
}

type cascadeRepoMock struct {
	mock.Mock
	AssociationAssignmentRepository
}

func (m *cascadeRepoMock) FindGardenAssignments(ctx context.Context, associationID uint) ([]domain.GardenAssignment, error) {
	args := m.Called(ctx, associationID)
	return args.Get(0).([]domain.GardenAssignment), args.Error(1)
}

func (m *cascadeRepoMock) DeleteGardenAssignmentsByAssociation(ctx context.Context, associationID uint) (int64, error) {
	args := m.Called(ctx, associationID)
	return args.Get(0).(int64), args.Error(1)
}

func TestAssociationService_Delete_StepFailure(t *testing.T) {
	ctx := context.Background()
	storeErr := errors.New("connection reset")

	tests := []struct {
		name  string
		setup func(repo *associationRepoMock, members *memberRepoMock, cascade *cascadeRepoMock)
	}{
		{
			name: "downgrade fails",
			setup: func(repo *associationRepoMock, members *memberRepoMock, cascade *cascadeRepoMock) {
				repo.On("FindByID", mock.Anything, uint(1)).Return(domain.Association{ID: 1}, nil).Once()
				members.On("DowngradeAssociationMembers", mock.Anything, uint(1)).Return(int64(0), storeErr).Once()
			},
		},
		{
			name: "final delete reports missing row",
			setup: func(repo *associationRepoMock, members *memberRepoMock, cascade *cascadeRepoMock) {
				repo.On("FindByID", mock.Anything, uint(1)).Return(domain.Association{ID: 1}, nil).Once()
				members.On("DowngradeAssociationMembers", mock.Anything, uint(1)).Return(int64(2), nil).Once()
				cascade.On("FindGardenAssignments", mock.Anything, uint(1)).Return([]domain.GardenAssignment{}, nil).Once()
				cascade.On("DeleteGardenAssignmentsByAssociation", mock.Anything, uint(1)).Return(int64(0), nil).Once()
				repo.On("Delete", mock.Anything, uint(1)).Return(ErrNotFound).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &associationRepoMock{}
			members := &memberRepoMock{}
			cascade := &cascadeRepoMock{}
			tt.setup(repo, members, cascade)

			svc := NewAssociationService(NoTransaction{}, repo, members, nil, cascade, nil)
			_, err := svc.Delete(ctx, 1)

			assert.ErrorIs(t, err, ErrCascadeFailed)
			repo.AssertExpectations(t)
			members.AssertExpectations(t)
			cascade.AssertExpectations(t)
		})
	}
}

func TestAssociationService_AddMember(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := s.associationService()

	m := s.municipality(t, "Bologna")
	a := s.association(t, "Orto Felice", m.ID)
	b := s.association(t, "Altro Orto", m.ID)
	citizen := s.user(t, "c@example.com", domain.Citizen{})
	member := s.user(t, "m@example.com", domain.AssociationMembership{AssociationID: b.ID})

	municipalityAdmin := domain.Principal{UserID: 99, Kind: domain.KindMunicipalityMember, MunicipalityID: m.ID}
	associationAdmin := domain.Principal{UserID: 98, Kind: domain.KindAssociationMember, AssociationID: a.ID, Admin: true}
	plainMember := domain.Principal{UserID: 97, Kind: domain.KindAssociationMember, AssociationID: a.ID}
	foreignAdmin := domain.Principal{UserID: 96, Kind: domain.KindAssociationMember, AssociationID: b.ID, Admin: true}

	_, err := svc.AddMember(ctx, plainMember, a.ID, citizen.ID, false)
	assert.ErrorIs(t, err, domain.ErrForbiddenAdmin)

	_, err = svc.AddMember(ctx, foreignAdmin, a.ID, citizen.ID, false)
	assert.ErrorIs(t, err, domain.ErrForbiddenRole)

	_, err = svc.AddMember(ctx, associationAdmin, a.ID, member.ID, false)
	assert.ErrorIs(t, err, ErrNotCitizen)

	_, err = svc.AddMember(ctx, municipalityAdmin, a.ID, 12345, false)
	assert.ErrorIs(t, err, domain.ErrValidation)

	added, err := svc.AddMember(ctx, associationAdmin, a.ID, citizen.ID, true)
	require.NoError(t, err)
	assert.Equal(t, domain.AssociationMembership{AssociationID: a.ID, Admin: true}, added.Affiliation)

	members, err := svc.ListMembers(ctx, plainMember, a.ID)
	require.NoError(t, err)
	assert.Len(t, members, 1)

	_, err = svc.ListMembers(ctx, foreignAdmin, a.ID)
	assert.ErrorIs(t, err, domain.ErrForbiddenRole)
}

func TestAssociationService_Create_UnknownMunicipality(t *testing.T) {
	s := newTestStore(t)

	_, err := s.associationService().Create(context.Background(), domain.Association{Name: "Orfana", MunicipalityID: 42})
	assert.ErrorIs(t, err, ErrInvalidReference)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAssociationService_DowngradeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	m := s.municipality(t, "Padova")
	a := s.association(t, "Orto Ripetuto", m.ID)
	member := s.user(t, "member@example.com", domain.AssociationMembership{AssociationID: a.ID, Admin: true})

	first, err := s.users.DowngradeAssociationMembers(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)

	afterFirst, err := s.users.FindByID(ctx, member.ID)
	require.NoError(t, err)

	second, err := s.users.DowngradeAssociationMembers(ctx, a.ID)
	require.NoError(t, err)
	assert.Zero(t, second)

	afterSecond, err := s.users.FindByID(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Citizen{}, afterFirst.Affiliation)
	assert.Equal(t, afterFirst.Affiliation, afterSecond.Affiliation)
}

// failingPlotCleanup breaks the cascade after members are already downgraded.
type failingPlotCleanup struct {
	AssociationAssignmentRepository
	err error
}

func (f failingPlotCleanup) DeletePlotAssignmentsByPlots(context.Context, []uint) (int64, error) {
	return 0, f.err
}

func TestAssociationService_Delete_RollsBack(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	m := s.municipality(t, "Verona")
	a := s.association(t, "Orto Atomico", m.ID)
	member := s.user(t, "admin@example.com", domain.AssociationMembership{AssociationID: a.ID, Admin: true})
	g, plots := s.garden(t, "G", m.ID, 1)
	s.manage(t, g.ID, a.ID)
	citizen := s.user(t, "citizen@example.com", domain.Citizen{})
	s.request(t, plots[0].ID, citizen.ID, domain.StatusPending)

	storeErr := errors.New("disk full")
	svc := NewAssociationService(s.tx, s.associations, s.users, s.gardens,
		failingPlotCleanup{AssociationAssignmentRepository: s.assignments, err: storeErr}, s.municipalities)

	_, err := svc.Delete(ctx, a.ID)
	assert.ErrorIs(t, err, ErrCascadeFailed)
	assert.ErrorIs(t, err, storeErr)

	u, err := s.users.FindByID(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AssociationMembership{AssociationID: a.ID, Admin: true}, u.Affiliation)

	assert.Equal(t, int64(1), s.count(t, &dao.Association{}))
	assert.Equal(t, int64(1), s.count(t, &dao.GardenAssignment{}))
	assert.Equal(t, int64(1), s.count(t, &dao.PlotAssignment{}))
}
