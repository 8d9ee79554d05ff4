package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func TestNewAffiliation(t *testing.T) {
	tests := []struct {
		name           string
		kind           Kind
		admin          bool
		associationID  *uint
		municipalityID *uint
		want           Affiliation
		wantErr        bool
	}{
		{name: "citizen", kind: KindCitizen, want: Citizen{}},
		{name: "citizen with admin", kind: KindCitizen, admin: true, wantErr: true},
		{name: "citizen with association", kind: KindCitizen, associationID: uintPtr(1), wantErr: true},
		{name: "association member", kind: KindAssociationMember, admin: true, associationID: uintPtr(3),
			want: AssociationMembership{AssociationID: 3, Admin: true}},
		{name: "association member without association", kind: KindAssociationMember, wantErr: true},
		{name: "association member with both owners", kind: KindAssociationMember,
			associationID: uintPtr(1), municipalityID: uintPtr(2), wantErr: true},
		{name: "municipality member", kind: KindMunicipalityMember, municipalityID: uintPtr(7),
			want: MunicipalityMembership{MunicipalityID: 7}},
		{name: "municipality member with association", kind: KindMunicipalityMember,
			associationID: uintPtr(1), wantErr: true},
		{name: "unknown kind", kind: Kind(42), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewAffiliation(tt.kind, tt.admin, tt.associationID, tt.municipalityID)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAffiliation)
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			kind, admin, associationID, municipalityID := FlattenAffiliation(got)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.admin, admin)
			assert.Equal(t, tt.associationID, associationID)
			assert.Equal(t, tt.municipalityID, municipalityID)
		})
	}
}

func TestUserPrincipal(t *testing.T) {
	u := User{ID: 5, Affiliation: AssociationMembership{AssociationID: 9, Admin: true}}
	assert.Equal(t, Principal{UserID: 5, Kind: KindAssociationMember, Admin: true, AssociationID: 9}, u.Principal())

	var nobody User
	assert.Equal(t, KindCitizen, nobody.Kind())
	assert.False(t, nobody.IsAdmin())
	_, ok := nobody.AssociationID()
	assert.False(t, ok)
}

func TestUserMarshalJSON(t *testing.T) {
	u := User{
		ID:          1,
		Email:       "mario@example.com",
		Password:    "hash",
		Name:        "Mario",
		Affiliation: MunicipalityMembership{MunicipalityID: 2, Admin: true},
	}

	raw, err := json.Marshal(u)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "comune", got["tipo"])
	assert.Equal(t, true, got["admin"])
	assert.Equal(t, float64(2), got["comune_id"])
	assert.Nil(t, got["associazione_id"])
	assert.NotContains(t, got, "password")
	assert.NotContains(t, string(raw), "hash")
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}

	_, err := ParseKind("admin")
	assert.ErrorIs(t, err, ErrValidation)

	var k Kind
	require.NoError(t, json.Unmarshal([]byte(`"associazione"`), &k))
	assert.Equal(t, KindAssociationMember, k)
}
