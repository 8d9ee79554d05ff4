package domain

import (
	"encoding/json"
	"time"
)

// Affiliation is the tagged variant describing what a user belongs to.
// Only Citizen, AssociationMembership and MunicipalityMembership implement it.
type Affiliation interface {
	Kind() Kind
	IsAdmin() bool
	isAffiliation()
}

type Citizen struct{}

func (Citizen) Kind() Kind { return KindCitizen }
func (Citizen) IsAdmin() bool { return false }
func (Citizen) isAffiliation() {}

type AssociationMembership struct {
	AssociationID uint
	Admin         bool
}

func (AssociationMembership) Kind() Kind { return KindAssociationMember }
func (m AssociationMembership) IsAdmin() bool { return m.Admin }
func (AssociationMembership) isAffiliation() {}

type MunicipalityMembership struct {
	MunicipalityID uint
	Admin          bool
}

func (MunicipalityMembership) Kind() Kind { return KindMunicipalityMember }
func (m MunicipalityMembership) IsAdmin() bool { return m.Admin }
func (MunicipalityMembership) isAffiliation() {}

// NewAffiliation builds the variant for kind from flat fields, rejecting
// combinations that break the one-owner-per-kind invariant.
func NewAffiliation(kind Kind, admin bool, associationID, municipalityID *uint) (Affiliation, error) {
	switch kind {
	case KindCitizen:
		if admin || associationID != nil || municipalityID != nil {
			return nil, ErrInvalidAffiliation
		}
		return Citizen{}, nil
	case KindAssociationMember:
		if associationID == nil || municipalityID != nil {
			return nil, ErrInvalidAffiliation
		}
		return AssociationMembership{AssociationID: *associationID, Admin: admin}, nil
	case KindMunicipalityMember:
		if municipalityID == nil || associationID != nil {
			return nil, ErrInvalidAffiliation
		}
		return MunicipalityMembership{MunicipalityID: *municipalityID, Admin: admin}, nil
	default:
		return nil, ErrInvalidAffiliation
	}
}

// FlattenAffiliation is the inverse of NewAffiliation.
func FlattenAffiliation(a Affiliation) (kind Kind, admin bool, associationID, municipalityID *uint) {
	switch v := a.(type) {
	case AssociationMembership:
		id := v.AssociationID
		return KindAssociationMember, v.Admin, &id, nil
	case MunicipalityMembership:
		id := v.MunicipalityID
		return KindMunicipalityMember, v.Admin, nil, &id
	default:
		return KindCitizen, false, nil, nil
	}
}

type User struct {
	ID          uint
	Email       string
	Password    string
	Name        string
	Affiliation Affiliation
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (u User) Kind() Kind {
	if u.Affiliation == nil {
		return KindCitizen
	}

	return u.Affiliation.Kind()
}

func (u User) IsAdmin() bool {
	return u.Affiliation != nil && u.Affiliation.IsAdmin()
}

func (u User) AssociationID() (uint, bool) {
	m, ok := u.Affiliation.(AssociationMembership)
	return m.AssociationID, ok
}

func (u User) MunicipalityID() (uint, bool) {
	m, ok := u.Affiliation.(MunicipalityMembership)
	return m.MunicipalityID, ok
}

func (u User) Principal() Principal {
	p := Principal{UserID: u.ID, Kind: u.Kind(), Admin: u.IsAdmin()}
	p.AssociationID, _ = u.AssociationID()
	p.MunicipalityID, _ = u.MunicipalityID()

	return p
}

type userJSON struct {
	ID             uint      `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"nome"`
	Kind           Kind      `json:"tipo"`
	Admin          bool      `json:"admin"`
	AssociationID  *uint     `json:"associazione_id"`
	MunicipalityID *uint     `json:"comune_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// MarshalJSON flattens the affiliation; the password hash is never written.
func (u User) MarshalJSON() ([]byte, error) {
	kind, admin, associationID, municipalityID := FlattenAffiliation(u.Affiliation)

	return json.Marshal(userJSON{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		Kind:           kind,
		Admin:          admin,
		AssociationID:  associationID,
		MunicipalityID: municipalityID,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	})
}

// Principal is the authenticated actor of a request.
type Principal struct {
	UserID         uint
	Kind           Kind
	Admin          bool
	AssociationID  uint
	MunicipalityID uint
}
