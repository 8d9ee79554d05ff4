package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/ortiurbani/orti-api/internal/domain"
)

// SetAffiliationRequest carries the flat wire form of an affiliation.
type SetAffiliationRequest struct {
	Kind           string `json:"tipo"`
	Admin          bool   `json:"admin"`
	AssociationID  *uint  `json:"associazione_id"`
	MunicipalityID *uint  `json:"comune_id"`
}

func (req *SetAffiliationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Kind, validation.Required, validation.In(
			domain.KindCitizen.String(),
			domain.KindAssociationMember.String(),
			domain.KindMunicipalityMember.String(),
		)),
	)
}

func (req *SetAffiliationRequest) Affiliation() (domain.Affiliation, error) {
	kind, err := domain.ParseKind(req.Kind)
	if err != nil {
		return nil, err
	}

	return domain.NewAffiliation(kind, req.Admin, req.AssociationID, req.MunicipalityID)
}
