package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/ortiurbani/orti-api/internal/domain"
)

type MunicipalityRequest struct {
	Name     string `json:"nome"`
	Province string `json:"provincia"`
	Region   string `json:"regione"`
}

func (req *MunicipalityRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Province, validation.Required, validation.Length(2, 50)),
		validation.Field(&req.Region, validation.Required, validation.Length(2, 50)),
	)
}

func (req *MunicipalityRequest) Municipality(id uint) domain.Municipality {
	return domain.Municipality{
		ID:       id,
		Name:     req.Name,
		Province: req.Province,
		Region:   req.Region,
	}
}

type AssociationRequest struct {
	Name           string `json:"nome"`
	Description    string `json:"descrizione"`
	Email          string `json:"email"`
	MunicipalityID uint   `json:"comune_id"`
}

func (req *AssociationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Description, validation.Length(0, 500)),
		validation.Field(&req.Email, is.Email),
		validation.Field(&req.MunicipalityID, validation.Required),
	)
}

func (req *AssociationRequest) Association(id uint) domain.Association {
	return domain.Association{
		ID:             id,
		Name:           req.Name,
		Description:    req.Description,
		Email:          req.Email,
		MunicipalityID: req.MunicipalityID,
	}
}

type AddMemberRequest struct {
	UserID uint `json:"utente_id"`
	Admin  bool `json:"admin"`
}

func (req *AddMemberRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.UserID, validation.Required),
	)
}
