package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/ortiurbani/orti-api/internal/domain"
)

type GardenRequest struct {
	Name           string `json:"nome"`
	Address        string `json:"indirizzo"`
	MunicipalityID uint   `json:"comune_id"`
}

func (req *GardenRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Address, validation.Length(0, 200)),
		validation.Field(&req.MunicipalityID, validation.Required),
	)
}

func (req *GardenRequest) Garden(id uint) domain.Garden {
	return domain.Garden{
		ID:             id,
		Name:           req.Name,
		Address:        req.Address,
		MunicipalityID: req.MunicipalityID,
	}
}

type PlotRequest struct {
	Number int     `json:"numero"`
	Area   float64 `json:"superficie"`
}

func (req *PlotRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Number, validation.Required, validation.Min(1)),
		validation.Field(&req.Area, validation.Min(0.0)),
	)
}

func (req *PlotRequest) Plot(id, gardenID uint) domain.Plot {
	return domain.Plot{
		ID:       id,
		GardenID: gardenID,
		Number:   req.Number,
		Area:     req.Area,
	}
}
