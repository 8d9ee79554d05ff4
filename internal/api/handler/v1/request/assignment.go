package request

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/ortiurbani/orti-api/internal/domain"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}

	return t.UTC(), nil
}

type GardenAssignmentRequest struct {
	GardenID      uint   `json:"orto_id"`
	AssociationID uint   `json:"associazione_id"`
	Start         string `json:"inizio" example:"2024-01-01"`
	End           string `json:"fine" example:"2026-12-31"`
}

func (req *GardenAssignmentRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.GardenID, validation.Required),
		validation.Field(&req.AssociationID, validation.Required),
		validation.Field(&req.Start, validation.Required, validation.Date(DateLayout)),
		validation.Field(&req.End, validation.Required, validation.Date(DateLayout)),
	)
}

func (req *GardenAssignmentRequest) GardenAssignment() (domain.GardenAssignment, error) {
	start, err := parseDate(req.Start)
	if err != nil {
		return domain.GardenAssignment{}, err
	}
	end, err := parseDate(req.End)
	if err != nil {
		return domain.GardenAssignment{}, err
	}

	return domain.GardenAssignment{
		GardenID:      req.GardenID,
		AssociationID: req.AssociationID,
		Start:         start,
		End:           end,
	}, nil
}

type PlotAssignmentRequest struct {
	PlotID uint     `json:"lotto_id"`
	Crops  []string `json:"colture"`
}

func (req *PlotAssignmentRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.PlotID, validation.Required),
		validation.Field(&req.Crops, validation.Each(validation.Required, validation.Length(1, 50))),
	)
}

type ManagePlotAssignmentRequest struct {
	Action string `json:"azione" example:"accetta"`
}

func (req *ManagePlotAssignmentRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Action, validation.Required),
	)
}

type UpdateCropsRequest struct {
	Crops []string `json:"colture"`
}

func (req *UpdateCropsRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Crops, validation.Each(validation.Required, validation.Length(1, 50))),
	)
}
