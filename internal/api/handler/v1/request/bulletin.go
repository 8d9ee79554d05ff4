package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/ortiurbani/orti-api/internal/domain"
)

type NoticeRequest struct {
	Title    string `json:"titolo"`
	Content  string `json:"contenuto"`
	GardenID *uint  `json:"orto_id"`
}

func (req *NoticeRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(2, 150)),
		validation.Field(&req.Content, validation.Required, validation.Length(1, 5000)),
	)
}

func (req *NoticeRequest) Notice() domain.Notice {
	return domain.Notice{
		Title:    req.Title,
		Content:  req.Content,
		GardenID: req.GardenID,
	}
}

type TenderRequest struct {
	Title          string `json:"titolo"`
	Description    string `json:"descrizione"`
	MunicipalityID uint   `json:"comune_id"`
	OpensAt        string `json:"apertura" example:"2024-03-01"`
	ClosesAt       string `json:"scadenza" example:"2024-04-30"`
}

func (req *TenderRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(2, 150)),
		validation.Field(&req.Description, validation.Length(0, 5000)),
		validation.Field(&req.MunicipalityID, validation.Required),
		validation.Field(&req.OpensAt, validation.Required, validation.Date(DateLayout)),
		validation.Field(&req.ClosesAt, validation.Required, validation.Date(DateLayout)),
	)
}

// Tender converts the request; the call stays open until the end of the
// closing day.
func (req *TenderRequest) Tender(id uint) (domain.Tender, error) {
	opens, err := parseDate(req.OpensAt)
	if err != nil {
		return domain.Tender{}, err
	}
	closes, err := parseDate(req.ClosesAt)
	if err != nil {
		return domain.Tender{}, err
	}

	return domain.Tender{
		ID:             id,
		Title:          req.Title,
		Description:    req.Description,
		MunicipalityID: req.MunicipalityID,
		OpensAt:        opens,
		ClosesAt:       closes.AddDate(0, 0, 1).Add(-time.Second),
	}, nil
}
