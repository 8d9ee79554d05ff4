package domain

import "time"

// Notice is an announcement published by an association or municipality member.
type Notice struct {
	ID        uint      `json:"id"`
	Title     string    `json:"titolo"`
	Content   string    `json:"contenuto"`
	AuthorID  uint      `json:"autore_id"`
	GardenID  *uint     `json:"orto_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Tender is a municipal call for applications.
type Tender struct {
	ID             uint      `json:"id"`
	Title          string    `json:"titolo"`
	Description    string    `json:"descrizione"`
	MunicipalityID uint      `json:"comune_id"`
	OpensAt        time.Time `json:"apertura"`
	ClosesAt       time.Time `json:"scadenza"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (t Tender) Validate() error {
	if t.OpensAt.After(t.ClosesAt) {
		return ErrInvalidInterval
	}

	return nil
}

func (t Tender) IsOpen(now time.Time) bool {
	return !now.Before(t.OpensAt) && !now.After(t.ClosesAt)
}
