package domain

import "time"

type Municipality struct {
	ID        uint      `json:"id"`
	Name      string    `json:"nome"`
	Province  string    `json:"provincia"`
	Region    string    `json:"regione"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Association struct {
	ID             uint      `json:"id"`
	Name           string    `json:"nome"`
	Description    string    `json:"descrizione"`
	Email          string    `json:"email"`
	MunicipalityID uint      `json:"comune_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// AssociationDeletion reports what the deletion cascade touched.
type AssociationDeletion struct {
	AssociationID            uint
	MembersDowngraded        int64
	GardensReleased          int
	PlotAssignmentsRemoved   int64
	GardenAssignmentsRemoved int64
}
