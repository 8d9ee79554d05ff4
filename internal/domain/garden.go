package domain

import "time"

type Garden struct {
	ID             uint      `json:"id"`
	Name           string    `json:"nome"`
	Address        string    `json:"indirizzo"`
	MunicipalityID uint      `json:"comune_id"`
	PlotIDs        []uint    `json:"lotti"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Plot struct {
	ID        uint      `json:"id"`
	GardenID  uint      `json:"orto_id"`
	Number    int       `json:"numero"`
	Area      float64   `json:"superficie"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
