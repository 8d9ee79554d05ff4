package response

import (
	"github.com/ortiurbani/orti-api/internal/domain"
)

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type AssociationDeletionResponse struct {
	Message                  string `json:"message"`
	AssociationID            uint   `json:"associazione_id"`
	MembersDowngraded        int64  `json:"membri_aggiornati"`
	GardensReleased          int    `json:"orti_liberati"`
	PlotAssignmentsRemoved   int64  `json:"affidamenti_lotti_rimossi"`
	GardenAssignmentsRemoved int64  `json:"affidamenti_orti_rimossi"`
}

func NewAssociationDeletionResponse(message string, d domain.AssociationDeletion) AssociationDeletionResponse {
	return AssociationDeletionResponse{
		Message:                  message,
		AssociationID:            d.AssociationID,
		MembersDowngraded:        d.MembersDowngraded,
		GardensReleased:          d.GardensReleased,
		PlotAssignmentsRemoved:   d.PlotAssignmentsRemoved,
		GardenAssignmentsRemoved: d.GardenAssignmentsRemoved,
	}
}
