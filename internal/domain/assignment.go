package domain

import "time"

// GardenAssignment grants management of a garden to an association for [Start, End].
type GardenAssignment struct {
	ID            uint      `json:"id"`
	GardenID      uint      `json:"orto_id"`
	AssociationID uint      `json:"associazione_id"`
	Start         time.Time `json:"inizio"`
	End           time.Time `json:"fine"`
	CreatedAt     time.Time `json:"created_at"`
}

func (a GardenAssignment) Validate() error {
	if a.Start.After(a.End) {
		return ErrInvalidInterval
	}

	return nil
}

type AssignmentStatus string

const (
	StatusPending  AssignmentStatus = "in_attesa"
	StatusAccepted AssignmentStatus = "accettato"
	StatusRejected AssignmentStatus = "rifiutato"
)

func (s AssignmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	default:
		return false
	}
}

type Action string

const (
	ActionAccept Action = "accetta"
	ActionReject Action = "rifiuta"
)

// PlotAssignment links a plot to a citizen. Start and End are set once accepted.
type PlotAssignment struct {
	ID          uint             `json:"id"`
	PlotID      uint             `json:"lotto_id"`
	UserID      uint             `json:"utente_id"`
	Status      AssignmentStatus `json:"stato"`
	RequestedAt time.Time        `json:"data_richiesta"`
	Start       *time.Time       `json:"inizio,omitempty"`
	End         *time.Time       `json:"fine,omitempty"`
	Crops       []string         `json:"colture"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func NewPlotAssignment(plotID, userID uint, crops []string, now time.Time) PlotAssignment {
	return PlotAssignment{
		PlotID:      plotID,
		UserID:      userID,
		Status:      StatusPending,
		RequestedAt: now,
		Crops:       crops,
	}
}

// Accept moves a pending assignment to accepted for one year starting at now.
func (a *PlotAssignment) Accept(now time.Time) error {
	if a.Status != StatusPending {
		return ErrInvalidTransition
	}

	start := now
	end := now.AddDate(1, 0, 0)
	a.Status = StatusAccepted
	a.Start = &start
	a.End = &end

	return nil
}

func (a *PlotAssignment) Reject() error {
	if a.Status != StatusPending {
		return ErrInvalidTransition
	}
	a.Status = StatusRejected

	return nil
}

func (a *PlotAssignment) Apply(action Action, now time.Time) error {
	switch action {
	case ActionAccept:
		return a.Accept(now)
	case ActionReject:
		return a.Reject()
	default:
		return ErrInvalidAction
	}
}
