// Package export renders listings as spreadsheets.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ortiurbani/orti-api/internal/domain"
)

const (
	PlotAssignmentSheet = "AffidaLotti"
	ContentType         = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	dateLayout          = "2006-01-02"
)

var plotAssignmentHeader = []any{"ID", "Lotto", "Utente", "Stato", "Data richiesta", "Inizio", "Fine", "Colture"}

// PlotAssignments writes one row per assignment below a bold header row.
func PlotAssignments(w io.Writer, assignments []domain.PlotAssignment) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", PlotAssignmentSheet); err != nil {
		return fmt.Errorf("f.SetSheetName -> %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("f.NewStyle -> %w", err)
	}

	if err = f.SetSheetRow(PlotAssignmentSheet, "A1", &plotAssignmentHeader); err != nil {
		return fmt.Errorf("f.SetSheetRow -> %w", err)
	}
	if err = f.SetRowStyle(PlotAssignmentSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("f.SetRowStyle -> %w", err)
	}
	if err = f.SetColWidth(PlotAssignmentSheet, "E", "H", 16); err != nil {
		return fmt.Errorf("f.SetColWidth -> %w", err)
	}

	for i, a := range assignments {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("excelize.CoordinatesToCellName -> %w", err)
		}

		row := []any{
			a.ID,
			a.PlotID,
			a.UserID,
			string(a.Status),
			a.RequestedAt.Format(dateLayout),
			formatDate(a.Start),
			formatDate(a.End),
			strings.Join(a.Crops, ", "),
		}
		if err = f.SetSheetRow(PlotAssignmentSheet, cell, &row); err != nil {
			return fmt.Errorf("f.SetSheetRow -> %w", err)
		}
	}

	if err = f.Write(w); err != nil {
		return fmt.Errorf("f.Write -> %w", err)
	}

	return nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.Format(dateLayout)
}
