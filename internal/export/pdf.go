package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/beaconpay/beaconpay/pkg/compensation"
)

// WriteStatement renders a one-page compensation statement for a
// member.
func WriteStatement(w io.Writer, run *compensation.Run, rec *compensation.Record) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Compensation Statement")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Member: %s (%s)", rec.Name, rec.MemberID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Chamber: %s    District: %s", rec.Chamber, rec.District))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Cycle: %s    Generated: %s", run.Cycle, run.GeneratedAt.Format("2006-01-02")))
	pdf.Ln(10)

	pdf.Cell(0, 8, fmt.Sprintf("Base salary: $%d", rec.BaseSalary))
	pdf.Ln(7)
	if rec.Banded() {
		pdf.Cell(0, 8, fmt.Sprintf("Expense stipend (%s, %.1f mi): $%d", rec.Distance.Band, rec.Distance.Miles, rec.Expense))
	} else {
		pdf.Cell(0, 8, "Expense stipend: unresolved distance band")
	}
	pdf.Ln(7)

	for _, c := range rec.Stipends.Selected {
		label := string(c.Key)
		if c.Assignment.Committee != "" {
			label = fmt.Sprintf("%s (%s)", c.Key, c.Assignment.Committee)
		}
		pdf.Cell(0, 8, fmt.Sprintf("Role stipend %s: $%d", label, c.Amount))
		pdf.Ln(7)
	}
	for _, c := range rec.Stipends.Discarded {
		pdf.Cell(0, 8, fmt.Sprintf("Not paid (stipend cap) %s: $%d", c.Key, c.Amount))
		pdf.Ln(7)
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total: $%d", rec.Total))

	return pdf.Output(w)
}
