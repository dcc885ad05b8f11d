package export

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/beaconpay/beaconpay/pkg/earmark"
	"github.com/beaconpay/beaconpay/pkg/errors"
)

// WriteEarmarkAuditCSV writes the earmark verification report. The
// trailing verification column is intentionally empty; reviewers fill
// it in by hand.
func WriteEarmarkAuditCSV(path string, rows []earmark.AuditRow) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	header := []string{
		"amendment_number", "chamber", "line_item", "amount",
		"assigned_to", "member_id", "district", "sponsor",
		"match_confidence", "match_method", "page", "text", "verification",
	}
	if err := w.Write(header); err != nil {
		return errors.WrapIO("write", path, err)
	}

	for _, r := range rows {
		row := []string{
			r.AmendmentNumber, r.Chamber, r.LineItem,
			strconv.FormatFloat(r.Amount, 'f', 2, 64),
			r.AssignedTo, r.MemberID, r.District, r.Sponsor,
			strconv.FormatFloat(r.Confidence, 'f', 2, 64),
			r.Method,
			strconv.Itoa(r.Page),
			r.Text,
			r.Verification,
		}
		if err := w.Write(row); err != nil {
			return errors.WrapIO("write", path, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return f.Close()
}
