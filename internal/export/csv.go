// Package export writes run outputs to disk: the per-member CSV that
// downstream commands read back, JSON summaries, variance exports, and
// printable compensation statements.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/beaconpay/beaconpay/pkg/compensation"
	"github.com/beaconpay/beaconpay/pkg/distance"
	"github.com/beaconpay/beaconpay/pkg/errors"
	"github.com/beaconpay/beaconpay/pkg/legislature"
	"github.com/beaconpay/beaconpay/pkg/reconcile"
	"github.com/beaconpay/beaconpay/pkg/stipend"
)

// membersHeader is the stable column order of the members CSV. Changing
// it breaks every consumer that reads the file positionally.
var membersHeader = []string{
	"member_id", "name", "chamber", "district", "party", "locality",
	"distance_miles", "band", "band_source",
	"base_salary", "expense", "stipends", "stipend_total", "total", "has_stipend",
}

// WriteMembersCSV writes one row per record in run order.
func WriteMembersCSV(path string, run *compensation.Run) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer f.Close() //nolint:errcheck // flushed and closed explicitly below

	w := csv.NewWriter(f)
	if err := w.Write(membersHeader); err != nil {
		return errors.WrapIO("write", path, err)
	}

	for _, rec := range run.Records {
		row := []string{
			rec.MemberID, rec.Name, string(rec.Chamber), rec.District, rec.Party, rec.Locality,
			"", "", "",
			strconv.FormatInt(rec.BaseSalary, 10),
			strconv.FormatInt(rec.Expense, 10),
			encodeStipends(rec.Stipends.Selected),
			strconv.FormatInt(rec.StipendTotal, 10),
			strconv.FormatInt(rec.Total, 10),
			strconv.FormatBool(rec.HasStipend()),
		}
		if rec.Banded() {
			row[6] = strconv.FormatFloat(rec.Distance.Miles, 'f', 1, 64)
			row[7] = string(rec.Distance.Band)
			row[8] = string(rec.Distance.Source)
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

// ReadMembersCSV reads a members CSV back into compensation records.
// The reconcile and report commands run against a previously computed
// file rather than recomputing.
func ReadMembersCSV(path string) ([]*compensation.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	defer f.Close() //nolint:errcheck

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.WrapParse("csv", path, err)
	}
	if len(rows) == 0 || len(rows[0]) != len(membersHeader) {
		return nil, errors.WrapParse("csv", path, fmt.Errorf("unexpected header"))
	}

	records := make([]*compensation.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := &compensation.Record{
			MemberID: row[0],
			Name:     row[1],
			Chamber:  legislature.Chamber(row[2]),
			District: row[3],
			Party:    row[4],
			Locality: row[5],
		}
		if row[6] != "" {
			miles, err := strconv.ParseFloat(row[6], 64)
			if err != nil {
				return nil, errors.WrapParse("csv", path, err)
			}
			rec.Distance = &distance.Result{
				Miles:  miles,
				Band:   distance.Band(row[7]),
				Source: distance.Source(row[8]),
			}
		}
		if rec.BaseSalary, err = strconv.ParseInt(row[9], 10, 64); err != nil {
			return nil, errors.WrapParse("csv", path, err)
		}
		if rec.Expense, err = strconv.ParseInt(row[10], 10, 64); err != nil {
			return nil, errors.WrapParse("csv", path, err)
		}
		selected, err := decodeStipends(row[11])
		if err != nil {
			return nil, errors.WrapParse("csv", path, err)
		}
		rec.Stipends = stipend.Selection{Selected: selected}
		if rec.StipendTotal, err = strconv.ParseInt(row[12], 10, 64); err != nil {
			return nil, errors.WrapParse("csv", path, err)
		}
		rec.Stipends.Total = rec.StipendTotal
		if rec.Total, err = strconv.ParseInt(row[13], 10, 64); err != nil {
			return nil, errors.WrapParse("csv", path, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// WriteVariancesCSV writes the classified variances.
func WriteVariancesCSV(path string, result *reconcile.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	header := []string{
		"member_id", "name", "chamber", "district",
		"model_total", "actual_pay", "variance", "ratio", "pct_of_model", "months_equivalent",
		"stipend_total", "multi_agency", "agencies", "status", "explanation",
	}
	if err := w.Write(header); err != nil {
		return errors.WrapIO("write", path, err)
	}

	for _, v := range result.Variances {
		row := []string{
			v.MemberID, v.Name, v.Chamber, v.District,
			strconv.FormatInt(v.Model, 10),
			strconv.FormatFloat(v.Actual, 'f', 2, 64),
			strconv.FormatFloat(v.Variance, 'f', 2, 64),
			strconv.FormatFloat(v.Ratio, 'f', 4, 64),
			strconv.FormatFloat(v.PctOfModel, 'f', 1, 64),
			strconv.FormatFloat(v.Months, 'f', 1, 64),
			strconv.FormatInt(v.StipendTotal, 10),
			strconv.FormatBool(v.MultiAgency),
			strings.Join(v.Agencies, "; "),
			string(v.Status),
			v.Explanation,
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

// encodeStipends packs selected stipends as "KEY:amount|KEY:amount".
func encodeStipends(selected []stipend.Candidate) string {
	parts := make([]string, 0, len(selected))
	for _, c := range selected {
		parts = append(parts, fmt.Sprintf("%s:%d", c.Key, c.Amount))
	}
	return strings.Join(parts, "|")
}

func decodeStipends(s string) ([]stipend.Candidate, error) {
	if s == "" {
		return nil, nil
	}
	var out []stipend.Candidate
	for _, part := range strings.Split(s, "|") {
		key, amountStr, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("bad stipend cell %q", s)
		}
		amount, err := strconv.ParseInt(amountStr, 10, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, stipend.Candidate{Key: stipend.Key(key), Amount: amount})
	}
	return out, nil
}
