// Package report renders console analyses over computed compensation
// records. Reports live in an explicit registry so the CLI can list
// them and a typo'd name fails loudly instead of falling back.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/olekukonko/tablewriter"

	"github.com/beaconpay/beaconpay/pkg/compensation"
	"github.com/beaconpay/beaconpay/pkg/distance"
	"github.com/beaconpay/beaconpay/pkg/errors"
)

// Report is one named analysis.
type Report struct {
	Name        string
	Description string
	Run         func(w io.Writer, records []*compensation.Record) error
}

// registry holds every report in display order.
var registry = []Report{
	{
		Name:        "stipend-breakdown",
		Description: "Holders and dollars per stipend key",
		Run:         stipendBreakdown,
	},
	{
		Name:        "chamber-comparison",
		Description: "Headcount and pay statistics per chamber",
		Run:         chamberComparison,
	},
	{
		Name:        "expense-vs-leadership",
		Description: "Distance bands crossed with stipend holding",
		Run:         expenseVsLeadership,
	},
	{
		Name:        "power-concentration",
		Description: "How concentrated stipend dollars are",
		Run:         powerConcentration,
	},
}

// All returns every registered report.
func All() []Report {
	return registry
}

// Get returns a report by name.
func Get(name string) (Report, error) {
	for _, r := range registry {
		if r.Name == name {
			return r, nil
		}
	}
	return Report{}, errors.New("unknown report " + name)
}

func stipendBreakdown(w io.Writer, records []*compensation.Record) error {
	type row struct {
		holders int
		dollars int64
	}
	byKey := map[string]*row{}
	for _, rec := range records {
		for _, c := range rec.Stipends.Selected {
			r, ok := byKey[string(c.Key)]
			if !ok {
				r = &row{}
				byKey[string(c.Key)] = r
			}
			r.holders++
			r.dollars += c.Amount
		}
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if byKey[keys[i]].dollars != byKey[keys[j]].dollars {
			return byKey[keys[i]].dollars > byKey[keys[j]].dollars
		}
		return keys[i] < keys[j]
	})

	table := tablewriter.NewTable(w)
	table.Header("Stipend", "Holders", "Total $")
	for _, k := range keys {
		if err := table.Append(k, fmt.Sprint(byKey[k].holders), dollars(byKey[k].dollars)); err != nil {
			return err
		}
	}
	return table.Render()
}

func chamberComparison(w io.Writer, records []*compensation.Record) error {
	type stats struct {
		members int
		holders int
		totals  []int64
	}
	byChamber := map[string]*stats{}
	for _, rec := range records {
		s, ok := byChamber[string(rec.Chamber)]
		if !ok {
			s = &stats{}
			byChamber[string(rec.Chamber)] = s
		}
		s.members++
		if rec.HasStipend() {
			s.holders++
		}
		s.totals = append(s.totals, rec.Total)
	}

	chambers := make([]string, 0, len(byChamber))
	for c := range byChamber {
		chambers = append(chambers, c)
	}
	sort.Strings(chambers)

	table := tablewriter.NewTable(w)
	table.Header("Chamber", "Members", "Stipend holders", "Holder %", "Mean $", "Median $")
	for _, c := range chambers {
		s := byChamber[c]
		pct := 100 * float64(s.holders) / float64(s.members)
		if err := table.Append(
			c,
			fmt.Sprint(s.members),
			fmt.Sprint(s.holders),
			fmt.Sprintf("%.1f", pct),
			dollars(int64(math.Round(meanInt64(s.totals)))),
			dollars(int64(math.Round(medianInt64(s.totals)))),
		); err != nil {
			return err
		}
	}
	return table.Render()
}

func expenseVsLeadership(w io.Writer, records []*compensation.Record) error {
	type cell struct {
		holders, plain int
	}
	bands := map[string]*cell{}
	bandName := func(rec *compensation.Record) string {
		if !rec.Banded() {
			return "unbanded"
		}
		return string(rec.Distance.Band)
	}
	for _, rec := range records {
		b := bandName(rec)
		c, ok := bands[b]
		if !ok {
			c = &cell{}
			bands[b] = c
		}
		if rec.HasStipend() {
			c.holders++
		} else {
			c.plain++
		}
	}

	table := tablewriter.NewTable(w)
	table.Header("Band", "Stipend holders", "No stipend")
	for _, b := range []string{string(distance.BandNear), string(distance.BandFar), "unbanded"} {
		c, ok := bands[b]
		if !ok {
			continue
		}
		if err := table.Append(b, fmt.Sprint(c.holders), fmt.Sprint(c.plain)); err != nil {
			return err
		}
	}
	return table.Render()
}

func powerConcentration(w io.Writer, records []*compensation.Record) error {
	var stipendTotal int64
	totals := make([]int64, 0, len(records))
	twoStipends := 0
	for _, rec := range records {
		stipendTotal += rec.StipendTotal
		totals = append(totals, rec.StipendTotal)
		if len(rec.Stipends.Selected) >= 2 {
			twoStipends++
		}
	}
	if len(totals) == 0 {
		return errors.New("no records")
	}

	sort.Slice(totals, func(i, j int) bool { return totals[i] > totals[j] })
	k := (len(totals) + 9) / 10
	var topDecile int64
	for _, v := range totals[:k] {
		topDecile += v
	}

	share := 0.0
	if stipendTotal > 0 {
		share = 100 * float64(topDecile) / float64(stipendTotal)
	}

	table := tablewriter.NewTable(w)
	table.Header("Metric", "Value")
	rows := [][2]string{
		{"Members", fmt.Sprint(len(records))},
		{"Stipend dollars", dollars(stipendTotal)},
		{"Top decile share of stipend dollars", fmt.Sprintf("%.1f%%", share)},
		{"Members at the two-stipend cap", fmt.Sprint(twoStipends)},
	}
	for _, r := range rows {
		if err := table.Append(r[0], r[1]); err != nil {
			return err
		}
	}
	return table.Render()
}

// dollars renders an amount with thousands separators.
func dollars(v int64) string {
	s := fmt.Sprintf("%d", v)
	if v < 0 {
		return "-" + dollars(-v)
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return "$" + s
}

func meanInt64(values []int64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum int64
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

func medianInt64(values []int64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := append([]int64(nil), values...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return float64(sorted[n/2-1]+sorted[n/2]) / 2
}
