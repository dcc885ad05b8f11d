package compensation

import (
	"fmt"
	"sort"

	"github.com/agentstation/utc"

	"github.com/beaconpay/beaconpay/pkg/distance"
)

// ChamberSummary aggregates one chamber's records.
type ChamberSummary struct {
	Members        int     `json:"members"`
	StipendHolders int     `json:"stipend_holders"`
	MedianTotal    float64 `json:"median_total"`
	MeanTotal      float64 `json:"mean_total"`
}

// Components breaks the run's dollars down by pay component.
type Components struct {
	BaseSalary int64 `json:"base_salary"`
	Expense    int64 `json:"expense"`
	Stipends   int64 `json:"stipends"`
	Grand      int64 `json:"grand_total"`
}

// BandStats aggregates one expense band: how many members landed in it
// and the expense dollars it paid out.
type BandStats struct {
	Count   int   `json:"count"`
	Expense int64 `json:"expense"`
}

// Summary aggregates one run. Members that failed banding are excluded
// from the band counts but included everywhere else.
type Summary struct {
	RunID       string   `json:"run_id"`
	Cycle       string   `json:"cycle"`
	GeneratedAt utc.Time `json:"generated_at"`

	Members          int     `json:"members"`
	Banded           int     `json:"banded"`
	StipendHolders   int     `json:"stipend_holders"`
	StipendHolderPct float64 `json:"stipend_holder_pct"`

	Components Components           `json:"components"`
	Bands      map[string]BandStats `json:"bands"`

	MedianTotal     float64 `json:"median_total"`
	TopDecileMean   float64 `json:"top_decile_mean"`
	UnmappedRoles   int     `json:"unmapped_roles"`
	BandingFailures int     `json:"banding_failures"`

	Chambers map[string]ChamberSummary `json:"chambers"`

	// Notes carries the run's degradations in human-readable form.
	Notes []string `json:"notes,omitempty"`
}

// Summarize aggregates a run into a Summary.
func Summarize(run *Run) *Summary {
	s := &Summary{
		RunID:           run.RunID,
		Cycle:           run.Cycle,
		GeneratedAt:     run.GeneratedAt,
		Members:         len(run.Records),
		Bands:           map[string]BandStats{},
		UnmappedRoles:   len(run.UnmappedRoles),
		BandingFailures: len(run.BandingErrors),
		Chambers:        map[string]ChamberSummary{},
	}

	totals := make([]int64, 0, len(run.Records))
	chamberTotals := map[string][]int64{}

	for _, rec := range run.Records {
		totals = append(totals, rec.Total)
		s.Components.BaseSalary += rec.BaseSalary
		s.Components.Expense += rec.Expense
		s.Components.Stipends += rec.StipendTotal
		s.Components.Grand += rec.Total

		if rec.Banded() {
			s.Banded++
			bs := s.Bands[string(rec.Distance.Band)]
			bs.Count++
			bs.Expense += rec.Expense
			s.Bands[string(rec.Distance.Band)] = bs
		}

		ch := string(rec.Chamber)
		cs := s.Chambers[ch]
		cs.Members++
		if rec.HasStipend() {
			s.StipendHolders++
			cs.StipendHolders++
		}
		s.Chambers[ch] = cs
		chamberTotals[ch] = append(chamberTotals[ch], rec.Total)
	}

	if s.Members > 0 {
		s.StipendHolderPct = 100 * float64(s.StipendHolders) / float64(s.Members)
	}
	s.MedianTotal = median(totals)
	s.TopDecileMean = topDecileMean(totals)

	for ch, cs := range s.Chambers {
		values := chamberTotals[ch]
		cs.MedianTotal = median(values)
		cs.MeanTotal = mean(values)
		s.Chambers[ch] = cs
	}

	if s.BandingFailures > 0 {
		s.Notes = append(s.Notes, fmt.Sprintf("%d member(s) could not be banded; their expense allowance is omitted from totals", s.BandingFailures))
	}
	if s.UnmappedRoles > 0 {
		s.Notes = append(s.Notes, fmt.Sprintf("%d leadership title(s) had no stipend mapping", s.UnmappedRoles))
	}

	return s
}

// BandFor returns the count of records in a band.
func (s *Summary) BandFor(band distance.Band) int {
	return s.Bands[string(band)].Count
}

// median returns the middle value of the inputs; for an even count it
// interpolates the two middle values.
func median(values []int64) float64 {
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

// topDecileMean averages the largest tenth of the inputs, rounding the
// decile size up so small rosters still report a value.
func topDecileMean(values []int64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := append([]int64(nil), values...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] > sorted[j] })
	k := (n + 9) / 10
	return mean(sorted[:k])
}

func mean(values []int64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum int64
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}
