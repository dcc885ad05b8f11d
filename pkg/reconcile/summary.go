package reconcile

import (
	"math"
	"sort"
)

// topOutlierCount is how many largest absolute variances the summary
// surfaces for review.
const topOutlierCount = 10

// AnnualizationStats aggregates the records classified as likely
// annualized.
type AnnualizationStats struct {
	Count        int     `json:"count"`
	MedianRatio  float64 `json:"median_ratio"`
	MedianMonths float64 `json:"median_months"`
}

// Summary aggregates a reconciliation result for reporting.
type Summary struct {
	Matched          int `json:"matched"`
	UnmatchedModel   int `json:"unmatched_model"`
	UnmatchedPayroll int `json:"unmatched_payroll"`

	Statuses map[Status]int            `json:"statuses"`
	Chambers map[string]map[Status]int `json:"chambers"`

	// Leadership splits status counts by whether the member holds a
	// large leadership stipend.
	Leadership map[string]map[Status]int `json:"leadership"`

	// LeadershipFlagged counts members holding a large leadership
	// stipend whose status is anything but OK.
	LeadershipFlagged int `json:"leadership_flagged"`

	Annualization AnnualizationStats `json:"annualization"`

	// TopOutliers holds the largest absolute variances, descending.
	TopOutliers []VarianceRecord `json:"top_outliers"`
}

// Leadership breakdown group names.
const (
	groupLeadership  = "leadership"
	groupRankAndFile = "rank_and_file"
)

// Summarize aggregates a reconciliation result.
func Summarize(result *Result) *Summary {
	s := &Summary{
		Matched:          len(result.Variances),
		UnmatchedModel:   len(result.UnmatchedModel),
		UnmatchedPayroll: len(result.UnmatchedPayroll),
		Statuses:         map[Status]int{},
		Chambers:         map[string]map[Status]int{},
		Leadership:       map[string]map[Status]int{},
	}

	var ratios, months []float64
	for _, v := range result.Variances {
		s.Statuses[v.Status]++

		if s.Chambers[v.Chamber] == nil {
			s.Chambers[v.Chamber] = map[Status]int{}
		}
		s.Chambers[v.Chamber][v.Status]++

		group := groupRankAndFile
		if v.StipendTotal >= leadershipStipend {
			group = groupLeadership
			if v.Status != StatusOK {
				s.LeadershipFlagged++
			}
		}
		if s.Leadership[group] == nil {
			s.Leadership[group] = map[Status]int{}
		}
		s.Leadership[group][v.Status]++

		if v.Status == StatusLikelyAnnualized {
			s.Annualization.Count++
			ratios = append(ratios, v.Ratio)
			months = append(months, v.Months)
		}
	}
	s.Annualization.MedianRatio = medianFloat(ratios)
	s.Annualization.MedianMonths = medianFloat(months)

	if n := s.UnmatchedModel + s.UnmatchedPayroll; n > 0 {
		s.Statuses[StatusNoMatch] = n
	}

	outliers := append([]VarianceRecord(nil), result.Variances...)
	sort.Slice(outliers, func(i, j int) bool {
		ai, aj := math.Abs(outliers[i].Variance), math.Abs(outliers[j].Variance)
		if ai != aj {
			return ai > aj
		}
		return outliers[i].Key < outliers[j].Key
	})
	if len(outliers) > topOutlierCount {
		outliers = outliers[:topOutlierCount]
	}
	s.TopOutliers = outliers

	return s
}

// medianFloat returns the middle value, interpolating an even count.
func medianFloat(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
