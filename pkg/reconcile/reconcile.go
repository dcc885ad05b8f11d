// Package reconcile joins modeled compensation against actual payroll
// disbursements and classifies each variance. Matching is by normalized
// name key; classification runs an ordered decision table where the
// first matching rule wins. Records with no counterpart on the other
// side are never dropped silently: they surface as unmatched entries
// with their own status.
package reconcile

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/beaconpay/beaconpay/pkg/compensation"
	"github.com/beaconpay/beaconpay/pkg/errors"
	"github.com/beaconpay/beaconpay/pkg/logging"
	"github.com/beaconpay/beaconpay/pkg/names"
)

// PayrollRecord is one person's actual pay for a calendar year,
// aggregated across every agency that paid them.
type PayrollRecord struct {
	First    string   `json:"first"`
	Last     string   `json:"last"`
	Pay      float64  `json:"pay"`
	Agencies []string `json:"agencies"`
	Year     int      `json:"year"`
}

// Name returns the displayable "First Last" form.
func (p *PayrollRecord) Name() string {
	return p.First + " " + p.Last
}

// MultiAgency reports whether more than one agency paid this person,
// which usually means a mid-year transfer or a shared appointment.
func (p *PayrollRecord) MultiAgency() bool {
	return len(p.Agencies) > 1
}

// Match pairs a modeled record with its payroll counterpart.
type Match struct {
	Key     string
	Model   *compensation.Record
	Payroll *PayrollRecord
}

// MatchSet is the outcome of joining the two sides.
type MatchSet struct {
	Matches          []Match
	UnmatchedModel   []*errors.MatchError
	UnmatchedPayroll []*errors.MatchError
}

// Matcher joins modeled and payroll records by normalized name key.
type Matcher struct {
	normalizer *names.Normalizer
	logger     zerolog.Logger
}

// NewMatcher builds a Matcher over a name normalizer.
func NewMatcher(n *names.Normalizer) *Matcher {
	return &Matcher{normalizer: n, logger: *logging.Default()}
}

// Join matches every modeled record to a payroll record. Payroll
// records that collapse to the same key are merged first: summed pay,
// union of agencies. Output slices are sorted by key so runs are
// reproducible.
func (m *Matcher) Join(model []*compensation.Record, payroll []PayrollRecord) *MatchSet {
	byKey := make(map[string]*PayrollRecord, len(payroll))
	for i := range payroll {
		p := payroll[i]
		key := m.normalizer.KeyParts(p.First, p.Last)
		if key == "" {
			continue
		}
		if existing, ok := byKey[key]; ok {
			existing.Pay += p.Pay
			existing.Agencies = mergeAgencies(existing.Agencies, p.Agencies)
			continue
		}
		merged := p
		merged.Agencies = append([]string(nil), p.Agencies...)
		byKey[key] = &merged
	}

	set := &MatchSet{}
	claimed := make(map[string]bool, len(byKey))

	for _, rec := range model {
		key := m.normalizer.Key(rec.Name)
		p, ok := byKey[key]
		if !ok {
			set.UnmatchedModel = append(set.UnmatchedModel, &errors.MatchError{
				Side: "payroll", Name: rec.Name, Key: key,
			})
			m.logger.Debug().Str("member", rec.Name).Str("key", key).Msg("no payroll counterpart")
			continue
		}
		claimed[key] = true
		set.Matches = append(set.Matches, Match{Key: key, Model: rec, Payroll: p})
	}

	for key, p := range byKey {
		if !claimed[key] {
			set.UnmatchedPayroll = append(set.UnmatchedPayroll, &errors.MatchError{
				Side: "model", Name: p.Name(), Key: key,
			})
		}
	}

	sort.Slice(set.Matches, func(i, j int) bool { return set.Matches[i].Key < set.Matches[j].Key })
	sort.Slice(set.UnmatchedModel, func(i, j int) bool { return set.UnmatchedModel[i].Key < set.UnmatchedModel[j].Key })
	sort.Slice(set.UnmatchedPayroll, func(i, j int) bool { return set.UnmatchedPayroll[i].Key < set.UnmatchedPayroll[j].Key })

	return set
}

func mergeAgencies(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, s := range append(append([]string(nil), a...), b...) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
