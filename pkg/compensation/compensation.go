// Package compensation computes the modeled annual compensation for
// every member of a roster: base salary from the resolved cycle, an
// expense stipend from the distance band, and up to two role stipends.
// The computation is pure given its inputs; runs over the same roster
// and cycle produce identical records apart from the run metadata.
package compensation

import (
	"sort"

	"github.com/agentstation/utc"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/beaconpay/beaconpay/pkg/cycle"
	"github.com/beaconpay/beaconpay/pkg/distance"
	"github.com/beaconpay/beaconpay/pkg/errors"
	"github.com/beaconpay/beaconpay/pkg/legislature"
	"github.com/beaconpay/beaconpay/pkg/logging"
	"github.com/beaconpay/beaconpay/pkg/stipend"
)

// Record is one member's modeled compensation. Dollar amounts are whole
// dollars.
type Record struct {
	MemberID string              `json:"member_id"`
	Name     string              `json:"name"`
	Chamber  legislature.Chamber `json:"chamber"`
	District string              `json:"district"`
	Party    string              `json:"party"`
	Locality string              `json:"locality,omitempty"`

	// Distance is nil when banding failed; the expense stipend is then
	// zero and the member is excluded from distance aggregates.
	Distance *distance.Result `json:"distance,omitempty"`

	Stipends stipend.Selection `json:"stipends"`

	BaseSalary   int64 `json:"base_salary"`
	Expense      int64 `json:"expense"`
	StipendTotal int64 `json:"stipend_total"`
	Total        int64 `json:"total"`
}

// HasStipend reports whether the member receives any role stipend.
func (r *Record) HasStipend() bool {
	return r.Stipends.HasStipend()
}

// Banded reports whether a distance band was resolved for the member.
func (r *Record) Banded() bool {
	return r.Distance != nil
}

// Run is the output of one full computation: every record plus the
// per-member diagnostics collected along the way.
type Run struct {
	RunID       string    `json:"run_id"`
	Cycle       string    `json:"cycle"`
	GeneratedAt utc.Time  `json:"generated_at"`
	Records     []*Record `json:"records"`

	// BandingErrors holds the members excluded from distance
	// aggregates. The run continues past them.
	BandingErrors []*errors.BandingError `json:"-"`

	// UnmappedRoles holds role assignments that resolved to no stipend.
	UnmappedRoles []*errors.UnmappedRoleError `json:"-"`
}

// Engine computes compensation records. Construct with NewEngine.
type Engine struct {
	resolved *cycle.Resolved
	bander   *distance.Bander
	selector *stipend.Selector
	now      func() utc.Time
	newRunID func() string
	logger   zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock, for reproducible run metadata.
func WithClock(now func() utc.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRunID replaces the run identifier generator.
func WithRunID(gen func() string) Option {
	return func(e *Engine) { e.newRunID = gen }
}

// WithLogger sets the engine logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine builds an engine over a resolved cycle, a distance bander,
// and a stipend selector.
func NewEngine(resolved *cycle.Resolved, bander *distance.Bander, selector *stipend.Selector, opts ...Option) *Engine {
	e := &Engine{
		resolved: resolved,
		bander:   bander,
		selector: selector,
		now:      utc.Now,
		newRunID: uuid.NewString,
		logger:   *logging.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compute returns the compensation record for a single member. A
// banding failure is returned alongside the record, not instead of it:
// the member still receives base salary and stipends, only the expense
// component is zero.
func (e *Engine) Compute(m legislature.Member) (*Record, error) {
	rec := &Record{
		MemberID:   m.ID,
		Name:       m.Name,
		Chamber:    m.Chamber,
		District:   m.District,
		Party:      m.Party,
		Locality:   m.Locality,
		BaseSalary: e.resolved.BaseSalary,
	}

	var bandErr error
	result, err := e.bander.Band(m)
	if err != nil {
		bandErr = err
	} else {
		rec.Distance = &result
		rec.Expense = e.resolved.ExpenseForBand(string(result.Band))
	}

	rec.Stipends = e.selector.Select(m)
	rec.StipendTotal = rec.Stipends.Total
	rec.Total = rec.BaseSalary + rec.Expense + rec.StipendTotal

	return rec, bandErr
}

// ComputeAll computes records for every roster member in member-ID
// order and collects diagnostics. Only configuration problems abort a
// run; banding failures and unmapped roles are recorded and the run
// continues.
func (e *Engine) ComputeAll(roster *legislature.Roster) (*Run, error) {
	if e.resolved == nil {
		return nil, errors.NewConfigError("engine", "no resolved cycle", nil)
	}

	run := &Run{
		RunID:       e.newRunID(),
		Cycle:       e.resolved.Cycle,
		GeneratedAt: e.now(),
		Records:     make([]*Record, 0, len(roster.Members)),
	}

	members := append([]legislature.Member(nil), roster.Members...)
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })

	for _, m := range members {
		rec, err := e.Compute(m)
		if err != nil {
			var berr *errors.BandingError
			if errors.AsBanding(err, &berr) {
				run.BandingErrors = append(run.BandingErrors, berr)
				e.logger.Warn().
					Str("member_id", m.ID).
					Str("district", m.District).
					Msg("distance band unresolved, expense component zeroed")
			} else {
				return nil, err
			}
		}
		run.UnmappedRoles = append(run.UnmappedRoles, rec.Stipends.Unmapped...)
		run.Records = append(run.Records, rec)
	}

	e.logger.Info().
		Str("run_id", run.RunID).
		Int("members", len(run.Records)).
		Int("banding_errors", len(run.BandingErrors)).
		Int("unmapped_roles", len(run.UnmappedRoles)).
		Msg("compensation computed")

	return run, nil
}
