package reconcile

import (
	"github.com/rs/zerolog"

	"github.com/beaconpay/beaconpay/pkg/compensation"
	"github.com/beaconpay/beaconpay/pkg/errors"
	"github.com/beaconpay/beaconpay/pkg/logging"
	"github.com/beaconpay/beaconpay/pkg/names"
)

// VarianceRecord is one member's classified variance. Everything a
// reviewer needs to audit the classification travels with the record.
type VarianceRecord struct {
	MemberID string   `json:"member_id"`
	Name     string   `json:"name"`
	Chamber  string   `json:"chamber"`
	District string   `json:"district"`
	Key      string   `json:"join_key"`

	Model        int64   `json:"model_total"`
	Actual       float64 `json:"actual_pay"`
	Variance     float64 `json:"variance"`
	Ratio        float64 `json:"ratio"`
	PctOfModel   float64 `json:"pct_of_model"`
	Months       float64 `json:"months_equivalent"`
	StipendTotal int64   `json:"stipend_total"`

	MultiAgency bool     `json:"multi_agency"`
	Agencies    []string `json:"agencies,omitempty"`

	Status      Status `json:"status"`
	Explanation string `json:"explanation"`
}

// Result is a full reconciliation: every classified variance plus the
// records that found no counterpart.
type Result struct {
	Variances        []VarianceRecord     `json:"variances"`
	UnmatchedModel   []*errors.MatchError `json:"-"`
	UnmatchedPayroll []*errors.MatchError `json:"-"`
}

// Reconciler joins and classifies. Construct with NewReconciler.
type Reconciler struct {
	matcher    *Matcher
	classifier *Classifier
	logger     zerolog.Logger
}

// NewReconciler builds a Reconciler over a name normalizer and the
// default decision table.
func NewReconciler(n *names.Normalizer) *Reconciler {
	return &Reconciler{
		matcher:    NewMatcher(n),
		classifier: NewClassifier(),
		logger:     *logging.Default(),
	}
}

// Reconcile joins modeled records against payroll and classifies every
// match. Variances come back in join-key order.
func (r *Reconciler) Reconcile(model []*compensation.Record, payroll []PayrollRecord) *Result {
	set := r.matcher.Join(model, payroll)

	result := &Result{
		Variances:        make([]VarianceRecord, 0, len(set.Matches)),
		UnmatchedModel:   set.UnmatchedModel,
		UnmatchedPayroll: set.UnmatchedPayroll,
	}

	for _, match := range set.Matches {
		result.Variances = append(result.Variances, classify(r.classifier, match))
	}

	r.logger.Info().
		Int("matched", len(result.Variances)).
		Int("unmatched_model", len(result.UnmatchedModel)).
		Int("unmatched_payroll", len(result.UnmatchedPayroll)).
		Msg("reconciliation complete")

	return result
}

func classify(c *Classifier, match Match) VarianceRecord {
	e := NewEvidence(match.Model, match.Payroll)
	status, explanation := c.Classify(e)

	return VarianceRecord{
		MemberID:     match.Model.MemberID,
		Name:         match.Model.Name,
		Chamber:      string(match.Model.Chamber),
		District:     match.Model.District,
		Key:          match.Key,
		Model:        e.Model,
		Actual:       e.Actual,
		Variance:     e.Variance,
		Ratio:        e.Ratio,
		PctOfModel:   e.Pct,
		Months:       e.Months,
		StipendTotal: e.StipendTotal,
		MultiAgency:  e.MultiAgency,
		Agencies:     match.Payroll.Agencies,
		Status:       status,
		Explanation:  explanation,
	}
}
