package reconcile

import (
	"fmt"
	"math"

	"github.com/beaconpay/beaconpay/pkg/compensation"
)

// Status classifies one member's variance between modeled and actual
// pay.
type Status string

// Status values, in rule-evaluation order. StatusNoMatch applies only
// to records that never reached the decision table.
const (
	StatusOK                  Status = "OK"
	StatusPartialOrRoleChange Status = "PARTIAL_OR_ROLE_CHANGE"
	StatusLikelyAnnualized    Status = "LIKELY_ANNUALIZED"
	StatusPartialYear         Status = "INVESTIGATE_PARTIAL_YEAR"
	StatusLeadership          Status = "INVESTIGATE_LEADERSHIP"
	StatusOverpayment         Status = "INVESTIGATE_OVERPAYMENT"
	StatusInvestigate         Status = "INVESTIGATE"
	StatusNoMatch             Status = "NO_MATCH"
)

// Classification thresholds, all in dollars or ratios of actual to
// modeled pay.
const (
	okVarianceMax      = 1500.0
	minorVarianceMax   = 10000.0
	annualizedRatioMin = 0.75
	annualizedRatioMax = 0.90 // exclusive: 0.90 exactly falls through
	partialYearRatio   = 0.50
	leadershipStipend  = 50000
	leadershipRatioMin = 0.60
	leadershipRatioMax = 0.75
	overpaymentRatio   = 1.10
	monthsPerYear      = 12
)

// Evidence is the derived quantities the decision table evaluates.
type Evidence struct {
	Model        int64
	Actual       float64
	Variance     float64 // modeled minus actual
	Ratio        float64 // actual over modeled
	Pct          float64 // actual as a percent of modeled pay
	Months       float64 // ratio expressed as months of a full year
	MultiAgency  bool
	StipendTotal int64
}

// NewEvidence derives the classification quantities for a match.
func NewEvidence(model *compensation.Record, payroll *PayrollRecord) Evidence {
	e := Evidence{
		Model:        model.Total,
		Actual:       payroll.Pay,
		Variance:     float64(model.Total) - payroll.Pay,
		MultiAgency:  payroll.MultiAgency(),
		StipendTotal: model.StipendTotal,
	}
	if model.Total > 0 {
		e.Ratio = payroll.Pay / float64(model.Total)
		e.Pct = e.Ratio * 100
		e.Months = e.Ratio * monthsPerYear
	}
	return e
}

// Rule is one row of the decision table.
type Rule struct {
	Status  Status
	Applies func(Evidence) bool
	Explain func(Evidence) string
}

// DefaultRules returns the decision table. Order is significant: the
// first rule whose predicate holds decides the status, so a small
// variance is OK even when the ratio would also satisfy a later rule.
func DefaultRules() []Rule {
	return []Rule{
		{
			Status:  StatusOK,
			Applies: func(e Evidence) bool { return math.Abs(e.Variance) < okVarianceMax },
			Explain: func(e Evidence) string {
				return fmt.Sprintf("actual pay within $%.0f of model", okVarianceMax)
			},
		},
		{
			Status: StatusPartialOrRoleChange,
			Applies: func(e Evidence) bool {
				return math.Abs(e.Variance) < minorVarianceMax || e.MultiAgency
			},
			Explain: func(e Evidence) string {
				if e.MultiAgency {
					return "paid by multiple agencies, consistent with a mid-year role change"
				}
				return fmt.Sprintf("variance $%.0f is within the partial-adjustment window", math.Abs(e.Variance))
			},
		},
		{
			Status: StatusLikelyAnnualized,
			Applies: func(e Evidence) bool {
				return e.Ratio >= annualizedRatioMin && e.Ratio < annualizedRatioMax
			},
			Explain: func(e Evidence) string {
				return fmt.Sprintf("actual pay is %.1f months of the modeled year, consistent with a late start or annualization lag", e.Months)
			},
		},
		{
			Status:  StatusPartialYear,
			Applies: func(e Evidence) bool { return e.Ratio < partialYearRatio },
			Explain: func(e Evidence) string {
				return fmt.Sprintf("actual pay covers only %.1f months of the modeled year", e.Months)
			},
		},
		{
			Status: StatusLeadership,
			Applies: func(e Evidence) bool {
				return e.StipendTotal >= leadershipStipend &&
					e.Ratio >= leadershipRatioMin && e.Ratio < leadershipRatioMax
			},
			Explain: func(e Evidence) string {
				return fmt.Sprintf("large leadership stipend ($%d) with %.1f months of actual pay; stipend may not have been disbursed", e.StipendTotal, e.Months)
			},
		},
		{
			Status:  StatusOverpayment,
			Applies: func(e Evidence) bool { return e.Ratio > overpaymentRatio },
			Explain: func(e Evidence) string {
				return fmt.Sprintf("actual pay exceeds model by %.1f%%", (e.Ratio-1)*100)
			},
		},
		{
			Status:  StatusInvestigate,
			Applies: func(Evidence) bool { return true },
			Explain: func(e Evidence) string {
				return fmt.Sprintf("variance $%.0f matches no known pattern", math.Abs(e.Variance))
			},
		},
	}
}

// Classifier runs an ordered decision table.
type Classifier struct {
	rules []Rule
}

// NewClassifier returns a Classifier over the default decision table.
func NewClassifier() *Classifier {
	return &Classifier{rules: DefaultRules()}
}

// Classify returns the status and explanation for a piece of evidence.
// The table always terminates: the final rule matches everything.
func (c *Classifier) Classify(e Evidence) (Status, string) {
	for _, rule := range c.rules {
		if rule.Applies(e) {
			return rule.Status, rule.Explain(e)
		}
	}
	return StatusInvestigate, "no rule matched"
}
