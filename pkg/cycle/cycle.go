// Package cycle resolves the dollar amounts in effect for one biennial
// pay cycle. A cycle configuration carries a baseline-year amount table
// and a chronological history of percentage adjustments; resolution
// multiplies the baseline by the cumulative adjustment factor for every
// amount category flagged as adjustable.
//
// Rounding convention: the cumulative factor is accumulated at full
// float64 precision and each amount is rounded once, at the end, to the
// nearest whole dollar with ties away from zero. Rounding after each
// adjustment step would drift by a few dollars over a multi-step
// history; the single-rounding convention is the documented choice.
package cycle

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/beaconpay/beaconpay/pkg/errors"
)

// Band keys for the two travel-distance expense bands.
const (
	BandNear = "LE50"
	BandFar  = "GT50"
)

// Adjustment is one percentage adjustment applied to the baseline,
// effective from the given year.
type Adjustment struct {
	Year    int     `json:"year"`
	Percent float64 `json:"percent"`
}

// Factor returns the multiplicative factor for this adjustment.
func (a Adjustment) Factor() float64 {
	return 1 + a.Percent/100
}

// Baseline is the baseline-year amount table. All amounts are whole
// dollars.
type Baseline struct {
	BaseSalary   int64            `json:"base_salary"`
	ExpenseBands map[string]int64 `json:"expense_bands"`
	Stipends     map[string]int64 `json:"stipends"`
}

// AppliesTo flags which amount categories the cumulative adjustment
// applies to. Unflagged categories keep their baseline amounts.
type AppliesTo struct {
	BaseSalary   bool `json:"base_salary"`
	ExpenseBands bool `json:"expense_bands"`
	Stipends     bool `json:"stipends"`
}

// Config is the on-disk cycle configuration. Immutable once loaded.
type Config struct {
	Cycle             string       `json:"cycle"`
	EffectiveDate     string       `json:"effective_date"`
	AdjustmentHistory []Adjustment `json:"adjustment_history"`
	AmountsBaseline   Baseline     `json:"amounts_baseline"`
	AppliesTo         AppliesTo    `json:"applies_to"`
	TierACommittees   []string     `json:"tier_a_committees"`
}

// Resolved is a cycle configuration with all amounts resolved to the
// dollars in effect for the cycle.
type Resolved struct {
	Cycle           string
	EffectiveDate   time.Time
	Factor          float64
	BaseSalary      int64
	ExpenseBands    map[string]int64
	Stipends        map[string]int64
	TierACommittees []string
}

// Load reads and validates a cycle configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError("cycle", "cannot read "+path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.NewConfigError("cycle", "cannot parse "+path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the three mandatory amount groups are present
// and that every adjustment has a positive factor. Any failure here is
// fatal: a partial amount table would produce totals that look right
// and are wrong.
func (c *Config) Validate() error {
	if c.AmountsBaseline.BaseSalary <= 0 {
		return errors.NewConfigError("cycle", "baseline base_salary missing or non-positive", nil)
	}
	if len(c.AmountsBaseline.ExpenseBands) == 0 {
		return errors.NewConfigError("cycle", "baseline expense_bands table missing", nil)
	}
	for _, band := range []string{BandNear, BandFar} {
		if _, ok := c.AmountsBaseline.ExpenseBands[band]; !ok {
			return errors.NewConfigError("cycle", fmt.Sprintf("expense band %s missing", band), nil)
		}
	}
	if len(c.AmountsBaseline.Stipends) == 0 {
		return errors.NewConfigError("cycle", "baseline stipend table missing", nil)
	}
	for _, adj := range c.AdjustmentHistory {
		if adj.Factor() <= 0 {
			return errors.NewConfigError("cycle",
				fmt.Sprintf("adjustment for year %d has non-positive factor %.4f", adj.Year, adj.Factor()), nil)
		}
	}
	if _, err := c.effectiveTime(); err != nil {
		return errors.NewConfigError("cycle", "bad effective_date "+c.EffectiveDate, err)
	}
	return nil
}

// Resolve applies the cumulative adjustment and returns the concrete
// amounts for the cycle.
func (c *Config) Resolve() (*Resolved, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	effective, _ := c.effectiveTime()
	factor := 1.0
	for _, adj := range c.AdjustmentHistory {
		if adj.Year <= effective.Year() {
			factor *= adj.Factor()
		}
	}

	r := &Resolved{
		Cycle:           c.Cycle,
		EffectiveDate:   effective,
		Factor:          factor,
		BaseSalary:      c.AmountsBaseline.BaseSalary,
		ExpenseBands:    make(map[string]int64, len(c.AmountsBaseline.ExpenseBands)),
		Stipends:        make(map[string]int64, len(c.AmountsBaseline.Stipends)),
		TierACommittees: append([]string(nil), c.TierACommittees...),
	}

	if c.AppliesTo.BaseSalary {
		r.BaseSalary = adjust(c.AmountsBaseline.BaseSalary, factor)
	}
	for band, amount := range c.AmountsBaseline.ExpenseBands {
		if c.AppliesTo.ExpenseBands {
			r.ExpenseBands[band] = adjust(amount, factor)
		} else {
			r.ExpenseBands[band] = amount
		}
	}
	for key, amount := range c.AmountsBaseline.Stipends {
		if c.AppliesTo.Stipends {
			r.Stipends[key] = adjust(amount, factor)
		} else {
			r.Stipends[key] = amount
		}
	}

	return r, nil
}

// ExpenseForBand returns the expense stipend for a band key, or zero
// for an unknown band.
func (r *Resolved) ExpenseForBand(band string) int64 {
	return r.ExpenseBands[band]
}

// adjust multiplies a whole-dollar amount by the cumulative factor and
// rounds to the nearest dollar, ties away from zero.
func adjust(amount int64, factor float64) int64 {
	return int64(math.Round(float64(amount) * factor))
}

func (c *Config) effectiveTime() (time.Time, error) {
	return time.Parse("2006-01-02", c.EffectiveDate)
}
