package cycle

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/beaconpay/beaconpay/pkg/errors"
)

func validConfig() *Config {
	return &Config{
		Cycle:         "2025-2026",
		EffectiveDate: "2025-01-01",
		AdjustmentHistory: []Adjustment{
			{Year: 2017, Percent: 5.93},
			{Year: 2019, Percent: 6.46},
			{Year: 2021, Percent: 4.41},
			{Year: 2023, Percent: 11.39},
		},
		AmountsBaseline: Baseline{
			BaseSalary:   62548,
			ExpenseBands: map[string]int64{BandNear: 15000, BandFar: 20000},
			Stipends: map[string]int64{
				"SPEAKER":                80000,
				"WAYS_MEANS_CHAIR":       65000,
				"COMMITTEE_CHAIR_TIER_B": 15000,
			},
		},
		AppliesTo: AppliesTo{BaseSalary: true},
	}
}

func TestResolveCumulativeFactor(t *testing.T) {
	cfg := validConfig()
	resolved, err := cfg.Resolve()
	require.NoError(t, err)

	// 1.0593 * 1.0646 * 1.0441 * 1.1139
	assert.InDelta(t, 1.31158, resolved.Factor, 0.0001)

	// Single rounding at the end: 62548 * 1.311577 = 82036.51 -> 82037.
	assert.Equal(t, int64(82037), resolved.BaseSalary)
}

func TestResolveAppliesOnlyToFlaggedCategories(t *testing.T) {
	cfg := validConfig()
	resolved, err := cfg.Resolve()
	require.NoError(t, err)

	// Expense bands and stipends are not flagged adjustable.
	assert.Equal(t, int64(15000), resolved.ExpenseBands[BandNear])
	assert.Equal(t, int64(20000), resolved.ExpenseBands[BandFar])
	assert.Equal(t, int64(80000), resolved.Stipends["SPEAKER"])
}

func TestResolveAdjustsStipendsWhenFlagged(t *testing.T) {
	cfg := validConfig()
	cfg.AppliesTo.Stipends = true
	cfg.AdjustmentHistory = []Adjustment{{Year: 2023, Percent: 10}}

	resolved, err := cfg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, int64(88000), resolved.Stipends["SPEAKER"])
	assert.Equal(t, int64(71500), resolved.Stipends["WAYS_MEANS_CHAIR"])
}

func TestResolveIgnoresFutureAdjustments(t *testing.T) {
	cfg := validConfig()
	cfg.AdjustmentHistory = append(cfg.AdjustmentHistory, Adjustment{Year: 2027, Percent: 50})

	resolved, err := cfg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, int64(82037), resolved.BaseSalary, "adjustment after the effective year must not apply")
}

func TestValidateMissingGroups(t *testing.T) {
	t.Run("missing base salary", func(t *testing.T) {
		cfg := validConfig()
		cfg.AmountsBaseline.BaseSalary = 0
		err := cfg.Validate()
		assert.True(t, pkgerrors.IsConfig(err))
	})

	t.Run("missing expense bands", func(t *testing.T) {
		cfg := validConfig()
		cfg.AmountsBaseline.ExpenseBands = nil
		assert.True(t, pkgerrors.IsConfig(cfg.Validate()))
	})

	t.Run("missing far band", func(t *testing.T) {
		cfg := validConfig()
		delete(cfg.AmountsBaseline.ExpenseBands, BandFar)
		assert.True(t, pkgerrors.IsConfig(cfg.Validate()))
	})

	t.Run("missing stipend table", func(t *testing.T) {
		cfg := validConfig()
		cfg.AmountsBaseline.Stipends = nil
		assert.True(t, pkgerrors.IsConfig(cfg.Validate()))
	})
}

func TestValidateNonPositiveFactor(t *testing.T) {
	cfg := validConfig()
	cfg.AdjustmentHistory = []Adjustment{{Year: 2020, Percent: -100}}
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, pkgerrors.IsConfig(err))
	assert.Contains(t, err.Error(), "non-positive factor")
}

func TestValidateBadEffectiveDate(t *testing.T) {
	cfg := validConfig()
	cfg.EffectiveDate = "January 2025"
	assert.True(t, pkgerrors.IsConfig(cfg.Validate()))
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join("testdata", "cycle.json")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "2025-2026", cfg.Cycle)
	resolved, err := cfg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, int64(82037), resolved.BaseSalary)
	assert.Equal(t, int64(80000), resolved.Stipends["SENATE_PRESIDENT"])
	assert.Contains(t, resolved.TierACommittees, "House Committee on Rules")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "absent.json"))
	assert.True(t, pkgerrors.IsConfig(err))
}

func TestExpenseForBand(t *testing.T) {
	resolved, err := validConfig().Resolve()
	require.NoError(t, err)
	assert.Equal(t, int64(20000), resolved.ExpenseForBand(BandFar))
	assert.Zero(t, resolved.ExpenseForBand("UNKNOWN"))
}
