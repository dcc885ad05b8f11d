package compensation

import (
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beaconpay/beaconpay/pkg/cycle"
	"github.com/beaconpay/beaconpay/pkg/distance"
	"github.com/beaconpay/beaconpay/pkg/legislature"
	"github.com/beaconpay/beaconpay/pkg/logging"
	"github.com/beaconpay/beaconpay/pkg/stipend"
)

var testLocalities = distance.Localities{
	"Boston":      {Lat: 42.3601, Lon: -71.0589},
	"Springfield": {Lat: 42.1015, Lon: -72.5898},
}

func testResolved(t *testing.T) *cycle.Resolved {
	t.Helper()
	cfg := &cycle.Config{
		Cycle:         "2025-2026",
		EffectiveDate: "2025-01-01",
		AdjustmentHistory: []cycle.Adjustment{
			{Year: 2017, Percent: 5.93},
			{Year: 2019, Percent: 6.46},
			{Year: 2021, Percent: 4.41},
			{Year: 2023, Percent: 11.39},
		},
		AmountsBaseline: cycle.Baseline{
			BaseSalary:   62548,
			ExpenseBands: map[string]int64{cycle.BandNear: 15000, cycle.BandFar: 20000},
			Stipends: map[string]int64{
				"SPEAKER":                80000,
				"WHIP":                   35000,
				"WAYS_MEANS_CHAIR":       65000,
				"COMMITTEE_CHAIR_TIER_B": 15000,
			},
		},
		AppliesTo: cycle.AppliesTo{BaseSalary: true},
	}
	resolved, err := cfg.Resolve()
	require.NoError(t, err)
	return resolved
}

func testEngine(t *testing.T) *Engine {
	t.Helper()
	resolved := testResolved(t)
	tiers := stipend.NewTiers(map[string]stipend.SpecialKeys{
		"House Committee on Ways and Means": {Chair: stipend.KeyWaysMeansChair, ViceChair: stipend.KeyWaysMeansViceChair},
	}, nil, nil)

	fixed := utc.Time{Time: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)}
	return NewEngine(
		resolved,
		&distance.Bander{Localities: testLocalities},
		&stipend.Selector{Table: stipend.NewTable(resolved), Tiers: tiers},
		WithClock(func() utc.Time { return fixed }),
		WithRunID(func() string { return "run-1" }),
		WithLogger(logging.Nop),
	)
}

func testRoster() *legislature.Roster {
	return &legislature.Roster{
		Session: 194,
		Members: []legislature.Member{
			{
				ID: "S1", Name: "Speaker Example", Chamber: legislature.ChamberHouse,
				District: "3rd Suffolk", Party: "Democrat", Locality: "Springfield",
				Roles: []legislature.RoleAssignment{
					{Role: legislature.RoleSpeaker},
					{Role: legislature.RoleWhip},
					{Role: legislature.RoleCommitteeChair, Committee: "House Committee on Ways and Means"},
				},
			},
			{
				ID: "S2", Name: "Back Bencher", Chamber: legislature.ChamberHouse,
				District: "8th Suffolk", Party: "Democrat", Locality: "Boston",
			},
			{
				ID: "S3", Name: "Lost Member", Chamber: legislature.ChamberSenate,
				District: "Cape and Islands", Party: "Republican", Locality: "Unknownville",
			},
		},
	}
}

func TestComputeComponents(t *testing.T) {
	e := testEngine(t)

	rec, err := e.Compute(testRoster().Members[0])
	require.NoError(t, err)

	// 82037 base + 20000 far-band expense + 80000 + 65000 top-two
	// stipends; the 35000 whip stipend is discarded by the cap.
	assert.Equal(t, int64(82037), rec.BaseSalary)
	assert.Equal(t, int64(20000), rec.Expense)
	assert.Equal(t, int64(145000), rec.StipendTotal)
	assert.Equal(t, int64(247037), rec.Total)
	require.Len(t, rec.Stipends.Discarded, 1)
	assert.Equal(t, int64(35000), rec.Stipends.Discarded[0].Amount)
}

func TestComputeAllContinuesPastBandingFailure(t *testing.T) {
	e := testEngine(t)

	run, err := e.ComputeAll(testRoster())
	require.NoError(t, err)
	require.Len(t, run.Records, 3)
	require.Len(t, run.BandingErrors, 1)
	assert.Equal(t, "S3", run.BandingErrors[0].MemberID)

	// The unbanded member keeps base salary but no expense component.
	var lost *Record
	for _, rec := range run.Records {
		if rec.MemberID == "S3" {
			lost = rec
		}
	}
	require.NotNil(t, lost)
	assert.False(t, lost.Banded())
	assert.Zero(t, lost.Expense)
	assert.Equal(t, int64(82037), lost.Total)
}

func TestComputeAllDeterministic(t *testing.T) {
	e := testEngine(t)
	roster := testRoster()

	first, err := e.ComputeAll(roster)
	require.NoError(t, err)

	// Reversed input order must not change the output order.
	reversed := &legislature.Roster{Session: roster.Session}
	for i := len(roster.Members) - 1; i >= 0; i-- {
		reversed.Members = append(reversed.Members, roster.Members[i])
	}
	second, err := e.ComputeAll(reversed)
	require.NoError(t, err)

	require.Equal(t, len(first.Records), len(second.Records))
	for i := range first.Records {
		assert.Equal(t, first.Records[i], second.Records[i])
	}
}

func TestSummarize(t *testing.T) {
	e := testEngine(t)
	run, err := e.ComputeAll(testRoster())
	require.NoError(t, err)

	s := Summarize(run)
	assert.Equal(t, 3, s.Members)
	assert.Equal(t, 2, s.Banded)
	assert.Equal(t, 1, s.StipendHolders)
	assert.InDelta(t, 33.33, s.StipendHolderPct, 0.01)
	assert.Equal(t, 1, s.BandFor(distance.BandNear))
	assert.Equal(t, 1, s.BandFor(distance.BandFar))
	assert.Equal(t, int64(15000), s.Bands[string(distance.BandNear)].Expense)
	assert.Equal(t, int64(20000), s.Bands[string(distance.BandFar)].Expense)
	assert.Equal(t, 1, s.BandingFailures)
	require.Len(t, s.Notes, 1)
	assert.Contains(t, s.Notes[0], "could not be banded")

	// Totals: 247037, 97037, 82037.
	assert.Equal(t, int64(82037*3), s.Components.BaseSalary)
	assert.Equal(t, int64(35000), s.Components.Expense)
	assert.Equal(t, int64(145000), s.Components.Stipends)
	assert.Equal(t, int64(426111), s.Components.Grand)
	assert.InDelta(t, 97037, s.MedianTotal, 0.001)
	assert.InDelta(t, 247037, s.TopDecileMean, 0.001)

	house := s.Chambers[string(legislature.ChamberHouse)]
	assert.Equal(t, 2, house.Members)
	assert.Equal(t, 1, house.StipendHolders)
	assert.InDelta(t, (247037+97037)/2.0, house.MeanTotal, 0.001)
}

func TestMedianInterpolation(t *testing.T) {
	assert.InDelta(t, 2.5, median([]int64{4, 1, 3, 2}), 1e-9)
	assert.InDelta(t, 3, median([]int64{5, 1, 3}), 1e-9)
	assert.Zero(t, median(nil))
}

func TestTopDecileMeanSmallInput(t *testing.T) {
	// Fewer than ten values: the decile rounds up to one value.
	assert.InDelta(t, 9, topDecileMean([]int64{1, 2, 9}), 1e-9)

	// Eleven values: decile size two.
	values := []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	assert.InDelta(t, 10.5, topDecileMean(values), 1e-9)
}
