package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beaconpay/beaconpay/pkg/compensation"
	"github.com/beaconpay/beaconpay/pkg/distance"
	"github.com/beaconpay/beaconpay/pkg/legislature"
	"github.com/beaconpay/beaconpay/pkg/stipend"
)

func sampleRecords() []*compensation.Record {
	return []*compensation.Record{
		{
			MemberID: "A1", Name: "Alpha", Chamber: legislature.ChamberHouse,
			Distance: &distance.Result{Miles: 80.1, Band: distance.BandFar, Source: distance.SourceLocality},
			Stipends: stipend.Selection{
				Selected: []stipend.Candidate{
					{Key: "SPEAKER", Amount: 80000},
					{Key: stipend.KeyWaysMeansChair, Amount: 65000},
				},
				Total: 145000,
			},
			BaseSalary: 82037, Expense: 20000, StipendTotal: 145000, Total: 247037,
		},
		{
			MemberID: "B2", Name: "Beta", Chamber: legislature.ChamberHouse,
			Distance:   &distance.Result{Miles: 3.2, Band: distance.BandNear, Source: distance.SourceLocality},
			BaseSalary: 82037, Expense: 15000, Total: 97037,
		},
		{
			MemberID: "C3", Name: "Gamma", Chamber: legislature.ChamberSenate,
			BaseSalary: 82037, Total: 82037,
		},
	}
}

func TestRegistry(t *testing.T) {
	names := map[string]bool{}
	for _, r := range All() {
		names[r.Name] = true
		assert.NotEmpty(t, r.Description)
		assert.NotNil(t, r.Run)
	}
	assert.True(t, names["stipend-breakdown"])
	assert.True(t, names["chamber-comparison"])
	assert.True(t, names["expense-vs-leadership"])
	assert.True(t, names["power-concentration"])

	_, err := Get("no-such-report")
	assert.Error(t, err)
}

func TestAllReportsRender(t *testing.T) {
	records := sampleRecords()
	for _, r := range All() {
		t.Run(r.Name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, r.Run(&buf, records))
			assert.NotEmpty(t, buf.String())
		})
	}
}

func TestStipendBreakdownContent(t *testing.T) {
	var buf bytes.Buffer
	r, err := Get("stipend-breakdown")
	require.NoError(t, err)
	require.NoError(t, r.Run(&buf, sampleRecords()))

	out := buf.String()
	assert.Contains(t, out, "SPEAKER")
	assert.Contains(t, out, "WAYS_MEANS_CHAIR")
	assert.Contains(t, out, "$80,000")
}

func TestPowerConcentrationContent(t *testing.T) {
	var buf bytes.Buffer
	r, err := Get("power-concentration")
	require.NoError(t, err)
	require.NoError(t, r.Run(&buf, sampleRecords()))

	// One member holds every stipend dollar.
	assert.Contains(t, buf.String(), "100.0%")
}
