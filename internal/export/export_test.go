package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beaconpay/beaconpay/pkg/compensation"
	"github.com/beaconpay/beaconpay/pkg/distance"
	"github.com/beaconpay/beaconpay/pkg/earmark"
	"github.com/beaconpay/beaconpay/pkg/legislature"
	"github.com/beaconpay/beaconpay/pkg/reconcile"
	"github.com/beaconpay/beaconpay/pkg/stipend"
)

func sampleRun() *compensation.Run {
	return &compensation.Run{
		RunID: "run-1",
		Cycle: "2025-2026",
		Records: []*compensation.Record{
			{
				MemberID: "A1", Name: "Alpha Member", Chamber: legislature.ChamberHouse,
				District: "1st Test", Party: "Democrat", Locality: "Springfield",
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
				MemberID: "B2", Name: "Beta Member", Chamber: legislature.ChamberSenate,
				District: "Test and Example", Party: "Republican", Locality: "Unknownville",
				BaseSalary: 82037, Total: 82037,
			},
		},
	}
}

func TestMembersCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "members.csv")
	run := sampleRun()

	require.NoError(t, WriteMembersCSV(path, run))

	records, err := ReadMembersCSV(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	a := records[0]
	assert.Equal(t, "A1", a.MemberID)
	require.NotNil(t, a.Distance)
	assert.InDelta(t, 80.1, a.Distance.Miles, 1e-9)
	assert.Equal(t, distance.BandFar, a.Distance.Band)
	assert.Equal(t, int64(247037), a.Total)
	require.Len(t, a.Stipends.Selected, 2)
	assert.Equal(t, stipend.Key("SPEAKER"), a.Stipends.Selected[0].Key)
	assert.Equal(t, int64(145000), a.StipendTotal)
	assert.True(t, a.HasStipend())

	b := records[1]
	assert.Nil(t, b.Distance)
	assert.False(t, b.HasStipend())
	assert.Equal(t, int64(82037), b.Total)
}

func TestReadMembersCSVBadHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, WriteJSON(path, map[string]string{"not": "csv"}))

	_, err := ReadMembersCSV(path)
	require.Error(t, err)
}

func TestWriteVariancesCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "variances.csv")
	result := &reconcile.Result{
		Variances: []reconcile.VarianceRecord{
			{
				MemberID: "A1", Name: "Alpha Member", Chamber: "House", District: "1st Test",
				Model: 247037, Actual: 246900.10, Variance: 136.90, Ratio: 0.9994,
				PctOfModel: 99.94, Months: 11.99,
				Status: reconcile.StatusOK, Explanation: "within threshold",
				Agencies: []string{"House of Representatives (HOU)"},
			},
		},
	}

	require.NoError(t, WriteVariancesCSV(path, result))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "pct_of_model")
	assert.Contains(t, string(data), "99.9")

	records, err := ReadMembersCSV(path)
	assert.Error(t, err, "variance file must not parse as a members file")
	assert.Nil(t, records)
}

func TestWriteEarmarkAuditCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "earmark_audit.csv")
	rows := []earmark.AuditRow{
		{
			AmendmentNumber: "47", Chamber: "House", LineItem: "7004-0099",
			Amount: 50000, AssignedTo: "James Arciero", MemberID: "M1",
			District: "2nd Middlesex", Sponsor: "Rep. Jim Arciero",
			Confidence: 1.0, Method: "join_key", Page: 12,
			Text: "not less than $50,000 shall be expended",
		},
		{AmendmentNumber: "99", Amount: 15000, AssignedTo: "UNKNOWN", Sponsor: "Nobody Known"},
	}

	require.NoError(t, WriteEarmarkAuditCSV(path, rows))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "match_confidence")
	assert.Contains(t, out, "verification")
	assert.Contains(t, out, "James Arciero")
	assert.Contains(t, out, "UNKNOWN")
}

func TestWriteJSONAndReadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.json")
	require.NoError(t, WriteJSON(path, map[string]int{"members": 2}))

	var out map[string]int
	require.NoError(t, ReadJSON(path, &out))
	assert.Equal(t, 2, out["members"])
}

func TestWriteStatement(t *testing.T) {
	run := sampleRun()
	var buf bytes.Buffer

	require.NoError(t, WriteStatement(&buf, run, run.Records[0]))
	assert.Greater(t, buf.Len(), 500, "statement should be a non-trivial PDF")
	assert.Equal(t, "%PDF", buf.String()[:4])
}
