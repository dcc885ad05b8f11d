package payroll

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beaconpay/beaconpay/pkg/logging"
)

const sampleCSV = `name_last,name_first,department_division,pay_total_actual,year
Arciero,James,House of Representatives (HOU),99542.10,2025
Ashe,Brian,House of Representatives (HOU),60000.00,2025
Ashe,Brian,Senate (SEN),17630.00,2025
Zoller,Jane,Office of the Treasurer (TRE),85000.00,2025
Brownsberger,William,Senate (SEN),121406.50,2025
Nobody,Null,House of Representatives (HOU),not-a-number,2025
Stale,Row,Senate (SEN),50000.00,2024
`

func TestParseFiltersAndAggregates(t *testing.T) {
	feed, err := Parse([]byte(sampleCSV), 2025)
	require.NoError(t, err)

	// Treasurer row, unparsable row, and the 2024 row are dropped;
	// Ashe's two agency rows collapse to one person.
	require.Len(t, feed.Records, 3)
	assert.Equal(t, "Arciero", feed.Records[0].Last)
	assert.Equal(t, "Ashe", feed.Records[1].Last)
	assert.Equal(t, "Brownsberger", feed.Records[2].Last)

	ashe := feed.Records[1]
	assert.InDelta(t, 77630.00, ashe.Pay, 1e-9)
	assert.True(t, ashe.MultiAgency())
	assert.Equal(t, []string{"House of Representatives (HOU)", "Senate (SEN)"}, ashe.Agencies)
}

func TestParseAgencyStats(t *testing.T) {
	feed, err := Parse([]byte(sampleCSV), 2025)
	require.NoError(t, err)

	house := feed.Agencies["House of Representatives (HOU)"]
	assert.Equal(t, 2, house.Rows)
	assert.Equal(t, 2, house.People)
	assert.InDelta(t, 159542.10, house.TotalPay, 1e-6)

	senate := feed.Agencies["Senate (SEN)"]
	assert.Equal(t, 2, senate.Rows)
	assert.Equal(t, 2, senate.People)

	_, ok := feed.Agencies["Office of the Treasurer (TRE)"]
	assert.False(t, ok)
}

func TestParseMissingColumn(t *testing.T) {
	_, err := Parse([]byte("name_last,name_first\nAshe,Brian\n"), 2025)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "department_division")
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2025", r.URL.Query().Get("year"))
		w.Write([]byte(sampleCSV)) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)

	c := New(WithURL(srv.URL), WithLogger(logging.Nop))
	feed, err := c.Fetch(context.Background(), 2025)
	require.NoError(t, err)
	assert.Equal(t, 2025, feed.Year)
	assert.Len(t, feed.Records, 3)
}
