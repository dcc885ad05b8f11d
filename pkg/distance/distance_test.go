package distance

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/beaconpay/beaconpay/pkg/errors"
	"github.com/beaconpay/beaconpay/pkg/legislature"
)

var testLocalities = Localities{
	"Boston":      {Lat: 42.3601, Lon: -71.0589},
	"Worcester":   {Lat: 42.2626, Lon: -71.8023},
	"Springfield": {Lat: 42.1015, Lon: -72.5898},
	"Pittsfield":  {Lat: 42.4501, Lon: -73.2454},
}

type fakeCentroids map[string]Coordinate

func (f fakeCentroids) Centroid(_ legislature.Chamber, district string) (Coordinate, bool) {
	c, ok := f[district]
	return c, ok
}

func TestBandForBoundary(t *testing.T) {
	tests := []struct {
		miles float64
		want  Band
	}{
		{0, BandNear},
		{49.9, BandNear},
		{50.0, BandNear}, // boundary is inclusive on the near side
		{50.01, BandFar},
		{50.1, BandFar},
		{130.5, BandFar},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BandFor(tt.miles), "%.2f miles", tt.miles)
	}
}

func TestHaversine(t *testing.T) {
	// Boston City Hall area to the state house is well under a mile.
	boston, _ := testLocalities.Lookup("Boston")
	assert.Less(t, Haversine(boston, StateHouse), 1.0)

	// Zero distance for identical points.
	assert.Zero(t, Haversine(StateHouse, StateHouse))

	// Symmetric.
	springfield := testLocalities["Springfield"]
	assert.InDelta(t,
		Haversine(springfield, StateHouse),
		Haversine(StateHouse, springfield), 1e-9)
}

func TestBandFromLocality(t *testing.T) {
	b := &Bander{Localities: testLocalities}

	near, err := b.Band(legislature.Member{ID: "M1", Locality: "Worcester"})
	require.NoError(t, err)
	assert.Equal(t, BandNear, near.Band)
	assert.Equal(t, SourceLocality, near.Source)
	assert.Greater(t, near.Miles, 30.0)
	assert.Less(t, near.Miles, 50.0)

	far, err := b.Band(legislature.Member{ID: "M2", Locality: "Springfield"})
	require.NoError(t, err)
	assert.Equal(t, BandFar, far.Band)
	assert.Greater(t, far.Miles, 50.0)
}

func TestBandRoundsToTenth(t *testing.T) {
	b := &Bander{Localities: testLocalities}
	r, err := b.Band(legislature.Member{ID: "M1", Locality: "Pittsfield"})
	require.NoError(t, err)
	assert.InDelta(t, math.Round(r.Miles*10), r.Miles*10, 1e-9)
}

func TestLocalityLookupCleansNames(t *testing.T) {
	tests := []string{
		"Worcester",
		"City of Worcester",
		"Town of Worcester",
		"Worcester (part)",
		"  City of Worcester (part)",
	}
	for _, name := range tests {
		_, ok := testLocalities.Lookup(name)
		assert.True(t, ok, "lookup %q", name)
	}

	_, ok := testLocalities.Lookup("Nantucket")
	assert.False(t, ok)
}

func TestBandCentroidFallback(t *testing.T) {
	b := &Bander{
		Localities: testLocalities,
		Centroids:  fakeCentroids{"1st Hampden": {Lat: 42.1015, Lon: -72.5898}},
	}

	r, err := b.Band(legislature.Member{ID: "M3", District: "1st Hampden", Locality: "Unknownville"})
	require.NoError(t, err)
	assert.Equal(t, SourceCentroid, r.Source)
	assert.Equal(t, BandFar, r.Band)
}

func TestBandOverridePrecedesRosterLocality(t *testing.T) {
	b := &Bander{
		Localities: testLocalities,
		Overrides:  map[string]string{"M4": "Springfield"},
	}

	r, err := b.Band(legislature.Member{ID: "M4", Locality: "Boston"})
	require.NoError(t, err)
	assert.Equal(t, BandFar, r.Band, "override locality must win over roster locality")
}

func TestLoadLocalities(t *testing.T) {
	cfg, err := LoadLocalities(filepath.Join("testdata", "localities.yaml"))
	require.NoError(t, err)

	coord, ok := cfg.Localities.Lookup("Worcester")
	require.True(t, ok)
	assert.InDelta(t, 42.2626, coord.Lat, 1e-6)
	assert.Equal(t, "Springfield", cfg.Overrides["M4"])

	_, err = LoadLocalities(filepath.Join("testdata", "absent.yaml"))
	assert.Error(t, err)
}

func TestBandUnresolvable(t *testing.T) {
	b := &Bander{Localities: testLocalities, Centroids: fakeCentroids{}}

	_, err := b.Band(legislature.Member{ID: "M5", District: "8th Suffolk", Locality: "Unknownville"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsBanding(err))

	var berr *pkgerrors.BandingError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, "8th Suffolk", berr.District)
}
