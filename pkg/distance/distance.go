// Package distance assigns each member a travel-distance band. Distance
// is the great-circle distance from the member's home coordinate to the
// seat of government, computed with the haversine formula on a spherical
// Earth approximation. The home coordinate resolves through a fallback
// chain: per-member locality override, roster locality, district
// centroid. When none resolves the member is unbandable and the caller
// receives a BandingError; banding is never silently defaulted.
package distance

import (
	"math"
	"strings"

	"github.com/beaconpay/beaconpay/pkg/errors"
	"github.com/beaconpay/beaconpay/pkg/legislature"
)

// earthRadiusMiles is the mean Earth radius used by the haversine
// approximation.
const earthRadiusMiles = 3958.7613

// NearBandMaxMiles is the banding threshold. The boundary is inclusive
// on the near side: exactly 50.0 miles is the near band.
const NearBandMaxMiles = 50.0

// Band is the travel-distance classification driving the expense
// stipend amount.
type Band string

// Band values. The names match the expense-band keys in the cycle
// configuration.
const (
	BandNear Band = "LE50"
	BandFar  Band = "GT50"
)

// Source records which fallback path produced the member's coordinate.
type Source string

// Source values.
const (
	SourceLocality Source = "LOCALITY"
	SourceCentroid Source = "DISTRICT_CENTROID"
)

// Coordinate is a WGS84 latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// StateHouse is the fixed reference coordinate: the seat of government.
var StateHouse = Coordinate{Lat: 42.3570, Lon: -71.0630}

// Result is a member's computed distance classification. Deterministic
// given its inputs.
type Result struct {
	Miles  float64 `json:"distance_miles"`
	Band   Band    `json:"band"`
	Source Source  `json:"band_source"`
}

// Haversine returns the great-circle distance between two coordinates
// in miles.
func Haversine(a, b Coordinate) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dlat := radians(b.Lat - a.Lat)
	dlon := radians(b.Lon - a.Lon)

	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	return 2 * earthRadiusMiles * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// BandFor classifies a distance in miles.
func BandFor(miles float64) Band {
	if miles <= NearBandMaxMiles {
		return BandNear
	}
	return BandFar
}

// CentroidLookup resolves a district identifier to its polygon centroid.
type CentroidLookup interface {
	Centroid(chamber legislature.Chamber, district string) (Coordinate, bool)
}

// Localities maps locality names to coordinates.
type Localities map[string]Coordinate

// Lookup resolves a locality name, stripping the municipal prefixes and
// partial-district suffix the roster data carries.
func (l Localities) Lookup(name string) (Coordinate, bool) {
	key := strings.TrimSpace(name)
	key = strings.TrimPrefix(key, "City of ")
	key = strings.TrimPrefix(key, "Town of ")
	key = strings.TrimSuffix(key, " (part)")
	c, ok := l[key]
	return c, ok
}

// Bander computes distance bands for members.
type Bander struct {
	// Localities maps locality names to coordinates. Preferred source.
	Localities Localities

	// Centroids resolves district centroids. Fallback source.
	Centroids CentroidLookup

	// Overrides maps member IDs to locality names, consulted before the
	// roster locality. Used for members whose roster locality is absent
	// or known to be wrong.
	Overrides map[string]string

	// Reference is the coordinate distances are measured to. Zero value
	// means the state house.
	Reference Coordinate
}

// Band resolves the member's coordinate through the fallback chain and
// classifies the distance. The distance is rounded to one decimal of a
// mile before banding so that output and classification agree.
func (b *Bander) Band(m legislature.Member) (Result, error) {
	reference := b.Reference
	if reference == (Coordinate{}) {
		reference = StateHouse
	}

	if locality, ok := b.Overrides[m.ID]; ok {
		if coord, ok := b.Localities.Lookup(locality); ok {
			return b.result(coord, reference, SourceLocality), nil
		}
	}

	if m.Locality != "" {
		if coord, ok := b.Localities.Lookup(m.Locality); ok {
			return b.result(coord, reference, SourceLocality), nil
		}
	}

	if b.Centroids != nil {
		if coord, ok := b.Centroids.Centroid(m.Chamber, m.District); ok {
			return b.result(coord, reference, SourceCentroid), nil
		}
	}

	return Result{}, errors.NewBandingError(m.ID, m.District, m.Locality)
}

func (b *Bander) result(coord, reference Coordinate, source Source) Result {
	miles := roundTenth(Haversine(coord, reference))
	return Result{
		Miles:  miles,
		Band:   BandFor(miles),
		Source: source,
	}
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
