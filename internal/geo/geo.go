// Package geo resolves legislative districts to polygon centroids. The
// roster and the boundary data spell district names differently
// ("Thirty-Seventh Middlesex" vs "37th Middlesex"; Senate county lists
// in varying order), so lookups go through a normalized key.
package geo

import (
	"encoding/json"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/beaconpay/beaconpay/pkg/distance"
	"github.com/beaconpay/beaconpay/pkg/errors"
	"github.com/beaconpay/beaconpay/pkg/legislature"
)

// centroidsFile is the on-disk shape: district name to coordinate, per
// chamber.
type centroidsFile struct {
	House  map[string]distance.Coordinate `json:"house"`
	Senate map[string]distance.Coordinate `json:"senate"`
}

// Centroids resolves districts to centroids. Implements
// distance.CentroidLookup.
type Centroids struct {
	house  map[string]distance.Coordinate
	senate map[string]distance.Coordinate
}

// LoadCentroids reads a centroid JSON file and indexes it by normalized
// district key.
func LoadCentroids(path string) (*Centroids, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var f centroidsFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}

	c := &Centroids{
		house:  make(map[string]distance.Coordinate, len(f.House)),
		senate: make(map[string]distance.Coordinate, len(f.Senate)),
	}
	for name, coord := range f.House {
		c.house[DistrictKey(legislature.ChamberHouse, name)] = coord
	}
	for name, coord := range f.Senate {
		c.senate[DistrictKey(legislature.ChamberSenate, name)] = coord
	}
	return c, nil
}

// Centroid implements distance.CentroidLookup.
func (c *Centroids) Centroid(chamber legislature.Chamber, district string) (distance.Coordinate, bool) {
	key := DistrictKey(chamber, district)
	switch chamber {
	case legislature.ChamberHouse:
		coord, ok := c.house[key]
		return coord, ok
	case legislature.ChamberSenate:
		coord, ok := c.senate[key]
		return coord, ok
	}
	return distance.Coordinate{}, false
}

// DistrictKey normalizes a district name for lookup: lowercase, ordinal
// words rewritten to their numeric form, filler tokens dropped. House
// keys keep token order because the ordinal prefix is significant;
// Senate keys sort tokens because the county lists appear in any order.
func DistrictKey(chamber legislature.Chamber, name string) string {
	tokens := districtTokens(name)
	if chamber == legislature.ChamberSenate {
		sort.Strings(tokens)
	}
	return strings.Join(tokens, " ")
}

// fillerTokens are dropped entirely during normalization.
var fillerTokens = map[string]struct{}{
	"and":      {},
	"&":        {},
	"district": {},
	"the":      {},
}

func districtTokens(name string) []string {
	s := strings.ToLower(name)
	s = strings.NewReplacer(",", " ", ".", " ", "-", " ").Replace(s)

	var out []string
	for _, tok := range strings.Fields(s) {
		if _, ok := fillerTokens[tok]; ok {
			continue
		}
		if num, ok := ordinals[tok]; ok {
			// Compound ordinals arrive as two tokens after the hyphen
			// split ("thirty seventh"); fold the pair into one.
			if len(out) > 0 {
				if base, ok := ordinalTens[out[len(out)-1]]; ok {
					out[len(out)-1] = ordinalForm(base + ordinalValue(num))
					continue
				}
			}
			out = append(out, num)
			continue
		}
		out = append(out, tok)
	}
	return out
}

// ordinalTens maps the tens prefix of a compound ordinal to its value.
var ordinalTens = map[string]int{
	"twenty": 20,
	"thirty": 30,
	"forty":  40,
}

// ordinals maps ordinal words to their numeric form.
var ordinals = map[string]string{
	"first": "1st", "second": "2nd", "third": "3rd", "fourth": "4th",
	"fifth": "5th", "sixth": "6th", "seventh": "7th", "eighth": "8th",
	"ninth": "9th", "tenth": "10th", "eleventh": "11th", "twelfth": "12th",
	"thirteenth": "13th", "fourteenth": "14th", "fifteenth": "15th",
	"sixteenth": "16th", "seventeenth": "17th", "eighteenth": "18th",
	"nineteenth": "19th", "twentieth": "20th", "thirtieth": "30th",
	"fortieth": "40th",
}

func ordinalValue(form string) int {
	n := 0
	for _, r := range form {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}

func ordinalForm(n int) string {
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}
