package legislature

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/beaconpay/beaconpay/pkg/errors"
)

// Roster is the full member set for one legislative session.
type Roster struct {
	Session int      `json:"session"`
	Members []Member `json:"members"`
}

// LoadRoster reads a roster JSON file produced by the fetch command (or
// assembled by hand) and validates every member record. Validation
// failures are fatal: a roster with half-formed members would silently
// skew every aggregate denominator downstream.
func LoadRoster(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var roster Roster
	if err := json.Unmarshal(data, &roster); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}

	if len(roster.Members) == 0 {
		return nil, errors.NewConfigError("roster", "no members in "+path, nil)
	}
	for i := range roster.Members {
		if err := roster.Members[i].Validate(); err != nil {
			return nil, errors.WrapValidation("members", err)
		}
	}

	// Stable member order keeps every downstream output reproducible.
	sort.Slice(roster.Members, func(i, j int) bool {
		return roster.Members[i].ID < roster.Members[j].ID
	})

	return &roster, nil
}

// Save writes the roster as indented JSON.
func (r *Roster) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return errors.WrapIO("write", path, os.WriteFile(path, data, 0o644))
}
