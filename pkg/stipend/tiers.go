package stipend

import (
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/beaconpay/beaconpay/pkg/errors"
	"github.com/beaconpay/beaconpay/pkg/legislature"
)

// SpecialKeys names the stipend keys for a committee whose chair and
// vice chair are paid at statutory rates outside the tier schedule.
type SpecialKeys struct {
	Chair     Key `yaml:"chair"`
	ViceChair Key `yaml:"vice_chair"`
}

// tiersFile is the on-disk shape of the committee tier configuration.
type tiersFile struct {
	Special               map[string]SpecialKeys `yaml:"special"`
	TierA                 []string               `yaml:"tier_a"`
	ViceChairTierAMatches []string               `yaml:"vice_chair_tier_a_matches"`
}

// Tiers classifies committees for stipend purposes. Resolution order
// for a committee role: special-rate override, tier A membership,
// tier B. Vice chairs additionally reach tier A through substring
// matches on the committee name.
type Tiers struct {
	special               map[string]SpecialKeys
	tierA                 map[string]struct{}
	viceChairTierAMatches []string
}

// LoadTiers reads the committee tier configuration YAML. A missing or
// unparsable file is a configuration error: without the tier table
// every committee chair would silently land in tier B.
func LoadTiers(path string) (*Tiers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError("committees", "cannot read "+path, err)
	}

	var f tiersFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.NewConfigError("committees", "cannot parse "+path, err)
	}

	return NewTiers(f.Special, f.TierA, f.ViceChairTierAMatches), nil
}

// NewTiers builds a tier classification from in-memory tables.
func NewTiers(special map[string]SpecialKeys, tierA []string, viceChairTierAMatches []string) *Tiers {
	if special == nil {
		special = map[string]SpecialKeys{}
	}
	t := &Tiers{
		special:               special,
		tierA:                 make(map[string]struct{}, len(tierA)),
		viceChairTierAMatches: viceChairTierAMatches,
	}
	for _, name := range tierA {
		t.tierA[name] = struct{}{}
	}
	return t
}

// AddTierA merges additional tier A committee names, typically the
// cycle configuration's tier_a_committees list.
func (t *Tiers) AddTierA(names []string) {
	for _, name := range names {
		t.tierA[name] = struct{}{}
	}
}

// KeyFor resolves a role assignment to a stipend key. Leadership roles
// map directly; committee roles resolve through the tier tables. The
// second return value is false when the role carries no stipend key at
// all, which the caller records as unmapped.
func (t *Tiers) KeyFor(ra legislature.RoleAssignment) (Key, bool) {
	if ra.Role.Leadership() {
		return Key(ra.Role), true
	}

	switch ra.Role {
	case legislature.RoleCommitteeChair:
		if special, ok := t.special[ra.Committee]; ok && special.Chair != "" {
			return special.Chair, true
		}
		if _, ok := t.tierA[ra.Committee]; ok {
			return KeyChairTierA, true
		}
		return KeyChairTierB, true

	case legislature.RoleCommitteeViceChair:
		if special, ok := t.special[ra.Committee]; ok && special.ViceChair != "" {
			return special.ViceChair, true
		}
		if _, ok := t.tierA[ra.Committee]; ok {
			return KeyViceChairTierA, true
		}
		for _, match := range t.viceChairTierAMatches {
			if strings.Contains(ra.Committee, match) {
				return KeyViceChairTierA, true
			}
		}
		return KeyViceChairTierB, true
	}

	return "", false
}
