// Package stipend maps role assignments to stipend keys and selects the
// stipends a member actually receives. A member may hold many stipended
// roles but is paid at most the two largest; the rest are discarded but
// kept auditable. Roles that map to no key in the stipend table are
// recorded as unmapped and contribute zero dollars.
package stipend

import (
	"sort"

	"github.com/beaconpay/beaconpay/pkg/cycle"
	"github.com/beaconpay/beaconpay/pkg/errors"
	"github.com/beaconpay/beaconpay/pkg/legislature"
)

// Key identifies one row of the cycle stipend table.
type Key string

// Committee-derived stipend keys. Leadership roles use the role name
// itself as the key, so only the committee keys need constants here.
const (
	KeyWaysMeansChair     Key = "WAYS_MEANS_CHAIR"
	KeyWaysMeansViceChair Key = "WAYS_MEANS_VICECHAIR"
	KeyChairTierA         Key = "COMMITTEE_CHAIR_TIER_A"
	KeyChairTierB         Key = "COMMITTEE_CHAIR_TIER_B"
	KeyViceChairTierA     Key = "COMMITTEE_VICECHAIR_TIER_A"
	KeyViceChairTierB     Key = "COMMITTEE_VICECHAIR_TIER_B"
)

// MaxPerMember is the statutory cap on concurrently paid stipends.
const MaxPerMember = 2

// Table is the resolved stipend amount table for one cycle.
type Table map[Key]int64

// NewTable converts the resolved cycle stipend map into a typed table.
func NewTable(resolved *cycle.Resolved) Table {
	t := make(Table, len(resolved.Stipends))
	for key, amount := range resolved.Stipends {
		t[Key(key)] = amount
	}
	return t
}

// Amount returns the stipend for a key and whether the key exists.
func (t Table) Amount(key Key) (int64, bool) {
	amount, ok := t[key]
	return amount, ok
}

// Candidate is one role assignment resolved to a stipend key and amount.
type Candidate struct {
	Key        Key                        `json:"key"`
	Amount     int64                      `json:"amount"`
	Assignment legislature.RoleAssignment `json:"assignment"`
}

// Selection is the stipend outcome for one member. Selected holds at
// most MaxPerMember candidates in descending amount order; Discarded
// holds every stipended role beyond the cap; Unmapped holds role
// assignments that resolved to no table row.
type Selection struct {
	Selected  []Candidate                 `json:"selected,omitempty"`
	Discarded []Candidate                 `json:"discarded,omitempty"`
	Unmapped  []*errors.UnmappedRoleError `json:"-"`
	Total     int64                       `json:"total"`
}

// HasStipend reports whether any stipend was selected.
func (s Selection) HasStipend() bool {
	return len(s.Selected) > 0
}

// Selector resolves members' role assignments against a stipend table
// and tier classification.
type Selector struct {
	Table Table
	Tiers *Tiers
}

// Select resolves every role assignment of a member, orders the
// stipended ones by amount descending with ties broken by key, and
// keeps the top MaxPerMember. Plain membership carries no stipend and
// is skipped without an unmapped entry. Deterministic for a given
// member and table.
func (s *Selector) Select(m legislature.Member) Selection {
	var sel Selection
	var candidates []Candidate

	for _, ra := range m.Roles {
		if ra.Role == legislature.RoleMember {
			continue
		}

		key, ok := s.Tiers.KeyFor(ra)
		if !ok {
			sel.Unmapped = append(sel.Unmapped, &errors.UnmappedRoleError{
				MemberID: m.ID, Role: string(ra.Role), Committee: ra.Committee,
			})
			continue
		}

		amount, ok := s.Table.Amount(key)
		if !ok {
			sel.Unmapped = append(sel.Unmapped, &errors.UnmappedRoleError{
				MemberID: m.ID, Role: string(ra.Role), Committee: ra.Committee,
			})
			continue
		}

		candidates = append(candidates, Candidate{Key: key, Amount: amount, Assignment: ra})
	}

	// Amount descending, then key ascending so equal amounts order the
	// same way on every run.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Amount != candidates[j].Amount {
			return candidates[i].Amount > candidates[j].Amount
		}
		return candidates[i].Key < candidates[j].Key
	})

	for i, c := range candidates {
		if i < MaxPerMember {
			sel.Selected = append(sel.Selected, c)
			sel.Total += c.Amount
		} else {
			sel.Discarded = append(sel.Discarded, c)
		}
	}

	return sel
}
