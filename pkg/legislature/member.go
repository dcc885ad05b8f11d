// Package legislature defines the core domain types for a bicameral
// legislature: chambers, members, districts, and the role assignments
// (leadership titles, committee chairs and vice chairs) that drive
// stipend eligibility.
package legislature

import (
	"fmt"
	"strings"
)

// Chamber identifies one of the two legislative chambers.
type Chamber string

// Chamber values.
const (
	ChamberHouse  Chamber = "House"
	ChamberSenate Chamber = "Senate"
)

// ParseChamber converts a raw chamber string from roster data into a
// Chamber. Matching is prefix-based and case-insensitive because the
// upstream API uses both "House" and "House of Representatives".
func ParseChamber(s string) (Chamber, error) {
	switch {
	case strings.HasPrefix(strings.ToLower(strings.TrimSpace(s)), "house"):
		return ChamberHouse, nil
	case strings.HasPrefix(strings.ToLower(strings.TrimSpace(s)), "senate"):
		return ChamberSenate, nil
	default:
		return "", fmt.Errorf("unknown chamber %q", s)
	}
}

// Valid reports whether the chamber is one of the two known values.
func (c Chamber) Valid() bool {
	return c == ChamberHouse || c == ChamberSenate
}

// Role is an enumerated role label held by a member. Leadership titles
// carry a statutory stipend directly; committee roles resolve through
// the committee tier classification; RoleMember carries nothing.
type Role string

// Role values.
const (
	RoleSpeaker             Role = "SPEAKER"
	RoleSenatePresident     Role = "SENATE_PRESIDENT"
	RoleMajorityLeader      Role = "MAJORITY_LEADER"
	RoleMinorityLeader      Role = "MINORITY_LEADER"
	RolePresidentProTempore Role = "PRESIDENT_PRO_TEMPORE"
	RoleSpeakerProTempore   Role = "SPEAKER_PRO_TEMPORE"
	RoleWhip                Role = "WHIP"
	RoleAsstMajorityWhip    Role = "ASST_MAJ_WHIP"
	RoleAsstMinorityWhip    Role = "ASST_MIN_WHIP"
	RoleCommitteeChair      Role = "COMMITTEE_CHAIR"
	RoleCommitteeViceChair  Role = "COMMITTEE_VICE_CHAIR"
	RoleMember              Role = "MEMBER"
)

// Leadership reports whether the role is a chamber leadership title
// that maps directly to a stipend key.
func (r Role) Leadership() bool {
	switch r {
	case RoleSpeaker, RoleSenatePresident, RoleMajorityLeader, RoleMinorityLeader,
		RolePresidentProTempore, RoleSpeakerProTempore, RoleWhip,
		RoleAsstMajorityWhip, RoleAsstMinorityWhip:
		return true
	}
	return false
}

// CommitteeRole reports whether the role is committee-scoped and needs
// a committee name to resolve a stipend.
func (r Role) CommitteeRole() bool {
	return r == RoleCommitteeChair || r == RoleCommitteeViceChair
}

// positionTitles maps upstream leadership position titles to roles.
// Majority and minority whips share one stipend key by statute.
var positionTitles = map[string]Role{
	"Speaker of the House":    RoleSpeaker,
	"President of the Senate": RoleSenatePresident,
	"Majority Leader":         RoleMajorityLeader,
	"Minority Leader":         RoleMinorityLeader,
	"President Pro Tempore":   RolePresidentProTempore,
	"Speaker Pro Tempore":     RoleSpeakerProTempore,
	"Majority Whip":           RoleWhip,
	"Minority Whip":           RoleWhip,
	"Assistant Majority Whip": RoleAsstMajorityWhip,
	"Assistant Minority Whip": RoleAsstMinorityWhip,
}

// committeeTitles maps upstream committee membership titles to roles.
var committeeTitles = map[string]Role{
	"Chair":      RoleCommitteeChair,
	"Vice Chair": RoleCommitteeViceChair,
	"Member":     RoleMember,
}

// ParsePosition converts an upstream position title into a Role.
// The second return value is false for titles that are not recognized.
func ParsePosition(title string) (Role, bool) {
	title = strings.TrimSpace(title)
	if r, ok := positionTitles[title]; ok {
		return r, true
	}
	if r, ok := committeeTitles[title]; ok {
		return r, true
	}
	return "", false
}

// RoleAssignment pairs a role with the committee it applies to.
// Committee is empty for leadership titles and plain membership.
type RoleAssignment struct {
	Role      Role   `json:"role"`
	Committee string `json:"committee,omitempty"`
}

// String returns a compact human-readable form used in diagnostics.
func (ra RoleAssignment) String() string {
	if ra.Committee != "" {
		return fmt.Sprintf("%s (%s)", ra.Role, ra.Committee)
	}
	return string(ra.Role)
}

// Member is one legislator as assembled from the roster, leadership, and
// committee feeds. Members are built once per run and not mutated after
// role assignments are attached.
type Member struct {
	ID       string           `json:"member_id"`
	Name     string           `json:"name"`
	Chamber  Chamber          `json:"chamber"`
	District string           `json:"district"`
	Party    string           `json:"party"`
	Locality string           `json:"locality,omitempty"`
	Roles    []RoleAssignment `json:"roles,omitempty"`
}

// Validate checks the mandatory member fields.
func (m *Member) Validate() error {
	switch {
	case m.ID == "":
		return fmt.Errorf("member missing identifier")
	case m.Name == "":
		return fmt.Errorf("member %s missing name", m.ID)
	case !m.Chamber.Valid():
		return fmt.Errorf("member %s has unknown chamber %q", m.ID, m.Chamber)
	case m.District == "":
		return fmt.Errorf("member %s missing district", m.ID)
	}
	return nil
}
