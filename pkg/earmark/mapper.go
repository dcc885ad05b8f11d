package earmark

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/beaconpay/beaconpay/pkg/legislature"
	"github.com/beaconpay/beaconpay/pkg/logging"
	"github.com/beaconpay/beaconpay/pkg/names"
)

// Mapping records how a sponsor string resolved to a roster member.
type Mapping struct {
	Sponsor    string  `json:"sponsor"`
	MemberID   string  `json:"member_id"`
	MemberName string  `json:"member_name"`
	Confidence float64 `json:"confidence"`
	Method     string  `json:"method"`
}

// Match methods, in decreasing confidence order.
const (
	MethodJoinKey  = "join_key"
	MethodLastName = "last_name"
)

// UnknownMember is the attribution bucket for earmarks whose sponsor
// could not be resolved to a roster member.
const UnknownMember = "UNKNOWN"

// sponsorTitles are honorifics stripped from the front of sponsor
// strings before matching.
var sponsorTitles = map[string]struct{}{
	"representative":  {},
	"representatives": {},
	"rep":             {},
	"senator":         {},
	"senators":        {},
	"sen":             {},
	"mr":              {},
	"ms":              {},
	"mrs":             {},
}

// sponsorSuffixes are generational tokens ignored when picking the
// surname for the fallback match.
var sponsorSuffixes = map[string]struct{}{
	"jr": {}, "sr": {}, "ii": {}, "iii": {}, "iv": {}, "v": {},
}

// Match pairs a sponsor string with the roster member it resolved to.
type Match struct {
	Member     *legislature.Member
	Confidence float64
	Method     string
}

// Mapper attributes earmarks to roster members by sponsor name. Primary
// matching reuses the reconciliation join key so nicknames, accents,
// and suffixes resolve the same way they do in payroll matching; a
// unique-surname fallback catches sponsor strings listed surname-only.
type Mapper struct {
	normalizer *names.Normalizer
	logger     zerolog.Logger
}

// MapperOption configures a Mapper.
type MapperOption func(*Mapper)

// WithMapperLogger sets the mapper logger.
func WithMapperLogger(logger zerolog.Logger) MapperOption {
	return func(m *Mapper) { m.logger = logger }
}

// NewMapper builds a Mapper over a name normalizer.
func NewMapper(n *names.Normalizer, opts ...MapperOption) *Mapper {
	m := &Mapper{normalizer: n, logger: *logging.Default()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FindMember resolves a sponsor string to a roster member. Sponsors
// arrive as "First Last", "Last, First", or bare surnames, usually with
// an honorific prefix. A join-key match is authoritative; a surname
// match counts only when exactly one member carries that surname.
func (m *Mapper) FindMember(sponsor string, members []legislature.Member) (Match, bool) {
	name := cleanSponsor(sponsor)
	if name == "" {
		return Match{}, false
	}

	if key := m.normalizer.Key(name); key != "" {
		for i := range members {
			if m.normalizer.Key(members[i].Name) == key {
				return Match{Member: &members[i], Confidence: 1.0, Method: MethodJoinKey}, true
			}
		}
	}

	surname := lastName(name)
	if surname == "" {
		return Match{}, false
	}
	var found *legislature.Member
	count := 0
	for i := range members {
		if lastName(members[i].Name) == surname {
			found = &members[i]
			count++
		}
	}
	if count == 1 {
		return Match{Member: found, Confidence: 0.6, Method: MethodLastName}, true
	}
	if count > 1 {
		m.logger.Debug().Str("sponsor", sponsor).Int("candidates", count).Msg("ambiguous surname")
	}
	return Match{}, false
}

// Attribution is the result of mapping a set of earmarks onto a roster.
type Attribution struct {
	ByMember map[string][]Earmark `json:"by_member"`
	Unknown  []Earmark            `json:"unknown,omitempty"`
	Stats    AttributionStats     `json:"stats"`
}

// AttributionStats summarizes mapping quality.
type AttributionStats struct {
	Total            int `json:"total"`
	Mapped           int `json:"mapped"`
	Unmapped         int `json:"unmapped"`
	SurnameFallbacks int `json:"surname_fallbacks"`
}

// Attribute maps every earmark to a member. Unresolvable sponsors land
// in the Unknown bucket rather than being dropped, so the audit report
// always accounts for every earmark.
func (m *Mapper) Attribute(earmarks []Earmark, roster *legislature.Roster) *Attribution {
	att := &Attribution{ByMember: make(map[string][]Earmark)}
	att.Stats.Total = len(earmarks)

	for _, e := range earmarks {
		match, ok := Match{}, false
		if e.Sponsor != "" {
			match, ok = m.FindMember(e.Sponsor, roster.Members)
		}
		if !ok {
			att.Unknown = append(att.Unknown, e)
			att.Stats.Unmapped++
			continue
		}

		e.Mapping = &Mapping{
			Sponsor:    e.Sponsor,
			MemberID:   match.Member.ID,
			MemberName: match.Member.Name,
			Confidence: match.Confidence,
			Method:     match.Method,
		}
		att.ByMember[match.Member.ID] = append(att.ByMember[match.Member.ID], e)
		att.Stats.Mapped++
		if match.Method == MethodLastName {
			att.Stats.SurnameFallbacks++
		}
	}

	m.logger.Info().
		Int("earmarks", att.Stats.Total).
		Int("mapped", att.Stats.Mapped).
		Int("unmapped", att.Stats.Unmapped).
		Msg("attributed earmarks")
	return att
}

// cleanSponsor flips "Last, First" ordering and strips honorifics.
func cleanSponsor(sponsor string) string {
	name := strings.TrimSpace(sponsor)
	if last, first, ok := strings.Cut(name, ","); ok {
		name = strings.TrimSpace(first) + " " + strings.TrimSpace(last)
	}

	fields := strings.Fields(name)
	for len(fields) > 0 {
		title := strings.ToLower(strings.TrimRight(fields[0], "."))
		if _, ok := sponsorTitles[title]; !ok {
			break
		}
		fields = fields[1:]
	}
	return strings.Join(fields, " ")
}

// lastName returns the lowercased final non-suffix token of a name.
func lastName(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	for i := len(fields) - 1; i >= 0; i-- {
		tok := strings.Trim(fields[i], ".,'")
		if _, ok := sponsorSuffixes[tok]; ok {
			continue
		}
		return tok
	}
	return ""
}

// sortEarmarks orders earmarks by amendment number then amount so
// attribution output is reproducible.
func sortEarmarks(earmarks []Earmark) {
	sort.Slice(earmarks, func(i, j int) bool {
		if earmarks[i].Number != earmarks[j].Number {
			return earmarks[i].Number < earmarks[j].Number
		}
		return earmarks[i].Amount > earmarks[j].Amount
	})
}
