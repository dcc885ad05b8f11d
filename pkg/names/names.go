// Package names produces join keys for matching legislator names across
// data sources. The roster and the payroll feed spell the same person
// differently: diacritics, nicknames, middle initials, generational
// suffixes, hyphenated and truncated surnames. A join key collapses all
// of that to a deterministic token pair so the two sides line up.
package names

import (
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/goccy/go-yaml"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/beaconpay/beaconpay/pkg/errors"
)

// suffixes are generational and honorific tokens dropped during
// normalization.
var suffixes = map[string]struct{}{
	"jr":  {},
	"sr":  {},
	"ii":  {},
	"iii": {},
	"iv":  {},
	"v":   {},
	"esq": {},
}

// deaccent strips combining marks so accented and plain spellings of
// the same name produce one key.
var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Config is the on-disk normalization table: nickname equivalences
// applied to name tokens, and manual overrides for names the mechanical
// rules cannot reconcile. Override keys are nickname-normalized
// full-name strings; override values are final join keys.
type Config struct {
	Nicknames map[string]string `yaml:"nicknames"`
	Overrides map[string]string `yaml:"overrides"`
}

// Normalizer computes join keys for legislator names.
type Normalizer struct {
	nicknames map[string]string
	overrides map[string]string
}

// Load reads a normalization table YAML and returns a Normalizer.
func Load(path string) (*Normalizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError("names", "cannot read "+path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.NewConfigError("names", "cannot parse "+path, err)
	}
	return NewNormalizer(cfg), nil
}

// NewNormalizer builds a Normalizer from an in-memory table. Nil maps
// are fine; the mechanical rules still apply.
func NewNormalizer(cfg Config) *Normalizer {
	n := &Normalizer{nicknames: cfg.Nicknames, overrides: cfg.Overrides}
	if n.nicknames == nil {
		n.nicknames = map[string]string{}
	}
	if n.overrides == nil {
		n.overrides = map[string]string{}
	}
	return n
}

// Key returns the join key for a full name. The key is the first and
// last remaining tokens, sorted, so "First Last" and "Last First"
// orderings from different feeds produce the same key. Empty input
// yields an empty key.
func (n *Normalizer) Key(name string) string {
	tokens := n.tokens(name)
	for i, tok := range tokens {
		if nick, ok := n.nicknames[tok]; ok {
			tokens[i] = nick
		}
	}

	// The override table is consulted after nickname substitution so a
	// nicknamed spelling of an override-listed name still hits its
	// entry, and the override value is the final key.
	if joined := strings.Join(tokens, " "); joined != "" {
		if replacement, ok := n.overrides[joined]; ok {
			return replacement
		}
	}

	if len(tokens) == 0 {
		return ""
	}

	pair := []string{tokens[0]}
	if len(tokens) > 1 {
		pair = append(pair, tokens[len(tokens)-1])
	}
	sort.Strings(pair)
	return strings.Join(pair, " ")
}

// KeyParts returns the join key for a name already split into first and
// last components, as the payroll feed provides them.
func (n *Normalizer) KeyParts(first, last string) string {
	return n.Key(first + " " + last)
}

// tokens lowercases, deaccents, strips punctuation and suffixes, and
// truncates hyphenated compounds to their first segment.
func (n *Normalizer) tokens(name string) []string {
	s, _, err := transform.String(deaccent, name)
	if err != nil {
		s = name
	}
	s = strings.ToLower(s)

	// Apostrophes and separators become token boundaries so truncated
	// forms in the payroll feed still line up.
	s = strings.NewReplacer("'", " ", "’", " ", ".", " ", ",", " ").Replace(s)

	var out []string
	for _, tok := range strings.Fields(s) {
		// Hyphenated surnames keep the first segment only; the payroll
		// feed routinely drops the second.
		if i := strings.IndexByte(tok, '-'); i > 0 {
			tok = tok[:i]
		}
		tok = strings.Trim(tok, "-")
		if tok == "" {
			continue
		}
		if _, ok := suffixes[tok]; ok {
			continue
		}
		out = append(out, tok)
	}
	return out
}
