package earmark

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/beaconpay/beaconpay/pkg/logging"
)

// Classification is the scorer's verdict on one amendment.
type Classification struct {
	IsEarmark     bool     `json:"is_earmark"`
	Confidence    float64  `json:"confidence"`
	Score         float64  `json:"score"`
	Geographic    bool     `json:"geographic_specific"`
	Organization  bool     `json:"organization_specific"`
	Project       bool     `json:"project_specific"`
	AmountInRange bool     `json:"amount_in_range"`
	Routine       bool     `json:"routine_indicators"`
	Signals       []string `json:"signals,omitempty"`
	Source        string   `json:"source"`
}

// Signal sources.
const (
	SourceRules   = "rules"
	SourceAdvisor = "advisor"
)

// Scoring weights and thresholds. Scores above scoreThreshold classify
// as earmarks; confidences below ambiguousConfidence get a second
// opinion when an advisor is configured.
const (
	weightBoilerplate  = 1.5
	weightGeographic   = 1.0
	weightOrganization = 0.8
	weightProject      = 0.7
	weightAmount       = 0.3
	weightRoutine      = 0.7

	scoreThreshold      = 1.5
	ambiguousConfidence = 0.7

	minEarmarkAmount = 5_000
	maxEarmarkAmount = 3_000_000
)

// boilerplatePatterns are the statutory phrasings budget earmarks are
// drafted in. Each match raises confidence in the boilerplate signal.
var boilerplatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bprovided\s+further,?\s+that\b`),
	regexp.MustCompile(`(?i)\bprovided,?\s+that\b`),
	regexp.MustCompile(`(?i)\bshall\s+be\s+expended\s+for\b`),
	regexp.MustCompile(`(?i)\bshall\s+be\s+provided\s+to\b`),
	regexp.MustCompile(`(?i)\bnot\s+less\s+than\s+\$[\d,]+`),
	regexp.MustCompile(`(?i)\bup\s+to\s+\$[\d,]+\s+(?:shall|may)\b`),
	regexp.MustCompile(`(?i)\bfor\s+the\s+purpose\s+of\b`),
	regexp.MustCompile(`(?i)\bin\s+the\s+(?:city|town)\s+of\b`),
	regexp.MustCompile(`(?i)\bfor\s+(?:the\s+)?benefit\s+of\b`),
}

// geographicPatterns catch place references that are not in the
// locality table, like neighborhoods and county names.
var geographicPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:city|town|village|municipality)\s+of\s+[A-Z][a-z]+`),
	regexp.MustCompile(`\b[A-Z][a-z]+\s+(?:County|Neighborhood|District)\b`),
	regexp.MustCompile(`(?i)\blocated\s+in\b`),
}

// properNamePattern approximates named organizations and facilities:
// two to four capitalized words in a row.
var properNamePattern = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3}\b`)

var organizationKeywords = []string{
	"center", "association", "foundation", "society", "museum", "library",
	"coalition", "council", "club", "institute", "alliance", "committee",
	"organization", "community", "nonprofit", "chamber of commerce", "ymca",
}

var projectKeywords = []string{
	"renovation", "construction", "repair", "restoration", "improvement",
	"upgrade", "expansion", "rehabilitation", "replacement", "installation",
	"feasibility study", "design", "planning", "park", "playground",
	"sidewalk", "roadway", "bridge", "sewer", "water main",
}

var routineKeywords = []string{
	"statewide", "administered by", "operating expenses", "administrative costs",
	"personnel costs", "salaries and expenses", "rates paid", "reimbursement rate",
	"eligibility", "formula", "per capita", "all cities and towns",
	"department shall", "commissioner shall", "annual report",
}

// Classifier scores amendments for member-directed spending. The
// locality set grounds the geographic signal in the same table distance
// banding uses, so a named town counts more than a generic place
// pattern.
type Classifier struct {
	localities map[string]struct{}
	logger     zerolog.Logger
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithLogger sets the classifier logger.
func WithLogger(logger zerolog.Logger) ClassifierOption {
	return func(c *Classifier) { c.logger = logger }
}

// NewClassifier builds a Classifier over a set of known locality names.
func NewClassifier(localities []string, opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		localities: make(map[string]struct{}, len(localities)),
		logger:     *logging.Default(),
	}
	for _, name := range localities {
		c.localities[strings.ToLower(name)] = struct{}{}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify scores one amendment. Positive signals accumulate weighted
// score, routine-language signals subtract, and the final confidence is
// a sigmoid around the decision threshold clamped to [0.1, 0.95].
func (c *Classifier) Classify(a Amendment) Classification {
	text := a.Text()
	lower := strings.ToLower(text)

	result := Classification{Source: SourceRules}
	var score float64

	if n := countPatterns(boilerplatePatterns, text); n > 0 {
		conf := math.Min(0.95, 0.6+0.15*float64(n))
		score += weightBoilerplate * conf
		result.Signals = append(result.Signals, fmt.Sprintf("boilerplate x%d", n))
	}

	if conf, ok := c.geographicConfidence(text, lower); ok {
		score += weightGeographic * conf
		result.Geographic = true
		result.Signals = append(result.Signals, "geographic")
	}

	if conf, ok := organizationConfidence(text, lower); ok {
		score += weightOrganization * conf
		result.Organization = true
		result.Signals = append(result.Signals, "organization")
	}

	if conf, ok := projectConfidence(lower); ok {
		score += weightProject * conf
		result.Project = true
		result.Signals = append(result.Signals, "project")
	}

	if conf, ok := amountConfidence(a.Amount); ok {
		score += weightAmount * conf
		result.AmountInRange = true
		result.Signals = append(result.Signals, "amount")
	}
	if a.Amount > 1_000_000 {
		score -= math.Min(0.8, 0.2*math.Log10(a.Amount/1_000_000))
	}

	if conf, ok := routineConfidence(lower); ok {
		score -= weightRoutine * conf
		result.Routine = true
		result.Signals = append(result.Signals, "routine")
	}

	result.Score = score
	result.IsEarmark = score >= scoreThreshold
	result.Confidence = clamp(1/(1+math.Exp(-2*(score-scoreThreshold))), 0.1, 0.95)

	c.logger.Debug().
		Str("amendment", a.Number).
		Float64("score", score).
		Bool("earmark", result.IsEarmark).
		Strs("signals", result.Signals).
		Msg("classified amendment")

	return result
}

// ClassifyAll classifies every amendment and keeps the earmarks. When
// an advisor is configured, results below the ambiguity threshold get a
// second opinion and the higher-confidence verdict wins. Advisor
// failures are logged and the rules verdict stands.
func (c *Classifier) ClassifyAll(ctx context.Context, amendments []Amendment, advisor Advisor) []Earmark {
	var earmarks []Earmark
	for _, a := range amendments {
		cls := c.Classify(a)
		if advisor != nil && cls.Confidence < ambiguousConfidence {
			advice, err := advisor.Advise(ctx, a.Text(), a.Amount)
			switch {
			case err != nil:
				c.logger.Warn().Err(err).Str("amendment", a.Number).Msg("advisor unavailable")
			case advice.Confidence > cls.Confidence:
				cls.IsEarmark = advice.IsEarmark
				cls.Confidence = advice.Confidence
				cls.Source = SourceAdvisor
				if advice.Reasoning != "" {
					cls.Signals = append(cls.Signals, advice.Reasoning)
				}
			}
		}
		if cls.IsEarmark {
			earmarks = append(earmarks, Earmark{Amendment: a, Classification: cls})
		}
	}
	return earmarks
}

func (c *Classifier) geographicConfidence(text, lower string) (float64, bool) {
	for name := range c.localities {
		if strings.Contains(lower, name) {
			return 0.9, true
		}
	}
	for _, p := range geographicPatterns {
		if p.MatchString(text) {
			return 0.8, true
		}
	}
	return 0, false
}

func organizationConfidence(text, lower string) (float64, bool) {
	n := countKeywords(organizationKeywords, lower)
	switch {
	case n >= 2:
		return 0.9, true
	case n == 1:
		return 0.7, true
	case len(properNamePattern.FindAllString(text, 3)) >= 2:
		return 0.6, true
	}
	return 0, false
}

func projectConfidence(lower string) (float64, bool) {
	switch n := countKeywords(projectKeywords, lower); {
	case n >= 2:
		return 0.8, true
	case n == 1:
		return 0.6, true
	}
	return 0, false
}

// amountConfidence reflects the historical distribution of earmark
// sizes: most fall between $25K and $1M, a tail reaches $3M.
func amountConfidence(amount float64) (float64, bool) {
	if amount < minEarmarkAmount || amount > maxEarmarkAmount {
		return 0, false
	}
	switch {
	case amount >= 25_000 && amount <= 1_000_000:
		return 0.9, true
	case amount > 1_000_000:
		return 0.6, true
	}
	return 0.7, true
}

func routineConfidence(lower string) (float64, bool) {
	switch n := countKeywords(routineKeywords, lower); {
	case n >= 3:
		return 0.9, true
	case n == 2:
		return 0.7, true
	case n == 1:
		return 0.5, true
	}
	return 0, false
}

func countPatterns(patterns []*regexp.Regexp, text string) int {
	n := 0
	for _, p := range patterns {
		n += len(p.FindAllString(text, -1))
	}
	return n
}

func countKeywords(keywords []string, lower string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
