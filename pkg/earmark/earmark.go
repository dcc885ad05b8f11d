// Package earmark identifies member-directed spending in budget
// amendments, attributes each earmark to its sponsoring legislator, and
// produces audit rows for manual verification. Classification is a
// weighted-signal scorer over the amendment text; ambiguous results can
// be escalated to a language-model advisor.
package earmark

import (
	"encoding/json"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/beaconpay/beaconpay/pkg/errors"
)

// Amendment is one budget amendment as extracted from the amendment
// book. Only Description is mandatory; Number, Amount, and LineItem are
// backfilled from the raw text when the extraction left them empty.
type Amendment struct {
	Number      string  `json:"number"`
	Chamber     string  `json:"chamber,omitempty"`
	FiscalYear  int     `json:"fiscal_year,omitempty"`
	LineItem    string  `json:"line_item,omitempty"`
	Sponsor     string  `json:"sponsor,omitempty"`
	Description string  `json:"description"`
	RawText     string  `json:"raw_text,omitempty"`
	Amount      float64 `json:"amount,omitempty"`
	Page        int     `json:"page,omitempty"`
}

// Text returns the richest text available for classification.
func (a *Amendment) Text() string {
	if a.RawText != "" {
		return a.RawText
	}
	return a.Description
}

// Earmark is an amendment the classifier flagged as member-directed
// spending, together with its classification and, once attributed, the
// sponsor-to-member mapping.
type Earmark struct {
	Amendment
	Classification Classification `json:"classification"`
	Mapping        *Mapping       `json:"mapping,omitempty"`
}

// LoadAmendments reads an amendment book JSON file and backfills the
// fields the upstream extraction commonly leaves empty.
func LoadAmendments(path string) ([]Amendment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	amendments, err := ParseAmendments(data)
	if err != nil {
		return nil, errors.WrapParse("json", path, err)
	}
	return amendments, nil
}

// ParseAmendments decodes an amendment book and backfills missing
// amounts, line items, and amendment numbers from the raw text.
func ParseAmendments(data []byte) ([]Amendment, error) {
	var amendments []Amendment
	if err := json.Unmarshal(data, &amendments); err != nil {
		return nil, err
	}
	for i := range amendments {
		a := &amendments[i]
		if strings.TrimSpace(a.Description) == "" && strings.TrimSpace(a.RawText) == "" {
			return nil, errors.WrapValidation("description",
				errors.New("amendment "+strconv.Itoa(i)+" has no text"))
		}
		if a.Amount == 0 {
			if amount, ok := ExtractAmount(a.Text()); ok {
				a.Amount = amount
			}
		}
		if a.LineItem == "" {
			if item, ok := ExtractLineItem(a.Text()); ok {
				a.LineItem = item
			}
		}
		if a.Number == "" {
			if number, ok := ExtractNumber(a.Text()); ok {
				a.Number = number
			}
		}
	}
	return amendments, nil
}

// Amount extraction handles the spellings the amendment book uses:
// "$50K", "1.5M", "$1,000,000", and bare figures of at least four
// digits. Suffixed forms win over exact forms so "$1.5M" does not parse
// as 1.5.
var (
	amountThousands = regexp.MustCompile(`(?i)\$?\s*(\d+(?:\.\d+)?)\s*K\b`)
	amountMillions  = regexp.MustCompile(`(?i)\$?\s*(\d+(?:\.\d+)?)\s*M\b`)
	amountExact     = regexp.MustCompile(`\$\s*([\d,]+(?:\.\d{2})?)`)
	amountBare      = regexp.MustCompile(`\b(\d{1,3}(?:,\d{3})+|\d{4,})\b`)

	lineItemPattern = regexp.MustCompile(`\b(\d{4}-\d{4})\b`)
	numberLeading   = regexp.MustCompile(`^\s*(\d{1,4})\s+[A-Z]`)
	numberLabeled   = regexp.MustCompile(`(?i)amendment\s*#?\s*(\d{1,4})`)
)

// ExtractAmount pulls a dollar amount from amendment text. Bare
// numbers under 1000 are ignored because they are almost always line
// counts or section references, not appropriations.
func ExtractAmount(text string) (float64, bool) {
	if m := amountMillions.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v * 1e6, true
		}
	}
	if m := amountThousands.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v * 1e3, true
		}
	}
	if m := amountExact.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
			return v, true
		}
	}
	if m := amountBare.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil && v >= 1000 {
			return v, true
		}
	}
	return 0, false
}

// ExtractLineItem pulls the budget line item (NNNN-NNNN) the amendment
// modifies.
func ExtractLineItem(text string) (string, bool) {
	if m := lineItemPattern.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	return "", false
}

// ExtractNumber pulls the amendment number, either from a leading
// "NNN Title" heading or from an "Amendment #NNN" label.
func ExtractNumber(text string) (string, bool) {
	if m := numberLeading.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	if m := numberLabeled.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	return "", false
}
