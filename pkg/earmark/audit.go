package earmark

import (
	"sort"

	"github.com/beaconpay/beaconpay/pkg/legislature"
)

// auditTextLimit caps the raw text carried into audit rows so the CSV
// stays reviewable in a spreadsheet.
const auditTextLimit = 800

// AuditRow is one earmark prepared for manual verification. The
// Verification column is left empty for the reviewer to fill in.
type AuditRow struct {
	AmendmentNumber string
	Chamber         string
	LineItem        string
	Amount          float64
	AssignedTo      string
	MemberID        string
	District        string
	Sponsor         string
	Confidence      float64
	Method          string
	Page            int
	Text            string
	Verification    string
}

// AuditRows flattens an attribution into verification rows: mapped
// earmarks grouped by member in member-ID order, unknowns last. Within
// a member, rows follow amendment-number order so reruns produce
// byte-identical reports.
func AuditRows(att *Attribution, roster *legislature.Roster) []AuditRow {
	byID := make(map[string]*legislature.Member, len(roster.Members))
	for i := range roster.Members {
		byID[roster.Members[i].ID] = &roster.Members[i]
	}

	memberIDs := make([]string, 0, len(att.ByMember))
	for id := range att.ByMember {
		memberIDs = append(memberIDs, id)
	}
	sort.Strings(memberIDs)

	var rows []AuditRow
	for _, id := range memberIDs {
		earmarks := append([]Earmark(nil), att.ByMember[id]...)
		sortEarmarks(earmarks)
		for _, e := range earmarks {
			row := auditRow(e)
			if member, ok := byID[id]; ok {
				row.AssignedTo = member.Name
				row.MemberID = member.ID
				row.District = member.District
			}
			rows = append(rows, row)
		}
	}

	unknown := append([]Earmark(nil), att.Unknown...)
	sortEarmarks(unknown)
	for _, e := range unknown {
		row := auditRow(e)
		row.AssignedTo = UnknownMember
		rows = append(rows, row)
	}
	return rows
}

func auditRow(e Earmark) AuditRow {
	text := e.Text()
	if len(text) > auditTextLimit {
		text = text[:auditTextLimit]
	}
	row := AuditRow{
		AmendmentNumber: e.Number,
		Chamber:         e.Chamber,
		LineItem:        e.LineItem,
		Amount:          e.Amount,
		Sponsor:         e.Sponsor,
		Page:            e.Page,
		Text:            text,
	}
	if e.Mapping != nil {
		row.Confidence = e.Mapping.Confidence
		row.Method = e.Mapping.Method
	}
	return row
}

// MemberSummary aggregates one member's earmarks.
type MemberSummary struct {
	MemberID string  `json:"member_id"`
	Name     string  `json:"name"`
	Chamber  string  `json:"chamber"`
	District string  `json:"district"`
	Party    string  `json:"party"`
	Count    int     `json:"count"`
	Total    float64 `json:"total"`
	Average  float64 `json:"average"`
	Largest  float64 `json:"largest"`
}

// MemberSummaries aggregates attribution per member, sorted by total
// dollars descending with member ID as the tiebreak. The unknown
// bucket appears last regardless of size.
func MemberSummaries(att *Attribution, roster *legislature.Roster) []MemberSummary {
	byID := make(map[string]*legislature.Member, len(roster.Members))
	for i := range roster.Members {
		byID[roster.Members[i].ID] = &roster.Members[i]
	}

	summaries := make([]MemberSummary, 0, len(att.ByMember)+1)
	for id, earmarks := range att.ByMember {
		s := MemberSummary{MemberID: id}
		if member, ok := byID[id]; ok {
			s.Name = member.Name
			s.Chamber = string(member.Chamber)
			s.District = member.District
			s.Party = member.Party
		}
		for _, e := range earmarks {
			s.Count++
			s.Total += e.Amount
			if e.Amount > s.Largest {
				s.Largest = e.Amount
			}
		}
		if s.Count > 0 {
			s.Average = s.Total / float64(s.Count)
		}
		summaries = append(summaries, s)
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Total != summaries[j].Total {
			return summaries[i].Total > summaries[j].Total
		}
		return summaries[i].MemberID < summaries[j].MemberID
	})

	if len(att.Unknown) > 0 {
		s := MemberSummary{MemberID: UnknownMember, Name: "Unattributed"}
		for _, e := range att.Unknown {
			s.Count++
			s.Total += e.Amount
			if e.Amount > s.Largest {
				s.Largest = e.Amount
			}
		}
		s.Average = s.Total / float64(s.Count)
		summaries = append(summaries, s)
	}
	return summaries
}
