package malegislature

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/beaconpay/beaconpay/pkg/constants"
	"github.com/beaconpay/beaconpay/pkg/legislature"
)

// committeeStub is one entry of the committee list endpoint.
type committeeStub struct {
	CommitteeCode string `json:"CommitteeCode"`
	FullName      string `json:"FullName"`
}

// committeeDetail is the per-committee detail payload.
type committeeDetail struct {
	CommitteeCode string            `json:"CommitteeCode"`
	FullName      string            `json:"FullName"`
	Members       []committeeMember `json:"Members"`
}

type committeeMember struct {
	MemberCode string `json:"MemberCode"`
	Title      string `json:"Title"`
}

// attachCommitteeRoles fetches every committee's membership and merges
// chair and vice chair assignments onto the members. Plain committee
// membership carries no stipend and is not recorded as a role.
func (c *Client) attachCommitteeRoles(ctx context.Context, session int, members map[string]*legislature.Member) error {
	var stubs []committeeStub
	url := fmt.Sprintf("%s/GeneralCourts/%d/Committees", c.base, session)
	if err := c.getJSON(ctx, url, &stubs); err != nil {
		return err
	}
	c.logger.Info().Int("committees", len(stubs)).Msg("committee list fetched")

	type assignment struct {
		memberID string
		ra       legislature.RoleAssignment
	}
	var assignments []assignment
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(constants.MaxConcurrentFetches)

	for _, stub := range stubs {
		code := stub.CommitteeCode
		if code == "" {
			continue
		}
		g.Go(func() error {
			var detail committeeDetail
			url := fmt.Sprintf("%s/GeneralCourts/%d/Committees/%s", c.base, session, code)
			if err := c.getJSON(ctx, url, &detail); err != nil {
				return err
			}

			for _, cm := range detail.Members {
				role, ok := legislature.ParsePosition(cm.Title)
				if !ok || !role.CommitteeRole() {
					continue
				}
				mu.Lock()
				assignments = append(assignments, assignment{
					memberID: cm.MemberCode,
					ra:       legislature.RoleAssignment{Role: role, Committee: detail.FullName},
				})
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	// Apply in a deterministic order; the fan-out completes in
	// arbitrary order.
	sort.Slice(assignments, func(i, j int) bool {
		if assignments[i].memberID != assignments[j].memberID {
			return assignments[i].memberID < assignments[j].memberID
		}
		return assignments[i].ra.Committee < assignments[j].ra.Committee
	})
	for _, a := range assignments {
		if m, ok := members[a.memberID]; ok {
			m.Roles = append(m.Roles, a.ra)
		}
	}
	return nil
}
