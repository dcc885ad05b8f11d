// Package malegislature fetches the legislative roster from the public
// General Court API: the member list, per-member details, and committee
// membership with chair and vice chair titles. Responses are cached on
// disk so a full roster build only hits the network once per day.
package malegislature

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/beaconpay/beaconpay/internal/transport"
	"github.com/beaconpay/beaconpay/pkg/constants"
	"github.com/beaconpay/beaconpay/pkg/legislature"
	"github.com/beaconpay/beaconpay/pkg/logging"
)

const sourceName = "malegislature"

// Client fetches roster data.
type Client struct {
	http   *transport.Client
	cache  *transport.Cache
	base   string
	logger zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.base = base }
}

// WithCache attaches a response cache.
func WithCache(cache *transport.Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithTransport replaces the HTTP client.
func WithTransport(t *transport.Client) Option {
	return func(c *Client) { c.http = t }
}

// WithLogger sets the client logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a roster client.
func New(opts ...Option) *Client {
	c := &Client{
		http:   transport.New(),
		base:   constants.DefaultAPIBase,
		logger: *logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// memberStub is one entry of the member list endpoint.
type memberStub struct {
	MemberCode string `json:"MemberCode"`
}

// memberDetail is the per-member detail endpoint payload, reduced to
// the fields the roster needs.
type memberDetail struct {
	MemberCode         string `json:"MemberCode"`
	Name               string `json:"Name"`
	Branch             string `json:"Branch"`
	District           string `json:"District"`
	Party              string `json:"Party"`
	City               string `json:"City"`
	LeadershipPosition string `json:"LeadershipPosition"`
}

// FetchRoster assembles the full roster for a session: member list,
// per-member details fetched concurrently, then committee roles merged
// in. The result is sorted by member ID.
func (c *Client) FetchRoster(ctx context.Context, session int) (*legislature.Roster, error) {
	stubs, err := c.fetchMemberList(ctx, session)
	if err != nil {
		return nil, err
	}
	c.logger.Info().Int("session", session).Int("members", len(stubs)).Msg("member list fetched")

	members, err := c.fetchMemberDetails(ctx, session, stubs)
	if err != nil {
		return nil, err
	}

	if err := c.attachCommitteeRoles(ctx, session, members); err != nil {
		return nil, err
	}

	roster := &legislature.Roster{Session: session}
	for _, m := range members {
		roster.Members = append(roster.Members, *m)
	}
	sort.Slice(roster.Members, func(i, j int) bool {
		return roster.Members[i].ID < roster.Members[j].ID
	})
	return roster, nil
}

func (c *Client) fetchMemberList(ctx context.Context, session int) ([]memberStub, error) {
	var stubs []memberStub
	url := fmt.Sprintf("%s/GeneralCourts/%d/LegislativeMembers", c.base, session)
	if err := c.getJSON(ctx, url, &stubs); err != nil {
		return nil, err
	}
	return stubs, nil
}

func (c *Client) fetchMemberDetails(ctx context.Context, session int, stubs []memberStub) (map[string]*legislature.Member, error) {
	members := make(map[string]*legislature.Member, len(stubs))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(constants.MaxConcurrentFetches)

	for _, stub := range stubs {
		code := stub.MemberCode
		if code == "" {
			continue
		}
		g.Go(func() error {
			var detail memberDetail
			url := fmt.Sprintf("%s/GeneralCourts/%d/LegislativeMembers/%s", c.base, session, code)
			if err := c.getJSON(ctx, url, &detail); err != nil {
				return err
			}

			chamber, err := legislature.ParseChamber(detail.Branch)
			if err != nil {
				c.logger.Warn().Str("member", code).Str("branch", detail.Branch).Msg("skipping member with unknown chamber")
				return nil
			}

			m := &legislature.Member{
				ID:       detail.MemberCode,
				Name:     detail.Name,
				Chamber:  chamber,
				District: detail.District,
				Party:    detail.Party,
				Locality: detail.City,
			}
			if detail.LeadershipPosition != "" {
				if role, ok := legislature.ParsePosition(detail.LeadershipPosition); ok {
					m.Roles = append(m.Roles, legislature.RoleAssignment{Role: role})
				} else {
					c.logger.Warn().Str("member", code).Str("position", detail.LeadershipPosition).Msg("unrecognized leadership position")
				}
			}

			mu.Lock()
			members[m.ID] = m
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return members, nil
}

func (c *Client) getJSON(ctx context.Context, url string, target any) error {
	if c.cache != nil {
		body, err := c.cache.Fetch(ctx, c.http, sourceName, url)
		if err != nil {
			return err
		}
		return transport.DecodeJSON(sourceName, url, body, target)
	}
	return c.http.GetJSON(ctx, sourceName, url, target)
}
