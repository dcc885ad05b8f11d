// Package payroll fetches and aggregates the statewide payroll feed.
// The feed is row-per-payment CSV; this package filters it to the two
// legislative agencies and rolls it up to one record per person per
// year, the shape reconciliation consumes.
package payroll

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/beaconpay/beaconpay/internal/transport"
	"github.com/beaconpay/beaconpay/pkg/constants"
	"github.com/beaconpay/beaconpay/pkg/errors"
	"github.com/beaconpay/beaconpay/pkg/logging"
	"github.com/beaconpay/beaconpay/pkg/reconcile"
)

const sourceName = "payroll"

// Feed columns. The upstream occasionally reorders columns, so parsing
// is header-driven rather than positional.
const (
	colFirst  = "name_first"
	colLast   = "name_last"
	colAgency = "department_division"
	colPay    = "pay_total_actual"
	colYear   = "year"
)

// AgencyStats aggregates the rows of one agency.
type AgencyStats struct {
	Rows     int     `json:"rows"`
	People   int     `json:"people"`
	TotalPay float64 `json:"total_pay"`
}

// Feed is a parsed payroll extract.
type Feed struct {
	Year     int                       `json:"year"`
	Records  []reconcile.PayrollRecord `json:"records"`
	Agencies map[string]AgencyStats    `json:"agencies"`
}

// Client fetches the payroll feed.
type Client struct {
	http   *transport.Client
	cache  *transport.Cache
	url    string
	logger zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithURL overrides the feed URL.
func WithURL(url string) Option {
	return func(c *Client) { c.url = url }
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

// New creates a payroll client.
func New(opts ...Option) *Client {
	c := &Client{
		http:   transport.New(transport.WithTimeout(constants.PayrollFetchTimeout)),
		url:    constants.DefaultPayrollURL,
		logger: *logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch downloads and parses the feed for one calendar year.
func (c *Client) Fetch(ctx context.Context, year int) (*Feed, error) {
	url := fmt.Sprintf("%s?$limit=500000&year=%d", c.url, year)

	var body []byte
	var err error
	if c.cache != nil {
		body, err = c.cache.Fetch(ctx, c.http, sourceName, url)
	} else {
		body, err = c.http.Get(ctx, sourceName, url)
	}
	if err != nil {
		return nil, err
	}

	feed, err := Parse(body, year)
	if err != nil {
		return nil, err
	}
	c.logger.Info().
		Int("year", year).
		Int("people", len(feed.Records)).
		Msg("payroll feed parsed")
	return feed, nil
}

// legislativeAgency reports whether an agency name belongs to either
// chamber of the legislature.
func legislativeAgency(agency string) bool {
	a := strings.ToLower(agency)
	return strings.Contains(a, "house of representatives") || strings.HasPrefix(a, "senate")
}

// Parse reads the raw CSV and aggregates legislative rows per person.
// Records come back sorted by last then first name.
func Parse(data []byte, year int) (*Feed, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, errors.WrapParse("csv", "payroll feed", err)
	}
	idx, err := headerIndex(header)
	if err != nil {
		return nil, err
	}

	type person struct {
		first, last string
		pay         float64
		agencies    map[string]bool
	}
	people := map[string]*person{}
	agencies := map[string]AgencyStats{}
	agencyPeople := map[string]map[string]bool{}

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.WrapParse("csv", "payroll feed", err)
		}

		agency := field(row, idx[colAgency])
		if !legislativeAgency(agency) {
			continue
		}
		if yi, ok := idx[colYear]; ok {
			if parsed, err := strconv.Atoi(field(row, yi)); err == nil && parsed != year {
				continue
			}
		}

		first := strings.TrimSpace(field(row, idx[colFirst]))
		last := strings.TrimSpace(field(row, idx[colLast]))
		if first == "" && last == "" {
			continue
		}
		pay, err := strconv.ParseFloat(strings.ReplaceAll(field(row, idx[colPay]), ",", ""), 64)
		if err != nil {
			continue
		}

		key := strings.ToLower(last + "|" + first)
		p, ok := people[key]
		if !ok {
			p = &person{first: first, last: last, agencies: map[string]bool{}}
			people[key] = p
		}
		p.pay += pay
		p.agencies[agency] = true

		stats := agencies[agency]
		stats.Rows++
		stats.TotalPay += pay
		agencies[agency] = stats
		if agencyPeople[agency] == nil {
			agencyPeople[agency] = map[string]bool{}
		}
		agencyPeople[agency][key] = true
	}

	for agency, stats := range agencies {
		stats.People = len(agencyPeople[agency])
		agencies[agency] = stats
	}

	feed := &Feed{Year: year, Agencies: agencies}
	for _, p := range people {
		var names []string
		for agency := range p.agencies {
			names = append(names, agency)
		}
		sort.Strings(names)
		feed.Records = append(feed.Records, reconcile.PayrollRecord{
			First:    p.first,
			Last:     p.last,
			Pay:      p.pay,
			Agencies: names,
			Year:     year,
		})
	}
	sort.Slice(feed.Records, func(i, j int) bool {
		if feed.Records[i].Last != feed.Records[j].Last {
			return feed.Records[i].Last < feed.Records[j].Last
		}
		return feed.Records[i].First < feed.Records[j].First
	})

	return feed, nil
}

func headerIndex(header []string) (map[string]int, error) {
	idx := map[string]int{}
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{colFirst, colLast, colAgency, colPay} {
		if _, ok := idx[required]; !ok {
			return nil, errors.WrapParse("csv", "payroll feed",
				fmt.Errorf("missing column %q", required))
		}
	}
	return idx, nil
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
