package equity

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"rentscrape/internal/domain"
	"rentscrape/internal/scrape/types"
	"rentscrape/internal/scrape/util"
)

const DefaultBaseURL = "https://www.equityapartments.com"

// The availability data sits in an inline script as a plain JS assignment,
// one per page.
var availabilityPattern = regexp.MustCompile(`^\s*[A-Za-z0-9]+\.unitAvailability = (\{.*\})`)

type Config struct {
	URLPath string
	BaseURL string // defaults to DefaultBaseURL
}

// Source scrapes an Equity building page. The page embeds its availability
// data as a JSON blob inside a script element; extraction is two-stage so
// the failure modes (assignment never found vs. JSON malformed) stay
// distinct.
type Source struct {
	cfg    Config
	client *util.Client
	log    *slog.Logger
}

func New(cfg Config, client *util.Client, log *slog.Logger) *Source {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if log == nil {
		log = slog.Default()
	}
	return &Source{cfg: cfg, client: client, log: log}
}

func (s *Source) Kind() string { return "equity" }

type availability struct {
	BedroomTypes []bedroomType `json:"BedroomTypes"`
}

type bedroomType struct {
	BedroomCount   *int            `json:"BedroomCount"`
	AvailableUnits []availableUnit `json:"AvailableUnits"`
}

type availableUnit struct {
	UnitID   string    `json:"UnitId"`
	SqFt     *float64  `json:"SqFt"`
	BestTerm *bestTerm `json:"BestTerm"`
}

type bestTerm struct {
	Price *float64 `json:"Price"`
}

func (s *Source) Fetch(ctx context.Context) ([]domain.Listing, error) {
	reqURL := strings.TrimSuffix(s.cfg.BaseURL, "/") + "/" + strings.TrimPrefix(s.cfg.URLPath, "/")
	s.log.Debug("fetching", "source", s.Kind(), "url", reqURL)

	body, err := s.client.Get(ctx, reqURL)
	if err != nil {
		return nil, &types.TransportError{Kind: s.Kind(), URL: reqURL, Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &types.ParseError{Kind: s.Kind(), URL: reqURL, Err: err}
	}

	raw := ""
	doc.Find("script").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		raw = findAvailability(sel.Text())
		return raw == ""
	})
	if raw == "" {
		return nil, &types.ParseError{
			Kind: s.Kind(), URL: reqURL,
			Err: errors.New("unitAvailability assignment not found"),
		}
	}

	var decoded availability
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, &types.ParseError{Kind: s.Kind(), URL: reqURL, Err: err}
	}
	if decoded.BedroomTypes == nil {
		return nil, &types.ParseError{
			Kind: s.Kind(), URL: reqURL,
			Err: errors.New("missing BedroomTypes"),
		}
	}

	var out []domain.Listing
	for _, bt := range decoded.BedroomTypes {
		if bt.BedroomCount == nil || *bt.BedroomCount < 0 {
			s.log.Warn("skipping bedroom type without a bed count", "source", s.Kind())
			continue
		}
		for _, u := range bt.AvailableUnits {
			if u.UnitID == "" || u.SqFt == nil || *u.SqFt <= 0 || u.BestTerm == nil || u.BestTerm.Price == nil {
				s.log.Warn("skipping unit with missing fields",
					"source", s.Kind(), "unit", u.UnitID)
				continue
			}
			out = append(out, domain.Listing{
				Unit: u.UnitID,
				Rent: *u.BestTerm.Price,
				Size: *u.SqFt,
				Beds: *bt.BedroomCount,
			})
		}
	}
	return out, nil
}

// findAvailability scans script text line by line and returns the captured
// JSON fragment of the first unitAvailability assignment, or "".
func findAvailability(script string) string {
	sc := bufio.NewScanner(strings.NewReader(script))
	sc.Buffer(make([]byte, 0, 64*1024), 4<<20) // inline JSON lines can be very long
	for sc.Scan() {
		if m := availabilityPattern.FindStringSubmatch(sc.Text()); m != nil {
			return m[1]
		}
	}
	return ""
}
