package avalon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"rentscrape/internal/domain"
	"rentscrape/internal/scrape/types"
	"rentscrape/internal/scrape/util"
)

const DefaultBaseURL = "https://api.avalonbay.com"

type Config struct {
	CommunityCode string
	BaseURL       string // defaults to DefaultBaseURL
}

// Source scrapes the Avalon apartment-search API for one building. The
// response is JSON nested three levels deep: floor-plan types carry the bed
// count (first character of the type code), floor plans carry the estimated
// size, and finish packages carry the individual apartments.
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

func (s *Source) Kind() string { return "avalon" }

type searchResponse struct {
	Results *searchResults `json:"results"`
}

type searchResults struct {
	AvailableFloorPlanTypes []floorPlanType `json:"availableFloorPlanTypes"`
}

type floorPlanType struct {
	FloorPlanTypeCode   string      `json:"floorPlanTypeCode"`
	AvailableFloorPlans []floorPlan `json:"availableFloorPlans"`
}

type floorPlan struct {
	EstimatedSize  *float64        `json:"estimatedSize"`
	FinishPackages []finishPackage `json:"finishPackages"`
}

type finishPackage struct {
	Apartments []apartment `json:"apartments"`
}

type apartment struct {
	ApartmentNumber string   `json:"apartmentNumber"`
	Pricing         *pricing `json:"pricing"`
}

type pricing struct {
	EffectiveRent *float64 `json:"effectiveRent"`
}

func (s *Source) Fetch(ctx context.Context) ([]domain.Listing, error) {
	// The trailing timestamp defeats intermediate caching; it carries no
	// meaning for the API itself.
	reqURL := fmt.Sprintf("%s/json/reply/ApartmentSearch?communityCode=%s&_=%d",
		s.cfg.BaseURL, s.cfg.CommunityCode, time.Now().UnixMilli())
	s.log.Debug("fetching", "source", s.Kind(), "url", reqURL)

	body, err := s.client.Get(ctx, reqURL)
	if err != nil {
		return nil, &types.TransportError{Kind: s.Kind(), URL: reqURL, Err: err}
	}

	var decoded searchResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, &types.ParseError{Kind: s.Kind(), URL: reqURL, Err: err}
	}
	if decoded.Results == nil || decoded.Results.AvailableFloorPlanTypes == nil {
		return nil, &types.ParseError{
			Kind: s.Kind(), URL: reqURL,
			Err: errors.New("missing results.availableFloorPlanTypes"),
		}
	}

	var out []domain.Listing
	for _, fpt := range decoded.Results.AvailableFloorPlanTypes {
		beds, ok := bedsFromTypeCode(fpt.FloorPlanTypeCode)
		if !ok {
			s.log.Warn("skipping floor plan type with unusable code",
				"source", s.Kind(), "code", fpt.FloorPlanTypeCode)
			continue
		}
		for _, fp := range fpt.AvailableFloorPlans {
			if fp.EstimatedSize == nil || *fp.EstimatedSize <= 0 {
				s.log.Warn("skipping floor plan without a positive size",
					"source", s.Kind(), "beds", beds)
				continue
			}
			size := *fp.EstimatedSize
			for _, pkg := range fp.FinishPackages {
				for _, apt := range pkg.Apartments {
					if apt.ApartmentNumber == "" || apt.Pricing == nil || apt.Pricing.EffectiveRent == nil {
						s.log.Warn("skipping apartment with missing fields",
							"source", s.Kind(), "unit", apt.ApartmentNumber)
						continue
					}
					out = append(out, domain.Listing{
						Unit: apt.ApartmentNumber,
						Rent: *apt.Pricing.EffectiveRent,
						Size: size,
						Beds: beds,
					})
				}
			}
		}
	}
	return out, nil
}

// bedsFromTypeCode reads the bed count encoded as the leading character of a
// floor-plan type code ("2BD" -> 2).
func bedsFromTypeCode(code string) (int, bool) {
	if code == "" {
		return 0, false
	}
	n, err := strconv.Atoi(code[:1])
	if err != nil {
		return 0, false
	}
	return n, true
}
