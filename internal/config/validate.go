package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string
	Warnings []string
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}

func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate trims building entries, fills scrape-tuning defaults,
// and reports anything that would make the registry unusable.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	seen := map[string]bool{}
	for i := range out.Buildings {
		b := &out.Buildings[i]
		b.Name = strings.TrimSpace(b.Name)
		b.Source = strings.ToLower(strings.TrimSpace(b.Source))
		b.CommunityCode = strings.TrimSpace(b.CommunityCode)
		b.URLPath = strings.TrimSpace(b.URLPath)

		if b.Name == "" {
			res.addErr("buildings[%d]: name is required", i)
		} else if seen[b.Name] {
			res.addErr("buildings[%d]: duplicate name %q", i, b.Name)
		}
		seen[b.Name] = true

		switch b.Source {
		case SourceAvalon:
			if b.CommunityCode == "" {
				res.addErr("buildings[%d] (%s): community_code is required for avalon", i, b.Name)
			}
		case SourceEquity:
			if b.URLPath == "" {
				res.addErr("buildings[%d] (%s): url_path is required for equity", i, b.Name)
			}
		default:
			res.addErr("buildings[%d] (%s): unknown source %q", i, b.Name, b.Source)
		}
	}

	if len(out.Buildings) == 0 {
		res.addWarn("no buildings configured; every run will produce an empty report")
	}

	if out.Scrape.TimeoutSeconds <= 0 {
		out.Scrape.TimeoutSeconds = 20
	}
	if out.Scrape.RequestsPerSec <= 0 {
		out.Scrape.RequestsPerSec = 2
	}
	if out.Scrape.Burst <= 0 {
		out.Scrape.Burst = 1
	}
	if out.Scrape.MaxInFlight <= 0 {
		out.Scrape.MaxInFlight = 4
	}
	if out.Scrape.RequestsPerSec > 10 {
		res.addWarn("scrape.requests_per_sec is high (%.0f); landlord sites may block the run",
			out.Scrape.RequestsPerSec)
	}

	return out, res
}
