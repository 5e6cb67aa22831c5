package registry

import (
	"fmt"
	"log/slog"

	"rentscrape/internal/config"
	"rentscrape/internal/scrape/avalon"
	"rentscrape/internal/scrape/equity"
	"rentscrape/internal/scrape/types"
	"rentscrape/internal/scrape/util"
)

// Building pairs a display name with its configured source adapter.
type Building struct {
	Name   string
	Source types.Source
}

// Registry is the fixed, ordered set of configured buildings. Assembled once
// at startup, never mutated afterwards.
type Registry struct {
	buildings []Building
}

func New(cfg config.Config, client *util.Client, log *slog.Logger) (*Registry, error) {
	buildings := make([]Building, 0, len(cfg.Buildings))
	for _, b := range cfg.Buildings {
		var src types.Source
		switch b.Source {
		case config.SourceAvalon:
			src = avalon.New(avalon.Config{CommunityCode: b.CommunityCode}, client, log)
		case config.SourceEquity:
			src = equity.New(equity.Config{URLPath: b.URLPath}, client, log)
		default:
			return nil, fmt.Errorf("building %q: unknown source %q", b.Name, b.Source)
		}
		buildings = append(buildings, Building{Name: b.Name, Source: src})
	}
	return &Registry{buildings: buildings}, nil
}

// All returns every building in configuration order.
func (r *Registry) All() []Building {
	return r.buildings
}

// Names lists configured building names in order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.buildings))
	for i, b := range r.buildings {
		names[i] = b.Name
	}
	return names
}

// Select returns the buildings whose names exactly match one of names,
// preserving configuration order. No names selects everything; names that
// match nothing select nothing.
func (r *Registry) Select(names []string) []Building {
	if len(names) == 0 {
		return r.All()
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out []Building
	for _, b := range r.buildings {
		if want[b.Name] {
			out = append(out, b)
		}
	}
	return out
}
