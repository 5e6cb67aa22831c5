package report

import (
	"context"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"rentscrape/internal/domain"
	"rentscrape/internal/registry"
)

// SizeBucket is the per-size aggregate for one building: the mean rent of
// all surviving listings of that size, divided by the size. Note this is
// mean(rent)/size, not the mean of per-listing ratios; the two differ when
// weighting matters.
type SizeBucket struct {
	Size        float64
	MeanPerSqFt float64
}

// Runner walks the selected buildings in registry order, sorts and filters
// each building's listings, and feeds them to the sink. A building whose
// fetch fails is logged and skipped; one outage never aborts the run.
type Runner struct {
	Filter Filter
	Sink   Sink
	Log    *slog.Logger

	// Parallel fetches buildings concurrently (bounded by MaxInFlight).
	// Emission still walks registry order, so output is identical either way.
	Parallel    bool
	MaxInFlight int
}

type fetchResult struct {
	listings []domain.Listing
	err      error
}

func (r *Runner) Run(ctx context.Context, buildings []registry.Building) error {
	if err := r.Filter.Validate(); err != nil {
		return err
	}
	log := r.Log
	if log == nil {
		log = slog.Default()
	}

	results := r.fetchAll(ctx, buildings)

	for i, b := range buildings {
		if results[i].err != nil {
			log.Warn("skipping building", "building", b.Name, "err", results[i].err)
			continue
		}
		if err := r.emit(b.Name, results[i].listings); err != nil {
			return err
		}
	}
	return r.Sink.Flush()
}

func (r *Runner) fetchAll(ctx context.Context, buildings []registry.Building) []fetchResult {
	results := make([]fetchResult, len(buildings))

	if !r.Parallel {
		for i, b := range buildings {
			ls, err := b.Source.Fetch(ctx)
			results[i] = fetchResult{listings: ls, err: err}
		}
		return results
	}

	limit := r.MaxInFlight
	if limit <= 0 {
		limit = 4
	}
	var g errgroup.Group
	g.SetLimit(limit)
	for i, b := range buildings {
		i, b := i, b
		g.Go(func() error {
			ls, err := b.Source.Fetch(ctx)
			results[i] = fetchResult{listings: ls, err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (r *Runner) emit(name string, listings []domain.Listing) error {
	// Unit identifiers are opaque; byte-wise string order is the sort key.
	sort.Slice(listings, func(i, j int) bool { return listings[i].Unit < listings[j].Unit })

	if err := r.Sink.BeginBuilding(name); err != nil {
		return err
	}
	bySize := make(map[float64][]float64)
	for _, l := range listings {
		if !r.Filter.Keep(l) {
			continue
		}
		if err := r.Sink.Listing(l); err != nil {
			return err
		}
		bySize[l.Size] = append(bySize[l.Size], l.Rent)
	}
	return r.Sink.EndBuilding(bucketsOf(bySize))
}

func bucketsOf(bySize map[float64][]float64) []SizeBucket {
	sizes := make([]float64, 0, len(bySize))
	for s := range bySize {
		sizes = append(sizes, s)
	}
	sort.Float64s(sizes)

	out := make([]SizeBucket, 0, len(sizes))
	for _, s := range sizes {
		rents := bySize[s]
		var sum float64
		for _, rent := range rents {
			sum += rent
		}
		out = append(out, SizeBucket{
			Size:        s,
			MeanPerSqFt: sum / float64(len(rents)) / s,
		})
	}
	return out
}
