package report

import (
	"fmt"

	"rentscrape/internal/domain"
)

// Filter bounds the bed count of reported listings. A nil bound is unset.
type Filter struct {
	MinBeds *int
	MaxBeds *int
}

// Validate rejects impossible bound combinations. It runs before any network
// activity; a bad filter must never trigger a fetch.
func (f Filter) Validate() error {
	if f.MinBeds != nil && *f.MinBeds < 0 {
		return fmt.Errorf("min beds %d is negative", *f.MinBeds)
	}
	if f.MaxBeds != nil && *f.MaxBeds < 0 {
		return fmt.Errorf("max beds %d is negative", *f.MaxBeds)
	}
	if f.MinBeds != nil && f.MaxBeds != nil && *f.MinBeds > *f.MaxBeds {
		return fmt.Errorf("min beds %d is greater than max beds %d", *f.MinBeds, *f.MaxBeds)
	}
	return nil
}

func (f Filter) Keep(l domain.Listing) bool {
	if f.MinBeds != nil && l.Beds < *f.MinBeds {
		return false
	}
	if f.MaxBeds != nil && l.Beds > *f.MaxBeds {
		return false
	}
	return true
}
