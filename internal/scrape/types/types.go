package types

import (
	"context"
	"fmt"

	"rentscrape/internal/domain"
)

// Source is a building-specific scraper. Each Fetch call performs a fresh
// network round trip and re-parses the response; the returned slice is fully
// materialized and owned by the caller.
//
// Individual malformed entries inside an otherwise well-formed response are
// logged and skipped, never failing the whole fetch. A failed round trip
// returns a *TransportError; a response whose overall shape is wrong returns
// a *ParseError.
type Source interface {
	Kind() string
	Fetch(ctx context.Context) ([]domain.Listing, error)
}

// TransportError reports a failed network round trip or a non-2xx status.
type TransportError struct {
	Kind string
	URL  string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failure for %s: %v", e.Kind, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError reports a response that could not be decoded into the shape the
// adapter expects: missing top-level keys, an embedded payload that never
// appears, or a malformed body.
type ParseError struct {
	Kind string
	URL  string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: unexpected response shape from %s: %v", e.Kind, e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
