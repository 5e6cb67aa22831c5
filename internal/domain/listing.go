package domain

// Listing is one normalized apartment-availability record. Adapters only ever
// construct fully-populated Listings: a unit with a missing field is skipped
// at parse time, and Size is always positive.
type Listing struct {
	Unit string
	Rent float64
	Size float64
	Beds int
}

// PerSqFt is the quoted rent divided by the unit's square footage. Computed
// on demand, never stored.
func (l Listing) PerSqFt() float64 {
	return l.Rent / l.Size
}
