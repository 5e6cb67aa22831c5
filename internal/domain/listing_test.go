package domain

import (
	"math"
	"testing"
)

func TestPerSqFt(t *testing.T) {
	cases := []struct {
		name string
		l    Listing
		want float64
	}{
		{"whole ratio", Listing{Unit: "101", Rent: 1800, Size: 900, Beds: 1}, 2},
		{"repeating ratio", Listing{Unit: "208", Rent: 2400, Size: 1100, Beds: 2}, 2400.0 / 1100},
		{"studio", Listing{Unit: "S1", Rent: 1500, Size: 500, Beds: 0}, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.l.PerSqFt()
			if math.Abs(got-tc.want) > 1e-12 {
				t.Errorf("PerSqFt: got %v, want %v", got, tc.want)
			}
			if got != tc.l.Rent/tc.l.Size {
				t.Errorf("PerSqFt must equal Rent/Size exactly: got %v", got)
			}
		})
	}
}
