// Package place holds the static directory of locations offered for
// pickup and dropoff autocomplete.
package place

import "strings"

// Directory is an ordered, fixed set of location names. The set is small
// enough that every lookup is a fresh linear scan; there is no index and
// no ranking beyond the directory's own order.
type Directory []string

// Bengaluru is the candidate set served to the booking screens.
var Bengaluru = Directory{
	"MG Road", "Koramangala", "Indiranagar", "Whitefield", "Jayanagar",
	"Bannerghatta Road", "Bangalore Palace", "Vidhana Soudha", "Marathahalli", "Hebbal",
	"Electronic City", "Majestic", "Brigade Road", "Commercial Street", "Lalbagh",
	"Cubbon Park", "ISKCON Temple", "Bangalore International Airport", "Yeshwantpur",
	"Rajajinagar", "Malleswaram", "Basavanagudi", "JP Nagar", "BTM Layout",
	"HSR Layout", "Sarjapur Road",
}

// Filter returns the candidates whose name contains q, case-insensitively,
// preserving the directory's original relative order. An empty query
// matches every candidate.
func (d Directory) Filter(q string) []string {
	q = strings.ToLower(q)
	matched := make([]string, 0, len(d))
	for _, name := range d {
		if strings.Contains(strings.ToLower(name), q) {
			matched = append(matched, name)
		}
	}
	return matched
}

// Suggest applies the display policy on top of Filter: suggestions are
// shown only when the input is non-empty and at least one candidate
// matches. Otherwise the dropdown stays hidden.
func (d Directory) Suggest(q string) []string {
	if q == "" {
		return nil
	}
	matched := d.Filter(q)
	if len(matched) == 0 {
		return nil
	}
	return matched
}
