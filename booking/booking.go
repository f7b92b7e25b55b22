// Package booking holds the ride request as it accumulates across the
// flow's screens.
package booking

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/onlycabs/booking-backend/store"
)

// Collection is the document collection booking records are written to.
const Collection = "bookings"

// RideClass is the cab tier selected for a booking.
type RideClass string

const (
	Mini  RideClass = "Mini"
	Sedan RideClass = "Sedan"
	SUV   RideClass = "SUV"
)

func ParseRideClass(s string) (RideClass, error) {
	switch RideClass(s) {
	case Mini, Sedan, SUV:
		return RideClass(s), nil
	}
	return "", fmt.Errorf("unknown ride class %q", s)
}

func (rc RideClass) Valid() bool {
	_, err := ParseRideClass(string(rc))
	return err == nil
}

// CabType is the lowercased wire form the quote backend expects.
func (rc RideClass) CabType() string {
	return strings.ToLower(string(rc))
}

// Draft is the accumulating record of a single ride request. It lives
// only in the flow session; once written at the ride-selection step it is
// never read back from storage.
type Draft struct {
	UserName string
	UserAge  int

	PickUp  string
	DropOff string
	Ride    RideClass

	// Resolved by the quote step.
	Fare            float64
	DistanceKM      float64
	SurgeMultiplier float64
	TransitInfo     string
	BestRouteInfo   string
}

// SelectRide records rc as the draft's ride class. Selection is
// exclusive: whatever was selected before is dropped.
func (d *Draft) SelectRide(rc RideClass) {
	d.Ride = rc
}

// ReadyToBook reports whether the draft may be persisted and advanced:
// pickup and dropoff non-empty and a valid ride class selected.
func (d Draft) ReadyToBook() bool {
	return d.PickUp != "" && d.DropOff != "" && d.Ride.Valid()
}

// Fields is the record written to the bookings collection. Every value
// is passed through string-typed, age included.
func (d Draft) Fields() store.Fields {
	return store.Fields{
		"userName":     d.UserName,
		"userAge":      cast.ToString(d.UserAge),
		"pickUp":       d.PickUp,
		"dropOff":      d.DropOff,
		"selectedRide": string(d.Ride),
	}
}
