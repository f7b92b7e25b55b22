// Package driver holds registered drivers and the assignment rule.
package driver

import (
	"context"
	"errors"

	"github.com/spf13/cast"

	"github.com/onlycabs/booking-backend/store"
)

// Collection is the document collection driver records are written to.
const Collection = "driver"

var ErrNoDrivers = errors.New("no drivers available")

// Record is a registered driver. The rating is text-typed in the stored
// schema and ranked by the store's text ordering; see store.QueryRanked.
type Record struct {
	Name         string `json:"name"`
	License      string `json:"license"`
	LicensePlate string `json:"licensePlate"`
	Model        string `json:"model"`
	Phone        int64  `json:"phone"`
	Rating       string `json:"rating"`
	Vehicle      string `json:"vehicle"`
}

// Fields is the record written to the driver collection. The phone is
// stored as a number, the rating as a string.
func (r Record) Fields() store.Fields {
	return store.Fields{
		"name":         r.Name,
		"license":      r.License,
		"licensePlate": r.LicensePlate,
		"model":        r.Model,
		"phone":        r.Phone,
		"rating":       r.Rating,
		"vehicle":      r.Vehicle,
	}
}

// FromFields rebuilds a Record from a stored document. Numbers round-trip
// through JSON, so the phone may come back as a float.
func FromFields(f store.Fields) Record {
	return Record{
		Name:         cast.ToString(f["name"]),
		License:      cast.ToString(f["license"]),
		LicensePlate: cast.ToString(f["licensePlate"]),
		Model:        cast.ToString(f["model"]),
		Phone:        cast.ToInt64(f["phone"]),
		Rating:       cast.ToString(f["rating"]),
		Vehicle:      cast.ToString(f["vehicle"]),
	}
}

// BestRated picks the driver to assign: the driver collection ranked by
// rating descending, first record wins. Ties land wherever the store's
// ordering puts them.
func BestRated(ctx context.Context, gw store.Gateway) (Record, error) {
	records, err := gw.QueryRanked(ctx, Collection, "rating", store.Descending)
	if err != nil {
		return Record{}, err
	}
	if len(records) == 0 {
		return Record{}, ErrNoDrivers
	}
	return FromFields(records[0].Fields), nil
}
