// Package store is the document-store boundary used by the booking flow:
// create a record in a named collection, or read a collection back in
// ranked order. Nothing else about the underlying database is exposed.
package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// ErrUnavailable is reported when the document store cannot take writes.
var ErrUnavailable = errors.New("document store unavailable")

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Fields is a schemaless document body.
type Fields map[string]any

func (f Fields) Value() (driver.Value, error) {
	return json.Marshal(f)
}

func (f *Fields) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	}
	return fmt.Errorf("cannot scan %T into Fields", src)
}

// Record is a stored document with its opaque identifier.
type Record struct {
	ID     uuid.UUID `db:"id"`
	Fields Fields    `db:"fields"`
}

type Gateway interface {
	// CreateRecord writes fields to the named collection and returns the
	// new record's identifier.
	CreateRecord(ctx context.Context, collection string, fields Fields) (uuid.UUID, error)
	// QueryRanked returns every record in the named collection ordered by
	// the given field. The ordering of records with equal keys is whatever
	// the storage layer happens to return.
	QueryRanked(ctx context.Context, collection, sortField string, dir Direction) ([]Record, error)
}
