package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// Memory is an in-memory Gateway for tests.
type Memory struct {
	mu          sync.Mutex
	collections map[string][]Record

	// FailCreates makes every CreateRecord report an outage.
	FailCreates bool
}

func NewMemory() *Memory {
	return &Memory{
		collections: make(map[string][]Record),
	}
}

func (m *Memory) CreateRecord(_ context.Context, collection string, fields Fields) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailCreates {
		return uuid.Nil, ErrUnavailable
	}

	id := uuid.New()
	copied := make(Fields, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	m.collections[collection] = append(m.collections[collection], Record{ID: id, Fields: copied})
	return id, nil
}

// QueryRanked sorts by the field's text form, like the SQL gateway does.
// The sort is stable, so records with equal keys come back in insertion
// order.
func (m *Memory) QueryRanked(_ context.Context, collection, sortField string, dir Direction) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := make([]Record, len(m.collections[collection]))
	copy(records, m.collections[collection])

	sort.SliceStable(records, func(i, j int) bool {
		a := cast.ToString(records[i].Fields[sortField])
		b := cast.ToString(records[j].Fields[sortField])
		if dir == Descending {
			return a > b
		}
		return a < b
	})
	return records, nil
}

// Collection returns the records of a collection in insertion order.
func (m *Memory) Collection(name string) []Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := make([]Record, len(m.collections[name]))
	copy(records, m.collections[name])
	return records
}
