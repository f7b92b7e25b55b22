package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Postgres keeps every collection in a single documents table with a
// jsonb body, which is as close as Postgres gets to the hosted document
// store the flow was written against.
type Postgres struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) CreateRecord(ctx context.Context, collection string, fields Fields) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.db.ExecContext(ctx, createRecordQuery, id, collection, fields)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create record in %q: %w", collection, err)
	}
	return id, nil
}

const createRecordQuery = `
INSERT INTO documents (id, collection, fields, created_at)
VALUES ($1, $2, $3, now())
`

// QueryRanked orders by the field's text form. A string-typed field such
// as a driver rating therefore sorts lexicographically ("9" above "10"),
// matching the native ordering of the original storage layer.
func (s *Postgres) QueryRanked(ctx context.Context, collection, sortField string, dir Direction) ([]Record, error) {
	query := queryRankedAscQuery
	if dir == Descending {
		query = queryRankedDescQuery
	}

	var records []Record
	err := s.db.SelectContext(ctx, &records, query, collection, sortField)
	if err != nil {
		return nil, fmt.Errorf("query %q ranked by %q: %w", collection, sortField, err)
	}
	return records, nil
}

const queryRankedDescQuery = `
SELECT id, fields FROM documents
WHERE collection = $1
ORDER BY fields->>$2 DESC
`

const queryRankedAscQuery = `
SELECT id, fields FROM documents
WHERE collection = $1
ORDER BY fields->>$2 ASC
`
