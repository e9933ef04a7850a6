// Package repo contains all document store access for the site ledger.
// DocumentRepo is the single persistence interface; it has a Postgres JSONB
// implementation (the default) and a MongoDB implementation.
// No business logic lives here, only queries and type mapping.
package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/librerose/sitebook/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DocumentRepo defines the persistence operations on document collections.
// Every operation is scoped to a named collection; ids are opaque strings
// exposed on documents under domain.FieldID.
type DocumentRepo interface {
	// Insert stores doc in collection and returns it with its generated id.
	// Any id already present on doc is ignored.
	Insert(ctx context.Context, collection string, doc domain.Document) (domain.Document, error)

	// GetByID retrieves one document by primary key.
	// Returns domain.ErrNotFound if the id is unknown or malformed.
	GetByID(ctx context.Context, collection, id string) (domain.Document, error)

	// FindByField returns every document whose top-level field equals value,
	// in insertion order. No match yields an empty result, not an error.
	FindByField(ctx context.Context, collection, field, value string) ([]domain.Document, error)

	// List returns every document in collection in insertion order.
	List(ctx context.Context, collection string) ([]domain.Document, error)

	// Update merges set into the stored document (top-level keys replace,
	// other keys are kept) and returns the result.
	// Returns domain.ErrNotFound if the id is unknown or malformed.
	Update(ctx context.Context, collection, id string, set domain.Document) (domain.Document, error)

	// Delete removes a document by primary key.
	// Returns domain.ErrNotFound if the id is unknown or malformed.
	Delete(ctx context.Context, collection, id string) error
}

// withoutID copies doc minus its primary key; ids live outside the body.
func withoutID(doc domain.Document) domain.Document {
	out := doc.Clone()
	delete(out, domain.FieldID)
	return out
}
