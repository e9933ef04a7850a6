package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/librerose/sitebook/internal/domain"
)

// pgDocumentRepo is the Postgres implementation of DocumentRepo.
// All collections share the documents table; bodies are JSONB.
type pgDocumentRepo struct {
	db db
}

// NewDocumentRepo constructs a DocumentRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewDocumentRepo(db db) DocumentRepo {
	return &pgDocumentRepo{db: db}
}

// Insert stores a new document row with a freshly generated UUID.
func (r *pgDocumentRepo) Insert(ctx context.Context, collection string, doc domain.Document) (domain.Document, error) {
	const q = `
		INSERT INTO documents (id, collection, body)
		VALUES (@id, @collection, @body::jsonb)
		RETURNING id, body`

	body, err := json.Marshal(withoutID(doc))
	if err != nil {
		return nil, fmt.Errorf("repo.DocumentRepo.Insert: encode: %w", err)
	}

	args := pgx.NamedArgs{
		"id":         uuid.New(),
		"collection": collection,
		"body":       body,
	}

	result, err := scanDocument(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return nil, fmt.Errorf("repo.DocumentRepo.Insert: %w", err)
	}
	return result, nil
}

// GetByID retrieves a document by primary key within collection.
func (r *pgDocumentRepo) GetByID(ctx context.Context, collection, id string) (domain.Document, error) {
	const q = `
		SELECT id, body
		FROM documents
		WHERE collection = @collection AND id = @id`

	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("repo.DocumentRepo.GetByID: %w", domain.ErrNotFound)
	}

	result, err := scanDocument(r.db.QueryRow(ctx, q, pgx.NamedArgs{"collection": collection, "id": uid}))
	if err != nil {
		return nil, fmt.Errorf("repo.DocumentRepo.GetByID: %w", err)
	}
	return result, nil
}

// FindByField returns documents whose top-level text field equals value,
// ordered by insertion sequence.
func (r *pgDocumentRepo) FindByField(ctx context.Context, collection, field, value string) ([]domain.Document, error) {
	const q = `
		SELECT id, body
		FROM documents
		WHERE collection = @collection AND body ->> @field::text = @value
		ORDER BY seq`

	args := pgx.NamedArgs{"collection": collection, "field": field, "value": value}
	docs, err := r.queryDocuments(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.DocumentRepo.FindByField: %w", err)
	}
	return docs, nil
}

// List returns every document in collection ordered by insertion sequence.
func (r *pgDocumentRepo) List(ctx context.Context, collection string) ([]domain.Document, error) {
	const q = `
		SELECT id, body
		FROM documents
		WHERE collection = @collection
		ORDER BY seq`

	docs, err := r.queryDocuments(ctx, q, pgx.NamedArgs{"collection": collection})
	if err != nil {
		return nil, fmt.Errorf("repo.DocumentRepo.List: %w", err)
	}
	return docs, nil
}

// Update applies a top-level JSONB merge, the equivalent of a $set.
func (r *pgDocumentRepo) Update(ctx context.Context, collection, id string, set domain.Document) (domain.Document, error) {
	const q = `
		UPDATE documents
		SET body       = body || @set::jsonb,
		    updated_at = now()
		WHERE collection = @collection AND id = @id
		RETURNING id, body`

	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("repo.DocumentRepo.Update: %w", domain.ErrNotFound)
	}
	patch, err := json.Marshal(withoutID(set))
	if err != nil {
		return nil, fmt.Errorf("repo.DocumentRepo.Update: encode: %w", err)
	}

	args := pgx.NamedArgs{"collection": collection, "id": uid, "set": patch}
	result, err := scanDocument(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return nil, fmt.Errorf("repo.DocumentRepo.Update: %w", err)
	}
	return result, nil
}

// Delete removes a document by primary key within collection.
func (r *pgDocumentRepo) Delete(ctx context.Context, collection, id string) error {
	const q = `DELETE FROM documents WHERE collection = @collection AND id = @id`

	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("repo.DocumentRepo.Delete: %w", domain.ErrNotFound)
	}

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"collection": collection, "id": uid})
	if err != nil {
		return fmt.Errorf("repo.DocumentRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.DocumentRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgDocumentRepo) queryDocuments(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.Document, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return docs, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanDocument to
// be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanDocument maps an (id, body) row into a domain.Document with the id
// exposed under domain.FieldID.
func scanDocument(s scanner) (domain.Document, error) {
	var (
		id   pgtype.UUID
		body []byte
	)

	if err := s.Scan(&id, &body); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	doc := domain.Document{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	doc[domain.FieldID] = uuid.UUID(id.Bytes).String()
	return doc, nil
}
