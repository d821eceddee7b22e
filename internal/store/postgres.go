package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Postgres menyimpan semua koleksi dalam satu tabel documents
// (collection, id, doc jsonb). Satu baris = satu dokumen.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) ListAll(ctx context.Context, collection string) ([]Document, error) {
	rows, err := p.db.QueryContext(ctx,
		"SELECT id, doc FROM documents WHERE collection = $1", collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDocuments(rows)
}

func (p *Postgres) Query(ctx context.Context, collection string, where Where, orderBy string) ([]Document, error) {
	query := "SELECT id, doc FROM documents WHERE collection = $1 AND doc->>$2 = $3"
	args := []any{collection, where.Field, where.Value}
	if orderBy != "" {
		query += " ORDER BY doc->>$4"
		args = append(args, orderBy)
	}
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDocuments(rows)
}

func (p *Postgres) GetByID(ctx context.Context, collection, id string) (Document, error) {
	var doc Document
	doc.ID = id
	err := p.db.QueryRowContext(ctx,
		"SELECT doc FROM documents WHERE collection = $1 AND id = $2",
		collection, id).Scan((*[]byte)(&doc.Data))
	if err == sql.ErrNoRows {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, err
	}
	return doc, nil
}

func (p *Postgres) Create(ctx context.Context, collection string, doc any) (string, error) {
	id := uuid.NewString()
	if err := p.CreateWithID(ctx, collection, id, doc); err != nil {
		return "", err
	}
	return id, nil
}

func (p *Postgres) CreateWithID(ctx context.Context, collection, id string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx,
		"INSERT INTO documents (collection, id, doc) VALUES ($1, $2, $3)",
		collection, id, raw)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		return ErrConflict
	}
	return err
}

// OverwriteAll: hapus semua dulu lalu bulk insert, satu transaksi.
// Pola "save seluruh tabel" dari penyimpanan batch; last writer wins.
func (p *Postgres) OverwriteAll(ctx context.Context, collection string, docs map[string]any) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM documents WHERE collection = $1", collection); err != nil {
		return err
	}
	for id, doc := range docs {
		raw, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("marshal doc %q: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO documents (collection, id, doc) VALUES ($1, $2, $3)",
			collection, id, raw); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (p *Postgres) UpdateFields(ctx context.Context, collection, id string, fields map[string]any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	res, err := p.db.ExecContext(ctx,
		"UPDATE documents SET doc = doc || $3::jsonb WHERE collection = $1 AND id = $2",
		collection, id, raw)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) DeleteByID(ctx context.Context, collection, id string) error {
	res, err := p.db.ExecContext(ctx,
		"DELETE FROM documents WHERE collection = $1 AND id = $2", collection, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanDocuments(rows *sql.Rows) ([]Document, error) {
	docs := []Document{}
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, (*[]byte)(&doc.Data)); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
