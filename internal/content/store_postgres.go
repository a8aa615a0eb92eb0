// Copyright (c) 2026 Lurnex. All rights reserved.

package content

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lurnex/site/internal/platform/database/schema"
	"github.com/lurnex/site/internal/platform/dberr"
	"github.com/lurnex/site/internal/platform/postgres"
	"github.com/lurnex/site/pkg/uuidv7"
)

// PostgresRepository stores documents in the content.document JSONB table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository wraps an established pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var documentTable = schema.ContentDocument

func (repository *PostgresRepository) Fetch(context context.Context, query Query) ([]Document, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	statement, args := compileFetch(query)
	rows, err := repository.pool.Query(context, statement, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "fetch_documents")
	}
	defer rows.Close()

	documents := make([]Document, 0)
	for rows.Next() {
		document, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		documents = append(documents, document)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "fetch_documents")
	}
	return documents, nil
}

func (repository *PostgresRepository) Count(context context.Context, query Query) (int, error) {
	if err := query.Validate(); err != nil {
		return 0, err
	}

	statement, args := compileCount(query)
	var total int
	if err := repository.pool.QueryRow(context, statement, args...).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, "count_documents")
	}
	return total, nil
}

func (repository *PostgresRepository) Get(context context.Context, kind, id string) (Document, error) {
	statement := fmt.Sprintf(`SELECT %s FROM %s d WHERE d.%s = $1 AND ($2 = '' OR d.%s = $2)`,
		selectColumns("d"), documentTable.Table, documentTable.ID, documentTable.Type)

	document, err := scanDocument(repository.pool.QueryRow(context, statement, id, kind))
	if err != nil {
		return Document{}, err
	}
	return document, nil
}

func (repository *PostgresRepository) GetMany(context context.Context, ids []string) ([]Document, error) {
	if len(ids) == 0 {
		return []Document{}, nil
	}

	statement := fmt.Sprintf(`SELECT %s FROM %s d WHERE d.%s = ANY($1)`,
		selectColumns("d"), documentTable.Table, documentTable.ID)

	rows, err := repository.pool.Query(context, statement, ids)
	if err != nil {
		return nil, dberr.Wrap(err, "get_many_documents")
	}
	defer rows.Close()

	documents := make([]Document, 0, len(ids))
	for rows.Next() {
		document, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		documents = append(documents, document)
	}
	return documents, dberr.Wrap(rows.Err(), "get_many_documents")
}

func (repository *PostgresRepository) Create(context context.Context, document Document) (Document, error) {
	if !identifier.MatchString(document.Type) {
		return Document{}, fmt.Errorf("%w: type %q", ErrInvalidQuery, document.Type)
	}

	body, err := json.Marshal(document.Fields)
	if err != nil {
		return Document{}, fmt.Errorf("content: encode body: %w", err)
	}
	if document.Fields == nil {
		body = []byte("{}")
	}

	if document.ID == "" {
		document.ID = uuidv7.New()
	}
	if document.CreatedAt.IsZero() {
		document.CreatedAt = time.Now().UTC()
	}
	if document.UpdatedAt.IsZero() {
		document.UpdatedAt = document.CreatedAt
	}

	statement := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3::jsonb, $4, $5) RETURNING %s`,
		documentTable.Table, strings.Join(documentTable.Columns(), ", "), strings.Join(documentTable.Columns(), ", "))

	return scanDocument(repository.pool.QueryRow(context, statement,
		document.ID, document.Type, string(body), document.CreatedAt, document.UpdatedAt))
}

func (repository *PostgresRepository) Patch(context context.Context, id string, set map[string]any) (Document, error) {
	assign := map[string]any{}
	remove := []string{}
	for key, value := range set {
		if value == nil {
			remove = append(remove, key)
			continue
		}
		assign[key] = value
	}

	body, err := json.Marshal(assign)
	if err != nil {
		return Document{}, fmt.Errorf("content: encode patch: %w", err)
	}

	statement := fmt.Sprintf(`
		UPDATE %s
		SET %s = (%s || $2::jsonb) - $3::text[], %s = now()
		WHERE %s = $1
		RETURNING %s`,
		documentTable.Table,
		documentTable.Body, documentTable.Body, documentTable.UpdatedAt,
		documentTable.ID,
		strings.Join(documentTable.Columns(), ", "),
	)

	return scanDocument(repository.pool.QueryRow(context, statement, id, string(body), remove))
}

// Ping checks the pool.
func (repository *PostgresRepository) Ping(context context.Context) error {
	return postgres.Ping(context, repository.pool)
}

func scanDocument(row pgx.Row) (Document, error) {
	var (
		document Document
		body     []byte
	)

	if err := row.Scan(&document.ID, &document.Type, &body, &document.CreatedAt, &document.UpdatedAt); err != nil {
		return Document{}, dberr.Wrap(err, "scan_document")
	}

	document.Fields = map[string]any{}
	if err := json.Unmarshal(body, &document.Fields); err != nil {
		return Document{}, fmt.Errorf("content: decode body of %s: %w", document.ID, err)
	}
	return document, nil
}

func selectColumns(alias string) string {
	columns := documentTable.Columns()
	for i, column := range columns {
		columns[i] = alias + "." + column
	}
	return strings.Join(columns, ", ")
}
