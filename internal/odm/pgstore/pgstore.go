// Package pgstore keeps odm documents as JSONB rows in PostgreSQL.
// Every collection is a table (id, doc, created_at, updated_at).
package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/2beens/portfolio/internal/odm"
	"github.com/2beens/portfolio/internal/telemetry/tracing"
	"github.com/2beens/portfolio/pkg"
)

// DB is the subset of *pgxpool.Pool used by the store.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

var identRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

type Store struct {
	db DB
}

var _ odm.Store = (*Store)(nil)

func New(db DB) *Store {
	return &Store{db: db}
}

func (s *Store) Collection(name string) odm.Collection {
	return &Collection{db: s.db, table: name}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close is a no-op, the pool is owned by the caller.
func (s *Store) Close(_ context.Context) error { return nil }

func (s *Store) Driver() string { return "postgres" }

type Collection struct {
	db    DB
	table string
}

var _ odm.Collection = (*Collection)(nil)

func (c *Collection) Name() string { return c.table }

func (c *Collection) Init(ctx context.Context) error {
	if !identRegex.MatchString(c.table) {
		return fmt.Errorf("invalid table name: %s", c.table)
	}
	_, err := c.db.Exec(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id         TEXT PRIMARY KEY,
	doc        JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`, c.table))
	if err != nil {
		return fmt.Errorf("create table %s: %w", c.table, err)
	}
	return nil
}

func (c *Collection) EnsureUnique(ctx context.Context, field string) error {
	if !identRegex.MatchString(field) {
		return fmt.Errorf("invalid field name: %s", field)
	}
	_, err := c.db.Exec(ctx, fmt.Sprintf(
		`CREATE UNIQUE INDEX IF NOT EXISTS %s_%s_uniq ON %s ((doc->>'%s'))`,
		c.table, field, c.table, field,
	))
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return fmt.Errorf("ensure unique %s.%s: %w", c.table, field, odm.ErrDuplicate)
		}
		return fmt.Errorf("create unique index %s.%s: %w", c.table, field, err)
	}
	return nil
}

func (c *Collection) Insert(ctx context.Context, doc odm.Document) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "pgstore.insert")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	_, err = c.db.Exec(ctx,
		fmt.Sprintf(`INSERT INTO %s (id, doc, created_at, updated_at) VALUES ($1, $2, $3, $4)`, c.table),
		doc.GetID(), raw, doc.GetCreatedAt(), odm.Now(),
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return odm.ErrDuplicate
		}
		return fmt.Errorf("insert into %s: %w", c.table, err)
	}
	return nil
}

func (c *Collection) Replace(ctx context.Context, doc odm.Document) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "pgstore.replace")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	tag, err := c.db.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET doc = $2, updated_at = $3 WHERE id = $1`, c.table),
		doc.GetID(), raw, odm.Now(),
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return odm.ErrDuplicate
		}
		return fmt.Errorf("update %s: %w", c.table, err)
	}
	if tag.RowsAffected() == 0 {
		return odm.ErrNotFound
	}
	return nil
}

func (c *Collection) Delete(ctx context.Context, id string) error {
	tag, err := c.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, c.table), id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", c.table, err)
	}
	if tag.RowsAffected() == 0 {
		return odm.ErrNotFound
	}
	return nil
}

func (c *Collection) queryErr(op string, err error) error {
	if pkg.IsUndefinedTableError(err) {
		return fmt.Errorf("%s %s: %w", op, c.table, odm.ErrNotInitialized)
	}
	return fmt.Errorf("%s %s: %w", op, c.table, err)
}

func (c *Collection) FindByID(ctx context.Context, id string, out any) error {
	var raw []byte
	err := c.db.QueryRow(ctx, fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1`, c.table), id).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return odm.ErrNotFound
		}
		return c.queryErr("select from", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

func (c *Collection) FindOne(ctx context.Context, filter *odm.Filter, out any) error {
	q, err := buildSelect(c.table, "doc", filter, odm.FindOptions{Limit: 1})
	if err != nil {
		return err
	}

	var raw []byte
	if err := c.db.QueryRow(ctx, q.sql, q.args...).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return odm.ErrNotFound
		}
		return c.queryErr("select from", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

func (c *Collection) Find(ctx context.Context, filter *odm.Filter, opts odm.FindOptions, out any) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "pgstore.find")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	q, err := buildSelect(c.table, "doc", filter, opts)
	if err != nil {
		return err
	}

	rows, err := c.db.Query(ctx, q.sql, q.args...)
	if err != nil {
		return c.queryErr("select from", err)
	}
	defer rows.Close()

	docs := []json.RawMessage{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, raw)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows: %w", err)
	}

	all, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("marshal documents: %w", err)
	}
	if err := json.Unmarshal(all, out); err != nil {
		return fmt.Errorf("decode documents: %w", err)
	}
	return nil
}

func (c *Collection) Count(ctx context.Context, filter *odm.Filter) (int64, error) {
	q, err := buildSelect(c.table, "count(*)", filter, odm.FindOptions{})
	if err != nil {
		return 0, err
	}

	var count int64
	if err := c.db.QueryRow(ctx, q.sql, q.args...).Scan(&count); err != nil {
		return 0, c.queryErr("count", err)
	}
	return count, nil
}

func (c *Collection) Inc(ctx context.Context, filter *odm.Filter, field string, delta int64) error {
	q, err := buildInc(c.table, filter, field, delta)
	if err != nil {
		return err
	}

	tag, err := c.db.Exec(ctx, q.sql, q.args...)
	if err != nil {
		return fmt.Errorf("inc %s.%s: %w", c.table, field, err)
	}
	if tag.RowsAffected() == 0 {
		return odm.ErrNotFound
	}
	return nil
}
