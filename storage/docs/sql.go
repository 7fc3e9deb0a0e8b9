package docs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/indieprop/homestead/config"
	storageutil "github.com/indieprop/homestead/storage/util"
)

type placeholderStyle int

const (
	placeholderQuestion placeholderStyle = iota
	placeholderDollar
)

// SQLDocStore keeps each collection in its own table: a primary-key id, the
// document as JSON text, and one unique-indexed column per indexed field.
type SQLDocStore struct {
	cfg         *config.Docs
	db          *sql.DB
	placeholder placeholderStyle
	prefix      string
	collections map[string]Collection
}

func NewSQLDocStore(cfg *config.Docs, collections []Collection) (*SQLDocStore, error) {
	store, err := newSQLDocStoreWithDB(cfg, nil, collections)
	if err != nil {
		return nil, err
	}

	driverName, err := resolveSQLDriverName(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName, cfg.DSN)
	if err != nil {
		return nil, err
	}

	store.db = db

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func newSQLDocStoreWithDB(cfg *config.Docs, db *sql.DB, collections []Collection) (*SQLDocStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("docs sql config is nil")
	}

	prefix := "homestead"
	if cfg.TablePrefix != nil {
		prefix = *cfg.TablePrefix
	}

	placeholder, err := detectPlaceholderStyle(cfg.Driver)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]Collection, len(collections))
	for _, c := range collections {
		byName[c.Name] = c
	}

	return &SQLDocStore{
		cfg:         cfg,
		db:          db,
		placeholder: placeholder,
		prefix:      prefix,
		collections: byName,
	}, nil
}

func detectPlaceholderStyle(driver string) (placeholderStyle, error) {
	driverName, err := resolveSQLDriverName(driver)
	if err != nil {
		return placeholderQuestion, err
	}

	if driverName == "pgx" {
		return placeholderDollar, nil
	}

	return placeholderQuestion, nil
}

func resolveSQLDriverName(driver string) (string, error) {
	switch strings.ToLower(driver) {
	case "postgres":
		return "pgx", nil
	case "mysql":
		return "mysql", nil
	default:
		return "", fmt.Errorf("unsupported sql driver %q", driver)
	}
}

func (ds *SQLDocStore) placeholderFor(n int) string {
	if ds.placeholder == placeholderDollar {
		return fmt.Sprintf("$%d", n)
	}

	return "?"
}

func (ds *SQLDocStore) table(collection string) string {
	return storageutil.DeriveTableName(ds.prefix, collection)
}

func (ds *SQLDocStore) lookup(collection string) (Collection, error) {
	c, ok := ds.collections[collection]
	if !ok {
		return Collection{}, fmt.Errorf("unknown collection %q", collection)
	}

	return c, nil
}

func (ds *SQLDocStore) initSchema(ctx context.Context) error {
	for _, c := range ds.collections {
		if _, err := ds.db.ExecContext(ctx, ds.schemaQuery(c)); err != nil {
			return fmt.Errorf("init schema for %q: %w", c.Name, err)
		}
	}

	return nil
}

func (ds *SQLDocStore) schemaQuery(c Collection) string {
	var uniqueCols strings.Builder
	for _, field := range c.Unique {
		uniqueCols.WriteString(fmt.Sprintf("%s VARCHAR(255) NOT NULL UNIQUE,\n", field))
	}

	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
id VARCHAR(64) PRIMARY KEY,
%sdoc TEXT NOT NULL,
created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`, ds.table(c.Name), uniqueCols.String())
}

// uniqueValues extracts the indexed field values from the marshaled document.
func uniqueValues(c Collection, payload []byte) (map[string]string, error) {
	if len(c.Unique) == 0 {
		return nil, nil
	}

	var fields map[string]any
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, err
	}

	out := make(map[string]string, len(c.Unique))
	for _, field := range c.Unique {
		s, ok := fields[field].(string)
		if !ok {
			return nil, fmt.Errorf("unique field %q is missing or not a string", field)
		}

		out[field] = s
	}

	return out, nil
}

func (ds *SQLDocStore) Insert(ctx context.Context, collection, id string, doc any) error {
	c, err := ds.lookup(collection)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	unique, err := uniqueValues(c, payload)
	if err != nil {
		return err
	}

	tx, err := ds.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer rollback(tx, "Insert")

	// Pre-check inside the transaction for a friendly error; the unique
	// index backstops concurrent inserts.
	for _, field := range c.Unique {
		taken, err := ds.uniqueTakenInTx(ctx, tx, c, field, unique[field], "")
		if err != nil {
			return err
		}

		if taken {
			return &DuplicateError{Field: field}
		}
	}

	cols := []string{"id"}
	args := []any{id}
	for _, field := range c.Unique {
		cols = append(cols, field)
		args = append(args, unique[field])
	}
	cols = append(cols, "doc")
	args = append(args, string(payload))

	marks := make([]string, len(cols))
	for i := range cols {
		marks[i] = ds.placeholderFor(i + 1)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		ds.table(collection), strings.Join(cols, ", "), strings.Join(marks, ", "))
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	return tx.Commit()
}

func (ds *SQLDocStore) Get(ctx context.Context, collection, id string, out any) error {
	if _, err := ds.lookup(collection); err != nil {
		return err
	}

	query := fmt.Sprintf("SELECT doc FROM %s WHERE id = %s", ds.table(collection), ds.placeholderFor(1))
	row := ds.db.QueryRowContext(ctx, query, id)

	var raw string
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}

		return err
	}

	return json.Unmarshal([]byte(raw), out)
}

func (ds *SQLDocStore) List(ctx context.Context, collection string, limit, offset int) ([]json.RawMessage, error) {
	if _, err := ds.lookup(collection); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT doc FROM %s ORDER BY created_at DESC, id LIMIT %s OFFSET %s",
		ds.table(collection), ds.placeholderFor(1), ds.placeholderFor(2))

	rows, err := ds.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []json.RawMessage
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}

		out = append(out, json.RawMessage(raw))
	}

	return out, rows.Err()
}

func (ds *SQLDocStore) Update(ctx context.Context, collection, id string, doc any) error {
	c, err := ds.lookup(collection)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	unique, err := uniqueValues(c, payload)
	if err != nil {
		return err
	}

	tx, err := ds.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer rollback(tx, "Update")

	for _, field := range c.Unique {
		taken, err := ds.uniqueTakenInTx(ctx, tx, c, field, unique[field], id)
		if err != nil {
			return err
		}

		if taken {
			return &DuplicateError{Field: field}
		}
	}

	set := []string{}
	args := []any{}
	n := 0
	for _, field := range c.Unique {
		n++
		set = append(set, fmt.Sprintf("%s = %s", field, ds.placeholderFor(n)))
		args = append(args, unique[field])
	}
	n++
	set = append(set, fmt.Sprintf("doc = %s", ds.placeholderFor(n)))
	args = append(args, string(payload))
	set = append(set, "updated_at = CURRENT_TIMESTAMP")
	n++
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = %s",
		ds.table(collection), strings.Join(set, ", "), ds.placeholderFor(n))

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

func (ds *SQLDocStore) Delete(ctx context.Context, collection, id string) error {
	if _, err := ds.lookup(collection); err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE id = %s", ds.table(collection), ds.placeholderFor(1))
	res, err := ds.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (ds *SQLDocStore) Close() error {
	if ds.db == nil {
		return nil
	}

	return ds.db.Close()
}

func (ds *SQLDocStore) uniqueTakenInTx(ctx context.Context, tx *sql.Tx, c Collection, field, value, selfID string) (bool, error) {
	query := fmt.Sprintf("SELECT id FROM %s WHERE %s = %s", ds.table(c.Name), field, ds.placeholderFor(1))
	row := tx.QueryRowContext(ctx, query, value)

	var existing string
	if err := row.Scan(&existing); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, err
	}

	return existing != selfID, nil
}

func rollback(tx *sql.Tx, op string) {
	// Rollback is safe to call after Commit; it will return sql.ErrTxDone.
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		log.Printf("unexpected error during transaction rollback in %s: %v", op, err)
	}
}
