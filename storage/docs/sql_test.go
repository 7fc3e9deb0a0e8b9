package docs

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/indieprop/homestead/config"
)

func testCollections() []Collection {
	return []Collection{
		{Name: "listings"},
		{Name: "users", Unique: []string{"email", "username"}},
	}
}

func mockStore(t *testing.T, driver string) (*SQLDocStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := newSQLDocStoreWithDB(&config.Docs{Driver: driver, DSN: "dsn"}, db, testCollections())
	if err != nil {
		t.Fatalf("build store: %v", err)
	}

	return store, mock
}

func TestResolveSQLDriverName(t *testing.T) {
	cases := []struct {
		in     string
		expect string
		ok     bool
	}{
		{"postgres", "pgx", true},
		{"POSTGRES", "pgx", true},
		{"mysql", "mysql", true},
		{"sqlite", "", false},
	}

	for _, tc := range cases {
		got, err := resolveSQLDriverName(tc.in)
		if tc.ok && (err != nil || got != tc.expect) {
			t.Errorf("resolveSQLDriverName(%q) = (%q, %v)", tc.in, got, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("resolveSQLDriverName(%q) should fail", tc.in)
		}
	}
}

func TestPlaceholderStyle(t *testing.T) {
	pg, _ := mockStore(t, "postgres")
	if pg.placeholderFor(2) != "$2" {
		t.Fatalf("postgres should use dollar placeholders, got %q", pg.placeholderFor(2))
	}

	my, _ := mockStore(t, "mysql")
	if my.placeholderFor(2) != "?" {
		t.Fatalf("mysql should use question placeholders, got %q", my.placeholderFor(2))
	}
}

func TestInsert_User(t *testing.T) {
	store, mock := mockStore(t, "mysql")

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM homestead_users WHERE email = ?").
		WithArgs("jo@example.com").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("SELECT id FROM homestead_users WHERE username = ?").
		WithArgs("jo").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO homestead_users (id, email, username, doc) VALUES (?, ?, ?, ?)").
		WithArgs("id-1", "jo@example.com", "jo", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	doc := map[string]any{"id": "id-1", "email": "jo@example.com", "username": "jo"}
	if err := store.Insert(context.Background(), "users", "id-1", doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInsert_DuplicateEmail(t *testing.T) {
	store, mock := mockStore(t, "mysql")

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM homestead_users WHERE email = ?").
		WithArgs("jo@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("other-id"))
	mock.ExpectRollback()

	doc := map[string]any{"id": "id-1", "email": "jo@example.com", "username": "jo"}
	err := store.Insert(context.Background(), "users", "id-1", doc)

	var dup *DuplicateError
	if !errors.As(err, &dup) || dup.Field != "email" {
		t.Fatalf("expected DuplicateError on email, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	store, mock := mockStore(t, "mysql")

	mock.ExpectQuery("SELECT doc FROM homestead_listings WHERE id = ?").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	var out map[string]any
	err := store.Get(context.Background(), "listings", "missing", &out)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGet_UnmarshalsDocument(t *testing.T) {
	store, mock := mockStore(t, "mysql")

	mock.ExpectQuery("SELECT doc FROM homestead_listings WHERE id = ?").
		WithArgs("id-1").
		WillReturnRows(sqlmock.NewRows([]string{"doc"}).AddRow(`{"id":"id-1","title":"Flat"}`))

	var out map[string]any
	if err := store.Get(context.Background(), "listings", "id-1", &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out["title"] != "Flat" {
		t.Fatalf("document not unmarshaled: %#v", out)
	}
}

func TestList_ReturnsRawDocuments(t *testing.T) {
	store, mock := mockStore(t, "mysql")

	mock.ExpectQuery("SELECT doc FROM homestead_listings ORDER BY created_at DESC, id LIMIT ? OFFSET ?").
		WithArgs(20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"doc"}).
			AddRow(`{"id":"a"}`).
			AddRow(`{"id":"b"}`))

	items, err := store.List(context.Background(), "listings", 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(items))
	}
}

func TestUpdate_MissingDocument(t *testing.T) {
	store, mock := mockStore(t, "mysql")

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE homestead_listings SET doc = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?").
		WithArgs(sqlmock.AnyArg(), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := store.Update(context.Background(), "listings", "missing", map[string]any{"id": "missing"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete_MissingDocument(t *testing.T) {
	store, mock := mockStore(t, "mysql")

	mock.ExpectExec("DELETE FROM homestead_listings WHERE id = ?").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Delete(context.Background(), "listings", "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUnknownCollection(t *testing.T) {
	store, _ := mockStore(t, "mysql")

	if err := store.Insert(context.Background(), "ghosts", "id", map[string]any{}); err == nil {
		t.Fatal("expected error for unknown collection")
	}
}
