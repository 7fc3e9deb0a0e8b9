package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/indieprop/homestead/config"
	"github.com/indieprop/homestead/intake"
	"github.com/indieprop/homestead/server/state"
)

type fakeDocs struct {
	inserted map[string]int
}

func (f *fakeDocs) Insert(ctx context.Context, collection, id string, doc any) error {
	if f.inserted == nil {
		f.inserted = map[string]int{}
	}
	f.inserted[collection]++
	return nil
}

func (f *fakeDocs) Get(ctx context.Context, collection, id string, out any) error { return nil }
func (f *fakeDocs) List(ctx context.Context, collection string, limit, offset int) ([]json.RawMessage, error) {
	return []json.RawMessage{json.RawMessage(`{"id":"a"}`)}, nil
}
func (f *fakeDocs) Update(ctx context.Context, collection, id string, doc any) error { return nil }
func (f *fakeDocs) Delete(ctx context.Context, collection, id string) error          { return nil }
func (f *fakeDocs) Close() error                                                     { return nil }

func routesUnderTest(docs *fakeDocs) http.Handler {
	cfg := &config.Config{
		Auth: config.Auth{Secret: "0123456789abcdef0123456789abcdef"},
	}

	st := &state.HomesteadState{
		Cfg:        cfg,
		Docs:       docs,
		Transcoder: &intake.Transcoder{},
	}

	return Routes(cfg, st)
}

func TestRoutes_OpenLeadSubmission(t *testing.T) {
	docs := &fakeDocs{}
	mux := routesUnderTest(docs)

	body := `{"listingId":"d2719c5e-1f3a-4b43-9d3c-0a8f2f6f7e21","name":"Jo","email":"jo@example.com"}`
	req := httptest.NewRequest("POST", "/leads", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 without a token, got %d: %s", rr.Code, rr.Body.String())
	}

	if docs.inserted["leads"] != 1 {
		t.Fatalf("lead not persisted: %#v", docs.inserted)
	}
}

func TestRoutes_ListingCreateRequiresToken(t *testing.T) {
	mux := routesUnderTest(&fakeDocs{})

	req := httptest.NewRequest("POST", "/listings", nil)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestRoutes_PublicListingRead(t *testing.T) {
	mux := routesUnderTest(&fakeDocs{})

	req := httptest.NewRequest("GET", "/listings", nil)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	if !strings.Contains(rr.Body.String(), `"items"`) {
		t.Fatalf("expected items envelope, got %s", rr.Body.String())
	}
}

func TestRoutes_MethodNotAllowed(t *testing.T) {
	mux := routesUnderTest(&fakeDocs{})

	req := httptest.NewRequest("PUT", "/listings", nil)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}
