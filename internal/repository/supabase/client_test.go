package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"giftwell/internal/models"
)

type recordedRequest struct {
	method string
	path   string
	query  string
	prefer string
	body   map[string]any
}

// newTestServer returns a PostgREST stand-in that records each request and
// answers with the given JSON body.
func newTestServer(t *testing.T, response string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()

	var requests []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			prefer: r.Header.Get("Prefer"),
		}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&rec.body)
		}
		requests = append(requests, rec)

		if r.Header.Get("apikey") == "" || !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	return srv, &requests
}

func TestNewClientNormalizesURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{"bare host gets https", "example.supabase.co", "https://example.supabase.co"},
		{"trailing slash stripped", "https://example.supabase.co/", "https://example.supabase.co"},
		{"http preserved", "http://localhost:54321", "http://localhost:54321"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewClient(tt.url, "key").BaseURL(); got != tt.expected {
				t.Errorf("BaseURL() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestClientSurfacesErrorResponses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"permission denied"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key")
	_, err := client.request(context.Background(), http.MethodGet, "/items?select=*", nil, nil)
	if err == nil {
		t.Fatal("expected error for 403 response")
	}
	if !strings.Contains(err.Error(), "403") || !strings.Contains(err.Error(), "permission denied") {
		t.Errorf("error should carry status and body, got: %v", err)
	}
}

func TestStatusUpsertUsesMergeDuplicates(t *testing.T) {
	srv, requests := newTestServer(t, `[]`)
	repo := NewStatusRepository(NewClient(srv.URL, "key"))

	err := repo.Upsert(context.Background(), &models.ItemStatus{
		ItemID: "item-1", UserID: "user-1", Status: models.StatusPlanned,
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	req := (*requests)[0]
	if req.method != http.MethodPost || req.path != "/rest/v1/items_status" {
		t.Errorf("unexpected request: %s %s", req.method, req.path)
	}
	if !strings.Contains(req.prefer, "resolution=merge-duplicates") {
		t.Errorf("Prefer header = %q, want merge-duplicates", req.prefer)
	}
	if req.body["status"] != "planned" {
		t.Errorf("payload status = %v, want planned", req.body["status"])
	}
}

func TestStatusDeleteIsFilterBased(t *testing.T) {
	srv, requests := newTestServer(t, `[]`)
	repo := NewStatusRepository(NewClient(srv.URL, "key"))

	if err := repo.Delete(context.Background(), "item-1", "user-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	req := (*requests)[0]
	if req.method != http.MethodDelete {
		t.Errorf("method = %s, want DELETE", req.method)
	}
	if !strings.Contains(req.query, "item_id=eq.item-1") || !strings.Contains(req.query, "user_id=eq.user-1") {
		t.Errorf("query = %q, want eq filters on item_id and user_id", req.query)
	}
}

func TestStatusGetReturnsNilWhenAbsent(t *testing.T) {
	srv, _ := newTestServer(t, `[]`)
	repo := NewStatusRepository(NewClient(srv.URL, "key"))

	st, err := repo.Get(context.Background(), "item-1", "user-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if st != nil {
		t.Errorf("Get() = %+v, want nil for empty row set", st)
	}
}

func TestProfileGet(t *testing.T) {
	srv, requests := newTestServer(t, `[{"user_id":"u1","email":"a@b.c","first_name":"Ada","enable_lists":true}]`)
	repo := NewProfileRepository(NewClient(srv.URL, "key"))

	profile, err := repo.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if profile == nil || profile.FirstName != "Ada" || !profile.EnableLists {
		t.Errorf("Get() = %+v", profile)
	}

	req := (*requests)[0]
	if !strings.Contains(req.query, "user_id=eq.u1") {
		t.Errorf("query = %q, want user_id filter", req.query)
	}
}
