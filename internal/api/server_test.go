package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"giftwell/internal/cache"
	"giftwell/internal/models"
	"giftwell/internal/repository"
	"giftwell/internal/service"
	"giftwell/internal/status"
	"giftwell/internal/storage"
	"giftwell/pkg/logger"
)

const testSecret = "test-secret"

type fakeItemRepo struct {
	repository.ItemRepository

	memberItems []models.MemberItem
}

func (f *fakeItemRepo) MemberItems(ctx context.Context, q repository.MemberItemsQuery) ([]models.MemberItem, error) {
	return append([]models.MemberItem(nil), f.memberItems...), nil
}

type fakeStatusRepo struct {
	rows map[string]models.ItemStatus
}

func (f *fakeStatusRepo) Upsert(ctx context.Context, st *models.ItemStatus) error {
	f.rows[st.ItemID+"/"+st.UserID] = *st
	return nil
}

func (f *fakeStatusRepo) Delete(ctx context.Context, itemID, userID string) error {
	delete(f.rows, itemID+"/"+userID)
	return nil
}

func (f *fakeStatusRepo) Get(ctx context.Context, itemID, userID string) (*models.ItemStatus, error) {
	st, ok := f.rows[itemID+"/"+userID]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func newTestServer(t *testing.T, items *fakeItemRepo, statuses *fakeStatusRepo) *Server {
	t.Helper()

	l := logger.New("error")
	svc := service.New(l,
		cache.NewStore(),
		storage.NewResolver(""),
		status.NewReconciler(statuses, nil, l),
		nil, items, statuses, nil, nil, nil,
	)
	return NewServer(svc, l, testSecret, nil)
}

func bearerToken(t *testing.T, subject string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": subject})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return "Bearer " + signed
}

func TestAuthMiddleware(t *testing.T) {
	srv := newTestServer(t, &fakeItemRepo{}, &fakeStatusRepo{rows: map[string]models.ItemStatus{}})

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized},
		{"valid token", bearerToken(t, "user-1"), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/groups/g1/members/u1/items", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			srv.Handler().ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body: %s)", rr.Code, tt.wantStatus, rr.Body.String())
			}
		})
	}
}

func TestHealthEndpointNeedsNoAuth(t *testing.T) {
	srv := newTestServer(t, &fakeItemRepo{}, &fakeStatusRepo{rows: map[string]models.ItemStatus{}})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

func TestUpdateStatusEndpoint(t *testing.T) {
	statuses := &fakeStatusRepo{rows: map[string]models.ItemStatus{}}
	srv := newTestServer(t, &fakeItemRepo{}, statuses)

	body := strings.NewReader(`{"status":"planned","scope":{"group_id":"g1","user_id":"u1"}}`)
	req := httptest.NewRequest(http.MethodPut, "/api/items/item-1/status", body)
	req.Header.Set("Authorization", bearerToken(t, "viewer-1"))
	rr := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var result models.ItemStatus
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.ItemID != "item-1" || result.UserID != "viewer-1" || result.Status != models.StatusPlanned {
		t.Errorf("unexpected result: %+v", result)
	}

	if _, ok := statuses.rows["item-1/viewer-1"]; !ok {
		t.Error("status row not stored, claim keyed by token subject expected")
	}
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	srv := newTestServer(t, &fakeItemRepo{}, &fakeStatusRepo{rows: map[string]models.ItemStatus{}})

	body := strings.NewReader(`{"status":"bogus"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/items/item-1/status", body)
	req.Header.Set("Authorization", bearerToken(t, "viewer-1"))
	rr := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestMemberItemsEndpoint(t *testing.T) {
	st := models.ItemStatus{ItemID: "a", UserID: "other", Status: models.StatusUnavailable}
	items := &fakeItemRepo{memberItems: []models.MemberItem{
		{Item: models.Item{ID: "a", UserID: "viewer-1"}, Status: &st},
		{Item: models.Item{ID: "b", UserID: "target"}, Status: &st},
	}}
	srv := newTestServer(t, items, &fakeStatusRepo{rows: map[string]models.ItemStatus{}})

	req := httptest.NewRequest(http.MethodGet, "/api/groups/g1/members/target/items", nil)
	req.Header.Set("Authorization", bearerToken(t, "viewer-1"))
	rr := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var got []models.MemberItem
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Status != nil {
		t.Error("viewer's own item leaked its claim status through the API")
	}
	if got[1].Status == nil {
		t.Error("other member's item lost its claim status")
	}
}
