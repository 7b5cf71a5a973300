package status

import (
	"context"
	"errors"
	"testing"

	"giftwell/internal/models"
	"giftwell/internal/repository"
	"giftwell/pkg/logger"
)

// fakeStatusRepo records calls and stores rows in a map keyed by
// item_id/user_id, mirroring the delete-absent-is-success contract.
type fakeStatusRepo struct {
	rows    map[string]models.ItemStatus
	failErr error

	upserts int
	deletes int
}

var _ repository.StatusRepository = (*fakeStatusRepo)(nil)

func newFakeStatusRepo() *fakeStatusRepo {
	return &fakeStatusRepo{rows: make(map[string]models.ItemStatus)}
}

func (f *fakeStatusRepo) key(itemID, userID string) string { return itemID + "/" + userID }

func (f *fakeStatusRepo) Upsert(ctx context.Context, st *models.ItemStatus) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.upserts++
	f.rows[f.key(st.ItemID, st.UserID)] = *st
	return nil
}

func (f *fakeStatusRepo) Delete(ctx context.Context, itemID, userID string) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.deletes++
	delete(f.rows, f.key(itemID, userID))
	return nil
}

func (f *fakeStatusRepo) Get(ctx context.Context, itemID, userID string) (*models.ItemStatus, error) {
	st, ok := f.rows[f.key(itemID, userID)]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

type fakeRecorder struct {
	events   []models.StatusValue
	failures []string
}

func (f *fakeRecorder) StatusChanged(v models.StatusValue) {
	f.events = append(f.events, v)
}

func (f *fakeRecorder) GatewayFailure(operation string) {
	f.failures = append(f.failures, operation)
}

func TestSetStatusUpsert(t *testing.T) {
	repo := newFakeStatusRepo()
	rec := &fakeRecorder{}
	r := NewReconciler(repo, rec, logger.New("error"))

	got, err := r.SetStatus(context.Background(), models.ItemStatus{
		ItemID: "item-1", UserID: "user-1", Status: models.StatusPlanned,
	}, false)
	if err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
	if got.Status != models.StatusPlanned {
		t.Errorf("result status = %q, want planned", got.Status)
	}
	if repo.upserts != 1 || repo.deletes != 0 {
		t.Errorf("upserts = %d, deletes = %d, want 1 upsert", repo.upserts, repo.deletes)
	}
	if len(rec.events) != 1 || rec.events[0] != models.StatusPlanned {
		t.Errorf("recorded events = %v, want [planned]", rec.events)
	}
}

func TestSetStatusAvailableDeletes(t *testing.T) {
	repo := newFakeStatusRepo()
	repo.rows["item-1/user-1"] = models.ItemStatus{ItemID: "item-1", UserID: "user-1", Status: models.StatusPlanned}
	r := NewReconciler(repo, nil, logger.New("error"))

	got, err := r.SetStatus(context.Background(), models.ItemStatus{
		ItemID: "item-1", UserID: "user-1", Status: models.StatusAvailable,
	}, false)
	if err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
	if got.Status != models.StatusAvailable {
		t.Errorf("result status = %q, want available", got.Status)
	}
	if len(repo.rows) != 0 {
		t.Errorf("expected status row to be deleted, rows = %v", repo.rows)
	}

	// Releasing an item nobody has claimed is still a success.
	if _, err := r.SetStatus(context.Background(), models.ItemStatus{
		ItemID: "item-1", UserID: "user-1", Status: models.StatusAvailable,
	}, false); err != nil {
		t.Fatalf("releasing an unclaimed item: %v", err)
	}
	if repo.deletes != 2 {
		t.Errorf("deletes = %d, want 2", repo.deletes)
	}
}

func TestSetStatusShoppingItemNeverAvailable(t *testing.T) {
	repo := newFakeStatusRepo()
	rec := &fakeRecorder{}
	r := NewReconciler(repo, rec, logger.New("error"))

	got, err := r.SetStatus(context.Background(), models.ItemStatus{
		ItemID: "item-1", UserID: "user-1", Status: models.StatusAvailable,
	}, true)
	if err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
	if got.Status != models.StatusPlanned {
		t.Errorf("result status = %q, want planned rewrite", got.Status)
	}
	if repo.deletes != 0 {
		t.Error("shopping item release must not delete the status row")
	}
	st, _ := repo.Get(context.Background(), "item-1", "user-1")
	if st == nil || st.Status != models.StatusPlanned {
		t.Errorf("stored row = %+v, want planned", st)
	}
	if len(rec.events) != 1 || rec.events[0] != models.StatusPlanned {
		t.Errorf("recorded events = %v, want the rewritten value", rec.events)
	}
}

func TestSetStatusGatewayFailure(t *testing.T) {
	repo := newFakeStatusRepo()
	repo.failErr = errors.New("gateway down")
	rec := &fakeRecorder{}
	r := NewReconciler(repo, rec, logger.New("error"))

	_, err := r.SetStatus(context.Background(), models.ItemStatus{
		ItemID: "item-1", UserID: "user-1", Status: models.StatusUnavailable,
	}, false)
	if !errors.Is(err, repo.failErr) {
		t.Fatalf("SetStatus() error = %v, want gateway error", err)
	}
	if len(rec.events) != 0 {
		t.Errorf("telemetry emitted on failure: %v", rec.events)
	}
	if len(rec.failures) != 1 || rec.failures[0] != "status_upsert" {
		t.Errorf("failure counter = %v, want [status_upsert]", rec.failures)
	}
}
