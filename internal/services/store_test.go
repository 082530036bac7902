package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"recycling-rewards-backend/internal/models"
	"recycling-rewards-backend/internal/repository"
)

// fakeStore is an in-memory stand-in for the Postgres stores. WithTx holds
// the store lock for the whole transaction, giving the serializable-
// equivalent ordering the real ledger store provides.
type fakeStore struct {
	mu       sync.Mutex
	points   map[string]*models.RecyclingPoint
	requests map[string]*models.RecyclingRequest
	users    map[string]*models.UserAccount

	// txConflicts fails that many WithTx calls with ErrTxConflict first
	txConflicts int
	// lookupDown simulates an unreachable directory store
	lookupDown bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		points:   make(map[string]*models.RecyclingPoint),
		requests: make(map[string]*models.RecyclingRequest),
		users:    make(map[string]*models.UserAccount),
	}
}

func (f *fakeStore) GetByCode(_ context.Context, code string) (*models.RecyclingPoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lookupDown {
		return nil, fmt.Errorf("directory unreachable: %w", models.ErrLookup)
	}
	point, ok := f.points[code]
	if !ok {
		return nil, fmt.Errorf("recycling point %q: %w", code, models.ErrNotFound)
	}
	copied := *point
	return &copied, nil
}

func (f *fakeStore) Create(_ context.Context, req *models.RecyclingRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests[req.ID] = cloneRequest(req)
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id string) (*models.RecyclingRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[id]
	if !ok {
		return nil, fmt.Errorf("recycling request %q: %w", id, models.ErrNotFound)
	}
	return cloneRequest(req), nil
}

func (f *fakeStore) ListByUser(_ context.Context, userID string) ([]*models.RecyclingRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var requests []*models.RecyclingRequest
	for _, req := range f.requests {
		if req.UserID == userID {
			requests = append(requests, cloneRequest(req))
		}
	}
	sort.Slice(requests, func(i, j int) bool {
		return requests[i].RequestTime.After(requests[j].RequestTime)
	})
	return requests, nil
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(tx repository.LedgerTx) error) error {
	// Mirror the real store: a canceled context aborts the transaction
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", models.ErrLookup)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.txConflicts > 0 {
		f.txConflicts--
		return fmt.Errorf("serialization failure: %w", models.ErrTxConflict)
	}

	// Snapshot for rollback so a failed transaction leaves nothing changed
	requests := make(map[string]*models.RecyclingRequest, len(f.requests))
	for id, req := range f.requests {
		requests[id] = cloneRequest(req)
	}
	users := make(map[string]*models.UserAccount, len(f.users))
	for id, user := range f.users {
		copied := *user
		users[id] = &copied
	}

	if err := fn(&fakeTx{store: f}); err != nil {
		f.requests = requests
		f.users = users
		return err
	}
	return nil
}

func (f *fakeStore) balance(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[userID].PointsBalance
}

func cloneRequest(req *models.RecyclingRequest) *models.RecyclingRequest {
	copied := *req
	if req.UpdateTime != nil {
		at := *req.UpdateTime
		copied.UpdateTime = &at
	}
	return &copied
}

// fakeTx runs against the store maps under the lock WithTx already holds
type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) GetRequestForUpdate(_ context.Context, id string) (*models.RecyclingRequest, error) {
	req, ok := t.store.requests[id]
	if !ok {
		return nil, fmt.Errorf("recycling request %q: %w", id, models.ErrNotFound)
	}
	return cloneRequest(req), nil
}

func (t *fakeTx) GetUserForUpdate(_ context.Context, id string) (*models.UserAccount, error) {
	user, ok := t.store.users[id]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", id, models.ErrNotFound)
	}
	copied := *user
	return &copied, nil
}

func (t *fakeTx) SetRequestStatus(_ context.Context, id string, status models.RequestStatus, updateTime time.Time) error {
	req, ok := t.store.requests[id]
	if !ok {
		return fmt.Errorf("recycling request %q: %w", id, models.ErrNotFound)
	}
	req.Status = status
	req.UpdateTime = &updateTime
	return nil
}

func (t *fakeTx) AddPoints(_ context.Context, userID string, points int) error {
	user, ok := t.store.users[userID]
	if !ok {
		return fmt.Errorf("user %q: %w", userID, models.ErrNotFound)
	}
	user.PointsBalance += points
	return nil
}
