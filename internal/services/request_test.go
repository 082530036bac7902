package services

import (
	"context"
	"testing"
	"time"

	"recycling-rewards-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRequest(t *testing.T) {
	store := newFakeStore()
	svc := NewRequestService(store)

	req, err := svc.Create(context.Background(), "u1", "Plastic", 2.5, "https://bucket/evidence.jpg", "Central Plaza")
	require.NoError(t, err)

	assert.NotEmpty(t, req.ID)
	assert.Equal(t, "u1", req.UserID)
	assert.Equal(t, models.StatusProcessing, req.Status)
	assert.Equal(t, 0, req.RewardPoints, "reward is assigned by validation, not creation")
	assert.Equal(t, "Central Plaza", req.Description)
	assert.Nil(t, req.UpdateTime)
	assert.False(t, req.RequestTime.IsZero())

	stored, err := store.GetByID(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, req.ID, stored.ID)
}

func TestCreateRejectsNonPositiveQuantity(t *testing.T) {
	store := newFakeStore()
	svc := NewRequestService(store)

	for _, quantity := range []float64{0, -2.5} {
		_, err := svc.Create(context.Background(), "u1", "Plastic", quantity, "", "")
		assert.ErrorIs(t, err, models.ErrValidation)
	}
	assert.Empty(t, store.requests, "invalid requests must not be persisted")
}

func TestCreateRejectsUnknownMaterial(t *testing.T) {
	store := newFakeStore()
	svc := NewRequestService(store)

	_, err := svc.Create(context.Background(), "u1", "Uranium", 1.0, "", "")
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Empty(t, store.requests)
}

func TestHistoryOrdering(t *testing.T) {
	store := newFakeStore()
	svc := NewRequestService(store)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seed := []struct {
		id     string
		status models.RequestStatus
		age    time.Duration
	}{
		{"redeemed-new", models.StatusRedeemed, 0},
		{"validating", models.StatusValidating, 1 * time.Hour},
		{"reward-old", models.StatusReward, 48 * time.Hour},
		{"processing", models.StatusProcessing, 2 * time.Hour},
		{"rejected", models.StatusRejected, 3 * time.Hour},
		{"reward-new", models.StatusReward, 24 * time.Hour},
	}
	for _, s := range seed {
		store.requests[s.id] = &models.RecyclingRequest{
			ID:          s.id,
			UserID:      "u1",
			Status:      s.status,
			RequestTime: base.Add(-s.age),
		}
	}

	requests, err := svc.ListForUser(context.Background(), "u1")
	require.NoError(t, err)

	var ids []string
	for _, req := range requests {
		ids = append(ids, req.ID)
	}
	// Claimable first, then in progress, then rejected, then redeemed;
	// newest first inside a band.
	assert.Equal(t, []string{
		"reward-new", "reward-old",
		"validating", "processing",
		"rejected",
		"redeemed-new",
	}, ids)
}

func TestResolvePoint(t *testing.T) {
	store := newFakeStore()
	store.points["PT-042"] = &models.RecyclingPoint{
		Code:        "PT-042",
		Latitude:    -38.7459,
		Longitude:   -72.6171,
		Description: "Central Plaza",
	}
	svc := NewPointService(store)

	point, err := svc.Resolve(context.Background(), "PT-042")
	require.NoError(t, err)
	assert.Equal(t, "Central Plaza", point.Description)

	// An unknown code is terminal for the attempt
	_, err = svc.Resolve(context.Background(), "PT-999")
	assert.ErrorIs(t, err, models.ErrNotFound)

	// A directory failure is distinct, so the caller can offer a retry
	store.lookupDown = true
	_, err = svc.Resolve(context.Background(), "PT-042")
	assert.ErrorIs(t, err, models.ErrLookup)
}

// TestScanToRedeemScenario walks the whole flow: a scanned code resolves to
// a point, the user submits a request, back-office review approves it, the
// user claims the reward, and history shows the redeemed request after any
// still-pending ones.
func TestScanToRedeemScenario(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.points["PT-042"] = &models.RecyclingPoint{
		Code:        "PT-042",
		Latitude:    -38.7459,
		Longitude:   -72.6171,
		Description: "Central Plaza",
	}
	store.users["u1"] = &models.UserAccount{
		ID:          "u1",
		DisplayName: "Test User",
		CreatedAt:   time.Now().UTC(),
	}

	points := NewPointService(store)
	requests := NewRequestService(store)
	ledger := NewLedgerService(store)

	point, err := points.Resolve(ctx, "PT-042")
	require.NoError(t, err)

	req, err := requests.Create(ctx, "u1", "Plastic", 2.5, "https://bucket/evidence.jpg", point.Description)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, req.Status)

	// A later drop-off that stays pending
	pending, err := requests.Create(ctx, "u1", "Glass", 1.0, "", point.Description)
	require.NoError(t, err)
	store.requests[pending.ID].RequestTime = req.RequestTime.Add(time.Minute)

	// External validation approves the first request
	store.requests[req.ID].Status = models.StatusReward
	store.requests[req.ID].RewardPoints = 300

	require.NoError(t, ledger.Redeem(ctx, req.ID, "u1", 300))
	assert.Equal(t, 300, store.balance("u1"))

	// A second claim is refused and the balance stays put
	err = ledger.Redeem(ctx, req.ID, "u1", 300)
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.Equal(t, 300, store.balance("u1"))

	history, err := requests.ListForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, pending.ID, history[0].ID)
	assert.Equal(t, req.ID, history[1].ID)
	assert.Equal(t, models.StatusRedeemed, history[1].Status)
}
