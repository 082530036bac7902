package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"recycling-rewards-backend/internal/models"
	"recycling-rewards-backend/internal/repository"

	"github.com/rs/zerolog/log"
)

const (
	redeemAttempts = 3
	redeemBackoff  = 25 * time.Millisecond
	// redeemTimeout bounds one redemption including retries. It is the only
	// thing that can abort a claim once started.
	redeemTimeout = 10 * time.Second
)

// LedgerStore runs one atomic redemption transaction. A returned
// models.ErrTxConflict means the transaction lost a concurrent race and may
// be retried from the top.
type LedgerStore interface {
	WithTx(ctx context.Context, fn func(tx repository.LedgerTx) error) error
}

// LedgerService performs the one credit of a request's reward into a user
// balance. This is the only place the system mutates points_balance, and
// the only transition this system writes (REWARD to REEDEMED).
type LedgerService struct {
	store LedgerStore
}

// NewLedgerService creates a new ledger service
func NewLedgerService(store LedgerStore) *LedgerService {
	return &LedgerService{store: store}
}

// Redeem flips the request to REEDEMED and credits its reward to the user,
// atomically. points is the amount the caller saw; the value actually
// credited is the request's reward_points as re-read inside the
// transaction, so a concurrent back-office adjustment cannot desync the
// balance from the request. Returns models.ErrNotFound if either entity is
// missing and models.ErrConflict if the request is not in REWARD state
// (already redeemed, rejected, or not yet eligible). Transaction conflicts
// are retried a bounded number of times and then surfaced as ErrConflict;
// a failed redemption leaves both entities unchanged.
//
// A started claim runs to completion even if the caller disconnects:
// the work is detached from the caller's context and bounded only by
// redeemTimeout.
func (s *LedgerService) Redeem(ctx context.Context, requestID, userID string, points int) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), redeemTimeout)
	defer cancel()

	var err error
	for attempt := 1; attempt <= redeemAttempts; attempt++ {
		var credited int
		err = s.store.WithTx(ctx, func(tx repository.LedgerTx) error {
			req, err := tx.GetRequestForUpdate(ctx, requestID)
			if err != nil {
				return err
			}
			if _, err := tx.GetUserForUpdate(ctx, userID); err != nil {
				return err
			}

			// Double-spend guard: only a REWARD request can be claimed, and
			// flipping it here makes a second claim observe REEDEMED.
			if req.Status != models.StatusReward {
				return fmt.Errorf("request %q is %s: %w", requestID, req.Status, models.ErrConflict)
			}

			credited = req.RewardPoints
			if credited != points {
				log.Warn().
					Str("request_id", requestID).
					Int("expected", points).
					Int("stored", credited).
					Msg("Reward changed since caller read it, crediting stored value")
			}

			now := time.Now().UTC()
			if err := tx.SetRequestStatus(ctx, requestID, models.StatusRedeemed, now); err != nil {
				return err
			}
			return tx.AddPoints(ctx, userID, credited)
		})
		if err == nil {
			log.Info().
				Str("request_id", requestID).
				Str("user_id", userID).
				Int("points", credited).
				Msg("Reward redeemed")
			return nil
		}
		if !errors.Is(err, models.ErrTxConflict) {
			return err
		}
		log.Warn().
			Err(err).
			Str("request_id", requestID).
			Int("attempt", attempt).
			Msg("Redemption transaction conflict, retrying")

		timer := time.NewTimer(redeemBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("redemption interrupted: %v: %w", ctx.Err(), models.ErrLookup)
		case <-timer.C:
		}
	}
	return fmt.Errorf("redemption retries exhausted: %w", models.ErrConflict)
}
