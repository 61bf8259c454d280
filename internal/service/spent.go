package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/veilpay/notesync/internal/adapter"
	"github.com/veilpay/notesync/internal/crypto"
	"github.com/veilpay/notesync/internal/logger"
	"github.com/veilpay/notesync/models"
)

// DefaultSpentCheckBackoff is the delay between spent-check retries when none
// is configured.
const DefaultSpentCheckBackoff = 3 * time.Second

// RetryPolicy controls how spent checks behave under remote failure.
// MaxAttempts of 0 retries forever: reporting a stale spend status is worse
// than waiting out an outage, so the unbounded policy is the default. Callers
// must treat an unbounded check as potentially long-running and cancel via
// ctx when they stop caring.
type RetryPolicy struct {
	Backoff     time.Duration
	MaxAttempts uint64
}

type spentService struct {
	ledger    adapter.LedgerAdapter
	programID string
	policy    RetryPolicy
	log       *logger.Logger
}

// NewSpentCheckService builds the [SpentCheckService] probing spend markers
// on the ledger under programID.
func NewSpentCheckService(ledger adapter.LedgerAdapter, programID string, policy RetryPolicy, log *logger.Logger) SpentCheckService {
	if policy.Backoff <= 0 {
		policy.Backoff = DefaultSpentCheckBackoff
	}
	return &spentService{ledger: ledger, programID: programID, policy: policy, log: log}
}

// CheckSpent implements [SpentCheckService]. Both marker addresses of every
// note are probed in a single batched account read; a note is spent when
// either marker account exists. The whole batch is retried on any failure.
func (s *spentService) CheckSpent(ctx context.Context, notes []models.Note) ([]bool, error) {
	if len(notes) == 0 {
		return nil, nil
	}

	addrs := make([]string, 0, 2*len(notes))
	for _, n := range notes {
		markerA, markerB := crypto.DeriveMarkerPair(n.Nullifier, s.programID)
		addrs = append(addrs, markerA, markerB)
	}

	backoff := retry.Backoff(retry.NewConstant(s.policy.Backoff))
	if s.policy.MaxAttempts > 0 {
		backoff = retry.WithMaxRetries(s.policy.MaxAttempts-1, backoff)
	}

	var accounts []*models.Account
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		got, err := s.ledger.GetAccounts(ctx, addrs)
		if err != nil {
			s.log.Warn().Err(err).Int("markers", len(addrs)).
				Msg("spend marker read failed; retrying")
			return retry.RetryableError(err)
		}
		accounts = got
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("spent check: %w", err)
	}

	spent := make([]bool, len(notes))
	for i := range notes {
		spent[i] = accounts[2*i] != nil || accounts[2*i+1] != nil
	}
	return spent, nil
}

// IsSpent implements [SpentCheckService].
func (s *spentService) IsSpent(ctx context.Context, note models.Note) (bool, error) {
	flags, err := s.CheckSpent(ctx, []models.Note{note})
	if err != nil {
		return false, err
	}
	return flags[0], nil
}
