package service

import (
	"context"
	"sync"
	"time"

	"github.com/veilpay/notesync/internal/logger"
	"github.com/veilpay/notesync/models"
)

// RefreshJob periodically re-synchronizes a wallet in the background so
// balance queries hit a warm cache.
type RefreshJob interface {
	// Start launches the background refresh loop. Any previously running
	// loop is stopped first. The loop exits when ctx is cancelled or Stop is
	// called.
	Start(ctx context.Context, wallet models.Wallet, sessionKey []byte, interval time.Duration)

	// Stop cancels the loop and blocks until it has exited. Safe to call
	// when the job is not running.
	Stop()
}

type refreshJob struct {
	wallets WalletService
	log     *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRefreshJob creates a refreshJob that re-syncs through wallets on a
// ticker. The job is idle until Start is called.
func NewRefreshJob(wallets WalletService, log *logger.Logger) RefreshJob {
	return &refreshJob{wallets: wallets, log: log}
}

// Start implements [RefreshJob]. If interval is zero or negative it defaults
// to 5 minutes.
func (j *refreshJob) Start(ctx context.Context, wallet models.Wallet, sessionKey []byte, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				if _, err := j.wallets.GetUnspentNotes(jobCtx, wallet, sessionKey); err != nil {
					j.log.Warn().Err(err).Str("wallet", wallet.String()).
						Msg("background refresh failed; will retry next tick")
				}
			}
		}
	}()
}

// Stop implements [RefreshJob].
func (j *refreshJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
