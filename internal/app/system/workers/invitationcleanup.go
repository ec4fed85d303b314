// internal/app/system/workers/invitationcleanup.go
package workers

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	invitationstore "github.com/dalemusser/menucasa/internal/app/store/invitations"
)

// InvitationCleanup is a background worker that purges redeemed
// invitations. The TTL index only reaps on expires_at, so a used
// ticket would otherwise linger until its natural expiry.
type InvitationCleanup struct {
	invitations *invitationstore.Store
	log         *zap.Logger
	interval    time.Duration
	retain      time.Duration
	stopCh      chan struct{}
	wg          sync.WaitGroup
}

// NewInvitationCleanup creates the worker. retain is how long a
// redeemed invitation is kept before deletion (useful when debugging
// a signup that went sideways).
func NewInvitationCleanup(invStore *invitationstore.Store, logger *zap.Logger, interval, retain time.Duration) *InvitationCleanup {
	return &InvitationCleanup{
		invitations: invStore,
		log:         logger,
		interval:    interval,
		retain:      retain,
		stopCh:      make(chan struct{}),
	}
}

// Start begins the background cleanup loop.
func (w *InvitationCleanup) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("invitation cleanup worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("retain", w.retain))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *InvitationCleanup) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("invitation cleanup worker stopped")
}

func (w *InvitationCleanup) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.cleanup()
		}
	}
}

func (w *InvitationCleanup) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := w.invitations.DeleteUsedBefore(ctx, time.Now().UTC().Add(-w.retain))
	if err != nil {
		w.log.Error("failed to purge used invitations", zap.Error(err))
		return
	}
	if count > 0 {
		w.log.Info("purged used invitations", zap.Int64("count", count))
	}
}
