package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Reconciler periodically recomputes the denormalized counters from the
// engagement edges and repairs any drift caused by outside writes or crash
// windows. The transactional write paths keep the counters correct on their
// own; the reconciler is the safety net that makes drift temporary.
type Reconciler struct {
	store    EngagementStore
	settings ReconcilerSettings
	logger   zerolog.Logger

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewReconciler creates a new Reconciler
func NewReconciler(store EngagementStore, settings ReconcilerSettings, logger zerolog.Logger) *Reconciler {
	return &Reconciler{
		store:    store,
		settings: settings,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the background reconciliation loop. It returns immediately;
// when the reconciler is disabled nothing runs and Stop is still safe.
func (r *Reconciler) Start() {
	if !r.settings.Enabled {
		close(r.done)
		r.logger.Info().Msg("Counter reconciler disabled")
		return
	}

	go r.loop()
	r.logger.Info().Dur("interval", r.settings.Interval).Msg("Counter reconciler started")
}

// Stop terminates the loop and waits for an in-flight pass to finish
func (r *Reconciler) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
	<-r.done
}

func (r *Reconciler) loop() {
	defer close(r.done)

	ticker := time.NewTicker(r.settings.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.runPass()
		}
	}
}

func (r *Reconciler) runPass() {
	ctx, cancel := context.WithTimeout(context.Background(), r.settings.Interval)
	defer cancel()

	corrected, err := r.RunOnce(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("Counter reconciliation pass failed")
		return
	}
	if corrected > 0 {
		r.logger.Warn().Int64("corrected", corrected).Msg("Counter drift repaired")
	} else {
		r.logger.Debug().Msg("Counter reconciliation pass found no drift")
	}
}

// RunOnce executes a single reconciliation pass and returns the number of
// corrected counter rows.
func (r *Reconciler) RunOnce(ctx context.Context) (int64, error) {
	return r.store.ReconcileCounters(ctx)
}
