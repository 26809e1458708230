package file

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Reconciler runs Service.Reconcile on a fixed interval.
type Reconciler struct {
	service  *Service
	interval time.Duration
	log      logrus.FieldLogger
}

func NewReconciler(service *Service, interval time.Duration, log logrus.FieldLogger) *Reconciler {
	return &Reconciler{service: service, interval: interval, log: log}
}

// RunOnce performs a single sweep and logs its counts. A sweep that could not
// list its work is returned as an error for the caller to report.
func (r *Reconciler) RunOnce(ctx context.Context) (ReconcileReport, error) {
	start := time.Now()
	report, err := r.service.Reconcile(ctx)
	if err != nil {
		return report, err
	}
	r.log.WithFields(logrus.Fields{
		"pending_reclaimed":   report.PendingReclaimed,
		"tombstones_resolved": report.TombstonesResolved,
		"failures":            report.Failures,
		"duration":            time.Since(start).String(),
	}).Info("reconciliation sweep completed")
	return report, nil
}

// Start sweeps immediately and then every interval until ctx is done or the
// returned channel is closed.
func (r *Reconciler) Start(ctx context.Context) chan struct{} {
	stop := make(chan struct{})
	if r.interval <= 0 {
		r.log.Info("reconciliation disabled")
		return stop
	}

	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		sweep := func() {
			if _, err := r.RunOnce(ctx); err != nil {
				r.log.WithError(err).Error("scheduled reconciliation failed")
			}
		}

		sweep()
		for {
			select {
			case <-ticker.C:
				sweep()
			case <-stop:
				r.log.Info("reconciler stopped")
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	r.log.WithField("interval", r.interval.String()).Info("reconciler started")
	return stop
}
