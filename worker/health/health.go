package health

import (
	"context"
	"creditmanager/core"
	"creditmanager/worker"
	"sort"
	"sync"

	"github.com/fox-one/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Worker periodically scans open accounts and reports the liquidatable ones
type Worker struct {
	worker.BaseJob
	ledger          core.ICreditManager
	schedule        string
	concurrency     int
	minHealthFactor uint16
}

// DefaultSchedule scan interval when none is configured
const DefaultSchedule = "@every 1m"

// New new health worker
func New(cfg *core.Config, ledger core.ICreditManager) *Worker {
	w := &Worker{
		ledger:          ledger,
		schedule:        cfg.Health.Schedule,
		concurrency:     cfg.Health.Concurrency,
		minHealthFactor: cfg.Health.MinHealthFactor,
	}

	if w.schedule == "" {
		w.schedule = DefaultSchedule
	}

	if w.concurrency <= 0 {
		w.concurrency = 1
	}

	if w.minHealthFactor < core.PercentageFactor {
		w.minHealthFactor = core.PercentageFactor
	}

	w.Cron = worker.NewCron(cfg.App.Location)
	return w
}

// Run schedules Scan until ctx is done
func (w *Worker) Run(ctx context.Context) error {
	w.OnWork = func() error {
		_, err := w.Scan(ctx)
		return err
	}

	if _, err := w.Cron.AddFunc(w.schedule, w.BaseJob.Run); err != nil {
		return err
	}

	return w.Serve(ctx)
}

// Scan returns the sorted addresses of accounts whose weighted value is
// below the total debt times the configured health factor
func (w *Worker) Scan(ctx context.Context) ([]string, error) {
	log := logger.FromContext(ctx).WithField("worker", "health")

	var (
		mux          sync.Mutex
		liquidatable []string
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)

	for _, address := range w.ledger.Accounts(ctx) {
		address := address
		g.Go(func() error {
			ok, err := w.ledger.IsLiquidatable(ctx, address, w.minHealthFactor)
			if err == core.ErrAccountNotFound {
				return nil
			}

			if err != nil {
				log.WithError(err).WithField("account", address).Errorln("IsLiquidatable")
				return err
			}

			if ok {
				log.WithField("account", address).Warnln("account liquidatable")

				mux.Lock()
				liquidatable = append(liquidatable, address)
				mux.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Strings(liquidatable)
	log.WithField("liquidatable", len(liquidatable)).Debugln("health scan done")
	return liquidatable, nil
}
