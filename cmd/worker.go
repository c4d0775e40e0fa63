package cmd

import (
	"context"
	"creditmanager/worker"
	"sync"

	"github.com/fox-one/pkg/logger"
)

// runWorkers runs workers until ctx is done
func runWorkers(ctx context.Context, workers ...worker.Worker) {
	log := logger.FromContext(ctx)

	wg := sync.WaitGroup{}
	for _, w := range workers {
		wg.Add(1)

		go func(w worker.Worker) {
			defer wg.Done()
			if err := w.Run(ctx); err != nil {
				log.WithError(err).Errorln("worker stopped")
			}
		}(w)
	}

	wg.Wait()
}
