package workers

import (
	"context"
	"log"
	"sync"
	"time"
)

// Worker is one periodic background job.
type Worker interface {
	Name() string
	Interval() time.Duration
	Run(ctx context.Context) error
}

// WorkerManager runs registered workers on their own tickers.
type WorkerManager struct {
	workers  []Worker
	stopChan chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
}

func NewWorkerManager() *WorkerManager {
	return &WorkerManager{
		workers:  []Worker{},
		stopChan: make(chan struct{}),
	}
}

// RegisterWorker adds a worker before Start.
func (wm *WorkerManager) RegisterWorker(w Worker) {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	wm.workers = append(wm.workers, w)
	log.Printf("✅ Worker '%s' registered (interval: %v)", w.Name(), w.Interval())
}

// Start launches every registered worker.
func (wm *WorkerManager) Start() {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	log.Printf("🚀 Starting %d worker(s)...", len(wm.workers))

	for _, worker := range wm.workers {
		wm.wg.Add(1)
		go wm.runWorker(worker)
	}
}

func (wm *WorkerManager) runWorker(w Worker) {
	defer wm.wg.Done()

	ticker := time.NewTicker(w.Interval())
	defer ticker.Stop()

	log.Printf("🤖 Worker '%s' started (interval: %v)", w.Name(), w.Interval())

	// First run happens immediately, not a full interval later.
	wm.executeWorker(w)

	for {
		select {
		case <-ticker.C:
			wm.executeWorker(w)

		case <-wm.stopChan:
			log.Printf("🛑 Worker '%s' stopped", w.Name())
			return
		}
	}
}

func (wm *WorkerManager) executeWorker(w Worker) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	startTime := time.Now()

	if err := w.Run(ctx); err != nil {
		log.Printf("❌ Worker '%s' failed: %v", w.Name(), err)
	} else {
		log.Printf("✅ Worker '%s' finished (took %v)", w.Name(), time.Since(startTime))
	}
}

// Stop halts all workers and waits for in-flight runs.
func (wm *WorkerManager) Stop() {
	log.Println("🛑 Stopping all workers...")

	close(wm.stopChan)
	wm.wg.Wait()

	log.Println("✅ All workers stopped")
}

// WorkerStats describes the registered workers.
type WorkerStats struct {
	TotalWorkers int
	WorkerNames  []string
}

func (wm *WorkerManager) GetStats() WorkerStats {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	names := make([]string, len(wm.workers))
	for i, w := range wm.workers {
		names[i] = w.Name()
	}

	return WorkerStats{
		TotalWorkers: len(wm.workers),
		WorkerNames:  names,
	}
}
