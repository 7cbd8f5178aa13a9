package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/icemap/agent/app/cfg"
	"github.com/icemap/agent/app/pipeline"
	"github.com/icemap/agent/app/source"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

// Totals aggregates pipeline outcomes across all batches since start,
// for observability.
type Totals struct {
	Accepted int
	Ignored  int
	Batches  int
}

type Scheduler struct {
	configCache  *source.ConfigCache
	runner       *pipeline.Runner
	locator      *pipeline.Locator
	httpClient   *http.Client
	interval     time.Duration
	idleInterval time.Duration
	batchSize    int
	workerCount  int
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	taskQueue    chan TaskInterface

	mu       sync.Mutex
	nextPoll map[string]time.Time
	totals   Totals
}

func NewScheduler(configCache *source.ConfigCache, runner *pipeline.Runner,
	locator *pipeline.Locator, httpClient *http.Client) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	c := cfg.Get()

	return &Scheduler{
		configCache:  configCache,
		runner:       runner,
		locator:      locator,
		httpClient:   httpClient,
		interval:     time.Duration(c.SchedulerInterval) * time.Second,
		idleInterval: time.Duration(c.IdleInterval) * time.Second,
		batchSize:    c.BatchSize,
		workerCount:  c.WorkerCount,
		ctx:          ctx,
		cancel:       cancel,
		taskQueue:    make(chan TaskInterface, 300),
		nextPoll:     make(map[string]time.Time),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueDueTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueDueTasks()
			}
		}
	}()
}

// Stop cancels all workers and pending retries and waits for them to
// finish. The task queue is never closed; anything still buffered is
// simply dropped with the scheduler.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
	}

	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// EnqueueIngest schedules an immediate batch for a named source,
// bypassing its poll interval.
func (s *Scheduler) EnqueueIngest(sourceName string) error {
	config, err := s.configCache.GetConfig(sourceName)
	if err != nil {
		return err
	}

	src, err := source.Build(config, s.httpClient)
	if err != nil {
		return err
	}

	return s.EnqueueTask(NewIngestTask(src, s.runner, config.Settings.BatchSize, s.reportIngest))
}

func (s *Scheduler) GetTotals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totals
}

func (s *Scheduler) enqueueDueTasks() {
	configs := s.configCache.GetEnabledConfigs()
	if len(configs) == 0 {
		slog.Debug("No enabled source configurations found")
	}

	now := time.Now().UTC()

	for _, config := range configs {
		s.mu.Lock()
		next, seen := s.nextPoll[config.Name]
		due := !seen || !next.After(now)
		if due {
			// Pushed out to the source's own interval; a batch that
			// finds records pulls it back to "now" so backlog drains
			// without idling.
			s.nextPoll[config.Name] = now.Add(time.Duration(config.Settings.PollInterval) * time.Second)
		}
		s.mu.Unlock()

		if !due {
			slog.Debug("Source not due for polling yet", "source", config.Name, "next_poll", next)
			continue
		}

		src, err := source.Build(config, s.httpClient)
		if err != nil {
			slog.Warn("Failed to build source, skipping", "source", config.Name, "error", err)
			continue
		}

		if err := s.EnqueueTask(NewIngestTask(src, s.runner, config.Settings.BatchSize, s.reportIngest)); err != nil {
			slog.Warn("Failed to enqueue IngestTask", "source", config.Name, "error", err)
		}
	}

	if s.locator != nil {
		if err := s.EnqueueTask(NewLocateTask(s.locator, s.batchSize)); err != nil {
			slog.Warn("Failed to enqueue LocateTask", "error", err)
		}
	}
}

// reportIngest feeds batch results back into the polling schedule and
// the running totals.
func (s *Scheduler) reportIngest(sourceName string, progress pipeline.Progress, sawRecords bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totals.Accepted += progress.Accepted
	s.totals.Ignored += progress.Ignored
	s.totals.Batches++

	if sawRecords {
		s.nextPoll[sourceName] = time.Now().UTC()
	} else {
		s.nextPoll[sourceName] = time.Now().UTC().Add(s.idleInterval)
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 30*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)
	if err == nil {
		return
	}

	slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

	if !task.CanRetry() {
		slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		s.deferSource(task.GetSourceName())
		return
	}

	task.IncrementRetryCount()
	retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
	if retryDelay > 30*time.Second {
		retryDelay = 30 * time.Second
	}

	slog.Warn("Task retry scheduled", "type", string(task.GetType()), "source", task.GetSourceName(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

	// Tracked in the WaitGroup so Stop cannot outrun a pending retry.
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		select {
		case <-time.After(retryDelay):
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
			return
		}

		if retryErr := s.EnqueueTask(task); retryErr != nil {
			slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
		}
	}()
}

// deferSource pushes an unreachable source's next poll out by the idle
// interval so the loop keeps retrying without spinning.
func (s *Scheduler) deferSource(sourceName string) {
	if sourceName == "" {
		return
	}
	s.mu.Lock()
	s.nextPoll[sourceName] = time.Now().UTC().Add(s.idleInterval)
	s.mu.Unlock()
}
