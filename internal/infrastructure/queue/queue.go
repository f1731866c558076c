package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	interfaces "fitbook/internal/interfaces/infrastructure"
	serviceInterfaces "fitbook/internal/interfaces/service"
	"fitbook/pkg/logger"
)

type Queue struct {
	notificationQueue chan interfaces.NotificationJob
	cacheRefreshQueue chan interfaces.CacheRefreshJob

	workers int
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
	mu      sync.RWMutex

	notificationProcessor serviceInterfaces.NotificationProcessor
	cacheRefresher        serviceInterfaces.CacheRefresher
}

func NewInMemoryQueue(bufferSize, workers int) interfaces.QueueService {
	ctx, cancel := context.WithCancel(context.Background())

	queue := &Queue{
		notificationQueue: make(chan interfaces.NotificationJob, bufferSize),
		cacheRefreshQueue: make(chan interfaces.CacheRefreshJob, bufferSize),
		workers:           workers,
		ctx:               ctx,
		cancel:            cancel,
		started:           false,
	}

	return queue
}

func (q *Queue) SetNotificationProcessor(processor interface{}) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if p, ok := processor.(serviceInterfaces.NotificationProcessor); ok {
		q.notificationProcessor = p
	} else {
		logger.Error("Invalid service type provided to SetNotificationProcessor")
	}
}

func (q *Queue) SetCacheRefresher(refresher interface{}) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if r, ok := refresher.(serviceInterfaces.CacheRefresher); ok {
		q.cacheRefresher = r
	} else {
		logger.Error("Invalid service type provided to SetCacheRefresher")
	}
}

func (q *Queue) StartWorkers() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.started {
		return
	}

	if q.notificationProcessor == nil && q.cacheRefresher == nil {
		logger.Warn("No processors set, workers cannot process jobs")
		return
	}

	logger.Info("Starting %d queue workers", q.workers)

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.notificationWorker(i)
	}

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.cacheRefreshWorker(i)
	}

	q.started = true
	logger.Info("Queue workers started successfully")
}

func (q *Queue) StopWorkers() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.started {
		return
	}

	logger.Info("Stopping queue workers...")
	q.cancel()
	q.wg.Wait()
	q.started = false
	logger.Info("Queue workers stopped")
}

func (q *Queue) EnqueueNotification(ctx context.Context, job interfaces.NotificationJob) error {
	select {
	case q.notificationQueue <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("notification queue is full")
	}
}

func (q *Queue) DequeueNotification(ctx context.Context) (*interfaces.NotificationJob, error) {
	select {
	case job := <-q.notificationQueue:
		return &job, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *Queue) EnqueueCacheRefresh(ctx context.Context, job interfaces.CacheRefreshJob) error {
	select {
	case q.cacheRefreshQueue <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("cache refresh queue is full")
	}
}

func (q *Queue) DequeueCacheRefresh(ctx context.Context) (*interfaces.CacheRefreshJob, error) {
	select {
	case job := <-q.cacheRefreshQueue:
		return &job, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *Queue) notificationWorker(workerID int) {
	defer q.wg.Done()

	logger.Info("Notification worker %d started", workerID)

	for {
		select {
		case <-q.ctx.Done():
			logger.Info("Notification worker %d stopped", workerID)
			return
		default:

			ctx, cancel := context.WithTimeout(q.ctx, 5*time.Second)
			job, err := q.DequeueNotification(ctx)
			cancel()

			if err != nil {
				if err == context.DeadlineExceeded {
					continue
				}
				logger.Error("Notification worker %d error: %v", workerID, err)
				continue
			}

			if job != nil {
				q.processNotificationJob(workerID, job)
			}
		}
	}
}

func (q *Queue) cacheRefreshWorker(workerID int) {
	defer q.wg.Done()

	logger.Info("Cache refresh worker %d started", workerID)

	for {
		select {
		case <-q.ctx.Done():
			logger.Info("Cache refresh worker %d stopped", workerID)
			return
		default:

			ctx, cancel := context.WithTimeout(q.ctx, 5*time.Second)
			job, err := q.DequeueCacheRefresh(ctx)
			cancel()

			if err != nil {
				if err == context.DeadlineExceeded {
					continue
				}
				logger.Error("Cache refresh worker %d error: %v", workerID, err)
				continue
			}

			if job != nil {
				q.processCacheRefreshJob(workerID, job)
			}
		}
	}
}

func (q *Queue) processNotificationJob(workerID int, job *interfaces.NotificationJob) {
	if q.notificationProcessor == nil {
		return
	}

	logger.Debug("Worker %d processing notification job: %s for booking %s",
		workerID, job.Kind, job.BookingID)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := q.notificationProcessor.ProcessNotificationJob(ctx, *job); err != nil {
		logger.Error("Worker %d failed to process notification job: %v", workerID, err)
	}
}

func (q *Queue) processCacheRefreshJob(workerID int, job *interfaces.CacheRefreshJob) {
	if q.cacheRefresher == nil {
		return
	}

	logger.Debug("Worker %d refreshing cache for class %s", workerID, job.ClassID)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := q.cacheRefresher.RefreshClassCache(ctx, job.ClassID); err != nil {
		logger.Error("Worker %d failed to refresh cache for class %s: %v", workerID, job.ClassID, err)
	}
}

var _ interfaces.QueueService = (*Queue)(nil)
