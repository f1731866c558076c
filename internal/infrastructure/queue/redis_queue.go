package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"fitbook/internal/config"
	interfaces "fitbook/internal/interfaces/infrastructure"
	serviceInterfaces "fitbook/internal/interfaces/service"
	"fitbook/pkg/logger"

	"github.com/go-redis/redis/v8"
)

const (
	NotificationQueueKey  = "queue:notifications"
	CacheRefreshQueueKey  = "queue:cache_refresh"
	DefaultDequeueTimeout = 2 * time.Second
	DefaultJobTimeout     = 30 * time.Second
	WorkerSleepDuration   = 50 * time.Millisecond
)

// RedisQueue is a Redis list backed QueueService. Jobs survive restarts and
// can be drained by any instance sharing the Redis deployment.
type RedisQueue struct {
	client redis.UniversalClient

	workers int
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
	mu      sync.RWMutex

	notificationProcessor serviceInterfaces.NotificationProcessor
	cacheRefresher        serviceInterfaces.CacheRefresher
}

// NewRedisQueue creates a new Redis-based queue service
func NewRedisQueue(cfg *config.CacheConfig, workers int) interfaces.QueueService {
	ctx, cancel := context.WithCancel(context.Background())

	var rdb redis.UniversalClient
	if cfg.Sentinel.Enabled {
		rdb = redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:       cfg.Sentinel.MasterName,
			SentinelAddrs:    cfg.Sentinel.SentinelAddrs,
			SentinelPassword: cfg.Sentinel.SentinelPassword,
			Password:         cfg.Password,
			DB:               cfg.DB,
			MaxRetries:       cfg.MaxRetries,
			PoolSize:         cfg.PoolSize,
			PoolTimeout:      time.Duration(cfg.PoolTimeout) * time.Second,
			IdleTimeout:      time.Duration(cfg.IdleTimeout) * time.Second,
		})
	} else {
		rdb = redis.NewClient(&redis.Options{
			Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Password:    cfg.Password,
			DB:          cfg.DB,
			MaxRetries:  cfg.MaxRetries,
			PoolSize:    cfg.PoolSize,
			PoolTimeout: time.Duration(cfg.PoolTimeout) * time.Second,
			IdleTimeout: time.Duration(cfg.IdleTimeout) * time.Second,
		})
	}

	queue := &RedisQueue{
		client:  rdb,
		workers: workers,
		ctx:     ctx,
		cancel:  cancel,
		started: false,
	}

	return queue
}

func (rq *RedisQueue) SetNotificationProcessor(processor interface{}) {
	rq.mu.Lock()
	defer rq.mu.Unlock()

	if p, ok := processor.(serviceInterfaces.NotificationProcessor); ok {
		rq.notificationProcessor = p
	} else {
		logger.Error("Invalid service type provided to SetNotificationProcessor")
	}
}

func (rq *RedisQueue) SetCacheRefresher(refresher interface{}) {
	rq.mu.Lock()
	defer rq.mu.Unlock()

	if r, ok := refresher.(serviceInterfaces.CacheRefresher); ok {
		rq.cacheRefresher = r
	} else {
		logger.Error("Invalid service type provided to SetCacheRefresher")
	}
}

func (rq *RedisQueue) StartWorkers() {
	rq.mu.Lock()
	defer rq.mu.Unlock()

	if rq.started {
		return
	}

	if rq.notificationProcessor == nil && rq.cacheRefresher == nil {
		logger.Warn("No processors set, workers cannot process jobs")
		return
	}

	logger.Info("Starting %d Redis queue workers", rq.workers)

	for i := 0; i < rq.workers; i++ {
		rq.wg.Add(1)
		go rq.notificationWorker(i)
	}

	for i := 0; i < rq.workers; i++ {
		rq.wg.Add(1)
		go rq.cacheRefreshWorker(i)
	}

	rq.started = true
	logger.Info("Redis queue workers started successfully")
}

func (rq *RedisQueue) StopWorkers() {
	rq.mu.Lock()
	defer rq.mu.Unlock()

	if !rq.started {
		return
	}

	logger.Info("Stopping Redis queue workers...")
	rq.cancel()
	rq.wg.Wait()
	rq.started = false
	logger.Info("Redis queue workers stopped")
}

// EnqueueNotification adds a notification job to the Redis queue
func (rq *RedisQueue) EnqueueNotification(ctx context.Context, job interfaces.NotificationJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal notification job: %w", err)
	}

	err = rq.client.LPush(ctx, NotificationQueueKey, data).Err()
	if err != nil {
		return fmt.Errorf("failed to enqueue notification job: %w", err)
	}

	logger.Debug("Enqueued notification job: %s for booking %s", job.Kind, job.BookingID)
	return nil
}

// DequeueNotification retrieves a notification job from the Redis queue
func (rq *RedisQueue) DequeueNotification(ctx context.Context) (*interfaces.NotificationJob, error) {
	result, err := rq.client.BRPop(ctx, DefaultDequeueTimeout, NotificationQueueKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		if err == context.DeadlineExceeded {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to dequeue notification job: %w", err)
	}

	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected Redis BRPOP result format")
	}

	var job interfaces.NotificationJob
	err = json.Unmarshal([]byte(result[1]), &job)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal notification job: %w", err)
	}

	return &job, nil
}

// EnqueueCacheRefresh adds a cache refresh job to the Redis queue
func (rq *RedisQueue) EnqueueCacheRefresh(ctx context.Context, job interfaces.CacheRefreshJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal cache refresh job: %w", err)
	}

	err = rq.client.LPush(ctx, CacheRefreshQueueKey, data).Err()
	if err != nil {
		return fmt.Errorf("failed to enqueue cache refresh job: %w", err)
	}

	logger.Debug("Enqueued cache refresh for class: %s", job.ClassID)
	return nil
}

// DequeueCacheRefresh retrieves a cache refresh job from the Redis queue
func (rq *RedisQueue) DequeueCacheRefresh(ctx context.Context) (*interfaces.CacheRefreshJob, error) {
	result, err := rq.client.BRPop(ctx, DefaultDequeueTimeout, CacheRefreshQueueKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		if err == context.DeadlineExceeded {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to dequeue cache refresh job: %w", err)
	}

	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected Redis BRPOP result format")
	}

	var job interfaces.CacheRefreshJob
	err = json.Unmarshal([]byte(result[1]), &job)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache refresh job: %w", err)
	}

	return &job, nil
}

func (rq *RedisQueue) notificationWorker(workerID int) {
	defer rq.wg.Done()

	logger.Info("Redis notification worker %d started", workerID)

	for {
		select {
		case <-rq.ctx.Done():
			logger.Info("Redis notification worker %d stopped", workerID)
			return
		default:
			ctx, cancel := context.WithTimeout(context.Background(), DefaultDequeueTimeout)
			job, err := rq.DequeueNotification(ctx)
			cancel()

			if err != nil {
				logger.Error("Redis notification worker %d error: %v", workerID, err)
				time.Sleep(WorkerSleepDuration)
				continue
			}

			if job != nil {
				rq.processNotificationJob(workerID, job)
			} else {
				time.Sleep(WorkerSleepDuration)
			}
		}
	}
}

func (rq *RedisQueue) cacheRefreshWorker(workerID int) {
	defer rq.wg.Done()

	logger.Info("Redis cache refresh worker %d started", workerID)

	for {
		select {
		case <-rq.ctx.Done():
			logger.Info("Redis cache refresh worker %d stopped", workerID)
			return
		default:
			ctx, cancel := context.WithTimeout(context.Background(), DefaultDequeueTimeout)
			job, err := rq.DequeueCacheRefresh(ctx)
			cancel()

			if err != nil {
				logger.Error("Redis cache refresh worker %d error: %v", workerID, err)
				time.Sleep(WorkerSleepDuration)
				continue
			}

			if job != nil {
				rq.processCacheRefreshJob(workerID, job)
			} else {
				time.Sleep(WorkerSleepDuration)
			}
		}
	}
}

func (rq *RedisQueue) processNotificationJob(workerID int, job *interfaces.NotificationJob) {
	if rq.notificationProcessor == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), DefaultJobTimeout)
	defer cancel()

	if err := rq.notificationProcessor.ProcessNotificationJob(ctx, *job); err != nil {
		logger.Error("Redis worker %d failed to process notification job: %v", workerID, err)
	}
}

func (rq *RedisQueue) processCacheRefreshJob(workerID int, job *interfaces.CacheRefreshJob) {
	if rq.cacheRefresher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), DefaultJobTimeout)
	defer cancel()

	if err := rq.cacheRefresher.RefreshClassCache(ctx, job.ClassID); err != nil {
		logger.Error("Redis worker %d failed to refresh cache for class %s: %v", workerID, job.ClassID, err)
	}
}

var _ interfaces.QueueService = (*RedisQueue)(nil)
