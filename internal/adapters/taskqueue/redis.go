// Package taskqueue is an at-least-once task queue on Redis lists.
//
// Producers LPUSH onto <name>:pending. A worker atomically moves the oldest task
// to <name>:processing with BLMOVE, runs the registered handler and removes the
// task from the processing list once the handler returns. Failed tasks are pushed
// back onto pending until they have been attempted maxAttempts times, after which
// they land on <name>:dead.
package taskqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"conferencecentral/internal/domain"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const defaultPollTimeout = 2 * time.Second

// Queue implements domain.TaskDispatcher and runs registered handlers.
type Queue struct {
	rdb         *goredis.Client
	pending     string
	processing  string
	dead        string
	maxAttempts int
	pollTimeout time.Duration
	logger      *slog.Logger

	mu       sync.RWMutex
	handlers map[string]domain.TaskHandler
}

// New returns a queue stored under keys prefixed by name.
func New(rdb *goredis.Client, name string, maxAttempts int, logger *slog.Logger) *Queue {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{
		rdb:         rdb,
		pending:     name + ":pending",
		processing:  name + ":processing",
		dead:        name + ":dead",
		maxAttempts: maxAttempts,
		pollTimeout: defaultPollTimeout,
		logger:      logger.With("component", "taskqueue", "queue", name),
		handlers:    make(map[string]domain.TaskHandler),
	}
}

// Register binds route to h. Registering a route twice replaces the handler.
func (q *Queue) Register(route string, h domain.TaskHandler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers[route] = h
}

// Enqueue submits a task for route.
func (q *Queue) Enqueue(ctx context.Context, route string, params map[string]string) error {
	task := domain.Task{
		ID:     uuid.NewString(),
		Route:  route,
		Params: params,
	}
	raw, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal task: %w", err)
	}
	if err := q.rdb.LPush(ctx, q.pending, raw).Err(); err != nil {
		return fmt.Errorf("enqueue %s: %w", route, err)
	}
	return nil
}

// Run processes tasks until ctx is cancelled. Tasks left in the processing list by
// a previous run are moved back to pending first.
func (q *Queue) Run(ctx context.Context) error {
	if err := q.requeueInFlight(ctx); err != nil {
		return err
	}
	q.logger.InfoContext(ctx, "task worker started")
	for {
		if ctx.Err() != nil {
			q.logger.Info("task worker stopped")
			return nil
		}
		if _, err := q.ProcessNext(ctx); err != nil {
			if ctx.Err() != nil {
				continue
			}
			q.logger.ErrorContext(ctx, "task queue poll failed", "err", err)
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
		}
	}
}

// ProcessNext waits up to the poll timeout for a task and runs it. It reports
// whether a task was taken.
func (q *Queue) ProcessNext(ctx context.Context) (bool, error) {
	raw, err := q.rdb.BLMove(ctx, q.pending, q.processing, "RIGHT", "LEFT", q.pollTimeout).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("take task: %w", err)
	}
	return true, q.handle(ctx, raw)
}

func (q *Queue) handle(ctx context.Context, raw string) error {
	var task domain.Task
	if err := json.Unmarshal([]byte(raw), &task); err != nil {
		q.logger.ErrorContext(ctx, "dropping malformed task", "err", err)
		return q.bury(ctx, raw, raw)
	}
	log := q.logger.With("task_id", task.ID, "route", task.Route, "attempt", task.Attempts+1)

	q.mu.RLock()
	h, ok := q.handlers[task.Route]
	q.mu.RUnlock()
	if !ok {
		log.ErrorContext(ctx, "no handler for task route")
		return q.bury(ctx, raw, raw)
	}

	if err := q.run(ctx, h, task.Params); err != nil {
		task.Attempts++
		next, mErr := json.Marshal(task)
		if mErr != nil {
			return fmt.Errorf("marshal task: %w", mErr)
		}
		if task.Attempts >= q.maxAttempts {
			log.ErrorContext(ctx, "task failed permanently", "err", err)
			return q.bury(ctx, raw, string(next))
		}
		log.WarnContext(ctx, "task failed, retrying", "err", err)
		return q.requeue(ctx, raw, string(next))
	}
	log.DebugContext(ctx, "task done")
	return q.ack(ctx, raw)
}

// run calls h, turning a panic into an error so one bad task cannot stop the worker.
func (q *Queue) run(ctx context.Context, h domain.TaskHandler, params map[string]string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task handler panic: %v", r)
		}
	}()
	return h(ctx, params)
}

func (q *Queue) ack(ctx context.Context, raw string) error {
	if err := q.rdb.LRem(ctx, q.processing, 1, raw).Err(); err != nil {
		return fmt.Errorf("ack task: %w", err)
	}
	return nil
}

func (q *Queue) requeue(ctx context.Context, raw, next string) error {
	_, err := q.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.LPush(ctx, q.pending, next)
		pipe.LRem(ctx, q.processing, 1, raw)
		return nil
	})
	if err != nil {
		return fmt.Errorf("requeue task: %w", err)
	}
	return nil
}

func (q *Queue) bury(ctx context.Context, raw, next string) error {
	_, err := q.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.LPush(ctx, q.dead, next)
		pipe.LRem(ctx, q.processing, 1, raw)
		return nil
	})
	if err != nil {
		return fmt.Errorf("bury task: %w", err)
	}
	return nil
}

func (q *Queue) requeueInFlight(ctx context.Context) error {
	moved := 0
	for {
		err := q.rdb.LMove(ctx, q.processing, q.pending, "LEFT", "RIGHT").Err()
		if errors.Is(err, goredis.Nil) {
			break
		}
		if err != nil {
			return fmt.Errorf("recover in-flight tasks: %w", err)
		}
		moved++
	}
	if moved > 0 {
		q.logger.WarnContext(ctx, "requeued in-flight tasks from a previous run", "count", moved)
	}
	return nil
}
