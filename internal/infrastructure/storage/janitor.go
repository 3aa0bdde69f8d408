package storage

import (
	"context"
	"sync"
	"time"

	"github.com/solarmd/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Ensure Janitor implements shared.FileJanitor
var _ shared.FileJanitor = (*Janitor)(nil)

const (
	janitorQueueSize     = 256
	janitorRemoveTimeout = 10 * time.Second
)

// Janitor removes files asynchronously after the database transaction that
// orphaned them has committed. Removal is best-effort: a failure is logged and
// the row deletion stands, a file lost on disk must never undo a commit.
type Janitor struct {
	files  shared.FileStore
	logger *zap.Logger

	queue chan string
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewJanitor starts a janitor draining removals against the given store
func NewJanitor(files shared.FileStore, logger *zap.Logger) *Janitor {
	j := &Janitor{
		files:  files,
		logger: logger,
		queue:  make(chan string, janitorQueueSize),
	}
	j.wg.Add(1)
	go j.run()
	return j
}

// Remove queues a file for deletion. When the queue is full the path is
// dropped with a warning rather than blocking the caller's request.
func (j *Janitor) Remove(path string) {
	if path == "" {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		j.logger.Warn("janitor closed, file not removed", zap.String("path", path))
		return
	}
	select {
	case j.queue <- path:
	default:
		j.logger.Warn("janitor queue full, file not removed", zap.String("path", path))
	}
}

func (j *Janitor) run() {
	defer j.wg.Done()
	for path := range j.queue {
		ctx, cancel := context.WithTimeout(context.Background(), janitorRemoveTimeout)
		if err := j.files.Delete(ctx, path); err != nil {
			j.logger.Warn("failed to remove orphaned file",
				zap.String("path", path),
				zap.Error(err),
			)
		} else {
			j.logger.Debug("removed orphaned file", zap.String("path", path))
		}
		cancel()
	}
}

// Close drains pending removals and stops the worker
func (j *Janitor) Close() {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return
	}
	j.closed = true
	close(j.queue)
	j.mu.Unlock()

	j.wg.Wait()
}
