package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"qlink-go/internal/apperrors"
	"qlink-go/internal/model"
	"qlink-go/internal/repository"
)

const recordTimeout = 5 * time.Second

// RecorderStats 记录器的运行计数，用于运维观测
type RecorderStats struct {
	Dropped int64 // 队列满被丢弃的事件数
	Failed  int64 // 落库失败的事件数
}

// ClickRecorder 点击记录器。
// Enqueue 永不阻塞调用方：队列满就丢弃事件并计数，
// 跳转热路径的延迟优先于点击计数的完整性。
type ClickRecorder struct {
	store   repository.ClickStore
	queue   chan model.ClickEvent
	workers int
	log     *zap.Logger

	wg      sync.WaitGroup
	dropped atomic.Int64
	failed  atomic.Int64

	closeOnce sync.Once
}

func NewClickRecorder(store repository.ClickStore, queueSize, workers int, log *zap.Logger) *ClickRecorder {
	if queueSize < 1 {
		queueSize = 1024
	}
	if workers < 1 {
		workers = 4
	}
	return &ClickRecorder{
		store:   store,
		queue:   make(chan model.ClickEvent, queueSize),
		workers: workers,
		log:     log,
	}
}

// Start 启动后台 worker
func (r *ClickRecorder) Start() {
	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker()
	}
}

// Enqueue 非阻塞投递一个点击事件，返回是否入队成功
func (r *ClickRecorder) Enqueue(event model.ClickEvent) bool {
	select {
	case r.queue <- event:
		return true
	default:
		r.dropped.Add(1)
		r.log.Warn("Click event dropped, queue full",
			zap.Uint("link_id", event.LinkID),
			zap.Int64("dropped_total", r.dropped.Load()),
		)
		return false
	}
}

// Record 同步追加一个点击事件：日志追加与 click_count 自增在同一事务内完成
func (r *ClickRecorder) Record(ctx context.Context, event model.ClickEvent) error {
	if err := r.store.Append(ctx, &event); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFoundError()
		}
		return apperrors.SystemError("failed to record click: " + err.Error())
	}
	return nil
}

// Close 关闭队列并等待 worker 把剩余事件写完
func (r *ClickRecorder) Close() {
	r.closeOnce.Do(func() {
		close(r.queue)
	})
	r.wg.Wait()
}

// Stats 返回当前运行计数
func (r *ClickRecorder) Stats() RecorderStats {
	return RecorderStats{
		Dropped: r.dropped.Load(),
		Failed:  r.failed.Load(),
	}
}

func (r *ClickRecorder) worker() {
	defer r.wg.Done()
	for event := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		err := r.store.Append(ctx, &event)
		cancel()
		if err != nil {
			// 记录失败绝不影响访客侧响应，只计数和打日志
			r.failed.Add(1)
			r.log.Error("Failed to record click event",
				zap.Uint("link_id", event.LinkID),
				zap.Time("timestamp", event.Timestamp),
				zap.Int64("failed_total", r.failed.Load()),
				zap.Error(err),
			)
		}
	}
}
