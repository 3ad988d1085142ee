package kafka

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/plastyfilm/go-backend/internal/cfg"
	"github.com/plastyfilm/go-backend/internal/usecase"
	"github.com/plastyfilm/go-backend/pkg/e"
	"github.com/plastyfilm/go-backend/pkg/jitter"
	"github.com/plastyfilm/go-backend/pkg/logger"
)

const outboxChannel = "outbox_pending"

// OutboxObserver получает исходы публикации, например для метрик.
type OutboxObserver interface {
	OutboxPublished(eventType string)
	OutboxFailed(eventType string)
	OutboxReleased(n int64)
}

type nopObserver struct{}

func (nopObserver) OutboxPublished(string) {}
func (nopObserver) OutboxFailed(string)    {}
func (nopObserver) OutboxReleased(int64)   {}

// OutboxWorker публикует события outbox в Kafka.
// Будится через LISTEN outbox_pending и периодически подметает хвосты.
type OutboxWorker struct {
	repo       usecase.OutboxRepository
	logger     logger.Logger
	producer   usecase.MessageProducer
	dbConnStr  string
	batchSize  int
	sweep      time.Duration
	stuckAfter time.Duration
	retention  time.Duration
	backoff    *jitter.Backoff
	observer   OutboxObserver

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewOutboxWorker(
	repo usecase.OutboxRepository,
	logger logger.Logger,
	producer usecase.MessageProducer,
	cfg *cfg.KafkaCfg,
	dbConnStr string,
) *OutboxWorker {
	return &OutboxWorker{
		repo:       repo,
		logger:     logger,
		producer:   producer,
		dbConnStr:  dbConnStr,
		batchSize:  max(cfg.OutboxBatchSize, 1),
		sweep:      cfg.OutboxSweep,
		stuckAfter: cfg.OutboxStuckAfter,
		retention:  cfg.OutboxRetention,
		backoff:    jitter.New(2*time.Second, 30*time.Second, jitter.DefaultFactor),
		observer:   nopObserver{},
	}
}

// WithObserver подключает наблюдателя; nil оставляет текущего.
func (w *OutboxWorker) WithObserver(o OutboxObserver) *OutboxWorker {
	if o != nil {
		w.observer = o
	}
	return w
}

func (w *OutboxWorker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)

	w.wg.Add(2)
	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()

	go func() {
		defer w.wg.Done()
		w.listenOutboxNotifications(ctx)
	}()
}

// Stop останавливает воркер и ждёт завершения горутин не дольше ctx.
func (w *OutboxWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.cancel()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("outbox worker stop: %w", ctx.Err())
	}
}

func (w *OutboxWorker) run(ctx context.Context) {
	w.logger.Infof("Draining pending outbox events on startup...")
	w.drain(ctx)

	if w.sweep <= 0 {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(w.sweep)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Infof("Outbox worker stopped by context cancellation")
			return
		case <-ticker.C:
			w.releaseStuck(ctx)
			w.drain(ctx)
			w.prune(ctx)
		}
	}
}

func (w *OutboxWorker) releaseStuck(ctx context.Context) {
	if w.stuckAfter <= 0 {
		return
	}
	n, err := w.repo.ReleaseStuck(ctx, w.stuckAfter)
	if err != nil {
		w.logger.Warnf("release stuck outbox events failed: %v", err)
		return
	}
	if n > 0 {
		w.observer.OutboxReleased(n)
		w.logger.Infof("Released %d stuck outbox event(s)", n)
	}
}

// prune чистит опубликованные события старше retention. 0 отключает очистку.
func (w *OutboxWorker) prune(ctx context.Context) {
	if w.retention <= 0 {
		return
	}
	n, err := w.repo.DeleteProcessed(ctx, w.retention)
	if err != nil {
		w.logger.Warnf("prune processed outbox events failed: %v", err)
		return
	}
	if n > 0 {
		w.logger.Debugf("Pruned %d processed outbox event(s)", n)
	}
}

// drain обрабатывает пачки, пока очередь не опустеет.
func (w *OutboxWorker) drain(ctx context.Context) {
	for ctx.Err() == nil {
		hasMore, err := w.processBatch(ctx)
		if err != nil {
			w.logger.Warnf("Batch processing failed: %v", err)
			return
		}
		if !hasMore {
			return
		}
	}
}

func (w *OutboxWorker) listenOutboxNotifications(ctx context.Context) {
	var conn *pgx.Conn

	connect := func() error {
		c, err := pgx.Connect(ctx, w.dbConnStr)
		if err != nil {
			return e.Wrap("failed to connect for LISTEN", err)
		}

		if _, err = c.Exec(ctx, "LISTEN "+outboxChannel); err != nil {
			_ = c.Close(ctx)
			return e.Wrap("failed to LISTEN", err)
		}

		conn = c
		w.logger.Infof("Subscribed to '%s' channel", outboxChannel)
		return nil
	}

	for attempt := 0; ; attempt++ {
		err := connect()
		if err == nil {
			break
		}
		w.logger.Warnf("LISTEN connect failed: %v", err)
		if w.backoff.Sleep(ctx, attempt) != nil {
			return
		}
	}
	defer func() { _ = conn.Close(context.Background()) }()

	for ctx.Err() == nil {
		waitCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		notif, err := conn.WaitForNotification(waitCtx)
		cancel()

		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				continue
			}

			w.logger.Warnf("Connection lost: %v. Reconnecting...", err)
			_ = conn.Close(ctx)

			for attempt := 0; ; attempt++ {
				if w.backoff.Sleep(ctx, attempt) != nil {
					return
				}
				err := connect()
				if err == nil {
					break
				}
				w.logger.Warnf("Reconnect failed: %v", err)
			}
			continue
		}

		if notif != nil && notif.Channel == outboxChannel {
			w.logger.Debugf("Received outbox notification, draining outbox events")
			w.drain(ctx)
		}
	}
}

// processBatch отправляет одну пачку. Неотправленные события остаются в processing
// и возвращаются в очередь через ReleaseStuck.
func (w *OutboxWorker) processBatch(ctx context.Context) (bool, error) {
	events, err := w.repo.GetAndMarkAsProcessing(ctx, w.batchSize)
	if err != nil {
		return false, err
	}

	if len(events) == 0 {
		return false, nil
	}

	for _, event := range events {
		if err := w.processEvent(ctx, event); err != nil {
			w.observer.OutboxFailed(string(event.EventType))
			w.logger.Warnf("publish event %s (%s) failed: %v", event.EventID, event.EventType, err)
			continue
		}
		w.observer.OutboxPublished(string(event.EventType))
		if err := w.repo.MarkAsProcessed(ctx, event.ID); err != nil {
			w.logger.Warnf("mark processed failed: %v", err)
		}
	}

	return true, nil
}

func (w *OutboxWorker) processEvent(ctx context.Context, event *usecase.OutboxEvent) error {
	req := usecase.NewWriteRawMessageReq(event.AggregateID, event.EventType, event.Payload)
	if err := w.producer.WriteRawMessage(ctx, req); err != nil {
		if isRetryableError(err) {
			return e.Wrap("Temporary Kafka failure, will retry", err)
		}
		return e.Wrap("Permanent Kafka failure", err)
	}
	return nil
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	retryablePhrases := []string{
		"connection refused",
		"i/o timeout",
		"network is unreachable",
		"broker not available",
		"connection reset",
		"broken pipe",
		"no such host",
	}
	for _, phrase := range retryablePhrases {
		if strings.Contains(errStr, phrase) {
			return true
		}
	}
	return false
}
