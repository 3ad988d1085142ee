// Package closer останавливает ресурсы приложения в обратном порядке регистрации.
package closer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/plastyfilm/go-backend/pkg/logger"
)

const defaultForcedTimeout = 2 * time.Second

// Func — функция остановки ресурса.
type Func func(ctx context.Context) error

type resource struct {
	name  string
	close Func
}

// Closer потокобезопасно собирает функции остановки и вызывает их один раз.
type Closer struct {
	mu            sync.Mutex
	once          sync.Once
	resources     []resource
	forcedTimeout time.Duration
	logger        logger.Logger
}

// NewCloser создаёт Closer. forcedTimeout задаёт время на принудительную остановку
// ресурсов, до которых не дошла очередь до истечения контекста Close.
func NewCloser(forcedTimeout time.Duration, log logger.Logger) *Closer {
	if forcedTimeout <= 0 {
		forcedTimeout = defaultForcedTimeout
	}
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Closer{
		forcedTimeout: forcedTimeout,
		logger:        log,
	}
}

// Add регистрирует ресурс; name попадает в лог и в текст ошибки.
func (c *Closer) Add(name string, f Func) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resources = append(c.resources, resource{name: name, close: f})
}

// Close останавливает ресурсы в порядке LIFO. Повторные вызовы возвращают nil.
// Если ctx истекает раньше, оставшиеся ресурсы останавливаются параллельно с forcedTimeout.
func (c *Closer) Close(ctx context.Context) error {
	var err error
	c.once.Do(func() {
		c.mu.Lock()
		resources := c.resources
		c.mu.Unlock()

		pending, errs := c.graceful(ctx, resources)
		if len(pending) > 0 {
			c.logger.Warnf("shutdown deadline exceeded, forcing %d resource(s)", len(pending))
			errs = append(errs, c.forced(pending)...)
		}

		err = errors.Join(errs...)
	})

	return err
}

// graceful вызывает функции по одной с конца и возвращает ресурсы, до которых не дошла очередь.
func (c *Closer) graceful(ctx context.Context, resources []resource) ([]resource, []error) {
	var errs []error
	for i := len(resources) - 1; i >= 0; i-- {
		res := resources[i]
		done := make(chan error, 1)

		go func() {
			done <- res.close(ctx)
		}()

		select {
		case err := <-done:
			if err != nil {
				c.logger.Errorf(err, "failed to close %s", res.name)
				errs = append(errs, fmt.Errorf("%s: %w", res.name, err))
				continue
			}
			c.logger.Infof("%s closed", res.name)
		case <-ctx.Done():
			// res уже запущен, принудительно останавливаются только не начатые
			errs = append(errs, fmt.Errorf("%s: %w", res.name, ctx.Err()))
			return resources[:i], errs
		}
	}

	return nil, errs
}

func (c *Closer) forced(resources []resource) []error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	ctx, cancel := context.WithTimeout(context.Background(), c.forcedTimeout)
	defer cancel()

	for _, res := range resources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := res.close(ctx); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s (forced): %w", res.name, err))
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return errs
}
