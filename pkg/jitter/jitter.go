// Package jitter считает интервалы повторов с экспоненциальным ростом и случайной добавкой,
// чтобы повторные попытки нескольких воркеров не совпадали по времени.
package jitter

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// DefaultFactor — стандартная доля джиттера (50%)
const DefaultFactor = 0.5

// Backoff описывает политику повторов. Безопасен для конкурентного использования.
type Backoff struct {
	base   time.Duration
	max    time.Duration
	factor float64

	mu  sync.Mutex
	rng *rand.Rand
}

// New создаёт политику: base — первая задержка, max — потолок до джиттера,
// factor — доля случайной добавки (0.5 означает до +50%).
func New(base, max time.Duration, factor float64) *Backoff {
	return NewWithRand(base, max, factor, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand позволяет передать свой генератор, например детерминированный в тестах.
func NewWithRand(base, max time.Duration, factor float64, rng *rand.Rand) *Backoff {
	if max < base {
		max = base
	}
	if factor < 0 {
		factor = 0
	}
	return &Backoff{base: base, max: max, factor: factor, rng: rng}
}

// Next возвращает задержку перед попыткой attempt (с нуля).
// Результат лежит в [d, d*(1+factor)], где d = min(base*2^attempt, max).
func (b *Backoff) Next(attempt int) time.Duration {
	d := b.base
	for i := 0; i < attempt && d < b.max; i++ {
		d *= 2
	}
	d = min(d, b.max)

	b.mu.Lock()
	extra := b.rng.Float64() * b.factor * float64(d)
	b.mu.Unlock()

	return d + time.Duration(extra)
}

// Sleep ждёт Next(attempt) или отмены контекста.
func (b *Backoff) Sleep(ctx context.Context, attempt int) error {
	t := time.NewTimer(b.Next(attempt))
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
