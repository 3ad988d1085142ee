package usecase

import (
	"context"
	"math"

	"github.com/oklog/ulid/v2"
	"github.com/plastyfilm/go-backend/internal/cfg"
)

// outbox пишет событие в outbox внутри текущей транзакции.
// EventID генерируется как ULID.
type outbox struct {
	repo    OutboxRepository
	encoder EventEncoder
}

func (o outbox) emit(ctx context.Context, eventType OutboxEventType, aggregateID string, fields map[string]any) error {
	payload, err := o.encoder.Encode(eventType, aggregateID, fields)
	if err != nil {
		return err
	}

	_, err = o.repo.Create(ctx, NewOutboxEvent(ulid.Make().String(), eventType, aggregateID, payload))
	return err
}

// normalizePage приводит номер страницы и размер к допустимым значениям.
// Страница ограничена сверху так, чтобы (page-1)*perPage не переполнял int.
func normalizePage(page, perPage int, store *cfg.StoreCfg) (int, int) {
	if perPage < 1 {
		perPage = store.DefaultPerPage
	}
	if perPage > store.MaxPerPage {
		perPage = store.MaxPerPage
	}
	if page < 1 {
		page = 1
	}
	if maxPage := math.MaxInt/perPage + 1; page > maxPage {
		page = maxPage
	}
	return page, perPage
}

// pageOffset считает смещение для уже нормализованной страницы.
func pageOffset(page, perPage int) int {
	return (page - 1) * perPage
}
