package usecase

import (
	"context"
	"time"

	"github.com/plastyfilm/go-backend/internal/domain"
)

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
	List(ctx context.Context, filter ProductListFilter) ([]domain.Product, int, error)
}

type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetByID(ctx context.Context, id string) (*domain.Category, error)
}

type OfferRepository interface {
	Create(ctx context.Context, offer *domain.Offer) (*domain.Offer, error)
	Update(ctx context.Context, offer *domain.Offer) (*domain.Offer, error)
	Delete(ctx context.Context, id string) error
	Toggle(ctx context.Context, id string) (*domain.Offer, error)
	GetByID(ctx context.Context, id string) (*domain.Offer, error)
	// List возвращает страницу оферт (новые сверху) и общее количество.
	List(ctx context.Context, search string, limit, offset int) ([]domain.Offer, int, error)
	// ListEnabled возвращает включённые оферты, новые сверху.
	ListEnabled(ctx context.Context) ([]domain.Offer, error)
}

type ContactRepository interface {
	Create(ctx context.Context, msg *domain.ContactMessage) (*domain.ContactMessage, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
	ReleaseStuck(ctx context.Context, olderThan time.Duration) (int64, error)
	DeleteProcessed(ctx context.Context, olderThan time.Duration) (int64, error)
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Delete(ctx context.Context, bucket, key string) error
}

// CacheRepository версионирует записи поколением: Get отдаёт поколение, Set пишет под ним,
// Delete начинает новое. Запись со старым поколением после Delete уже не читается.
type CacheRepository interface {
	GetProducts(ctx context.Context, ids []string) (products map[string]domain.Product, version int64, err error)
	SetProducts(ctx context.Context, version int64, products []domain.Product) error
	DeleteProducts(ctx context.Context, ids []string) error
	// GetEnabledOffers возвращает ok=false при промахе кэша.
	GetEnabledOffers(ctx context.Context) (offers []domain.Offer, version int64, ok bool, err error)
	SetEnabledOffers(ctx context.Context, version int64, offers []domain.Offer) error
	DeleteEnabledOffers(ctx context.Context) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.AdminSession) error
	// Get возвращает e.ErrUnauthorized, если сессии нет или она истекла.
	Get(ctx context.Context, token string) (*domain.AdminSession, error)
	Delete(ctx context.Context, token string) error
}
