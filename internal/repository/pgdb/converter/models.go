package converter

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID            string          `db:"id"`
	Name          string          `db:"name"`
	Description   string          `db:"description"`
	Price         decimal.Decimal `db:"price"`
	CategoryID    *string         `db:"category_id"`
	SubcategoryID *string         `db:"subcategory_id"`
	ImageURL      string          `db:"image_url"`
	Stock         int64           `db:"stock"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     *time.Time      `db:"updated_at"`
}

// CategoryModel представляет запись таблицы categories в PostgreSQL.
type CategoryModel struct {
	ID            string `db:"id"`
	Name          string `db:"name"`
	Slug          string `db:"slug"`
	Icon          string `db:"icon"`
	Description   string `db:"description"`
	SortOrder     int    `db:"sort_order"`
	Subcategories []SubcategoryModel
}

// SubcategoryModel представляет запись таблицы subcategories в PostgreSQL.
type SubcategoryModel struct {
	CategoryID string `db:"category_id"`
	ID         string `db:"id"`
	Name       string `db:"name"`
	Slug       string `db:"slug"`
	SortOrder  int    `db:"sort_order"`
}

// OfferModel представляет запись таблицы offers. ProductID хранит устаревшее одиночное поле.
type OfferModel struct {
	ID              string          `db:"id"`
	Name            string          `db:"name"`
	Description     string          `db:"description"`
	Kind            string          `db:"kind"`
	ProductIDs      []string        `db:"product_ids"`
	ProductID       *string         `db:"product_id"`
	CategoryID      *string         `db:"category_id"`
	SubcategoryID   *string         `db:"subcategory_id"`
	DiscountPercent decimal.Decimal `db:"discount_percent"`
	StartAt         *time.Time      `db:"start_at"`
	EndAt           *time.Time      `db:"end_at"`
	Enabled         bool            `db:"enabled"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       *time.Time      `db:"updated_at"`
}

// ContactMessageModel представляет запись таблицы contact_messages.
type ContactMessageModel struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Phone     string    `db:"phone"`
	Message   string    `db:"message"`
	CreatedAt time.Time `db:"created_at"`
}

// OutboxEventModel представляет запись таблицы outbox_events.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	AggregateID string     `db:"aggregate_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
