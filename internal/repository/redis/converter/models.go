package converter

import "time"

// ProductRedisModel: JSON-представление товара в кэше.
type ProductRedisModel struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Price         string     `json:"price"`
	CategoryID    string     `json:"category_id,omitempty"`
	SubcategoryID string     `json:"subcategory_id,omitempty"`
	ImageURL      string     `json:"image_url,omitempty"`
	Stock         int64      `json:"stock"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// OfferRedisModel: JSON-представление оферты в кэше. Поля цели зависят от Kind.
type OfferRedisModel struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Kind            string     `json:"kind"`
	ProductIDs      []string   `json:"product_ids,omitempty"`
	CategoryID      string     `json:"category_id,omitempty"`
	SubcategoryID   string     `json:"subcategory_id,omitempty"`
	DiscountPercent string     `json:"discount_percent"`
	StartAt         *time.Time `json:"start_at,omitempty"`
	EndAt           *time.Time `json:"end_at,omitempty"`
	Enabled         bool       `json:"enabled"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

// SessionRedisModel: сессия администратора в кэше.
type SessionRedisModel struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
