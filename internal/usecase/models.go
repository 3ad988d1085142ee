package usecase

import (
	"time"

	"github.com/plastyfilm/go-backend/internal/domain"
	"github.com/plastyfilm/go-backend/internal/pricing"
	"github.com/shopspring/decimal"
)

// PRODUCT USECASE

// ProductSort: порядок выдачи каталога.
type ProductSort string

const (
	SortRelevance ProductSort = "relevance"
	SortPriceAsc  ProductSort = "price_asc"
	SortPriceDesc ProductSort = "price_desc"
	SortName      ProductSort = "name"
)

// ParseProductSort разбирает параметр сортировки; пустая строка даёт relevance.
func ParseProductSort(s string) (ProductSort, bool) {
	switch ProductSort(s) {
	case "":
		return SortRelevance, true
	case SortRelevance, SortPriceAsc, SortPriceDesc, SortName:
		return ProductSort(s), true
	default:
		return "", false
	}
}

// ProductReq: данные товара для создания и обновления.
type ProductReq struct {
	Name          string
	Description   string
	Price         decimal.Decimal
	CategoryID    string
	SubcategoryID string
	ImageURL      string
	Stock         int64
}

// ListProductsReq: фильтр каталога, как его передаёт витрина.
type ListProductsReq struct {
	CategoryID    string
	SubcategoryID string
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	Query         string
	Sort          ProductSort
	Page          int
	PerPage       int
}

// ProductListFilter: фильтр на уровне репозитория. При Limit <= 0 без ограничения.
type ProductListFilter struct {
	CategoryID    string
	SubcategoryID string
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	Query         string
	Sort          ProductSort
	Limit         int
	Offset        int
}

// Pagination описывает страницу выдачи.
type Pagination struct {
	Page       int
	PerPage    int
	Total      int
	TotalPages int
}

type ProductPage struct {
	Products []domain.Product
	Pagination
}

// PricedProduct: товар вместе с рассчитанной ценой.
type PricedProduct struct {
	Product domain.Product
	Quote   pricing.Quote
}

type PricedProductPage struct {
	Items []PricedProduct
	Pagination
}

// OFFER USECASE

// OfferReq: данные оферты из админки. ProductID принимается от старых клиентов.
type OfferReq struct {
	Name            string
	Description     string
	Kind            string
	ProductIDs      []string
	ProductID       string
	CategoryID      string
	SubcategoryID   string
	DiscountPercent decimal.Decimal
	StartAt         *time.Time
	EndAt           *time.Time
	Enabled         bool
}

type ListOffersReq struct {
	Search  string
	Page    int
	PerPage int
}

// OfferView: оферта с её состоянием на текущий момент.
type OfferView struct {
	Offer  domain.Offer
	Status pricing.OfferStatus
}

type OfferPage struct {
	Offers []OfferView
	Pagination
}

// OfferProduct: товар на странице акций с ценой по конкретной оферте.
type OfferProduct struct {
	Product    domain.Product
	FinalPrice decimal.Decimal
	Savings    decimal.Decimal
}

// OfferWithProducts: действующая оферта и товары, на которые она распространяется.
type OfferWithProducts struct {
	Offer    domain.Offer
	Products []OfferProduct
}

// CONTACT USECASE

type ContactReq struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// AUTH USECASE

type SignInReq struct {
	Email    string
	Password string
}

// INFRASTUCTURE

// ProductImage представляет изображение, загруженное через multipart/form-data.
type ProductImage struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type из multipart (image/jpeg)
	Size     int64  // фактический размер в байтах
	Name     string // оригинальное имя файла (для логов)
}

// UploadImagesReq: запрос на загрузку изображений в S3 под общим префиксом.
type UploadImagesReq struct {
	Prefix string
	Images []ProductImage
}

// UploadImagesRes: результат загрузки изображений (ключи в MinIO).
type UploadImagesRes struct {
	ImagesKeys []string
}

// UploadImageRes: загруженное изображение товара.
type UploadImageRes struct {
	Key string
	URL string
}

// WriteRawMessageReq: уже сериализованное событие для отправки в Kafka.
type WriteRawMessageReq struct {
	Key       string
	EventType OutboxEventType
	Payload   []byte
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	OfferChanged     OutboxEventType = "offer.changed"
	ProductChanged   OutboxEventType = "product.changed"
	ContactSubmitted OutboxEventType = "contact.submitted"
)

// OutboxEvent: событие, записанное в одной транзакции с изменением данных.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	AggregateID string
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// MAPPERS

func NewProductImage(data []byte, mimeType string, size int64, name string) *ProductImage {
	return &ProductImage{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

func NewUploadImagesReq(prefix string, images []ProductImage) *UploadImagesReq {
	return &UploadImagesReq{
		Prefix: prefix,
		Images: images,
	}
}

func NewUploadImagesRes(imagesKeys []string) *UploadImagesRes {
	return &UploadImagesRes{
		ImagesKeys: imagesKeys,
	}
}

func NewWriteRawMessageReq(key string, eventType OutboxEventType, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		Key:       key,
		EventType: eventType,
		Payload:   payload,
	}
}

func NewOutboxEvent(eventID string, eventType OutboxEventType, aggregateID string, payload []byte) *OutboxEvent {
	return &OutboxEvent{
		EventID:     eventID,
		EventType:   eventType,
		AggregateID: aggregateID,
		Payload:     payload,
		Status:      Pending,
	}
}

func newPagination(page, perPage, total int) Pagination {
	totalPages := 0
	if perPage > 0 {
		totalPages = (total + perPage - 1) / perPage
	}

	return Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}
