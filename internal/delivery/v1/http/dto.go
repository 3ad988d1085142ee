package http

import (
	"encoding/json"
	"time"

	"github.com/gosimple/slug"
	"github.com/plastyfilm/go-backend/internal/domain"
	"github.com/plastyfilm/go-backend/internal/pricing"
	"github.com/plastyfilm/go-backend/internal/usecase"
	"github.com/plastyfilm/go-backend/pkg/e"
	"github.com/shopspring/decimal"
)

// REQUESTS

type ProductRequest struct {
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	Price         json.Number `json:"price" swaggertype:"number"`
	CategoryID    string      `json:"categoryId"`
	SubcategoryID string      `json:"subcategoryId"`
	ImageURL      string      `json:"imageUrl"`
	Stock         int64       `json:"stock"`
}

// OfferRequest: тело создания и изменения оферты. productId оставлен для старых клиентов.
type OfferRequest struct {
	Name            string      `json:"name"`
	Description     string      `json:"description"`
	Kind            string      `json:"kind" enums:"product,subcategory,category"`
	ProductIDs      []string    `json:"productIds"`
	ProductID       string      `json:"productId"`
	CategoryID      string      `json:"categoryId"`
	SubcategoryID   string      `json:"subcategoryId"`
	DiscountPercent json.Number `json:"discountPercent" swaggertype:"number"`
	StartAt         *time.Time  `json:"startAt"`
	EndAt           *time.Time  `json:"endAt"`
	Enabled         *bool       `json:"enabled"`
}

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RESPONSES

type PaginationResponse struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type SubcategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type CategoryResponse struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	Slug          string                `json:"slug"`
	Icon          string                `json:"icon"`
	Description   string                `json:"description"`
	Order         int                   `json:"order"`
	Subcategories []SubcategoryResponse `json:"subcategories"`
}

type ProductResponse struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Slug          string      `json:"slug"`
	Description   string      `json:"description"`
	Price         json.Number `json:"price" swaggertype:"number"`
	CategoryID    string      `json:"categoryId,omitempty"`
	SubcategoryID string      `json:"subcategoryId,omitempty"`
	ImageURL      string      `json:"imageUrl,omitempty"`
	Stock         int64       `json:"stock"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     *time.Time  `json:"updatedAt,omitempty"`
}

type AppliedOfferResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// PricingResponse: цена товара с учётом действующей оферты и готовые строки для витрины.
type PricingResponse struct {
	OriginalPrice     json.Number           `json:"originalPrice" swaggertype:"number"`
	FinalPrice        json.Number           `json:"finalPrice" swaggertype:"number"`
	Savings           json.Number           `json:"savings" swaggertype:"number"`
	DiscountPercent   json.Number           `json:"discountPercent" swaggertype:"number"`
	HasOffer          bool                  `json:"hasOffer"`
	Offer             *AppliedOfferResponse `json:"offer,omitempty"`
	FormattedPrice    string                `json:"formattedPrice"`
	FormattedOriginal string                `json:"formattedOriginalPrice,omitempty"`
	Badge             string                `json:"badge,omitempty"`
	SavingsText       string                `json:"savingsText,omitempty"`
}

type PricedProductResponse struct {
	ProductResponse
	Pricing PricingResponse `json:"pricing"`
}

type ProductListResponse struct {
	Items      []PricedProductResponse `json:"items"`
	Pagination PaginationResponse      `json:"pagination"`
}

type OfferResponse struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Description     string      `json:"description"`
	Kind            string      `json:"kind"`
	ProductIDs      []string    `json:"productIds,omitempty"`
	CategoryID      string      `json:"categoryId,omitempty"`
	SubcategoryID   string      `json:"subcategoryId,omitempty"`
	DiscountPercent json.Number `json:"discountPercent" swaggertype:"number"`
	Badge           string      `json:"badge"`
	StartAt         *time.Time  `json:"startAt,omitempty"`
	EndAt           *time.Time  `json:"endAt,omitempty"`
	Enabled         bool        `json:"enabled"`
	Status          string      `json:"status,omitempty" enums:"active,scheduled,expired,disabled"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       *time.Time  `json:"updatedAt,omitempty"`
}

type OfferListResponse struct {
	Items      []OfferResponse    `json:"items"`
	Pagination PaginationResponse `json:"pagination"`
}

type OfferProductResponse struct {
	ProductResponse
	FinalPrice        json.Number `json:"finalPrice" swaggertype:"number"`
	Savings           json.Number `json:"savings" swaggertype:"number"`
	FormattedPrice    string      `json:"formattedPrice"`
	FormattedOriginal string      `json:"formattedOriginalPrice"`
	SavingsText       string      `json:"savingsText"`
}

type ActiveOfferResponse struct {
	OfferResponse
	Products []OfferProductResponse `json:"products"`
}

type ContactResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

type SessionResponse struct {
	Token     string    `json:"token,omitempty"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type ImageResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// CONVERTERS

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func toPagination(p usecase.Pagination) PaginationResponse {
	return PaginationResponse{Page: p.Page, PerPage: p.PerPage, Total: p.Total, TotalPages: p.TotalPages}
}

func toCategoryResponse(c *domain.Category) CategoryResponse {
	subs := make([]SubcategoryResponse, 0, len(c.Subcategories))
	for _, s := range c.Subcategories {
		subs = append(subs, SubcategoryResponse{ID: s.ID, Name: s.Name, Slug: s.Slug})
	}
	return CategoryResponse{
		ID:            c.ID,
		Name:          c.Name,
		Slug:          c.Slug,
		Icon:          c.Icon,
		Description:   c.Description,
		Order:         c.Order,
		Subcategories: subs,
	}
}

func toProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Slug:          slug.Make(p.Name),
		Description:   p.Description,
		Price:         number(p.Price),
		CategoryID:    p.CategoryID,
		SubcategoryID: p.SubcategoryID,
		ImageURL:      p.ImageURL,
		Stock:         p.Stock,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toPricingResponse(q pricing.Quote) PricingResponse {
	res := PricingResponse{
		OriginalPrice:   number(q.OriginalPrice),
		FinalPrice:      number(q.FinalPrice),
		Savings:         number(q.Savings),
		DiscountPercent: number(q.DiscountPercent),
		HasOffer:        q.HasOffer(),
		FormattedPrice:  pricing.FormatPrice(q.FinalPrice),
	}
	if q.HasOffer() {
		res.Offer = &AppliedOfferResponse{ID: q.Offer.ID, Name: q.Offer.Name, Kind: string(q.Offer.Kind())}
		res.FormattedOriginal = pricing.FormatPrice(q.OriginalPrice)
		res.Badge = pricing.BadgeText(q.DiscountPercent)
		res.SavingsText = pricing.SavingsText(q.Savings)
	}
	return res
}

func toPricedProductResponse(p *usecase.PricedProduct) PricedProductResponse {
	return PricedProductResponse{
		ProductResponse: toProductResponse(&p.Product),
		Pricing:         toPricingResponse(p.Quote),
	}
}

func toOfferResponse(o *domain.Offer, status pricing.OfferStatus) OfferResponse {
	res := OfferResponse{
		ID:              o.ID,
		Name:            o.Name,
		Description:     o.Description,
		Kind:            string(o.Kind()),
		DiscountPercent: number(o.DiscountPercent),
		Badge:           pricing.BadgeText(o.DiscountPercent),
		StartAt:         o.StartAt,
		EndAt:           o.EndAt,
		Enabled:         o.Enabled,
		Status:          string(status),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}

	switch t := o.Target.(type) {
	case domain.ProductTarget:
		res.ProductIDs = t.ProductIDs
	case domain.SubcategoryTarget:
		res.CategoryID = t.CategoryID
		res.SubcategoryID = t.SubcategoryID
	case domain.CategoryTarget:
		res.CategoryID = t.CategoryID
	}

	return res
}

func toActiveOfferResponse(o *usecase.OfferWithProducts) ActiveOfferResponse {
	products := make([]OfferProductResponse, 0, len(o.Products))
	for i := range o.Products {
		op := &o.Products[i]
		products = append(products, OfferProductResponse{
			ProductResponse:   toProductResponse(&op.Product),
			FinalPrice:        number(op.FinalPrice),
			Savings:           number(op.Savings),
			FormattedPrice:    pricing.FormatPrice(op.FinalPrice),
			FormattedOriginal: pricing.FormatPrice(op.Product.Price),
			SavingsText:       pricing.SavingsText(op.Savings),
		})
	}

	return ActiveOfferResponse{
		OfferResponse: toOfferResponse(&o.Offer, pricing.StatusActive),
		Products:      products,
	}
}

func (r *ProductRequest) toUseCase() (*usecase.ProductReq, error) {
	price, err := parseDecimal(r.Price, e.ErrInvalidPrice)
	if err != nil {
		return nil, err
	}
	return &usecase.ProductReq{
		Name:          r.Name,
		Description:   r.Description,
		Price:         price,
		CategoryID:    r.CategoryID,
		SubcategoryID: r.SubcategoryID,
		ImageURL:      r.ImageURL,
		Stock:         r.Stock,
	}, nil
}

func (r *OfferRequest) toUseCase() (*usecase.OfferReq, error) {
	discount, err := parseDecimal(r.DiscountPercent, e.ErrInvalidDiscountPercentage)
	if err != nil {
		return nil, err
	}

	enabled := true
	if r.Enabled != nil {
		enabled = *r.Enabled
	}

	return &usecase.OfferReq{
		Name:            r.Name,
		Description:     r.Description,
		Kind:            r.Kind,
		ProductIDs:      r.ProductIDs,
		ProductID:       r.ProductID,
		CategoryID:      r.CategoryID,
		SubcategoryID:   r.SubcategoryID,
		DiscountPercent: discount,
		StartAt:         r.StartAt,
		EndAt:           r.EndAt,
		Enabled:         enabled,
	}, nil
}
