package usecase

import (
	"context"

	"github.com/plastyfilm/go-backend/internal/domain"
)

type ProductUC interface {
	CreateProduct(ctx context.Context, req *ProductReq) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, req *ProductReq) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context, req *ListProductsReq) (*ProductPage, error)
	ListPricedProducts(ctx context.Context, req *ListProductsReq) (*PricedProductPage, error)
	GetPricedProduct(ctx context.Context, id string) (*PricedProduct, error)
}

type OfferUC interface {
	CreateOffer(ctx context.Context, req *OfferReq) (*OfferView, error)
	UpdateOffer(ctx context.Context, id string, req *OfferReq) (*OfferView, error)
	DeleteOffer(ctx context.Context, id string) error
	ToggleOffer(ctx context.Context, id string) (*OfferView, error)
	GetOffer(ctx context.Context, id string) (*OfferView, error)
	ListOffers(ctx context.Context, req *ListOffersReq) (*OfferPage, error)
	EnabledOffers(ctx context.Context) ([]domain.Offer, error)
	ActiveOffersWithProducts(ctx context.Context) ([]OfferWithProducts, error)
}

type CategoryUC interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
}

type ContactUC interface {
	SubmitContact(ctx context.Context, req *ContactReq) (*domain.ContactMessage, error)
}

type AuthUC interface {
	SignIn(ctx context.Context, req *SignInReq) (*domain.AdminSession, error)
	Session(ctx context.Context, token string) (*domain.AdminSession, error)
	SignOut(ctx context.Context, token string) error
}

type ImageUC interface {
	UploadImage(ctx context.Context, image *ProductImage) (*UploadImageRes, error)
}

// OfferSource отдаёт набор кандидатов для движка цен.
type OfferSource interface {
	EnabledOffers(ctx context.Context) ([]domain.Offer, error)
}
