package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/plastyfilm/go-backend/internal/cfg"
	"github.com/plastyfilm/go-backend/internal/domain"
	"github.com/plastyfilm/go-backend/internal/pricing"
	"github.com/plastyfilm/go-backend/pkg/e"
	"github.com/plastyfilm/go-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

var (
	minDiscount = decimal.NewFromInt(1)
	maxDiscount = decimal.NewFromInt(99)
)

// OfferUseCase управляет скидочными акциями и отдаёт кандидатов для движка цен.
type OfferUseCase struct {
	offerRepo    OfferRepository
	productRepo  ProductRepository
	categoryRepo CategoryRepository
	engine       *pricing.Engine
	txManager    TxManager
	outbox       outbox
	cacheRepo    CacheRepository
	store        *cfg.StoreCfg
	logger       logger.Logger
}

func NewOfferUC(
	offerRepo OfferRepository,
	productRepo ProductRepository,
	categoryRepo CategoryRepository,
	engine *pricing.Engine,
	txManager TxManager,
	outboxRepo OutboxRepository,
	encoder EventEncoder,
	cacheRepo CacheRepository,
	store *cfg.StoreCfg,
	logger logger.Logger,
) *OfferUseCase {
	return &OfferUseCase{
		offerRepo:    offerRepo,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		engine:       engine,
		txManager:    txManager,
		outbox:       outbox{repo: outboxRepo, encoder: encoder},
		cacheRepo:    cacheRepo,
		store:        store,
		logger:       logger,
	}
}

func (o *OfferUseCase) CreateOffer(ctx context.Context, req *OfferReq) (*OfferView, error) {
	const op = "OfferUseCase.CreateOffer"

	offer, err := o.buildOffer(ctx, req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	offer.ID = uuid.NewString()

	var created *domain.Offer
	err = o.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		created, err = o.offerRepo.Create(ctx, offer)
		if err != nil {
			return err
		}

		return o.outbox.emit(ctx, OfferChanged, created.ID, offerEventFields("create", created))
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	o.invalidate(ctx)
	return o.view(created), nil
}

// UpdateOffer заменяет все редактируемые поля оферты, дата создания не меняется.
func (o *OfferUseCase) UpdateOffer(ctx context.Context, id string, req *OfferReq) (*OfferView, error) {
	const op = "OfferUseCase.UpdateOffer"

	offer, err := o.buildOffer(ctx, req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	offer.ID = id

	var updated *domain.Offer
	err = o.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		updated, err = o.offerRepo.Update(ctx, offer)
		if err != nil {
			return err
		}

		return o.outbox.emit(ctx, OfferChanged, updated.ID, offerEventFields("update", updated))
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	o.invalidate(ctx)
	return o.view(updated), nil
}

func (o *OfferUseCase) DeleteOffer(ctx context.Context, id string) error {
	const op = "OfferUseCase.DeleteOffer"

	err := o.txManager.Do(ctx, func(ctx context.Context) error {
		if err := o.offerRepo.Delete(ctx, id); err != nil {
			return err
		}

		return o.outbox.emit(ctx, OfferChanged, id, map[string]any{"operation": "delete"})
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	o.invalidate(ctx)
	return nil
}

// ToggleOffer переключает административный флаг enabled.
func (o *OfferUseCase) ToggleOffer(ctx context.Context, id string) (*OfferView, error) {
	const op = "OfferUseCase.ToggleOffer"

	var toggled *domain.Offer
	err := o.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		toggled, err = o.offerRepo.Toggle(ctx, id)
		if err != nil {
			return err
		}

		return o.outbox.emit(ctx, OfferChanged, toggled.ID, offerEventFields("toggle", toggled))
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	o.invalidate(ctx)
	return o.view(toggled), nil
}

func (o *OfferUseCase) GetOffer(ctx context.Context, id string) (*OfferView, error) {
	const op = "OfferUseCase.GetOffer"

	offer, err := o.offerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return o.view(offer), nil
}

// ListOffers отдаёт список для админки: новые сверху, поиск по подстроке в названии и описании.
func (o *OfferUseCase) ListOffers(ctx context.Context, req *ListOffersReq) (*OfferPage, error) {
	const op = "OfferUseCase.ListOffers"

	page, perPage := normalizePage(req.Page, req.PerPage, o.store)
	offers, total, err := o.offerRepo.List(ctx, strings.TrimSpace(req.Search), perPage, pageOffset(page, perPage))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	views := make([]OfferView, 0, len(offers))
	for i := range offers {
		views = append(views, *o.view(&offers[i]))
	}

	return &OfferPage{
		Offers:     views,
		Pagination: newPagination(page, perPage, total),
	}, nil
}

// EnabledOffers возвращает все включённые оферты, новые сверху. Даты здесь не фильтруются,
// это делает движок в момент расчёта.
func (o *OfferUseCase) EnabledOffers(ctx context.Context) ([]domain.Offer, error) {
	const op = "OfferUseCase.EnabledOffers"

	cached, version, ok, cacheErr := o.cacheRepo.GetEnabledOffers(ctx)
	if cacheErr == nil && ok {
		return cached, nil
	}

	offers, err := o.offerRepo.ListEnabled(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if cacheErr != nil {
		return offers, nil
	}

	if err := o.cacheRepo.SetEnabledOffers(ctx, version, offers); err != nil {
		o.logger.Warnf("Failed to cache enabled offers: %v", e.Wrap(op, err))
	}

	return offers, nil
}

// ActiveOffersWithProducts собирает действующие оферты вместе с товарами, на которые они распространяются.
// Оферты без товаров пропускаются.
func (o *OfferUseCase) ActiveOffersWithProducts(ctx context.Context) ([]OfferWithProducts, error) {
	const op = "OfferUseCase.ActiveOffersWithProducts"

	enabled, err := o.EnabledOffers(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	effective := o.engine.Effective(enabled)
	result := make([]OfferWithProducts, 0, len(effective))
	for _, offer := range effective {
		products, err := o.productsFor(ctx, offer.Target)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		if len(products) == 0 {
			continue
		}

		items := make([]OfferProduct, 0, len(products))
		for _, product := range products {
			final := pricing.ComputeDiscountedPrice(product.Price, offer.DiscountPercent)
			items = append(items, OfferProduct{
				Product:    product,
				FinalPrice: final,
				Savings:    pricing.ComputeSavings(product.Price, final),
			})
		}

		result = append(result, OfferWithProducts{Offer: offer, Products: items})
	}

	return result, nil
}

func (o *OfferUseCase) productsFor(ctx context.Context, target domain.OfferTarget) ([]domain.Product, error) {
	if target == nil || !target.Valid() {
		return nil, nil
	}

	switch t := target.(type) {
	case domain.ProductTarget:
		return o.productRepo.GetByIDs(ctx, t.ProductIDs)
	case domain.SubcategoryTarget:
		products, _, err := o.productRepo.List(ctx, ProductListFilter{
			CategoryID:    t.CategoryID,
			SubcategoryID: t.SubcategoryID,
			Sort:          SortName,
		})
		return products, err
	case domain.CategoryTarget:
		products, _, err := o.productRepo.List(ctx, ProductListFilter{
			CategoryID: t.CategoryID,
			Sort:       SortName,
		})
		return products, err
	default:
		return nil, nil
	}
}

// buildOffer валидирует запрос и собирает из него оферту.
func (o *OfferUseCase) buildOffer(ctx context.Context, req *OfferReq) (*domain.Offer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, e.ErrOfferNameRequired
	}

	if req.DiscountPercent.LessThan(minDiscount) || req.DiscountPercent.GreaterThan(maxDiscount) {
		return nil, e.ErrInvalidDiscountPercentage
	}

	if req.StartAt == nil {
		return nil, e.ErrOfferStartRequired
	}

	if req.EndAt != nil && !req.EndAt.After(*req.StartAt) {
		return nil, e.ErrOfferInvalidWindow
	}

	target, err := o.buildTarget(ctx, req)
	if err != nil {
		return nil, err
	}

	start := req.StartAt.UTC()
	offer := &domain.Offer{
		Name:            name,
		Description:     strings.TrimSpace(req.Description),
		Target:          target,
		DiscountPercent: req.DiscountPercent,
		StartAt:         &start,
		Enabled:         req.Enabled,
	}
	if req.EndAt != nil {
		endAt := req.EndAt.UTC()
		offer.EndAt = &endAt
	}

	return offer, nil
}

func (o *OfferUseCase) buildTarget(ctx context.Context, req *OfferReq) (domain.OfferTarget, error) {
	kind, ok := domain.ParseOfferKind(req.Kind)
	if !ok {
		return nil, e.ErrInvalidOfferKind
	}

	switch kind {
	case domain.OfferKindProduct:
		target := domain.NewProductTarget(req.ProductIDs, req.ProductID)
		if !target.Valid() {
			return nil, e.ErrOfferProductsRequired
		}

		found, err := o.productRepo.GetByIDs(ctx, target.ProductIDs)
		if err != nil {
			return nil, err
		}
		if len(found) != len(target.ProductIDs) {
			return nil, e.ErrProductNotFound
		}
		return target, nil

	case domain.OfferKindSubcategory:
		if req.CategoryID == "" {
			return nil, e.ErrOfferCategoryRequired
		}
		if req.SubcategoryID == "" {
			return nil, e.ErrOfferSubcategoryRequired
		}

		category, err := o.category(ctx, req.CategoryID)
		if err != nil {
			return nil, err
		}
		if !category.HasSubcategory(req.SubcategoryID) {
			return nil, e.ErrUnknownSubcategory
		}
		return domain.SubcategoryTarget{CategoryID: req.CategoryID, SubcategoryID: req.SubcategoryID}, nil

	default:
		if req.CategoryID == "" {
			return nil, e.ErrOfferCategoryRequired
		}
		if _, err := o.category(ctx, req.CategoryID); err != nil {
			return nil, err
		}
		return domain.CategoryTarget{CategoryID: req.CategoryID}, nil
	}
}

func (o *OfferUseCase) category(ctx context.Context, id string) (*domain.Category, error) {
	category, err := o.categoryRepo.GetByID(ctx, id)
	if errors.Is(err, e.ErrCategoryNotFound) {
		return nil, e.ErrUnknownCategory
	}
	return category, err
}

func (o *OfferUseCase) view(offer *domain.Offer) *OfferView {
	return &OfferView{
		Offer:  *offer,
		Status: o.engine.Status(offer),
	}
}

// invalidate сбрасывает кэш включённых оферт после записи.
func (o *OfferUseCase) invalidate(ctx context.Context) {
	if err := o.cacheRepo.DeleteEnabledOffers(ctx); err != nil {
		o.logger.Warnf("Failed to delete enabled offers from cache: %v", err)
	}
}

func offerEventFields(operation string, offer *domain.Offer) map[string]any {
	fields := map[string]any{
		"operation":        operation,
		"name":             offer.Name,
		"kind":             string(offer.Kind()),
		"discount_percent": offer.DiscountPercent.String(),
		"enabled":          offer.Enabled,
	}
	if offer.StartAt != nil {
		fields["start_at"] = offer.StartAt.Format(time.RFC3339)
	}
	if offer.EndAt != nil {
		fields["end_at"] = offer.EndAt.Format(time.RFC3339)
	}
	return fields
}
