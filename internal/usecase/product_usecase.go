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
)

// ProductUseCase реализует бизнес-логику каталога товаров.
type ProductUseCase struct {
	productRepo  ProductRepository
	categoryRepo CategoryRepository
	offers       OfferSource
	engine       *pricing.Engine
	txManager    TxManager
	outbox       outbox
	cacheRepo    CacheRepository
	store        *cfg.StoreCfg
	logger       logger.Logger
}

func NewProductUC(
	productRepo ProductRepository,
	categoryRepo CategoryRepository,
	offers OfferSource,
	engine *pricing.Engine,
	txManager TxManager,
	outboxRepo OutboxRepository,
	encoder EventEncoder,
	cacheRepo CacheRepository,
	store *cfg.StoreCfg,
	logger logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		offers:       offers,
		engine:       engine,
		txManager:    txManager,
		outbox:       outbox{repo: outboxRepo, encoder: encoder},
		cacheRepo:    cacheRepo,
		store:        store,
		logger:       logger,
	}
}

// CreateProduct валидирует и сохраняет новый товар вместе с событием product.changed.
func (p *ProductUseCase) CreateProduct(ctx context.Context, req *ProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.CreateProduct"

	if err := p.validateProduct(ctx, req); err != nil {
		return nil, e.Wrap(op, err)
	}

	product := domain.NewProduct(
		uuid.NewString(),
		strings.TrimSpace(req.Name),
		strings.TrimSpace(req.Description),
		req.Price,
		req.CategoryID,
		req.SubcategoryID,
		strings.TrimSpace(req.ImageURL),
		req.Stock,
	)

	var created *domain.Product
	err := p.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		created, err = p.productRepo.Create(ctx, product)
		if err != nil {
			return err
		}

		return p.outbox.emit(ctx, ProductChanged, created.ID, productEventFields("create", created))
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return created, nil
}

// UpdateProduct полностью заменяет редактируемые поля товара.
func (p *ProductUseCase) UpdateProduct(ctx context.Context, id string, req *ProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.UpdateProduct"

	if err := p.validateProduct(ctx, req); err != nil {
		return nil, e.Wrap(op, err)
	}

	var updated *domain.Product
	err := p.txManager.Do(ctx, func(ctx context.Context) error {
		current, err := p.productRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		current.Name = strings.TrimSpace(req.Name)
		current.Description = strings.TrimSpace(req.Description)
		current.Price = req.Price
		current.CategoryID = req.CategoryID
		current.SubcategoryID = req.SubcategoryID
		current.ImageURL = strings.TrimSpace(req.ImageURL)
		current.Stock = req.Stock

		updated, err = p.productRepo.Update(ctx, current)
		if err != nil {
			return err
		}

		return p.outbox.emit(ctx, ProductChanged, updated.ID, productEventFields("update", updated))
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.invalidate(ctx, id)
	return updated, nil
}

func (p *ProductUseCase) DeleteProduct(ctx context.Context, id string) error {
	const op = "ProductUseCase.DeleteProduct"

	err := p.txManager.Do(ctx, func(ctx context.Context) error {
		if err := p.productRepo.Delete(ctx, id); err != nil {
			return err
		}

		return p.outbox.emit(ctx, ProductChanged, id, map[string]any{"operation": "delete"})
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	p.invalidate(ctx, id)
	return nil
}

// GetProduct возвращает товар, сначала пытаясь взять его из кэша.
func (p *ProductUseCase) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	const op = "ProductUseCase.GetProduct"

	cached, version, cacheErr := p.cacheRepo.GetProducts(ctx, []string{id})
	if cacheErr == nil {
		if product, ok := cached[id]; ok {
			return &product, nil
		}
	}

	product, err := p.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if cacheErr != nil {
		return product, nil
	}

	// Фоновое добавление товара в кэш под поколением, прочитанным до запроса в БД
	toCache := *product
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := p.cacheRepo.SetProducts(bgCtx, version, []domain.Product{toCache}); err != nil {
			p.logger.Warnf("Failed to cache product in background: %v", e.Wrap(op, err))
		}
	}()

	return product, nil
}

// ListProducts возвращает страницу каталога с учётом фильтров и сортировки.
func (p *ProductUseCase) ListProducts(ctx context.Context, req *ListProductsReq) (*ProductPage, error) {
	const op = "ProductUseCase.ListProducts"

	if req.MinPrice != nil && req.MaxPrice != nil && req.MinPrice.GreaterThan(*req.MaxPrice) {
		return nil, e.Wrap(op, e.ErrInvalidQueryParam)
	}

	page, perPage := normalizePage(req.Page, req.PerPage, p.store)
	sort := req.Sort
	if sort == "" {
		sort = SortRelevance
	}

	products, total, err := p.productRepo.List(ctx, ProductListFilter{
		CategoryID:    req.CategoryID,
		SubcategoryID: req.SubcategoryID,
		MinPrice:      req.MinPrice,
		MaxPrice:      req.MaxPrice,
		Query:         strings.TrimSpace(req.Query),
		Sort:          sort,
		Limit:         perPage,
		Offset:        pageOffset(page, perPage),
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &ProductPage{
		Products:   products,
		Pagination: newPagination(page, perPage, total),
	}, nil
}

// ListPricedProducts отдаёт страницу каталога, где у каждого товара посчитана цена по действующим офертам.
func (p *ProductUseCase) ListPricedProducts(ctx context.Context, req *ListProductsReq) (*PricedProductPage, error) {
	const op = "ProductUseCase.ListPricedProducts"

	page, err := p.ListProducts(ctx, req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	offers, err := p.offers.EnabledOffers(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	items := make([]PricedProduct, 0, len(page.Products))
	for i := range page.Products {
		items = append(items, PricedProduct{
			Product: page.Products[i],
			Quote:   p.engine.Quote(&page.Products[i], offers),
		})
	}

	return &PricedProductPage{Items: items, Pagination: page.Pagination}, nil
}

func (p *ProductUseCase) GetPricedProduct(ctx context.Context, id string) (*PricedProduct, error) {
	const op = "ProductUseCase.GetPricedProduct"

	product, err := p.GetProduct(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	offers, err := p.offers.EnabledOffers(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &PricedProduct{
		Product: *product,
		Quote:   p.engine.Quote(product, offers),
	}, nil
}

// invalidate удаляет из кэша устаревшие данные товара.
func (p *ProductUseCase) invalidate(ctx context.Context, id string) {
	if err := p.cacheRepo.DeleteProducts(ctx, []string{id}); err != nil {
		p.logger.Warnf("Failed to delete products from cache: %v", err)
	}
}

// validateProduct проверяет корректность входных данных товара.
func (p *ProductUseCase) validateProduct(ctx context.Context, req *ProductReq) error {
	if strings.TrimSpace(req.Name) == "" {
		return e.ErrProductNameRequired
	}

	if req.Price.IsNegative() {
		return e.ErrInvalidPrice
	}

	// Цены в CLP, дробной части у песо нет.
	if !req.Price.Equal(req.Price.Truncate(0)) {
		return e.ErrPricePrecision
	}

	if req.Stock < 0 {
		return e.ErrInvalidStock
	}

	if req.CategoryID == "" {
		if req.SubcategoryID != "" {
			return e.ErrUnknownSubcategory
		}
		return nil
	}

	category, err := p.categoryRepo.GetByID(ctx, req.CategoryID)
	if errors.Is(err, e.ErrCategoryNotFound) {
		return e.ErrUnknownCategory
	}
	if err != nil {
		return err
	}

	if req.SubcategoryID != "" && !category.HasSubcategory(req.SubcategoryID) {
		return e.ErrUnknownSubcategory
	}

	return nil
}

func productEventFields(operation string, product *domain.Product) map[string]any {
	return map[string]any{
		"operation":      operation,
		"name":           product.Name,
		"price":          product.Price.String(),
		"category_id":    product.CategoryID,
		"subcategory_id": product.SubcategoryID,
	}
}
