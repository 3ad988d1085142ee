package usecase

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/plastyfilm/go-backend/internal/clock"
	"github.com/plastyfilm/go-backend/internal/domain"
	"github.com/plastyfilm/go-backend/internal/pricing"
	"github.com/plastyfilm/go-backend/pkg/e"
	"github.com/plastyfilm/go-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticOffers []domain.Offer

func (s staticOffers) EnabledOffers(context.Context) ([]domain.Offer, error) {
	return s, nil
}

type productFixture struct {
	uc       *ProductUseCase
	products *productRepoStub
	outbox   *outboxStub
	cache    *cacheStub
}

func newProductFixture(t *testing.T, offers []domain.Offer, products ...domain.Product) *productFixture {
	t.Helper()

	f := &productFixture{
		products: newProductRepoStub(products...),
		outbox:   &outboxStub{},
		cache:    newCacheStub(),
	}
	f.uc = NewProductUC(
		f.products,
		newCategoryRepoStub(),
		staticOffers(offers),
		pricing.NewEngine(clock.NewFakeClock(offerNow)),
		&txStub{},
		f.outbox,
		jsonEncoder{},
		f.cache,
		testStore,
		logger.NewNopLogger(),
	)
	return f
}

func catalog() []domain.Product {
	return []domain.Product{
		{ID: "p1", Name: "Film transparente 50cm", Price: decimal.NewFromInt(10000), CategoryID: "film", SubcategoryID: "transparente"},
		{ID: "p2", Name: "Film negro", Price: decimal.NewFromInt(15000), CategoryID: "film", SubcategoryID: "negro"},
		{ID: "p3", Name: "Cinta masking", Description: "Para pintura", Price: decimal.NewFromInt(2500), CategoryID: "cintas", SubcategoryID: "masking"},
	}
}

func TestCreateProduct_Validation(t *testing.T) {
	f := newProductFixture(t, nil)
	ctx := context.Background()

	cases := []struct {
		name string
		req  ProductReq
		want error
	}{
		{"no name", ProductReq{Price: decimal.NewFromInt(1)}, e.ErrProductNameRequired},
		{"negative price", ProductReq{Name: "x", Price: decimal.NewFromInt(-1)}, e.ErrInvalidPrice},
		{"precision", ProductReq{Name: "x", Price: decimal.RequireFromString("1.005")}, e.ErrPricePrecision},
		{"fractional pesos", ProductReq{Name: "x", Price: decimal.RequireFromString("9990.50")}, e.ErrPricePrecision},
		{"negative stock", ProductReq{Name: "x", Stock: -1}, e.ErrInvalidStock},
		{"unknown category", ProductReq{Name: "x", CategoryID: "nope"}, e.ErrUnknownCategory},
		{"subcategory without category", ProductReq{Name: "x", SubcategoryID: "negro"}, e.ErrUnknownSubcategory},
		{"foreign subcategory", ProductReq{Name: "x", CategoryID: "cintas", SubcategoryID: "negro"}, e.ErrUnknownSubcategory},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := f.uc.CreateProduct(ctx, &c.req)
			assert.ErrorIs(t, err, c.want)
		})
	}
}

func TestCreateUpdateDeleteProduct(t *testing.T) {
	f := newProductFixture(t, nil)
	ctx := context.Background()

	created, err := f.uc.CreateProduct(ctx, &ProductReq{
		Name:          "  Zuncho plástico ",
		Price:         decimal.NewFromInt(30000),
		CategoryID:    "film",
		SubcategoryID: "negro",
		Stock:         3,
	})
	require.NoError(t, err)
	assert.Equal(t, "Zuncho plástico", created.Name)

	updated, err := f.uc.UpdateProduct(ctx, created.ID, &ProductReq{Name: "Zuncho", Price: decimal.NewFromInt(28000)})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(decimal.NewFromInt(28000)))
	assert.Empty(t, updated.CategoryID)

	require.NoError(t, f.uc.DeleteProduct(ctx, created.ID))
	_, err = f.uc.GetProduct(ctx, created.ID)
	assert.ErrorIs(t, err, e.ErrProductNotFound)

	assert.Equal(t, []OutboxEventType{ProductChanged, ProductChanged, ProductChanged}, f.outbox.types())
	assert.Contains(t, f.cache.deletedKeys, created.ID)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	f := newProductFixture(t, nil)

	_, err := f.uc.UpdateProduct(context.Background(), "missing", &ProductReq{Name: "x"})
	assert.ErrorIs(t, err, e.ErrProductNotFound)
}

func TestCreateProduct_WholePesoPrice(t *testing.T) {
	f := newProductFixture(t, nil)

	created, err := f.uc.CreateProduct(context.Background(), &ProductReq{Name: "Film", Price: decimal.RequireFromString("12990.00")})
	require.NoError(t, err)
	assert.True(t, created.Price.Equal(decimal.NewFromInt(12990)))
}

func TestGetProduct_CachesInBackground(t *testing.T) {
	f := newProductFixture(t, nil, catalog()...)
	ctx := context.Background()

	_, err := f.uc.GetProduct(ctx, "p1")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		_, ok := f.cache.cachedProduct("p1")
		return ok
	}, time.Second, 10*time.Millisecond)

	_, err = f.uc.GetProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, f.products.gets)
}

func TestGetProduct_FillRacingUpdateIsNotServed(t *testing.T) {
	f := newProductFixture(t, nil, catalog()...)
	ctx := context.Background()

	// Цену меняют между чтением из БД и фоновой записью в кэш.
	f.products.afterGet = func() {
		_, err := f.uc.UpdateProduct(ctx, "p1", &ProductReq{Name: "Film transparente 50cm", Price: decimal.NewFromInt(9000)})
		require.NoError(t, err)
	}

	racing, err := f.uc.GetProduct(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, racing.Price.Equal(decimal.NewFromInt(10000)))

	require.Eventually(t, func() bool { return f.cache.sets() == 1 }, time.Second, 10*time.Millisecond)
	_, ok := f.cache.cachedProduct("p1")
	assert.False(t, ok)

	fresh, err := f.uc.GetProduct(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, fresh.Price.Equal(decimal.NewFromInt(9000)))
}

func TestListProducts_FilterSortPaginate(t *testing.T) {
	f := newProductFixture(t, nil, catalog()...)
	ctx := context.Background()

	page, err := f.uc.ListProducts(ctx, &ListProductsReq{CategoryID: "film", Sort: SortPriceDesc})
	require.NoError(t, err)
	require.Len(t, page.Products, 2)
	assert.Equal(t, "p2", page.Products[0].ID)
	assert.Equal(t, testStore.DefaultPerPage, page.PerPage)

	lo := decimal.NewFromInt(2000)
	hi := decimal.NewFromInt(12000)
	page, err = f.uc.ListProducts(ctx, &ListProductsReq{MinPrice: &lo, MaxPrice: &hi, Sort: SortPriceAsc, PerPage: 1, Page: 2})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "p1", page.Products[0].ID)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 2, page.TotalPages)

	page, err = f.uc.ListProducts(ctx, &ListProductsReq{Query: "PINTURA"})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "p3", page.Products[0].ID)

	_, err = f.uc.ListProducts(ctx, &ListProductsReq{MinPrice: &hi, MaxPrice: &lo})
	assert.ErrorIs(t, err, e.ErrInvalidQueryParam)
}

func TestListProducts_HugePage(t *testing.T) {
	f := newProductFixture(t, nil, catalog()...)

	page, err := f.uc.ListProducts(context.Background(), &ListProductsReq{Page: math.MaxInt64 / 2})
	require.NoError(t, err)
	assert.Empty(t, page.Products)
	assert.Equal(t, 3, page.Total)
	assert.GreaterOrEqual(t, f.products.lastFilter.Offset, 0)
	assert.Equal(t, testStore.DefaultPerPage, f.products.lastFilter.Limit)
}

func TestListPricedProducts(t *testing.T) {
	start := offerNow.Add(-time.Hour)
	offers := []domain.Offer{
		{ID: "cat", Target: domain.CategoryTarget{CategoryID: "film"}, DiscountPercent: decimal.NewFromInt(10), StartAt: &start, Enabled: true},
		{ID: "prod", Target: domain.NewProductTarget([]string{"p1"}, ""), DiscountPercent: decimal.NewFromInt(20), StartAt: &start, Enabled: true},
	}
	f := newProductFixture(t, offers, catalog()...)

	page, err := f.uc.ListPricedProducts(context.Background(), &ListProductsReq{Sort: SortPriceAsc})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)

	byID := make(map[string]PricedProduct)
	for _, item := range page.Items {
		byID[item.Product.ID] = item
	}

	assert.Equal(t, "prod", byID["p1"].Quote.Offer.ID)
	assert.True(t, byID["p1"].Quote.FinalPrice.Equal(decimal.NewFromInt(8000)))
	assert.Equal(t, "cat", byID["p2"].Quote.Offer.ID)
	assert.True(t, byID["p2"].Quote.FinalPrice.Equal(decimal.NewFromInt(13500)))
	assert.False(t, byID["p3"].Quote.HasOffer())
}

func TestGetPricedProduct(t *testing.T) {
	start := offerNow.Add(-time.Hour)
	offers := []domain.Offer{
		{ID: "sub", Target: domain.SubcategoryTarget{CategoryID: "film", SubcategoryID: "transparente"}, DiscountPercent: decimal.NewFromInt(15), StartAt: &start, Enabled: true},
	}
	f := newProductFixture(t, offers, catalog()...)

	priced, err := f.uc.GetPricedProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, priced.Quote.FinalPrice.Equal(decimal.NewFromInt(8500)))
	assert.Equal(t, "$8.500", pricing.FormatPrice(priced.Quote.FinalPrice))
}
