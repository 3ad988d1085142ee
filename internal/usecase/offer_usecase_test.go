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

var offerNow = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

type offerFixture struct {
	uc       *OfferUseCase
	offers   *offerRepoStub
	products *productRepoStub
	outbox   *outboxStub
	cache    *cacheStub
	tx       *txStub
}

func newOfferFixture(t *testing.T, products ...domain.Product) *offerFixture {
	t.Helper()

	f := &offerFixture{
		offers:   &offerRepoStub{},
		products: newProductRepoStub(products...),
		outbox:   &outboxStub{},
		cache:    newCacheStub(),
		tx:       &txStub{},
	}
	f.uc = NewOfferUC(
		f.offers,
		f.products,
		newCategoryRepoStub(),
		pricing.NewEngine(clock.NewFakeClock(offerNow)),
		f.tx,
		f.outbox,
		jsonEncoder{},
		f.cache,
		testStore,
		logger.NewNopLogger(),
	)
	return f
}

func timePtr(t time.Time) *time.Time { return &t }

func validOfferReq() *OfferReq {
	return &OfferReq{
		Name:            "Semana del film",
		Kind:            "category",
		CategoryID:      "film",
		DiscountPercent: decimal.NewFromInt(20),
		StartAt:         timePtr(offerNow.Add(-time.Hour)),
		Enabled:         true,
	}
}

func TestCreateOffer_Validation(t *testing.T) {
	f := newOfferFixture(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(r *OfferReq)
		want   error
	}{
		{"zero discount", func(r *OfferReq) { r.DiscountPercent = decimal.Zero }, e.ErrInvalidDiscountPercentage},
		{"hundred discount", func(r *OfferReq) { r.DiscountPercent = decimal.NewFromInt(100) }, e.ErrInvalidDiscountPercentage},
		{"no name", func(r *OfferReq) { r.Name = "  " }, e.ErrOfferNameRequired},
		{"no start", func(r *OfferReq) { r.StartAt = nil }, e.ErrOfferStartRequired},
		{"end before start", func(r *OfferReq) { r.EndAt = timePtr(r.StartAt.Add(-time.Minute)) }, e.ErrOfferInvalidWindow},
		{"bad kind", func(r *OfferReq) { r.Kind = "brand" }, e.ErrInvalidOfferKind},
		{"no category", func(r *OfferReq) { r.CategoryID = "" }, e.ErrOfferCategoryRequired},
		{"unknown category", func(r *OfferReq) { r.CategoryID = "nope" }, e.ErrUnknownCategory},
		{"product without ids", func(r *OfferReq) { r.Kind = "product" }, e.ErrOfferProductsRequired},
		{"subcategory missing", func(r *OfferReq) { r.Kind = "subcategory" }, e.ErrOfferSubcategoryRequired},
		{"foreign subcategory", func(r *OfferReq) { r.Kind = "subcategory"; r.SubcategoryID = "masking" }, e.ErrUnknownSubcategory},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := validOfferReq()
			c.mutate(req)

			_, err := f.uc.CreateOffer(ctx, req)
			assert.ErrorIs(t, err, c.want)
		})
	}

	assert.Empty(t, f.offers.offers)
	assert.Empty(t, f.outbox.events)
}

func TestCreateOffer_EmitsEventAndInvalidatesCache(t *testing.T) {
	f := newOfferFixture(t)
	ctx := context.Background()
	require.NoError(t, f.cache.SetEnabledOffers(ctx, f.cache.offerVersion, []domain.Offer{}))

	view, err := f.uc.CreateOffer(ctx, validOfferReq())

	require.NoError(t, err)
	assert.NotEmpty(t, view.Offer.ID)
	assert.Equal(t, pricing.StatusActive, view.Status)
	assert.Equal(t, domain.CategoryTarget{CategoryID: "film"}, view.Offer.Target)
	assert.Equal(t, []OutboxEventType{OfferChanged}, f.outbox.types())
	assert.Equal(t, 1, f.tx.calls)

	_, _, ok, _ := f.cache.GetEnabledOffers(ctx)
	assert.False(t, ok)
}

func TestCreateOffer_LegacyProductID(t *testing.T) {
	p := domain.Product{ID: "p1", Name: "Film", Price: decimal.NewFromInt(10000), CategoryID: "film"}
	f := newOfferFixture(t, p)

	req := validOfferReq()
	req.Kind = "product"
	req.ProductID = "p1"

	view, err := f.uc.CreateOffer(context.Background(), req)

	require.NoError(t, err)
	target, ok := view.Offer.Target.(domain.ProductTarget)
	require.True(t, ok)
	assert.Equal(t, []string{"p1"}, target.ProductIDs)
}

func TestCreateOffer_UnknownProduct(t *testing.T) {
	f := newOfferFixture(t)

	req := validOfferReq()
	req.Kind = "product"
	req.ProductIDs = []string{"missing"}

	_, err := f.uc.CreateOffer(context.Background(), req)
	assert.ErrorIs(t, err, e.ErrProductNotFound)
}

func TestToggleOffer(t *testing.T) {
	f := newOfferFixture(t)
	ctx := context.Background()

	view, err := f.uc.CreateOffer(ctx, validOfferReq())
	require.NoError(t, err)

	toggled, err := f.uc.ToggleOffer(ctx, view.Offer.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Offer.Enabled)
	assert.Equal(t, pricing.StatusDisabled, toggled.Status)

	_, err = f.uc.ToggleOffer(ctx, "missing")
	assert.ErrorIs(t, err, e.ErrOfferNotFound)
}

func TestListOffers_NewestFirstWithSearch(t *testing.T) {
	f := newOfferFixture(t)
	ctx := context.Background()

	for _, name := range []string{"Cintas verano", "Film invierno", "Cintas otoño"} {
		req := validOfferReq()
		req.Name = name
		_, err := f.uc.CreateOffer(ctx, req)
		require.NoError(t, err)
	}

	page, err := f.uc.ListOffers(ctx, &ListOffersReq{Search: "cintas", Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, page.Offers, 2)
	assert.Equal(t, "Cintas otoño", page.Offers[0].Offer.Name)
	assert.Equal(t, "Cintas verano", page.Offers[1].Offer.Name)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 1, page.TotalPages)
}

func TestListOffers_HugePage(t *testing.T) {
	f := newOfferFixture(t)
	ctx := context.Background()

	_, err := f.uc.CreateOffer(ctx, validOfferReq())
	require.NoError(t, err)

	page, err := f.uc.ListOffers(ctx, &ListOffersReq{Page: math.MaxInt, PerPage: 7})
	require.NoError(t, err)
	assert.Empty(t, page.Offers)
	assert.Equal(t, 1, page.Total)
	assert.GreaterOrEqual(t, f.offers.lastOffset, 0)
}

func TestEnabledOffers_ReadThroughCache(t *testing.T) {
	f := newOfferFixture(t)
	ctx := context.Background()

	_, err := f.uc.CreateOffer(ctx, validOfferReq())
	require.NoError(t, err)

	first, err := f.uc.EnabledOffers(ctx)
	require.NoError(t, err)
	second, err := f.uc.EnabledOffers(ctx)
	require.NoError(t, err)

	assert.Len(t, first, 1)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.cache.offerHits)
}

func TestEnabledOffers_FillRacingInvalidationIsNotServed(t *testing.T) {
	f := newOfferFixture(t)
	ctx := context.Background()

	created, err := f.uc.CreateOffer(ctx, validOfferReq())
	require.NoError(t, err)

	// Оферту выключают между чтением из БД и записью в кэш.
	f.offers.afterListEnabled = func() {
		_, err := f.uc.ToggleOffer(ctx, created.Offer.ID)
		require.NoError(t, err)
	}

	racing, err := f.uc.EnabledOffers(ctx)
	require.NoError(t, err)
	assert.Len(t, racing, 1)

	fresh, err := f.uc.EnabledOffers(ctx)
	require.NoError(t, err)
	assert.Empty(t, fresh)
	assert.Equal(t, 0, f.cache.offerHits)

	_, err = f.uc.EnabledOffers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.offerHits)
}

func TestActiveOffersWithProducts(t *testing.T) {
	products := []domain.Product{
		{ID: "p1", Name: "Film transparente", Price: decimal.NewFromInt(10000), CategoryID: "film", SubcategoryID: "transparente"},
		{ID: "p2", Name: "Film negro", Price: decimal.NewFromInt(12000), CategoryID: "film", SubcategoryID: "negro"},
	}
	f := newOfferFixture(t, products...)
	ctx := context.Background()

	sub := validOfferReq()
	sub.Name = "Transparente"
	sub.Kind = "subcategory"
	sub.SubcategoryID = "transparente"
	sub.DiscountPercent = decimal.NewFromInt(15)
	_, err := f.uc.CreateOffer(ctx, sub)
	require.NoError(t, err)

	empty := validOfferReq()
	empty.Name = "Cintas"
	empty.CategoryID = "cintas"
	_, err = f.uc.CreateOffer(ctx, empty)
	require.NoError(t, err)

	future := validOfferReq()
	future.Name = "Futura"
	future.StartAt = timePtr(offerNow.Add(time.Hour))
	_, err = f.uc.CreateOffer(ctx, future)
	require.NoError(t, err)

	res, err := f.uc.ActiveOffersWithProducts(ctx)

	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Transparente", res[0].Offer.Name)
	require.Len(t, res[0].Products, 1)
	assert.Equal(t, "p1", res[0].Products[0].Product.ID)
	assert.True(t, res[0].Products[0].FinalPrice.Equal(decimal.NewFromInt(8500)))
	assert.True(t, res[0].Products[0].Savings.Equal(decimal.NewFromInt(1500)))
}
