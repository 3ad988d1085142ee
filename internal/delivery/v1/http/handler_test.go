package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/plastyfilm/go-backend/internal/domain"
	"github.com/plastyfilm/go-backend/internal/metrics"
	"github.com/plastyfilm/go-backend/internal/pricing"
	"github.com/plastyfilm/go-backend/internal/usecase"
	"github.com/plastyfilm/go-backend/pkg/e"
	"github.com/plastyfilm/go-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const adminToken = "good-token"

// Заглушки встраивают интерфейс: неиспользуемые методы паникуют, если тест до них дойдёт.

type productUCStub struct {
	usecase.ProductUC
	listReq *usecase.ListProductsReq
	created *usecase.ProductReq
	page    *usecase.PricedProductPage
}

func (p *productUCStub) ListPricedProducts(_ context.Context, req *usecase.ListProductsReq) (*usecase.PricedProductPage, error) {
	p.listReq = req
	return p.page, nil
}

func (p *productUCStub) GetPricedProduct(_ context.Context, id string) (*usecase.PricedProduct, error) {
	for i := range p.page.Items {
		if p.page.Items[i].Product.ID == id {
			return &p.page.Items[i], nil
		}
	}
	return nil, e.Wrap("stub", e.ErrProductNotFound)
}

func (p *productUCStub) CreateProduct(_ context.Context, req *usecase.ProductReq) (*domain.Product, error) {
	p.created = req
	return domain.NewProduct("new", req.Name, req.Description, req.Price, req.CategoryID, req.SubcategoryID, req.ImageURL, req.Stock), nil
}

func (p *productUCStub) DeleteProduct(_ context.Context, id string) error {
	if id != "p1" {
		return e.Wrap("stub", e.ErrProductNotFound)
	}
	return nil
}

type offerUCStub struct {
	usecase.OfferUC
	created *usecase.OfferReq
}

func (o *offerUCStub) CreateOffer(_ context.Context, req *usecase.OfferReq) (*usecase.OfferView, error) {
	o.created = req
	if req.Kind != string(domain.OfferKindProduct) {
		return nil, e.Wrap("stub", e.ErrInvalidOfferKind)
	}
	return &usecase.OfferView{
		Offer: domain.Offer{
			ID:              "o1",
			Name:            req.Name,
			Target:          domain.NewProductTarget(req.ProductIDs, req.ProductID),
			DiscountPercent: req.DiscountPercent,
			StartAt:         req.StartAt,
			Enabled:         req.Enabled,
		},
		Status: pricing.StatusScheduled,
	}, nil
}

func (o *offerUCStub) ToggleOffer(_ context.Context, id string) (*usecase.OfferView, error) {
	return nil, e.Wrap("stub", e.ErrOfferNotFound)
}

type authUCStub struct {
	signedOut []string
}

func (a *authUCStub) SignIn(_ context.Context, req *usecase.SignInReq) (*domain.AdminSession, error) {
	if req.Email != "admin@plastyfilm.cl" || req.Password != "secret" {
		return nil, e.Wrap("stub", e.ErrInvalidCredentials)
	}
	return &domain.AdminSession{Token: adminToken, Email: req.Email, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (a *authUCStub) Session(_ context.Context, token string) (*domain.AdminSession, error) {
	if token != adminToken {
		return nil, e.Wrap("stub", e.ErrUnauthorized)
	}
	return &domain.AdminSession{Token: token, Email: "admin@plastyfilm.cl", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (a *authUCStub) SignOut(_ context.Context, token string) error {
	a.signedOut = append(a.signedOut, token)
	return nil
}

type contactUCStub struct {
	usecase.ContactUC
}

func (contactUCStub) SubmitContact(_ context.Context, req *usecase.ContactReq) (*domain.ContactMessage, error) {
	if req.Message == "" {
		return nil, e.Wrap("stub", e.ErrContactMessageRequired)
	}
	msg := domain.NewContactMessage("c1", req.Name, req.Email, req.Phone, req.Message)
	msg.CreatedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return msg, nil
}

type imageUCStub struct {
	got *usecase.ProductImage
}

func (i *imageUCStub) UploadImage(_ context.Context, image *usecase.ProductImage) (*usecase.UploadImageRes, error) {
	i.got = image
	return &usecase.UploadImageRes{Key: "products/abc.png", URL: "http://cdn/products/abc.png"}, nil
}

type fixture struct {
	handler  http.Handler
	products *productUCStub
	offers   *offerUCStub
	auth     *authUCStub
	images   *imageUCStub
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	offer := &domain.Offer{ID: "o9", Name: "Film -20", Target: domain.CategoryTarget{CategoryID: "film"}, DiscountPercent: decimal.NewFromInt(20)}
	f := &fixture{
		products: &productUCStub{page: &usecase.PricedProductPage{
			Items: []usecase.PricedProduct{{
				Product: domain.Product{ID: "p1", Name: "Film 50cm", Price: decimal.NewFromInt(10000), CategoryID: "film"},
				Quote: pricing.Quote{
					Offer:           offer,
					OriginalPrice:   decimal.NewFromInt(10000),
					FinalPrice:      decimal.NewFromInt(8000),
					Savings:         decimal.NewFromInt(2000),
					DiscountPercent: decimal.NewFromInt(20),
				},
			}},
			Pagination: usecase.Pagination{Page: 1, PerPage: 12, Total: 1, TotalPages: 1},
		}},
		offers: &offerUCStub{},
		auth:   &authUCStub{},
		images: &imageUCStub{},
	}

	router := NewRouter(chi.NewRouter(), logger.NewNopLogger(), zap.NewNop()).WithMetrics(metrics.New())
	f.handler = router.Init(UseCases{
		Products: f.products,
		Offers:   f.offers,
		Contact:  contactUCStub{},
		Auth:     f.auth,
		Images:   f.images,
	}, "/swagger/doc.json", 64)

	return f
}

func (f *fixture) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestToHTTPResponse(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{e.Wrap("op", e.ErrInvalidPrice), http.StatusBadRequest},
		{e.Wrap("op", e.ErrOfferInvalidWindow), http.StatusBadRequest},
		{e.Wrap("op", e.ErrInvalidCredentials), http.StatusUnauthorized},
		{e.Wrap("op", e.ErrOfferNotFound), http.StatusNotFound},
		{e.Wrap("op", e.ErrFileTooLarge), http.StatusRequestEntityTooLarge},
		{e.Wrap("op", e.ErrUnsupportedMediaType), http.StatusUnsupportedMediaType},
		{assert.AnError, http.StatusInternalServerError},
	}

	for _, c := range cases {
		code, msg := ToHTTPResponse(c.err)
		assert.Equal(t, c.code, code, c.err.Error())
		assert.NotContains(t, msg, "op:")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodGet, "/api/v1/products/p1", nil, "")

	rec := f.do(t, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `store_http_requests_total{method="GET",route="/api/v1/products/{id}",status="200"} 1`)
}

func TestReadyz(t *testing.T) {
	handler := NewRouter(chi.NewRouter(), logger.NewNopLogger(), nil).
		WithReadiness(map[string]Check{
			"postgres": func(context.Context) error { return nil },
			"redis":    func(context.Context) error { return assert.AnError },
		}).
		Init(UseCases{}, "/swagger/doc.json", 64)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	res := decodeBody[ReadinessResponse](t, rec)
	assert.Equal(t, "unavailable", res.Status)
	assert.Equal(t, map[string]string{"postgres": "ok", "redis": "unavailable"}, res.Checks)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListProducts(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/products?category=film&subcategory=negro&min_price=1000&max_price=20000&q=%20stretch%20&sort=price_asc&page=2&per_page=5", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	req := f.products.listReq
	require.NotNil(t, req)
	assert.Equal(t, "film", req.CategoryID)
	assert.Equal(t, "negro", req.SubcategoryID)
	assert.True(t, req.MinPrice.Equal(decimal.NewFromInt(1000)))
	assert.True(t, req.MaxPrice.Equal(decimal.NewFromInt(20000)))
	assert.Equal(t, "stretch", req.Query)
	assert.Equal(t, usecase.SortPriceAsc, req.Sort)
	assert.Equal(t, 2, req.Page)
	assert.Equal(t, 5, req.PerPage)

	res := decodeBody[ProductListResponse](t, rec)
	require.Len(t, res.Items, 1)
	p := res.Items[0].Pricing
	assert.True(t, p.HasOffer)
	assert.Equal(t, json.Number("8000"), p.FinalPrice)
	assert.Equal(t, "$8.000", p.FormattedPrice)
	assert.Equal(t, "$10.000", p.FormattedOriginal)
	assert.Equal(t, "-20%", p.Badge)
	assert.Equal(t, "¡Ahorras $2.000!", p.SavingsText)
	require.NotNil(t, p.Offer)
	assert.Equal(t, "category", p.Offer.Kind)
	assert.Equal(t, 1, res.Pagination.TotalPages)
}

func TestListProducts_InvalidQuery(t *testing.T) {
	f := newFixture(t)

	for _, q := range []string{"sort=cheapest", "min_price=abc", "max_price=-5", "page=x", "per_page=-1"} {
		rec := f.do(t, http.MethodGet, "/api/v1/products?"+q, nil, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
	assert.Nil(t, f.products.listReq)
}

func TestGetProduct_NotFound(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/products/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	res := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, e.ErrProductNotFound.Error(), res.Message)
}

func TestAdminRoutes_RequireSession(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodDelete, "/api/v1/admin/products/p1", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/v1/admin/products/p1", nil, "stale")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/v1/admin/products/p1", nil, adminToken)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/v1/admin/products/p2", nil, adminToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateProduct(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/admin/products", `{"name":"Cinta","price":2990,"categoryId":"cintas","stock":3}`, adminToken)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, f.products.created.Price.Equal(decimal.NewFromInt(2990)))

	res := decodeBody[ProductResponse](t, rec)
	assert.Equal(t, json.Number("2990"), res.Price)
	assert.Equal(t, "cinta", res.Slug)

	rec = f.do(t, http.MethodPost, "/api/v1/admin/products", `{"name":"Cinta","price":"abc"}`, adminToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/admin/products", `{"name":"Cinta"}`, adminToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, e.ErrInvalidPrice.Error(), decodeBody[ErrorResponse](t, rec).Message)
}

func TestCreateOffer(t *testing.T) {
	f := newFixture(t)

	start := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	body := map[string]any{
		"name":            "Navidad",
		"kind":            "product",
		"productIds":      []string{"p1"},
		"productId":       "p2",
		"discountPercent": 25,
		"startAt":         start,
	}

	rec := f.do(t, http.MethodPost, "/api/v1/admin/offers", body, adminToken)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, f.offers.created.Enabled)

	res := decodeBody[OfferResponse](t, rec)
	assert.Equal(t, []string{"p1", "p2"}, res.ProductIDs)
	assert.Equal(t, "scheduled", res.Status)
	assert.Equal(t, "-25%", res.Badge)
}

func TestCreateOffer_BadRequests(t *testing.T) {
	f := newFixture(t)

	cases := map[string]string{
		"unknown field":    `{"name":"x","kind":"product","discountPercent":10,"extra":1}`,
		"missing discount": `{"name":"x","kind":"product"}`,
		"trailing data":    `{"name":"x","kind":"product","discountPercent":10}{}`,
		"invalid kind":     `{"name":"x","kind":"brand","discountPercent":10}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/api/v1/admin/offers", body, adminToken)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestToggleOffer_NotFound(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/v1/admin/offers/missing/toggle", nil, adminToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSignInCurrentSignOut(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/admin/sessions", SignInRequest{Email: "admin@plastyfilm.cl", Password: "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/admin/sessions", SignInRequest{Email: "admin@plastyfilm.cl", Password: "secret"}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	session := decodeBody[SessionResponse](t, rec)
	assert.Equal(t, adminToken, session.Token)

	rec = f.do(t, http.MethodGet, "/api/v1/admin/sessions/current", nil, session.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	current := decodeBody[SessionResponse](t, rec)
	assert.Empty(t, current.Token)
	assert.Equal(t, "admin@plastyfilm.cl", current.Email)

	rec = f.do(t, http.MethodDelete, "/api/v1/admin/sessions", nil, session.Token)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{adminToken}, f.auth.signedOut)
}

func TestSubmitContact(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/contact", ContactRequest{Name: "Ana", Email: "ana@example.cl", Message: "Hola"}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "c1", decodeBody[ContactResponse](t, rec).ID)

	rec = f.do(t, http.MethodPost, "/api/v1/contact", ContactRequest{Name: "Ana", Email: "ana@example.cl"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func multipartImage(t *testing.T, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "foto.png")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func TestUploadImage(t *testing.T) {
	f := newFixture(t)
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 24)...)

	body, contentType := multipartImage(t, png)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/images", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "image/png", f.images.got.MimeType)
	assert.EqualValues(t, len(png), f.images.got.Size)
	assert.Equal(t, "products/abc.png", decodeBody[ImageResponse](t, rec).Key)
}

func TestUploadImage_Rejects(t *testing.T) {
	f := newFixture(t)

	t.Run("too large", func(t *testing.T) {
		body, contentType := multipartImage(t, make([]byte, 100))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/images", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+adminToken)
		rec := httptest.NewRecorder()
		f.handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("not multipart", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/admin/images", `{}`, adminToken)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	assert.Nil(t, f.images.got)
}
