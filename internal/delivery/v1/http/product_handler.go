package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/plastyfilm/go-backend/internal/usecase"
	"github.com/plastyfilm/go-backend/pkg/e"
	"github.com/plastyfilm/go-backend/pkg/logger"
)

type ProductHandler struct {
	productUsecase usecase.ProductUC
	logger         logger.Logger
}

func NewProductHandler(productUsecase usecase.ProductUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, logger: logger}
}

// listProducts
//
//	@Summary		Каталог товаров
//	@Description	Фильтры по категории, подкатегории, цене и тексту. Каждый товар приходит с ценой по действующей оферте.
//	@Tags			products
//	@Produce		json
//	@Param			category	query		string	false	"ID категории"
//	@Param			subcategory	query		string	false	"ID подкатегории"
//	@Param			min_price	query		number	false	"Минимальная цена"
//	@Param			max_price	query		number	false	"Максимальная цена"
//	@Param			q			query		string	false	"Поиск по названию и описанию"
//	@Param			sort		query		string	false	"relevance, price_asc, price_desc, name"
//	@Param			page		query		int		false	"Страница, с 1"
//	@Param			per_page	query		int		false	"Размер страницы"
//	@Success		200			{object}	ProductListResponse
//	@Failure		400			{object}	ErrorResponse
//	@Router			/products [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	req, err := parseListProductsReq(r)
	if err != nil {
		respondError(p.logger, w, r, err)
		return
	}

	page, err := p.productUsecase.ListPricedProducts(r.Context(), req)
	if err != nil {
		respondError(p.logger, w, r, err)
		return
	}

	items := make([]PricedProductResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, toPricedProductResponse(&page.Items[i]))
	}

	WriteSuccess(w, http.StatusOK, ProductListResponse{Items: items, Pagination: toPagination(page.Pagination)})
}

// getProduct
//
//	@Summary	Товар с ценой по действующей оферте
//	@Tags		products
//	@Produce	json
//	@Param		id	path		string	true	"ID товара"
//	@Success	200	{object}	PricedProductResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [get]
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	priced, err := p.productUsecase.GetPricedProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(p.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toPricedProductResponse(priced))
}

// createProduct
//
//	@Summary	Создание товара
//	@Tags		admin
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		product	body		ProductRequest	true	"Товар"
//	@Success	201		{object}	ProductResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	401		{object}	ErrorResponse
//	@Router		/admin/products [post]
func (p *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	req, err := p.decodeProduct(w, r)
	if err != nil {
		respondError(p.logger, w, r, err)
		return
	}

	product, err := p.productUsecase.CreateProduct(r.Context(), req)
	if err != nil {
		respondError(p.logger, w, r, err)
		return
	}

	p.logger.Infof("product %s created", product.ID)
	WriteSuccess(w, http.StatusCreated, toProductResponse(product))
}

// updateProduct
//
//	@Summary	Изменение товара
//	@Tags		admin
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"ID товара"
//	@Param		product	body		ProductRequest	true	"Товар"
//	@Success	200		{object}	ProductResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/admin/products/{id} [put]
func (p *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	req, err := p.decodeProduct(w, r)
	if err != nil {
		respondError(p.logger, w, r, err)
		return
	}

	product, err := p.productUsecase.UpdateProduct(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondError(p.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// deleteProduct
//
//	@Summary	Удаление товара
//	@Tags		admin
//	@Security	BearerAuth
//	@Param		id	path	string	true	"ID товара"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Router		/admin/products/{id} [delete]
func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := p.productUsecase.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(p.logger, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (p *ProductHandler) decodeProduct(w http.ResponseWriter, r *http.Request) (*usecase.ProductReq, error) {
	var body ProductRequest
	if err := decodeJSON(w, r, &body); err != nil {
		return nil, err
	}
	return body.toUseCase()
}

func parseListProductsReq(r *http.Request) (*usecase.ListProductsReq, error) {
	q := r.URL.Query()

	sort, ok := usecase.ParseProductSort(strings.TrimSpace(q.Get("sort")))
	if !ok {
		return nil, e.Wrap("sort", e.ErrInvalidQueryParam)
	}

	minPrice, err := queryDecimal(r, "min_price")
	if err != nil {
		return nil, err
	}
	maxPrice, err := queryDecimal(r, "max_price")
	if err != nil {
		return nil, err
	}

	page, err := queryInt(r, "page")
	if err != nil {
		return nil, err
	}
	perPage, err := queryInt(r, "per_page")
	if err != nil {
		return nil, err
	}

	return &usecase.ListProductsReq{
		CategoryID:    strings.TrimSpace(q.Get("category")),
		SubcategoryID: strings.TrimSpace(q.Get("subcategory")),
		MinPrice:      minPrice,
		MaxPrice:      maxPrice,
		Query:         strings.TrimSpace(q.Get("q")),
		Sort:          sort,
		Page:          page,
		PerPage:       perPage,
	}, nil
}
