package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/plastyfilm/go-backend/internal/usecase"
	"github.com/plastyfilm/go-backend/pkg/logger"
)

type OfferHandler struct {
	offerUsecase usecase.OfferUC
	logger       logger.Logger
}

func NewOfferHandler(offerUsecase usecase.OfferUC, logger logger.Logger) *OfferHandler {
	return &OfferHandler{offerUsecase: offerUsecase, logger: logger}
}

// listActiveOffers
//
//	@Summary		Действующие акции
//	@Description	Каждая действующая оферта с товарами, на которые она распространяется. Оферты без товаров не возвращаются.
//	@Tags			offers
//	@Produce		json
//	@Success		200	{array}		ActiveOfferResponse
//	@Router			/offers/active [get]
func (o *OfferHandler) listActiveOffers(w http.ResponseWriter, r *http.Request) {
	offers, err := o.offerUsecase.ActiveOffersWithProducts(r.Context())
	if err != nil {
		respondError(o.logger, w, r, err)
		return
	}

	res := make([]ActiveOfferResponse, 0, len(offers))
	for i := range offers {
		res = append(res, toActiveOfferResponse(&offers[i]))
	}

	WriteSuccess(w, http.StatusOK, res)
}

// listOffers
//
//	@Summary	Список оферт для админки
//	@Tags		admin
//	@Security	BearerAuth
//	@Produce	json
//	@Param		q			query		string	false	"Поиск по названию и описанию"
//	@Param		page		query		int		false	"Страница, с 1"
//	@Param		per_page	query		int		false	"Размер страницы"
//	@Success	200			{object}	OfferListResponse
//	@Router		/admin/offers [get]
func (o *OfferHandler) listOffers(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page")
	if err != nil {
		respondError(o.logger, w, r, err)
		return
	}
	perPage, err := queryInt(r, "per_page")
	if err != nil {
		respondError(o.logger, w, r, err)
		return
	}

	res, err := o.offerUsecase.ListOffers(r.Context(), &usecase.ListOffersReq{
		Search:  strings.TrimSpace(r.URL.Query().Get("q")),
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		respondError(o.logger, w, r, err)
		return
	}

	items := make([]OfferResponse, 0, len(res.Offers))
	for i := range res.Offers {
		items = append(items, toOfferResponse(&res.Offers[i].Offer, res.Offers[i].Status))
	}

	WriteSuccess(w, http.StatusOK, OfferListResponse{Items: items, Pagination: toPagination(res.Pagination)})
}

// getOffer
//
//	@Summary	Оферта
//	@Tags		admin
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"ID оферты"
//	@Success	200	{object}	OfferResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/admin/offers/{id} [get]
func (o *OfferHandler) getOffer(w http.ResponseWriter, r *http.Request) {
	view, err := o.offerUsecase.GetOffer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(o.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toOfferResponse(&view.Offer, view.Status))
}

// createOffer
//
//	@Summary		Создание оферты
//	@Description	discountPercent от 1 до 99. Для kind=product нужен хотя бы один товар, для category нужен categoryId, для subcategory оба поля.
//	@Tags			admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			offer	body		OfferRequest	true	"Оферта"
//	@Success		201		{object}	OfferResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/admin/offers [post]
func (o *OfferHandler) createOffer(w http.ResponseWriter, r *http.Request) {
	req, err := o.decodeOffer(w, r)
	if err != nil {
		respondError(o.logger, w, r, err)
		return
	}

	view, err := o.offerUsecase.CreateOffer(r.Context(), req)
	if err != nil {
		respondError(o.logger, w, r, err)
		return
	}

	o.logger.Infof("offer %s created (%s, %s%%)", view.Offer.ID, view.Offer.Kind(), view.Offer.DiscountPercent)
	WriteSuccess(w, http.StatusCreated, toOfferResponse(&view.Offer, view.Status))
}

// updateOffer
//
//	@Summary	Изменение оферты
//	@Tags		admin
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"ID оферты"
//	@Param		offer	body		OfferRequest	true	"Оферта"
//	@Success	200		{object}	OfferResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/admin/offers/{id} [put]
func (o *OfferHandler) updateOffer(w http.ResponseWriter, r *http.Request) {
	req, err := o.decodeOffer(w, r)
	if err != nil {
		respondError(o.logger, w, r, err)
		return
	}

	view, err := o.offerUsecase.UpdateOffer(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondError(o.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toOfferResponse(&view.Offer, view.Status))
}

// deleteOffer
//
//	@Summary	Удаление оферты
//	@Tags		admin
//	@Security	BearerAuth
//	@Param		id	path	string	true	"ID оферты"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Router		/admin/offers/{id} [delete]
func (o *OfferHandler) deleteOffer(w http.ResponseWriter, r *http.Request) {
	if err := o.offerUsecase.DeleteOffer(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(o.logger, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toggleOffer
//
//	@Summary	Включение или выключение оферты
//	@Tags		admin
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"ID оферты"
//	@Success	200	{object}	OfferResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/admin/offers/{id}/toggle [post]
func (o *OfferHandler) toggleOffer(w http.ResponseWriter, r *http.Request) {
	view, err := o.offerUsecase.ToggleOffer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(o.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toOfferResponse(&view.Offer, view.Status))
}

func (o *OfferHandler) decodeOffer(w http.ResponseWriter, r *http.Request) (*usecase.OfferReq, error) {
	var body OfferRequest
	if err := decodeJSON(w, r, &body); err != nil {
		return nil, err
	}
	return body.toUseCase()
}
