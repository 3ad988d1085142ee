package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/plastyfilm/go-backend/internal/usecase"
	"github.com/plastyfilm/go-backend/pkg/logger"
)

type CategoryHandler struct {
	categoryUsecase usecase.CategoryUC
	logger          logger.Logger
}

func NewCategoryHandler(categoryUsecase usecase.CategoryUC, logger logger.Logger) *CategoryHandler {
	return &CategoryHandler{categoryUsecase: categoryUsecase, logger: logger}
}

// listCategories
//
//	@Summary	Дерево категорий
//	@Tags		categories
//	@Produce	json
//	@Success	200	{array}		CategoryResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/categories [get]
func (c *CategoryHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.categoryUsecase.ListCategories(r.Context())
	if err != nil {
		respondError(c.logger, w, r, err)
		return
	}

	res := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		res = append(res, toCategoryResponse(&categories[i]))
	}

	WriteSuccess(w, http.StatusOK, res)
}

// getCategory
//
//	@Summary	Категория с подкатегориями
//	@Tags		categories
//	@Produce	json
//	@Param		id	path		string	true	"ID категории"
//	@Success	200	{object}	CategoryResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/categories/{id} [get]
func (c *CategoryHandler) getCategory(w http.ResponseWriter, r *http.Request) {
	category, err := c.categoryUsecase.GetCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(c.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCategoryResponse(category))
}
