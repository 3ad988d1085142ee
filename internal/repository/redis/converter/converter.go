package converter

import (
	"github.com/plastyfilm/go-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// ProductConverter преобразует товары между domain и моделью Redis.
type ProductConverter interface {
	ToRedisModel(entity *domain.Product) *ProductRedisModel
	ToEntity(model *ProductRedisModel) (*domain.Product, error)
	ToArrRedisModel(entities []domain.Product) []ProductRedisModel
}

// OfferConverter преобразует оферты между domain и моделью Redis.
type OfferConverter interface {
	ToRedisModel(entity *domain.Offer) *OfferRedisModel
	ToEntity(model *OfferRedisModel) (*domain.Offer, error)
	ToArrRedisModel(entities []domain.Offer) []OfferRedisModel
	ToArrEntity(models []OfferRedisModel) ([]domain.Offer, error)
}

type productConverter struct{}

func NewProductConverter() ProductConverter { return productConverter{} }

func (productConverter) ToRedisModel(entity *domain.Product) *ProductRedisModel {
	if entity == nil {
		return nil
	}
	return &ProductRedisModel{
		ID:            entity.ID,
		Name:          entity.Name,
		Description:   entity.Description,
		Price:         entity.Price.String(),
		CategoryID:    entity.CategoryID,
		SubcategoryID: entity.SubcategoryID,
		ImageURL:      entity.ImageURL,
		Stock:         entity.Stock,
		CreatedAt:     entity.CreatedAt,
		UpdatedAt:     entity.UpdatedAt,
	}
}

func (productConverter) ToEntity(model *ProductRedisModel) (*domain.Product, error) {
	if model == nil {
		return nil, nil
	}
	price, err := decimal.NewFromString(model.Price)
	if err != nil {
		return nil, err
	}
	return &domain.Product{
		ID:            model.ID,
		Name:          model.Name,
		Description:   model.Description,
		Price:         price,
		CategoryID:    model.CategoryID,
		SubcategoryID: model.SubcategoryID,
		ImageURL:      model.ImageURL,
		Stock:         model.Stock,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}, nil
}

func (c productConverter) ToArrRedisModel(entities []domain.Product) []ProductRedisModel {
	result := make([]ProductRedisModel, 0, len(entities))
	for i := range entities {
		result = append(result, *c.ToRedisModel(&entities[i]))
	}
	return result
}

type offerConverter struct{}

func NewOfferConverter() OfferConverter { return offerConverter{} }

func (offerConverter) ToRedisModel(entity *domain.Offer) *OfferRedisModel {
	if entity == nil {
		return nil
	}
	model := &OfferRedisModel{
		ID:              entity.ID,
		Name:            entity.Name,
		Description:     entity.Description,
		Kind:            string(entity.Kind()),
		DiscountPercent: entity.DiscountPercent.String(),
		StartAt:         entity.StartAt,
		EndAt:           entity.EndAt,
		Enabled:         entity.Enabled,
		CreatedAt:       entity.CreatedAt,
		UpdatedAt:       entity.UpdatedAt,
	}

	switch t := entity.Target.(type) {
	case domain.ProductTarget:
		model.ProductIDs = append([]string(nil), t.ProductIDs...)
	case domain.SubcategoryTarget:
		model.CategoryID = t.CategoryID
		model.SubcategoryID = t.SubcategoryID
	case domain.CategoryTarget:
		model.CategoryID = t.CategoryID
	}

	return model
}

func (offerConverter) ToEntity(model *OfferRedisModel) (*domain.Offer, error) {
	if model == nil {
		return nil, nil
	}
	discount, err := decimal.NewFromString(model.DiscountPercent)
	if err != nil {
		return nil, err
	}

	offer := &domain.Offer{
		ID:              model.ID,
		Name:            model.Name,
		Description:     model.Description,
		DiscountPercent: discount,
		StartAt:         model.StartAt,
		EndAt:           model.EndAt,
		Enabled:         model.Enabled,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}

	kind, _ := domain.ParseOfferKind(model.Kind)
	switch kind {
	case domain.OfferKindProduct:
		offer.Target = domain.NewProductTarget(model.ProductIDs, "")
	case domain.OfferKindSubcategory:
		offer.Target = domain.SubcategoryTarget{CategoryID: model.CategoryID, SubcategoryID: model.SubcategoryID}
	case domain.OfferKindCategory:
		offer.Target = domain.CategoryTarget{CategoryID: model.CategoryID}
	}

	return offer, nil
}

func (c offerConverter) ToArrRedisModel(entities []domain.Offer) []OfferRedisModel {
	result := make([]OfferRedisModel, 0, len(entities))
	for i := range entities {
		result = append(result, *c.ToRedisModel(&entities[i]))
	}
	return result
}

func (c offerConverter) ToArrEntity(models []OfferRedisModel) ([]domain.Offer, error) {
	result := make([]domain.Offer, 0, len(models))
	for i := range models {
		offer, err := c.ToEntity(&models[i])
		if err != nil {
			return nil, err
		}
		result = append(result, *offer)
	}
	return result, nil
}
