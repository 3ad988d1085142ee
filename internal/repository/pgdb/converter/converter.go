package converter

import (
	"github.com/plastyfilm/go-backend/internal/domain"
	"github.com/plastyfilm/go-backend/internal/usecase"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
}

// CategoryConverter преобразует сущности Category между domain и моделью PostgreSQL.
type CategoryConverter interface {
	ToEntity(model *CategoryModel) *domain.Category
}

// OfferConverter преобразует сущности Offer между domain и моделью PostgreSQL.
// Устаревшее поле product_id приводится к набору товаров только здесь.
type OfferConverter interface {
	ToModel(entity *domain.Offer) *OfferModel
	ToEntity(model *OfferModel) *domain.Offer
}

// ContactMessageConverter преобразует обращения между domain и моделью PostgreSQL.
type ContactMessageConverter interface {
	ToModel(entity *domain.ContactMessage) *ContactMessageModel
	ToEntity(model *ContactMessageModel) *domain.ContactMessage
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
type OutboxEventConverter interface {
	ToModel(entity *usecase.OutboxEvent) *OutboxEventModel
	ToEntity(model *OutboxEventModel) *usecase.OutboxEvent
	ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent
}

type productConverter struct{}

func NewProductConverter() ProductConverter { return productConverter{} }

func (productConverter) ToModel(entity *domain.Product) *ProductModel {
	if entity == nil {
		return nil
	}
	return &ProductModel{
		ID:            entity.ID,
		Name:          entity.Name,
		Description:   entity.Description,
		Price:         entity.Price,
		CategoryID:    nullable(entity.CategoryID),
		SubcategoryID: nullable(entity.SubcategoryID),
		ImageURL:      entity.ImageURL,
		Stock:         entity.Stock,
		CreatedAt:     entity.CreatedAt,
		UpdatedAt:     entity.UpdatedAt,
	}
}

func (productConverter) ToEntity(model *ProductModel) *domain.Product {
	if model == nil {
		return nil
	}
	return &domain.Product{
		ID:            model.ID,
		Name:          model.Name,
		Description:   model.Description,
		Price:         model.Price,
		CategoryID:    deref(model.CategoryID),
		SubcategoryID: deref(model.SubcategoryID),
		ImageURL:      model.ImageURL,
		Stock:         model.Stock,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

type categoryConverter struct{}

func NewCategoryConverter() CategoryConverter { return categoryConverter{} }

func (categoryConverter) ToEntity(model *CategoryModel) *domain.Category {
	if model == nil {
		return nil
	}
	subs := make([]domain.Subcategory, 0, len(model.Subcategories))
	for _, s := range model.Subcategories {
		subs = append(subs, domain.Subcategory{ID: s.ID, Name: s.Name, Slug: s.Slug})
	}
	return &domain.Category{
		ID:            model.ID,
		Name:          model.Name,
		Slug:          model.Slug,
		Icon:          model.Icon,
		Description:   model.Description,
		Order:         model.SortOrder,
		Subcategories: subs,
	}
}

type offerConverter struct{}

func NewOfferConverter() OfferConverter { return offerConverter{} }

func (offerConverter) ToModel(entity *domain.Offer) *OfferModel {
	if entity == nil {
		return nil
	}
	model := &OfferModel{
		ID:              entity.ID,
		Name:            entity.Name,
		Description:     entity.Description,
		Kind:            string(entity.Kind()),
		ProductIDs:      []string{},
		DiscountPercent: entity.DiscountPercent,
		StartAt:         entity.StartAt,
		EndAt:           entity.EndAt,
		Enabled:         entity.Enabled,
		CreatedAt:       entity.CreatedAt,
		UpdatedAt:       entity.UpdatedAt,
	}

	switch t := entity.Target.(type) {
	case domain.ProductTarget:
		model.ProductIDs = append(model.ProductIDs, t.ProductIDs...)
		model.ProductID = nullable(t.LegacyProductID())
	case domain.SubcategoryTarget:
		model.CategoryID = nullable(t.CategoryID)
		model.SubcategoryID = nullable(t.SubcategoryID)
	case domain.CategoryTarget:
		model.CategoryID = nullable(t.CategoryID)
	}

	return model
}

func (offerConverter) ToEntity(model *OfferModel) *domain.Offer {
	if model == nil {
		return nil
	}
	offer := &domain.Offer{
		ID:              model.ID,
		Name:            model.Name,
		Description:     model.Description,
		DiscountPercent: model.DiscountPercent,
		StartAt:         model.StartAt,
		EndAt:           model.EndAt,
		Enabled:         model.Enabled,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}

	// Неизвестный вид оставляет Target пустым: такая оферта ни с чем не совпадает
	kind, _ := domain.ParseOfferKind(model.Kind)
	switch kind {
	case domain.OfferKindProduct:
		offer.Target = domain.NewProductTarget(model.ProductIDs, deref(model.ProductID))
	case domain.OfferKindSubcategory:
		offer.Target = domain.SubcategoryTarget{
			CategoryID:    deref(model.CategoryID),
			SubcategoryID: deref(model.SubcategoryID),
		}
	case domain.OfferKindCategory:
		offer.Target = domain.CategoryTarget{CategoryID: deref(model.CategoryID)}
	}

	return offer
}

type contactMessageConverter struct{}

func NewContactMessageConverter() ContactMessageConverter { return contactMessageConverter{} }

func (contactMessageConverter) ToModel(entity *domain.ContactMessage) *ContactMessageModel {
	if entity == nil {
		return nil
	}
	return &ContactMessageModel{
		ID:        entity.ID,
		Name:      entity.Name,
		Email:     entity.Email,
		Phone:     entity.Phone,
		Message:   entity.Message,
		CreatedAt: entity.CreatedAt,
	}
}

func (contactMessageConverter) ToEntity(model *ContactMessageModel) *domain.ContactMessage {
	if model == nil {
		return nil
	}
	return &domain.ContactMessage{
		ID:        model.ID,
		Name:      model.Name,
		Email:     model.Email,
		Phone:     model.Phone,
		Message:   model.Message,
		CreatedAt: model.CreatedAt,
	}
}

type outboxEventConverter struct{}

func NewOutboxEventConverter() OutboxEventConverter { return outboxEventConverter{} }

func (outboxEventConverter) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	if entity == nil {
		return nil
	}
	return &OutboxEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		EventType:   string(entity.EventType),
		AggregateID: entity.AggregateID,
		Payload:     entity.Payload,
		Status:      string(entity.Status),
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: entity.ProcessedAt,
	}
}

func (outboxEventConverter) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	if model == nil {
		return nil
	}
	return &usecase.OutboxEvent{
		ID:          model.ID,
		EventID:     model.EventID,
		EventType:   usecase.OutboxEventType(model.EventType),
		AggregateID: model.AggregateID,
		Payload:     model.Payload,
		Status:      usecase.OutboxStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		ProcessedAt: model.ProcessedAt,
	}
}

func (c outboxEventConverter) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	result := make([]*usecase.OutboxEvent, 0, len(models))
	for _, model := range models {
		result = append(result, c.ToEntity(model))
	}
	return result
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
