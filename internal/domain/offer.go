package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OfferKind определяет область действия скидки
type OfferKind string

const (
	OfferKindProduct     OfferKind = "product"
	OfferKindSubcategory OfferKind = "subcategory"
	OfferKindCategory    OfferKind = "category"
)

// ParseOfferKind возвращает вид оферты по строке; ok=false для неизвестных значений.
func ParseOfferKind(s string) (OfferKind, bool) {
	switch OfferKind(s) {
	case OfferKindProduct, OfferKindSubcategory, OfferKindCategory:
		return OfferKind(s), true
	default:
		return "", false
	}
}

// OfferTarget: область действия оферты. Реализации: ProductTarget, SubcategoryTarget, CategoryTarget.
// Каждый вариант хранит только свои поля.
type OfferTarget interface {
	Kind() OfferKind
	// Matches сообщает, распространяется ли оферта на товар. Неполная цель не совпадает ни с чем.
	Matches(p *Product) bool
	// Valid сообщает, заполнены ли все обязательные для вида поля.
	Valid() bool
	isOfferTarget()
}

// ProductTarget: скидка на конкретный набор товаров
type ProductTarget struct {
	ProductIDs []string
}

// NewProductTarget собирает канонический набор товаров из списка и устаревшего одиночного поля.
// Пустые значения и дубли отбрасываются, порядок первого появления сохраняется.
func NewProductTarget(productIDs []string, legacyProductID string) ProductTarget {
	seen := make(map[string]struct{}, len(productIDs)+1)
	ids := make([]string, 0, len(productIDs)+1)

	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	for _, id := range productIDs {
		add(id)
	}
	add(legacyProductID)

	return ProductTarget{ProductIDs: ids}
}

func (t ProductTarget) Kind() OfferKind { return OfferKindProduct }

func (t ProductTarget) Valid() bool { return len(t.ProductIDs) > 0 }

func (t ProductTarget) Matches(p *Product) bool {
	if p == nil || p.ID == "" {
		return false
	}
	for _, id := range t.ProductIDs {
		if id == p.ID {
			return true
		}
	}
	return false
}

// LegacyProductID возвращает значение для устаревшего одиночного поля: задаётся только при ровно одном товаре.
func (t ProductTarget) LegacyProductID() string {
	if len(t.ProductIDs) == 1 {
		return t.ProductIDs[0]
	}
	return ""
}

func (ProductTarget) isOfferTarget() {}

// SubcategoryTarget: скидка на подкатегорию внутри категории
type SubcategoryTarget struct {
	CategoryID    string
	SubcategoryID string
}

func (t SubcategoryTarget) Kind() OfferKind { return OfferKindSubcategory }

func (t SubcategoryTarget) Valid() bool { return t.CategoryID != "" && t.SubcategoryID != "" }

func (t SubcategoryTarget) Matches(p *Product) bool {
	return p != nil && t.Valid() &&
		t.CategoryID == p.CategoryID &&
		t.SubcategoryID == p.SubcategoryID
}

func (SubcategoryTarget) isOfferTarget() {}

// CategoryTarget: скидка на всю категорию, подкатегория товара не важна
type CategoryTarget struct {
	CategoryID string
}

func (t CategoryTarget) Kind() OfferKind { return OfferKindCategory }

func (t CategoryTarget) Valid() bool { return t.CategoryID != "" }

func (t CategoryTarget) Matches(p *Product) bool {
	return p != nil && t.Valid() && t.CategoryID == p.CategoryID
}

func (CategoryTarget) isOfferTarget() {}

// Offer описывает скидочную акцию с окном действия
type Offer struct {
	ID              string
	Name            string
	Description     string
	Target          OfferTarget
	DiscountPercent decimal.Decimal
	StartAt         *time.Time // nil: оферта никогда не действует
	EndAt           *time.Time // nil: без даты окончания
	Enabled         bool       // административный выключатель, не зависит от дат
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

// Kind возвращает вид оферты или пустую строку, если цель не задана.
func (o *Offer) Kind() OfferKind {
	if o.Target == nil {
		return ""
	}
	return o.Target.Kind()
}

// Matches безопасно проверяет совпадение оферты с товаром.
func (o *Offer) Matches(p *Product) bool {
	return o.Target != nil && o.Target.Matches(p)
}
