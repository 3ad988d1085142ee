// Package pricing подбирает действующую скидку для товара и считает итоговую цену.
//
// Движок не ходит в хранилище и ничего не меняет: на вход он получает уже
// загруженные товар и список оферт, время берётся из clock.Clock в момент вызова.
package pricing

import (
	"time"

	"github.com/plastyfilm/go-backend/internal/clock"
	"github.com/plastyfilm/go-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// OfferStatus: состояние оферты для админки
type OfferStatus string

const (
	StatusActive    OfferStatus = "active"
	StatusScheduled OfferStatus = "scheduled"
	StatusExpired   OfferStatus = "expired"
	StatusDisabled  OfferStatus = "disabled"
)

// tiers: меньше значит приоритетнее
const (
	tierProduct = iota
	tierSubcategory
	tierCategory
	tierNone
)

// Quote: результат расчёта цены товара.
type Quote struct {
	Offer           *domain.Offer // nil, если скидки нет
	OriginalPrice   decimal.Decimal
	FinalPrice      decimal.Decimal
	Savings         decimal.Decimal
	DiscountPercent decimal.Decimal
}

// HasOffer сообщает, применена ли скидка.
func (q Quote) HasOffer() bool {
	return q.Offer != nil
}

// QuoteObserver получает вид применённой оферты на каждый расчёт; пустой вид означает, что скидки нет.
type QuoteObserver interface {
	ObserveQuote(kind domain.OfferKind)
}

// Engine выбирает применимую оферту и считает цены.
type Engine struct {
	clock    clock.Clock
	observer QuoteObserver
}

func NewEngine(c clock.Clock) *Engine {
	if c == nil {
		c = clock.System()
	}
	return &Engine{clock: c}
}

func (e *Engine) observe(kind domain.OfferKind) {
	if e.observer != nil {
		e.observer.ObserveQuote(kind)
	}
}

// WithObserver подключает наблюдателя за расчётами, например метрики.
func (e *Engine) WithObserver(o QuoteObserver) *Engine {
	e.observer = o
	return e
}

// Now возвращает время, относительно которого движок оценивает оферты.
func (e *Engine) Now() time.Time {
	return e.clock.Now()
}

// SelectApplicableOffer возвращает единственную применимую к товару оферту.
//
// Оферты без действующего окна отбрасываются всегда, даже если вызывающий их уже фильтровал.
// Приоритет: товар > подкатегория > категория. Внутри одного уровня побеждает первая
// по порядку входного списка.
func (e *Engine) SelectApplicableOffer(product *domain.Product, offers []domain.Offer) (*domain.Offer, bool) {
	if product == nil {
		return nil, false
	}

	now := e.clock.Now()
	best, bestTier := -1, tierNone
	for i := range offers {
		offer := &offers[i]
		if !IsEffective(offer, now) || !offer.Matches(product) {
			continue
		}

		t := tierOf(offer.Kind())
		if t < bestTier {
			best, bestTier = i, t
			if t == tierProduct {
				break
			}
		}
	}

	if best < 0 {
		return nil, false
	}

	selected := offers[best]
	return &selected, true
}

// Quote считает цену товара с учётом применимой оферты. Отсутствие скидки не ошибка.
// Для nil-товара возвращается нулевая котировка без оферты.
func (e *Engine) Quote(product *domain.Product, offers []domain.Offer) Quote {
	if product == nil {
		e.observe("")
		return Quote{
			OriginalPrice:   decimal.Zero,
			FinalPrice:      decimal.Zero,
			Savings:         decimal.Zero,
			DiscountPercent: decimal.Zero,
		}
	}

	q := Quote{
		OriginalPrice:   product.Price,
		FinalPrice:      product.Price,
		Savings:         decimal.Zero,
		DiscountPercent: decimal.Zero,
	}

	offer, ok := e.SelectApplicableOffer(product, offers)
	if !ok {
		e.observe("")
		return q
	}
	e.observe(offer.Kind())

	q.Offer = offer
	q.DiscountPercent = offer.DiscountPercent
	q.FinalPrice = ComputeDiscountedPrice(product.Price, offer.DiscountPercent)
	q.Savings = ComputeSavings(product.Price, q.FinalPrice)
	return q
}

// Effective оставляет только оферты, действующие в текущий момент, сохраняя порядок.
func (e *Engine) Effective(offers []domain.Offer) []domain.Offer {
	now := e.clock.Now()
	res := make([]domain.Offer, 0, len(offers))
	for i := range offers {
		if IsEffective(&offers[i], now) {
			res = append(res, offers[i])
		}
	}
	return res
}

// Status возвращает состояние оферты на текущий момент.
func (e *Engine) Status(offer *domain.Offer) OfferStatus {
	return StatusAt(offer, e.clock.Now())
}

// IsEffective: enabled, startAt задан и <= now, endAt не задан или now < endAt.
func IsEffective(offer *domain.Offer, now time.Time) bool {
	if offer == nil || !offer.Enabled || offer.StartAt == nil {
		return false
	}
	if offer.StartAt.After(now) {
		return false
	}
	if offer.EndAt != nil && !now.Before(*offer.EndAt) {
		return false
	}
	return true
}

// StatusAt возвращает состояние оферты на момент now.
func StatusAt(offer *domain.Offer, now time.Time) OfferStatus {
	switch {
	case offer == nil || !offer.Enabled:
		return StatusDisabled
	case offer.EndAt != nil && !now.Before(*offer.EndAt):
		return StatusExpired
	case offer.StartAt == nil || offer.StartAt.After(now):
		return StatusScheduled
	default:
		return StatusActive
	}
}

// ComputeDiscountedPrice = price * (1 - discountPercent/100). Без округления и без валидации процента.
func ComputeDiscountedPrice(price, discountPercent decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(1).Sub(discountPercent.Shift(-2)))
}

// ComputeSavings = price - discountedPrice.
func ComputeSavings(price, discountedPrice decimal.Decimal) decimal.Decimal {
	return price.Sub(discountedPrice)
}

func tierOf(kind domain.OfferKind) int {
	switch kind {
	case domain.OfferKindProduct:
		return tierProduct
	case domain.OfferKindSubcategory:
		return tierSubcategory
	case domain.OfferKindCategory:
		return tierCategory
	default:
		return tierNone
	}
}
