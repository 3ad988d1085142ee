package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatPrice форматирует сумму в песо: "$10.000", без дробной части.
func FormatPrice(amount decimal.Decimal) string {
	rounded := amount.Round(0)
	neg := rounded.IsNegative()
	digits := rounded.Abs().String()

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// BadgeText — подпись скидки на карточке товара, например "-20%".
func BadgeText(discountPercent decimal.Decimal) string {
	return "-" + discountPercent.String() + "%"
}

// SavingsText — строка с экономией, например "¡Ahorras $2.000!".
func SavingsText(savings decimal.Decimal) string {
	return "¡Ahorras " + FormatPrice(savings) + "!"
}
