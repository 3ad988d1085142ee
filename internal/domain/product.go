package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product описывает товар каталога
type Product struct {
	ID            string
	Name          string
	Description   string
	Price         decimal.Decimal // Цена в целых песо (CLP), без копеек
	CategoryID    string          // пусто, если товар вне дерева категорий
	SubcategoryID string          // имеет смысл только внутри CategoryID
	ImageURL      string
	Stock         int64
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

func NewProduct(id, name, description string, price decimal.Decimal, categoryID, subcategoryID, imageURL string, stock int64) *Product {
	return &Product{
		ID:            id,
		Name:          name,
		Description:   description,
		Price:         price,
		CategoryID:    categoryID,
		SubcategoryID: subcategoryID,
		ImageURL:      imageURL,
		Stock:         stock,
	}
}
