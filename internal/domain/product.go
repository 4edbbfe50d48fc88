package domain

import "github.com/shopspring/decimal"

// Product описывает товар каталога, участвующий в подборе рекомендаций.
type Product struct {
	ID          int64
	Name        string
	Category    string // название категории, сравнивается с профилем как есть
	Description string
	Price       decimal.Decimal
	ImageURL    string
}

// ScoredProduct: товар с рассчитанной похожестью. Живёт только в рамках одного запроса.
type ScoredProduct struct {
	Product
	Score float64
}

func NewProduct(id int64, name string, category string, description string, price decimal.Decimal) *Product {
	return &Product{
		ID:          id,
		Name:        name,
		Category:    category,
		Description: description,
		Price:       price,
	}
}
