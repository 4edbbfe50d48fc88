package converter

import (
	"github.com/DRSN-tech/go-recommender/internal/domain"
	"github.com/shopspring/decimal"
)

func ToRedisModel(p *domain.Product) *ProductRedisModel {
	return &ProductRedisModel{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		Price:       p.Price.String(),
		ImageURL:    p.ImageURL,
	}
}

func ToEntity(m *ProductRedisModel) (domain.Product, error) {
	price := decimal.Zero
	if m.Price != "" {
		var err error
		price, err = decimal.NewFromString(m.Price)
		if err != nil {
			return domain.Product{}, err
		}
	}

	return domain.Product{
		ID:          m.ID,
		Name:        m.Name,
		Category:    m.Category,
		Description: m.Description,
		Price:       price,
		ImageURL:    m.ImageURL,
	}, nil
}
