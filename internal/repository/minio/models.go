package minio

import (
	"time"

	"github.com/DRSN-tech/go-recommender/internal/domain"
	"github.com/shopspring/decimal"
)

// snapshotModel: формат JSON-снимка каталога в бакете.
type snapshotModel struct {
	GeneratedAt time.Time              `json:"generated_at"`
	Products    []snapshotProductModel `json:"products"`
}

type snapshotProductModel struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url,omitempty"`
}

func toSnapshotModel(products []domain.Product, generatedAt time.Time) *snapshotModel {
	models := make([]snapshotProductModel, len(products))
	for i, p := range products {
		models[i] = snapshotProductModel{
			ID:          p.ID,
			Name:        p.Name,
			Category:    p.Category,
			Description: p.Description,
			Price:       p.Price,
			ImageURL:    p.ImageURL,
		}
	}

	return &snapshotModel{
		GeneratedAt: generatedAt,
		Products:    models,
	}
}

func (s *snapshotModel) toEntities() []domain.Product {
	products := make([]domain.Product, len(s.Products))
	for i, m := range s.Products {
		products[i] = domain.Product{
			ID:          m.ID,
			Name:        m.Name,
			Category:    m.Category,
			Description: m.Description,
			Price:       m.Price,
			ImageURL:    m.ImageURL,
		}
	}
	return products
}
