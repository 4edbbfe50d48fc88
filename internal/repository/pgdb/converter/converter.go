package converter

import (
	"fmt"

	"github.com/DRSN-tech/go-recommender/internal/domain"
	"github.com/shopspring/decimal"
)

// ToProductEntity преобразует строку каталога в доменный товар.
func ToProductEntity(m *ProductModel) (domain.Product, error) {
	price, err := decimal.NewFromString(m.Price)
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %d: invalid price %q: %w", m.ID, m.Price, err)
	}

	return domain.Product{
		ID:          m.ID,
		Name:        m.Name,
		Category:    deref(m.CategoryName),
		Description: m.Description,
		Price:       price,
		ImageURL:    deref(m.ImageURL),
	}, nil
}

func ToFavoriteEntity(m *FavoriteModel) domain.Favorite {
	return domain.NewFavorite(m.ProductID, m.Description, deref(m.CategoryName), m.IsFavorite)
}

func ToUserPreferencesEntity(m *UserPreferencesModel) *domain.UserPreferences {
	return &domain.UserPreferences{
		UserID:              m.UserID,
		FavoriteColors:      m.FavoriteColors,
		PreferredStyles:     m.PreferredStyles,
		PreferredCategories: m.PreferredCategories,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

func ToUserPreferencesModel(p *domain.UserPreferences) *UserPreferencesModel {
	return &UserPreferencesModel{
		UserID:              p.UserID,
		FavoriteColors:      p.FavoriteColors,
		PreferredStyles:     p.PreferredStyles,
		PreferredCategories: p.PreferredCategories,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
