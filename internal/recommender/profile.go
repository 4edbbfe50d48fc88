package recommender

import (
	"strings"

	"github.com/DRSN-tech/go-recommender/internal/domain"
	"github.com/DRSN-tech/go-recommender/pkg/e"
)

// BuildFavoritesProfile собирает профиль из избранных товаров пользователя.
// Учитываются только записи с IsFavorite; пустые описания и категории пропускаются, порядок сохраняется.
func BuildFavoritesProfile(userID int64, favorites []domain.Favorite) (*domain.UserProfile, error) {
	const op = "recommender.BuildFavoritesProfile"

	descriptions := make([]string, 0, len(favorites))
	categories := make([]string, 0, len(favorites))
	kept := 0

	for _, f := range favorites {
		if !f.IsFavorite {
			continue
		}
		kept++

		if f.Description != "" {
			descriptions = append(descriptions, f.Description)
		}
		if f.Category != "" {
			categories = append(categories, f.Category)
		}
	}

	if kept == 0 {
		return nil, e.Wrap(op, e.ErrNoProfile)
	}

	text := strings.Join(descriptions, " ")
	if text == "" {
		return nil, e.Wrap(op, e.ErrNoProfile)
	}

	return &domain.UserProfile{
		UserID:     userID,
		Text:       text,
		Categories: categories,
	}, nil
}

// BuildPreferencesProfile собирает профиль из сохранённых предпочтений.
// Категории режутся по запятой без обрезки пробелов, пустые сегменты остаются.
func BuildPreferencesProfile(prefs *domain.UserPreferences) (*domain.UserProfile, error) {
	const op = "recommender.BuildPreferencesProfile"

	if prefs == nil {
		return nil, e.Wrap(op, e.ErrUserNotFound)
	}

	text := prefs.FavoriteColors + " " + prefs.PreferredStyles + " " + prefs.PreferredCategories

	return &domain.UserProfile{
		UserID:     prefs.UserID,
		Text:       text,
		Categories: strings.Split(prefs.PreferredCategories, ","),
	}, nil
}
