package domain

import "time"

// UserPreferences: сохранённые предпочтения пользователя.
// Поля хранятся строками через запятую в том виде, в каком их прислал клиент.
type UserPreferences struct {
	UserID              int64
	FavoriteColors      string
	PreferredStyles     string
	PreferredCategories string
	CreatedAt           time.Time
	UpdatedAt           *time.Time
}

func NewUserPreferences(userID int64, colors string, styles string, categories string) *UserPreferences {
	return &UserPreferences{
		UserID:              userID,
		FavoriteColors:      colors,
		PreferredStyles:     styles,
		PreferredCategories: categories,
	}
}
