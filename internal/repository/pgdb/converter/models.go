package converter

import "time"

// ProductModel: строка выборки каталога (products JOIN categories).
// Цена читается как текст, чтобы не терять точность NUMERIC.
type ProductModel struct {
	ID           int64   `db:"id"`
	Name         string  `db:"name"`
	Description  string  `db:"description"`
	Price        string  `db:"price"`
	ImageURL     *string `db:"image_url"`
	CategoryName *string `db:"category_name"`
}

// FavoriteModel: товар пользователя из таблицы favorites вместе с описанием и категорией.
type FavoriteModel struct {
	ProductID    int64   `db:"product_id"`
	Description  string  `db:"description"`
	CategoryName *string `db:"category_name"`
	IsFavorite   bool    `db:"is_favorite"`
}

// UserPreferencesModel представляет запись таблицы user_preferences в PostgreSQL.
type UserPreferencesModel struct {
	UserID              int64      `db:"user_id"`
	FavoriteColors      string     `db:"favorite_colors"`
	PreferredStyles     string     `db:"preferred_styles"`
	PreferredCategories string     `db:"preferred_categories"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           *time.Time `db:"updated_at"`
}
