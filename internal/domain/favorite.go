package domain

// Favorite: товар из списка пользователя вместе с признаком «избранное».
// Источник может вернуть весь каталог с флагом, поэтому IsFavorite проверяется при построении профиля.
type Favorite struct {
	ProductID   int64
	Description string
	Category    string
	IsFavorite  bool
}

func NewFavorite(productID int64, description string, category string, isFavorite bool) Favorite {
	return Favorite{
		ProductID:   productID,
		Description: description,
		Category:    category,
		IsFavorite:  isFavorite,
	}
}
