package pgdb

import (
	"context"

	"github.com/DRSN-tech/go-recommender/internal/domain"
	"github.com/DRSN-tech/go-recommender/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/go-recommender/pkg/e"
	"github.com/jimlawless/whereami"
)

// FavoriteRepo отдаёт избранные товары пользователя из PostgreSQL.
type FavoriteRepo struct {
	db DB
}

func NewFavoriteRepo(db DB) *FavoriteRepo {
	return &FavoriteRepo{db: db}
}

// FetchFavorites возвращает товары, отмеченные пользователем, в порядке добавления.
func (f *FavoriteRepo) FetchFavorites(ctx context.Context, userID int64) ([]domain.Favorite, error) {
	query := `
		SELECT fav.product_id, pr.description, cat.name, fav.is_favorite
		FROM favorites fav
		JOIN products pr ON pr.id = fav.product_id
		LEFT JOIN categories cat ON pr.category_id = cat.id
		WHERE fav.user_id = $1
		ORDER BY fav.created_at, fav.product_id
	`

	rows, err := f.db.Query(ctx, query, userID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Favorite, 0)
	for rows.Next() {
		var model converter.FavoriteModel
		if err := rows.Scan(&model.ProductID, &model.Description, &model.CategoryName, &model.IsFavorite); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, converter.ToFavoriteEntity(&model))
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}
