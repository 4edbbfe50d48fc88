package pgdb

import (
	"context"

	"github.com/DRSN-tech/go-recommender/internal/domain"
	"github.com/DRSN-tech/go-recommender/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/go-recommender/pkg/e"
	"github.com/jimlawless/whereami"
)

// ProductRepo отдаёт каталог товаров из PostgreSQL.
type ProductRepo struct {
	db DB
}

func NewProductRepo(db DB) *ProductRepo {
	return &ProductRepo{db: db}
}

// FetchAllProducts возвращает все неархивные товары вместе с названием категории.
func (p *ProductRepo) FetchAllProducts(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT pr.id, pr.name, pr.description, pr.price::text, pr.image_url, cat.name
		FROM products pr
		LEFT JOIN categories cat ON pr.category_id = cat.id
		WHERE NOT pr.is_archived
		ORDER BY pr.id
	`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Product, 0)
	for rows.Next() {
		var model converter.ProductModel
		if err := rows.Scan(
			&model.ID, &model.Name, &model.Description, &model.Price, &model.ImageURL, &model.CategoryName,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		product, err := converter.ToProductEntity(&model)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, product)
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}
