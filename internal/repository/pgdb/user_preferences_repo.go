package pgdb

import (
	"context"
	"errors"

	"github.com/DRSN-tech/go-recommender/internal/domain"
	"github.com/DRSN-tech/go-recommender/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/go-recommender/internal/usecase"
	"github.com/DRSN-tech/go-recommender/pkg/e"
	"github.com/DRSN-tech/go-recommender/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jimlawless/whereami"
)

// UserPreferencesRepo хранит предпочтения пользователей в PostgreSQL.
type UserPreferencesRepo struct {
	db DB
}

func NewUserPreferencesRepo(db DB) *UserPreferencesRepo {
	return &UserPreferencesRepo{db: db}
}

// FetchUser возвращает предпочтения пользователя или e.ErrUserNotFound.
func (u *UserPreferencesRepo) FetchUser(ctx context.Context, userID int64) (*domain.UserPreferences, error) {
	query := `
		SELECT user_id, favorite_colors, preferred_styles, preferred_categories, created_at, updated_at
		FROM user_preferences
		WHERE user_id = $1
	`

	var model converter.UserPreferencesModel
	err := u.db.QueryRow(ctx, query, userID).Scan(
		&model.UserID, &model.FavoriteColors, &model.PreferredStyles, &model.PreferredCategories,
		&model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrUserNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return converter.ToUserPreferencesEntity(&model), nil
}

// Upsert идемпотентно сохраняет предпочтения.
// Запись обновляется только если хотя бы одно поле изменилось.
func (u *UserPreferencesRepo) Upsert(ctx context.Context, prefs *domain.UserPreferences) (*usecase.UpsertPreferencesRes, error) {
	var res *usecase.UpsertPreferencesRes

	err := inTx(ctx, u.db, pgx.TxOptions{}, func(ctx context.Context) error {
		var err error
		res, err = u.upsert(ctx, prefs)
		return err
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

func (u *UserPreferencesRepo) upsert(ctx context.Context, prefs *domain.UserPreferences) (*usecase.UpsertPreferencesRes, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	// VALUES ($1, $2, $3, $4) user_id, favorite_colors, preferred_styles, preferred_categories
	query := `
		WITH upsert AS (
		INSERT INTO user_preferences (user_id, favorite_colors, preferred_styles, preferred_categories)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id)
		DO UPDATE SET
			favorite_colors = EXCLUDED.favorite_colors,
			preferred_styles = EXCLUDED.preferred_styles,
			preferred_categories = EXCLUDED.preferred_categories,
			updated_at = NOW()
		WHERE
			user_preferences.favorite_colors IS DISTINCT FROM EXCLUDED.favorite_colors OR
			user_preferences.preferred_styles IS DISTINCT FROM EXCLUDED.preferred_styles OR
			user_preferences.preferred_categories IS DISTINCT FROM EXCLUDED.preferred_categories
		RETURNING
			user_id, favorite_colors, preferred_styles, preferred_categories, created_at, updated_at
		)
		SELECT
			user_id, favorite_colors, preferred_styles, preferred_categories, created_at, updated_at,
			false AS no_changes
		FROM upsert

		UNION ALL

		SELECT
			user_id, favorite_colors, preferred_styles, preferred_categories, created_at, updated_at,
			true AS no_changes
		FROM user_preferences
		WHERE user_id = $1
		  AND NOT EXISTS (SELECT 1 FROM upsert);
	`

	model := converter.ToUserPreferencesModel(prefs)
	var noChanges bool
	err = tx.QueryRow(ctx, query,
		model.UserID, model.FavoriteColors, model.PreferredStyles, model.PreferredCategories,
	).Scan(
		&model.UserID, &model.FavoriteColors, &model.PreferredStyles, &model.PreferredCategories,
		&model.CreatedAt, &model.UpdatedAt, &noChanges,
	)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return usecase.NewUpsertPreferencesRes(converter.ToUserPreferencesEntity(model), noChanges), nil
}
