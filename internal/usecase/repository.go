package usecase

import (
	"context"

	"github.com/DRSN-tech/go-recommender/internal/domain"
)

// CatalogSource отдаёт весь каталог товаров, доступных для рекомендаций.
type CatalogSource interface {
	FetchAllProducts(ctx context.Context) ([]domain.Product, error)
}

// FavoritesSource отдаёт товары пользователя с признаком избранного.
type FavoritesSource interface {
	FetchFavorites(ctx context.Context, userID int64) ([]domain.Favorite, error)
}

// PreferencesSource отдаёт сохранённые предпочтения. Если пользователя нет, возвращает e.ErrUserNotFound.
type PreferencesSource interface {
	FetchUser(ctx context.Context, userID int64) (*domain.UserPreferences, error)
}

type PreferencesRepository interface {
	PreferencesSource
	Upsert(ctx context.Context, prefs *domain.UserPreferences) (*UpsertPreferencesRes, error)
}

// CatalogCache хранит последний снимок каталога. При отсутствии записи возвращает e.ErrCacheMiss.
type CatalogCache interface {
	GetCatalog(ctx context.Context) ([]domain.Product, error)
	SetCatalog(ctx context.Context, products []domain.Product) error
}

// SnapshotStore сохраняет снимок каталога во внешнее объектное хранилище.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, products []domain.Product) (*SnapshotInfo, error)
}
