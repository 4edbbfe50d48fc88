package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/DRSN-tech/go-recommender/internal/domain"
	"github.com/DRSN-tech/go-recommender/internal/metrics"
	"github.com/DRSN-tech/go-recommender/internal/recommender"
	"github.com/DRSN-tech/go-recommender/pkg/e"
	"github.com/DRSN-tech/go-recommender/pkg/logger"
	"github.com/google/uuid"
)

const backgroundTimeout = 2 * time.Second

// RecommendationUseCase собирает профиль пользователя, получает каталог и ранжирует товары.
// Опциональные зависимости (кэш, снимки, продюсер, хранилище предпочтений) могут быть nil.
type RecommendationUseCase struct {
	engine      *recommender.Engine
	catalog     CatalogSource
	favorites   FavoritesSource
	preferences PreferencesRepository
	cache       CatalogCache
	snapshots   SnapshotStore
	producer    EventProducer
	logger      logger.Logger
	now         func() time.Time
}

func NewRecommendationUC(
	engine *recommender.Engine,
	catalog CatalogSource,
	favorites FavoritesSource,
	preferences PreferencesRepository,
	cache CatalogCache,
	snapshots SnapshotStore,
	producer EventProducer,
	logger logger.Logger,
) *RecommendationUseCase {
	return &RecommendationUseCase{
		engine:      engine,
		catalog:     catalog,
		favorites:   favorites,
		preferences: preferences,
		cache:       cache,
		snapshots:   snapshots,
		producer:    producer,
		logger:      logger,
		now:         time.Now,
	}
}

// Variant возвращает вариант, с которым работает движок.
func (r *RecommendationUseCase) Variant() domain.Variant {
	return r.engine.Variant()
}

// Recommend возвращает лучшие товары каталога для пользователя.
// Ошибки построения профиля возвращаются вызывающему, ошибка каталога даёт пустой список.
func (r *RecommendationUseCase) Recommend(ctx context.Context, req *RecommendReq) (*RecommendRes, error) {
	const op = "RecommendationUseCase.Recommend"

	// Валидация
	if req == nil || req.UserID <= 0 {
		return nil, e.Wrap(op, e.ErrInvalidUserID)
	}

	topN := r.engine.DefaultTopN()
	if req.TopN != nil {
		topN = *req.TopN
	}

	// Профиль пользователя
	profile, err := r.buildProfile(ctx, req.UserID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Каталог товаров
	products, err := r.fetchCatalog(ctx)
	if err != nil {
		r.logger.Warnf("Catalog unavailable, serving empty recommendations. user_id: %d, error: %v", req.UserID, e.Wrap(op, err))
		products = nil
	}
	metrics.CatalogSize.Set(float64(len(products)))

	// Оценка и ранжирование
	items := r.engine.Recommend(profile, products, topN)
	res := NewRecommendRes(req.UserID, r.engine.Variant(), items)

	r.logger.Debugf("Recommendations built. user_id: %d, variant: %s, catalog: %d, returned: %d",
		req.UserID, res.Variant, len(products), len(items))

	r.publishServed(res)

	return res, nil
}

// UpsertPreferences сохраняет предпочтения пользователя для варианта preferences.
func (r *RecommendationUseCase) UpsertPreferences(ctx context.Context, req *UpsertPreferencesReq) (*UpsertPreferencesRes, error) {
	const op = "RecommendationUseCase.UpsertPreferences"

	if r.preferences == nil {
		return nil, e.Wrap(op, e.ErrNotConfigured)
	}
	if req == nil || req.UserID <= 0 {
		return nil, e.Wrap(op, e.ErrInvalidUserID)
	}

	prefs := domain.NewUserPreferences(req.UserID, req.FavoriteColors, req.PreferredStyles, req.PreferredCategories)

	res, err := r.preferences.Upsert(ctx, prefs)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if !res.NoChanges {
		r.logger.Infof("Preferences updated. user_id: %d", req.UserID)
	}

	return res, nil
}

// GetPreferences возвращает сохранённые предпочтения пользователя.
func (r *RecommendationUseCase) GetPreferences(ctx context.Context, userID int64) (*domain.UserPreferences, error) {
	const op = "RecommendationUseCase.GetPreferences"

	if r.preferences == nil {
		return nil, e.Wrap(op, e.ErrNotConfigured)
	}
	if userID <= 0 {
		return nil, e.Wrap(op, e.ErrInvalidUserID)
	}

	prefs, err := r.preferences.FetchUser(ctx, userID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return prefs, nil
}

// ExportCatalogSnapshot выгружает текущий каталог из источника в объектное хранилище.
func (r *RecommendationUseCase) ExportCatalogSnapshot(ctx context.Context) (*SnapshotInfo, error) {
	const op = "RecommendationUseCase.ExportCatalogSnapshot"

	if r.snapshots == nil {
		return nil, e.Wrap(op, e.ErrNotConfigured)
	}

	// Снимок всегда берётся из источника, минуя кэш
	products, err := r.catalog.FetchAllProducts(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	info, err := r.snapshots.SaveSnapshot(ctx, products)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	r.logger.Infof("Catalog snapshot exported. bucket: %s, key: %s, products: %d", info.Bucket, info.Key, info.Products)

	return info, nil
}

// buildProfile строит профиль из источника, соответствующего варианту движка.
func (r *RecommendationUseCase) buildProfile(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	switch r.engine.Variant() {
	case domain.VariantPreferences:
		if r.preferences == nil {
			return nil, e.ErrNotConfigured
		}

		prefs, err := r.preferences.FetchUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		return recommender.BuildPreferencesProfile(prefs)

	default:
		favorites, err := r.favorites.FetchFavorites(ctx, userID)
		if err != nil {
			return nil, err
		}
		return recommender.BuildFavoritesProfile(userID, favorites)
	}
}

// fetchCatalog читает каталог через кэш, если он настроен.
func (r *RecommendationUseCase) fetchCatalog(ctx context.Context) ([]domain.Product, error) {
	const op = "RecommendationUseCase.fetchCatalog"

	if r.cache != nil {
		products, err := r.cache.GetCatalog(ctx)
		if err == nil {
			metrics.RecordCatalogCache(true)
			return products, nil
		}

		metrics.RecordCatalogCache(false)
		if !errors.Is(err, e.ErrCacheMiss) {
			r.logger.Warnf("Failed to read catalog from cache: %v", e.Wrap(op, err))
		}
	}

	products, err := r.catalog.FetchAllProducts(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Фоновое сохранение каталога в кэш
	if r.cache != nil {
		go func() {
			bgCtx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
			defer cancel()

			if err := r.cache.SetCatalog(bgCtx, products); err != nil {
				r.logger.Warnf("Failed to cache catalog in background: %v", e.Wrap(op, err))
			}
		}()
	}

	return products, nil
}

// publishServed отправляет событие о выданных рекомендациях в фоне.
func (r *RecommendationUseCase) publishServed(res *RecommendRes) {
	const op = "RecommendationUseCase.publishServed"

	if r.producer == nil {
		return
	}

	event := NewRecommendationServedEvent(uuid.NewString(), res, r.now().UTC())

	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()

		err := r.producer.PublishRecommendationServed(bgCtx, event)
		metrics.RecordEventPublished(err)
		if err != nil {
			r.logger.Warnf("Failed to publish recommendation event. user_id: %d, error: %v", res.UserID, e.Wrap(op, err))
		}
	}()
}
