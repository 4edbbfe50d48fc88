package usecase

import (
	"time"

	"github.com/DRSN-tech/go-recommender/internal/domain"
	"github.com/DRSN-tech/go-recommender/internal/recommender"
)

// RECOMMENDATION USECASE

// RecommendReq: запрос рекомендаций. TopN == nil означает значение по умолчанию для варианта.
type RecommendReq struct {
	UserID int64
	TopN   *int
}

// RecommendRes: ранжированные товары, лучшие первыми.
type RecommendRes struct {
	UserID  int64
	Variant domain.Variant
	Items   []domain.ScoredProduct
}

// ProductIDs возвращает идентификаторы товаров в порядке ранжирования.
func (r *RecommendRes) ProductIDs() []int64 {
	return recommender.IDs(r.Items)
}

// UpsertPreferencesReq: запрос на сохранение предпочтений пользователя.
type UpsertPreferencesReq struct {
	UserID              int64
	FavoriteColors      string
	PreferredStyles     string
	PreferredCategories string
}

// REPOSITORIES

type UpsertPreferencesRes struct {
	Preferences *domain.UserPreferences
	NoChanges   bool
}

// SnapshotInfo описывает сохранённый снимок каталога.
type SnapshotInfo struct {
	Bucket   string
	Key      string
	Products int
	Size     int64
}

// INFRASTRUCTURE

// RecommendationServedEvent публикуется после каждого успешно выданного списка рекомендаций.
type RecommendationServedEvent struct {
	EventID    string
	UserID     int64
	Variant    domain.Variant
	ProductIDs []int64
	Scores     []float64
	ServedAt   time.Time
}

// MAPPERS
func NewRecommendReq(userID int64, topN *int) *RecommendReq {
	return &RecommendReq{
		UserID: userID,
		TopN:   topN,
	}
}

func NewRecommendRes(userID int64, variant domain.Variant, items []domain.ScoredProduct) *RecommendRes {
	return &RecommendRes{
		UserID:  userID,
		Variant: variant,
		Items:   items,
	}
}

func NewUpsertPreferencesReq(userID int64, colors string, styles string, categories string) *UpsertPreferencesReq {
	return &UpsertPreferencesReq{
		UserID:              userID,
		FavoriteColors:      colors,
		PreferredStyles:     styles,
		PreferredCategories: categories,
	}
}

func NewUpsertPreferencesRes(prefs *domain.UserPreferences, noChanges bool) *UpsertPreferencesRes {
	return &UpsertPreferencesRes{
		Preferences: prefs,
		NoChanges:   noChanges,
	}
}

func NewSnapshotInfo(bucket string, key string, products int, size int64) *SnapshotInfo {
	return &SnapshotInfo{
		Bucket:   bucket,
		Key:      key,
		Products: products,
		Size:     size,
	}
}

func NewRecommendationServedEvent(eventID string, res *RecommendRes, servedAt time.Time) *RecommendationServedEvent {
	scores := make([]float64, len(res.Items))
	for i, item := range res.Items {
		scores[i] = item.Score
	}

	return &RecommendationServedEvent{
		EventID:    eventID,
		UserID:     res.UserID,
		Variant:    res.Variant,
		ProductIDs: res.ProductIDs(),
		Scores:     scores,
		ServedAt:   servedAt,
	}
}
