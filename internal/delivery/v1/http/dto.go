package http

import (
	"time"

	"github.com/DRSN-tech/go-recommender/internal/domain"
	"github.com/DRSN-tech/go-recommender/internal/usecase"
	"github.com/shopspring/decimal"
)

// RecommendRequest: тело запроса рекомендаций. top_n по умолчанию берётся из варианта.
type RecommendRequest struct {
	UserID   int64 `json:"user_id" validate:"gt=0"`
	TopN     *int  `json:"top_n,omitempty"`
	Detailed bool  `json:"detailed,omitempty"`
}

// LegacyRecommendResponse: ответ /recommend: только идентификаторы товаров.
type LegacyRecommendResponse struct {
	Status          string  `json:"status"`
	Recommendations []int64 `json:"recommendations"`
}

type RecommendResponse struct {
	Status          string               `json:"status"`
	UserID          int64                `json:"user_id"`
	Variant         string               `json:"variant"`
	Recommendations []int64              `json:"recommendations"`
	Items           []RecommendationItem `json:"items,omitempty"`
}

type RecommendationItem struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url,omitempty"`
	Similarity  float64         `json:"similarity"`
}

type PreferencesRequest struct {
	FavoriteColors      string `json:"favorite_colors" validate:"max=1024"`
	PreferredStyles     string `json:"preferred_styles" validate:"max=1024"`
	PreferredCategories string `json:"preferred_categories" validate:"max=1024"`
}

type PreferencesResponse struct {
	UserID              int64      `json:"user_id"`
	FavoriteColors      string     `json:"favorite_colors"`
	PreferredStyles     string     `json:"preferred_styles"`
	PreferredCategories string     `json:"preferred_categories"`
	UpdatedAt           *time.Time `json:"updated_at,omitempty"`
	Changed             *bool      `json:"changed,omitempty"`
}

type SnapshotResponse struct {
	Status   string `json:"status"`
	Bucket   string `json:"bucket"`
	Key      string `json:"key"`
	Products int    `json:"products"`
	Size     int64  `json:"size"`
}

// MAPPERS
func NewLegacyRecommendResponse(res *usecase.RecommendRes) *LegacyRecommendResponse {
	return &LegacyRecommendResponse{
		Status:          statusSuccess,
		Recommendations: res.ProductIDs(),
	}
}

func NewRecommendResponse(res *usecase.RecommendRes, detailed bool) *RecommendResponse {
	resp := &RecommendResponse{
		Status:          statusSuccess,
		UserID:          res.UserID,
		Variant:         string(res.Variant),
		Recommendations: res.ProductIDs(),
	}

	if detailed {
		resp.Items = make([]RecommendationItem, len(res.Items))
		for i, item := range res.Items {
			resp.Items[i] = NewRecommendationItem(item)
		}
	}

	return resp
}

func NewRecommendationItem(sp domain.ScoredProduct) RecommendationItem {
	return RecommendationItem{
		ID:          sp.ID,
		Name:        sp.Name,
		Category:    sp.Category,
		Description: sp.Description,
		Price:       sp.Price,
		ImageURL:    sp.ImageURL,
		Similarity:  sp.Score,
	}
}

func NewPreferencesResponse(p *domain.UserPreferences, changed *bool) *PreferencesResponse {
	return &PreferencesResponse{
		UserID:              p.UserID,
		FavoriteColors:      p.FavoriteColors,
		PreferredStyles:     p.PreferredStyles,
		PreferredCategories: p.PreferredCategories,
		UpdatedAt:           p.UpdatedAt,
		Changed:             changed,
	}
}

func NewSnapshotResponse(info *usecase.SnapshotInfo) *SnapshotResponse {
	return &SnapshotResponse{
		Status:   statusSuccess,
		Bucket:   info.Bucket,
		Key:      info.Key,
		Products: info.Products,
		Size:     info.Size,
	}
}
