package usecase

import (
	"context"

	"github.com/DRSN-tech/go-recommender/internal/domain"
)

type RecommendationUC interface {
	Recommend(ctx context.Context, req *RecommendReq) (*RecommendRes, error)
	UpsertPreferences(ctx context.Context, req *UpsertPreferencesReq) (*UpsertPreferencesRes, error)
	GetPreferences(ctx context.Context, userID int64) (*domain.UserPreferences, error)
	ExportCatalogSnapshot(ctx context.Context) (*SnapshotInfo, error)
}
