package usecase

import "context"

type EventProducer interface {
	PublishRecommendationServed(ctx context.Context, event *RecommendationServedEvent) error
}
