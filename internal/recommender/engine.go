package recommender

import "github.com/DRSN-tech/go-recommender/internal/domain"

// Engine связывает оценку и ранжирование для одного варианта рекомендаций.
type Engine struct {
	variant     domain.Variant
	scorer      Scorer
	defaultTopN int
}

func NewEngine(variant domain.Variant, w domain.Weights, defaultTopN int) *Engine {
	return &Engine{
		variant:     variant,
		scorer:      NewScorer(w),
		defaultTopN: defaultTopN,
	}
}

// NewDefaultEngine создаёт движок со встроенными весами варианта.
func NewDefaultEngine(variant domain.Variant) *Engine {
	s := domain.DefaultVariantSettings[variant]
	return NewEngine(variant, s.Weights, s.DefaultTopN)
}

func (en *Engine) Variant() domain.Variant { return en.variant }

func (en *Engine) DefaultTopN() int { return en.defaultTopN }

func (en *Engine) Weights() domain.Weights { return en.scorer.Weights }

// Recommend оценивает весь каталог относительно профиля и возвращает лучшие topN товаров.
func (en *Engine) Recommend(profile *domain.UserProfile, products []domain.Product, topN int) []domain.ScoredProduct {
	return Rank(en.scorer.ScoreAll(products, profile), topN)
}
