package recommender

import "github.com/DRSN-tech/go-recommender/internal/domain"

// Scorer оценивает товары относительно профиля с заданными весами.
type Scorer struct {
	Weights domain.Weights
}

func NewScorer(w domain.Weights) Scorer {
	return Scorer{Weights: w}
}

// Score = совпадение категории * W.Category + похожесть описания * W.Description.
func (s Scorer) Score(p domain.Product, profile *domain.UserProfile) float64 {
	var category float64
	if profile.HasCategory(p.Category) {
		category = 1
	}

	desc := Similarity(p.Description, profile.Text)

	return category*s.Weights.Category + desc*s.Weights.Description
}

// ScoreAll оценивает каждый товар каталога. Порядок совпадает с входным, исходный слайс не меняется.
func (s Scorer) ScoreAll(products []domain.Product, profile *domain.UserProfile) []domain.ScoredProduct {
	scored := make([]domain.ScoredProduct, len(products))
	for i, p := range products {
		scored[i] = domain.ScoredProduct{
			Product: p,
			Score:   s.Score(p, profile),
		}
	}
	return scored
}
