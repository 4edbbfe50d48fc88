package recommender

import (
	"sort"

	"github.com/DRSN-tech/go-recommender/internal/domain"
)

// Rank сортирует оценённые товары по убыванию оценки и оставляет первые topN.
// Товары с равной оценкой сохраняют исходный порядок. Входной слайс не переупорядочивается.
func Rank(scored []domain.ScoredProduct, topN int) []domain.ScoredProduct {
	if topN <= 0 {
		return []domain.ScoredProduct{}
	}

	ranked := make([]domain.ScoredProduct, len(scored))
	copy(ranked, scored)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// IDs возвращает идентификаторы товаров в порядке ранжирования.
func IDs(ranked []domain.ScoredProduct) []int64 {
	ids := make([]int64, len(ranked))
	for i, r := range ranked {
		ids[i] = r.ID
	}
	return ids
}
