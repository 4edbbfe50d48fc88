package recommender

import (
	"testing"

	"github.com/DRSN-tech/go-recommender/internal/domain"
)

func TestScorer_Score(t *testing.T) {
	favWeights := domain.DefaultVariantSettings[domain.VariantFavorites].Weights
	prefWeights := domain.DefaultVariantSettings[domain.VariantPreferences].Weights

	tests := []struct {
		name    string
		weights domain.Weights
		product domain.Product
		profile domain.UserProfile
		want    float64
	}{
		{
			name:    "category match and partial description",
			weights: favWeights,
			product: domain.Product{ID: 1, Category: "tshirt", Description: "red shirt formal"},
			profile: domain.UserProfile{Text: "red shirt casual", Categories: []string{"tshirt", "hoodie"}},
			want:    0.6 + (2.0/3.0)*0.4,
		},
		{
			name:    "no signal in preferences variant",
			weights: prefWeights,
			product: domain.Product{ID: 2, Category: "shoes", Description: "leather boots"},
			profile: domain.UserProfile{Text: "  ", Categories: []string{""}},
			want:    0,
		},
		{
			name:    "category match is exact",
			weights: favWeights,
			product: domain.Product{ID: 3, Category: "TShirt"},
			profile: domain.UserProfile{Text: "x", Categories: []string{"tshirt"}},
			want:    0,
		},
		{
			name:    "full match reaches the weight sum",
			weights: prefWeights,
			product: domain.Product{ID: 4, Category: "hoodie", Description: "grey hoodie"},
			profile: domain.UserProfile{Text: "grey hoodie", Categories: []string{"hoodie"}},
			want:    0.8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewScorer(tt.weights).Score(tt.product, &tt.profile)
			if !almostEqual(got, tt.want) {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
			if got < 0 || got > tt.weights.Sum()+eps {
				t.Errorf("Score() = %v, out of [0, %v]", got, tt.weights.Sum())
			}
		})
	}
}

func TestScorer_ScoreAllKeepsOrder(t *testing.T) {
	products := []domain.Product{
		{ID: 10, Category: "a", Description: "x"},
		{ID: 20, Category: "b", Description: "y"},
		{ID: 30, Category: "c", Description: "z"},
	}
	profile := &domain.UserProfile{Text: "y", Categories: []string{"b"}}

	scored := NewScorer(domain.Weights{Category: 0.6, Description: 0.4}).ScoreAll(products, profile)

	if len(scored) != len(products) {
		t.Fatalf("len = %d, want %d", len(scored), len(products))
	}
	for i := range products {
		if scored[i].ID != products[i].ID {
			t.Errorf("scored[%d].ID = %d, want %d", i, scored[i].ID, products[i].ID)
		}
	}
	if !almostEqual(scored[1].Score, 1) {
		t.Errorf("scored[1].Score = %v, want 1", scored[1].Score)
	}
}
