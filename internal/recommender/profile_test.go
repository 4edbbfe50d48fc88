package recommender

import (
	"errors"
	"reflect"
	"testing"

	"github.com/DRSN-tech/go-recommender/internal/domain"
	"github.com/DRSN-tech/go-recommender/pkg/e"
)

func TestBuildFavoritesProfile(t *testing.T) {
	tests := []struct {
		name      string
		favorites []domain.Favorite
		wantText  string
		wantCats  []string
		wantErr   error
	}{
		{
			name:    "no favorites at all",
			wantErr: e.ErrNoProfile,
		},
		{
			name: "rows without the favorite flag are ignored",
			favorites: []domain.Favorite{
				domain.NewFavorite(1, "red shirt", "tshirt", false),
			},
			wantErr: e.ErrNoProfile,
		},
		{
			name: "favorites with blank descriptions",
			favorites: []domain.Favorite{
				domain.NewFavorite(1, "", "tshirt", true),
			},
			wantErr: e.ErrNoProfile,
		},
		{
			name: "descriptions joined in source order",
			favorites: []domain.Favorite{
				domain.NewFavorite(1, "red shirt", "tshirt", true),
				domain.NewFavorite(2, "ignored", "shoes", false),
				domain.NewFavorite(3, "casual hoodie", "hoodie", true),
				domain.NewFavorite(4, "", "", true),
				domain.NewFavorite(5, "cotton", "tshirt", true),
			},
			wantText: "red shirt casual hoodie cotton",
			wantCats: []string{"tshirt", "hoodie", "tshirt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildFavoritesProfile(42, tt.favorites)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.UserID != 42 {
				t.Errorf("UserID = %d, want 42", got.UserID)
			}
			if got.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", got.Text, tt.wantText)
			}
			if !reflect.DeepEqual(got.Categories, tt.wantCats) {
				t.Errorf("Categories = %v, want %v", got.Categories, tt.wantCats)
			}
		})
	}
}

func TestBuildPreferencesProfile(t *testing.T) {
	tests := []struct {
		name     string
		prefs    *domain.UserPreferences
		wantText string
		wantCats []string
		wantErr  error
	}{
		{
			name:    "unknown user",
			prefs:   nil,
			wantErr: e.ErrUserNotFound,
		},
		{
			name:     "all fields",
			prefs:    domain.NewUserPreferences(7, "red,blue", "casual", "tshirt,hoodie"),
			wantText: "red,blue casual tshirt,hoodie",
			wantCats: []string{"tshirt", "hoodie"},
		},
		{
			name:     "segments are not trimmed",
			prefs:    domain.NewUserPreferences(7, "", "", "tshirt, hoodie,,"),
			wantText: "  tshirt, hoodie,,",
			wantCats: []string{"tshirt", " hoodie", "", ""},
		},
		{
			name:     "blank record still yields a profile",
			prefs:    domain.NewUserPreferences(7, "", "", ""),
			wantText: "  ",
			wantCats: []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildPreferencesProfile(tt.prefs)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.UserID != 7 {
				t.Errorf("UserID = %d, want 7", got.UserID)
			}
			if got.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", got.Text, tt.wantText)
			}
			if !reflect.DeepEqual(got.Categories, tt.wantCats) {
				t.Errorf("Categories = %q, want %q", got.Categories, tt.wantCats)
			}
		})
	}
}
