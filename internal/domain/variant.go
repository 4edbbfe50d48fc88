package domain

import "fmt"

// Variant определяет, из какого источника строится профиль и какие веса применяются.
type Variant string

const (
	VariantFavorites   Variant = "favorites"
	VariantPreferences Variant = "preferences"
)

// Weights: веса сигналов итоговой оценки. Сумма не обязана быть равна 1.
type Weights struct {
	Category    float64
	Description float64
}

// Sum возвращает верхнюю границу итоговой оценки.
func (w Weights) Sum() float64 {
	return w.Category + w.Description
}

// VariantSettings: веса и top-N по умолчанию для варианта.
type VariantSettings struct {
	Weights     Weights
	DefaultTopN int
}

// DefaultVariantSettings: значения, с которыми работали оба исторических варианта сервиса.
var DefaultVariantSettings = map[Variant]VariantSettings{
	VariantFavorites:   {Weights: Weights{Category: 0.6, Description: 0.4}, DefaultTopN: 5},
	VariantPreferences: {Weights: Weights{Category: 0.5, Description: 0.3}, DefaultTopN: 3},
}

func ParseVariant(s string) (Variant, error) {
	switch v := Variant(s); v {
	case VariantFavorites, VariantPreferences:
		return v, nil
	default:
		return "", fmt.Errorf("unknown variant %q", s)
	}
}
