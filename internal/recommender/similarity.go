package recommender

import "strings"

// Similarity возвращает долю общих слов двух текстов: |A ∩ B| / max(|A|, |B|),
// где A и B это множества слов, разделённых пробельными символами.
// Регистр и пунктуация не нормализуются. Для пустого текста результат 0.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}

	setA := tokenSet(a)
	setB := tokenSet(b)

	denom := max(len(setA), len(setB))
	if denom == 0 {
		return 0
	}

	// идём по меньшему множеству
	if len(setA) > len(setB) {
		setA, setB = setB, setA
	}

	common := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			common++
		}
	}

	return float64(common) / float64(denom)
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
