package domain

// UserProfile: профиль пользователя, собранный на один запрос рекомендаций.
type UserProfile struct {
	UserID     int64
	Text       string
	Categories []string
}

// HasCategory проверяет точное вхождение категории (без нормализации регистра и пробелов).
func (p *UserProfile) HasCategory(category string) bool {
	for _, c := range p.Categories {
		if c == category {
			return true
		}
	}
	return false
}
