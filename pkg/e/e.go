package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Ошибки построения профиля пользователя
	ErrNoProfile    = fmt.Errorf("no favorite products found for user")
	ErrUserNotFound = fmt.Errorf("user not found")

	// Ошибки внешних источников (API магазина, БД, S3)
	ErrUpstreamFetch      = fmt.Errorf("upstream fetch failed")
	ErrCatalogUnavailable = fmt.Errorf("catalog unavailable")
	ErrCacheMiss          = fmt.Errorf("cache miss")
	ErrNotConfigured      = fmt.Errorf("storage is not configured")

	// 400 Bad Request
	ErrStatusBadRequest   = fmt.Errorf("bad request")
	ErrInvalidRequestBody = fmt.Errorf("invalid request body")
	ErrInvalidUserID      = fmt.Errorf("user_id must be a positive integer")
	ErrInvalidTopN        = fmt.Errorf("top_n must be an integer")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")

	// Конфигурация
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")
	ErrInvalidConfig        = fmt.Errorf("invalid configuration")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
