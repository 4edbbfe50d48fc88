// Package catalogapi: клиент API магазина, из которого берутся каталог и избранное пользователей.
package catalogapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/go-recommender/internal/cfg"
	"github.com/DRSN-tech/go-recommender/internal/domain"
	"github.com/DRSN-tech/go-recommender/internal/metrics"
	"github.com/DRSN-tech/go-recommender/pkg/e"
	"github.com/DRSN-tech/go-recommender/pkg/jitter"
	"github.com/DRSN-tech/go-recommender/pkg/logger"
	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
)

const (
	endpointProducts  = "products"
	endpointFavorites = "favorites"

	breakerName = "shop-api"
	maxBodySize = 32 << 20
)

// statusError: ответ API с кодом, отличным от 200.
type statusError struct {
	code int
}

func (s *statusError) Error() string {
	return fmt.Sprintf("unexpected status code %d", s.code)
}

// decodeError: тело ответа не является конвертом {"data": [...]}. Повтор того же запроса его не исправит.
type decodeError struct {
	err error
}

func (d *decodeError) Error() string {
	return fmt.Sprintf("decode response: %v", d.err)
}

func (d *decodeError) Unwrap() error {
	return d.err
}

// Client ходит в API магазина с повторами и автоматическим выключателем.
type Client struct {
	httpClient   *http.Client
	productsURL  string
	favoritesURL string
	maxRetries   int
	baseBackoff  time.Duration
	maxBackoff   time.Duration
	cb           *gobreaker.CircuitBreaker[[]productDTO]
	logger       logger.Logger
}

func NewClient(httpClient *http.Client, c *cfg.CatalogCfg, log logger.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: c.RequestTimeout}
	}

	maxRetries := c.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	failures := c.BreakerFailures
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]productDTO](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     c.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return failures > 0 && counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnf("Circuit breaker %s: %s -> %s", name, from, to)
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
		// 4xx говорит о проблеме запроса, а не о недоступности магазина
		IsSuccessful: func(err error) bool {
			var se *statusError
			if errors.As(err, &se) {
				return se.code < http.StatusInternalServerError
			}
			return err == nil
		},
	})

	return &Client{
		httpClient:   httpClient,
		productsURL:  c.ProductsURL,
		favoritesURL: c.FavoritesURL,
		maxRetries:   maxRetries,
		baseBackoff:  c.BaseBackoff,
		maxBackoff:   c.MaxBackoff,
		cb:           cb,
		logger:       log,
	}
}

// FetchAllProducts возвращает весь каталог магазина.
func (c *Client) FetchAllProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "Client.FetchAllProducts"

	rows, err := c.call(ctx, endpointProducts, c.productsURL, nil)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	products := make([]domain.Product, 0, len(rows))
	for i := range rows {
		products = append(products, rows[i].toProduct())
	}

	return products, nil
}

// FetchFavorites возвращает товары пользователя с флагом избранного (поле fav).
func (c *Client) FetchFavorites(ctx context.Context, userID int64) ([]domain.Favorite, error) {
	const op = "Client.FetchFavorites"

	if c.favoritesURL == "" {
		return nil, e.Wrap(op, e.ErrNotConfigured)
	}

	form := url.Values{}
	form.Set("user_id", strconv.FormatInt(userID, 10))

	rows, err := c.call(ctx, endpointFavorites, c.favoritesURL, form)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	favorites := make([]domain.Favorite, 0, len(rows))
	for i := range rows {
		favorites = append(favorites, rows[i].toFavorite())
	}

	return favorites, nil
}

// call выполняет запрос с повторами и экспоненциальной задержкой.
// Ошибки 4xx, нечитаемый ответ и разомкнутый выключатель не повторяются.
func (c *Client) call(ctx context.Context, endpoint string, target string, form url.Values) ([]productDTO, error) {
	const op = "Client.call"

	start := time.Now()
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		rows, err := c.cb.Execute(func() ([]productDTO, error) {
			return c.post(ctx, target, form)
		})
		if err == nil {
			metrics.RecordUpstream(endpoint, nil, time.Since(start))
			return rows, nil
		}
		lastErr = err

		if !retryable(err) || ctx.Err() != nil || attempt == c.maxRetries-1 {
			break
		}

		sleepTime := jitter.ExponentialBackoff(c.baseBackoff, c.maxBackoff, attempt, jitter.DefaultJitter)
		c.logger.Warnf("shop api %s failed, retrying in %v (attempt %d): %v", endpoint, sleepTime, attempt+1, err)

		if err := jitter.Sleep(ctx, sleepTime); err != nil {
			lastErr = err
			break
		}
	}

	metrics.RecordUpstream(endpoint, lastErr, time.Since(start))
	return nil, e.Wrap(op, fmt.Errorf("%w: %s: %w", e.ErrUpstreamFetch, endpoint, lastErr))
}

// post отправляет один POST-запрос и разбирает конверт {"data": [...]}.
func (c *Client) post(ctx context.Context, target string, form url.Values) ([]productDTO, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, body)
	if err != nil {
		return nil, err
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, &statusError{code: resp.StatusCode}
	}

	var env envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&env); err != nil {
		return nil, &decodeError{err: err}
	}

	return c.decodeRows(env.Data), nil
}

// decodeRows разбирает строки ответа по одной. Нечитаемые строки пропускаются.
func (c *Client) decodeRows(raw []json.RawMessage) []productDTO {
	rows := make([]productDTO, 0, len(raw))
	for i, r := range raw {
		var row productDTO
		if err := json.Unmarshal(r, &row); err != nil {
			c.logger.Warnf("shop api: skipping row %d: %v", i, err)
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

func retryable(err error) bool {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}
	var de *decodeError
	if errors.As(err, &de) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= http.StatusInternalServerError || se.code == http.StatusTooManyRequests
	}

	return true
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
