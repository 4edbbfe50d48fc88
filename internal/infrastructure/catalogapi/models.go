package catalogapi

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/DRSN-tech/go-recommender/internal/domain"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// envelope: общий формат ответа API магазина: {"data": [...]}.
// Строки разбираются по одной, чтобы одна испорченная строка не ломала весь ответ.
type envelope struct {
	Data []json.RawMessage `json:"data"`
}

// productDTO: строка товара в ответе API магазина. Имена полей заданы API и не меняются.
type productDTO struct {
	ID          flexInt     `json:"products_id"`
	Name        string      `json:"product_name_ar"`
	Description string      `json:"product_desc_ar"`
	Category    string      `json:"catogeries_name_ar"`
	Price       flexDecimal `json:"product_price"`
	Image       string      `json:"product_image"`
	Fav         flexInt     `json:"fav"`
}

// flexInt принимает целое как JSON-число (в том числе 1.0), строку ("12"), или bool.
// Пустая строка и null дают 0, true даёт 1.
type flexInt int64

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}

	switch {
	case bytes.Equal(b, []byte("true")):
		*f = 1
		return nil
	case bytes.Equal(b, []byte("false")):
		*f = 0
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		b = []byte(s)
	}

	if v, err := strconv.ParseInt(string(b), 10, 64); err == nil {
		*f = flexInt(v)
		return nil
	}

	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	if v != math.Trunc(v) || math.Abs(v) > 1<<53 {
		return fmt.Errorf("not an integer: %s", b)
	}
	*f = flexInt(v)
	return nil
}

// flexDecimal разбирает цену из числа или строки. Пустое или нечитаемое значение даёт 0:
// цена не участвует в оценке и не должна отбрасывать товар.
type flexDecimal struct {
	decimal.Decimal
}

func (f *flexDecimal) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			f.Decimal = decimal.Zero
			return nil
		}
		b = []byte(s)
	}

	d, err := decimal.NewFromString(string(b))
	if err != nil {
		d = decimal.Zero
	}
	f.Decimal = d
	return nil
}

func (p *productDTO) toProduct() domain.Product {
	return domain.Product{
		ID:          int64(p.ID),
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		Price:       p.Price.Decimal,
		ImageURL:    p.Image,
	}
}

func (p *productDTO) toFavorite() domain.Favorite {
	return domain.NewFavorite(int64(p.ID), p.Description, p.Category, p.Fav == 1)
}
