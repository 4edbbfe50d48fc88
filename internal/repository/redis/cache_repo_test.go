package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/DRSN-tech/go-recommender/internal/domain"
	"github.com/DRSN-tech/go-recommender/internal/repository/redis/converter"
	"github.com/DRSN-tech/go-recommender/pkg/e"
	"github.com/DRSN-tech/go-recommender/pkg/logger"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

func TestDecodeProduct(t *testing.T) {
	product := domain.Product{
		ID:          12,
		Name:        "shirt",
		Category:    "tshirt",
		Description: "red shirt",
		Price:       decimal.RequireFromString("99.90"),
	}
	data, err := json.Marshal(converter.ToRedisModel(&product))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		data    []byte
		wantID  int64
		wantErr bool
	}{
		{name: "matching key", data: data, wantID: 12},
		{name: "key mismatch", data: data, wantID: 13, wantErr: true},
		{name: "broken json", data: []byte("{"), wantID: 12, wantErr: true},
		{name: "broken price", data: []byte(`{"id":12,"price":"abc"}`), wantID: 12, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeProduct(tt.data, tt.wantID)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.Description != product.Description || !got.Price.Equal(product.Price) {
				t.Errorf("decoded = %+v, want %+v", got, product)
			}
		})
	}
}

func TestRedisValueToBytes(t *testing.T) {
	tests := []struct {
		name    string
		val     interface{}
		want    string
		wantNil bool
		wantErr bool
	}{
		{name: "string", val: "abc", want: "abc"},
		{name: "bytes", val: []byte("abc"), want: "abc"},
		{name: "miss", val: nil, wantNil: true},
		{name: "unexpected type", val: 42, wantNil: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := redisValueToBytes(tt.val, "k")
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantNil {
				if got != nil {
					t.Errorf("got %q, want nil", got)
				}
				return
			}
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildProductCacheKeys(t *testing.T) {
	keys := buildProductCacheKeys([]int64{1, 20})
	if len(keys) != 2 || keys[0] != "catalog:product:1" || keys[1] != "catalog:product:20" {
		t.Errorf("keys = %v", keys)
	}
}

func TestSetCatalog_EmptyCatalogIsNotCached(t *testing.T) {
	// Клиента нет: любое обращение к Redis упало бы
	repo := &CacheRepo{logger: logger.NewNopLogger()}

	for _, products := range [][]domain.Product{nil, {}} {
		if err := repo.SetCatalog(context.Background(), products); err != nil {
			t.Errorf("SetCatalog(%v) error = %v, want nil", products, err)
		}
	}
}

func TestDecodeIndex(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		want     []int64
		wantMiss bool
		wantErr  bool
	}{
		{name: "ids", raw: `{"ids":[3,1,2]}`, want: []int64{3, 1, 2}},
		{name: "empty index is a miss", raw: `{"ids":[]}`, wantMiss: true},
		{name: "missing ids is a miss", raw: `{}`, wantMiss: true},
		{name: "corrupted", raw: `{"ids":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeIndex([]byte(tt.raw))
			switch {
			case tt.wantMiss:
				if !errors.Is(err, e.ErrCacheMiss) {
					t.Errorf("error = %v, want ErrCacheMiss", err)
				}
				return
			case tt.wantErr:
				if err == nil || errors.Is(err, e.ErrCacheMiss) {
					t.Errorf("error = %v, want decode error", err)
				}
				return
			case err != nil:
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ids = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("ids[%d] = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}
