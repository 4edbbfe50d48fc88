package minio

import (
	"reflect"
	"testing"
	"time"
)

func TestArchiveKey(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	tests := []struct {
		key  string
		want string
	}{
		{key: "snapshots/products.json", want: "snapshots/archive/products-20260314T092653Z.json"},
		{key: "products.json", want: "archive/products-20260314T092653Z.json"},
		{key: "catalog", want: "archive/catalog-20260314T092653Z.json"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := archiveKey(tt.key, at); got != tt.want {
				t.Errorf("archiveKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestExpiredArchives(t *testing.T) {
	keys := []string{
		"a/products-20260103T000000Z.json",
		"a/products-20260101T000000Z.json",
		"a/products-20260104T000000Z.json",
		"a/products-20260102T000000Z.json",
	}

	tests := []struct {
		name string
		keep int
		want []string
	}{
		{name: "keep two newest", keep: 2, want: []string{"a/products-20260101T000000Z.json", "a/products-20260102T000000Z.json"}},
		{name: "keep all", keep: 4, want: nil},
		{name: "retention disabled", keep: 0, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expiredArchives(keys, tt.keep); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expiredArchives() = %v, want %v", got, tt.want)
			}
		})
	}
}
