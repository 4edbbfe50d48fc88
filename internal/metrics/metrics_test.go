package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordRecommendation(t *testing.T) {
	before := testutil.ToFloat64(RecommendationsTotal.WithLabelValues("favorites", "http", StatusSuccess))

	RecordRecommendation("favorites", "http", StatusSuccess, 3, 10*time.Millisecond)

	after := testutil.ToFloat64(RecommendationsTotal.WithLabelValues("favorites", "http", StatusSuccess))
	if after-before != 1 {
		t.Errorf("counter delta = %v, want 1", after-before)
	}
}

func TestRecordCatalogCache(t *testing.T) {
	hits := testutil.ToFloat64(CatalogCacheHitsTotal)
	misses := testutil.ToFloat64(CatalogCacheMissesTotal)

	RecordCatalogCache(true)
	RecordCatalogCache(false)
	RecordCatalogCache(false)

	if got := testutil.ToFloat64(CatalogCacheHitsTotal) - hits; got != 1 {
		t.Errorf("hits delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(CatalogCacheMissesTotal) - misses; got != 2 {
		t.Errorf("misses delta = %v, want 2", got)
	}
}

func TestRecordUpstream(t *testing.T) {
	before := testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("products", "error"))

	RecordUpstream("products", errors.New("timeout"), time.Second)

	if got := testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("products", "error")) - before; got != 1 {
		t.Errorf("error delta = %v, want 1", got)
	}
}
