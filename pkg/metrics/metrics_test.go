package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordRanking(t *testing.T) {
	before := testutil.ToFloat64(RankingsTotal.WithLabelValues("inline"))
	pairsBefore := testutil.ToFloat64(PairsScored)

	RecordRanking("inline", 6, []int{100, 60}, 0.01)

	assert.Equal(t, before+1, testutil.ToFloat64(RankingsTotal.WithLabelValues("inline")))
	assert.Equal(t, pairsBefore+6, testutil.ToFloat64(PairsScored))
}

func TestRecordCacheLookup(t *testing.T) {
	before := testutil.ToFloat64(PreferenceCacheRequests.WithLabelValues(CacheHit))
	RecordCacheLookup(CacheHit)
	assert.Equal(t, before+1, testutil.ToFloat64(PreferenceCacheRequests.WithLabelValues(CacheHit)))
}
