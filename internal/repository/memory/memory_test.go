package memory

import (
	"context"
	"testing"
	"time"

	"visaforge-be/pkg/webref"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayKeyUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC-8", -8*3600)
	at := time.Date(2024, 5, 1, 20, 0, 0, 0, loc)
	assert.Equal(t, "grounding:calls:2024-05-02", DayKey("grounding:calls", at))
	assert.Equal(t, time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC), NextUTCMidnight(at))
}

func TestLocalDayCounterResetsAtMidnight(t *testing.T) {
	now := time.Date(2024, 5, 1, 23, 59, 0, 0, time.UTC)
	c := NewLocalDayCounter(func() time.Time { return now })
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		n, err := c.Increment(ctx, "calls")
		require.NoError(t, err)
		assert.Equal(t, int64(i), n)
	}
	count, _ := c.Count(ctx, "calls")
	assert.Equal(t, int64(3), count)

	now = now.Add(2 * time.Minute)
	count, _ = c.Count(ctx, "calls")
	assert.Equal(t, int64(0), count)

	n, err := c.Increment(ctx, "calls")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestReferenceCache(t *testing.T) {
	c := NewReferenceCache(time.Minute)
	_, ok := c.Get("https://www.uscis.gov/g-1055")
	assert.False(t, ok)

	c.Set("https://www.uscis.gov/g-1055", webref.Reference{Title: "Fee Schedule"})
	ref, ok := c.Get("https://www.uscis.gov/g-1055")
	require.True(t, ok)
	assert.Equal(t, "Fee Schedule", ref.Title)
}

func TestReferenceCacheNeverPermanent(t *testing.T) {
	for _, ttl := range []time.Duration{0, -time.Second} {
		c := NewReferenceCache(ttl)
		c.Set("https://travel.state.gov/bulletin", webref.Reference{Title: "Visa Bulletin"})

		item, ok := c.cache.Items()["https://travel.state.gov/bulletin"]
		require.True(t, ok)
		assert.NotZero(t, item.Expiration, "ttl %s should still expire", ttl)
	}
}
