package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedQuote struct {
	Name   string   `json:"name"`
	Amount float64  `json:"amount"`
	Rate   *float64 `json:"rate,omitempty"`
}

func TestTypedValues(t *testing.T) {
	c := NewMemoryCache(10, 0)
	ctx := context.Background()

	rate := 0.05
	in := cachedQuote{Name: "sdlt", Amount: 11500, Rate: &rate}
	require.NoError(t, SetValue(ctx, c, "q", in, time.Minute))

	out, ok, err := GetValue[cachedQuote](ctx, c, "q")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, in, out)

	_, ok, err = GetValue[cachedQuote](ctx, c, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTypedValues_CorruptEntryMisses(t *testing.T) {
	c := NewMemoryCache(10, 0)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "bad", []byte{0xc1}, 0))

	_, ok, err := GetValue[cachedQuote](ctx, c, "bad")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTypedValues_NilCache(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, SetValue(ctx, nil, "k", cachedQuote{}, 0))
	_, ok, err := GetValue[cachedQuote](ctx, nil, "k")
	assert.NoError(t, err)
	assert.False(t, ok)
}
