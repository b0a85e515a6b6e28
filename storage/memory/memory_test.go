package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageSetGetRemove(t *testing.T) {
	ctx := context.Background()
	s := New(map[string]string{"seed": "v0"})

	v, ok, err := s.Get(ctx, "seed")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v0", v)

	require.NoError(t, s.Set(ctx, "token", "abc"))
	v, ok, err = s.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	require.NoError(t, s.Remove(ctx, "token"))
	require.NoError(t, s.Remove(ctx, "token"))
	_, ok, err = s.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())
}
