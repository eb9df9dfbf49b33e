package session

import (
	"context"
	"testing"
	"time"

	"storefront/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Load(ctx, "x")
	assert.ErrorIs(t, err, session.ErrNotFound)

	d := session.Data{CustomerID: 1, Cart: []session.CartLine{{ProductID: 2, Quantity: 3}}}
	require.NoError(t, s.Save(ctx, "x", d, time.Hour))

	got, err := s.Load(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, d, got)

	require.NoError(t, s.Delete(ctx, "x"))
	_, err = s.Load(ctx, "x")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestMemoryStore_Expires(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Now()
	s.now = func() time.Time { return base }

	require.NoError(t, s.Save(ctx, "x", session.Data{CustomerID: 1}, time.Minute))

	s.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, err := s.Load(ctx, "x")
	assert.ErrorIs(t, err, session.ErrNotFound)
}
