package storage

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ fiber.Storage = (*RedisStorage)(nil)

func newTestStorage(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s := NewRedisStorage(mr.Addr())
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestSetGetDelete(t *testing.T) {
	s, mr := newTestStorage(t)

	require.NoError(t, s.Set("10.0.0.1", []byte("3"), time.Minute))
	assert.True(t, mr.Exists(keyPrefix+"10.0.0.1"))

	val, err := s.Get("10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, []byte("3"), val)

	require.NoError(t, s.Delete("10.0.0.1"))
	val, err = s.Get("10.0.0.1")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestMissingKeyReturnsNil(t *testing.T) {
	s, _ := newTestStorage(t)

	val, err := s.Get("unknown")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestExpiration(t *testing.T) {
	s, mr := newTestStorage(t)

	require.NoError(t, s.Set("k", []byte("1"), time.Second))
	mr.FastForward(2 * time.Second)

	val, err := s.Get("k")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestResetKeepsForeignKeys(t *testing.T) {
	s, mr := newTestStorage(t)
	require.NoError(t, mr.Set("other:key", "x"))
	require.NoError(t, s.Set("a", []byte("1"), 0))
	require.NoError(t, s.Set("b", []byte("2"), 0))

	require.NoError(t, s.Reset())

	assert.False(t, mr.Exists(keyPrefix+"a"))
	assert.False(t, mr.Exists(keyPrefix+"b"))
	assert.True(t, mr.Exists("other:key"))
}
