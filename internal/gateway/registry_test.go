package gateway

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeSession struct {
	closed atomic.Int32
}

func (f *fakeSession) Close() { f.closed.Add(1) }

func TestRegistry(t *testing.T) {
	t.Run("RegisterAndUnregister", func(t *testing.T) {
		r := NewRegistry()
		s := &fakeSession{}

		r.Register("w1", s)
		assert.True(t, r.Connected("w1"))
		assert.Equal(t, 1, r.Len())

		r.Unregister("w1", s)
		assert.False(t, r.Connected("w1"))
		assert.Zero(t, s.closed.Load())
	})

	t.Run("ReRegisterClosesPrevious", func(t *testing.T) {
		r := NewRegistry()
		first := &fakeSession{}
		second := &fakeSession{}

		r.Register("w1", first)
		r.Register("w1", second)

		assert.Equal(t, int32(1), first.closed.Load())
		assert.Zero(t, second.closed.Load())

		// The stale session's late unregister must not evict the new one.
		r.Unregister("w1", first)
		assert.True(t, r.Connected("w1"))
	})

	t.Run("Disconnect", func(t *testing.T) {
		r := NewRegistry()
		s := &fakeSession{}
		r.Register("w1", s)

		assert.True(t, r.Disconnect("w1"))
		assert.Equal(t, int32(1), s.closed.Load())
		assert.False(t, r.Disconnect("w1"))
	})

	t.Run("CloseAll", func(t *testing.T) {
		r := NewRegistry()
		a, b := &fakeSession{}, &fakeSession{}
		r.Register("a", a)
		r.Register("b", b)

		r.CloseAll()

		assert.Equal(t, int32(1), a.closed.Load())
		assert.Equal(t, int32(1), b.closed.Load())
		assert.Zero(t, r.Len())
	})
}
