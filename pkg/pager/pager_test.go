package pager

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdvanceThroughView(t *testing.T) {
	p := New(20)
	p.Reset(25)
	assert.Equal(t, 20, p.Cursor())
	assert.True(t, p.CanLoadMore(25))

	from, to := p.Advance(25)
	assert.Equal(t, 20, from)
	assert.Equal(t, 25, to)
	assert.Equal(t, 25, p.Cursor())
	assert.False(t, p.CanLoadMore(25))

	from, to = p.Advance(25)
	assert.Equal(t, from, to, "further advance is a no-op")
	assert.Equal(t, 25, p.Cursor())
}

func TestResetClampsToView(t *testing.T) {
	p := New(20)
	p.Reset(7)
	assert.Equal(t, 7, p.Cursor())
	assert.False(t, p.CanLoadMore(7))

	p.Reset(0)
	assert.Equal(t, 0, p.Cursor())

	p.Reset(100)
	assert.Equal(t, 20, p.Cursor())
}

func TestAdvanceNeverExceedsView(t *testing.T) {
	p := New(3)
	p.Reset(10)
	for i := 0; i < 10; i++ {
		_, to := p.Advance(10)
		assert.LessOrEqual(t, to, 10)
	}
	assert.Equal(t, 10, p.Cursor())

	// View shrank without a reset
	from, to := p.Advance(4)
	assert.Equal(t, 4, from)
	assert.Equal(t, 4, to)
}

func TestNewDefaultsPageSize(t *testing.T) {
	assert.Equal(t, DefaultPageSize, New(0).PageSize())
}
