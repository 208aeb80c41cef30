package levelstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemLevelStore(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	s := NewMemLevelStore()

	lvl, err := s.Get(ctx, "community-1")
	assert.NoError(err)
	assert.Equal("", lvl)

	assert.NoError(s.Set(ctx, "community-1", "high"))
	lvl, err = s.Get(ctx, "community-1")
	assert.NoError(err)
	assert.Equal("high", lvl)

	// communities are independent
	lvl, err = s.Get(ctx, "community-2")
	assert.NoError(err)
	assert.Equal("", lvl)
}
