package emoji

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllReturnsCopy(t *testing.T) {
	list := All()
	require.Len(t, list, 19)
	list[0] = "x"
	assert.Equal(t, "😀", All()[0])
}

func TestAt(t *testing.T) {
	e, ok := At(5)
	assert.True(t, ok)
	assert.Equal(t, "👍", e)

	_, ok = At(-1)
	assert.False(t, ok)
	_, ok = At(19)
	assert.False(t, ok)
}

func TestRandomIsFromList(t *testing.T) {
	for i := 0; i < 50; i++ {
		assert.True(t, Contains(Random()))
	}
	assert.False(t, Contains("a"))
}
