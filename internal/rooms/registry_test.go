package rooms

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSanitizes(t *testing.T) {
	reg := NewRegistry(0)

	room, err := reg.Open("my room!")
	require.NoError(t, err)
	assert.Equal(t, "myroom", room.ID)
	assert.Empty(t, room.Members)
	assert.Equal(t, DefaultCapacity, reg.Capacity())

	_, err = reg.Open("???")
	assert.ErrorIs(t, err, ErrInvalidRoomID)
}

func TestJoinIsIdempotent(t *testing.T) {
	reg := NewRegistry(5)

	_, err := reg.Join("r1", "alice")
	require.NoError(t, err)
	room, err := reg.Join("r1", " alice ")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, room.Members)
}

func TestJoinRejectsEmptyUsername(t *testing.T) {
	reg := NewRegistry(5)
	_, err := reg.Join("r1", "   ")
	assert.ErrorIs(t, err, ErrEmptyUsername)
}

func TestJoinEnforcesCapacity(t *testing.T) {
	reg := NewRegistry(2)

	_, err := reg.Join("r1", "a")
	require.NoError(t, err)
	_, err = reg.Join("r1", "b")
	require.NoError(t, err)
	_, err = reg.Join("r1", "c")
	assert.ErrorIs(t, err, ErrRoomFull)

	// existing members can still rejoin, other rooms are unaffected
	_, err = reg.Join("r1", "a")
	assert.NoError(t, err)
	_, err = reg.Join("r2", "c")
	assert.NoError(t, err)
}

func TestLeaveFreesSeat(t *testing.T) {
	reg := NewRegistry(1)

	_, err := reg.Join("r1", "a")
	require.NoError(t, err)
	room := reg.Leave("r1", "a")
	assert.Empty(t, room.Members)

	_, err = reg.Join("r1", "b")
	assert.NoError(t, err)
	assert.Equal(t, []string{"b"}, reg.Members("r1"))
}

func TestConcurrentJoinsRespectCapacity(t *testing.T) {
	reg := NewRegistry(10)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = reg.Join("busy", fmt.Sprintf("user%d", i))
		}(i)
	}
	wg.Wait()

	assert.Len(t, reg.Members("busy"), 10)
}
