package artifact

import (
	"fmt"
	"sync"
	"testing"

	"github.com/haikalllp/spinai-fork/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Interface compliance (compile-time assertions)
var _ core.ArtifactStore = (*InMemoryStore)(nil)

func TestInMemoryStore_SaveGetIsolation(t *testing.T) {
	s := NewInMemoryStore(0)
	data := []byte("hello")
	require.NoError(t, s.Save("r1", "report.json", data))

	data[0] = 'H'
	out, err := s.Get("r1", "report.json")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(out))

	out[0] = 'x'
	out2, _ := s.Get("r1", "report.json")
	assert.Equal(t, "hello", string(out2))
}

func TestInMemoryStore_ListAndErrors(t *testing.T) {
	s := NewInMemoryStore(0)
	require.NoError(t, s.Save("r1", "b", []byte("2")))
	require.NoError(t, s.Save("r1", "a", []byte("1")))

	names, err := s.List("r1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	_, err = s.List("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get("r1", "c")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Save("", "a", nil), ErrInvalidKey)
}

func TestInMemoryStore_EvictsOldestRun(t *testing.T) {
	s := NewInMemoryStore(2)
	require.NoError(t, s.Save("r1", "a", nil))
	require.NoError(t, s.Save("r2", "a", nil))
	require.NoError(t, s.Save("r1", "b", nil)) // r1 becomes most recent
	require.NoError(t, s.Save("r3", "a", nil))

	assert.Equal(t, []string{"r3", "r1"}, s.Runs())
	_, err := s.Get("r2", "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryStore_ConcurrentSaves(t *testing.T) {
	s := NewInMemoryStore(1000)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Save(fmt.Sprintf("r%d", i), "report.json", []byte("x"))
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.Runs(), 50)
}
