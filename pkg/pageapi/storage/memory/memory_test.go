package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binweave/pageapi/pkg/pageapi/storage"
)

func TestCreateReadRoundTrip(t *testing.T) {
	b := New()
	ctx := context.Background()

	require.NoError(t, b.EnsureFolder(ctx, "blog"))
	require.NoError(t, b.CreateExclusive(ctx, "blog", "a.md", []byte("hello")))

	data, err := b.Read(ctx, "blog", "a.md")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestCreateExclusive_Conflict(t *testing.T) {
	b := New()
	ctx := context.Background()

	require.NoError(t, b.EnsureFolder(ctx, "blog"))
	require.NoError(t, b.CreateExclusive(ctx, "blog", "a.md", []byte("one")))

	err := b.CreateExclusive(ctx, "blog", "a.md", []byte("two"))
	assert.ErrorIs(t, err, storage.ErrKeyExists)
}

func TestCreateExclusive_MissingFolder(t *testing.T) {
	b := New()
	err := b.CreateExclusive(context.Background(), "blog", "a.md", []byte("x"))
	assert.ErrorIs(t, err, storage.ErrFolderNotFound)
}

func TestCreateExclusive_Concurrent(t *testing.T) {
	b := New()
	ctx := context.Background()
	require.NoError(t, b.EnsureFolder(ctx, "blog"))

	const writers = 16
	errs := make([]error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = b.CreateExclusive(ctx, "blog", "race.md", []byte{byte(i)})
		}(i)
	}
	wg.Wait()

	var wins int
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.True(t, errors.Is(err, storage.ErrKeyExists))
		}
	}
	assert.Equal(t, 1, wins)
}

func TestEnsureFolder_RegistersAncestors(t *testing.T) {
	b := New()
	ctx := context.Background()

	require.NoError(t, b.EnsureFolder(ctx, "a/b/c"))
	for _, folder := range []string{"a", "a/b", "a/b/c"} {
		ok, err := b.FolderExists(ctx, folder)
		require.NoError(t, err)
		assert.True(t, ok, folder)
	}
}

func TestRead_CopiesData(t *testing.T) {
	b := New()
	ctx := context.Background()

	require.NoError(t, b.EnsureFolder(ctx, "blog"))
	require.NoError(t, b.CreateExclusive(ctx, "blog", "a.md", []byte("abc")))

	data, err := b.Read(ctx, "blog", "a.md")
	require.NoError(t, err)
	data[0] = 'X'

	again, err := b.Read(ctx, "blog", "a.md")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}
