package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore_SaveGetIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	data := []byte("hello")
	require.NoError(t, s.Save(ctx, Artifact{Key: "a", Data: data}))
	data[0] = 'H'

	out, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(out.Data))

	out.Data[0] = 'x'
	again, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(again.Data))
}

func TestInMemoryStore_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	require.NoError(t, s.Save(ctx, Artifact{Key: "docs/resume.pdf"}))
	require.NoError(t, s.Save(ctx, Artifact{Key: "docs/cover.pdf"}))
	require.NoError(t, s.Save(ctx, Artifact{Key: "img/me.png"}))

	keys, err := s.List(ctx, "docs/")
	require.NoError(t, err)
	assert.Equal(t, []string{"docs/cover.pdf", "docs/resume.pdf"}, keys)

	require.NoError(t, s.Delete(ctx, "docs/cover.pdf"))
	_, err = s.Get(ctx, "docs/cover.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "docs/cover.pdf"), ErrNotFound)
}

func TestInMemoryStore_EmptyKey(t *testing.T) {
	assert.Error(t, NewInMemoryStore().Save(context.Background(), Artifact{}))
}

func TestInMemoryStore_LoadFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "resume.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))

	s := NewInMemoryStore()
	require.NoError(t, s.LoadFile(ctx, "resume.pdf", path))

	a, err := s.Get(ctx, "resume.pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", a.ContentType)
	assert.Equal(t, "%PDF-1.4", string(a.Data))

	assert.Error(t, s.LoadFile(ctx, "missing", filepath.Join(t.TempDir(), "nope.pdf")))
}

func TestInMemoryStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i)
			assert.NoError(t, s.Save(ctx, Artifact{Key: key, Data: []byte{byte(i)}}))
			_, err := s.Get(ctx, key)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	keys, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, keys, 50)
}
