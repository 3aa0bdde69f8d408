package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalStore_SaveExistsDelete(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	path := "static/shop/product/panel.jpg"

	exists, err := store.Exists(ctx, path)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.Save(ctx, path, strings.NewReader("jpeg bytes")))

	exists, err = store.Exists(ctx, path)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.Delete(ctx, path))

	exists, err = store.Exists(ctx, path)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStore_DeleteMissingFileIsNotAnError(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Delete(context.Background(), "static/shop/product/gone.jpg"))
}

func TestLocalStore_RejectsPathEscapes(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Exists(ctx, "../outside.jpg")
	assert.Error(t, err)

	err = store.Save(ctx, "/etc/passwd", strings.NewReader("nope"))
	assert.Error(t, err)
}

func TestLocalStore_SaveReplacesExistingFile(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	path := "static/shop/category/cat.png"
	require.NoError(t, store.Save(ctx, path, strings.NewReader("first")))
	require.NoError(t, store.Save(ctx, path, strings.NewReader("second")))

	exists, err := store.Exists(ctx, path)
	require.NoError(t, err)
	assert.True(t, exists)
}

// trackingStore records deletes and can be told to fail
type trackingStore struct {
	mu      sync.Mutex
	deleted []string
	fail    bool
}

func (s *trackingStore) Exists(context.Context, string) (bool, error) { return true, nil }

func (s *trackingStore) Save(context.Context, string, io.Reader) error {
	return nil
}

func (s *trackingStore) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("disk on fire")
	}
	s.deleted = append(s.deleted, path)
	return nil
}

func (s *trackingStore) deletedPaths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deleted...)
}

func TestJanitor_RemovesQueuedFiles(t *testing.T) {
	store := &trackingStore{}
	janitor := NewJanitor(store, zap.NewNop())

	janitor.Remove("static/shop/product/a.jpg")
	janitor.Remove("static/shop/product/b.jpg")
	janitor.Close()

	assert.ElementsMatch(t,
		[]string{"static/shop/product/a.jpg", "static/shop/product/b.jpg"},
		store.deletedPaths(),
	)
}

func TestJanitor_FailedRemovalDoesNotStopTheWorker(t *testing.T) {
	store := &trackingStore{fail: true}
	janitor := NewJanitor(store, zap.NewNop())

	janitor.Remove("static/shop/product/a.jpg")

	store.mu.Lock()
	store.fail = false
	store.mu.Unlock()

	janitor.Remove("static/shop/product/b.jpg")
	janitor.Close()

	assert.Equal(t, []string{"static/shop/product/b.jpg"}, store.deletedPaths())
}

func TestJanitor_RemoveAfterCloseIsDropped(t *testing.T) {
	store := &trackingStore{}
	janitor := NewJanitor(store, zap.NewNop())
	janitor.Close()

	require.NotPanics(t, func() {
		janitor.Remove("static/shop/product/late.jpg")
	})

	time.Sleep(10 * time.Millisecond)
	assert.Empty(t, store.deletedPaths())
}
