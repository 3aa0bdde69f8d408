package blog

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/solarmd/backend/internal/domain/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePostImageStore struct {
	demoted  []uuid.UUID // post IDs passed to DemoteSiblings
	excluded []uuid.UUID
	latest   *PostImage
	promoted []uuid.UUID
	err      error
}

func (f *fakePostImageStore) DemoteSiblings(ctx context.Context, postID, excludeID uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.demoted = append(f.demoted, postID)
	f.excluded = append(f.excluded, excludeID)
	return nil
}

func (f *fakePostImageStore) LatestSibling(ctx context.Context, postID, excludeID uuid.UUID) (*PostImage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.latest, nil
}

func (f *fakePostImageStore) Promote(ctx context.Context, imageID uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.promoted = append(f.promoted, imageID)
	return nil
}

type fakeFileStore struct {
	existing map[string]bool
	err      error
}

func (f *fakeFileStore) Exists(ctx context.Context, path string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.existing[path], nil
}

func (f *fakeFileStore) Save(ctx context.Context, path string, r io.Reader) error { return nil }

func (f *fakeFileStore) Delete(ctx context.Context, path string) error { return nil }

type fakeJanitor struct {
	removed []string
}

func (f *fakeJanitor) Remove(path string) {
	f.removed = append(f.removed, path)
}

func TestPostImagePrimaryHook(t *testing.T) {
	postID := uuid.New()

	t.Run("demotes siblings when target is primary", func(t *testing.T) {
		store := &fakePostImageStore{}
		hook := NewPostImagePrimaryHook(store, zap.NewNop())

		img, err := NewPostImage(postID, "p.jpg", "p.jpg", 100)
		require.NoError(t, err)
		img.MarkPrimary()

		err = hook.Handle(context.Background(), &lifecycle.Mutation{Entity: EntityPostImage, Target: img})
		require.NoError(t, err)
		require.Len(t, store.demoted, 1)
		assert.Equal(t, postID, store.demoted[0])
		assert.Equal(t, img.ID, store.excluded[0])
	})

	t.Run("does nothing for non-primary target", func(t *testing.T) {
		store := &fakePostImageStore{}
		hook := NewPostImagePrimaryHook(store, zap.NewNop())

		img, err := NewPostImage(postID, "p.jpg", "p.jpg", 100)
		require.NoError(t, err)

		require.NoError(t, hook.Handle(context.Background(), &lifecycle.Mutation{Entity: EntityPostImage, Target: img}))
		assert.Empty(t, store.demoted)
	})

	t.Run("propagates store errors to abort the write", func(t *testing.T) {
		boom := errors.New("db down")
		hook := NewPostImagePrimaryHook(&fakePostImageStore{err: boom}, zap.NewNop())

		img, err := NewPostImage(postID, "p.jpg", "p.jpg", 100)
		require.NoError(t, err)
		img.MarkPrimary()

		assert.ErrorIs(t, hook.Handle(context.Background(), &lifecycle.Mutation{Entity: EntityPostImage, Target: img}), boom)
	})
}

func TestPostImageDefaultHook(t *testing.T) {
	postID := uuid.New()

	t.Run("assigns default for empty path", func(t *testing.T) {
		hook := NewPostImageDefaultHook(&fakeFileStore{}, zap.NewNop())
		img, err := NewPostImage(postID, "", "p.jpg", 100)
		require.NoError(t, err)

		require.NoError(t, hook.Handle(context.Background(), &lifecycle.Mutation{Entity: EntityPostImage, Target: img}))
		assert.Equal(t, DefaultPostImagePath, img.ImagePath)
	})

	t.Run("assigns default for missing file", func(t *testing.T) {
		hook := NewPostImageDefaultHook(&fakeFileStore{existing: map[string]bool{}}, zap.NewNop())
		img, err := NewPostImage(postID, "static/shop/post/gone.jpg", "gone.jpg", 100)
		require.NoError(t, err)

		require.NoError(t, hook.Handle(context.Background(), &lifecycle.Mutation{Entity: EntityPostImage, Target: img}))
		assert.Equal(t, DefaultPostImagePath, img.ImagePath)
	})

	t.Run("keeps existing file path", func(t *testing.T) {
		files := &fakeFileStore{existing: map[string]bool{"static/shop/post/ok.jpg": true}}
		hook := NewPostImageDefaultHook(files, zap.NewNop())
		img, err := NewPostImage(postID, "static/shop/post/ok.jpg", "ok.jpg", 100)
		require.NoError(t, err)

		require.NoError(t, hook.Handle(context.Background(), &lifecycle.Mutation{Entity: EntityPostImage, Target: img}))
		assert.Equal(t, "static/shop/post/ok.jpg", img.ImagePath)
	})

	t.Run("keeps declared path when the check itself fails", func(t *testing.T) {
		hook := NewPostImageDefaultHook(&fakeFileStore{err: errors.New("fs offline")}, zap.NewNop())
		img, err := NewPostImage(postID, "static/shop/post/mystery.jpg", "mystery.jpg", 100)
		require.NoError(t, err)

		require.NoError(t, hook.Handle(context.Background(), &lifecycle.Mutation{Entity: EntityPostImage, Target: img}))
		assert.Equal(t, "static/shop/post/mystery.jpg", img.ImagePath)
	})
}

func TestPostImageCleanupHook(t *testing.T) {
	postID := uuid.New()

	t.Run("removes file and promotes latest sibling", func(t *testing.T) {
		replacement, err := NewPostImage(postID, "b.jpg", "b.jpg", 100)
		require.NoError(t, err)
		store := &fakePostImageStore{latest: replacement}
		janitor := &fakeJanitor{}
		hook := NewPostImageCleanupHook(store, janitor, zap.NewNop())

		img, err := NewPostImage(postID, "a.jpg", "a.jpg", 100)
		require.NoError(t, err)
		img.MarkPrimary()

		require.NoError(t, hook.Handle(context.Background(), &lifecycle.Mutation{Entity: EntityPostImage, Target: img}))
		assert.Equal(t, []string{"a.jpg"}, janitor.removed)
		require.Len(t, store.promoted, 1)
		assert.Equal(t, replacement.ID, store.promoted[0])
	})

	t.Run("never removes the default image file", func(t *testing.T) {
		janitor := &fakeJanitor{}
		hook := NewPostImageCleanupHook(&fakePostImageStore{}, janitor, zap.NewNop())

		img, err := NewPostImage(postID, DefaultPostImagePath, "post_default.png", 100)
		require.NoError(t, err)

		require.NoError(t, hook.Handle(context.Background(), &lifecycle.Mutation{Entity: EntityPostImage, Target: img}))
		assert.Empty(t, janitor.removed)
	})

	t.Run("no promotion when no siblings remain", func(t *testing.T) {
		store := &fakePostImageStore{}
		hook := NewPostImageCleanupHook(store, &fakeJanitor{}, zap.NewNop())

		img, err := NewPostImage(postID, "a.jpg", "a.jpg", 100)
		require.NoError(t, err)
		img.MarkPrimary()

		require.NoError(t, hook.Handle(context.Background(), &lifecycle.Mutation{Entity: EntityPostImage, Target: img}))
		assert.Empty(t, store.promoted)
	})

	t.Run("no promotion for non-primary delete", func(t *testing.T) {
		replacement, err := NewPostImage(postID, "b.jpg", "b.jpg", 100)
		require.NoError(t, err)
		store := &fakePostImageStore{latest: replacement}
		hook := NewPostImageCleanupHook(store, &fakeJanitor{}, zap.NewNop())

		img, err := NewPostImage(postID, "a.jpg", "a.jpg", 100)
		require.NoError(t, err)

		require.NoError(t, hook.Handle(context.Background(), &lifecycle.Mutation{Entity: EntityPostImage, Target: img}))
		assert.Empty(t, store.promoted)
	})
}
