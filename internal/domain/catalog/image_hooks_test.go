package catalog

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

type fakeSiblingStore struct {
	demoted  []uuid.UUID // product IDs passed to DemoteSiblings
	excluded []uuid.UUID
	latest   *ProductImage
	promoted []uuid.UUID
	err      error
}

func (f *fakeSiblingStore) DemoteSiblings(ctx context.Context, productID, excludeID uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.demoted = append(f.demoted, productID)
	f.excluded = append(f.excluded, excludeID)
	return nil
}

func (f *fakeSiblingStore) LatestSibling(ctx context.Context, productID, excludeID uuid.UUID) (*ProductImage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.latest, nil
}

func (f *fakeSiblingStore) Promote(ctx context.Context, imageID uuid.UUID) error {
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

func TestProductImagePrimaryHook(t *testing.T) {
	productID := uuid.New()

	t.Run("demotes siblings when target is primary", func(t *testing.T) {
		store := &fakeSiblingStore{}
		hook := NewProductImagePrimaryHook(store, zap.NewNop())

		img, err := NewProductImage(productID, "p.jpg", "p.jpg", 100)
		require.NoError(t, err)
		img.MarkPrimary()

		err = hook.Handle(context.Background(), &lifecycle.Mutation{Entity: EntityProductImage, Target: img})
		require.NoError(t, err)
		require.Len(t, store.demoted, 1)
		assert.Equal(t, productID, store.demoted[0])
		assert.Equal(t, img.ID, store.excluded[0])
	})

	t.Run("does nothing for non-primary target", func(t *testing.T) {
		store := &fakeSiblingStore{}
		hook := NewProductImagePrimaryHook(store, zap.NewNop())

		img, err := NewProductImage(productID, "p.jpg", "p.jpg", 100)
		require.NoError(t, err)

		require.NoError(t, hook.Handle(context.Background(), &lifecycle.Mutation{Entity: EntityProductImage, Target: img}))
		assert.Empty(t, store.demoted)
	})

	t.Run("propagates store errors to abort the write", func(t *testing.T) {
		boom := errors.New("db down")
		hook := NewProductImagePrimaryHook(&fakeSiblingStore{err: boom}, zap.NewNop())

		img, err := NewProductImage(productID, "p.jpg", "p.jpg", 100)
		require.NoError(t, err)
		img.MarkPrimary()

		assert.ErrorIs(t, hook.Handle(context.Background(), &lifecycle.Mutation{Entity: EntityProductImage, Target: img}), boom)
	})

	t.Run("rejects foreign target type", func(t *testing.T) {
		hook := NewProductImagePrimaryHook(&fakeSiblingStore{}, zap.NewNop())
		err := hook.Handle(context.Background(), &lifecycle.Mutation{Entity: EntityProductImage, Target: &Category{}})
		require.Error(t, err)
	})
}

func TestProductImageDefaultHook(t *testing.T) {
	productID := uuid.New()

	t.Run("empty path gets the default", func(t *testing.T) {
		hook := NewProductImageDefaultHook(&fakeFileStore{}, zap.NewNop())
		img, err := NewProductImage(productID, "", "p.jpg", 100)
		require.NoError(t, err)

		require.NoError(t, hook.Handle(context.Background(), &lifecycle.Mutation{Entity: EntityProductImage, Target: img}))
		assert.Equal(t, DefaultProductImagePath, img.ImagePath)
	})

	t.Run("missing file gets the default", func(t *testing.T) {
		hook := NewProductImageDefaultHook(&fakeFileStore{existing: map[string]bool{}}, zap.NewNop())
		img, err := NewProductImage(productID, "static/shop/product/gone.jpg", "gone.jpg", 100)
		require.NoError(t, err)

		require.NoError(t, hook.Handle(context.Background(), &lifecycle.Mutation{Entity: EntityProductImage, Target: img}))
		assert.Equal(t, DefaultProductImagePath, img.ImagePath)
	})

	t.Run("existing file is kept", func(t *testing.T) {
		files := &fakeFileStore{existing: map[string]bool{"static/shop/product/ok.jpg": true}}
		hook := NewProductImageDefaultHook(files, zap.NewNop())
		img, err := NewProductImage(productID, "static/shop/product/ok.jpg", "ok.jpg", 100)
		require.NoError(t, err)

		require.NoError(t, hook.Handle(context.Background(), &lifecycle.Mutation{Entity: EntityProductImage, Target: img}))
		assert.Equal(t, "static/shop/product/ok.jpg", img.ImagePath)
	})

	t.Run("store error is swallowed and path kept", func(t *testing.T) {
		hook := NewProductImageDefaultHook(&fakeFileStore{err: errors.New("s3 down")}, zap.NewNop())
		img, err := NewProductImage(productID, "static/shop/product/x.jpg", "x.jpg", 100)
		require.NoError(t, err)

		require.NoError(t, hook.Handle(context.Background(), &lifecycle.Mutation{Entity: EntityProductImage, Target: img}))
		assert.Equal(t, "static/shop/product/x.jpg", img.ImagePath)
	})
}

func TestProductImageCleanupHook(t *testing.T) {
	productID := uuid.New()

	t.Run("queues file removal and promotes latest sibling", func(t *testing.T) {
		next, err := NewProductImage(productID, "next.jpg", "next.jpg", 50)
		require.NoError(t, err)

		store := &fakeSiblingStore{latest: next}
		janitor := &fakeJanitor{}
		hook := NewProductImageCleanupHook(store, janitor, zap.NewNop())

		deleted, err := NewProductImage(productID, "old.jpg", "old.jpg", 50)
		require.NoError(t, err)
		deleted.MarkPrimary()

		require.NoError(t, hook.Handle(context.Background(), &lifecycle.Mutation{Entity: EntityProductImage, Target: deleted}))
		assert.Equal(t, []string{"old.jpg"}, janitor.removed)
		require.Len(t, store.promoted, 1)
		assert.Equal(t, next.ID, store.promoted[0])
	})

	t.Run("default image file is never removed", func(t *testing.T) {
		janitor := &fakeJanitor{}
		hook := NewProductImageCleanupHook(&fakeSiblingStore{}, janitor, zap.NewNop())

		deleted, err := NewProductImage(productID, DefaultProductImagePath, "prod_default.png", 50)
		require.NoError(t, err)

		require.NoError(t, hook.Handle(context.Background(), &lifecycle.Mutation{Entity: EntityProductImage, Target: deleted}))
		assert.Empty(t, janitor.removed)
	})

	t.Run("no promotion when deleted image was not primary", func(t *testing.T) {
		store := &fakeSiblingStore{}
		hook := NewProductImageCleanupHook(store, &fakeJanitor{}, zap.NewNop())

		deleted, err := NewProductImage(productID, "x.jpg", "x.jpg", 50)
		require.NoError(t, err)

		require.NoError(t, hook.Handle(context.Background(), &lifecycle.Mutation{Entity: EntityProductImage, Target: deleted}))
		assert.Empty(t, store.promoted)
	})

	t.Run("no promotion when no siblings remain", func(t *testing.T) {
		store := &fakeSiblingStore{latest: nil}
		hook := NewProductImageCleanupHook(store, &fakeJanitor{}, zap.NewNop())

		deleted, err := NewProductImage(productID, "x.jpg", "x.jpg", 50)
		require.NoError(t, err)
		deleted.MarkPrimary()

		require.NoError(t, hook.Handle(context.Background(), &lifecycle.Mutation{Entity: EntityProductImage, Target: deleted}))
		assert.Empty(t, store.promoted)
	})
}
