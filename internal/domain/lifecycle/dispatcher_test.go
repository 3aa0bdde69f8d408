package lifecycle

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func countingHook(name string, n *int) Hook {
	return HookFunc{HookName: name, Fn: func(ctx context.Context, m *Mutation) error {
		*n++
		return nil
	}}
}

func TestDispatcherAttach(t *testing.T) {
	d := NewDispatcher(zap.NewNop())

	t.Run("attaches and dispatches", func(t *testing.T) {
		var calls int
		require.NoError(t, d.Attach(Binding{Entity: "product_image", Phase: BeforeInsert, Hook: countingHook("count", &calls)}))

		err := d.Dispatch(context.Background(), BeforeInsert, &Mutation{Entity: "product_image"})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("rejects duplicate name in same slot", func(t *testing.T) {
		var calls int
		err := d.Attach(Binding{Entity: "product_image", Phase: BeforeInsert, Hook: countingHook("count", &calls)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already attached")
	})

	t.Run("same name allowed on a different phase", func(t *testing.T) {
		var calls int
		assert.NoError(t, d.Attach(Binding{Entity: "product_image", Phase: BeforeUpdate, Hook: countingHook("count", &calls)}))
	})

	t.Run("rejects nil hook", func(t *testing.T) {
		err := d.Attach(Binding{Entity: "product_image", Phase: AfterDelete})
		require.Error(t, err)
	})
}

func TestDispatcherDispatch(t *testing.T) {
	t.Run("runs hooks in attach order", func(t *testing.T) {
		d := NewDispatcher(zap.NewNop())
		var order []string
		for _, name := range []string{"first", "second", "third"} {
			name := name
			require.NoError(t, d.Attach(Binding{Entity: "post", Phase: BeforeUpdate, Hook: HookFunc{
				HookName: name,
				Fn: func(ctx context.Context, m *Mutation) error {
					order = append(order, name)
					return nil
				},
			}}))
		}

		require.NoError(t, d.Dispatch(context.Background(), BeforeUpdate, &Mutation{Entity: "post"}))
		assert.Equal(t, []string{"first", "second", "third"}, order)
	})

	t.Run("first error stops dispatch and propagates", func(t *testing.T) {
		d := NewDispatcher(zap.NewNop())
		boom := errors.New("invariant broken")
		var reached bool

		require.NoError(t, d.Attach(Binding{Entity: "post", Phase: BeforeInsert, Hook: HookFunc{
			HookName: "failing",
			Fn:       func(ctx context.Context, m *Mutation) error { return boom },
		}}))
		require.NoError(t, d.Attach(Binding{Entity: "post", Phase: BeforeInsert, Hook: HookFunc{
			HookName: "after",
			Fn: func(ctx context.Context, m *Mutation) error {
				reached = true
				return nil
			},
		}}))

		err := d.Dispatch(context.Background(), BeforeInsert, &Mutation{Entity: "post"})
		assert.ErrorIs(t, err, boom)
		assert.False(t, reached)
	})

	t.Run("no hooks is a no-op", func(t *testing.T) {
		d := NewDispatcher(zap.NewNop())
		assert.NoError(t, d.Dispatch(context.Background(), AfterDelete, &Mutation{Entity: "nothing"}))
	})

	t.Run("hooks only fire for their entity", func(t *testing.T) {
		d := NewDispatcher(zap.NewNop())
		var calls int
		require.NoError(t, d.Attach(Binding{Entity: "product_image", Phase: BeforeInsert, Hook: countingHook("count", &calls)}))

		require.NoError(t, d.Dispatch(context.Background(), BeforeInsert, &Mutation{Entity: "post_image"}))
		assert.Zero(t, calls)
	})
}

func TestDispatcherDetach(t *testing.T) {
	d := NewDispatcher(zap.NewNop())
	var calls int
	require.NoError(t, d.Attach(Binding{Entity: "category", Phase: AfterDelete, Hook: countingHook("cleanup", &calls)}))

	assert.True(t, d.Attached("category", AfterDelete, "cleanup"))
	assert.True(t, d.Detach("category", AfterDelete, "cleanup"))
	assert.False(t, d.Attached("category", AfterDelete, "cleanup"))
	assert.False(t, d.Detach("category", AfterDelete, "cleanup"))

	require.NoError(t, d.Dispatch(context.Background(), AfterDelete, &Mutation{Entity: "category"}))
	assert.Zero(t, calls)
}

func TestChanges(t *testing.T) {
	c := Changes{
		"content": {Old: "before", New: "after"},
	}

	assert.True(t, c.Changed("content"))
	assert.False(t, c.Changed("title"))

	old, ok := c.Old("content")
	require.True(t, ok)
	assert.Equal(t, "before", old)

	newVal, ok := c.New("content")
	require.True(t, ok)
	assert.Equal(t, "after", newVal)

	_, ok = c.Old("title")
	assert.False(t, ok)
}
