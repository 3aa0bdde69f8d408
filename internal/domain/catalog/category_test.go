package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategory(t *testing.T) {
	t.Run("creates category with normalized name and slug", func(t *testing.T) {
		category, err := NewCategory("  solar panels ", "Panels and kits")
		require.NoError(t, err)
		require.NotNil(t, category)

		assert.Equal(t, "Solar Panels", category.Name)
		assert.Equal(t, "solar-panels", category.Slug)
		assert.Equal(t, "Panels and kits", category.Description)
		assert.True(t, category.IsActive)
		assert.False(t, category.IsUnknown)
		assert.NotEmpty(t, category.ID)
	})

	t.Run("transliterates non-ASCII names into the slug", func(t *testing.T) {
		category, err := NewCategory("Acumulatoare Și Baterii", "")
		require.NoError(t, err)
		assert.Equal(t, "acumulatoare-si-baterii", category.Slug)
	})

	t.Run("publishes CategoryCreated event", func(t *testing.T) {
		category, err := NewCategory("Inverters", "")
		require.NoError(t, err)

		events := category.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeCategoryCreated, events[0].EventType())
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewCategory("", "desc")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be empty")
	})

	t.Run("fails with whitespace-only name", func(t *testing.T) {
		_, err := NewCategory("   ", "desc")
		require.Error(t, err)
	})
}

func TestCategoryRename(t *testing.T) {
	category, err := NewCategory("Solar Panels", "")
	require.NoError(t, err)
	category.ClearDomainEvents()

	t.Run("re-normalizes and re-derives slug", func(t *testing.T) {
		require.NoError(t, category.Rename("  mounting SYSTEMS "))
		assert.Equal(t, "Mounting Systems", category.Name)
		assert.Equal(t, "mounting-systems", category.Slug)
		require.Len(t, category.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeCategoryUpdated, category.GetDomainEvents()[0].EventType())
	})

	t.Run("rejects empty name and keeps old value", func(t *testing.T) {
		require.Error(t, category.Rename(" "))
		assert.Equal(t, "Mounting Systems", category.Name)
	})
}

func TestNormalizeCategoryName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"solar panels", "Solar Panels"},
		{"  SOLAR PANELS  ", "Solar Panels"},
		{"Solar Panels", "Solar Panels"},
		{"cabluri și conectori", "Cabluri Și Conectori"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeCategoryName(tt.in), tt.in)
	}
}

func TestCategoryActivation(t *testing.T) {
	category, err := NewCategory("Batteries", "")
	require.NoError(t, err)

	category.Deactivate()
	assert.False(t, category.IsActive)
	category.Activate()
	assert.True(t, category.IsActive)
}
