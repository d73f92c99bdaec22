package label

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestQRRenderer_Render(t *testing.T) {
	t.Run("renders a PNG", func(t *testing.T) {
		r := NewQRRenderer()

		png, err := r.Render("ITEM-001-042")
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(png, pngMagic))
	})

	t.Run("rejects empty content", func(t *testing.T) {
		r := NewQRRenderer()

		png, err := r.Render("")
		require.Error(t, err)
		assert.Nil(t, png)
	})

	t.Run("custom size is applied", func(t *testing.T) {
		r := NewQRRenderer(WithSize(512))
		assert.Equal(t, 512, r.Size())

		png, err := r.Render("ITEM-001-001")
		require.NoError(t, err)
		assert.NotEmpty(t, png)
	})

	t.Run("non-positive size falls back to default", func(t *testing.T) {
		r := NewQRRenderer(WithSize(0))
		assert.Equal(t, 256, r.Size())
	})
}
