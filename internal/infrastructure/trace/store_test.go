package trace

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestStore_ResizesWideImages(t *testing.T) {
	store := NewStore(t.TempDir())

	require.NoError(t, store.Capture(context.Background(), "run1", 7, pngOf(t, 2048, 100)))

	f, err := os.Open(store.Path("run1", 7))
	require.NoError(t, err)
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 1024, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestStore_KeepsNarrowImages(t *testing.T) {
	store := NewStore(t.TempDir())

	require.NoError(t, store.Capture(context.Background(), "run1", 1, pngOf(t, 640, 480)))

	data, err := os.ReadFile(store.Path("run1", 1))
	require.NoError(t, err)
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.Width)
}

func TestStore_Path(t *testing.T) {
	store := NewStore("out/trace")
	assert.Equal(t, filepath.Join("out", "trace", "abc", "step_012.jpg"), store.Path("abc", 12))
}

func TestStore_RejectsGarbage(t *testing.T) {
	store := NewStore(t.TempDir())
	assert.Error(t, store.Capture(context.Background(), "run1", 1, []byte("image")))
}
