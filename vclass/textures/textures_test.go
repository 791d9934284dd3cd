package textures

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classroom/internal/mathutil"
)

func TestGenerateIsDeterministic(t *testing.T) {
	a, err := Generate(context.Background(), 7)
	require.NoError(t, err)
	b, err := Generate(context.Background(), 7)
	require.NoError(t, err)

	for name, pair := range map[string][2]*image.RGBA{
		"wood":       {a.Wood, b.Wood},
		"floor":      {a.Floor, b.Floor},
		"wall":       {a.Wall, b.Wall},
		"blackboard": {a.Blackboard, b.Blackboard},
	} {
		require.NotNil(t, pair[0], name)
		assert.True(t, bytes.Equal(pair[0].Pix, pair[1].Pix), "%s differs between runs", name)
	}
	assert.Equal(t, image.Rect(0, 0, 1024, 512), a.Blackboard.Bounds())
	assert.Equal(t, image.Rect(0, 0, 512, 512), a.Wood.Bounds())
}

func TestGenerateHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Generate(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWoodGradient(t *testing.T) {
	img := Wood(mathutil.NewRand(1, 1), 101, 8)
	// Grain lines may cross any row, so compare the column tint instead of
	// exact pixels: the middle carries more blue than the edges.
	var edge, mid int
	for y := 0; y < 8; y++ {
		edge += int(img.RGBAAt(0, y).B)
		mid += int(img.RGBAAt(50, y).B)
	}
	assert.Greater(t, mid, edge)
}

func TestFloorGrid(t *testing.T) {
	img := Floor(mathutil.NewRand(1, 2), 512, 512)
	line := color.RGBA{0x99, 0x99, 0x99, 0xff}
	// Specks land anywhere, so require most of each grid line to be intact.
	var col, row int
	for i := 0; i < 512; i++ {
		if img.RGBAAt(128, i) == line {
			col++
		}
		if img.RGBAAt(i, 256) == line {
			row++
		}
	}
	assert.Greater(t, col, 480)
	assert.Greater(t, row, 480)
}

func TestBlackboardStaysDarkGreen(t *testing.T) {
	img := Blackboard(mathutil.NewRand(1, 4), 64, 32)
	c := img.RGBAAt(32, 16)
	assert.InDelta(t, 0x2c, int(c.R), 12)
	assert.InDelta(t, 0x5f, int(c.G), 12)
	assert.InDelta(t, 0x2d, int(c.B), 12)
}

func TestLettering(t *testing.T) {
	img := Lettering("BST", 64, color.RGBA{0xff, 0xd7, 0x00, 0xff}, 4)
	b := img.Bounds()
	assert.Greater(t, b.Dx(), b.Dy())
	assert.Greater(t, Aspect(img), float32(1))

	var ink int
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 0 {
			ink++
		}
	}
	assert.Greater(t, ink, 100)
	assert.Equal(t, uint8(0), img.RGBAAt(0, 0).A)

	assert.Equal(t, image.Rect(0, 0, 1, 1), Lettering("", 64, color.White, 0).Bounds())
}
