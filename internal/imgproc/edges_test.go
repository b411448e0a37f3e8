package imgproc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"linewatch/internal/domain/entity"
)

func TestCanny_VerticalStepEdge(t *testing.T) {
	img := entity.NewImage(20, 20, 1)
	for y := 0; y < 20; y++ {
		for x := 10; x < 20; x++ {
			img.Set(x, y, 0, 255)
		}
	}

	out := Canny(img, 50, 150)
	require.True(t, out.IsGray())

	edgeHits := 0
	for y := 2; y < 18; y++ {
		for x := 8; x <= 11; x++ {
			if out.At(x, y, 0) != 0 {
				edgeHits++
			}
		}
	}
	require.Greater(t, edgeHits, 10)

	for y := 2; y < 18; y++ {
		require.Equal(t, byte(0), out.At(3, y, 0))
		require.Equal(t, byte(0), out.At(16, y, 0))
	}
}

func TestCanny_FlatImageNoEdges(t *testing.T) {
	img := entity.NewFilledImage(15, 15, 1, 80)
	out := Canny(img, 50, 150)
	for _, v := range out.Pix {
		require.Equal(t, byte(0), v)
	}
}

func TestHoughLines_DetectsHorizontalLine(t *testing.T) {
	img := entity.NewImage(50, 30, 1)
	for x := 5; x < 45; x++ {
		img.Set(x, 10, 0, 255)
	}

	lines := HoughLines(img, 1, 0.017453292519943295, 30, 20, 5)
	require.NotEmpty(t, lines)

	found := false
	for _, l := range lines {
		if absInt(l.Y1-10) <= 1 && absInt(l.Y2-10) <= 1 && l.Length() >= 20 {
			found = true
		}
	}
	require.True(t, found)
}

func TestHoughLines_EmptyImage(t *testing.T) {
	img := entity.NewImage(30, 30, 1)
	require.Empty(t, HoughLines(img, 1, 0.017453292519943295, 30, 20, 5))
}
