package imgproc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"linewatch/internal/domain/entity"
)

func TestFindContours_TwoBlobs(t *testing.T) {
	img := entity.NewImage(20, 10, 1)
	for y := 2; y <= 4; y++ {
		for x := 2; x <= 4; x++ {
			img.Set(x, y, 0, 255)
		}
	}
	img.Set(10, 5, 0, 255)
	img.Set(11, 5, 0, 255)
	img.Set(10, 6, 0, 255)
	img.Set(11, 6, 0, 255)

	contours := FindContours(img)
	require.Len(t, contours, 2)

	first := contours[0]
	require.Equal(t, 9, first.Area)
	require.Equal(t, 2, first.Rect.Min.X)
	require.Equal(t, 3, first.Rect.Dx())

	cx, cy, ok := first.Centroid()
	require.True(t, ok)
	require.Equal(t, 3, cx)
	require.Equal(t, 3, cy)

	require.Equal(t, 4, contours[1].Area)
}

func TestFindContours_EightConnectivity(t *testing.T) {
	img := entity.NewImage(5, 5, 1)
	img.Set(1, 1, 0, 255)
	img.Set(2, 2, 0, 255)

	contours := FindContours(img)
	require.Len(t, contours, 1)
	require.Equal(t, 2, contours[0].Area)
}

func TestFindContours_Empty(t *testing.T) {
	img := entity.NewImage(10, 10, 1)
	require.Empty(t, FindContours(img))
}

func TestContour_FilledAndBoundary(t *testing.T) {
	img := entity.NewImage(10, 10, 1)
	for y := 3; y <= 6; y++ {
		for x := 3; x <= 6; x++ {
			img.Set(x, y, 0, 255)
		}
	}

	contours := FindContours(img)
	require.Len(t, contours, 1)
	c := contours[0]

	require.True(t, c.Filled(4, 4))
	require.False(t, c.Filled(0, 0))
	require.False(t, c.Filled(7, 7))

	// У блока 4x4 внутренних пикселей 4, граничных 12.
	require.Len(t, c.Boundary, 12)
}
