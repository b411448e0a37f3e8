package imgproc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"linewatch/internal/domain/entity"
)

func TestThreshold_Binary(t *testing.T) {
	img := entity.NewImage(2, 1, 1)
	img.Pix[0] = 50
	img.Pix[1] = 150

	out := Threshold(img, 100, 255, ThresholdBinary)
	require.Equal(t, byte(0), out.Pix[0])
	require.Equal(t, byte(255), out.Pix[1])

	inv := Threshold(img, 100, 255, ThresholdBinaryInv)
	require.Equal(t, byte(255), inv.Pix[0])
	require.Equal(t, byte(0), inv.Pix[1])
}

func TestThreshold_OtsuBimodal(t *testing.T) {
	img := entity.NewImage(10, 10, 1)
	for i := range img.Pix {
		if i < 50 {
			img.Pix[i] = 50
		} else {
			img.Pix[i] = 200
		}
	}

	out := Threshold(img, 0, 255, ThresholdOtsu)
	for i := range out.Pix {
		if i < 50 {
			require.Equal(t, byte(0), out.Pix[i])
		} else {
			require.Equal(t, byte(255), out.Pix[i])
		}
	}
}

func TestAdaptiveThreshold_InverseMarksDarkSpot(t *testing.T) {
	img := entity.NewFilledImage(21, 21, 1, 200)
	for y := 9; y <= 11; y++ {
		for x := 9; x <= 11; x++ {
			img.Set(x, y, 0, 50)
		}
	}

	out := AdaptiveThreshold(img, 255, AdaptiveMean, true, 11, 10)
	require.Equal(t, byte(255), out.At(10, 10, 0))
	require.Equal(t, byte(0), out.At(1, 1, 0))
}

func TestParseThresholdMode(t *testing.T) {
	m, err := ParseThresholdMode("binary_inv")
	require.NoError(t, err)
	require.Equal(t, ThresholdBinaryInv, m)

	_, err = ParseThresholdMode("bogus")
	require.Error(t, err)
}
